package viz

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit   key.Binding
	Back   key.Binding
	Pause  key.Binding
	Next   key.Binding
	Prev   key.Binding
	Inc    key.Binding
	Dec    key.Binding
	Reset  key.Binding
	Theme  key.Binding
	Chart  key.Binding
	Record key.Binding
	Help   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "labs"), key.WithDisabled()),
		Pause:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
		Next:   key.NewBinding(key.WithKeys("tab", "down", "j"), key.WithHelp("tab/j", "next control")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "up", "k"), key.WithHelp("k", "prev control")),
		Inc:    key.NewBinding(key.WithKeys("right", "l", "+", "="), key.WithHelp("l/→", "increase")),
		Dec:    key.NewBinding(key.WithKeys("left", "h", "-"), key.WithHelp("h/←", "decrease")),
		Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		Theme:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Chart:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "chart")),
		Record: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "record gif")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Inc, k.Dec, k.Pause, k.Back, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Inc, k.Dec},
		{k.Pause, k.Reset, k.Chart, k.Record},
		{k.Theme, k.Back, k.Help, k.Quit},
	}
}

// reserved reports whether s is taken by a binding, so lab axis keys never
// shadow the host's own.
func (k keyMap) reserved(s string) bool {
	for _, row := range k.FullHelp() {
		for _, b := range row {
			for _, bk := range b.Keys() {
				if bk == s {
					return true
				}
			}
		}
	}
	return false
}
