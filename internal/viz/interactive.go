package viz

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/physlab/internal/labs"
)

type labItem struct {
	name, title string
}

func (i labItem) Title() string       { return i.name }
func (i labItem) Description() string { return i.title }
func (i labItem) FilterValue() string { return i.name }

// App is the lab picker. Choosing a lab hands the screen to a live Model;
// esc stops it and comes back here.
type App struct {
	registry *labs.Registry
	opts     Options
	list     list.Model
	live     *Model

	width, height int
}

func NewApp(registry *labs.Registry, opts Options) App {
	theme := GetTheme(opts.Theme)
	items := make([]list.Item, 0, len(registry.List()))
	for _, lab := range registry.Labs() {
		items = append(items, labItem{name: lab.Name(), title: lab.Title()})
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(theme.Primary).
		BorderLeftForeground(theme.Secondary)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(theme.Muted).
		BorderLeftForeground(theme.Secondary)

	l := list.New(items, delegate, defaultWidth, defaultHeight)
	l.Title = "PHYSLAB"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = lipgloss.NewStyle().Bold(true).Foreground(theme.Text).Background(theme.Border).Padding(0, 1)

	return App{registry: registry, opts: opts, list: l}
}

func (a App) Init() tea.Cmd {
	return tea.SetWindowTitle("physlab")
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		a.width, a.height = size.Width, size.Height
		a.list.SetSize(size.Width, size.Height)
	}
	if a.live != nil {
		return a.updateLive(msg)
	}

	if k, ok := msg.(tea.KeyMsg); ok && a.list.FilterState() != list.Filtering {
		switch k.String() {
		case "q", "ctrl+c":
			return a, tea.Quit
		case "enter":
			item, ok := a.list.SelectedItem().(labItem)
			if !ok {
				break
			}
			return a.open(item.name)
		}
	}

	var cmd tea.Cmd
	a.list, cmd = a.list.Update(msg)
	return a, cmd
}

func (a App) open(name string) (tea.Model, tea.Cmd) {
	lab, err := a.registry.Get(name)
	if err != nil {
		return a, a.list.NewStatusMessage(err.Error())
	}
	m := NewModel(lab, a.opts)
	m.keys.Back.SetEnabled(true)
	if a.width > 0 && a.height > 0 {
		m.resize(a.width, a.height)
	}
	a.live = &m
	return a, tea.Batch(m.Init(), tea.SetWindowTitle("physlab: "+lab.Title()))
}

func (a App) updateLive(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		a.live.Stop()
		a.live = nil
		return a, tea.SetWindowTitle("physlab")
	}
	next, cmd := a.live.Update(msg)
	m := next.(Model)
	a.live = &m
	return a, cmd
}

func (a App) View() string {
	if a.live != nil {
		return a.live.View()
	}
	return a.list.View()
}

// Stop halts the open lab, if any.
func (a App) Stop() {
	if a.live != nil {
		a.live.Stop()
	}
}

// RunInteractive opens the picker full screen.
func RunInteractive(registry *labs.Registry, opts Options) error {
	final, err := tea.NewProgram(NewApp(registry, opts), tea.WithAltScreen()).Run()
	if app, ok := final.(App); ok {
		app.Stop()
	}
	return err
}
