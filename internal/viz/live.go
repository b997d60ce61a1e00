package viz

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/physlab/internal/control"
	"github.com/san-kum/physlab/internal/draw"
	"github.com/san-kum/physlab/internal/engine"
	"github.com/san-kum/physlab/internal/export"
)

const (
	defaultWidth    = 100
	defaultHeight   = 30
	panelWidth      = 40
	historyCapacity = 240
	recordMax       = 600
)

// Options configure a live session.
type Options struct {
	FPS       int
	MaxStep   time.Duration
	KeyHold   time.Duration
	Theme     string
	Seed      int64
	Overrides map[string]float64
	Logger    *slog.Logger
	// RecordDir is where recorded GIFs are written.
	RecordDir string
}

func (o Options) withDefaults() Options {
	if o.FPS <= 0 {
		o.FPS = 60
	}
	if o.KeyHold <= 0 {
		o.KeyHold = 300 * time.Millisecond
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.RecordDir == "" {
		o.RecordDir = "."
	}
	return o
}

var generation atomic.Uint64

// tickMsg drives one frame. gen ties it to the model that asked for it so
// a model left behind by the picker stops ticking.
type tickMsg struct {
	at  time.Time
	gen uint64
}

type savedMsg struct {
	path string
	err  error
}

// Model hosts one running lab. Terminal ticks fire the controller's frames
// on a manual scheduler; terminals report key presses but not releases, so
// a release is synthesised once a key has not repeated for KeyHold.
type Model struct {
	lab  engine.Lab
	opts Options
	gen  uint64
	now  func() time.Time

	sched  *engine.ManualScheduler
	win    *engine.Window
	surf   *draw.Surface
	ctrl   *engine.Controller
	panel  *control.Surface
	canvas *Canvas
	watch  *watcher

	axisKeys map[string]bool
	held     map[string]time.Time

	theme  Theme
	styles Styles
	keys   keyMap
	help   help.Model
	bar    progress.Model

	width, height int
	paused        bool
	status        string
}

func NewModel(lab engine.Lab, opts Options) Model {
	opts = opts.withDefaults()
	theme := GetTheme(opts.Theme)
	m := Model{
		lab:    lab,
		opts:   opts,
		gen:    generation.Add(1),
		now:    time.Now,
		theme:  theme,
		styles: NewStyles(theme),
		keys:   newKeyMap(),
		help:   help.New(),
		bar: progress.New(
			progress.WithScaledGradient(string(theme.Primary), string(theme.Secondary)),
			progress.WithoutPercentage(),
			progress.WithWidth(panelWidth-6),
		),
		width:    defaultWidth,
		height:   defaultHeight,
		axisKeys: make(map[string]bool),
		held:     make(map[string]time.Time),
	}
	if kb, ok := lab.(engine.KeyBound); ok {
		for _, a := range kb.Axes() {
			for _, k := range []string{a.DecKey, a.IncKey} {
				if k = strings.ToLower(k); k != "" && !m.keys.reserved(k) {
					m.axisKeys[k] = true
				}
			}
		}
	}
	m.start(opts.Overrides)
	return m
}

func (m *Model) start(overrides map[string]float64) {
	cols, rows := m.canvasCells()
	m.canvas = NewCanvas(cols, rows)
	dots := m.canvas.Dots()

	m.sched = engine.NewManualScheduler(m.now())
	m.win = engine.NewWindow()
	m.surf = draw.NewSurface(dots.W, dots.H)
	m.watch = newWatcher()

	opts := []engine.Option{
		engine.WithOverrides(overrides),
		engine.WithLogger(m.opts.Logger),
		engine.WithObserver(m.watch),
	}
	if m.opts.Seed != 0 {
		opts = append(opts, engine.WithSeed(m.opts.Seed))
	}
	if m.opts.MaxStep > 0 {
		opts = append(opts, engine.MaxStep(m.opts.MaxStep))
	}
	m.ctrl = engine.Start(m.surf, m.lab, m.sched, m.win, opts...)
	m.panel = control.NewSurface(m.lab.Controls(), m.ctrl)
	m.held = make(map[string]time.Time)
}

// canvasCells leaves room for the side panel, the header and the help line.
func (m *Model) canvasCells() (cols, rows int) {
	return max(m.width-panelWidth-2, 10), max(m.height-5, 4)
}

func (m Model) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg {
		return tickMsg{at: t, gen: gen}
	})
}

func (m Model) Init() tea.Cmd { return m.tick() }

// Controller exposes the running controller.
func (m Model) Controller() *engine.Controller { return m.ctrl }

func (m Model) Stop() {
	m.ctrl.Stop()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.frame(msg.at)
		return m, m.tick()

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.status = "record failed: " + msg.err.Error()
			m.opts.Logger.Error("gif not saved", "err", msg.err)
		} else {
			m.status = "saved " + msg.path
			m.opts.Logger.Info("gif saved", "path", msg.path)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) frame(now time.Time) {
	if !m.paused {
		m.sched.Fire(now)
	}
	m.releaseKeys(now)
	m.panel.Refresh()
	m.canvas.Replay(m.surf.List())
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	cols, rows := m.canvasCells()
	m.canvas = NewCanvas(cols, rows)
	dots := m.canvas.Dots()
	m.surf.Resize(dots.W, dots.H)
	m.win.Dispatch(engine.Event{Kind: engine.EventResize, Size: dots})
	m.help.Width = w
	m.canvas.Replay(m.surf.List())
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Stop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
	case key.Matches(msg, m.keys.Next):
		m.panel.Select(1)
	case key.Matches(msg, m.keys.Prev):
		m.panel.Select(-1)
	case key.Matches(msg, m.keys.Inc):
		m.adjust(1)
	case key.Matches(msg, m.keys.Dec):
		m.adjust(-1)
	case key.Matches(msg, m.keys.Reset):
		m.restart()
	case key.Matches(msg, m.keys.Theme):
		m.theme = NextTheme(m.theme)
		m.styles = NewStyles(m.theme)
		m.bar = progress.New(
			progress.WithScaledGradient(string(m.theme.Primary), string(m.theme.Secondary)),
			progress.WithoutPercentage(),
			progress.WithWidth(panelWidth-6),
		)
	case key.Matches(msg, m.keys.Chart):
		m.watch.cycle(len(m.ctrl.Series()) > 0)
	case key.Matches(msg, m.keys.Record):
		return m, m.toggleRecord()
	default:
		m.pressAxis(msg.String())
	}
	return m, nil
}

func (m *Model) adjust(steps int) {
	if _, err := m.panel.Adjust(steps); err != nil {
		m.status = err.Error()
	}
}

// restart rebuilds the lab from scratch with the current settings.
func (m *Model) restart() {
	vals := m.ctrl.Controls()
	rec := m.watch.rec
	m.ctrl.Stop()
	m.start(vals)
	m.watch.rec = rec
	m.status = "restarted"
}

func (m *Model) pressAxis(k string) {
	k = strings.ToLower(k)
	if !m.axisKeys[k] {
		return
	}
	if _, down := m.held[k]; !down {
		m.win.Dispatch(engine.Event{Kind: engine.EventKeyDown, Key: k})
	}
	m.held[k] = m.now()
}

func (m *Model) releaseKeys(now time.Time) {
	for k, at := range m.held {
		if now.Sub(at) >= m.opts.KeyHold {
			m.win.Dispatch(engine.Event{Kind: engine.EventKeyUp, Key: k})
			delete(m.held, k)
		}
	}
}

// toggleRecord starts capturing frames or hands the capture to a command
// that writes it out.
func (m *Model) toggleRecord() tea.Cmd {
	if m.watch.rec == nil {
		rec := export.NewRecorder(640, 360, 2)
		rec.Max = recordMax
		m.watch.rec = rec
		m.status = "recording"
		return nil
	}
	rec := m.watch.rec
	m.watch.rec = nil
	m.status = "encoding gif"
	path := filepath.Join(m.opts.RecordDir, fmt.Sprintf("%s-%s.gif", m.lab.Name(), m.now().Format("20060102-150405")))
	return func() tea.Msg {
		var buf bytes.Buffer
		if err := rec.Encode(&buf); err != nil {
			return savedMsg{path: path, err: err}
		}
		return savedMsg{path: path, err: os.WriteFile(path, buf.Bytes(), 0o644)}
	}
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(m.styles.Header.Render(GradientText(strings.ToUpper(m.lab.Title()), m.theme.Primary, m.theme.Secondary)+"  "+m.statusLine()) + "\n")
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.canvas.Render(), m.styles.Panel.Render(m.panelView())))
	s.WriteString("\n" + m.help.View(m.keys))
	return s.String()
}

func (m Model) statusLine() string {
	if err := m.ctrl.Err(); err != nil {
		return m.styles.Error.Render("HALTED " + err.Error())
	}
	var parts []string
	if m.paused {
		parts = append(parts, m.styles.Paused.Render("PAUSED"))
	} else {
		parts = append(parts, m.styles.Running.Render("RUNNING"))
	}
	if m.watch.rec != nil {
		parts = append(parts, m.styles.Recording.Render(fmt.Sprintf("● REC %d", m.watch.rec.Len())))
	}
	st := m.ctrl.Stats()
	parts = append(parts, m.styles.Hint.Render(fmt.Sprintf("t=%.1fs frame %d", st.Elapsed.Seconds(), st.Frames)))
	if m.status != "" {
		parts = append(parts, m.styles.Hint.Render(m.status))
	}
	return strings.Join(parts, "  ")
}

func (m Model) panelView() string {
	var s strings.Builder
	s.WriteString(m.styles.Section.Render("CONTROLS") + "\n")
	selected, _ := m.panel.Selected()
	for _, sp := range m.panel.Specs() {
		marker, label := "  ", m.styles.Label.Render(sp.Label)
		if sp.Name == selected.Name {
			marker, label = m.styles.Active.Render("▸ "), m.styles.Active.Width(14).Render(sp.Label)
		}
		s.WriteString(marker + label + m.styles.Value.Render(m.panel.Display(sp.Name)) + "\n")
		if sp.Name == selected.Name && sp.Kind == control.Number {
			v, _ := m.panel.Value(sp.Name)
			lo, hi := sp.Bounds()
			frac := 0.0
			if hi > lo {
				frac = (v - lo) / (hi - lo)
			}
			s.WriteString("  " + m.bar.ViewAs(frac) + "\n")
		}
	}

	s.WriteString(m.styles.Section.Render("READOUTS") + "\n")
	for _, r := range m.watch.readouts {
		s.WriteString("  " + m.styles.Label.Render(r.Label) + m.styles.Value.Render(r.String()) + "\n")
	}

	if chart := m.chart(); chart != "" {
		s.WriteString(m.styles.Graph.Render(chart))
	}
	return s.String()
}

// chart plots the lab's own series when it keeps any, else the history of
// the selected readout. Cycling past the last readout returns to the series.
func (m Model) chart() string {
	width := panelWidth - 12
	if series := m.ctrl.Series(); len(series) > 0 && !m.watch.pinned {
		var data [][]float64
		var names []string
		for _, sr := range series {
			if len(sr.Values) >= 2 {
				data = append(data, sr.Values)
				names = append(names, sr.Name)
			}
		}
		if len(data) > 0 {
			return "\n" + asciigraph.PlotMany(data,
				asciigraph.Height(6),
				asciigraph.Width(width),
				asciigraph.Caption(strings.Join(names, " / ")),
			)
		}
	}
	label, values := m.watch.charted()
	if len(values) < 2 {
		return ""
	}
	return "\n" + asciigraph.Plot(values,
		asciigraph.Height(6),
		asciigraph.Width(width),
		asciigraph.Caption(label),
	)
}

// watcher is the model's frame observer: it keeps the latest readouts, a
// short history of each numeric one, and feeds the recorder when set.
type watcher struct {
	readouts []engine.Readout
	labels   []string
	history  map[string][]float64
	selected int
	// pinned shows readout history even when the lab keeps series.
	pinned bool
	rec    *export.Recorder
}

func newWatcher() *watcher {
	return &watcher{history: make(map[string][]float64)}
}

func (w *watcher) OnFrame(f engine.Frame) {
	w.readouts = f.Readouts
	for _, r := range f.Readouts {
		if r.Text != "" {
			continue
		}
		h, seen := w.history[r.Label]
		if !seen {
			w.labels = append(w.labels, r.Label)
		}
		h = append(h, r.Value)
		if len(h) > historyCapacity {
			h = h[len(h)-historyCapacity:]
		}
		w.history[r.Label] = h
	}
	if w.rec != nil {
		w.rec.OnFrame(f)
	}
}

func (w *watcher) cycle(series bool) {
	if len(w.labels) == 0 {
		return
	}
	if series && !w.pinned {
		w.pinned, w.selected = true, 0
		return
	}
	w.selected = (w.selected + 1) % len(w.labels)
	if series && w.selected == 0 {
		w.pinned = false
	}
}

func (w *watcher) charted() (string, []float64) {
	if len(w.labels) == 0 {
		return "", nil
	}
	label := w.labels[w.selected%len(w.labels)]
	return label, w.history[label]
}

// Run opens lab full screen until the user quits.
func Run(lab engine.Lab, opts Options) error {
	final, err := tea.NewProgram(NewModel(lab, opts), tea.WithAltScreen()).Run()
	if m, ok := final.(Model); ok {
		m.Stop()
	}
	return err
}
