package viz

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/physlab/internal/control"
	"github.com/san-kum/physlab/internal/engine"
	"github.com/san-kum/physlab/internal/labs"
)

const tick = 16 * time.Millisecond

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var _ = Describe("Model", func() {
	var (
		m     Model
		clock time.Time
		opts  Options
	)

	send := func(msg tea.Msg) tea.Cmd {
		next, cmd := m.Update(msg)
		m = next.(Model)
		return cmd
	}
	frame := func() tea.Cmd {
		clock = clock.Add(tick)
		return send(tickMsg{at: clock, gen: m.gen})
	}
	open := func(lab engine.Lab) {
		m = NewModel(lab, opts)
		clock = time.Now()
		m.now = func() time.Time { return clock }
	}

	BeforeEach(func() {
		opts = Options{Seed: 1, Logger: slog.New(slog.DiscardHandler), RecordDir: GinkgoT().TempDir()}
	})

	AfterEach(func() {
		m.Stop()
	})

	It("fires one frame per tick and asks for the next", func() {
		open(labs.Circuit{})
		Expect(frame()).NotTo(BeNil())
		Expect(frame()).NotTo(BeNil())
		Expect(m.Controller().Stats().Frames).To(Equal(2))
	})

	It("ignores ticks meant for another model", func() {
		open(labs.Circuit{})
		Expect(send(tickMsg{at: clock.Add(tick), gen: m.gen + 1})).To(BeNil())
		Expect(m.Controller().Stats().Frames).To(BeZero())
	})

	It("holds frames while paused", func() {
		open(labs.Circuit{})
		frame()
		send(keyMsg(" "))
		frame()
		frame()
		Expect(m.Controller().Stats().Frames).To(Equal(1))
		send(keyMsg(" "))
		frame()
		Expect(m.Controller().Stats().Frames).To(Equal(2))
	})

	It("adjusts the selected control and shows the result", func() {
		open(labs.Circuit{})
		send(keyMsg("l"))
		frame()

		v, _ := m.Controller().Control("connected")
		Expect(v).To(Equal(1.0))
		Expect(m.watch.readouts).To(ContainElement(engine.Readout{Label: "current", Value: 1, Unit: "A"}))

		send(keyMsg("j"))
		send(keyMsg("l"))
		frame()
		v, _ = m.Controller().Control("resistance")
		Expect(v).To(Equal(11.0))
	})

	It("synthesises a key release once a key stops repeating", func() {
		open(labs.Faraday{})
		send(keyMsg("d"))
		frame()
		frame()
		frame()
		v, _ := m.Controller().Control("drive")
		Expect(v).To(BeNumerically("~", 0.12, 1e-9))

		send(keyMsg("d"))
		Expect(m.held).To(HaveKey("d"))

		clock = clock.Add(400 * time.Millisecond)
		send(tickMsg{at: clock, gen: m.gen})
		Expect(m.held).To(BeEmpty())
		Expect(m.Controller().Axes()).To(Equal([]control.AxisState{control.AxisReturning}))
	})

	It("leaves keys that are not axis keys alone", func() {
		open(labs.Circuit{})
		send(keyMsg("d"))
		Expect(m.held).To(BeEmpty())
	})

	It("resizes the surface with the terminal", func() {
		open(labs.Wave{})
		send(tea.WindowSizeMsg{Width: 120, Height: 40})
		Expect(m.canvas.Width).To(Equal(78))
		Expect(m.canvas.Height).To(Equal(35))
		Expect(m.surf.Size().W).To(Equal(156.0))
		Expect(m.surf.Size().H).To(Equal(140.0))
		frame()
		Expect(m.surf.List().Size()).To(Equal(m.canvas.Dots()))
	})

	It("restarts with the current settings", func() {
		open(labs.Circuit{})
		send(keyMsg("l"))
		frame()
		old := m.Controller()

		send(keyMsg("r"))
		Expect(old.Stopped()).To(BeTrue())
		Expect(m.Controller()).NotTo(BeIdenticalTo(old))
		Expect(m.Controller().Stats().Frames).To(BeZero())
		v, _ := m.Controller().Control("connected")
		Expect(v).To(Equal(1.0))
	})

	It("records a gif between two presses of g", func() {
		open(labs.Wave{})
		Expect(send(keyMsg("g"))).To(BeNil())
		for i := 0; i < 4; i++ {
			frame()
		}
		Expect(m.watch.rec.Len()).To(Equal(2))

		cmd := send(keyMsg("g"))
		Expect(cmd).NotTo(BeNil())
		saved, ok := cmd().(savedMsg)
		Expect(ok).To(BeTrue())
		Expect(saved.err).NotTo(HaveOccurred())
		Expect(filepath.Dir(saved.path)).To(Equal(opts.RecordDir))
		info, err := os.Stat(saved.path)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Size()).To(BeNumerically(">", 0))

		send(saved)
		Expect(m.status).To(HavePrefix("saved "))
	})

	It("renders the title, controls and readouts", func() {
		open(labs.Pendulum{})
		for i := 0; i < 5; i++ {
			frame()
		}
		view := m.View()
		Expect(view).To(ContainSubstring("CONTROLS"))
		Expect(view).To(ContainSubstring("READOUTS"))
		Expect(view).To(ContainSubstring("Length"))
	})

	It("switches from the lab's series to readout history and back", func() {
		open(labs.Pendulum{})
		for i := 0; i < 3; i++ {
			frame()
		}
		Expect(m.chart()).To(ContainSubstring("KE / PE / total"))

		send(keyMsg("c"))
		Expect(m.watch.pinned).To(BeTrue())
		label, _ := m.watch.charted()
		Expect(label).To(Equal("angle"))
		Expect(m.chart()).NotTo(ContainSubstring("KE / PE / total"))

		for range len(m.watch.labels) {
			send(keyMsg("c"))
		}
		Expect(m.watch.pinned).To(BeFalse())
		Expect(m.chart()).To(ContainSubstring("KE / PE / total"))
	})

	It("cycles themes", func() {
		open(labs.Circuit{})
		send(keyMsg("t"))
		Expect(m.theme.Name).To(Equal("retro"))
	})

	It("stops the lab on quit", func() {
		open(labs.Circuit{})
		cmd := send(keyMsg("q"))
		Expect(cmd()).To(Equal(tea.Quit()))
		Expect(m.Controller().Stopped()).To(BeTrue())
	})
})

var _ = Describe("App", func() {
	var app App

	send := func(msg tea.Msg) tea.Cmd {
		next, cmd := app.Update(msg)
		app = next.(App)
		return cmd
	}

	BeforeEach(func() {
		app = NewApp(labs.NewRegistry(), Options{Seed: 1, Logger: slog.New(slog.DiscardHandler)})
		send(tea.WindowSizeMsg{Width: 120, Height: 40})
	})

	AfterEach(func() {
		app.Stop()
	})

	It("lists every lab", func() {
		Expect(app.list.Items()).To(HaveLen(len(labs.NewRegistry().List())))
	})

	It("opens the selected lab and returns on esc", func() {
		send(keyMsg("enter"))
		Expect(app.live).NotTo(BeNil())
		Expect(app.live.lab.Name()).To(Equal("refraction"))
		Expect(app.live.canvas.Width).To(Equal(78))
		ctrl := app.live.Controller()

		send(keyMsg("esc"))
		Expect(app.live).To(BeNil())
		Expect(ctrl.Stopped()).To(BeTrue())
	})

	It("forwards keys to the open lab", func() {
		send(keyMsg("enter"))
		send(keyMsg(" "))
		Expect(app.live.paused).To(BeTrue())
	})

	It("quits from the list", func() {
		Expect(send(keyMsg("q"))()).To(Equal(tea.Quit()))
	})
})
