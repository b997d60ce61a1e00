package labs

import (
	"fmt"
	"image/color"
	"math"

	"github.com/san-kum/physlab/internal/control"
	"github.com/san-kum/physlab/internal/draw"
	"github.com/san-kum/physlab/internal/engine"
	"github.com/san-kum/physlab/internal/integrators"
	"github.com/san-kum/physlab/internal/physics"
)

const (
	pendulumW = 600.0
	pendulumH = 440.0

	pivotX, pivotY = 300.0, 60.0

	pendulumSubsteps = 8
	historyLen       = 240
)

type Pendulum struct{}

func (Pendulum) Name() string  { return "pendulum" }
func (Pendulum) Title() string { return "Simple Pendulum" }

func (Pendulum) Controls() []control.Spec {
	return []control.Spec{
		{Name: "length", Label: "Length", Unit: "cm", Kind: control.Number, Min: 100, Max: 250, Step: 5, Default: 180},
		{Name: "mass", Label: "Mass", Unit: "kg", Kind: control.Number, Min: 1, Max: 5, Step: 0.5, Default: 1, Precision: 1},
		{Name: "amplitude", Label: "Amplitude", Unit: "deg", Kind: control.Number, Min: 10, Max: 60, Step: 1, Default: 30},
		{Name: "running", Label: "Running", Kind: control.Toggle, Default: 1},
	}
}

func (Pendulum) New(env engine.Env) engine.Sim {
	s := &pendulumSim{rk: integrators.NewRK4()}
	s.Resize(env.Size)
	s.read(env.Params)
	s.restart()
	return s
}

type pendulumSim struct {
	v  view
	rk *integrators.RK4

	lengthCM, mass, amplitude float64
	running                   bool

	model *physics.Pendulum
	x     integrators.State
	t     float64

	ke, pe, total []float64
}

func (s *pendulumSim) Resize(sz draw.Size) { s.v = fit(sz, pendulumW, pendulumH) }

// read loads the controls and reports whether the swing must restart.
func (s *pendulumSim) read(p *control.Params) bool {
	length, amp := p.Get("length"), p.Get("amplitude")
	changed := length != s.lengthCM || amp != s.amplitude
	s.lengthCM, s.amplitude = length, amp
	s.mass = p.Get("mass")
	s.running = p.Bool("running")
	return changed
}

func (s *pendulumSim) restart() {
	s.model = physics.NewPendulum(s.mass, s.lengthCM/100)
	s.x = integrators.State{s.amplitude * math.Pi / 180, 0}
	s.t = 0
	s.ke, s.pe, s.total = s.ke[:0], s.pe[:0], s.total[:0]
}

func (s *pendulumSim) Update(dt float64, p *control.Params) {
	if s.read(p) {
		s.restart()
	}
	s.model.Mass = s.mass
	if s.running && dt > 0 {
		s.x = integrators.Substeps(s.rk, s.model, s.x, s.t, dt, pendulumSubsteps)
		s.t += dt
	}
	ke, pe := s.model.Energies(s.x)
	s.ke = appendCapped(s.ke, ke)
	s.pe = appendCapped(s.pe, pe)
	s.total = appendCapped(s.total, ke+pe)
}

func appendCapped(h []float64, v float64) []float64 {
	if len(h) == historyLen {
		copy(h, h[1:])
		h = h[:historyLen-1]
	}
	return append(h, v)
}

// Angle is the current displacement in degrees.
func (s *pendulumSim) Angle() float64 { return s.x[0] * 180 / math.Pi }

func (s *pendulumSim) Render(dc draw.Context) {
	dc.Clear(palette.bg)
	p := pen{dc: dc, v: s.v}

	p.fill(palette.dim)
	p.fillRect(pivotX-80, pivotY-12, 160, 12)

	l := s.lengthCM * 1.4
	amp := s.amplitude * math.Pi / 180
	p.stroke(palette.grid, 1)
	p.dash(4, 6)
	p.line(pivotX, pivotY, pivotX, pivotY+l+30)
	p.arc(pivotX, pivotY, l, math.Pi/2-amp, math.Pi/2+amp)
	p.dash()

	th := s.x[0]
	bx, by := pivotX+l*math.Sin(th), pivotY+l*math.Cos(th)
	p.stroke(palette.text, 2)
	p.line(pivotX, pivotY, bx, by)
	r := 10 + 4*s.mass
	p.fill(palette.accent)
	p.fillCircle(bx, by, r)
	p.fill(palette.text)
	p.fillCircle(pivotX, pivotY, 4)

	// energy bars
	e := s.model.Energy(integrators.State{amp, 0})
	if e <= 0 {
		e = 1
	}
	ke, pe := s.model.Energies(s.x)
	bars := []struct {
		name string
		v    float64
		c    color.RGBA
	}{{"KE", ke, palette.good}, {"PE", pe, palette.cool}, {"E", ke + pe, palette.beam}}
	for i, b := range bars {
		x := 40 + float64(i)*40
		h := 120 * physics.Clamp(b.v/e, 0, 1)
		p.fill(b.c)
		p.fillRect(x, pendulumH-40-h, 24, h)
		p.fill(palette.dim)
		p.text(x, pendulumH-20, 12, b.name)
	}

	p.fill(palette.text)
	p.text(420, pendulumH-60, 13, fmt.Sprintf("T0 = %.2f s", s.model.Period()))
	p.text(420, pendulumH-40, 13, fmt.Sprintf("theta = %+.1f deg", s.Angle()))
	if !s.running {
		p.fill(palette.dim)
		p.text(420, pendulumH-20, 13, "paused")
	}
}

func (s *pendulumSim) Readouts() []engine.Readout {
	ke, pe := s.model.Energies(s.x)
	return []engine.Readout{
		{Label: "angle", Value: s.Angle(), Unit: "deg"},
		{Label: "KE", Value: ke, Unit: "J"},
		{Label: "PE", Value: pe, Unit: "J"},
		{Label: "total", Value: ke + pe, Unit: "J"},
		{Label: "period", Value: s.model.Period(), Unit: "s"},
	}
}

func (s *pendulumSim) Series() []engine.Series {
	clone := func(h []float64) []float64 { return append([]float64(nil), h...) }
	return []engine.Series{
		{Name: "KE", Values: clone(s.ke)},
		{Name: "PE", Values: clone(s.pe)},
		{Name: "total", Values: clone(s.total)},
	}
}
