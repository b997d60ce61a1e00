package labs

import (
	"math"

	"github.com/san-kum/physlab/internal/control"
	"github.com/san-kum/physlab/internal/draw"
	"github.com/san-kum/physlab/internal/engine"
	"github.com/san-kum/physlab/internal/physics"
)

const (
	waveW = 600.0
	waveH = 300.0

	// phase advance per second
	waveSpeed = 3.0
)

type Wave struct{}

func (Wave) Name() string  { return "wave" }
func (Wave) Title() string { return "Wave Superposition and Interference" }

func (Wave) Controls() []control.Spec {
	return []control.Spec{
		{Name: "amp1", Label: "Amplitude 1", Kind: control.Number, Min: 0, Max: 80, Step: 1, Default: 50},
		{Name: "amp2", Label: "Amplitude 2", Kind: control.Number, Min: 0, Max: 80, Step: 1, Default: 50},
		{Name: "phase", Label: "Phase difference", Unit: "rad", Kind: control.Number, Min: 0, Max: 2 * math.Pi, Step: 0.1, Default: math.Pi, Precision: 2},
		{Name: "freq", Label: "Frequency", Kind: control.Number, Min: 0.005, Max: 0.05, Step: 0.001, Default: 0.02, Precision: 3},
	}
}

func (Wave) New(env engine.Env) engine.Sim {
	s := &waveSim{}
	s.Resize(env.Size)
	s.read(env.Params)
	return s
}

type waveSim struct {
	v view
	t float64

	a1, a2, phi, k float64
	kind           physics.Interference
}

func (s *waveSim) Resize(sz draw.Size) { s.v = fit(sz, waveW, waveH) }

func (s *waveSim) read(p *control.Params) {
	s.a1, s.a2 = p.Get("amp1"), p.Get("amp2")
	s.phi, s.k = p.Get("phase"), p.Get("freq")
	s.kind = physics.Classify(s.a1, s.a2, s.phi)
}

func (s *waveSim) Update(dt float64, p *control.Params) {
	s.read(p)
	s.t += dt * waveSpeed
}

// Kind is the current interference classification.
func (s *waveSim) Kind() physics.Interference { return s.kind }

func (s *waveSim) trace(f func(x float64) float64) []draw.Point {
	mid := waveH / 2
	pts := make([]draw.Point, 0, int(waveW/3)+1)
	for x := 0.0; x <= waveW; x += 3 {
		pts = append(pts, draw.Point{X: x, Y: mid + f(x)})
	}
	return pts
}

func (s *waveSim) Render(dc draw.Context) {
	dc.Clear(palette.bg)
	p := pen{dc: dc, v: s.v}

	p.stroke(palette.grid, 1)
	p.line(0, waveH/2, waveW, waveH/2)

	p.stroke(palette.cool, 2)
	p.polyline(s.trace(func(x float64) float64 { return s.a1 * math.Sin(s.k*x+s.t) })...)
	p.stroke(palette.warm, 2)
	p.polyline(s.trace(func(x float64) float64 { return s.a2 * math.Sin(s.k*x+s.t+s.phi) })...)
	p.stroke(palette.bad, 3)
	p.polyline(s.trace(func(x float64) float64 { return physics.Superpose(s.a1, s.a2, s.k, s.phi, x, s.t) })...)

	label := palette.cool
	switch s.kind {
	case physics.Constructive:
		label = palette.good
	case physics.Destructive:
		label = palette.bad
	}
	p.fill(label)
	p.text(12, 24, 14, s.kind.String()+" interference")
}

func (s *waveSim) Readouts() []engine.Readout {
	return []engine.Readout{
		{Label: "interference", Text: s.kind.String()},
		{Label: "resultant", Value: physics.ResultantAmplitude(s.a1, s.a2, s.phi)},
		{Label: "phase", Value: s.phi, Unit: "rad"},
	}
}
