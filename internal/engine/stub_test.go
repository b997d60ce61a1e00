package engine_test

import (
	"github.com/san-kum/physlab/internal/control"
	"github.com/san-kum/physlab/internal/draw"
	"github.com/san-kum/physlab/internal/engine"
)

// stubLab is a minimal lab whose sim records what the loop hands it.
type stubLab struct {
	sims []*stubSim
}

func (l *stubLab) Name() string  { return "stub" }
func (l *stubLab) Title() string { return "Stub" }

func (l *stubLab) Controls() []control.Spec {
	return []control.Spec{
		{Name: "angle", Kind: control.Number, Min: 5, Max: 75, Step: 1, Default: 40},
		{Name: "drive", Kind: control.Number, Min: -1, Max: 1, Default: 0},
		{Name: "boom", Kind: control.Toggle},
	}
}

func (l *stubLab) Axes() []control.AxisSpec {
	return []control.AxisSpec{{Param: "drive", DecKey: "a", IncKey: "d", Step: 0.04, Return: 0.02}}
}

func (l *stubLab) New(env engine.Env) engine.Sim {
	s := &stubSim{size: env.Size}
	l.sims = append(l.sims, s)
	return s
}

type stubSim struct {
	size    draw.Size
	resizes int
	updates int
	renders int
	dts     []float64
	angle   float64
	drive   float64
	boom    bool
}

func (s *stubSim) Update(dt float64, p *control.Params) {
	s.updates++
	s.dts = append(s.dts, dt)
	s.angle = p.Get("angle")
	s.drive = p.Get("drive")
	s.boom = p.Bool("boom")
}

func (s *stubSim) Render(dc draw.Context) {
	if s.boom {
		panic("stub exploded")
	}
	s.renders++
	dc.Clear(draw.Hex("#000"))
	dc.Line(0, 0, s.angle, s.angle)
}

func (s *stubSim) Resize(sz draw.Size) {
	s.resizes++
	s.size = sz
}

func (s *stubSim) Readouts() []engine.Readout {
	return []engine.Readout{{Label: "angle", Value: s.angle, Unit: "deg"}}
}

func (l *stubLab) last() *stubSim { return l.sims[len(l.sims)-1] }
