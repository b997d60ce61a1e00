package labs

import (
	"fmt"
	"math"

	"github.com/san-kum/physlab/internal/control"
	"github.com/san-kum/physlab/internal/draw"
	"github.com/san-kum/physlab/internal/engine"
	"github.com/san-kum/physlab/internal/physics"
)

const (
	wiresW = 700.0
	wiresH = 520.0

	wireLeft, wireRight = 260.0, 440.0
	maxBend             = 60.0
)

type Wires struct{}

func (Wires) Name() string  { return "wires" }
func (Wires) Title() string { return "Force Between Parallel Currents" }

func (Wires) Controls() []control.Spec {
	return []control.Spec{
		{Name: "direction", Label: "Currents", Kind: control.Enum, Options: []string{"same", "opposite"}},
		{Name: "intensity", Label: "Current", Kind: control.Number, Min: 0, Max: 1, Step: 0.02, Default: 0.3, Precision: 2},
	}
}

// Axes binds the current to A and D. The value holds where it is left.
func (Wires) Axes() []control.AxisSpec {
	return []control.AxisSpec{{Param: "intensity", DecKey: "a", IncKey: "d", Step: 0.02}}
}

func (Wires) New(env engine.Env) engine.Sim {
	s := &wiresSim{}
	s.Resize(env.Size)
	s.read(env.Params)
	return s
}

type wiresSim struct {
	v view
	t float64

	same      bool
	intensity float64
	force     float64
}

func (s *wiresSim) Resize(sz draw.Size) { s.v = fit(sz, wiresW, wiresH) }

func (s *wiresSim) read(p *control.Params) {
	s.same = p.Option("direction") == "same"
	s.intensity = p.Get("intensity")
	s.force = physics.WireForce(s.intensity, s.intensity, s.same)
}

func (s *wiresSim) Update(dt float64, p *control.Params) {
	s.t += dt
	s.read(p)
}

// Force is positive when the wires attract.
func (s *wiresSim) Force() float64 { return s.force }

// bends returns the sideways bow of each wire; attraction bows them
// toward each other.
func (s *wiresSim) bends() (left, right float64) {
	f := s.force * maxBend
	return f, -f
}

func (s *wiresSim) Render(dc draw.Context) {
	dc.Clear(palette.bg)
	p := pen{dc: dc, v: s.v}
	cy := wiresH / 2
	bl, br := s.bends()

	s.drawField(p, wireLeft+bl*0.5, cy, false)
	s.drawField(p, wireRight+br*0.5, cy, !s.same)
	s.drawWire(p, wireLeft, bl)
	s.drawWire(p, wireRight, br)

	for i, x := range []float64{wireLeft, wireRight} {
		up := i == 0 || s.same
		y0, y1 := 60.0, 30.0
		if !up {
			y0, y1 = 30, 60
		}
		p.stroke(palette.beam, 2)
		p.arrow(x, y0, x, y1, 8)
	}

	word := "attract"
	if !s.same {
		word = "repel"
	}
	p.fill(palette.text)
	p.text(20, wiresH-20, 13, fmt.Sprintf("I = %.2f  wires %s", s.intensity, word))
	p.fill(palette.dim)
	p.text(wiresW-220, wiresH-20, 12, "A / D change the current")
}

func (s *wiresSim) drawWire(p pen, x0, bend float64) {
	const top, bottom = 80.0, wiresH - 80
	pts := make([]draw.Point, 0, 61)
	for i := 0; i <= 60; i++ {
		f := float64(i) / 60
		pts = append(pts, draw.Point{X: x0 + bend*math.Sin(math.Pi*f), Y: top + f*(bottom-top)})
	}
	p.stroke(palette.dim, 8)
	p.polyline(pts...)
}

// drawField rings a wire with its magnetic field and markers circulating
// in the field's sense.
func (s *wiresSim) drawField(p pen, cx, cy float64, clockwise bool) {
	for i := 0; i < 9; i++ {
		rx, ry := 40+float64(i)*4, 22+float64(i)*2
		back := ellipse(cx, cy, rx, ry, -math.Pi/2, math.Pi/2)
		front := ellipse(cx, cy, rx, ry, math.Pi/2, 1.5*math.Pi)
		p.stroke(draw.Alpha(palette.accent, 0.3), 2)
		p.polyline(back...)
		p.stroke(draw.Alpha(palette.accent, 0.7), 3)
		p.polyline(front...)
	}
	dir := 1.0
	if clockwise {
		dir = -1
	}
	if s.intensity <= 0 {
		return
	}
	for k := 0; k < 3; k++ {
		a := s.t*1.8*dir + float64(k)*2*math.Pi/3
		p.fill(palette.beam)
		p.fillCircle(cx+50*math.Cos(a), cy+30*math.Sin(a), 5)
	}
}

func ellipse(cx, cy, rx, ry, a0, a1 float64) []draw.Point {
	const n = 24
	pts := make([]draw.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		a := a0 + (a1-a0)*float64(i)/n
		pts = append(pts, draw.Point{X: cx + rx*math.Cos(a), Y: cy + ry*math.Sin(a)})
	}
	return pts
}

func (s *wiresSim) Readouts() []engine.Readout {
	state := "attract"
	if s.force < 0 {
		state = "repel"
	} else if s.force == 0 {
		state = "no force"
	}
	return []engine.Readout{
		{Label: "current", Value: s.intensity, Unit: "A"},
		{Label: "force", Value: s.force},
		{Label: "wires", Text: state},
	}
}
