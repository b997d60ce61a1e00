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
	gravityW = 700.0
	gravityH = 360.0
)

type Gravity struct{}

func (Gravity) Name() string  { return "gravity" }
func (Gravity) Title() string { return "Inverse Square Law" }

func (Gravity) Controls() []control.Spec {
	return []control.Spec{
		{Name: "m1", Label: "Mass 1", Unit: "kg", Kind: control.Number, Min: 1, Max: 10, Step: 1, Default: 5},
		{Name: "m2", Label: "Mass 2", Unit: "kg", Kind: control.Number, Min: 1, Max: 10, Step: 1, Default: 5},
		{Name: "distance", Label: "Distance", Unit: "px", Kind: control.Number, Min: 20, Max: 500, Step: 10, Default: 300},
	}
}

func (Gravity) New(env engine.Env) engine.Sim {
	s := &gravitySim{}
	s.Resize(env.Size)
	s.read(env.Params)
	return s
}

type gravitySim struct {
	v view

	m1, m2 float64
	dist   float64
	force  float64
	pulse  float64
}

func (s *gravitySim) Resize(sz draw.Size) { s.v = fit(sz, gravityW, gravityH) }

func (s *gravitySim) read(p *control.Params) {
	s.m1, s.m2 = p.Get("m1"), p.Get("m2")
	s.dist = p.Get("distance")
	s.force = physics.InverseSquare(physics.Gravitation, s.m1, s.m2, s.dist)
}

func (s *gravitySim) Update(dt float64, p *control.Params) {
	s.read(p)
	s.pulse = math.Mod(s.pulse+dt, 1)
}

// Force is the attraction between the two bodies.
func (s *gravitySim) Force() float64 { return s.force }

// strength normalises the force against the strongest setting on the bench.
func (s *gravitySim) strength() float64 {
	max := physics.InverseSquare(physics.Gravitation, 10, 10, 20)
	return physics.Clamp(math.Sqrt(s.force/max), 0, 1)
}

func (s *gravitySim) Render(dc draw.Context) {
	dc.Clear(palette.bg)
	p := pen{dc: dc, v: s.v}

	cx, cy := gravityW/2, gravityH/2-20
	x1, x2 := cx-s.dist/2, cx+s.dist/2
	r1, r2 := 8+s.m1*2.5, 8+s.m2*2.5

	p.stroke(palette.grid, 1)
	p.dash(4, 6)
	p.line(x1, cy, x2, cy)
	p.dash()

	// field rings fade out with distance from each body
	for k := 1; k <= 3; k++ {
		a := 0.25 * (1 - math.Mod(s.pulse+float64(k)/3, 1))
		p.stroke(draw.Alpha(palette.accent, a), 1)
		p.circle(x1, cy, r1+float64(k)*14)
		p.circle(x2, cy, r2+float64(k)*14)
	}

	p.fill(palette.cool)
	p.fillCircle(x1, cy, r1)
	p.fill(palette.warm)
	p.fillCircle(x2, cy, r2)
	p.fill(palette.text)
	p.text(x1-12, cy+r1+18, 12, fmt.Sprintf("%.0f kg", s.m1))
	p.text(x2-12, cy+r2+18, 12, fmt.Sprintf("%.0f kg", s.m2))

	arrow := 10 + 60*s.strength()
	p.stroke(palette.beam, 3)
	p.arrow(x1+r1, cy, x1+r1+arrow, cy, 8)
	p.arrow(x2-r2, cy, x2-r2-arrow, cy, 8)

	// force bar
	const barX, barY, barW = 100.0, 300.0, 500.0
	p.stroke(palette.dim, 1)
	p.rect(barX, barY, barW, 14)
	p.fill(palette.beam)
	p.fillRect(barX, barY, barW*s.strength(), 14)
	p.fill(palette.text)
	p.text(barX, barY-8, 13, fmt.Sprintf("F = G m1 m2 / r^2 = %.6f", s.force))
}

func (s *gravitySim) Readouts() []engine.Readout {
	return []engine.Readout{
		{Label: "force", Value: s.force},
		{Label: "distance", Value: s.dist, Unit: "px"},
		{Label: "relative", Value: s.strength()},
	}
}
