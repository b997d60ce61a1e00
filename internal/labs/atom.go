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
	atomW = 1100.0
	atomH = 820.0

	// animation ticks per second; orbital speeds are in radians per tick
	atomTicks = 60.0
)

var atomShells = [3]struct {
	r    float64
	tilt float64
}{{90, 0.5}, {150, 0.7}, {220, 0.9}}

type Atom struct{}

func (Atom) Name() string  { return "atom" }
func (Atom) Title() string { return "Atomic Excitation" }

func (Atom) Controls() []control.Spec {
	return []control.Spec{
		{Name: "energy", Label: "Excitation energy", Kind: control.Number, Min: 0, Max: 1, Step: 0.01, Default: 0.3, Precision: 2},
		{Name: "view3d", Label: "Pseudo-3D view", Kind: control.Toggle, Default: 1},
	}
}

func (Atom) New(env engine.Env) engine.Sim {
	s := &atomSim{}
	s.Resize(env.Size)
	s.Update(0, env.Params)
	return s
}

type atomSim struct {
	v      view
	t      float64
	energy float64
	tilted bool
}

func (s *atomSim) Resize(sz draw.Size) { s.v = fit(sz, atomW, atomH) }

func (s *atomSim) Update(dt float64, p *control.Params) {
	s.energy, s.tilted = p.Get("energy"), p.Bool("view3d")
	s.t += dt * atomTicks
}

// Shell is the principal quantum number of the excited electron.
func (s *atomSim) Shell() int { return physics.Level(s.energy) + 1 }

func (s *atomSim) tilt(i int) float64 {
	if !s.tilted {
		return 1
	}
	return atomShells[i].tilt
}

func (s *atomSim) electron(shell int, speed, phase float64, c draw.Point) draw.Point {
	a := s.t*speed + phase
	r := atomShells[shell].r
	return draw.Point{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)*s.tilt(shell)}
}

func (s *atomSim) Render(dc draw.Context) {
	dc.Clear(palette.bg)
	p := pen{dc: dc, v: s.v}
	c := draw.Point{X: atomW / 2, Y: atomH / 2}

	for i, sh := range atomShells {
		orbit := make([]draw.Point, 0, 73)
		for k := 0; k <= 72; k++ {
			a := float64(k) * 2 * math.Pi / 72
			orbit = append(orbit, draw.Point{X: c.X + sh.r*math.Cos(a), Y: c.Y + sh.r*math.Sin(a)*s.tilt(i)})
		}
		p.stroke(draw.Alpha(palette.cool, 0.45), 2)
		p.polyline(orbit...)
		p.fill(palette.dim)
		p.text(c.X+sh.r+10, c.Y+4, 14, fmt.Sprintf("n = %d", i+1))
	}

	// nucleus: protons red, neutrons grey
	for _, n := range []struct {
		dx, dy float64
		proton bool
	}{{-8, -6, true}, {8, -6, false}, {-6, 8, false}, {6, 8, true}, {0, 0, true}} {
		p.fill(palette.dim)
		if n.proton {
			p.fill(palette.bad)
		}
		p.fillCircle(c.X+n.dx, c.Y+n.dy, 6)
	}
	p.fill(palette.text)
	p.text(c.X-55, c.Y+38, 14, "nucleus (p+, n0)")

	p.fill(palette.accent)
	for _, e := range []struct {
		shell        int
		speed, phase float64
	}{{1, 0.03, 0}, {1, 0.03, math.Pi}, {2, 0.02, 0.5}, {2, 0.02, math.Pi + 0.5}} {
		q := s.electron(e.shell, e.speed, e.phase, c)
		p.fillCircle(q.X, q.Y, 6)
	}

	active := s.Shell() - 1
	q := s.electron(active, 0.05+s.energy*0.04, 0, c)
	p.fill(palette.gold)
	p.fillCircle(q.X, q.Y, 7)

	r := atomShells[active].r
	p.stroke(palette.gold, 2)
	p.dash(6, 6)
	p.line(c.X, c.Y, c.X, c.Y-r)
	p.dash()
	label := "2D Bohr excitation"
	if s.tilted {
		label = "pseudo-3D excitation"
	}
	p.fill(palette.gold)
	p.text(c.X+12, c.Y-r/2, 14, label)
	p.text(20, 30, 16, fmt.Sprintf("E = %.2f  ->  n = %d", s.energy, s.Shell()))
}

func (s *atomSim) Readouts() []engine.Readout {
	mode := "2D"
	if s.tilted {
		mode = "3D"
	}
	return []engine.Readout{
		{Label: "energy", Value: s.energy},
		{Label: "shell", Value: float64(s.Shell())},
		{Label: "view", Text: mode},
	}
}
