package labs

import (
	"fmt"

	"github.com/san-kum/physlab/internal/control"
	"github.com/san-kum/physlab/internal/draw"
	"github.com/san-kum/physlab/internal/engine"
	"github.com/san-kum/physlab/internal/physics"
)

const (
	orbitalsW = 600.0
	orbitalsH = 560.0

	rowH     = 32.0
	rowTop   = 60.0
	orbBox   = 30.0
	orbBoxX  = 150.0
	orbArrow = 9.0
)

type Orbitals struct{}

func (Orbitals) Name() string  { return "orbitals" }
func (Orbitals) Title() string { return "Orbital Boxes and Aufbau Filling" }

func (Orbitals) Controls() []control.Spec {
	return []control.Spec{
		{Name: "electrons", Label: "Electrons", Kind: control.Number, Min: 0, Max: float64(physics.OrbitalCapacity()), Step: 1, Default: 0},
	}
}

func (Orbitals) New(env engine.Env) engine.Sim {
	s := &orbitalsSim{}
	s.Resize(env.Size)
	s.Update(0, env.Params)
	return s
}

type orbitalsSim struct {
	v     view
	n     int
	boxes [][]int
}

func (s *orbitalsSim) Resize(sz draw.Size) { s.v = fit(sz, orbitalsW, orbitalsH) }

func (s *orbitalsSim) Update(dt float64, p *control.Params) {
	n := int(p.Get("electrons"))
	if s.boxes == nil || n != s.n {
		s.n, s.boxes = n, physics.Fill(n)
	}
}

// Unpaired counts boxes holding a single electron.
func (s *orbitalsSim) Unpaired() int {
	u := 0
	for _, row := range s.boxes {
		for _, b := range row {
			if b == 1 {
				u++
			}
		}
	}
	return u
}

func (s *orbitalsSim) Render(dc draw.Context) {
	dc.Clear(palette.bg)
	p := pen{dc: dc, v: s.v}

	p.fill(palette.text)
	p.text(20, 30, 16, fmt.Sprintf("%d electrons", s.n))

	for i, sub := range physics.Subshells {
		y := rowTop + float64(i)*rowH
		p.fill(palette.dim)
		p.text(20, y+20, 14, fmt.Sprintf("n = %d", sub.N))
		p.fill(palette.text)
		p.text(90, y+20, 14, sub.Label)

		for j, count := range s.boxes[i] {
			x := orbBoxX + float64(j)*(orbBox+4)
			p.stroke(palette.dim, 1)
			p.rect(x, y, orbBox, orbBox-4)
			if count == 0 {
				continue
			}
			mid := y + (orbBox-4)/2
			p.stroke(palette.accent, 2)
			p.arrow(x+10, mid+orbArrow, x+10, mid-orbArrow, 5)
			if count == 2 {
				p.stroke(palette.warm, 2)
				p.arrow(x+20, mid-orbArrow, x+20, mid+orbArrow, 5)
			}
		}
	}
}

func (s *orbitalsSim) Readouts() []engine.Readout {
	return []engine.Readout{
		{Label: "electrons", Value: float64(s.n)},
		{Label: "unpaired", Value: float64(s.Unpaired())},
		{Label: "configuration", Text: physics.Configuration(s.n)},
	}
}
