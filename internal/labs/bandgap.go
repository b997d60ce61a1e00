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
	bandgapW = 1100.0
	bandgapH = 820.0

	// how long a photon burst stays visible after a downward transition
	emissionTime = 0.75
)

// bandgapLevels are the y positions of E0 (valence), E1 and E2 (conduction).
var bandgapLevels = [3]float64{bandgapH/2 + 160, bandgapH/2 + 80, bandgapH/2 - 120}

type Bandgap struct{}

func (Bandgap) Name() string  { return "bandgap" }
func (Bandgap) Title() string { return "Band Gap and Photon Emission" }

func (Bandgap) Controls() []control.Spec {
	return []control.Spec{
		{Name: "energy", Label: "Input energy", Kind: control.Number, Min: 0, Max: 1, Step: 0.01, Default: 0.2, Precision: 2},
	}
}

func (Bandgap) New(env engine.Env) engine.Sim {
	s := &bandgapSim{}
	s.Resize(env.Size)
	s.energy = env.Params.Get("energy")
	s.level = physics.Level(s.energy)
	return s
}

type bandgapSim struct {
	v      view
	t      float64
	energy float64
	level  int

	// emitting counts down while a burst is shown at emitY
	emitting float64
	emitY    float64
	photons  int
}

func (s *bandgapSim) Resize(sz draw.Size) { s.v = fit(sz, bandgapW, bandgapH) }

func (s *bandgapSim) Update(dt float64, p *control.Params) {
	s.t += dt * 60
	s.emitting = math.Max(0, s.emitting-dt)

	s.energy = p.Get("energy")
	level := physics.Level(s.energy)
	if level < s.level {
		s.emitY = bandgapLevels[level]
		s.emitting = emissionTime
		s.photons++
	}
	s.level = level
}

// Emitting reports whether a photon burst is on screen.
func (s *bandgapSim) Emitting() bool { return s.emitting > 0 }

func (s *bandgapSim) Render(dc draw.Context) {
	dc.Clear(palette.bg)
	p := pen{dc: dc, v: s.v}

	names := [3]string{"E0 (valence)", "E1", "E2 (conduction)"}
	for i, y := range bandgapLevels {
		c := palette.cool
		if i == 2 {
			c = palette.bad
		}
		p.stroke(c, 3)
		p.line(300, y, 800, y)
		p.fill(c)
		p.text(820, y+6, 18, names[i])
	}

	e1, e2 := bandgapLevels[1], bandgapLevels[2]
	p.stroke(palette.dim, 1)
	p.dash(6, 6)
	p.line(550, e1, 550, e2)
	p.dash()
	p.fill(palette.dim)
	p.text(565, (e1+e2)/2, 15, "Eg")

	y := bandgapLevels[s.level]
	ex := 420 + math.Mod(s.t, 240)
	p.fill(palette.accent)
	p.fillCircle(ex, y+math.Sin(s.t*0.08)*5, 7)

	p.stroke(palette.beam, 2)
	p.arrow(650, bandgapLevels[0], 650, y, 10)

	if s.Emitting() {
		s.photon(p, 650, s.emitY)
	}

	p.fill(palette.text)
	p.text(20, 30, 16, fmt.Sprintf("input energy %.2f  level E%d", s.energy, s.level))
}

// photon draws a burst of wavy strands rising from (x0, y0).
func (s *bandgapSim) photon(p pen, x0, y0 float64) {
	p.stroke(palette.beam, 1.8)
	for l := 0; l < 5; l++ {
		pts := make([]draw.Point, 0, 90)
		for i := 0; i < 90; i++ {
			fall := 1 - float64(i)/90*0.65
			w1 := math.Sin(float64(i)*0.5+s.t*0.7+float64(l)) * 9
			w2 := math.Sin(float64(i)*0.2+s.t*0.4) * 4
			pts = append(pts, draw.Point{
				X: x0 + (w1+w2)*fall + float64(l)*6,
				Y: y0 - float64(i)*6 + (w1-w2)*fall,
			})
		}
		p.polyline(pts...)
	}
}

func (s *bandgapSim) Readouts() []engine.Readout {
	return []engine.Readout{
		{Label: "energy", Value: s.energy},
		{Label: "level", Value: float64(s.level)},
		{Label: "emitting", Value: onOff(s.Emitting())},
		{Label: "photons", Value: float64(s.photons)},
	}
}
