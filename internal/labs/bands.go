package labs

import (
	"image/color"
	"math"

	"github.com/san-kum/physlab/internal/control"
	"github.com/san-kum/physlab/internal/draw"
	"github.com/san-kum/physlab/internal/engine"
	"github.com/san-kum/physlab/internal/physics"
)

const (
	bandsW = 480.0
	bandsH = 560.0

	bandsX = 230.0
	// per-tick approach of the electron toward its target level
	bandsEase = 0.08
)

// bandLevels are the y positions of E0 through E3.
var bandLevels = [4]float64{380, 260, 160, 90}

// bandStages walks an electron through excitation, non-radiative
// relaxation and radiative emission.
var bandStages = []string{"ground", "excitation", "relaxation", "emission"}

// bandTarget is the level each stage sends the electron to.
var bandTarget = [4]int{0, 3, 2, 0}

type Bands struct{}

func (Bands) Name() string  { return "bands" }
func (Bands) Title() string { return "Electron Energy Band Transitions" }

func (Bands) Controls() []control.Spec {
	return []control.Spec{
		{Name: "stage", Label: "Stage", Kind: control.Enum, Options: bandStages},
	}
}

func (Bands) New(env engine.Env) engine.Sim {
	s := &bandsSim{}
	s.Resize(env.Size)
	s.stage = int(env.Params.Get("stage"))
	s.y = bandLevels[bandTarget[s.stage]]
	return s
}

type bandsSim struct {
	v     view
	t     float64
	stage int
	y     float64
}

func (s *bandsSim) Resize(sz draw.Size) { s.v = fit(sz, bandsW, bandsH) }

func (s *bandsSim) Update(dt float64, p *control.Params) {
	s.t += dt
	stage := int(p.Get("stage"))
	if stage != s.stage && stage == 0 {
		// reset puts the electron straight back in the ground state
		s.y = bandLevels[0]
	}
	s.stage = stage
	k := 1 - math.Pow(1-bandsEase, dt*60)
	s.y = physics.Ease(s.y, bandLevels[bandTarget[s.stage]], k)
}

// Energy is the electron's height above the ground level, 0 at E0 and 1
// at E3.
func (s *bandsSim) Energy() float64 {
	return (bandLevels[0] - s.y) / (bandLevels[0] - bandLevels[3])
}

func (s *bandsSim) Render(dc draw.Context) {
	dc.Clear(palette.bg)
	p := pen{dc: dc, v: s.v}

	p.stroke(palette.text, 3)
	for i, y := range bandLevels {
		p.line(100, y, 360, y)
		p.fill(palette.text)
		p.text(380, y+5, 15, "E"+string(rune('0'+i)))
	}

	switch s.stage {
	case 1:
		p.stroke(palette.cool, 2)
		p.line(bandsX, bandLevels[0], bandsX, s.y)
		s.photon(p, 30, 270, palette.cool)
	case 2:
		p.stroke(palette.dim, 2)
		p.line(bandsX, bandLevels[3], bandsX, s.y)
	case 3:
		p.stroke(palette.bad, 2)
		p.line(bandsX, bandLevels[2], bandsX, s.y)
		s.photon(p, 260, 280, palette.bad)
	}

	p.fill(palette.cool)
	p.fillCircle(bandsX, s.y, 7)

	p.fill(palette.text)
	p.text(20, 30, 16, "stage: "+bandStages[s.stage])
}

func (s *bandsSim) photon(p pen, x, y float64, c color.RGBA) {
	pts := make([]draw.Point, 0, 90)
	for i := 0; i < 90; i++ {
		pts = append(pts, draw.Point{X: x + float64(i)*3, Y: y + math.Sin(float64(i)/2)*6})
	}
	p.stroke(c, 2)
	p.polyline(pts...)
}

func (s *bandsSim) Readouts() []engine.Readout {
	return []engine.Readout{
		{Label: "stage", Text: bandStages[s.stage]},
		{Label: "energy", Value: s.Energy()},
	}
}
