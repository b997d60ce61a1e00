package labs

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/physlab/internal/control"
	"github.com/san-kum/physlab/internal/draw"
	"github.com/san-kum/physlab/internal/engine"
	"github.com/san-kum/physlab/internal/physics"
)

const (
	charlesW = 600.0
	charlesH = 480.0

	atomCount = 30

	cylLeft   = 180.0
	cylWidth  = 240.0
	cylBottom = 380.0
	minVolume = 60.0
	maxVolume = 330.0
	pistonH   = 18.0
)

type Charles struct{}

func (Charles) Name() string  { return "charles" }
func (Charles) Title() string { return "Charles's Law" }

func (Charles) Controls() []control.Spec {
	return []control.Spec{
		{Name: "temperature", Label: "Temperature", Kind: control.Number, Min: 0.1, Max: 1, Step: 0.05, Default: 0.3, Precision: 2},
		{Name: "load", Label: "Load", Kind: control.Number, Min: 0.1, Max: 1, Step: 0.05, Default: 0.3, Precision: 2},
	}
}

func (Charles) New(env engine.Env) engine.Sim {
	s := &charlesSim{rng: env.Rand}
	s.Resize(env.Size)
	s.read(env.Params)
	s.volume = s.target
	for i := range s.atoms {
		a := &s.atoms[i]
		a.x = cylLeft + 10 + s.rng.Float64()*(cylWidth-20)
		a.y = cylBottom - 10 - s.rng.Float64()*(s.volume-20)
		ang := s.rng.Float64() * 2 * math.Pi
		a.vx, a.vy = math.Cos(ang)*60, math.Sin(ang)*60
	}
	return s
}

type atom struct{ x, y, vx, vy float64 }

type charlesSim struct {
	v   view
	rng *rand.Rand

	temp, load float64
	target     float64
	volume     float64
	flicker    float64
	atoms      [atomCount]atom
}

func (s *charlesSim) Resize(sz draw.Size) { s.v = fit(sz, charlesW, charlesH) }

func (s *charlesSim) read(p *control.Params) {
	s.temp, s.load = p.Get("temperature"), p.Get("load")
	s.target = physics.Clamp(physics.PistonVolume(s.temp, s.load), minVolume, maxVolume)
}

func (s *charlesSim) top() float64 { return cylBottom - s.volume }

func (s *charlesSim) Update(dt float64, p *control.Params) {
	s.read(p)
	s.volume = physics.Clamp(physics.Ease(s.volume, s.target, 0.05), minVolume, maxVolume)
	s.flicker = s.rng.Float64()

	k := physics.AtomSpeed(s.temp) * dt
	lo, hi := cylLeft+4, cylLeft+cylWidth-4
	ceil := s.top() + 4
	for i := range s.atoms {
		a := &s.atoms[i]
		a.x += a.vx * k
		a.y += a.vy * k
		if a.x < lo || a.x > hi {
			a.vx = -a.vx
			a.x = physics.Clamp(a.x, lo, hi)
		}
		if a.y < ceil || a.y > cylBottom-4 {
			a.vy = -a.vy
			a.y = physics.Clamp(a.y, ceil, cylBottom-4)
		}
	}
}

// Volume is the current gas column height.
func (s *charlesSim) Volume() float64 { return s.volume }

func (s *charlesSim) Render(dc draw.Context) {
	dc.Clear(palette.bg)
	p := pen{dc: dc, v: s.v}

	top := s.top()
	cylTop := cylBottom - maxVolume - pistonH - 10

	hot := draw.Alpha(palette.warm, 0.08+0.25*s.temp)
	p.fill(hot)
	p.fillRect(cylLeft, top, cylWidth, s.volume)

	p.stroke(palette.dim, 3)
	p.polyline(
		draw.Point{X: cylLeft, Y: cylTop},
		draw.Point{X: cylLeft, Y: cylBottom},
		draw.Point{X: cylLeft + cylWidth, Y: cylBottom},
		draw.Point{X: cylLeft + cylWidth, Y: cylTop},
	)

	for _, a := range s.atoms {
		p.fill(palette.accent)
		p.fillCircle(a.x, a.y, 4)
	}

	// piston, rod and load
	p.fill(palette.panel)
	p.fillRect(cylLeft+2, top-pistonH, cylWidth-4, pistonH)
	p.stroke(palette.text, 1)
	p.rect(cylLeft+2, top-pistonH, cylWidth-4, pistonH)
	mid := cylLeft + cylWidth/2
	p.stroke(palette.dim, 6)
	p.line(mid, top-pistonH, mid, top-pistonH-30)
	w := 40 + 80*s.load
	p.fill(palette.gold)
	p.fillRect(mid-w/2, top-pistonH-30-20*s.load-10, w, 20*s.load+10)

	// burner
	flame := 20 + 40*s.temp*(0.8+0.4*s.flicker)
	for k := -2; k <= 2; k++ {
		x := mid + float64(k)*30
		p.fill(draw.Alpha(palette.warm, 0.7))
		p.polygon(
			draw.Point{X: x - 10, Y: cylBottom + 70},
			draw.Point{X: x, Y: cylBottom + 70 - flame},
			draw.Point{X: x + 10, Y: cylBottom + 70},
		)
	}
	p.fill(palette.dim)
	p.fillRect(mid-90, cylBottom+70, 180, 12)

	p.fill(palette.text)
	p.text(cylLeft+cylWidth+20, top, 13, fmt.Sprintf("V = %.0f", s.volume))
	p.text(20, 30, 13, "heat the gas and the piston rises")
}

func (s *charlesSim) Readouts() []engine.Readout {
	return []engine.Readout{
		{Label: "temperature", Value: s.temp},
		{Label: "load", Value: s.load},
		{Label: "volume", Value: s.volume},
		{Label: "target", Value: s.target},
	}
}
