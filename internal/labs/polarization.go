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
	polarW = 800.0
	polarH = 360.0

	polarRays = 12
)

type Polarization struct{}

func (Polarization) Name() string  { return "polarization" }
func (Polarization) Title() string { return "Polarization and Malus's Law" }

func (Polarization) Controls() []control.Spec {
	return []control.Spec{
		{Name: "polarizer", Label: "Polarizer", Unit: "deg", Kind: control.Number, Min: 0, Max: 90, Step: 1, Default: 20},
		{Name: "analyser", Label: "Analyser", Unit: "deg", Kind: control.Number, Min: 0, Max: 90, Step: 1, Default: 60},
	}
}

func (Polarization) New(env engine.Env) engine.Sim {
	s := &polarSim{rng: env.Rand}
	s.Resize(env.Size)
	s.read(env.Params)
	s.shuffle()
	return s
}

type polarSim struct {
	v   view
	rng *rand.Rand
	t   float64

	polarizer, analyser float64
	i1, i2              float64

	// orientations of the unpolarized arrows, redrawn each frame
	jitter [polarRays]float64
}

func (s *polarSim) Resize(sz draw.Size) { s.v = fit(sz, polarW, polarH) }

func (s *polarSim) read(p *control.Params) {
	s.polarizer, s.analyser = p.Get("polarizer"), p.Get("analyser")
	s.i1, s.i2 = physics.Polarizers(s.polarizer, s.analyser)
}

func (s *polarSim) shuffle() {
	for i := range s.jitter {
		s.jitter[i] = s.rng.Float64() * math.Pi
	}
}

func (s *polarSim) Update(dt float64, p *control.Params) {
	s.t += dt
	s.read(p)
	s.shuffle()
}

// Intensities returns the light intensity after the polarizer and after the
// analyser, relative to the source.
func (s *polarSim) Intensities() (float64, float64) { return s.i1, s.i2 }

func (s *polarSim) Render(dc draw.Context) {
	dc.Clear(palette.bg)
	p := pen{dc: dc, v: s.v}

	const axis = polarH / 2
	const lamp, filter1, filter2, screen = 60.0, 300.0, 520.0, 740.0

	p.fill(palette.beam)
	p.fillCircle(lamp, axis, 22)
	p.fill(palette.dim)
	p.text(lamp-20, axis+50, 12, "source")

	// unpolarized light between the lamp and the polarizer
	seg := (filter1 - lamp - 40) / polarRays
	for i, a := range s.jitter {
		x := lamp + 40 + float64(i)*seg
		p.stroke(draw.Alpha(palette.beam, 0.8), 2)
		p.line(x-18*math.Cos(a)*0.3, axis-18*math.Sin(a), x+18*math.Cos(a)*0.3, axis+18*math.Sin(a))
	}

	s.drawFilter(p, filter1, axis, s.polarizer, "polarizer")
	s.drawWave(p, filter1+20, filter2-20, axis, s.polarizer, s.i1)
	s.drawFilter(p, filter2, axis, s.analyser, "analyser")
	s.drawWave(p, filter2+20, screen-20, axis, s.analyser, s.i2)

	p.fill(draw.Alpha(palette.beam, 0.1+0.9*s.i2))
	p.fillRect(screen-8, axis-70, 16, 140)
	p.stroke(palette.dim, 1)
	p.rect(screen-8, axis-70, 16, 140)

	p.fill(palette.text)
	p.text(filter1+40, 40, 13, fmt.Sprintf("I1 = cos^2(%.0f) = %.3f", s.polarizer, s.i1))
	p.text(filter2+20, 40, 13, fmt.Sprintf("I2 = %.3f", s.i2))
}

func (s *polarSim) drawFilter(p pen, x, y, angle float64, label string) {
	p.fill(draw.Alpha(palette.glass, 0.15))
	p.fillRect(x-10, y-80, 20, 160)
	p.stroke(palette.glass, 2)
	p.rect(x-10, y-80, 20, 160)

	a := angle * math.Pi / 180
	p.stroke(palette.text, 2)
	p.line(x-60*math.Sin(a)*0.25, y-60*math.Cos(a), x+60*math.Sin(a)*0.25, y+60*math.Cos(a))
	p.fill(palette.dim)
	p.text(x-30, y+100, 12, fmt.Sprintf("%s %.0f deg", label, angle))
}

// drawWave draws a transverse wave whose tilt follows the filter axis and
// whose height tracks the transmitted amplitude.
func (s *polarSim) drawWave(p pen, x0, x1, y, angle, intensity float64) {
	amp := 40 * math.Sqrt(intensity)
	a := angle * math.Pi / 180
	var pts []draw.Point
	for x := x0; x <= x1; x += 4 {
		w := amp * math.Sin((x-x0)*0.08-s.t*6)
		pts = append(pts, draw.Point{X: x + w*math.Sin(a)*0.25, Y: y - w*math.Cos(a)})
	}
	p.stroke(draw.Alpha(palette.beam, 0.2+0.8*intensity), 2)
	p.polyline(pts...)
}

func (s *polarSim) Readouts() []engine.Readout {
	return []engine.Readout{
		{Label: "after polarizer", Value: s.i1},
		{Label: "after analyser", Value: s.i2},
		{Label: "relative angle", Value: math.Abs(s.analyser - s.polarizer), Unit: "deg"},
	}
}
