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
	semiW = 700.0
	semiH = 420.0

	blockTop = 260.0

	// electron streams
	streamDots    = 14
	streamSpacing = 24.0
	streamTravel  = 320.0
	streamSpeed   = 0.45
)

type Semiconductor struct{}

func (Semiconductor) Name() string  { return "semiconductor" }
func (Semiconductor) Title() string { return "Semiconductor Photoemission" }

func (Semiconductor) Controls() []control.Spec {
	return []control.Spec{
		{Name: "frequency", Label: "Photon energy", Unit: "eV", Kind: control.Number, Min: 0.2, Max: 3, Step: 0.01, Default: 1, Precision: 2},
		{Name: "amount", Label: "Light amount", Unit: "x", Kind: control.Number, Min: 1, Max: 2, Step: 0.05, Default: 1, Precision: 2},
		{Name: "material", Label: "Material", Kind: control.Enum, Options: physics.MaterialNames()},
	}
}

func (Semiconductor) New(env engine.Env) engine.Sim {
	s := &semiSim{}
	s.Resize(env.Size)
	s.Update(0, env.Params)
	return s
}

type semiSim struct {
	v view
	t float64

	freq, amount float64
	material     string
	gap          float64
	emits        bool
	streams      int
}

func (s *semiSim) Resize(sz draw.Size) { s.v = fit(sz, semiW, semiH) }

func (s *semiSim) Update(dt float64, p *control.Params) {
	s.t += dt * 120
	s.freq, s.amount = p.Get("frequency"), p.Get("amount")
	s.material = p.Option("material")
	s.gap = physics.BandGap(s.material)
	s.emits, s.streams = physics.Photoemission(s.freq, s.gap)
}

// Streams is the number of electron streams leaving the surface.
func (s *semiSim) Streams() int { return s.streams }

func (s *semiSim) Render(dc draw.Context) {
	dc.Clear(palette.bg)
	p := pen{dc: dc, v: s.v}

	light := palette.dim
	if s.emits {
		light = palette.beam
	}
	p.stroke(light, 3)
	waves := int(math.Round(2 + (s.amount-1)*6))
	for i := 0; i < waves; i++ {
		pts := make([]draw.Point, 0, 37)
		for d := 0.0; d < 220; d += 6 {
			wig := math.Sin((d+s.t*3)*0.08) * 8
			pts = append(pts, draw.Point{X: 120 + d + float64(i)*18 + wig, Y: 80 + d*0.75 + wig})
		}
		p.polyline(pts...)
	}

	p.fill(palette.panel)
	p.fillRect(260, blockTop, 320, 70)
	p.stroke(palette.good, 1)
	p.rect(260, blockTop, 320, 70)
	p.fill(palette.good)
	p.text(280, blockTop-10, 14, fmt.Sprintf("SEMICONDUCTOR (%s)", s.material))

	p.fill(palette.bad)
	for x := 280.0; x < 560; x += 36 {
		p.fillCircle(x, blockTop+6, 4)
	}

	s.electrons(p)

	p.fill(palette.text)
	p.text(20, 30, 14, fmt.Sprintf("photon energy: %.2f eV", s.freq))
	p.text(20, 50, 14, fmt.Sprintf("band gap (Eg): %.2f eV", s.gap))
	if s.emits {
		p.fill(palette.good)
		p.text(20, 80, 16, "ELECTRONS EMITTED")
	} else {
		p.fill(palette.bad)
		p.text(20, 80, 16, "NO EMISSION")
	}
}

// electrons draws each stream as dots flying up and to the right from the
// surface, with a deterministic jitter so the render stays a pure function
// of time.
func (s *semiSim) electrons(p pen) {
	if !s.emits {
		return
	}
	const base = -math.Pi / 4
	ux, uy := math.Cos(base), math.Sin(base)
	nx, ny := math.Cos(base+math.Pi/2), math.Sin(base+math.Pi/2)

	p.fill(palette.warm)
	for stream := 0; stream < s.streams; stream++ {
		ox := 300 + float64(stream)*streamSpacing
		for j := 0; j < streamDots; j++ {
			d := math.Mod(s.t*streamSpeed-float64(j)*streamSpacing-float64(stream)*55, streamTravel)
			if d < 0 {
				continue
			}
			nt := s.t*0.02 + float64(j)*10 + float64(stream)*100
			x := ox + ux*d + (math.Sin(nt*2.3)+math.Sin(nt*0.7))*4
			y := blockTop + uy*d + (math.Cos(nt*1.9)+math.Sin(nt*1.1))*6
			drift := math.Sin(nt*0.6) * 0.15 * (d / streamTravel) * 25
			x, y = x+nx*drift, y+ny*drift
			if x < -40 || y < -40 || x > semiW+40 || y > semiH+40 {
				continue
			}
			p.fillCircle(x, y, 3.1)
		}
	}
}

func (s *semiSim) Readouts() []engine.Readout {
	state := "no emission"
	if s.emits {
		state = "emitting"
	}
	return []engine.Readout{
		{Label: "photon", Value: s.freq, Unit: "eV"},
		{Label: "gap", Value: s.gap, Unit: "eV"},
		{Label: "excess", Value: math.Max(0, s.freq-s.gap), Unit: "eV"},
		{Label: "streams", Value: float64(s.streams)},
		{Label: "emission", Text: state},
	}
}
