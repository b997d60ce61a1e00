package labs

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"

	"github.com/san-kum/physlab/internal/control"
	"github.com/san-kum/physlab/internal/draw"
	"github.com/san-kum/physlab/internal/engine"
	"github.com/san-kum/physlab/internal/physics"
)

const (
	radiationW = 800.0
	radiationH = 420.0

	sourceX    = 140.0
	markerRate = 180.0
	scatterDue = 0.5
)

var (
	particleKinds = []physics.Particle{physics.Alpha, physics.Beta, physics.Gamma}
	particleLanes = [...]float64{190, 210, 230}

	// paper, aluminium and lead plates
	shieldX     = [...]float64{360, 440, 520}
	shieldNames = [...]string{"paper", "aluminium", "lead"}
)

type Radiation struct{}

func (Radiation) Name() string  { return "radiation" }
func (Radiation) Title() string { return "Radiation: Penetration, Deflection and Scattering" }

func (Radiation) Controls() []control.Spec {
	return []control.Spec{
		{Name: "energy", Label: "Energy", Kind: control.Number, Min: 0.2, Max: 1, Step: 0.05, Default: 1, Precision: 2},
		{Name: "field", Label: "Field strength", Kind: control.Number, Min: 0, Max: 3, Step: 0.1, Default: 1, Precision: 1},
		{Name: "alpha", Label: "Alpha", Kind: control.Toggle, Default: 1},
		{Name: "beta", Label: "Beta", Kind: control.Toggle},
		{Name: "gamma", Label: "Gamma", Kind: control.Toggle},
		{Name: "gold", Label: "Gold foil", Kind: control.Toggle, Default: 1},
		{Name: "shield", Label: "Shielding", Kind: control.Toggle},
		{Name: "emfield", Label: "EM field", Kind: control.Toggle},
	}
}

func (Radiation) New(env engine.Env) engine.Sim {
	s := &radiationSim{rng: env.Rand}
	s.Resize(env.Size)
	s.read(env.Params)
	return s
}

type radiationSim struct {
	v   view
	rng *rand.Rand
	t   float64

	energy, field float64
	enabled       [3]bool
	gold, shield  bool
	emfield       bool

	// scatter is the current alpha deflection off the foil in radians;
	// most tracks pass almost straight, a few bounce hard.
	scatter   float64
	sinceShot float64
}

func (s *radiationSim) Resize(sz draw.Size) { s.v = fit(sz, radiationW, radiationH) }

func (s *radiationSim) read(p *control.Params) {
	s.energy, s.field = p.Get("energy"), p.Get("field")
	for i, k := range particleKinds {
		s.enabled[i] = p.Bool(k.String())
	}
	s.gold, s.shield, s.emfield = p.Bool("gold"), p.Bool("shield"), p.Bool("emfield")
}

func (s *radiationSim) Update(dt float64, p *control.Params) {
	s.t += dt
	s.read(p)
	s.sinceShot += dt
	if s.sinceShot >= scatterDue {
		s.sinceShot = 0
		if s.rng.Float64() < 0.15 {
			s.scatter = (s.rng.Float64()*2 - 1) * math.Pi * 0.6
		} else {
			s.scatter = (s.rng.Float64()*2 - 1) * 0.08
		}
	}
}

// reach is how far the straight track of p gets, after any shield.
func (s *radiationSim) reach(p physics.Particle) float64 {
	r := physics.Range(p, s.energy)
	if s.shield {
		if i := physics.Absorber(p); i >= 0 {
			r = math.Min(r, shieldX[i]-sourceX)
		}
	}
	return r
}

// Stopped reports which shield layer halts p, or "" when it gets through.
func (s *radiationSim) Stopped(p physics.Particle) string {
	if !s.shield || s.emfield {
		return ""
	}
	i := physics.Absorber(p)
	if i < 0 || physics.Range(p, s.energy) < shieldX[i]-sourceX {
		return ""
	}
	return shieldNames[i]
}

func particleColor(p physics.Particle) color.RGBA {
	switch p {
	case physics.Alpha:
		return palette.bad
	case physics.Beta:
		return palette.accent
	}
	return draw.Hex("#b400ff")
}

func (s *radiationSim) Render(dc draw.Context) {
	dc.Clear(palette.bg)
	p := pen{dc: dc, v: s.v}

	p.stroke(palette.grid, 1)
	for x := 0.0; x < radiationW; x += 40 {
		p.line(x, 0, x, radiationH)
	}

	p.fill(palette.panel)
	p.fillRect(60, 160, 70, 100)
	p.fill(palette.good)
	p.text(58, 150, 13, "SOURCE")

	if s.gold {
		p.fill(draw.Alpha(palette.gold, 0.85))
		p.fillRect(360, 120, 180, 180)
	}
	if s.shield {
		for i, c := range []string{"#7a4a2e", "#888888", "#444444"} {
			p.fill(draw.Hex(c))
			p.fillRect(shieldX[i], 120, 40, 180)
			p.fill(palette.dim)
			p.text(shieldX[i], 316, 11, shieldNames[i])
		}
	}
	if s.emfield {
		p.stroke(draw.Alpha(palette.accent, 0.3), 1)
		for y := 90.0; y < radiationH-90; y += 25 {
			p.line(260, y, 620, y)
		}
	}

	for i, k := range particleKinds {
		if !s.enabled[i] {
			continue
		}
		if s.emfield {
			s.drawDeflected(p, k, particleLanes[i])
		} else {
			s.drawStraight(p, k, particleLanes[i])
		}
	}

	if s.gold && s.enabled[0] && !s.emfield {
		s.drawScatter(p)
	}

	if s.emfield {
		p.fill(palette.text)
		p.text(560, 60, 13, fmt.Sprintf("E field x%.1f", s.field))
	}
}

func (s *radiationSim) drawStraight(p pen, k physics.Particle, y float64) {
	r := s.reach(k)
	if r < 5 {
		return
	}
	c := particleColor(k)
	p.stroke(c, 3)
	p.line(sourceX, y, sourceX+r, y)
	p.fill(c)
	p.fillCircle(sourceX+math.Mod(s.t*markerRate, r), y, 5)
}

func (s *radiationSim) drawDeflected(p pen, k physics.Particle, y float64) {
	length := physics.DeflectedLength(s.energy)
	bend := physics.Deflection(k, s.energy, s.field)
	at := func(x float64) float64 {
		f := x / length
		return y + bend*f*f
	}
	var pts []draw.Point
	for x := 0.0; x < length; x += 6 {
		pts = append(pts, draw.Point{X: sourceX + x, Y: at(x)})
	}
	c := particleColor(k)
	p.stroke(c, 3)
	p.polyline(pts...)
	x := math.Mod(s.t*markerRate, length)
	p.fill(c)
	p.fillCircle(sourceX+x, at(x), 5)
}

// drawScatter shows the latest alpha track leaving the gold foil.
func (s *radiationSim) drawScatter(p pen) {
	const fx, fy, l = 450.0, 190.0, 160.0
	c := draw.Alpha(particleColor(physics.Alpha), 0.7)
	p.stroke(c, 2)
	p.dash(4, 4)
	p.line(fx, fy, fx+l*math.Cos(s.scatter), fy+l*math.Sin(s.scatter))
	p.dash()
}

func (s *radiationSim) Readouts() []engine.Readout {
	out := []engine.Readout{{Label: "energy", Value: s.energy}}
	for i, k := range particleKinds {
		if !s.enabled[i] {
			continue
		}
		r := engine.Readout{Label: k.String(), Unit: "px"}
		switch {
		case s.emfield:
			r.Label += " deflection"
			r.Value = physics.Deflection(k, s.energy, s.field)
		case s.Stopped(k) != "":
			r.Text = "stopped by " + s.Stopped(k)
		default:
			r.Label += " range"
			r.Value = s.reach(k)
		}
		out = append(out, r)
	}
	if s.gold && s.enabled[0] {
		out = append(out, engine.Readout{Label: "scatter", Value: s.scatter * 180 / math.Pi, Unit: "deg"})
	}
	return out
}
