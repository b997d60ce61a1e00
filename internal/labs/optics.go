package labs

import (
	"fmt"
	"image/color"
	"math"

	"github.com/san-kum/physlab/internal/control"
	"github.com/san-kum/physlab/internal/draw"
	"github.com/san-kum/physlab/internal/engine"
	"github.com/san-kum/physlab/internal/physics"
)

var mediumNames = []string{"air", "water", "glass"}

const (
	opticsW = 700.0
	opticsH = 420.0
	focal   = 90.0
)

type Optics struct{}

func (Optics) Name() string  { return "refraction" }
func (Optics) Title() string { return "Optics Bench: Refraction, Prism and Lens" }

func (Optics) Controls() []control.Spec {
	return []control.Spec{
		{Name: "mode", Label: "Experiment", Kind: control.Enum, Options: []string{"refraction", "prism", "lens"}},
		{Name: "from", Label: "Incident medium", Kind: control.Enum, Options: mediumNames, Default: 0},
		{Name: "to", Label: "Target medium", Kind: control.Enum, Options: mediumNames, Default: 1},
		{Name: "angle", Label: "Incidence", Unit: "deg", Kind: control.Number, Min: 5, Max: 75, Step: 1, Default: 40},
		{Name: "light", Label: "Light", Kind: control.Toggle, Default: 1},
		{Name: "lens", Label: "Lens", Kind: control.Enum, Options: []string{"convex", "concave"}},
		{Name: "source", Label: "Object height", Kind: control.Number, Min: -1, Max: 1, Step: 0.1, Default: -1, Precision: 1},
	}
}

func (o Optics) New(env engine.Env) engine.Sim {
	s := &opticsSim{}
	s.Resize(env.Size)
	s.read(env.Params)
	return s
}

type opticsSim struct {
	v view
	t float64

	mode   string
	n1, n2 float64
	from   string
	to     string
	angle  float64
	light  bool
	convex bool
	source float64

	refracted float64
	tir       bool
}

func (s *opticsSim) Resize(sz draw.Size) { s.v = fit(sz, opticsW, opticsH) }

func (s *opticsSim) read(p *control.Params) {
	s.mode = p.Option("mode")
	s.from, s.to = p.Option("from"), p.Option("to")
	s.n1, s.n2 = physics.Index(s.from), physics.Index(s.to)
	s.angle = p.Get("angle")
	s.light = p.Bool("light")
	s.convex = p.Option("lens") == "convex"
	s.source = p.Get("source")
	s.refracted, s.tir = physics.Refract(s.n1, s.n2, s.angle)
}

func (s *opticsSim) Update(dt float64, p *control.Params) {
	s.t += dt
	s.read(p)
}

func (s *opticsSim) Render(dc draw.Context) {
	dc.Clear(palette.bg)
	p := pen{dc: dc, v: s.v}
	switch s.mode {
	case "prism":
		s.drawPrism(p)
	case "lens":
		s.drawLens(p)
	default:
		s.drawRefraction(p)
	}
}

func mediumFill(name string) color.RGBA {
	switch name {
	case "water":
		return draw.Alpha(palette.water, 0.25)
	case "glass":
		return draw.Alpha(palette.glass, 0.19)
	}
	return color.RGBA{}
}

func (s *opticsSim) drawRefraction(p pen) {
	cx, cy := opticsW/2, opticsH/2
	const spread = 200.0

	for i, name := range []string{s.from, s.to} {
		p.fill(mediumFill(name))
		p.fillRect(0, float64(i)*cy, opticsW, cy)
		p.fill(palette.dim)
		p.text(12, float64(i)*cy+22, 13, fmt.Sprintf("%s  n=%.2f", name, physics.Index(name)))
	}
	p.stroke(palette.dim, 2)
	p.line(0, cy, opticsW, cy)

	p.stroke(palette.dim, 1)
	p.dash(6, 6)
	p.line(cx, cy-spread, cx, cy+spread)
	p.dash()

	if !s.light {
		p.fill(palette.dim)
		p.text(cx+12, cy-spread+10, 13, "light off")
		return
	}

	i := s.angle * math.Pi / 180
	sx, sy := cx-spread*math.Sin(i), cy-spread*math.Cos(i)
	p.stroke(palette.beam, 3)
	p.line(sx, sy, cx, cy)

	p.stroke(palette.beam, 1)
	p.arc(cx, cy, 40, -math.Pi/2-i, -math.Pi/2)

	reflectAlpha := 0.25
	if s.tir {
		reflectAlpha = 1
	}
	p.stroke(draw.Alpha(palette.beam, reflectAlpha), 2)
	p.line(cx, cy, cx+spread*math.Sin(i), cy-spread*math.Cos(i))

	if !s.tir {
		r := s.refracted * math.Pi / 180
		p.stroke(palette.warm, 3)
		p.line(cx, cy, cx+spread*math.Sin(r), cy+spread*math.Cos(r))
		p.stroke(palette.warm, 1)
		p.arc(cx, cy, 40, math.Pi/2-r, math.Pi/2)
	}

	// photon travelling down the incident ray
	f := math.Mod(s.t*0.8, 1)
	p.fill(palette.text)
	p.fillCircle(sx+(cx-sx)*f, sy+(cy-sy)*f, 5)

	p.fill(palette.text)
	p.text(cx+12, cy-spread+10, 13, fmt.Sprintf("i = %.1f deg", s.angle))
	if s.tir {
		p.fill(palette.bad)
		p.text(cx+12, cy+spread-6, 13, "total internal reflection")
	} else {
		p.text(cx+12, cy+spread-6, 13, fmt.Sprintf("r = %.2f deg", s.refracted))
	}
}

func (s *opticsSim) drawPrism(p pen) {
	cy := opticsH / 2
	apexX, baseY, half := 300.0, cy+110, 110.0
	p.fill(draw.Alpha(palette.glass, 0.25))
	p.polygon(
		draw.Point{X: apexX, Y: cy - 120},
		draw.Point{X: apexX - half, Y: baseY},
		draw.Point{X: apexX + half, Y: baseY},
	)
	p.stroke(palette.glass, 2)
	p.polyline(
		draw.Point{X: apexX, Y: cy - 120},
		draw.Point{X: apexX - half, Y: baseY},
		draw.Point{X: apexX + half, Y: baseY},
		draw.Point{X: apexX, Y: cy - 120},
	)
	if !s.light {
		return
	}

	entry := draw.Point{X: apexX - 50, Y: cy}
	exit := draw.Point{X: apexX + 50, Y: cy + 10}
	p.stroke(palette.text, 3)
	p.line(40, cy-20, entry.X, entry.Y)
	p.stroke(draw.Alpha(palette.text, 0.6), 2)
	p.line(entry.X, entry.Y, exit.X, exit.Y)

	const disp = 0.95
	for _, c := range physics.Spectrum {
		col := draw.Hex(c.Hex)
		ey := cy + 60 + c.Offset*disp*2
		p.stroke(col, 2.4)
		p.line(exit.X, exit.Y, 620, ey)
		p.fill(col)
		p.text(628, ey+4, 12, c.Name)
	}

	f := math.Mod(s.t*0.6, 1)
	p.fill(palette.text)
	p.fillCircle(40+(entry.X-40)*f, cy-20+(entry.Y-cy+20)*f, 4)
}

func (s *opticsSim) lensFocal() float64 {
	if s.convex {
		return focal
	}
	return -focal
}

func (s *opticsSim) drawLens(p pen) {
	cx, cy := opticsW/2, opticsH/2
	const objX, objH = 100.0, 60.0

	p.stroke(palette.grid, 1)
	p.line(0, cy, opticsW, cy)
	for _, m := range []float64{-1, 1} {
		p.stroke(palette.dim, 1)
		p.line(cx+m*focal, cy-6, cx+m*focal, cy+6)
		p.fill(palette.dim)
		p.text(cx+m*focal-5, cy+22, 12, "F")
	}

	bulge := 30.0
	if !s.convex {
		bulge = -20
	}
	var outline []draw.Point
	for k := 0; k <= 16; k++ {
		y := 60 + (opticsH-120)*float64(k)/16
		q := (y - cy) / (opticsH/2 - 60)
		outline = append(outline, draw.Point{X: cx + 18 + bulge*(1-q*q), Y: y})
	}
	for k := 16; k >= 0; k-- {
		y := 60 + (opticsH-120)*float64(k)/16
		q := (y - cy) / (opticsH/2 - 60)
		outline = append(outline, draw.Point{X: cx - 18 - bulge*(1-q*q), Y: y})
	}
	outline = append(outline, outline[0])
	p.stroke(palette.glass, 2)
	p.polyline(outline...)

	top := cy + s.source*objH
	p.stroke(palette.good, 3)
	p.arrow(objX, cy, objX, top, 8)
	p.fill(palette.good)
	p.text(objX-20, top-6*sign(cy-top), 12, "object")

	if !s.light {
		return
	}

	f := s.lensFocal()
	v, m, ok := physics.ThinLens(f, objX-cx)

	p.stroke(palette.beam, 2)
	p.line(objX, top, cx, top)
	if s.convex {
		p.line(cx, top, cx+160, top+(cy-top)*160/focal)
	} else {
		p.line(cx, top, cx+160, top-(cy-top)*160/focal)
		p.dash(6, 6)
		p.line(cx, top, cx-focal, cy)
		p.dash()
	}
	p.line(objX, top, cx+200, cy+(top-cy)*(cx+200-cx)/(objX-cx))

	if !ok {
		return
	}
	ix, ih := cx+v, (top-cy)*m
	if v > 0 {
		p.stroke(palette.warm, 3)
	} else {
		p.stroke(draw.Alpha(palette.warm, 0.6), 2)
		p.dash(4, 4)
	}
	p.arrow(ix, cy, ix, cy+ih, 8)
	p.dash()
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

func (s *opticsSim) Readouts() []engine.Readout {
	switch s.mode {
	case "lens":
		v, m, ok := physics.ThinLens(s.lensFocal(), 100-opticsW/2)
		if !ok {
			return []engine.Readout{{Label: "image", Text: "at infinity"}}
		}
		kind := "real"
		if v < 0 {
			kind = "virtual"
		}
		return []engine.Readout{
			{Label: "image distance", Value: v, Unit: "px"},
			{Label: "magnification", Value: m},
			{Label: "image", Text: kind},
		}
	case "prism":
		return []engine.Readout{{Label: "bands", Value: float64(len(physics.Spectrum))}}
	}
	out := []engine.Readout{{Label: "incidence", Value: s.angle, Unit: "deg"}}
	if s.tir {
		out = append(out, engine.Readout{Label: "refraction", Text: "total internal reflection"})
	} else {
		out = append(out, engine.Readout{Label: "refraction", Value: s.refracted, Unit: "deg"})
	}
	if c, ok := physics.CriticalAngle(s.n1, s.n2); ok {
		out = append(out, engine.Readout{Label: "critical", Value: c, Unit: "deg"})
	}
	return out
}

// TotalInternalReflection reports whether the current ray is reflected.
func (s *opticsSim) TotalInternalReflection() bool { return s.tir }
