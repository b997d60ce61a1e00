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
	projectileW = 760.0
	projectileH = 460.0

	marginL, marginR = 70.0, 40.0
	marginT, marginB = 40.0, 60.0

	// flight seconds per wall-clock second
	timeScale = 2.4
)

// six marked points along a finished flight, as fractions of its duration
var markFractions = [...]float64{0, 0.2, 0.4, 0.5, 0.7, 1}

type Projectile struct{}

func (Projectile) Name() string  { return "projectile" }
func (Projectile) Title() string { return "Projectile Motion" }

func (Projectile) Controls() []control.Spec {
	return []control.Spec{
		{Name: "angle", Label: "Launch angle", Unit: "deg", Kind: control.Number, Min: 10, Max: 80, Step: 1, Default: 45},
		{Name: "speed", Label: "Launch speed", Unit: "m/s", Kind: control.Number, Min: 5, Max: 60, Step: 0.5, Default: 30, Precision: 1},
		{Name: "launch", Label: "Launch", Kind: control.Toggle},
	}
}

func (Projectile) New(env engine.Env) engine.Sim {
	s := &projectileSim{}
	s.Resize(env.Size)
	s.read(env.Params)
	return s
}

type projectileSim struct {
	v view

	angle, speed float64
	launched     bool
	finished     bool
	flight       physics.Flight
	t            float64
}

func (s *projectileSim) Resize(sz draw.Size) { s.v = fit(sz, projectileW, projectileH) }

// read latches the flight at launch; controls moved mid-flight wait for
// the next launch.
func (s *projectileSim) read(p *control.Params) {
	s.angle = p.Get("angle")
	s.speed = math.Min(p.Get("speed"), physics.MaxSpeed(s.angle))
	launch := p.Bool("launch")
	switch {
	case launch && !s.launched:
		s.flight = physics.Flight{Speed: s.speed, Angle: s.angle}
		s.t, s.finished = 0, false
	case !launch:
		s.flight = physics.Flight{Speed: s.speed, Angle: s.angle}
		s.t, s.finished = 0, false
	}
	s.launched = launch
}

func (s *projectileSim) Update(dt float64, p *control.Params) {
	s.read(p)
	if !s.launched || s.finished {
		return
	}
	s.t += dt * timeScale
	if d := s.flight.Duration(); s.t >= d {
		s.t, s.finished = d, true
	}
}

// Speed is the launch speed after the bench cap.
func (s *projectileSim) Speed() float64 { return s.speed }

func (s *projectileSim) sx(x float64) float64 {
	return marginL + x/physics.MaxRange*(projectileW-marginL-marginR)
}

func (s *projectileSim) sy(y float64) float64 {
	return projectileH - marginB - y/physics.MaxHeight*(projectileH-marginT-marginB)
}

func (s *projectileSim) Render(dc draw.Context) {
	dc.Clear(palette.bg)
	p := pen{dc: dc, v: s.v}

	ground := projectileH - marginB
	p.stroke(palette.dim, 2)
	p.line(marginL, ground, projectileW-marginR, ground)
	p.line(marginL, marginT, marginL, ground)
	p.fill(palette.dim)
	for x := 0.0; x <= physics.MaxRange; x += 20 {
		p.line(s.sx(x), ground, s.sx(x), ground+6)
		p.text(s.sx(x)-6, ground+20, 11, fmt.Sprint(x))
	}
	for y := 0.0; y <= physics.MaxHeight; y += 10 {
		p.line(marginL-6, s.sy(y), marginL, s.sy(y))
		p.text(marginL-35, s.sy(y)+4, 11, fmt.Sprint(y))
	}
	p.text(projectileW/2-60, projectileH-16, 13, "range (m)")

	// launcher
	a := s.angle * math.Pi / 180
	p.stroke(palette.text, 6)
	p.line(marginL, ground, marginL+40*math.Cos(a), ground-40*math.Sin(a))

	if !s.launched {
		p.stroke(palette.grid, 1)
		p.dash(4, 6)
		p.polyline(s.path(s.flight.Duration())...)
		p.dash()
		return
	}

	if path := s.path(s.t); len(path) > 1 {
		p.stroke(palette.cool, 2)
		p.polyline(path...)
	}

	if s.finished {
		d := s.flight.Duration()
		for _, f := range markFractions {
			s.drawVelocity(p, f*d, 3)
		}
	} else {
		s.drawVelocity(p, s.t, 4)
	}
}

func (s *projectileSim) path(until float64) []draw.Point {
	const n = 60
	pts := make([]draw.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		x, y := s.flight.At(until * float64(i) / n)
		pts = append(pts, draw.Point{X: s.sx(x), Y: s.sy(math.Max(y, 0))})
	}
	return pts
}

func (s *projectileSim) drawVelocity(p pen, t, w float64) {
	x, y := s.flight.At(t)
	px, py := s.sx(x), s.sy(math.Max(y, 0))
	vx, vy := s.flight.Velocity(t)
	p.fill(palette.text)
	p.fillCircle(px, py, 4)
	p.stroke(palette.warm, w)
	p.arrow(px, py, px+vx*0.9, py, 9)
	p.stroke(palette.good, w)
	p.arrow(px, py, px, py-vy*0.9, 9)
}

func (s *projectileSim) Readouts() []engine.Readout {
	_, y := s.flight.At(s.t)
	out := []engine.Readout{
		{Label: "speed", Value: s.speed, Unit: "m/s"},
		{Label: "time", Value: s.t, Unit: "s"},
		{Label: "height", Value: math.Max(y, 0), Unit: "m"},
		{Label: "max height", Value: s.flight.Apex(), Unit: "m"},
	}
	r := engine.Readout{Label: "range", Value: s.flight.Range(), Unit: "m"}
	if s.launched && !s.finished {
		r.Text = "in flight"
	}
	return append(out, r)
}
