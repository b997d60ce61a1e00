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
	faradayW = 900.0
	faradayH = 420.0

	coilX       = 560.0
	railY       = 260.0
	magnetMin   = 90.0
	magnetMax   = 820.0
	magnetHalf  = 65.0
	magnetSpeed = 320.0

	fluxK         = 2e6
	fluxC         = 1200.0
	currentGain   = 0.2
	currentSmooth = 0.18
	restReturn    = 0.65
	movingSpeed   = 1.5
)

type Faraday struct{}

func (Faraday) Name() string  { return "faraday" }
func (Faraday) Title() string { return "Faraday's Law of Induction" }

func (Faraday) Controls() []control.Spec {
	return []control.Spec{
		{Name: "drive", Label: "Magnet drive", Kind: control.Number, Min: -1, Max: 1, Step: 0.05, Default: 0, Precision: 2},
	}
}

// Axes binds the drive to A and D. Holding a key pushes the magnet; letting
// go lets the drive fall back to zero.
func (Faraday) Axes() []control.AxisSpec {
	return []control.AxisSpec{{Param: "drive", DecKey: "a", IncKey: "d", Step: 0.04, Return: 0.02}}
}

func (Faraday) New(env engine.Env) engine.Sim {
	s := &faradaySim{
		x:      250,
		needle: newNeedle(5, 0.45),
	}
	s.fluxPrev = physics.Flux(fluxK, fluxC, math.Abs(s.x-coilX))
	s.Resize(env.Size)
	return s
}

type faradaySim struct {
	v view

	drive    float64
	x, vel   float64
	flux     float64
	fluxPrev float64
	current  float64
	fieldT   float64
	needle   needle
}

func (s *faradaySim) Resize(sz draw.Size) { s.v = fit(sz, faradayW, faradayH) }

func (s *faradaySim) Update(dt float64, p *control.Params) {
	s.drive = p.Get("drive")
	s.vel = s.drive * magnetSpeed
	s.x += s.vel * dt
	if s.x <= magnetMin || s.x >= magnetMax {
		s.x = physics.Clamp(s.x, magnetMin, magnetMax)
		s.vel = 0
	}

	s.flux = physics.Flux(fluxK, fluxC, math.Abs(s.x-coilX))
	dFlux := (s.flux - s.fluxPrev) / math.Max(dt, 0.001)
	s.fluxPrev = s.flux

	s.current += (currentGain*dFlux - s.current) * currentSmooth
	if math.Abs(s.drive) < 0.05 {
		s.current *= restReturn
	}
	s.current = physics.Clamp(s.current, -1, 1)
	s.needle.step(dt, s.current)

	s.fieldT = math.Mod(s.fieldT+0.9*dt, 1)
}

// Current is the induced current shown by the galvanometer, in [-1, 1].
func (s *faradaySim) Current() float64 { return s.current }

func (s *faradaySim) moving() bool { return math.Abs(s.vel) > movingSpeed }

func (s *faradaySim) Render(dc draw.Context) {
	dc.Clear(palette.bg)
	p := pen{dc: dc, v: s.v}

	p.stroke(palette.grid, 2)
	p.line(magnetMin-magnetHalf, railY+40, magnetMax+magnetHalf, railY+40)

	s.drawField(p)
	s.drawCoil(p)
	s.drawMagnet(p)

	needleColor := palette.good
	if s.needle.pos < 0 {
		needleColor = palette.bad
	}
	p.dial(coilX, 90, 60, s.needle.pos, palette.panel, needleColor, fmt.Sprintf("%+.2f A", s.current))
	p.stroke(palette.copper, 2)
	p.line(coilX-40, railY-70, coilX-40, 150)
	p.line(coilX+40, railY-70, coilX+40, 150)

	s.drawBulb(p, 760, 90)

	p.fill(palette.dim)
	p.text(40, faradayH-20, 12, "hold A / D to move the magnet")
}

func (s *faradaySim) drawCoil(p pen) {
	for k := 0; k < 9; k++ {
		x := coilX - 40 + float64(k)*10
		p.stroke(palette.copper, 3)
		p.arc(x, railY, 70, math.Pi/2, 3*math.Pi/2)
		p.stroke(draw.Alpha(palette.copper, 0.5), 2)
		p.arc(x, railY, 70, -math.Pi/2, math.Pi/2)
	}
}

func (s *faradaySim) drawMagnet(p pen) {
	const h = 40.0
	p.fill(palette.bad)
	p.fillRect(s.x, railY-h/2, magnetHalf, h)
	p.fill(palette.cool)
	p.fillRect(s.x-magnetHalf, railY-h/2, magnetHalf, h)
	p.fill(palette.text)
	p.text(s.x+magnetHalf-22, railY+6, 16, "N")
	p.text(s.x-magnetHalf+10, railY+6, 16, "S")
}

// drawField traces flux tubes leaving the north pole and curving back to
// the south pole, with markers flowing along them.
func (s *faradaySim) drawField(p pen) {
	n := draw.Point{X: s.x + magnetHalf, Y: railY}
	sp := draw.Point{X: s.x - magnetHalf, Y: railY}
	for i := 1; i <= 4; i++ {
		spread := float64(i) * 38
		for _, dir := range []float64{-1, 1} {
			pts := make([]draw.Point, 0, 25)
			for k := 0; k <= 24; k++ {
				t := float64(k) / 24
				pts = append(pts, bezier(n,
					draw.Point{X: n.X + spread*1.4, Y: railY + dir*spread*1.6},
					draw.Point{X: sp.X - spread*1.4, Y: railY + dir*spread*1.6},
					sp, t))
			}
			p.stroke(draw.Alpha(palette.accent, 0.35-float64(i)*0.06), 1.5)
			p.polyline(pts...)

			q := bezier(n,
				draw.Point{X: n.X + spread*1.4, Y: railY + dir*spread*1.6},
				draw.Point{X: sp.X - spread*1.4, Y: railY + dir*spread*1.6},
				sp, math.Mod(s.fieldT+float64(i)*0.12, 1))
			p.fill(palette.accent)
			p.fillCircle(q.X, q.Y, 2.5)
		}
	}
}

func bezier(p0, p1, p2, p3 draw.Point, t float64) draw.Point {
	u := 1 - t
	a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return draw.Point{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

func (s *faradaySim) drawBulb(p pen, x, y float64) {
	const r = 22.0
	glow := 0.0
	if s.moving() {
		glow = math.Abs(s.current)
	}
	if glow > 0.02 {
		p.fill(draw.Alpha(palette.beam, 0.35*glow))
		p.fillCircle(x, y, r*2.6)
	}
	p.fill(draw.Alpha(palette.beam, 0.15+0.85*glow))
	p.fillCircle(x, y, r)
	p.stroke(palette.dim, 2)
	p.circle(x, y, r)
	p.fill(palette.dim)
	p.fillRect(x-10, y+r, 20, 14)
}

func (s *faradaySim) Readouts() []engine.Readout {
	return []engine.Readout{
		{Label: "drive", Value: s.drive},
		{Label: "velocity", Value: s.vel, Unit: "px/s"},
		{Label: "flux", Value: s.flux},
		{Label: "current", Value: s.current, Unit: "A"},
	}
}
