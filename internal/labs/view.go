package labs

import (
	"image/color"
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/san-kum/physlab/internal/draw"
)

// view maps a lab's design coordinates onto the surface, keeping the aspect
// ratio and centring the scene.
type view struct {
	scale  float64
	ox, oy float64
}

func fit(s draw.Size, w, h float64) view {
	if s.Empty() {
		return view{scale: 1}
	}
	k := math.Min(s.W/w, s.H/h)
	return view{scale: k, ox: (s.W - w*k) / 2, oy: (s.H - h*k) / 2}
}

// pen draws in design coordinates.
type pen struct {
	dc draw.Context
	v  view
}

func (p pen) x(x float64) float64 { return p.v.ox + x*p.v.scale }
func (p pen) y(y float64) float64 { return p.v.oy + y*p.v.scale }
func (p pen) l(l float64) float64 { return l * p.v.scale }

func (p pen) pts(pts []draw.Point) []draw.Point {
	out := make([]draw.Point, len(pts))
	for i, q := range pts {
		out[i] = draw.Point{X: p.x(q.X), Y: p.y(q.Y)}
	}
	return out
}

func (p pen) stroke(c color.RGBA, w float64) {
	p.dc.SetStroke(c)
	p.dc.SetLineWidth(p.l(w))
}

func (p pen) dash(d ...float64) {
	for i := range d {
		d[i] = p.l(d[i])
	}
	p.dc.SetDash(d...)
}

func (p pen) fill(c color.RGBA)                 { p.dc.SetFill(c) }
func (p pen) line(x1, y1, x2, y2 float64)       { p.dc.Line(p.x(x1), p.y(y1), p.x(x2), p.y(y2)) }
func (p pen) rect(x, y, w, h float64)           { p.dc.Rect(p.x(x), p.y(y), p.l(w), p.l(h)) }
func (p pen) fillRect(x, y, w, h float64)       { p.dc.FillRect(p.x(x), p.y(y), p.l(w), p.l(h)) }
func (p pen) circle(x, y, r float64)            { p.dc.Circle(p.x(x), p.y(y), p.l(r)) }
func (p pen) fillCircle(x, y, r float64)        { p.dc.FillCircle(p.x(x), p.y(y), p.l(r)) }
func (p pen) arc(x, y, r, a0, a1 float64)       { p.dc.Arc(p.x(x), p.y(y), p.l(r), a0, a1) }
func (p pen) text(x, y, size float64, s string) { p.dc.Text(p.x(x), p.y(y), p.l(size), s) }
func (p pen) polyline(pts ...draw.Point)        { p.dc.Polyline(p.pts(pts)...) }
func (p pen) polygon(pts ...draw.Point)         { p.dc.FillPolygon(p.pts(pts)...) }

// arrow draws a line with a small head at (x2, y2).
func (p pen) arrow(x1, y1, x2, y2, head float64) {
	p.line(x1, y1, x2, y2)
	a := math.Atan2(y2-y1, x2-x1)
	p.line(x2, y2, x2-head*math.Cos(a-math.Pi/6), y2-head*math.Sin(a-math.Pi/6))
	p.line(x2, y2, x2-head*math.Cos(a+math.Pi/6), y2-head*math.Sin(a+math.Pi/6))
}

// dial draws a meter face spanning 270 degrees with the needle at frac in
// [-1, 1].
func (p pen) dial(x, y, r, frac float64, face, needle color.RGBA, label string) {
	p.fill(face)
	p.fillCircle(x, y, r)
	p.stroke(palette.dim, 2)
	p.circle(x, y, r)
	const start, sweep = -0.75 * math.Pi, 1.5 * math.Pi
	for i := 0; i <= 4; i++ {
		a := start + float64(i)*sweep/4
		p.line(x+math.Cos(a)*(r-10), y+math.Sin(a)*(r-10), x+math.Cos(a)*(r-3), y+math.Sin(a)*(r-3))
	}
	frac = math.Max(-1, math.Min(1, frac))
	a := start + (frac+1)*sweep/2
	p.stroke(needle, 3)
	p.line(x, y, x+math.Cos(a)*(r-8), y+math.Sin(a)*(r-8))
	p.fill(palette.text)
	p.fillCircle(x, y, 4)
	p.text(x-r/2, y+r+16, 12, label)
}

var palette = struct {
	bg, panel, text, dim, grid       color.RGBA
	accent, warm, cool, good, bad    color.RGBA
	copper, gold, glass, water, beam color.RGBA
}{
	bg:     draw.Hex("#0b0f14"),
	panel:  draw.Hex("#151b23"),
	text:   draw.Hex("#e6edf3"),
	dim:    draw.Hex("#6e7781"),
	grid:   draw.Hex("#21262d"),
	accent: draw.Hex("#00eaff"),
	warm:   draw.Hex("#ff7a45"),
	cool:   draw.Hex("#58a6ff"),
	good:   draw.Hex("#55e6a5"),
	bad:    draw.Hex("#ff7a7a"),
	copper: draw.Hex("#c8763a"),
	gold:   draw.Hex("#d4af37"),
	glass:  draw.Hex("#7fdfff"),
	water:  draw.Hex("#1f6feb"),
	beam:   draw.Hex("#ffdd33"),
}

// needle eases a displayed value toward its target with a damped spring, so
// meters swing instead of jumping.
type needle struct {
	pos, vel float64
	freq     float64
	damping  float64
}

func newNeedle(freq, damping float64) needle {
	return needle{freq: freq, damping: damping}
}

func (n *needle) step(dt, target float64) float64 {
	if dt <= 0 {
		return n.pos
	}
	s := harmonica.NewSpring(dt, n.freq, n.damping)
	n.pos, n.vel = s.Update(n.pos, n.vel, target)
	return n.pos
}

func onOff(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func yesNo(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
