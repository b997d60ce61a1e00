package draw

import (
	"image/color"
	"math"
)

type Op uint8

const (
	OpClear Op = iota
	OpLine
	OpPolyline
	OpPolygon
	OpRect
	OpCircle
	OpArc
	OpText
)

var opNames = [...]string{"clear", "line", "polyline", "polygon", "rect", "circle", "arc", "text"}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "unknown"
}

// Command is one recorded drawing call with the style that was current when
// it was made. Fill is set for filled shapes and text; Color is then the fill
// color, otherwise the stroke color.
type Command struct {
	Op    Op
	Pts   []Point
	W, H  float64
	R     float64
	A0    float64
	A1    float64
	Fill  bool
	Color color.RGBA
	Width float64
	Dash  []float64
	Text  string
	Font  float64
}

// Bounds is the axis-aligned box a command touches, ignoring line width.
func (c Command) Bounds() (min, max Point) {
	switch c.Op {
	case OpRect:
		p := c.Pts[0]
		return p, Point{p.X + c.W, p.Y + c.H}
	case OpCircle, OpArc:
		p := c.Pts[0]
		return Point{p.X - c.R, p.Y - c.R}, Point{p.X + c.R, p.Y + c.R}
	case OpText:
		p := c.Pts[0]
		return Point{p.X, p.Y - c.Font}, Point{p.X + float64(len(c.Text))*c.Font*0.6, p.Y}
	}
	min = Point{math.Inf(1), math.Inf(1)}
	max = Point{math.Inf(-1), math.Inf(-1)}
	for _, p := range c.Pts {
		min.X, min.Y = math.Min(min.X, p.X), math.Min(min.Y, p.Y)
		max.X, max.Y = math.Max(max.X, p.X), math.Max(max.Y, p.Y)
	}
	return min, max
}

// List records a frame. It is the Context every renderer draws into.
type List struct {
	size   Size
	cmds   []Command
	stroke color.RGBA
	fill   color.RGBA
	width  float64
	dash   []float64
}

func NewList(s Size) *List {
	l := &List{size: s}
	l.resetStyle()
	return l
}

func (l *List) resetStyle() {
	l.stroke = color.RGBA{A: 0xff}
	l.fill = color.RGBA{A: 0xff}
	l.width = 1
	l.dash = nil
}

func (l *List) Size() Size { return l.size }

func (l *List) SetSize(s Size) { l.size = s }

// Clear discards everything recorded so far and resets the style.
func (l *List) Clear(bg color.RGBA) {
	l.cmds = l.cmds[:0]
	l.resetStyle()
	l.cmds = append(l.cmds, Command{
		Op:    OpClear,
		Pts:   []Point{{0, 0}},
		W:     l.size.W,
		H:     l.size.H,
		Fill:  true,
		Color: bg,
	})
}

func (l *List) SetStroke(c color.RGBA) { l.stroke = c }
func (l *List) SetFill(c color.RGBA)   { l.fill = c }
func (l *List) SetLineWidth(w float64) { l.width = w }

func (l *List) SetDash(d ...float64) {
	if len(d) == 0 {
		l.dash = nil
		return
	}
	l.dash = append([]float64(nil), d...)
}

func (l *List) stroked(op Op, pts []Point) Command {
	return Command{Op: op, Pts: pts, Color: l.stroke, Width: l.width, Dash: l.dash}
}

func (l *List) filled(op Op, pts []Point) Command {
	return Command{Op: op, Pts: pts, Fill: true, Color: l.fill}
}

func (l *List) Line(x1, y1, x2, y2 float64) {
	l.cmds = append(l.cmds, l.stroked(OpLine, []Point{{x1, y1}, {x2, y2}}))
}

func (l *List) Polyline(pts ...Point) {
	if len(pts) < 2 {
		return
	}
	l.cmds = append(l.cmds, l.stroked(OpPolyline, append([]Point(nil), pts...)))
}

func (l *List) FillPolygon(pts ...Point) {
	if len(pts) < 3 {
		return
	}
	l.cmds = append(l.cmds, l.filled(OpPolygon, append([]Point(nil), pts...)))
}

func (l *List) Rect(x, y, w, h float64) {
	c := l.stroked(OpRect, []Point{{x, y}})
	c.W, c.H = w, h
	l.cmds = append(l.cmds, c)
}

func (l *List) FillRect(x, y, w, h float64) {
	c := l.filled(OpRect, []Point{{x, y}})
	c.W, c.H = w, h
	l.cmds = append(l.cmds, c)
}

func (l *List) Circle(x, y, r float64) {
	c := l.stroked(OpCircle, []Point{{x, y}})
	c.R = r
	l.cmds = append(l.cmds, c)
}

func (l *List) FillCircle(x, y, r float64) {
	c := l.filled(OpCircle, []Point{{x, y}})
	c.R = r
	l.cmds = append(l.cmds, c)
}

// Arc strokes the circle segment from a0 to a1, radians, clockwise in screen
// coordinates.
func (l *List) Arc(x, y, r, a0, a1 float64) {
	c := l.stroked(OpArc, []Point{{x, y}})
	c.R, c.A0, c.A1 = r, a0, a1
	l.cmds = append(l.cmds, c)
}

// Text draws s with its baseline at y using the fill color.
func (l *List) Text(x, y, size float64, s string) {
	if s == "" {
		return
	}
	c := l.filled(OpText, []Point{{x, y}})
	c.Text, c.Font = s, size
	l.cmds = append(l.cmds, c)
}

// Commands exposes the recorded frame. The slice is reused by the next Clear.
func (l *List) Commands() []Command { return l.cmds }

func (l *List) Len() int { return len(l.cmds) }

// Snapshot returns a copy that stays valid after the list is redrawn.
func (l *List) Snapshot() *List {
	out := &List{size: l.size, cmds: make([]Command, len(l.cmds))}
	copy(out.cmds, l.cmds)
	out.resetStyle()
	return out
}

// Reset empties the list for reuse from a Pool.
func (l *List) Reset(s Size) {
	l.size = s
	l.cmds = l.cmds[:0]
	l.resetStyle()
}

// ArcPoints approximates the arc or circle with n segments.
func (c Command) ArcPoints(n int) []Point {
	a0, a1 := c.A0, c.A1
	if c.Op == OpCircle {
		a0, a1 = 0, 2*math.Pi
	}
	if n < 2 {
		n = 2
	}
	center := c.Pts[0]
	pts := make([]Point, n+1)
	for i := 0; i <= n; i++ {
		a := a0 + (a1-a0)*float64(i)/float64(n)
		pts[i] = Point{center.X + c.R*math.Cos(a), center.Y + c.R*math.Sin(a)}
	}
	return pts
}
