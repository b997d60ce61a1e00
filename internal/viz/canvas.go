package viz

import (
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/physlab/internal/draw"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a grid of Braille cells. Each cell remembers the colour of the
// last dot set in it.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]color.RGBA
	Background    color.RGBA

	ink color.RGBA
}

func NewCanvas(w, h int) *Canvas {
	w, h = max(w, 0), max(h, 0)
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Colors: make([][]color.RGBA, h),
		ink:    color.RGBA{0xff, 0xff, 0xff, 0xff},
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]color.RGBA, w)
	}
	c.Clear()
	return c
}

// Dots is the canvas size in sub-pixels.
func (c *Canvas) Dots() draw.Size { return draw.Size{W: float64(c.Width * 2), H: float64(c.Height * 4)} }

// Set lights the sub-pixel at (x, y) in the current ink.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	c.Colors[row][col] = c.ink
}

func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] &^= rune(pixelMap[y%4][x%2])
	if c.Grid[row][col] < blank {
		c.Grid[row][col] = blank
	}
}

// Lit reports whether the sub-pixel at (x, y) is set.
func (c *Canvas) Lit(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Colors[i][j] = color.RGBA{}
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Replay rasterises a recorded frame onto the dots, scaled to fit. Text is
// skipped since a Braille cell cannot hold a glyph; labs report their
// numbers as readouts instead. Faint fills and fills covering most of the
// frame are treated as backdrop and left dark.
func (c *Canvas) Replay(list *draw.List) {
	c.Clear()
	src := list.Size()
	dots := c.Dots()
	if src.Empty() || dots.Empty() {
		return
	}
	r := replay{c: c, sx: dots.W / src.W, sy: dots.H / src.H, area: src.W * src.H}

	for _, cmd := range list.Commands() {
		if cmd.Op == draw.OpClear {
			c.Background = cmd.Color
			continue
		}
		if cmd.Op == draw.OpText || cmd.Color.A < 64 {
			continue
		}
		c.ink = cmd.Color
		r.command(cmd)
	}
}

type replay struct {
	c      *Canvas
	sx, sy float64
	area   float64
}

func (r replay) pt(p draw.Point) (int, int) {
	return int(math.Round(p.X * r.sx)), int(math.Round(p.Y * r.sy))
}

func (r replay) command(cmd draw.Command) {
	switch cmd.Op {
	case draw.OpLine, draw.OpPolyline:
		r.polyline(cmd.Pts, cmd.Dash)
	case draw.OpPolygon:
		if cmd.Fill {
			r.fillPolygon(cmd.Pts)
		}
	case draw.OpRect:
		p := cmd.Pts[0]
		if cmd.Fill {
			if math.Abs(cmd.W*cmd.H) >= r.area*0.5 {
				return
			}
			r.fillPolygon([]draw.Point{p, {X: p.X + cmd.W, Y: p.Y}, {X: p.X + cmd.W, Y: p.Y + cmd.H}, {X: p.X, Y: p.Y + cmd.H}})
			return
		}
		r.polyline([]draw.Point{p, {X: p.X + cmd.W, Y: p.Y}, {X: p.X + cmd.W, Y: p.Y + cmd.H}, {X: p.X, Y: p.Y + cmd.H}, p}, cmd.Dash)
	case draw.OpCircle:
		if cmd.Fill {
			r.fillCircle(cmd.Pts[0], cmd.R)
			return
		}
		r.polyline(cmd.ArcPoints(segments(cmd.R*math.Max(r.sx, r.sy))), cmd.Dash)
	case draw.OpArc:
		r.polyline(cmd.ArcPoints(segments(cmd.R*math.Max(r.sx, r.sy))), cmd.Dash)
	}
}

func segments(radius float64) int {
	return min(max(int(radius), 8), 64)
}

// polyline strokes the points. Dashed lines are approximated by skipping
// every other segment.
func (r replay) polyline(pts []draw.Point, dash []float64) {
	for i := 1; i < len(pts); i++ {
		if len(dash) > 0 && i%2 == 0 {
			continue
		}
		x0, y0 := r.pt(pts[i-1])
		x1, y1 := r.pt(pts[i])
		r.c.DrawLine(x0, y0, x1, y1)
	}
}

func (r replay) fillCircle(center draw.Point, radius float64) {
	cx, cy := center.X*r.sx, center.Y*r.sy
	rx, ry := math.Abs(radius*r.sx), math.Abs(radius*r.sy)
	if rx < 0.5 || ry < 0.5 {
		x, y := r.pt(center)
		r.c.Set(x, y)
		return
	}
	for y := int(cy - ry); y <= int(cy+ry); y++ {
		for x := int(cx - rx); x <= int(cx+rx); x++ {
			dx, dy := (float64(x)-cx)/rx, (float64(y)-cy)/ry
			if dx*dx+dy*dy <= 1 {
				r.c.Set(x, y)
			}
		}
	}
}

// fillPolygon is an even-odd scanline fill in dot space.
func (r replay) fillPolygon(pts []draw.Point) {
	if len(pts) < 3 {
		return
	}
	scaled := make([]draw.Point, len(pts))
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i, p := range pts {
		scaled[i] = draw.Point{X: p.X * r.sx, Y: p.Y * r.sy}
		minY, maxY = math.Min(minY, scaled[i].Y), math.Max(maxY, scaled[i].Y)
	}
	var xs []float64
	for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
		fy := float64(y) + 0.5
		xs = xs[:0]
		for i := range scaled {
			a, b := scaled[i], scaled[(i+1)%len(scaled)]
			if (a.Y <= fy) == (b.Y <= fy) {
				continue
			}
			xs = append(xs, a.X+(fy-a.Y)*(b.X-a.X)/(b.Y-a.Y))
		}
		sortFloats(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := int(math.Round(xs[i])); x <= int(math.Round(xs[i+1])); x++ {
				r.c.Set(x, y)
			}
		}
	}
}

// sortFloats is an insertion sort; scanlines cross a handful of edges.
func sortFloats(xs []float64) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j] < xs[j-1]; j-- {
			xs[j], xs[j-1] = xs[j-1], xs[j]
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render is String with each cell in its dot colour. Runs of one colour
// share a style so the output stays small.
func (c *Canvas) Render() string {
	var b strings.Builder
	for i, row := range c.Grid {
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && c.Colors[i][j] == c.Colors[i][start] {
				continue
			}
			run := string(row[start:j])
			if col := c.Colors[i][start]; col.A > 0 {
				run = lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor(col))).Render(run)
			}
			b.WriteString(run)
			start = j
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
