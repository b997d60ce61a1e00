package analysis

import (
	"math"
	"strings"
)

// Point is one sample of a portrait.
type Point struct{ X, Y float64 }

// Portrait pairs two readouts sample by sample, e.g. a pendulum's angle
// against its angular velocity.
type Portrait struct {
	XLabel, YLabel string
	Points         []Point
}

// NewPortrait zips xs and ys, stopping at the shorter of the two.
func NewPortrait(xLabel string, xs []float64, yLabel string, ys []float64) *Portrait {
	n := min(len(xs), len(ys))
	p := &Portrait{XLabel: xLabel, YLabel: yLabel, Points: make([]Point, n)}
	for i := 0; i < n; i++ {
		p.Points[i] = Point{xs[i], ys[i]}
	}
	return p
}

// ASCII plots the portrait on a width x height character grid, with the
// axes drawn where they fall inside the padded bounds.
func (p *Portrait) ASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
		minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
	}
	minX, maxX = pad(minX, maxX)
	minY, maxY = pad(minY, maxY)
	rangeX, rangeY := maxX-minX, maxY-minY

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}
	col := func(x float64) int { return int((x - minX) / rangeX * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-minY)/rangeY*float64(height-1)) }

	if minX <= 0 && maxX >= 0 {
		c := col(0)
		for r := range grid {
			grid[r][c] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		r := row(0)
		for c := range grid[r] {
			if grid[r][c] == '│' {
				grid[r][c] = '┼'
			} else {
				grid[r][c] = '─'
			}
		}
	}
	for _, pt := range p.Points {
		c, r := col(pt.X), row(pt.Y)
		if r >= 0 && r < height && c >= 0 && c < width {
			grid[r][c] = '•'
		}
	}

	var sb strings.Builder
	for _, line := range grid {
		sb.WriteString(string(line))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// pad widens [lo, hi] by a tenth on each side. A flat range becomes one
// unit wide.
func pad(lo, hi float64) (float64, float64) {
	r := hi - lo
	if r == 0 {
		r = 1
	}
	return lo - r*0.1, hi + r*0.1
}

// Crossings returns the times at which values rises through level,
// linearly interpolated between samples dt seconds apart.
func Crossings(values []float64, dt, level float64) []float64 {
	var out []float64
	for i := 1; i < len(values); i++ {
		prev, cur := values[i-1], values[i]
		if prev < level && cur >= level {
			frac := (level - prev) / (cur - prev)
			out = append(out, (float64(i-1)+frac)*dt)
		}
	}
	return out
}

// Period is the mean spacing of upward crossings through the mean value.
// ok is false with fewer than two crossings.
func Period(values []float64, dt float64) (period float64, ok bool) {
	if len(values) == 0 {
		return 0, false
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	c := Crossings(values, dt, mean)
	if len(c) < 2 {
		return 0, false
	}
	return (c[len(c)-1] - c[0]) / float64(len(c)-1), true
}
