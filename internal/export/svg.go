package export

import (
	"fmt"
	"html"
	"image/color"
	"math"
	"strings"

	"github.com/san-kum/physlab/internal/draw"
	"github.com/san-kum/physlab/internal/engine"
)

// SVG converts a recorded frame to a standalone SVG document. The
// viewBox is the list's own size, so the picture scales with its host.
func SVG(list *draw.List) string {
	if list == nil {
		return ""
	}
	sz := list.Size()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
`, sz.W, sz.H, sz.W, sz.H))

	for _, c := range list.Commands() {
		writeCommand(&sb, c)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func writeCommand(sb *strings.Builder, c draw.Command) {
	switch c.Op {
	case draw.OpClear:
		sb.WriteString(fmt.Sprintf(`<rect width="100%%" height="100%%" %s/>
`, paint(c)))
	case draw.OpLine, draw.OpPolyline:
		sb.WriteString(fmt.Sprintf(`<polyline points="%s" %s/>
`, points(c.Pts), paint(c)))
	case draw.OpPolygon:
		sb.WriteString(fmt.Sprintf(`<polygon points="%s" %s/>
`, points(c.Pts), paint(c)))
	case draw.OpRect:
		p := c.Pts[0]
		x, y, w, h := p.X, p.Y, c.W, c.H
		if w < 0 {
			x, w = x+w, -w
		}
		if h < 0 {
			y, h = y+h, -h
		}
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" %s/>
`, x, y, w, h, paint(c)))
	case draw.OpCircle:
		p := c.Pts[0]
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" %s/>
`, p.X, p.Y, math.Abs(c.R), paint(c)))
	case draw.OpArc:
		sb.WriteString(fmt.Sprintf(`<path d="%s" %s/>
`, arcPath(c), paint(c)))
	case draw.OpText:
		p := c.Pts[0]
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-family="sans-serif" font-size="%.1f" %s>%s</text>
`, p.X, p.Y, c.Font, paint(c), html.EscapeString(c.Text)))
	}
}

func points(pts []draw.Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("%.1f,%.1f", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

// arcPath emits an SVG elliptical arc. Sweeps of a full turn or more are
// split in two since a single arc command cannot close on itself.
func arcPath(c draw.Command) string {
	center := c.Pts[0]
	at := func(a float64) (float64, float64) {
		return center.X + c.R*math.Cos(a), center.Y + c.R*math.Sin(a)
	}
	sweep := 1
	if c.A1 < c.A0 {
		sweep = 0
	}
	span := math.Abs(c.A1 - c.A0)
	x0, y0 := at(c.A0)
	if span >= 2*math.Pi {
		mid := c.A0 + math.Copysign(math.Pi, c.A1-c.A0)
		xm, ym := at(mid)
		return fmt.Sprintf("M%.1f,%.1f A%.1f,%.1f 0 0 %d %.1f,%.1f A%.1f,%.1f 0 0 %d %.1f,%.1f",
			x0, y0, c.R, c.R, sweep, xm, ym, c.R, c.R, sweep, x0, y0)
	}
	large := 0
	if span > math.Pi {
		large = 1
	}
	x1, y1 := at(c.A1)
	return fmt.Sprintf("M%.1f,%.1f A%.1f,%.1f 0 %d %d %.1f,%.1f", x0, y0, c.R, c.R, large, sweep, x1, y1)
}

func paint(c draw.Command) string {
	col, op := hexColor(c.Color)
	if c.Fill {
		return fmt.Sprintf(`fill="%s" fill-opacity="%.2f"`, col, op)
	}
	s := fmt.Sprintf(`fill="none" stroke="%s" stroke-opacity="%.2f" stroke-width="%.1f"`, col, op, c.Width)
	if len(c.Dash) > 0 {
		parts := make([]string, len(c.Dash))
		for i, d := range c.Dash {
			parts[i] = fmt.Sprintf("%.1f", d)
		}
		s += fmt.Sprintf(` stroke-dasharray="%s"`, strings.Join(parts, ","))
	}
	return s
}

func hexColor(c color.RGBA) (string, float64) {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B), float64(c.A) / 255
}

// SeriesSVG plots one or more series against their sample index, each
// normalised to a shared vertical range.
func SeriesSVG(series []engine.Series, width, height int, colors []string) string {
	minY, maxY := math.Inf(1), math.Inf(-1)
	longest := 0
	for _, s := range series {
		for _, v := range s.Values {
			minY = math.Min(minY, v)
			maxY = math.Max(maxY, v)
		}
		longest = max(longest, len(s.Values))
	}
	if longest < 2 {
		return ""
	}

	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for i, s := range series {
		if len(s.Values) < 2 {
			continue
		}
		stroke := "#00ff00"
		if len(colors) > 0 {
			stroke = colors[i%len(colors)]
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, stroke))
		for j, v := range s.Values {
			x := float64(j) / float64(longest-1) * float64(width)
			y := float64(height) - (v-minY)/rangeY*float64(height)
			if j == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString(fmt.Sprintf(`"><title>%s</title></path>
`, html.EscapeString(s.Name)))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
