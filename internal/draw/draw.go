// Package draw defines the 2D drawing contract between lab renderers and the
// backends that put pixels somewhere.
//
// Renderers draw into a [Context]. The only implementation, [List], records
// every call as a [Command] with its style captured, so a frame can be
// compared, replayed into a Braille terminal canvas, rasterized to PNG, or
// written as SVG.
package draw

import (
	"image/color"
	"strconv"
	"strings"
)

type Point struct{ X, Y float64 }

type Size struct{ W, H float64 }

func (s Size) Empty() bool { return s.W <= 0 || s.H <= 0 }

// Min is the shorter side, handy as a layout unit.
func (s Size) Min() float64 {
	if s.W < s.H {
		return s.W
	}
	return s.H
}

// Context is the drawing surface handed to a renderer for one frame.
type Context interface {
	Size() Size
	Clear(bg color.RGBA)

	SetStroke(c color.RGBA)
	SetFill(c color.RGBA)
	SetLineWidth(w float64)
	SetDash(d ...float64)

	Line(x1, y1, x2, y2 float64)
	Polyline(pts ...Point)
	FillPolygon(pts ...Point)
	Rect(x, y, w, h float64)
	FillRect(x, y, w, h float64)
	Circle(x, y, r float64)
	FillCircle(x, y, r float64)
	Arc(x, y, r, a0, a1 float64)
	Text(x, y, size float64, s string)
}

// Hex parses "#rgb", "#rrggbb" or "#rrggbbaa". Malformed input yields opaque black.
func Hex(s string) color.RGBA {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) == 6 {
		s += "ff"
	}
	if len(s) != 8 {
		return color.RGBA{A: 0xff}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
}

// RGBA builds a color from 0-255 channels and a 0-1 alpha.
func RGBA(r, g, b uint8, a float64) color.RGBA {
	if a < 0 {
		a = 0
	} else if a > 1 {
		a = 1
	}
	return color.RGBA{R: r, G: g, B: b, A: uint8(a*255 + 0.5)}
}

// Alpha returns c with its alpha replaced.
func Alpha(c color.RGBA, a float64) color.RGBA {
	return RGBA(c.R, c.G, c.B, a)
}
