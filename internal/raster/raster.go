// Package raster replays recorded drawing commands into an image.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/san-kum/physlab/internal/draw"
)

var ErrEmptyImage = errors.New("raster: empty image")

var (
	fontOnce sync.Once
	fontSrc  *text.FontSource
	fontErr  error
)

func source() (*text.FontSource, error) {
	fontOnce.Do(func() {
		fontSrc, fontErr = text.NewFontSource(goregular.TTF)
	})
	return fontSrc, fontErr
}

// Render draws list onto a w x h image. Commands are scaled from the list's
// own size so a frame recorded at one resolution can be exported at another.
func Render(list *draw.List, w, h int) (image.Image, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyImage, w, h)
	}
	dc := gg.NewContext(w, h)
	defer dc.Close()

	r := &replay{dc: dc, sx: 1, sy: 1, faces: make(map[float64]text.Face)}
	if sz := list.Size(); !sz.Empty() {
		r.sx, r.sy = float64(w)/sz.W, float64(h)/sz.H
	}
	for i, c := range list.Commands() {
		if err := r.command(c); err != nil {
			return nil, fmt.Errorf("raster: command %d (%s): %w", i, c.Op, err)
		}
	}
	if err := dc.FlushGPU(); err != nil {
		return nil, fmt.Errorf("raster: flush: %w", err)
	}
	return dc.Image(), nil
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

type replay struct {
	dc     *gg.Context
	sx, sy float64
	faces  map[float64]text.Face
}

func (r *replay) pt(p draw.Point) (float64, float64) { return p.X * r.sx, p.Y * r.sy }

// scale maps a length; radii and widths use the smaller axis so circles
// stay round.
func (r *replay) scale(v float64) float64 { return v * math.Min(r.sx, r.sy) }

func (r *replay) command(c draw.Command) error {
	switch c.Op {
	case draw.OpClear:
		r.dc.ClearWithColor(gg.FromColor(c.Color))
		return nil
	case draw.OpText:
		return r.text(c)
	}

	r.dc.SetColor(c.Color)
	if c.Fill {
		r.path(c)
		return r.dc.Fill()
	}

	r.dc.SetLineWidth(math.Max(r.scale(c.Width), 0.5))
	if len(c.Dash) > 0 {
		dash := make([]float64, len(c.Dash))
		for i, d := range c.Dash {
			dash[i] = r.scale(d)
		}
		r.dc.SetDash(dash...)
	} else {
		r.dc.ClearDash()
	}
	r.path(c)
	return r.dc.Stroke()
}

func (r *replay) path(c draw.Command) {
	switch c.Op {
	case draw.OpLine, draw.OpPolyline, draw.OpPolygon:
		for i, p := range c.Pts {
			x, y := r.pt(p)
			if i == 0 {
				r.dc.MoveTo(x, y)
			} else {
				r.dc.LineTo(x, y)
			}
		}
		if c.Op == draw.OpPolygon {
			r.dc.ClosePath()
		}
	case draw.OpRect:
		x, y := r.pt(c.Pts[0])
		r.dc.DrawRectangle(x, y, c.W*r.sx, c.H*r.sy)
	case draw.OpCircle:
		x, y := r.pt(c.Pts[0])
		r.dc.DrawCircle(x, y, r.scale(c.R))
	case draw.OpArc:
		if c.A1 < c.A0 {
			// gg sweeps arcs forward only
			r.path(draw.Command{Op: draw.OpPolyline, Pts: c.ArcPoints(48)})
			return
		}
		x, y := r.pt(c.Pts[0])
		r.dc.DrawArc(x, y, r.scale(c.R), c.A0, c.A1)
	}
}

func (r *replay) text(c draw.Command) error {
	size := math.Round(r.scale(c.Font)*2) / 2
	if size <= 0 {
		return nil
	}
	face, ok := r.faces[size]
	if !ok {
		src, err := source()
		if err != nil {
			return err
		}
		face = src.Face(size)
		r.faces[size] = face
	}
	r.dc.SetFont(face)
	r.dc.SetColor(c.Color)
	x, y := r.pt(c.Pts[0])
	r.dc.DrawString(c.Text, x, y)
	return nil
}
