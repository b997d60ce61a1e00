package export

import (
	"bytes"
	"errors"
	"image/gif"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/physlab/internal/draw"
	"github.com/san-kum/physlab/internal/engine"
)

func sample() *draw.List {
	l := draw.NewList(draw.Size{W: 200, H: 100})
	l.Clear(draw.Hex("#0a0a0a"))
	l.SetStroke(draw.Hex("#22c55e"))
	l.SetLineWidth(2)
	l.SetDash(4, 2)
	l.Line(0, 0, 10, 10)
	l.SetDash()
	l.Circle(50, 50, 10)
	l.Arc(50, 50, 20, 0, math.Pi)
	l.SetFill(draw.Alpha(draw.Hex("#ff0000"), 0.5))
	l.FillRect(10, 10, 20, 20)
	l.FillPolygon(draw.Point{X: 0, Y: 0}, draw.Point{X: 5, Y: 0}, draw.Point{X: 5, Y: 5})
	l.SetFill(draw.Hex("#ffffff"))
	l.Text(5, 90, 12, "V < 1 & I > 0")
	return l
}

func TestSVG(t *testing.T) {
	svg := SVG(sample())

	for _, want := range []string{
		`viewBox="0 0 200 100"`,
		`<rect width="100%" height="100%" fill="#0a0a0a"`,
		`stroke-dasharray="4.0,2.0"`,
		`<circle cx="50.0" cy="50.0" r="10.0"`,
		`A20.0,20.0 0 0 1`,
		`fill="#ff0000" fill-opacity="0.50"`,
		`<polygon points="0.0,0.0 5.0,0.0 5.0,5.0"`,
		`V &lt; 1 &amp; I &gt; 0`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("SVG not closed")
	}
	if SVG(nil) != "" {
		t.Error("nil list should give empty output")
	}
}

func TestArcPath_FullTurn(t *testing.T) {
	c := draw.Command{Op: draw.OpArc, Pts: []draw.Point{{X: 0, Y: 0}}, R: 10, A0: 0, A1: 2 * math.Pi}
	if got := strings.Count(arcPath(c), "A"); got != 2 {
		t.Errorf("full turn uses %d arc segments, want 2", got)
	}
}

func TestSeriesSVG(t *testing.T) {
	series := []engine.Series{
		{Name: "KE", Values: []float64{0, 1, 2, 3}},
		{Name: "PE", Values: []float64{3, 2, 1, 0}},
	}
	svg := SeriesSVG(series, 100, 50, []string{"#f00", "#0f0"})
	if strings.Count(svg, "<path") != 2 {
		t.Errorf("expected two paths:\n%s", svg)
	}
	if !strings.Contains(svg, `stroke="#0f0"`) || !strings.Contains(svg, "<title>PE</title>") {
		t.Error("second series not styled")
	}
	if SeriesSVG([]engine.Series{{Name: "x", Values: []float64{1}}}, 10, 10, nil) != "" {
		t.Error("a single sample cannot be plotted")
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder(40, 20, 2)
	l := sample()
	for i := 1; i <= 5; i++ {
		r.OnFrame(engine.Frame{Index: i, DT: 20 * time.Millisecond, Context: l})
	}
	if r.Len() != 2 {
		t.Fatalf("kept %d frames, want 2", r.Len())
	}

	var buf bytes.Buffer
	if err := r.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	anim, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(anim.Image) != 2 {
		t.Fatalf("decoded %d frames", len(anim.Image))
	}
	if b := anim.Image[0].Bounds(); b.Dx() != 40 || b.Dy() != 20 {
		t.Errorf("frame bounds %v", b)
	}
	if anim.Delay[0] != 4 {
		t.Errorf("delay %d, want 4", anim.Delay[0])
	}
	if r.Len() != 0 {
		t.Error("Encode should release frames")
	}
}

func TestRecorder_Limits(t *testing.T) {
	r := NewRecorder(10, 10, 1)
	r.Max = 1
	l := sample()
	r.OnFrame(engine.Frame{Index: 1, Context: l})
	r.OnFrame(engine.Frame{Index: 2, Context: l})
	r.OnFrame(engine.Frame{Index: 3, Context: nil})
	if r.Len() != 1 {
		t.Errorf("kept %d frames, want 1", r.Len())
	}

	empty := NewRecorder(10, 10, 0)
	if err := empty.Encode(&bytes.Buffer{}); !errors.Is(err, ErrNoFrames) {
		t.Errorf("err = %v", err)
	}
}
