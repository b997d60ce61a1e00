package draw

import (
	"image/color"
	"math"
	"reflect"
	"testing"
)

func TestHex(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#22c55e", color.RGBA{0x22, 0xc5, 0x5e, 0xff}},
		{"fff", color.RGBA{0xff, 0xff, 0xff, 0xff}},
		{"#00000080", color.RGBA{0, 0, 0, 0x80}},
		{"#zz", color.RGBA{A: 0xff}},
	}

	for _, tt := range tests {
		if got := Hex(tt.in); got != tt.want {
			t.Errorf("Hex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestList_RecordsStyle(t *testing.T) {
	l := NewList(Size{200, 100})
	red := Hex("#ff0000")
	blue := Hex("#0000ff")

	l.Clear(Hex("#000"))
	l.SetStroke(red)
	l.SetLineWidth(3)
	l.SetDash(4, 2)
	l.Line(0, 0, 10, 10)
	l.SetDash()
	l.SetFill(blue)
	l.FillCircle(50, 50, 5)
	l.Text(1, 2, 12, "")

	cmds := l.Commands()
	if len(cmds) != 3 {
		t.Fatalf("recorded %d commands, want 3", len(cmds))
	}
	if cmds[0].Op != OpClear || cmds[0].W != 200 {
		t.Errorf("first command %+v", cmds[0])
	}
	line := cmds[1]
	if line.Color != red || line.Width != 3 || !reflect.DeepEqual(line.Dash, []float64{4, 2}) {
		t.Errorf("line style not captured: %+v", line)
	}
	if c := cmds[2]; !c.Fill || c.Color != blue || c.Dash != nil {
		t.Errorf("fill style wrong: %+v", c)
	}
}

func TestList_ClearResets(t *testing.T) {
	l := NewList(Size{10, 10})
	l.SetLineWidth(5)
	l.Line(0, 0, 1, 1)
	l.Clear(color.RGBA{})
	l.Line(0, 0, 1, 1)
	if l.Len() != 2 {
		t.Fatalf("len %d", l.Len())
	}
	if w := l.Commands()[1].Width; w != 1 {
		t.Errorf("width after clear = %v, want 1", w)
	}
}

func TestList_SnapshotIsIndependent(t *testing.T) {
	l := NewList(Size{10, 10})
	l.Clear(color.RGBA{})
	l.Rect(1, 1, 2, 2)
	snap := l.Snapshot()

	l.Clear(color.RGBA{})
	l.Circle(5, 5, 1)

	if snap.Commands()[1].Op != OpRect {
		t.Errorf("snapshot mutated: %v", snap.Commands()[1].Op)
	}
}

func TestCommand_Bounds(t *testing.T) {
	c := Command{Op: OpCircle, Pts: []Point{{10, 20}}, R: 5}
	min, max := c.Bounds()
	if min != (Point{5, 15}) || max != (Point{15, 25}) {
		t.Errorf("circle bounds %v %v", min, max)
	}

	p := Command{Op: OpPolyline, Pts: []Point{{3, 9}, {-1, 4}, {7, 2}}}
	min, max = p.Bounds()
	if min != (Point{-1, 2}) || max != (Point{7, 9}) {
		t.Errorf("polyline bounds %v %v", min, max)
	}
}

func TestCommand_ArcPoints(t *testing.T) {
	c := Command{Op: OpArc, Pts: []Point{{0, 0}}, R: 2, A0: 0, A1: math.Pi}
	pts := c.ArcPoints(4)
	if len(pts) != 5 {
		t.Fatalf("got %d points", len(pts))
	}
	last := pts[len(pts)-1]
	if math.Abs(last.X+2) > 1e-9 || math.Abs(last.Y) > 1e-9 {
		t.Errorf("arc end %v, want (-2,0)", last)
	}
}

func TestPool(t *testing.T) {
	pool := NewPool()

	l := pool.Get(Size{4, 4})
	l.Line(0, 0, 1, 1)
	pool.Put(l)

	l2 := pool.Get(Size{8, 8})
	if l2.Len() != 0 || l2.Size() != (Size{8, 8}) {
		t.Errorf("pooled list not reset: len=%d size=%v", l2.Len(), l2.Size())
	}
}

func TestPool_GetAndCopy(t *testing.T) {
	pool := NewPool()
	src := NewList(Size{4, 4})
	src.Line(0, 0, 1, 1)

	dst := pool.GetAndCopy(src)
	src.Clear(color.RGBA{})
	if dst.Len() != 1 || dst.Commands()[0].Op != OpLine {
		t.Errorf("copy not independent: %+v", dst.Commands())
	}
}

func TestSurface_EmptyHasNoContext(t *testing.T) {
	s := NewSurface(0, 100)
	if s.Context() != nil {
		t.Error("zero-width surface returned a context")
	}
	s.Resize(10, 10)
	if s.Context() == nil {
		t.Error("resized surface has no context")
	}
	var nilSurface *Surface
	if nilSurface.Context() != nil || !nilSurface.Size().Empty() {
		t.Error("nil surface should be empty")
	}
}
