package control

import (
	"math"
	"testing"
)

var driveSpec = Spec{Name: "drive", Kind: Number, Min: -1, Max: 1, Default: 0}

func newDrive() *Axis {
	return NewAxis(AxisSpec{Param: "drive", DecKey: "a", IncKey: "d", Step: 0.04, Return: 0.02}, driveSpec)
}

func TestAxis_HoldThenRelease(t *testing.T) {
	for _, held := range []int{1, 5, 12, 25, 40, 200} {
		a := newDrive()
		a.KeyDown("d")
		for i := 0; i < held; i++ {
			v := a.Tick()
			if v < -1 || v > 1 {
				t.Fatalf("held %d: value %v left the domain", held, v)
			}
		}
		if a.State() != AxisRising {
			t.Fatalf("held %d: state %v, want rising", held, a.State())
		}
		peak := a.Value()
		want := math.Min(1, float64(held)*0.04)
		if math.Abs(peak-want) > 1e-9 {
			t.Errorf("held %d: peak %v, want %v", held, peak, want)
		}

		a.KeyUp("d")
		if a.State() != AxisReturning {
			t.Fatalf("held %d: state %v after release, want returning", held, a.State())
		}

		bound := int(math.Ceil(peak/0.02 - 1e-9))
		frames := 0
		for a.State() != AxisRest {
			prev := a.Value()
			v := a.Tick()
			frames++
			if v < 0 || v > prev {
				t.Fatalf("held %d: decay overshot or rose: %v -> %v", held, prev, v)
			}
			if frames > bound {
				t.Fatalf("held %d: not at rest after %d frames", held, frames)
			}
		}
		if a.Value() != 0 {
			t.Errorf("held %d: rest value %v", held, a.Value())
		}
		if frames != bound {
			t.Errorf("held %d: reached rest in %d frames, want %d", held, frames, bound)
		}
	}
}

func TestAxis_Transitions(t *testing.T) {
	a := newDrive()
	if a.State() != AxisRest {
		t.Fatalf("initial state %v", a.State())
	}

	if !a.KeyDown("A") {
		t.Fatal("uppercase key should match")
	}
	if a.State() != AxisFalling {
		t.Errorf("state %v, want falling", a.State())
	}

	a.KeyDown("d")
	if a.State() != AxisRising {
		t.Errorf("latest key should win, got %v", a.State())
	}

	a.KeyUp("d")
	if a.State() != AxisFalling {
		t.Errorf("releasing d while a held: %v, want falling", a.State())
	}

	a.KeyUp("a")
	if a.State() != AxisRest {
		t.Errorf("released at rest value: %v, want rest", a.State())
	}

	if a.KeyDown("x") || a.KeyUp("x") {
		t.Error("foreign key reported as handled")
	}
}

func TestAxis_SetStartsReturn(t *testing.T) {
	a := newDrive()
	a.Set(0.5)
	if a.State() != AxisReturning {
		t.Errorf("state %v, want returning", a.State())
	}
	a.Set(5)
	if a.Value() != 1 {
		t.Errorf("Set should clamp, got %v", a.Value())
	}
}

func TestAxis_SetHoldsForOneTick(t *testing.T) {
	a := newDrive()
	a.Set(-0.5)
	if got := a.Tick(); got != -0.5 {
		t.Fatalf("first tick after Set = %v, want -0.5", got)
	}
	if got := a.Tick(); math.Abs(got-(-0.48)) > 1e-9 {
		t.Errorf("second tick = %v, want -0.48", got)
	}

	a.Set(0.3)
	a.KeyDown("d")
	if got := a.Tick(); math.Abs(got-0.34) > 1e-9 {
		t.Errorf("held key after Set = %v, want 0.34", got)
	}
}

func TestAxis_ZeroReturnLatches(t *testing.T) {
	spec := Spec{Name: "intensity", Kind: Number, Min: 0, Max: 1, Default: 0.3}
	a := NewAxis(AxisSpec{Param: "intensity", DecKey: "a", IncKey: "d", Step: 0.02}, spec)

	a.KeyDown("d")
	for i := 0; i < 10; i++ {
		a.Tick()
	}
	a.KeyUp("d")
	if a.State() != AxisRest {
		t.Fatalf("state %v, want rest", a.State())
	}
	v := a.Value()
	for i := 0; i < 50; i++ {
		a.Tick()
	}
	if a.Value() != v {
		t.Errorf("latched value drifted: %v -> %v", v, a.Value())
	}
	if math.Abs(v-0.5) > 1e-9 {
		t.Errorf("value %v, want 0.5", v)
	}
}
