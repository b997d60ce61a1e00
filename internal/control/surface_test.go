package control

import (
	"errors"
	"testing"
)

type fakeBinding struct {
	vals  map[string]float64
	calls int
}

func (f *fakeBinding) SetControl(name string, v float64) error {
	f.calls++
	f.vals[name] = v
	return nil
}

func (f *fakeBinding) Control(name string) (float64, bool) {
	v, ok := f.vals[name]
	return v, ok
}

func TestSurface_ChangeClampsAndForwards(t *testing.T) {
	b := &fakeBinding{vals: map[string]float64{}}
	s := NewSurface([]Spec{angleSpec, gateSpec, lightSpec}, b)

	v, err := s.Change("angle", 300)
	if err != nil {
		t.Fatal(err)
	}
	if v != 75 || b.vals["angle"] != 75 {
		t.Errorf("forwarded %v, returned %v, want 75", b.vals["angle"], v)
	}
	if s.Display("angle") != "75 deg" {
		t.Errorf("display %q", s.Display("angle"))
	}

	if _, err := s.Change("nope", 1); !errors.Is(err, ErrUnknownControl) {
		t.Errorf("expected ErrUnknownControl, got %v", err)
	}
}

func TestSurface_Nudge(t *testing.T) {
	b := &fakeBinding{vals: map[string]float64{}}
	s := NewSurface([]Spec{angleSpec, gateSpec, lightSpec}, b)

	if v, _ := s.Nudge("angle", 3); v != 43 {
		t.Errorf("angle nudge = %v, want 43", v)
	}
	if v, _ := s.Nudge("gate", -1); v != 5 {
		t.Errorf("enum should wrap backwards, got %v", v)
	}
	if v, _ := s.Nudge("gate", 1); v != 0 {
		t.Errorf("enum should wrap forwards, got %v", v)
	}
	if v, _ := s.Toggle("light"); v != 0 {
		t.Errorf("toggle = %v, want 0", v)
	}
}

func TestSurface_SelectAndRefresh(t *testing.T) {
	b := &fakeBinding{vals: map[string]float64{}}
	s := NewSurface([]Spec{angleSpec, gateSpec}, b)

	if sp, i := s.Selected(); sp.Name != "angle" || i != 0 {
		t.Errorf("selected %s/%d", sp.Name, i)
	}
	if sp := s.Select(1); sp.Name != "gate" {
		t.Errorf("Select(1) = %s", sp.Name)
	}
	if sp := s.Select(1); sp.Name != "angle" {
		t.Errorf("Select should wrap, got %s", sp.Name)
	}

	b.vals["angle"] = 12
	s.Refresh()
	if v, _ := s.Value("angle"); v != 12 {
		t.Errorf("Refresh did not pull binding value, got %v", v)
	}
}

func TestSurface_Cycle(t *testing.T) {
	b := &fakeBinding{vals: map[string]float64{}}
	s := NewSurface([]Spec{gateSpec}, b)

	if v, _ := s.Cycle("gate", 1); v != 1 || s.Display("gate") != "OR" {
		t.Errorf("cycle forward = %v (%s)", v, s.Display("gate"))
	}
	if v, _ := s.Cycle("gate", -1); v != 0 {
		t.Errorf("cycle back = %v", v)
	}
	if b.calls != 2 {
		t.Errorf("binding called %d times, want 2", b.calls)
	}
}

func TestSurface_NudgeEnumWithoutOptions(t *testing.T) {
	b := &fakeBinding{vals: map[string]float64{}}
	s := NewSurface([]Spec{{Name: "mode", Kind: Enum}}, b)

	for _, steps := range []int{1, -1, 3} {
		if _, err := s.Nudge("mode", steps); !errors.Is(err, ErrInvalidSpec) {
			t.Errorf("Nudge(%d): expected ErrInvalidSpec, got %v", steps, err)
		}
	}
	if _, err := s.Cycle("mode", 1); !errors.Is(err, ErrInvalidSpec) {
		t.Errorf("Cycle: expected ErrInvalidSpec, got %v", err)
	}
	if b.calls != 0 {
		t.Errorf("binding called %d times", b.calls)
	}
}
