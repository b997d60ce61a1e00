package control

import "fmt"

// Binding is the controller side of a surface: the running simulation.
type Binding interface {
	SetControl(name string, v float64) error
	Control(name string) (float64, bool)
}

// Surface maps user actions onto a Binding and keeps the displayed values in
// step with the user's input. The display updates synchronously; the
// simulation sees the change on its next frame.
type Surface struct {
	specs    []Spec
	index    map[string]int
	shown    []float64
	binding  Binding
	selected int
}

func NewSurface(specs []Spec, b Binding) *Surface {
	s := &Surface{
		specs:   specs,
		index:   make(map[string]int, len(specs)),
		shown:   make([]float64, len(specs)),
		binding: b,
	}
	for i, sp := range specs {
		s.index[sp.Name] = i
		s.shown[i] = sp.Clamp(sp.Default)
	}
	s.Refresh()
	return s
}

func (s *Surface) Specs() []Spec { return s.specs }

// Change clamps v, forwards it to the binding, and updates the display.
func (s *Surface) Change(name string, v float64) (float64, error) {
	i, ok := s.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownControl, name)
	}
	v = s.specs[i].Clamp(v)
	s.shown[i] = v
	if s.binding != nil {
		if err := s.binding.SetControl(name, v); err != nil {
			return v, err
		}
	}
	return v, nil
}

// Nudge moves a control by whole steps. Enums wrap around; toggles flip on
// any non-zero step.
func (s *Surface) Nudge(name string, steps int) (float64, error) {
	i, ok := s.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownControl, name)
	}
	sp := s.specs[i]
	switch sp.Kind {
	case Enum:
		n := len(sp.Options)
		if n == 0 {
			return s.shown[i], fmt.Errorf("%w: %s has no options", ErrInvalidSpec, name)
		}
		next := (int(s.shown[i]) + steps%n + n) % n
		return s.Change(name, float64(next))
	case Toggle:
		if steps == 0 {
			return s.shown[i], nil
		}
		return s.Change(name, 1-s.shown[i])
	}
	return s.Change(name, s.shown[i]+float64(steps)*sp.StepSize())
}

func (s *Surface) Toggle(name string) (float64, error) { return s.Nudge(name, 1) }

// Cycle steps an enum control forwards or backwards through its options.
func (s *Surface) Cycle(name string, dir int) (float64, error) {
	if dir < 0 {
		return s.Nudge(name, -1)
	}
	return s.Nudge(name, 1)
}

// Value is the displayed value of name.
func (s *Surface) Value(name string) (float64, bool) {
	i, ok := s.index[name]
	if !ok {
		return 0, false
	}
	return s.shown[i], true
}

func (s *Surface) Display(name string) string {
	i, ok := s.index[name]
	if !ok {
		return ""
	}
	return s.specs[i].Format(s.shown[i])
}

// Refresh pulls values changed outside the surface, such as key axes, back
// into the display.
func (s *Surface) Refresh() {
	if s.binding == nil {
		return
	}
	for i, sp := range s.specs {
		if v, ok := s.binding.Control(sp.Name); ok {
			s.shown[i] = v
		}
	}
}

// Select moves the keyboard cursor and returns the selected spec.
func (s *Surface) Select(dir int) Spec {
	if len(s.specs) == 0 {
		return Spec{}
	}
	n := len(s.specs)
	s.selected = ((s.selected+dir)%n + n) % n
	return s.specs[s.selected]
}

func (s *Surface) Selected() (Spec, int) {
	if len(s.specs) == 0 {
		return Spec{}, -1
	}
	return s.specs[s.selected], s.selected
}

// Adjust nudges the selected control.
func (s *Surface) Adjust(steps int) (float64, error) {
	sp, i := s.Selected()
	if i < 0 {
		return 0, nil
	}
	return s.Nudge(sp.Name, steps)
}
