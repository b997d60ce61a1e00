package control

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Kind uint8

const (
	Number Kind = iota
	Enum
	Toggle
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case Enum:
		return "enum"
	case Toggle:
		return "toggle"
	}
	return "unknown"
}

// Spec declares one user-adjustable parameter. Enum values are stored as the
// option index and toggles as 0 or 1, so every control fits a float64.
type Spec struct {
	Name      string
	Label     string
	Unit      string
	Kind      Kind
	Min       float64
	Max       float64
	Step      float64
	Default   float64
	Options   []string
	Precision int
}

// Bounds returns the numeric domain, derived from Options or the toggle range
// for non-numeric kinds.
func (s Spec) Bounds() (lo, hi float64) {
	switch s.Kind {
	case Enum:
		return 0, float64(len(s.Options) - 1)
	case Toggle:
		return 0, 1
	}
	return s.Min, s.Max
}

// Clamp maps any value into the domain. NaN falls back to the default.
func (s Spec) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		v = s.Default
	}
	lo, hi := s.Bounds()
	switch s.Kind {
	case Enum:
		v = math.Round(v)
	case Toggle:
		if v >= 0.5 {
			return 1
		}
		return 0
	}
	return math.Max(lo, math.Min(hi, v))
}

func (s Spec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidSpec)
	}
	switch s.Kind {
	case Number:
		if s.Max < s.Min {
			return fmt.Errorf("%w: %s has max %v below min %v", ErrInvalidSpec, s.Name, s.Max, s.Min)
		}
	case Enum:
		if len(s.Options) == 0 {
			return fmt.Errorf("%w: %s has no options", ErrInvalidSpec, s.Name)
		}
	}
	return nil
}

// StepSize is the increment used by sliders and keyboard nudges.
func (s Spec) StepSize() float64 {
	if s.Kind != Number {
		return 1
	}
	if s.Step > 0 {
		return s.Step
	}
	return (s.Max - s.Min) / 100
}

// Option returns the enum option for v, or "" for other kinds.
func (s Spec) Option(v float64) string {
	if s.Kind != Enum || len(s.Options) == 0 {
		return ""
	}
	return s.Options[int(s.Clamp(v))]
}

func (s Spec) Format(v float64) string {
	v = s.Clamp(v)
	switch s.Kind {
	case Enum:
		return s.Option(v)
	case Toggle:
		if v == 1 {
			return "on"
		}
		return "off"
	}
	out := strconv.FormatFloat(v, 'f', s.Precision, 64)
	if s.Unit != "" {
		out += " " + s.Unit
	}
	return out
}

// Parse reads a number, an option name, or a toggle word (on/off, true/false,
// yes/no) and returns the clamped value.
func (s Spec) Parse(text string) (float64, error) {
	text = strings.TrimSpace(text)
	switch s.Kind {
	case Enum:
		for i, opt := range s.Options {
			if strings.EqualFold(opt, text) {
				return float64(i), nil
			}
		}
	case Toggle:
		switch strings.ToLower(text) {
		case "on", "true", "yes", "1":
			return 1, nil
		case "off", "false", "no", "0":
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %q for toggle %s", ErrParse, text, s.Name)
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q for %s", ErrParse, text, s.Name)
	}
	return s.Clamp(v), nil
}
