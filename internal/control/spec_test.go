package control

import (
	"errors"
	"math"
	"testing"
)

var (
	angleSpec = Spec{Name: "angle", Kind: Number, Min: 5, Max: 75, Step: 1, Default: 40, Unit: "deg"}
	gateSpec  = Spec{Name: "gate", Kind: Enum, Options: []string{"AND", "OR", "NAND", "NOR", "XOR", "NOT"}}
	lightSpec = Spec{Name: "light", Kind: Toggle, Default: 1}
)

func TestSpec_Clamp(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		in   float64
		want float64
	}{
		{"in range", angleSpec, 40, 40},
		{"below min", angleSpec, -10, 5},
		{"above max", angleSpec, 90, 75},
		{"nan uses default", angleSpec, math.NaN(), 40},
		{"enum rounds", gateSpec, 2.4, 2},
		{"enum above", gateSpec, 17, 5},
		{"enum below", gateSpec, -3, 0},
		{"toggle high", lightSpec, 0.7, 1},
		{"toggle low", lightSpec, 0.2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.spec.Clamp(tt.in); got != tt.want {
				t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSpec_Format(t *testing.T) {
	if got := angleSpec.Format(40); got != "40 deg" {
		t.Errorf("got %q", got)
	}
	if got := gateSpec.Format(2); got != "NAND" {
		t.Errorf("got %q", got)
	}
	if got := lightSpec.Format(0); got != "off" {
		t.Errorf("got %q", got)
	}
	r := Spec{Name: "r", Kind: Number, Min: 0, Max: 1, Precision: 2}
	if got := r.Format(0.123); got != "0.12" {
		t.Errorf("got %q", got)
	}
}

func TestSpec_Parse(t *testing.T) {
	tests := []struct {
		spec    Spec
		in      string
		want    float64
		wantErr bool
	}{
		{angleSpec, "25", 25, false},
		{angleSpec, "120", 75, false},
		{angleSpec, "steep", 0, true},
		{gateSpec, "nand", 2, false},
		{gateSpec, "3", 3, false},
		{lightSpec, "off", 0, false},
		{lightSpec, "Yes", 1, false},
		{lightSpec, "maybe", 0, true},
	}

	for _, tt := range tests {
		got, err := tt.spec.Parse(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrParse) {
				t.Errorf("Parse(%q) err = %v, want ErrParse", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewParams_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		specs []Spec
	}{
		{"empty name", []Spec{{Kind: Number, Max: 1}}},
		{"empty enum", []Spec{{Name: "mode", Kind: Enum}}},
		{"inverted", []Spec{{Name: "x", Kind: Number, Min: 2, Max: 1}}},
		{"duplicate", []Spec{angleSpec, angleSpec}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewParams(tt.specs); !errors.Is(err, ErrInvalidSpec) {
				t.Errorf("expected ErrInvalidSpec, got %v", err)
			}
		})
	}
}

func TestParams_SetClampsAndClones(t *testing.T) {
	p, err := NewParams([]Spec{angleSpec, gateSpec, lightSpec})
	if err != nil {
		t.Fatal(err)
	}

	if got := p.Get("angle"); got != 40 {
		t.Errorf("default angle = %v", got)
	}
	if v, _ := p.Set("angle", 200); v != 75 {
		t.Errorf("Set clamped to %v, want 75", v)
	}
	if _, err := p.Set("missing", 1); !errors.Is(err, ErrUnknownControl) {
		t.Errorf("expected ErrUnknownControl, got %v", err)
	}

	p.Set("gate", 2)
	if p.Option("gate") != "NAND" {
		t.Errorf("gate option = %q", p.Option("gate"))
	}
	if !p.Bool("light") {
		t.Error("light should default on")
	}

	c := p.Clone()
	c.Set("angle", 10)
	if p.Get("angle") != 75 {
		t.Error("Clone shares values with the original")
	}
	p.CopyFrom(c)
	if p.Get("angle") != 10 {
		t.Error("CopyFrom did not copy values")
	}
}
