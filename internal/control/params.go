package control

import "fmt"

// Params holds the current value of every control a lab declares.
// Params is not safe for concurrent use; the engine guards its own copy and
// hands simulations a private snapshot each frame.
type Params struct {
	specs []Spec
	index map[string]int
	vals  []float64
}

// NewParams creates a store initialized to each spec's clamped default.
// Invalid specs are rejected so a lab cannot declare an empty domain.
func NewParams(specs []Spec) (*Params, error) {
	p := &Params{
		specs: specs,
		index: make(map[string]int, len(specs)),
		vals:  make([]float64, len(specs)),
	}
	for i, s := range specs {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if _, dup := p.index[s.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate name %s", ErrInvalidSpec, s.Name)
		}
		p.index[s.Name] = i
		p.vals[i] = s.Clamp(s.Default)
	}
	return p, nil
}

// Set clamps v into the named control's domain and stores it.
func (p *Params) Set(name string, v float64) (float64, error) {
	i, ok := p.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownControl, name)
	}
	v = p.specs[i].Clamp(v)
	p.vals[i] = v
	return v, nil
}

func (p *Params) Lookup(name string) (float64, bool) {
	i, ok := p.index[name]
	if !ok {
		return 0, false
	}
	return p.vals[i], true
}

// Get returns the value of name, or 0 when it is not declared.
func (p *Params) Get(name string) float64 {
	v, _ := p.Lookup(name)
	return v
}

func (p *Params) Bool(name string) bool { return p.Get(name) >= 0.5 }

func (p *Params) Option(name string) string {
	i, ok := p.index[name]
	if !ok {
		return ""
	}
	return p.specs[i].Option(p.vals[i])
}

func (p *Params) Spec(name string) (Spec, bool) {
	i, ok := p.index[name]
	if !ok {
		return Spec{}, false
	}
	return p.specs[i], true
}

func (p *Params) Specs() []Spec { return p.specs }

// Clone returns an independent copy that shares the immutable spec table.
func (p *Params) Clone() *Params {
	c := &Params{specs: p.specs, index: p.index, vals: make([]float64, len(p.vals))}
	copy(c.vals, p.vals)
	return c
}

// CopyFrom overwrites the values with those of src, which must come from the
// same spec table.
func (p *Params) CopyFrom(src *Params) {
	copy(p.vals, src.vals)
}

// Values returns a name -> value map, mostly for display and export.
func (p *Params) Values() map[string]float64 {
	out := make(map[string]float64, len(p.vals))
	for i, s := range p.specs {
		out[s.Name] = p.vals[i]
	}
	return out
}
