package labs

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/physlab/internal/engine"
)

var ErrUnknownLab = errors.New("labs: unknown lab")

type Registry struct {
	labs  map[string]func() engine.Lab
	order []string
}

// NewRegistry returns a registry holding every bench in catalogue order.
func NewRegistry() *Registry {
	r := &Registry{labs: make(map[string]func() engine.Lab)}

	r.Register("refraction", func() engine.Lab { return Optics{} })
	r.Register("gates", func() engine.Lab { return Gates{} })
	r.Register("circuit", func() engine.Lab { return Circuit{} })
	r.Register("gravity", func() engine.Lab { return Gravity{} })
	r.Register("faraday", func() engine.Lab { return Faraday{} })
	r.Register("polarization", func() engine.Lab { return Polarization{} })
	r.Register("charles", func() engine.Lab { return Charles{} })
	r.Register("radiation", func() engine.Lab { return Radiation{} })
	r.Register("pendulum", func() engine.Lab { return Pendulum{} })
	r.Register("projectile", func() engine.Lab { return Projectile{} })
	r.Register("wave", func() engine.Lab { return Wave{} })
	r.Register("wires", func() engine.Lab { return Wires{} })
	r.Register("atom", func() engine.Lab { return Atom{} })
	r.Register("bandgap", func() engine.Lab { return Bandgap{} })
	r.Register("bands", func() engine.Lab { return Bands{} })
	r.Register("semiconductor", func() engine.Lab { return Semiconductor{} })
	r.Register("orbitals", func() engine.Lab { return Orbitals{} })
	r.Register("states", func() engine.Lab { return States{} })
	r.Register("carnot", func() engine.Lab { return Carnot{} })

	return r
}

// Register adds or replaces a lab factory.
func (r *Registry) Register(name string, fn func() engine.Lab) {
	if _, ok := r.labs[name]; !ok {
		r.order = append(r.order, name)
	}
	r.labs[name] = fn
}

func (r *Registry) Get(name string) (engine.Lab, error) {
	fn, ok := r.labs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLab, name)
	}
	return fn(), nil
}

// List returns lab names in registration order.
func (r *Registry) List() []string {
	return append([]string(nil), r.order...)
}

// Sorted returns lab names alphabetically.
func (r *Registry) Sorted() []string {
	names := r.List()
	sort.Strings(names)
	return names
}

// Labs instantiates every registered lab in order.
func (r *Registry) Labs() []engine.Lab {
	out := make([]engine.Lab, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.labs[name]())
	}
	return out
}
