package experiment

import (
	"context"
	"log/slog"
	"sync"

	"github.com/san-kum/physlab/internal/labs"
)

// Ensemble runs several experiments at once. Each run owns its clock,
// surface and controller, so they share nothing but the registry.
type Ensemble struct {
	registry *labs.Registry
	logger   *slog.Logger
}

func NewEnsemble(registry *labs.Registry, logger *slog.Logger) *Ensemble {
	return &Ensemble{registry: registry, logger: logger}
}

// Run executes every config and returns results and errors by index.
func (e *Ensemble) Run(ctx context.Context, cfgs []Config) ([]*Result, []error) {
	results := make([]*Result, len(cfgs))
	errs := make([]error, len(cfgs))

	var wg sync.WaitGroup
	for i := range cfgs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = New(cfgs[idx], e.registry, e.logger).Run(ctx)
		}(i)
	}

	wg.Wait()
	return results, errs
}
