// Package optim searches a lab's control space for the settings that
// score best on one readout or metric.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/physlab/internal/control"
	"github.com/san-kum/physlab/internal/experiment"
)

var ErrNoTrials = errors.New("optim: no trial succeeded")

// Trial is one point of the grid.
type Trial struct {
	Params map[string]float64
	Score  float64
	Err    error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	// Maximize keeps the highest score instead of the lowest.
	Maximize bool
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search runs every combination through run and returns the best trial
// along with all of them, in grid order. A failing trial is recorded and
// skipped; cancelling ctx stops the search.
func (g *GridSearch) Search(
	ctx context.Context,
	run func(ctx context.Context, params map[string]float64) (float64, error),
) (Trial, []Trial, error) {
	var trials []Trial
	if err := g.searchRecursive(ctx, 0, map[string]float64{}, run, &trials); err != nil {
		return Trial{}, trials, err
	}

	best := Trial{Score: math.Inf(1)}
	if g.Maximize {
		best.Score = math.Inf(-1)
	}
	found := false
	for _, t := range trials {
		if t.Err != nil || math.IsNaN(t.Score) {
			continue
		}
		if g.Maximize && t.Score > best.Score || !g.Maximize && t.Score < best.Score {
			best = t
			found = true
		}
	}
	if !found {
		return Trial{}, trials, ErrNoTrials
	}
	return best, trials, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	run func(context.Context, map[string]float64) (float64, error),
	trials *[]Trial,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		score, err := run(ctx, current)
		*trials = append(*trials, Trial{Params: current, Score: score, Err: err})
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, run, trials); err != nil {
			return err
		}
	}
	return nil
}

// ParseAxis reads one --param argument against a lab's controls. The
// value is either start:stop:step, inclusive of stop, or a comma list of
// anything the control accepts (numbers, option names, on/off). Values
// are clamped to the control's bounds and duplicates dropped.
func ParseAxis(specs []control.Spec, arg string) (string, []float64, error) {
	name, text, ok := strings.Cut(arg, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" || text == "" {
		return "", nil, fmt.Errorf("optim: bad param %q, want name=start:stop:step or name=a,b,c", arg)
	}
	var spec *control.Spec
	for i := range specs {
		if specs[i].Name == name {
			spec = &specs[i]
		}
	}
	if spec == nil {
		return "", nil, fmt.Errorf("%w: %s", control.ErrUnknownControl, name)
	}

	var raw []float64
	if parts := strings.Split(text, ":"); len(parts) == 3 {
		var nums [3]float64
		for i, p := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return "", nil, fmt.Errorf("optim: %s: %w", name, err)
			}
			nums[i] = v
		}
		start, stop, step := nums[0], nums[1], nums[2]
		if step <= 0 || stop < start {
			return "", nil, fmt.Errorf("optim: %s: empty range %s", name, text)
		}
		for i := 0; ; i++ {
			v := start + float64(i)*step
			if v > stop+step*1e-9 {
				break
			}
			raw = append(raw, v)
		}
	} else {
		for _, item := range strings.Split(text, ",") {
			v, err := spec.Parse(strings.TrimSpace(item))
			if err != nil {
				return "", nil, err
			}
			raw = append(raw, v)
		}
	}

	seen := make(map[float64]bool, len(raw))
	values := make([]float64, 0, len(raw))
	for _, v := range raw {
		v = spec.Clamp(v)
		if !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	return name, values, nil
}

// Score picks the objective out of a finished run: a metric of that name
// if there is one, else the final value of a numeric readout.
func Score(res *experiment.Result, objective string) (float64, error) {
	if v, ok := res.Metrics[objective]; ok {
		return v, nil
	}
	for _, r := range res.Readouts {
		if r.Label != objective {
			continue
		}
		if r.Text != "" {
			return math.NaN(), fmt.Errorf("optim: %s is %q, not a number", objective, r.Text)
		}
		return r.Value, nil
	}
	return math.NaN(), fmt.Errorf("optim: no readout or metric %q", objective)
}
