// Package automation runs scripted batches of experiments: YAML scenarios
// of lab runs, and Monte Carlo trials around a base setting.
package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/physlab/internal/config"
	"github.com/san-kum/physlab/internal/control"
	"github.com/san-kum/physlab/internal/experiment"
	"github.com/san-kum/physlab/internal/labs"
	"github.com/san-kum/physlab/internal/optim"
	"github.com/san-kum/physlab/internal/storage"
)

// Scenario is a scripted sequence of runs.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one run of a scenario. Zero Frames and Seed fall back to the
// runner's config.
type Step struct {
	Lab    string            `yaml:"lab"`
	Preset string            `yaml:"preset"`
	Set    map[string]string `yaml:"set"`
	Frames int               `yaml:"frames"`
	Seed   int64             `yaml:"seed"`
	Save   bool              `yaml:"save"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s: no steps", path)
	}
	for i, s := range scenario.Steps {
		if s.Lab == "" {
			return nil, fmt.Errorf("scenario %s: step %d has no lab", path, i+1)
		}
	}
	return &scenario, nil
}

// Runner carries what every scripted run shares.
type Runner struct {
	Registry *labs.Registry
	Config   *config.Config
	// Store archives steps marked save; nil saves nothing.
	Store  *storage.Store
	Logger *slog.Logger
}

func (r *Runner) defaults() {
	if r.Registry == nil {
		r.Registry = labs.NewRegistry()
	}
	if r.Config == nil {
		r.Config = config.DefaultConfig()
	}
	if r.Logger == nil {
		r.Logger = slog.Default()
	}
}

func (r *Runner) experimentConfig(lab string, frames int, seed int64, vals map[string]float64) experiment.Config {
	cfg := experiment.Config{
		Lab:       lab,
		Width:     r.Config.Snapshot.Width,
		Height:    r.Config.Snapshot.Height,
		Frames:    r.Config.Snapshot.Frames,
		FPS:       r.Config.FPS,
		Seed:      r.Config.Seed,
		Overrides: vals,
		Metrics:   true,
	}
	if frames > 0 {
		cfg.Frames = frames
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	return cfg
}

// StepResult is the outcome of one scenario step. RunID is set when the
// step was archived.
type StepResult struct {
	Step   int
	Lab    string
	RunID  string
	Result *experiment.Result
}

// RunScenario executes the steps in order and stops at the first failure,
// returning what finished before it.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	r.defaults()
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		r.Logger.Info("scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "lab", step.Lab)

		lab, err := r.Registry.Get(step.Lab)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		layers := []map[string]string{r.Config.Overrides(lab.Name())}
		if step.Preset != "" {
			p := config.GetPreset(lab.Name(), step.Preset)
			if p == nil {
				return results, fmt.Errorf("step %d: unknown preset %s for %s", i+1, step.Preset, lab.Name())
			}
			layers = append(layers, p)
		}
		vals, err := config.Resolve(lab.Controls(), append(layers, step.Set)...)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		cfg := r.experimentConfig(lab.Name(), step.Frames, step.Seed, vals)
		res, err := experiment.New(cfg, r.Registry, r.Logger).Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		out := StepResult{Step: i + 1, Lab: lab.Name(), Result: res}
		if step.Save && r.Store != nil {
			if out.RunID, err = r.Store.Save(cfg, res); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, out)
	}

	return results, nil
}

// MonteCarloConfig perturbs controls uniformly by up to Jitter around Base
// and scores each trial on Objective.
type MonteCarloConfig struct {
	Lab       string
	Base      map[string]float64
	Jitter    map[string]float64
	Objective string
	Trials    int
	Frames    int
	Seed      int64
}

type MonteCarloResult struct {
	Trial  int
	Params map[string]float64
	Score  float64
	Err    error
}

// RunMonteCarlo runs the trials one after another. Trial i is seeded with
// Seed+i so labs with random effects vary too.
func (r *Runner) RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	r.defaults()
	if cfg.Trials <= 0 {
		return nil, fmt.Errorf("trials must be positive, got %d", cfg.Trials)
	}
	lab, err := r.Registry.Get(cfg.Lab)
	if err != nil {
		return nil, err
	}
	specs := make(map[string]control.Spec)
	for _, s := range lab.Controls() {
		specs[s.Name] = s
	}

	// perturb in a fixed order so a seed always gives the same trials
	names := make([]string, 0, len(cfg.Jitter))
	for name := range cfg.Jitter {
		if _, ok := specs[name]; !ok {
			return nil, fmt.Errorf("%w: %s", control.ErrUnknownControl, name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	seed := cfg.Seed
	if seed == 0 {
		seed = r.Config.Seed
	}
	rng := rand.New(rand.NewSource(seed))

	results := make([]MonteCarloResult, 0, cfg.Trials)
	for trial := 0; trial < cfg.Trials; trial++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		params := make(map[string]float64, len(cfg.Base)+len(names))
		for k, v := range cfg.Base {
			params[k] = v
		}
		for _, name := range names {
			s := specs[name]
			base, ok := params[name]
			if !ok {
				base = s.Default
			}
			params[name] = s.Clamp(base + (rng.Float64()-0.5)*2*cfg.Jitter[name])
		}

		ecfg := r.experimentConfig(lab.Name(), cfg.Frames, seed+int64(trial), params)
		out := MonteCarloResult{Trial: trial, Params: params, Score: math.NaN()}
		res, err := experiment.New(ecfg, r.Registry, r.Logger).Run(ctx)
		if err == nil {
			out.Score, err = optim.Score(res, cfg.Objective)
		}
		out.Err = err
		results = append(results, out)

		if (trial+1)%10 == 0 {
			r.Logger.Info("monte carlo", "done", trial+1, "of", cfg.Trials)
		}
	}

	return results, nil
}

var ErrNoScores = errors.New("automation: no trial produced a score")

// MonteCarloStats summarises the trials that produced a score.
func MonteCarloStats(results []MonteCarloResult) (mean, stddev, lo, hi float64, n int, err error) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, r := range results {
		if r.Err != nil || math.IsNaN(r.Score) {
			continue
		}
		n++
		mean += r.Score
		lo, hi = math.Min(lo, r.Score), math.Max(hi, r.Score)
	}
	if n == 0 {
		return 0, 0, 0, 0, 0, ErrNoScores
	}
	mean /= float64(n)
	for _, r := range results {
		if r.Err != nil || math.IsNaN(r.Score) {
			continue
		}
		stddev += (r.Score - mean) * (r.Score - mean)
	}
	stddev = math.Sqrt(stddev / float64(n))
	return mean, stddev, lo, hi, n, nil
}
