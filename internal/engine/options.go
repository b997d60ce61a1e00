package engine

import (
	"log/slog"
	"math/rand"
	"time"
)

const (
	DefaultMaxStep   = 33 * time.Millisecond
	DefaultFirstStep = 16 * time.Millisecond
)

type Option func(*options)

type options struct {
	overrides map[string]float64
	rand      *rand.Rand
	logger    *slog.Logger
	maxStep   time.Duration
	firstStep time.Duration
	observers []Observer
}

func defaultOptions() options {
	return options{
		maxStep:   DefaultMaxStep,
		firstStep: DefaultFirstStep,
		logger:    slog.Default(),
	}
}

// WithOverrides sets initial control values. Values are clamped; unknown
// names are logged and skipped.
func WithOverrides(vals map[string]float64) Option {
	return func(o *options) { o.overrides = vals }
}

// WithRand injects the randomness source used by the lab's visual effects.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rand = r }
}

func WithSeed(seed int64) Option {
	return func(o *options) { o.rand = rand.New(rand.NewSource(seed)) }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// MaxStep bounds the time step a single frame may advance.
func MaxStep(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.maxStep = d
		}
	}
}

// FirstStep is the step used for the first frame, which has no predecessor.
func FirstStep(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.firstStep = d
		}
	}
}

// WithObserver attaches an observer before the first frame can run.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observers = append(o.observers, obs) }
}
