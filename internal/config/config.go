package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/physlab/internal/control"
)

const (
	DefaultFPS       = 60
	DefaultMaxStepMS = 33
	DefaultKeyHoldMS = 300
	DefaultTheme     = "cyber"
	DefaultWidth     = 960
	DefaultHeight    = 540
	DefaultFrames    = 120
)

type Config struct {
	FPS       int            `yaml:"fps"`
	MaxStepMS int            `yaml:"max_step_ms"`
	KeyHoldMS int            `yaml:"key_hold_ms"`
	Theme     string         `yaml:"theme"`
	Seed      int64          `yaml:"seed"`
	Snapshot  SnapshotConfig `yaml:"snapshot"`
	// Labs holds per-lab control overrides as text, e.g. labs.refraction.to: glass.
	Labs map[string]map[string]string `yaml:"labs"`
}

// SnapshotConfig sizes the headless renders used by snapshot, svg, record
// and trace.
type SnapshotConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Frames int     `yaml:"frames"`
}

func DefaultConfig() *Config {
	return &Config{
		FPS:       DefaultFPS,
		MaxStepMS: DefaultMaxStepMS,
		KeyHoldMS: DefaultKeyHoldMS,
		Theme:     DefaultTheme,
		Seed:      1,
		Snapshot: SnapshotConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Frames: DefaultFrames,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) MaxStep() time.Duration { return time.Duration(c.MaxStepMS) * time.Millisecond }
func (c *Config) KeyHold() time.Duration { return time.Duration(c.KeyHoldMS) * time.Millisecond }

// Overrides returns the configured text overrides for lab, or nil.
func (c *Config) Overrides(lab string) map[string]string {
	return c.Labs[lab]
}

// ParseSet reads name=value pairs as given to --set.
func ParseSet(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("config: bad override %q, want name=value", p)
		}
		out[name] = strings.TrimSpace(value)
	}
	return out, nil
}

// Resolve parses layered text overrides against a lab's control specs.
// Later layers win. Unknown names and unparsable values are errors.
func Resolve(specs []control.Spec, layers ...map[string]string) (map[string]float64, error) {
	byName := make(map[string]control.Spec, len(specs))
	for _, s := range specs {
		byName[s.Name] = s
	}
	out := make(map[string]float64)
	for _, layer := range layers {
		for name, text := range layer {
			s, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("%w: %s", control.ErrUnknownControl, name)
			}
			v, err := s.Parse(text)
			if err != nil {
				return nil, err
			}
			out[name] = v
		}
	}
	return out, nil
}
