// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Collision policies for a move that would overlap another agent.
const (
	PolicyRevert = "revert" // restore the pre-tick position
	PolicyStop   = "stop"   // restore and zero the agent's speed
	PolicyHalt   = "halt"   // restore and pause the whole simulation
)

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Arena      ArenaConfig      `yaml:"arena"`
	Population PopulationConfig `yaml:"population"`
	Motion     MotionConfig     `yaml:"motion"`
	Placement  PlacementConfig  `yaml:"placement"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Palette    []string         `yaml:"palette"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// ArenaConfig holds the bounded rectangle agents live in.
// Zero dimensions fall back to the screen size.
type ArenaConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PopulationConfig holds agent creation parameters.
type PopulationConfig struct {
	Count  int     `yaml:"count"`
	Radius float64 `yaml:"radius"`
}

// MotionConfig holds per-tick movement parameters.
type MotionConfig struct {
	Speed           float64 `yaml:"speed"`            // displacement per tick
	TicksPerSecond  float64 `yaml:"ticks_per_second"` // scheduler cadence
	CollisionPolicy string  `yaml:"collision_policy"` // revert, stop or halt
}

// PlacementConfig bounds the rejection-sampling placement loop.
type PlacementConfig struct {
	MaxAttempts int `yaml:"max_attempts"` // per agent
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // ticks per stats window
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ArenaW       float64       // effective arena width
	ArenaH       float64       // effective arena height
	TickInterval time.Duration // 1 / ticks_per_second
}

// global holds the loaded configuration.
var global *Config

// Init loads path (or the defaults when empty) and installs it as the
// process-wide configuration returned by Cfg.
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are broken: %v", err))
	}
	return cfg
}

// Load decodes the embedded defaults, overlays the file at path when one
// is given, then derives and validates. Keys absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := decode(defaultsYAML, cfg, "embedded defaults"); err != nil {
		return nil, err
	}
	if err := overlayFile(path, cfg); err != nil {
		return nil, err
	}

	cfg.computeDerived()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config, what string) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", what, err)
	}
	return nil
}

func overlayFile(path string, cfg *Config) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	return decode(data, cfg, path)
}

// computeDerived fills Derived. A zero arena dimension means the screen's.
func (c *Config) computeDerived() {
	c.Derived.ArenaW = c.Arena.Width
	if c.Derived.ArenaW == 0 {
		c.Derived.ArenaW = float64(c.Screen.Width)
	}
	c.Derived.ArenaH = c.Arena.Height
	if c.Derived.ArenaH == 0 {
		c.Derived.ArenaH = float64(c.Screen.Height)
	}

	if c.Motion.TicksPerSecond > 0 {
		c.Derived.TickInterval = time.Duration(float64(time.Second) / c.Motion.TicksPerSecond)
	}
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate checks the input ranges the simulation driver relies on.
func (c *Config) Validate() error {
	switch {
	case c.Population.Count < 3:
		// attraction and repulsion targets must be distinct and not self
		return fmt.Errorf("%w: population.count must be at least 3, got %d", ErrInvalidConfig, c.Population.Count)
	case c.Population.Radius <= 0:
		return fmt.Errorf("%w: population.radius must be positive, got %g", ErrInvalidConfig, c.Population.Radius)
	case c.Derived.ArenaW <= 0 || c.Derived.ArenaH <= 0:
		return fmt.Errorf("%w: arena must have positive size, got %gx%g", ErrInvalidConfig, c.Derived.ArenaW, c.Derived.ArenaH)
	case c.Motion.Speed < 0:
		return fmt.Errorf("%w: motion.speed must not be negative, got %g", ErrInvalidConfig, c.Motion.Speed)
	case c.Motion.TicksPerSecond <= 0:
		return fmt.Errorf("%w: motion.ticks_per_second must be positive, got %g", ErrInvalidConfig, c.Motion.TicksPerSecond)
	case c.Placement.MaxAttempts <= 0:
		return fmt.Errorf("%w: placement.max_attempts must be positive, got %d", ErrInvalidConfig, c.Placement.MaxAttempts)
	}

	switch c.Motion.CollisionPolicy {
	case PolicyRevert, PolicyStop, PolicyHalt:
	default:
		return fmt.Errorf("%w: unknown motion.collision_policy %q", ErrInvalidConfig, c.Motion.CollisionPolicy)
	}

	for _, col := range c.Palette {
		if !hexColor.MatchString(col) {
			return fmt.Errorf("%w: palette entry %q is not #rrggbb", ErrInvalidConfig, col)
		}
	}
	return nil
}

// WriteYAML snapshots the effective configuration, derived values
// excluded, so a run can be reproduced with -config.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config snapshot: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
