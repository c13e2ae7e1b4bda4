package game

import (
	"fmt"

	"github.com/pthm-cable/lovehate/config"
	"github.com/pthm-cable/lovehate/telemetry"
)

// Options holds everything needed to build a simulation.
type Options struct {
	Seed int64

	Count  int     // number of agents, at least 3
	Radius float64 // agent radius

	Width, Height float64 // arena size

	Speed          float64 // displacement per tick
	TicksPerSecond float64 // scheduler cadence
	Policy         string  // collision policy, see config.Policy*
	MaxAttempts    int     // placement attempts per agent

	// Step puts the driver in manual stepping mode: Run returns at once
	// and the caller advances ticks explicitly.
	Step bool

	// MaxTicks stops Run after that many ticks, 0 runs until cancelled.
	MaxTicks int32

	Sink Sink // receives creation and move events, nil for none

	OutputDir   string // CSV output directory, empty disables output
	LogStats    bool   // log window stats via slog
	StatsWindow int    // ticks per telemetry window
	PerfWindow  int    // ticks per perf rolling window

	// StatsCallback, if set, receives every flushed telemetry window.
	StatsCallback func(telemetry.WindowStats)
}

// OptionsFromConfig fills Options from a loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Count:          cfg.Population.Count,
		Radius:         cfg.Population.Radius,
		Width:          cfg.Derived.ArenaW,
		Height:         cfg.Derived.ArenaH,
		Speed:          cfg.Motion.Speed,
		TicksPerSecond: cfg.Motion.TicksPerSecond,
		Policy:         cfg.Motion.CollisionPolicy,
		MaxAttempts:    cfg.Placement.MaxAttempts,
		StatsWindow:    cfg.Telemetry.StatsWindow,
		PerfWindow:     cfg.Telemetry.PerfCollectorWindow,
	}
}

// withDefaults fills zero values that have a sensible default. Speed is
// left alone since zero is a valid speed.
func (o Options) withDefaults() Options {
	if o.TicksPerSecond == 0 {
		o.TicksPerSecond = 16
	}
	if o.Policy == "" {
		o.Policy = config.PolicyRevert
	}
	if o.MaxAttempts == 0 {
		o.MaxAttempts = 1000
	}
	if o.StatsWindow == 0 {
		o.StatsWindow = 160
	}
	if o.PerfWindow == 0 {
		o.PerfWindow = 64
	}
	if o.Sink == nil {
		o.Sink = nopSink{}
	}
	return o
}

// validate applies the input range checks for the driver.
func (o Options) validate() error {
	switch {
	case o.Count < 3:
		return fmt.Errorf("%w: got %d", ErrTooFewAgents, o.Count)
	case o.Radius <= 0:
		return fmt.Errorf("%w: radius must be positive, got %g", config.ErrInvalidConfig, o.Radius)
	case o.Width <= 0 || o.Height <= 0:
		return fmt.Errorf("%w: arena must have positive size, got %gx%g", config.ErrInvalidConfig, o.Width, o.Height)
	case o.Width < 2*o.Radius || o.Height < 2*o.Radius:
		return fmt.Errorf("%w: arena %gx%g cannot hold an agent of radius %g",
			config.ErrInvalidConfig, o.Width, o.Height, o.Radius)
	case o.Speed < 0:
		return fmt.Errorf("%w: speed must not be negative, got %g", config.ErrInvalidConfig, o.Speed)
	case o.TicksPerSecond < 0:
		return fmt.Errorf("%w: ticks per second must be positive, got %g", config.ErrInvalidConfig, o.TicksPerSecond)
	case o.MaxAttempts < 0:
		return fmt.Errorf("%w: max attempts must be positive, got %d", config.ErrInvalidConfig, o.MaxAttempts)
	}

	switch o.Policy {
	case config.PolicyRevert, config.PolicyStop, config.PolicyHalt:
	default:
		return fmt.Errorf("%w: unknown collision policy %q", config.ErrInvalidConfig, o.Policy)
	}
	return nil
}
