// Package game drives the simulation: it owns the agent world, places
// agents, assigns their relationships and advances them tick by tick.
package game

import (
	"errors"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/lovehate/components"
	"github.com/pthm-cable/lovehate/config"
	"github.com/pthm-cable/lovehate/systems"
	"github.com/pthm-cable/lovehate/telemetry"
)

var (
	// ErrTooFewAgents is returned when fewer than three agents are
	// requested; distinct attraction and repulsion targets need three.
	ErrTooFewAgents = errors.New("at least 3 agents are required")
	// ErrPlacementExhausted is returned when an agent cannot be placed
	// without overlap within the attempt budget.
	ErrPlacementExhausted = errors.New("placement attempts exhausted")
	// ErrNoSuchAgent is returned for an out of range agent index.
	ErrNoSuchAgent = errors.New("no such agent")
)

// Game holds the complete simulation state.
type Game struct {
	opts Options
	rng  *rand.Rand

	world *ecs.World

	// Entity mapper and filter over all seven agent components
	agentMapper *ecs.Map7[
		components.Position,
		components.Body,
		components.Heading,
		components.Relations,
		components.Incoming,
		components.Agent,
		components.Motion,
	]
	agentFilter *ecs.Filter7[
		components.Position,
		components.Body,
		components.Heading,
		components.Relations,
		components.Incoming,
		components.Agent,
		components.Motion,
	]

	// Individual component mappers for lookups
	posMap      *ecs.Map1[components.Position]
	bodyMap     *ecs.Map1[components.Body]
	headingMap  *ecs.Map1[components.Heading]
	relMap      *ecs.Map1[components.Relations]
	incomingMap *ecs.Map1[components.Incoming]
	agentMap    *ecs.Map1[components.Agent]
	motionMap   *ecs.Map1[components.Motion]

	// Agents in creation order
	agents []ecs.Entity

	// Systems
	grid      *systems.SpatialGrid
	collision *systems.CollisionSystem
	motion    *systems.MotionSystem
	registry  *systems.SystemRegistry

	scheduler *Scheduler
	sink      Sink

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager

	// State
	tick   int32
	halted bool

	// Scratch buffers
	moved   []ecs.Entity
	samples []telemetry.AgentSample
}

// New builds a simulation and initializes its agents.
func New(opts Options) (*Game, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}

	g := &Game{
		opts:          opts,
		rng:           rand.New(rand.NewSource(opts.Seed)),
		registry:      systems.NewSystemRegistry(),
		scheduler:     NewScheduler(opts.TicksPerSecond),
		sink:          opts.Sink,
		collector:     telemetry.NewCollector(opts.StatsWindow, opts.TicksPerSecond),
		perfCollector: telemetry.NewPerfCollector(opts.PerfWindow),
		outputManager: om,
	}

	if err := g.initialize(); err != nil {
		om.Close()
		return nil, err
	}
	if !opts.Step {
		g.scheduler.Start()
	}

	slog.Info("simulation initialized",
		"seed", opts.Seed,
		"agents", len(g.agents),
		"radius", opts.Radius,
		"arena_w", opts.Width,
		"arena_h", opts.Height,
		"policy", opts.Policy,
		"stepping", opts.Step,
	)
	return g, nil
}

// Tick returns the number of completed ticks since the last (re)initialization.
func (g *Game) Tick() int32 {
	return g.tick
}

// Len returns the number of agents.
func (g *Game) Len() int {
	return len(g.agents)
}

// Options returns the options the simulation was built with.
func (g *Game) Options() Options {
	return g.opts
}

// Registry returns the phase registry used for perf display.
func (g *Game) Registry() *systems.SystemRegistry {
	return g.registry
}

// PerfStats returns performance statistics over the current window.
func (g *Game) PerfStats() telemetry.PerfStats {
	return g.perfCollector.Stats()
}

// RecordFrame records frame timing in graphics mode.
func (g *Game) RecordFrame() {
	g.perfCollector.RecordFrame()
}

// WriteConfig saves the effective configuration next to the run output.
func (g *Game) WriteConfig(cfg *config.Config) error {
	return g.outputManager.WriteConfig(cfg)
}

// Close flushes and closes run output.
func (g *Game) Close() error {
	return g.outputManager.Close()
}
