package game

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/lovehate/config"
	"github.com/pthm-cable/lovehate/systems"
	"github.com/pthm-cable/lovehate/telemetry"
)

// Step runs a single tick: every agent that is not paused moves once, in
// creation order. Ticks never overlap and nothing observes a partial tick.
func (g *Game) Step() {
	g.perfCollector.StartTick()

	// 1. Motion and collision for each agent in turn
	g.perfCollector.StartPhase(telemetry.PhaseMotion)
	g.moved = g.moved[:0]
	for _, e := range g.agents {
		if g.agentMap.Get(e).Paused {
			g.collector.RecordPausedSkip()
			continue
		}
		g.stepAgent(e)
	}
	g.tick++

	// 2. Forward moves to the sink
	g.perfCollector.StartPhase(telemetry.PhaseSink)
	g.emitMoved()

	// 3. Telemetry window
	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// StepAgent advances the agent with the given creation index (0-based)
// by one move without advancing the tick counter. Paused agents can be
// stepped this way.
func (g *Game) StepAgent(i int) error {
	if i < 0 || i >= len(g.agents) {
		return fmt.Errorf("%w: index %d, have %d agents", ErrNoSuchAgent, i, len(g.agents))
	}
	g.moved = g.moved[:0]
	g.stepAgent(g.agents[i])
	g.emitMoved()
	return nil
}

// stepAgent moves one agent and records the outcome.
func (g *Game) stepAgent(e ecs.Entity) systems.MoveResult {
	res := g.motion.Next(e)

	if res.Slid {
		g.collector.RecordSlide()
	}
	if res.Moved {
		g.collector.RecordMove()
		g.moved = append(g.moved, e)
	}
	if res.Blocked {
		g.collector.RecordBlocked()
		if g.opts.Policy == config.PolicyHalt && !g.halted {
			g.halted = true
			g.scheduler.Stop()
			slog.Info("simulation halted on collision",
				"tick", g.tick,
				"agent", g.agentMap.Get(e).ID,
			)
		}
	}
	return res
}

func (g *Game) emitMoved() {
	for _, e := range g.moved {
		g.sink.AgentMoved(g.view(e))
	}
}

// AgentAt returns the agent whose disc contains p, nearest first.
func (g *Game) AgentAt(p r2.Vec) (ecs.Entity, bool) {
	neighbors := g.grid.QueryRadiusInto(nil, p.X, p.Y, g.opts.Radius, ecs.Entity{}, g.posMap)

	var best ecs.Entity
	bestDist := -1.0
	for _, n := range neighbors {
		if bestDist < 0 || n.DistSq < bestDist {
			best, bestDist = n.E, n.DistSq
		}
	}
	return best, bestDist >= 0
}

func sortByID(views []AgentView) {
	sort.Slice(views, func(i, j int) bool {
		return views[i].ID < views[j].ID
	})
}
