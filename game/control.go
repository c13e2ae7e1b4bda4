package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/lovehate/components"
)

// PauseAll cancels pending scheduled ticks. Idempotent.
func (g *Game) PauseAll() {
	g.scheduler.Stop()
}

// ResumeAll re-arms the scheduler and clears a collision halt. It does
// nothing in stepping mode.
func (g *Game) ResumeAll() {
	if g.opts.Step {
		return
	}
	g.halted = false
	g.scheduler.Start()
}

// TogglePause flips between PauseAll and ResumeAll.
func (g *Game) TogglePause() {
	if g.scheduler.Running() {
		g.PauseAll()
	} else {
		g.ResumeAll()
	}
}

// Paused reports whether scheduled ticks are stopped.
func (g *Game) Paused() bool {
	return !g.scheduler.Running()
}

// Halted reports whether a collision stopped the simulation under the
// halt policy.
func (g *Game) Halted() bool {
	return g.halted
}

// Stepping reports whether the driver is in manual stepping mode.
func (g *Game) Stepping() bool {
	return g.opts.Step
}

// Pause excludes one agent from ticks. Idempotent; unknown entities are
// ignored.
func (g *Game) Pause(e ecs.Entity) {
	if a := g.agentOf(e); a != nil {
		a.Paused = true
	}
}

// Resume lets a paused agent take part in ticks again. Idempotent.
func (g *Game) Resume(e ecs.Entity) {
	if a := g.agentOf(e); a != nil {
		a.Paused = false
	}
}

// ToggleAgent flips the pause state of one agent.
func (g *Game) ToggleAgent(e ecs.Entity) {
	if a := g.agentOf(e); a != nil {
		a.Paused = !a.Paused
	}
}

// AgentPaused reports whether an agent is excluded from ticks.
func (g *Game) AgentPaused(e ecs.Entity) bool {
	if a := g.agentOf(e); a != nil {
		return a.Paused
	}
	return false
}

func (g *Game) agentOf(e ecs.Entity) *components.Agent {
	if e.IsZero() || !g.world.Alive(e) || !g.agentMap.HasAll(e) {
		return nil
	}
	return g.agentMap.Get(e)
}
