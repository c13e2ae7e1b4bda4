package game

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"
)

// TargetView is a lightweight reference to another agent with enough
// state to anchor an arrow on its circle.
type TargetView struct {
	Entity ecs.Entity
	ID     int
	Pos    r2.Vec
	Radius float64
}

// AgentView is the read-only state of one agent handed to a Sink.
type AgentView struct {
	Entity ecs.Entity
	ID     int
	Pos    r2.Vec
	Radius float64
	Speed  float64
	Angle  float64
	Paused bool

	// Outgoing relationships. HasTargets is false until relationships
	// are assigned.
	HasTargets bool
	Love, Hate TargetView

	// Agents whose attraction or repulsion target is this agent.
	Incoming []TargetView
}

// Sink consumes simulation state. It is purely a consumer; the driver
// never reads anything back.
type Sink interface {
	// AgentCreated is called once per agent after all relationships are
	// assigned, in creation order.
	AgentCreated(v AgentView)
	// AgentMoved is called after an agent's position changed.
	AgentMoved(v AgentView)
	// Reset is called before a re-initialization discards all agents.
	Reset()
}

type nopSink struct{}

func (nopSink) AgentCreated(AgentView) {}
func (nopSink) AgentMoved(AgentView)   {}
func (nopSink) Reset()                 {}
