package game

import (
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/lovehate/components"
	"github.com/pthm-cable/lovehate/systems"
)

// initialize builds a fresh world, places every agent without overlap,
// then assigns relationships once all agents exist.
func (g *Game) initialize() error {
	world := ecs.NewWorld()
	g.world = world
	g.agentMapper = ecs.NewMap7[
		components.Position,
		components.Body,
		components.Heading,
		components.Relations,
		components.Incoming,
		components.Agent,
		components.Motion,
	](world)
	g.agentFilter = ecs.NewFilter7[
		components.Position,
		components.Body,
		components.Heading,
		components.Relations,
		components.Incoming,
		components.Agent,
		components.Motion,
	](world)
	g.posMap = ecs.NewMap1[components.Position](world)
	g.bodyMap = ecs.NewMap1[components.Body](world)
	g.headingMap = ecs.NewMap1[components.Heading](world)
	g.relMap = ecs.NewMap1[components.Relations](world)
	g.incomingMap = ecs.NewMap1[components.Incoming](world)
	g.agentMap = ecs.NewMap1[components.Agent](world)
	g.motionMap = ecs.NewMap1[components.Motion](world)

	bounds := systems.Bounds{Width: g.opts.Width, Height: g.opts.Height}
	g.grid = systems.NewSpatialGrid(bounds.Width, bounds.Height, 2*g.opts.Radius)
	g.collision = systems.NewCollisionSystem(world, g.grid, g.opts.Radius)
	g.motion = systems.NewMotionSystem(world, g.collision, bounds, g.opts.Policy)

	g.agents = g.agents[:0]
	g.tick = 0
	g.halted = false
	g.collector.Reset(g.tick)

	if err := g.placeAgents(); err != nil {
		return err
	}
	g.assignRelations()

	for _, e := range g.agents {
		g.sink.AgentCreated(g.view(e))
	}
	return nil
}

// placeAgents samples uniform positions inside the arena, keeping only
// those that overlap no previously placed agent.
func (g *Game) placeAgents() error {
	r := g.opts.Radius
	spanX := g.opts.Width - 2*r
	spanY := g.opts.Height - 2*r

	for i := 0; i < g.opts.Count; i++ {
		placed := false
		for attempt := 0; attempt < g.opts.MaxAttempts; attempt++ {
			p := r2.Vec{
				X: r + g.rng.Float64()*spanX,
				Y: r + g.rng.Float64()*spanY,
			}
			if g.collision.Overlaps(ecs.Entity{}, p, r) {
				continue
			}
			g.spawnAgent(i+1, p)
			placed = true
			break
		}
		if !placed {
			return fmt.Errorf("%w: agent %d of %d did not fit after %d attempts (radius %g in %gx%g)",
				ErrPlacementExhausted, i+1, g.opts.Count, g.opts.MaxAttempts, r, g.opts.Width, g.opts.Height)
		}
	}
	return nil
}

// spawnAgent creates an agent entity and indexes it in the grid.
func (g *Game) spawnAgent(id int, p r2.Vec) ecs.Entity {
	pos := components.Position{X: p.X, Y: p.Y}
	body := components.Body{Radius: g.opts.Radius}
	heading := components.Heading{Speed: g.opts.Speed}
	rel := components.Relations{}
	incoming := components.Incoming{}
	agent := components.Agent{ID: id}
	motion := components.Motion{}

	e := g.agentMapper.NewEntity(&pos, &body, &heading, &rel, &incoming, &agent, &motion)
	g.grid.Insert(e, p.X, p.Y)
	g.agents = append(g.agents, e)
	return e
}

// assignRelations gives every agent a uniformly random attraction target
// and a different uniformly random repulsion target. No agent's choice
// depends on another's.
func (g *Game) assignRelations() {
	for i, e := range g.agents {
		love := g.agents[g.pickOther(i, -1)]
		hate := g.agents[g.pickOther(i, g.indexOf(love))]

		rel := g.relMap.Get(e)
		if err := rel.AttractTo(e, love); err != nil {
			panic(fmt.Sprintf("game: %v", err))
		}
		if err := rel.RepelFrom(e, hate); err != nil {
			panic(fmt.Sprintf("game: %v", err))
		}

		g.incomingMap.Get(love).Add(e)
		g.incomingMap.Get(hate).Add(e)
	}
}

// pickOther returns a uniformly random agent index other than self and
// exclude. Pass -1 to exclude nothing.
func (g *Game) pickOther(self, exclude int) int {
	n := len(g.agents) - 1
	if exclude >= 0 && exclude != self {
		n--
	}
	k := g.rng.Intn(n)
	for i := range g.agents {
		if i == self || i == exclude {
			continue
		}
		if k == 0 {
			return i
		}
		k--
	}
	panic("game: pickOther ran out of candidates")
}

func (g *Game) indexOf(e ecs.Entity) int {
	for i, a := range g.agents {
		if a == e {
			return i
		}
	}
	return -1
}

// Reset discards every agent and re-initializes with the same options.
// The random stream continues, so the new arrangement differs.
func (g *Game) Reset() error {
	running := g.scheduler.Running() || g.halted
	g.scheduler.Stop()
	g.sink.Reset()

	if err := g.initialize(); err != nil {
		return err
	}
	if running && !g.opts.Step {
		g.scheduler.Start()
	}

	slog.Info("simulation reset", "agents", len(g.agents))
	return nil
}

// view builds the read-only state of one agent.
func (g *Game) view(e ecs.Entity) AgentView {
	pos := g.posMap.Get(e)
	body := g.bodyMap.Get(e)
	heading := g.headingMap.Get(e)
	agent := g.agentMap.Get(e)
	rel := g.relMap.Get(e)

	v := AgentView{
		Entity: e,
		ID:     agent.ID,
		Pos:    pos.Vec(),
		Radius: body.Radius,
		Speed:  heading.Speed,
		Angle:  heading.Angle,
		Paused: agent.Paused,
	}

	if rel.Complete() {
		love, _ := rel.AttractedTo()
		hate, _ := rel.RepelledFrom()
		v.HasTargets = true
		v.Love = g.targetView(love)
		v.Hate = g.targetView(hate)
	}

	incoming := g.incomingMap.Get(e)
	if len(incoming.From) > 0 {
		v.Incoming = make([]TargetView, len(incoming.From))
		for i, src := range incoming.From {
			v.Incoming[i] = g.targetView(src)
		}
	}
	return v
}

func (g *Game) targetView(e ecs.Entity) TargetView {
	return TargetView{
		Entity: e,
		ID:     g.agentMap.Get(e).ID,
		Pos:    g.posMap.Get(e).Vec(),
		Radius: g.bodyMap.Get(e).Radius,
	}
}

// View returns the current state of one agent.
func (g *Game) View(e ecs.Entity) (AgentView, bool) {
	if g.agentOf(e) == nil {
		return AgentView{}, false
	}
	return g.view(e), true
}

// Snapshot returns the state of every agent in creation order.
func (g *Game) Snapshot() []AgentView {
	out := make([]AgentView, 0, len(g.agents))
	query := g.agentFilter.Query()
	for query.Next() {
		out = append(out, g.view(query.Entity()))
	}
	sortByID(out)
	return out
}
