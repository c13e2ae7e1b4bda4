package renderer

import (
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/lovehate/camera"
	"github.com/pthm-cable/lovehate/game"
)

var (
	loveColor   = rl.Pink
	hateColor   = rl.Black
	pausedColor = rl.Gray
)

// Dash patterns in world units: love arrows dashed, hate arrows dotted.
const (
	loveDash, loveGap = 6.0, 3.0
	hateDash, hateGap = 1.5, 3.0
	headLength        = 6.0
	headHalfAngle     = 0.45
	markerInset       = 2.0
)

// glyph is the cached drawing state of one agent.
type glyph struct {
	id     int
	pos    r2.Vec
	radius float64
	color  rl.Color
	paused bool

	hasTargets bool
	love, hate ecs.Entity
	loveArrow  Arrow
	hateArrow  Arrow
}

// AgentRenderer draws agents as colored discs with their relationship
// arrows. It implements game.Sink and only updates its cache from the
// events it receives; Draw never touches the simulation.
type AgentRenderer struct {
	palette *Palette
	glyphs  map[ecs.Entity]*glyph
	order   []ecs.Entity
}

// NewAgentRenderer creates a renderer that colors agents from palette.
func NewAgentRenderer(palette *Palette) *AgentRenderer {
	return &AgentRenderer{
		palette: palette,
		glyphs:  make(map[ecs.Entity]*glyph),
	}
}

// AgentCreated caches a new agent and its outgoing arrows.
func (r *AgentRenderer) AgentCreated(v game.AgentView) {
	g := &glyph{id: v.ID, color: r.palette.Next()}
	r.glyphs[v.Entity] = g
	r.order = append(r.order, v.Entity)
	sort.SliceStable(r.order, func(i, j int) bool {
		return r.glyphs[r.order[i]].id < r.glyphs[r.order[j]].id
	})
	r.refresh(g, v)
}

// AgentMoved re-anchors the agent's own arrows and the arrows of every
// agent pointing at it.
func (r *AgentRenderer) AgentMoved(v game.AgentView) {
	g, ok := r.glyphs[v.Entity]
	if !ok {
		return
	}
	r.refresh(g, v)

	self := game.TargetView{Entity: v.Entity, ID: v.ID, Pos: v.Pos, Radius: v.Radius}
	for _, in := range v.Incoming {
		src, ok := r.glyphs[in.Entity]
		if !ok || !src.hasTargets {
			continue
		}
		src.pos = in.Pos
		if src.love == v.Entity {
			src.loveArrow = Anchor(in.Pos, self)
		}
		if src.hate == v.Entity {
			src.hateArrow = Anchor(in.Pos, self)
		}
	}
}

// Reset drops every cached agent and reshuffles the palette.
func (r *AgentRenderer) Reset() {
	clear(r.glyphs)
	r.order = r.order[:0]
	r.palette.Reset()
}

// Len returns the number of cached agents.
func (r *AgentRenderer) Len() int {
	return len(r.order)
}

// Arrows returns the cached love and hate arrows of an agent.
func (r *AgentRenderer) Arrows(e ecs.Entity) (love, hate Arrow, ok bool) {
	g, found := r.glyphs[e]
	if !found || !g.hasTargets {
		return Arrow{}, Arrow{}, false
	}
	return g.loveArrow, g.hateArrow, true
}

func (r *AgentRenderer) refresh(g *glyph, v game.AgentView) {
	g.pos = v.Pos
	g.radius = v.Radius
	g.paused = v.Paused
	g.hasTargets = v.HasTargets
	if !v.HasTargets {
		return
	}
	g.love, g.hate = v.Love.Entity, v.Hate.Entity
	g.loveArrow = Anchor(v.Pos, v.Love)
	g.hateArrow = Anchor(v.Pos, v.Hate)
}

// Draw renders all arrows first, then the agent markers on top.
func (r *AgentRenderer) Draw(cam *camera.Camera) {
	for _, e := range r.order {
		g := r.glyphs[e]
		if !g.hasTargets {
			continue
		}
		drawArrow(cam, g.loveArrow, loveDash, loveGap, loveColor)
		drawArrow(cam, g.hateArrow, hateDash, hateGap, hateColor)
	}

	for _, e := range r.order {
		g := r.glyphs[e]
		x, y := cam.WorldToScreen(g.pos.X, g.pos.Y)
		radius := cam.Scale(g.radius - markerInset)
		fill := g.color
		if g.paused {
			fill = pausedColor
		}
		rl.DrawCircleV(rl.Vector2{X: x, Y: y}, radius, fill)
		rl.DrawCircleLines(int32(x), int32(y), radius, rl.Black)
	}
}

func drawArrow(cam *camera.Camera, a Arrow, dash, gap float64, color rl.Color) {
	thick := cam.Scale(1)
	for _, s := range a.Dashes(dash, gap) {
		rl.DrawLineEx(screenPoint(cam, s.A), screenPoint(cam, s.B), thick, color)
	}

	left, right := a.Head(headLength, headHalfAngle)
	// Counter-clockwise winding for DrawTriangle
	rl.DrawTriangle(screenPoint(cam, a.To), screenPoint(cam, left), screenPoint(cam, right), color)
}

func screenPoint(cam *camera.Camera, v r2.Vec) rl.Vector2 {
	x, y := cam.WorldToScreen(v.X, v.Y)
	return rl.Vector2{X: x, Y: y}
}

// Color returns the palette color assigned to an agent.
func (r *AgentRenderer) Color(e ecs.Entity) (rl.Color, bool) {
	g, ok := r.glyphs[e]
	if !ok {
		return rl.Color{}, false
	}
	return g.color, true
}
