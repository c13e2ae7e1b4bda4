package systems

import (
	"fmt"
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/lovehate/components"
	"github.com/pthm-cable/lovehate/config"
)

// Bounds represents the arena. Walls sit at 0 and Width/Height.
type Bounds struct {
	Width, Height float64
}

// MoveResult describes the outcome of one agent's tick.
type MoveResult struct {
	Moved   bool // position changed
	Blocked bool // the move would have overlapped another agent
	Slid    bool // a wall redirected the heading
}

// MotionSystem computes headings and applies per-tick movement.
type MotionSystem struct {
	posMap     *ecs.Map1[components.Position]
	bodyMap    *ecs.Map1[components.Body]
	headingMap *ecs.Map1[components.Heading]
	relMap     *ecs.Map1[components.Relations]
	motionMap  *ecs.Map1[components.Motion]
	collision  *CollisionSystem
	bounds     Bounds
	policy     string
}

// NewMotionSystem creates a new motion system.
func NewMotionSystem(w *ecs.World, collision *CollisionSystem, bounds Bounds, policy string) *MotionSystem {
	return &MotionSystem{
		posMap:     ecs.NewMap1[components.Position](w),
		bodyMap:    ecs.NewMap1[components.Body](w),
		headingMap: ecs.NewMap1[components.Heading](w),
		relMap:     ecs.NewMap1[components.Relations](w),
		motionMap:  ecs.NewMap1[components.Motion](w),
		collision:  collision,
		bounds:     bounds,
		policy:     policy,
	}
}

// Next advances one agent by a single tick. Both relationships must be
// assigned; calling Next earlier is a programming error and panics.
func (s *MotionSystem) Next(e ecs.Entity) MoveResult {
	pos := s.posMap.Get(e)
	body := s.bodyMap.Get(e)
	heading := s.headingMap.Get(e)
	rel := s.relMap.Get(e)
	motion := s.motionMap.Get(e)

	love, okLove := rel.AttractedTo()
	hate, okHate := rel.RepelledFrom()
	if !okLove || !okHate {
		panic(fmt.Sprintf("systems: agent %v ticked before its relationships were assigned", e))
	}

	here := pos.Vec()
	angle := DesiredHeading(here, s.posMap.Get(love).Vec(), s.posMap.Get(hate).Vec())

	var res MoveResult
	angle, res.Slid = SlideAlongWalls(angle, here, body.Radius, s.bounds)
	heading.Angle = angle
	if res.Slid {
		motion.Slides++
	}

	next := r2.Add(here, PolarToRect(heading.Speed, angle))
	next = ClampToBounds(next, body.Radius, s.bounds)

	motion.LastBlocked = false
	if next != here && s.collision.Overlaps(e, next, body.Radius) {
		res.Blocked = true
		motion.Blocked++
		motion.LastBlocked = true
		if s.policy == config.PolicyStop {
			heading.Speed = 0
		}
		return res
	}

	if next != here {
		s.collision.Grid().Move(e, here.X, here.Y, next.X, next.Y)
		pos.Set(next)
		motion.Moves++
		res.Moved = true
	}
	return res
}

// DesiredHeading sums the direction towards the attraction target with the
// reversed direction towards the repulsion target, with equal weight.
func DesiredHeading(here, love, hate r2.Vec) float64 {
	loveDir := Direction(here, love)
	hateDir := Direction(here, hate)
	return NormalizeAngle(loveDir + Antiparallel(hateDir))
}

// SlideAlongWalls redirects a heading that points into a wall the agent
// is touching so it runs parallel to that wall instead. The y axis points
// down, so negative angles head towards the top wall.
func SlideAlongWalls(angle float64, pos r2.Vec, radius float64, b Bounds) (float64, bool) {
	slid := false

	// Top wall, heading up
	if pos.Y-radius <= 0 && angle < 0 {
		if angle < -math.Pi/2 {
			angle = math.Pi
		} else {
			angle = 0
		}
		slid = true
	}
	// Bottom wall, heading down
	if pos.Y+radius >= b.Height && angle > 0 && angle < math.Pi {
		if angle > math.Pi/2 {
			angle = math.Pi
		} else {
			angle = 0
		}
		slid = true
	}
	// Left wall, heading left
	if pos.X-radius <= 0 && math.Abs(angle) > math.Pi/2 {
		if angle > 0 {
			angle = math.Pi / 2
		} else {
			angle = -math.Pi / 2
		}
		slid = true
	}
	// Right wall, heading right
	if pos.X+radius >= b.Width && math.Abs(angle) < math.Pi/2 {
		if angle >= 0 {
			angle = math.Pi / 2
		} else {
			angle = -math.Pi / 2
		}
		slid = true
	}

	return angle, slid
}

// ClampToBounds keeps a disc of the given radius inside the arena.
func ClampToBounds(v r2.Vec, radius float64, b Bounds) r2.Vec {
	return r2.Vec{
		X: clampFloat(v.X, radius, b.Width-radius),
		Y: clampFloat(v.Y, radius, b.Height-radius),
	}
}
