package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/lovehate/components"
)

// Collides reports whether two discs overlap. Touching counts.
func Collides(p, q Circle) bool {
	return Distance(p.Center, q.Center) <= p.Radius+q.Radius
}

// CollisionSystem answers overlap queries against the agents in a grid.
type CollisionSystem struct {
	grid      *SpatialGrid
	posMap    *ecs.Map1[components.Position]
	bodyMap   *ecs.Map1[components.Body]
	maxRadius float64
	scratch   []Neighbor
}

// NewCollisionSystem creates a collision system over the given grid.
// maxRadius bounds the radius of any agent in the world.
func NewCollisionSystem(w *ecs.World, grid *SpatialGrid, maxRadius float64) *CollisionSystem {
	return &CollisionSystem{
		grid:      grid,
		posMap:    ecs.NewMap1[components.Position](w),
		bodyMap:   ecs.NewMap1[components.Body](w),
		maxRadius: maxRadius,
	}
}

// Overlaps reports whether a disc at pos with the given radius would
// collide with any agent other than self. Pass the zero Entity as self for
// a candidate that is not in the world yet.
func (s *CollisionSystem) Overlaps(self ecs.Entity, pos r2.Vec, radius float64) bool {
	// Broad phase with a margin, exact test below
	reach := radius + s.maxRadius + 1
	s.scratch = s.grid.QueryRadiusInto(s.scratch[:0], pos.X, pos.Y, reach, self, s.posMap)

	me := Circle{Center: pos, Radius: radius}
	for _, n := range s.scratch {
		other := Circle{
			Center: s.posMap.Get(n.E).Vec(),
			Radius: s.bodyMap.Get(n.E).Radius,
		}
		if Collides(me, other) {
			return true
		}
	}
	return false
}

// Grid returns the spatial index backing the system.
func (s *CollisionSystem) Grid() *SpatialGrid {
	return s.grid
}
