package renderer

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/lovehate/game"
	"github.com/pthm-cable/lovehate/systems"
)

// Arrow is a straight line from an agent's center to the nearest point
// on its target's circle.
type Arrow struct {
	From, To r2.Vec
}

// Anchor builds the arrow from a point to the closest point on target.
func Anchor(from r2.Vec, target game.TargetView) Arrow {
	tip := systems.ClosestPointOnCircle(from, systems.Circle{Center: target.Pos, Radius: target.Radius})
	return Arrow{From: from, To: tip}
}

// Segment is one visible piece of a dashed line.
type Segment struct {
	A, B r2.Vec
}

// Dashes splits the arrow's shaft into dash-long pieces separated by gap.
// The last piece is cut short at the tip. A non-positive gap yields the
// whole shaft as one segment.
func (a Arrow) Dashes(dash, gap float64) []Segment {
	length := systems.Distance(a.From, a.To)
	if length == 0 {
		return nil
	}
	if gap <= 0 || dash <= 0 {
		return []Segment{{A: a.From, B: a.To}}
	}

	dir := r2.Scale(1/length, r2.Sub(a.To, a.From))
	var out []Segment
	for s := 0.0; s < length; s += dash + gap {
		e := math.Min(s+dash, length)
		out = append(out, Segment{
			A: r2.Add(a.From, r2.Scale(s, dir)),
			B: r2.Add(a.From, r2.Scale(e, dir)),
		})
	}
	return out
}

// Head returns the two back corners of a classic arrowhead at the tip.
func (a Arrow) Head(length, halfAngle float64) (left, right r2.Vec) {
	back := systems.Antiparallel(systems.Direction(a.From, a.To))
	left = r2.Add(a.To, systems.PolarToRect(length, back+halfAngle))
	right = r2.Add(a.To, systems.PolarToRect(length, back-halfAngle))
	return left, right
}
