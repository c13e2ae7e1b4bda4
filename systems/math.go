package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Circle is a disc in arena coordinates.
type Circle struct {
	Center r2.Vec
	Radius float64
}

// SolveQuadratic returns the real roots of a*x^2 + b*x + c = 0.
// A negative discriminant yields no roots, a zero discriminant one root.
// When a is zero the equation is linear and has at most one root.
func SolveQuadratic(a, b, c float64) []float64 {
	if a == 0 {
		if b == 0 {
			return nil
		}
		return []float64{-c / b}
	}

	det := b*b - 4*a*c
	switch {
	case det < 0:
		return nil
	case det == 0:
		return []float64{-b / (2 * a)}
	default:
		sqrt := math.Sqrt(det)
		return []float64{(-b + sqrt) / (2 * a), (-b - sqrt) / (2 * a)}
	}
}

// ClosestPointOnCircle returns the point on c's boundary nearest to p.
//
// The line through p and the center is intersected with the circle by
// solving a quadratic along the line's dominant axis; of the two
// intersections the one closer to p along that axis wins, ties broken on
// the other axis. When p lies straight above or below the center the
// answer is read off directly, and a p that coincides with the center
// gets the topmost point (smallest y).
func ClosestPointOnCircle(p r2.Vec, c Circle) r2.Vec {
	if c.Radius <= 0 {
		panic("systems: closest point on a circle with non-positive radius")
	}

	x1, y1, r := c.Center.X, c.Center.Y, c.Radius

	// Vertical connecting line: slope undefined
	if p.X == x1 {
		if p.Y > y1 {
			return r2.Vec{X: x1, Y: y1 + r}
		}
		return r2.Vec{X: x1, Y: y1 - r}
	}

	dx := x1 - p.X
	dy := y1 - p.Y

	if math.Abs(dx) >= math.Abs(dy) {
		// y = m*(x - x1) + y1 substituted into (x-x1)^2 + (y-y1)^2 = r^2
		m := dy / dx
		k := m*m + 1
		roots := SolveQuadratic(k, -2*x1*k, k*x1*x1-r*r)
		if len(roots) < 2 {
			return radialPoint(p, c)
		}
		a := r2.Vec{X: roots[0], Y: m*(roots[0]-x1) + y1}
		b := r2.Vec{X: roots[1], Y: m*(roots[1]-x1) + y1}
		return nearer(p.X, a.X, b.X, p.Y, a.Y, b.Y, a, b)
	}

	// Steep line: same construction with the axes swapped
	m := dx / dy
	k := m*m + 1
	roots := SolveQuadratic(k, -2*y1*k, k*y1*y1-r*r)
	if len(roots) < 2 {
		return radialPoint(p, c)
	}
	a := r2.Vec{X: m*(roots[0]-y1) + x1, Y: roots[0]}
	b := r2.Vec{X: m*(roots[1]-y1) + x1, Y: roots[1]}
	return nearer(p.Y, a.Y, b.Y, p.X, a.X, b.X, a, b)
}

// nearer picks a or b by distance on the primary axis, then the secondary.
func nearer(p, a, b, q, qa, qb float64, va, vb r2.Vec) r2.Vec {
	d0 := math.Abs(p - a)
	d1 := math.Abs(p - b)
	if d0 != d1 {
		if d0 < d1 {
			return va
		}
		return vb
	}
	if math.Abs(q-qa) < math.Abs(q-qb) {
		return va
	}
	return vb
}

// radialPoint projects p onto the circle along the center-to-p direction.
func radialPoint(p r2.Vec, c Circle) r2.Vec {
	d := r2.Sub(p, c.Center)
	n := r2.Norm(d)
	if n == 0 {
		return r2.Vec{X: c.Center.X, Y: c.Center.Y - c.Radius}
	}
	return r2.Add(c.Center, r2.Scale(c.Radius/n, d))
}

// NormalizeAngle wraps an angle to (-Pi, Pi].
func NormalizeAngle(angle float64) float64 {
	for angle > math.Pi {
		angle -= 2 * math.Pi
	}
	for angle <= -math.Pi {
		angle += 2 * math.Pi
	}
	return angle
}

// Antiparallel returns the angle rotated by Pi, in (-Pi, Pi].
func Antiparallel(angle float64) float64 {
	angle = NormalizeAngle(angle)
	if angle <= 0 {
		return angle + math.Pi
	}
	return angle - math.Pi
}

// PolarToRect converts a (radius, angle) pair to a vector.
func PolarToRect(r, theta float64) r2.Vec {
	return r2.Vec{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
}

// RectToPolar converts a vector to its (radius, angle) pair.
func RectToPolar(v r2.Vec) (r, theta float64) {
	return r2.Norm(v), math.Atan2(v.Y, v.X)
}

// Direction returns the angle of the ray from p towards q.
func Direction(p, q r2.Vec) float64 {
	return math.Atan2(q.Y-p.Y, q.X-p.X)
}

// Distance returns the Euclidean distance between two points.
func Distance(p, q r2.Vec) float64 {
	return r2.Norm(r2.Sub(p, q))
}

// clampFloat clamps a value between min and max.
func clampFloat(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
