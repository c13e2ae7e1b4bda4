package components

import "gonum.org/v1/gonum/spatial/r2"

// Position represents an entity's arena position.
type Position struct {
	X, Y float64
}

// Vec returns the position as a vector.
func (p Position) Vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// Set assigns the position from a vector.
func (p *Position) Set(v r2.Vec) {
	p.X, p.Y = v.X, v.Y
}

// Heading is the per-tick displacement in polar form.
type Heading struct {
	Speed float64 // displacement per tick, >= 0
	Angle float64 // radians in (-Pi, Pi], y axis points down
}
