package components

import (
	"errors"

	"github.com/mlange-42/ark/ecs"
)

// Relationship assignment errors.
var (
	ErrRelationSet  = errors.New("relationship already assigned")
	ErrSelfRelation = errors.New("agent cannot target itself")
	ErrSameTarget   = errors.New("attraction and repulsion targets must differ")
)

// Relations holds an agent's two directed relationships.
// Each target is assigned exactly once and is read-only afterwards.
type Relations struct {
	attractedTo   ecs.Entity
	repelledFrom  ecs.Entity
	hasAttraction bool
	hasRepulsion  bool
}

// AttractTo sets the attraction target of self.
func (r *Relations) AttractTo(self, target ecs.Entity) error {
	switch {
	case r.hasAttraction:
		return ErrRelationSet
	case target == self:
		return ErrSelfRelation
	case r.hasRepulsion && target == r.repelledFrom:
		return ErrSameTarget
	}
	r.attractedTo = target
	r.hasAttraction = true
	return nil
}

// RepelFrom sets the repulsion target of self.
func (r *Relations) RepelFrom(self, target ecs.Entity) error {
	switch {
	case r.hasRepulsion:
		return ErrRelationSet
	case target == self:
		return ErrSelfRelation
	case r.hasAttraction && target == r.attractedTo:
		return ErrSameTarget
	}
	r.repelledFrom = target
	r.hasRepulsion = true
	return nil
}

// AttractedTo returns the attraction target, if assigned.
func (r *Relations) AttractedTo() (ecs.Entity, bool) {
	return r.attractedTo, r.hasAttraction
}

// RepelledFrom returns the repulsion target, if assigned.
func (r *Relations) RepelledFrom() (ecs.Entity, bool) {
	return r.repelledFrom, r.hasRepulsion
}

// Complete reports whether both targets are assigned.
func (r *Relations) Complete() bool {
	return r.hasAttraction && r.hasRepulsion
}

// Incoming lists the agents that target this one, in assignment order.
// Only the renderer reads it, to re-anchor arrows pointing here.
type Incoming struct {
	From []ecs.Entity
}

// Add records src as targeting this agent; duplicates are ignored.
func (in *Incoming) Add(src ecs.Entity) {
	for _, e := range in.From {
		if e == src {
			return
		}
	}
	in.From = append(in.From, src)
}
