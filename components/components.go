// Package components defines ECS components for the simulation.
package components

// Agent holds identity and scheduling state for one person.
type Agent struct {
	ID     int  // sequential, assigned at creation
	Paused bool // skipped by the tick loop until resumed
}

// Motion holds per-agent movement counters.
type Motion struct {
	Moves       int  // ticks that changed position
	Blocked     int  // moves rejected because of an overlap
	Slides      int  // ticks where a wall redirected the heading
	LastBlocked bool // whether the most recent move was rejected
}
