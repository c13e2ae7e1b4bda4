package game

import (
	"context"
	"time"
)

// maxCatchUp caps the ticks a single Advance may release, so a long
// stall does not turn into a burst of ticks.
const maxCatchUp = 4

// Scheduler releases ticks at a fixed rate. It is not safe for concurrent
// use; the driver calls it from one goroutine.
type Scheduler struct {
	interval time.Duration
	accum    time.Duration
	running  bool
}

// NewScheduler creates a stopped scheduler for the given rate.
func NewScheduler(ticksPerSecond float64) *Scheduler {
	var interval time.Duration
	if ticksPerSecond > 0 {
		interval = time.Duration(float64(time.Second) / ticksPerSecond)
	}
	return &Scheduler{interval: interval}
}

// Interval returns the time between ticks.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Start arms the scheduler. Starting a running scheduler is a no-op.
func (s *Scheduler) Start() {
	s.running = true
}

// Stop cancels pending ticks. Stopping a stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.running = false
	s.accum = 0
}

// Running reports whether ticks are being released.
func (s *Scheduler) Running() bool {
	return s.running
}

// Advance accounts for elapsed time and returns how many ticks are due.
func (s *Scheduler) Advance(dt time.Duration) int {
	if !s.running || s.interval <= 0 || dt <= 0 {
		return 0
	}
	s.accum += dt
	n := int(s.accum / s.interval)
	s.accum -= time.Duration(n) * s.interval
	if n > maxCatchUp {
		n = maxCatchUp
		s.accum = 0
	}
	return n
}

// Update releases the ticks due after dt of wall time, as in a frame loop.
// It stops early if a tick paused or halted the simulation.
func (g *Game) Update(dt time.Duration) int {
	n := g.scheduler.Advance(dt)
	done := 0
	for ; done < n; done++ {
		if !g.scheduler.Running() {
			break
		}
		g.Step()
	}
	return done
}

// Run drives ticks at the scheduler cadence in the calling goroutine. It
// returns nil when the simulation is paused or halted, when MaxTicks is
// reached, or at once in stepping mode; it returns ctx.Err() when the
// context ends first.
func (g *Game) Run(ctx context.Context) error {
	if g.opts.Step || !g.scheduler.Running() || g.scheduler.Interval() <= 0 {
		return nil
	}

	ticker := time.NewTicker(g.scheduler.Interval())
	defer ticker.Stop()

	for {
		if g.opts.MaxTicks > 0 && g.tick >= g.opts.MaxTicks {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !g.scheduler.Running() {
				return nil
			}
			g.Step()
			if !g.scheduler.Running() {
				return nil
			}
		}
	}
}

// RunTicks runs n ticks back to back, ignoring the cadence. It stops early
// if the simulation halts or the context ends.
func (g *Game) RunTicks(ctx context.Context, n int32) error {
	for i := int32(0); i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if g.halted {
			return nil
		}
		g.Step()
	}
	return nil
}
