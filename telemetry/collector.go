// Package telemetry provides window statistics, perf tracking and CSV output.
package telemetry

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// AgentSample is the state of one agent sampled at window end.
type AgentSample struct {
	LoveDist float64 // center distance to the attraction target
	HateDist float64 // center distance to the repulsion target
	Speed    float64
	Paused   bool
}

// Collector accumulates motion events within tick windows and produces
// WindowStats.
type Collector struct {
	windowDurationTicks int32
	ticksPerSecond      float64

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	moves       int
	blocked     int
	slides      int
	pausedSkips int

	// Scratch buffers reused across flushes
	love, hate, speed []float64
}

// NewCollector creates a new stats collector.
// windowTicks: how many ticks each stats window lasts
// ticksPerSecond: nominal tick rate (used for tick-to-time conversion)
func NewCollector(windowTicks int, ticksPerSecond float64) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowDurationTicks: int32(windowTicks),
		ticksPerSecond:      ticksPerSecond,
	}
}

// RecordMove records an agent that changed position.
func (c *Collector) RecordMove() {
	c.moves++
}

// RecordBlocked records a move rejected because it would overlap.
func (c *Collector) RecordBlocked() {
	c.blocked++
}

// RecordSlide records a heading redirected by a wall.
func (c *Collector) RecordSlide() {
	c.slides++
}

// RecordPausedSkip records a paused agent skipped by a tick.
func (c *Collector) RecordPausedSkip() {
	c.pausedSkips++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// minGap is the smallest boundary-to-boundary distance between any two
// agents at window end.
func (c *Collector) Flush(currentTick int32, agents []AgentSample, minGap float64) WindowStats {
	c.love = c.love[:0]
	c.hate = c.hate[:0]
	c.speed = c.speed[:0]
	paused := 0
	for _, a := range agents {
		c.love = append(c.love, a.LoveDist)
		c.hate = append(c.hate, a.HateDist)
		c.speed = append(c.speed, a.Speed)
		if a.Paused {
			paused++
		}
	}

	var blockedRate float64
	if attempts := c.moves + c.blocked; attempts > 0 {
		blockedRate = float64(c.blocked) / float64(attempts)
	}

	loveMean, loveStd := meanStd(c.love)
	hateMean, hateStd := meanStd(c.hate)
	speedMean, _ := meanStd(c.speed)

	var simTime float64
	if c.ticksPerSecond > 0 {
		simTime = float64(currentTick) / c.ticksPerSecond
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      simTime,

		Agents: len(agents),
		Paused: paused,

		Moves:       c.moves,
		Blocked:     c.blocked,
		Slides:      c.slides,
		PausedSkips: c.pausedSkips,
		BlockedRate: blockedRate,

		LoveDistMean: loveMean,
		LoveDistStd:  loveStd,
		HateDistMean: hateMean,
		HateDistStd:  hateStd,
		HateDistMin:  minOrZero(c.hate),
		SpeedMean:    speedMean,
		MinGap:       minGap,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.moves = 0
	c.blocked = 0
	c.slides = 0
	c.pausedSkips = 0

	return stats
}

// Reset discards the current window and restarts counting at tick.
func (c *Collector) Reset(tick int32) {
	c.windowStartTick = tick
	c.moves = 0
	c.blocked = 0
	c.slides = 0
	c.pausedSkips = 0
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}

// meanStd returns the mean and sample standard deviation. A single value
// has zero spread.
func meanStd(x []float64) (mean, std float64) {
	switch len(x) {
	case 0:
		return 0, 0
	case 1:
		return x[0], 0
	}
	mean, std = stat.MeanStdDev(x, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return mean, std
}

func minOrZero(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return floats.Min(x)
}
