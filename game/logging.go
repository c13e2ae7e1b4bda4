package game

import (
	"fmt"
	"io"
	"time"

	"github.com/pthm-cable/lovehate/telemetry"
)

// logWriter is the destination for log output.
var logWriter io.Writer

// SetLogWriter sets the log output destination.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted log message.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if logWriter != nil {
		fmt.Fprintln(logWriter, msg)
	} else {
		fmt.Println(msg)
	}
}

// LogPerfStats writes a per-phase timing table for the current window.
func (g *Game) LogPerfStats() {
	stats := g.perfCollector.Stats()
	Logf("=== Perf @ Tick %d | %.0f ticks/s ===", g.tick, stats.TicksPerSecond)
	Logf("Avg tick: %s (min %s, max %s)",
		stats.AvgTickDuration.Round(time.Microsecond),
		stats.MinTickDuration.Round(time.Microsecond),
		stats.MaxTickDuration.Round(time.Microsecond))

	for _, phase := range telemetry.Phases {
		avg, ok := stats.PhaseAvg[phase]
		if !ok {
			continue
		}
		Logf("  %-12s %10s  %5.1f%%", g.registry.GetName(phase), avg.Round(time.Microsecond), stats.PhasePct[phase])
	}
}

// LogWorldState writes one line per agent.
func (g *Game) LogWorldState() {
	Logf("=== Tick %d (%d agents, paused %v, halted %v) ===", g.tick, len(g.agents), g.Paused(), g.halted)
	for _, v := range g.Snapshot() {
		m := g.motionMap.Get(v.Entity)
		state := ""
		if v.Paused {
			state = " paused"
		}
		Logf("  #%d at (%.1f, %.1f) heading %.2f loves #%d hates #%d moves=%d blocked=%d slides=%d%s",
			v.ID, v.Pos.X, v.Pos.Y, v.Angle, v.Love.ID, v.Hate.ID, m.Moves, m.Blocked, m.Slides, state)
	}
}
