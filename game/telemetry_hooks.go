package game

import (
	"log/slog"
	"math"

	"github.com/pthm-cable/lovehate/systems"
	"github.com/pthm-cable/lovehate/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and writes
// the window to the log and the output directory.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	samples := g.sampleAgents()
	stats := g.collector.Flush(g.tick, samples, g.minGap())
	perfStats := g.perfCollector.Stats()

	if g.opts.StatsCallback != nil {
		g.opts.StatsCallback(stats)
	}
	if g.opts.LogStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}

// sampleAgents collects per-agent distances to both targets.
func (g *Game) sampleAgents() []telemetry.AgentSample {
	g.samples = g.samples[:0]

	query := g.agentFilter.Query()
	for query.Next() {
		pos, _, heading, rel, _, agent, _ := query.Get()

		love, okLove := rel.AttractedTo()
		hate, okHate := rel.RepelledFrom()
		if !okLove || !okHate {
			continue
		}

		here := pos.Vec()
		g.samples = append(g.samples, telemetry.AgentSample{
			LoveDist: systems.Distance(here, g.posMap.Get(love).Vec()),
			HateDist: systems.Distance(here, g.posMap.Get(hate).Vec()),
			Speed:    heading.Speed,
			Paused:   agent.Paused,
		})
	}
	return g.samples
}

// minGap returns the smallest boundary-to-boundary distance between any
// two agents. It is positive while no two agents overlap.
func (g *Game) minGap() float64 {
	if len(g.agents) < 2 {
		return 0
	}
	gap := math.Inf(1)
	for i, a := range g.agents {
		pa := g.posMap.Get(a).Vec()
		ra := g.bodyMap.Get(a).Radius
		for _, b := range g.agents[i+1:] {
			d := systems.Distance(pa, g.posMap.Get(b).Vec()) - ra - g.bodyMap.Get(b).Radius
			if d < gap {
				gap = d
			}
		}
	}
	return gap
}
