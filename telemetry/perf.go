package telemetry

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Phase names for the simulation step.
const (
	PhaseMotion    = "motion"
	PhaseSink      = "sink"
	PhaseTelemetry = "telemetry"
)

const numPhases = 3

// Phases lists the tick phases in execution order.
var Phases = []string{PhaseMotion, PhaseSink, PhaseTelemetry}

// phaseIndex maps a phase name to its slot in a sample.
func phaseIndex(phase string) int {
	for i, p := range Phases {
		if p == phase {
			return i
		}
	}
	return -1
}

// perfSample holds timing data for a single tick.
type perfSample struct {
	tick   time.Duration
	phases [numPhases]time.Duration // indexed like Phases
}

// PerfCollector keeps the last windowSize tick timings in a ring.
type PerfCollector struct {
	ring  []perfSample
	next  int
	count int

	cur        perfSample
	tickStart  time.Time
	phaseStart time.Time
	phase      int // index into Phases, -1 outside a phase

	// Frame timing (graphics mode)
	lastFrame time.Time
	frame     time.Duration

	scratch []float64
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 64
	}
	return &PerfCollector{
		ring:    make([]perfSample, windowSize),
		phase:   -1,
		scratch: make([]float64, 0, windowSize),
	}
}

// StartTick begins timing a new tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.cur = perfSample{}
	p.phase = -1
}

// StartPhase closes the running phase and opens the named one. Names
// outside Phases panic.
func (p *PerfCollector) StartPhase(phase string) {
	idx := phaseIndex(phase)
	if idx < 0 {
		panic("telemetry: unknown perf phase " + phase)
	}
	now := time.Now()
	p.closePhase(now)
	p.phase = idx
	p.phaseStart = now
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase >= 0 {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick closes the running phase and stores the tick in the ring.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.phase = -1
	p.cur.tick = now.Sub(p.tickStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	if p.count < len(p.ring) {
		p.count++
	}
}

// RecordFrame marks the end of a rendered frame.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Per-phase average duration and share of the average tick
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64 // if ticks ran back to back

	// Graphics mode only
	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the ticks currently in the ring.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg:      make(map[string]time.Duration, len(Phases)),
		PhasePct:      make(map[string]float64, len(Phases)),
		FrameDuration: p.frame,
	}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.count == 0 {
		return s
	}

	p.scratch = p.scratch[:0]
	var phaseSum [numPhases]time.Duration
	for _, sample := range p.ring[:p.count] {
		p.scratch = append(p.scratch, float64(sample.tick))
		for i, d := range sample.phases {
			phaseSum[i] += d
		}
	}

	s.AvgTickDuration = time.Duration(stat.Mean(p.scratch, nil))
	s.MinTickDuration = time.Duration(floats.Min(p.scratch))
	s.MaxTickDuration = time.Duration(floats.Max(p.scratch))
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}

	n := time.Duration(p.count)
	for i, phase := range Phases {
		if phaseSum[i] == 0 {
			continue
		}
		avg := phaseSum[i] / n
		s.PhaseAvg[phase] = avg
		if s.AvgTickDuration > 0 {
			s.PhasePct[phase] = float64(avg) / float64(s.AvgTickDuration) * 100
		}
	}
	return s
}

// LogStats logs the window at info level.
func (s PerfStats) LogStats() {
	slog.Info("perf", "window", s)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd    int32   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FPS          float64 `csv:"fps"`
	MotionPct    float64 `csv:"motion_pct"`
	SinkPct      float64 `csv:"sink_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FPS:          s.FPS,
		MotionPct:    s.PhasePct[PhaseMotion],
		SinkPct:      s.PhasePct[PhaseSink],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
