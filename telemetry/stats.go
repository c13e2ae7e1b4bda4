package telemetry

import "log/slog"

// WindowStats holds aggregated statistics for a tick window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	Agents int `csv:"agents"`
	Paused int `csv:"paused"`

	// Events during window
	Moves       int     `csv:"moves"`
	Blocked     int     `csv:"blocked"`
	Slides      int     `csv:"slides"`
	PausedSkips int     `csv:"paused_skips"`
	BlockedRate float64 `csv:"blocked_rate"`

	// Distances to relationship targets (sampled at window end)
	LoveDistMean float64 `csv:"love_dist_mean"`
	LoveDistStd  float64 `csv:"love_dist_std"`
	HateDistMean float64 `csv:"hate_dist_mean"`
	HateDistStd  float64 `csv:"hate_dist_std"`
	HateDistMin  float64 `csv:"hate_dist_min"`

	SpeedMean float64 `csv:"speed_mean"`
	MinGap    float64 `csv:"min_gap"` // smallest boundary distance between two agents
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("agents", s.Agents),
		slog.Int("paused", s.Paused),
		slog.Int("moves", s.Moves),
		slog.Int("blocked", s.Blocked),
		slog.Int("slides", s.Slides),
		slog.Int("paused_skips", s.PausedSkips),
		slog.Float64("blocked_rate", s.BlockedRate),
		slog.Float64("love_dist_mean", s.LoveDistMean),
		slog.Float64("love_dist_std", s.LoveDistStd),
		slog.Float64("hate_dist_mean", s.HateDistMean),
		slog.Float64("hate_dist_std", s.HateDistStd),
		slog.Float64("hate_dist_min", s.HateDistMin),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("min_gap", s.MinGap),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"agents", s.Agents,
		"paused", s.Paused,
		"moves", s.Moves,
		"blocked", s.Blocked,
		"slides", s.Slides,
		"paused_skips", s.PausedSkips,
		"blocked_rate", s.BlockedRate,
		"love_dist_mean", s.LoveDistMean,
		"hate_dist_mean", s.HateDistMean,
		"speed_mean", s.SpeedMean,
		"min_gap", s.MinGap,
	)
}
