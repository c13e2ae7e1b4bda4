package main

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/lovehate/config"
	"github.com/pthm-cable/lovehate/game"
	"github.com/pthm-cable/lovehate/telemetry"
)

// Result summarises every seed run at one grid point.
type Result struct {
	Label        string  `csv:"params"`
	Count        int     `csv:"count"`
	Radius       float64 `csv:"radius"`
	Speed        float64 `csv:"speed"`
	Seeds        int     `csv:"seeds"`
	Failed       int     `csv:"failed"` // placement could not fit the population
	Errored      int     `csv:"errored"` // any other run error
	Halted       int     `csv:"halted"`
	Ticks        float64 `csv:"ticks_mean"`
	BlockedRate  float64 `csv:"blocked_rate"`
	LoveDistMean float64 `csv:"love_dist_mean"`
	HateDistMean float64 `csv:"hate_dist_mean"`
	MinGap       float64 `csv:"min_gap"`
}

// runResult holds the outcome of a single seed.
type runResult struct {
	seed        int64
	err         error
	ticks       int32
	halted      bool
	windowStats []telemetry.WindowStats
}

// Evaluator runs headless simulations for grid points.
type Evaluator struct {
	grid       *ParamGrid
	baseConfig *config.Config
	seeds      []int64
	maxTicks   int32
}

// NewEvaluator creates a new evaluator.
func NewEvaluator(grid *ParamGrid, baseCfg *config.Config, seeds []int64, maxTicks int32) *Evaluator {
	return &Evaluator{grid: grid, baseConfig: baseCfg, seeds: seeds, maxTicks: maxTicks}
}

// Evaluate runs all seeds for one point in parallel and aggregates them.
// Only context cancellation is returned as an error; failed runs are
// counted in the result.
func (ev *Evaluator) Evaluate(ctx context.Context, p Point) (Result, error) {
	cfg := ev.copyConfig()
	ev.grid.ApplyToConfig(cfg, p)

	results := make([]runResult, len(ev.seeds))
	var wg sync.WaitGroup
	for i, seed := range ev.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = ev.runSimulation(ctx, cfg, s)
		}(i, seed)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	return ev.aggregate(cfg, p, results), nil
}

func (ev *Evaluator) copyConfig() *config.Config {
	cfg := *ev.baseConfig
	return &cfg
}

// runSimulation executes a single headless run to maxTicks or a halt.
func (ev *Evaluator) runSimulation(ctx context.Context, cfg *config.Config, seed int64) runResult {
	result := runResult{seed: seed}

	opts := game.OptionsFromConfig(cfg)
	opts.Seed = seed
	opts.StatsCallback = func(stats telemetry.WindowStats) {
		result.windowStats = append(result.windowStats, stats)
	}

	g, err := game.New(opts)
	if err != nil {
		result.err = err
		return result
	}
	defer g.Close()

	if err := g.RunTicks(ctx, ev.maxTicks); err != nil {
		result.err = err
	}
	result.ticks = g.Tick()
	result.halted = g.Halted()
	return result
}

func (ev *Evaluator) aggregate(cfg *config.Config, p Point, results []runResult) Result {
	r := Result{
		Label:  ev.grid.Label(p),
		Count:  cfg.Population.Count,
		Radius: cfg.Population.Radius,
		Speed:  cfg.Motion.Speed,
		Seeds:  len(results),
	}

	var ticks, blocked, love, hate, gaps []float64
	for _, res := range results {
		if res.err != nil {
			if errors.Is(res.err, game.ErrPlacementExhausted) {
				r.Failed++
				continue
			}
			r.Errored++
			slog.Warn("sweep run failed", "params", r.Label, "seed", res.seed, "error", res.err)
			continue
		}
		if res.halted {
			r.Halted++
		}
		ticks = append(ticks, float64(res.ticks))
		for _, w := range res.windowStats {
			blocked = append(blocked, w.BlockedRate)
			love = append(love, w.LoveDistMean)
			hate = append(hate, w.HateDistMean)
			gaps = append(gaps, w.MinGap)
		}
	}

	r.Ticks = meanOrNaN(ticks)
	r.BlockedRate = meanOrNaN(blocked)
	r.LoveDistMean = meanOrNaN(love)
	r.HateDistMean = meanOrNaN(hate)
	r.MinGap = math.NaN()
	if len(gaps) > 0 {
		r.MinGap = floats.Min(gaps)
	}
	return r
}

func meanOrNaN(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return stat.Mean(xs, nil)
}
