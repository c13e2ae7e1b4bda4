// Package main runs headless parameter sweeps of the love/hate simulation
// over several seeds and writes one summary row per grid point.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/lovehate/config"
)

// paramFlags collects repeated -param flags.
type paramFlags []string

func (p *paramFlags) String() string     { return strings.Join(*p, " ") }
func (p *paramFlags) Set(s string) error { *p = append(*p, s); return nil }

// formatDuration formats a duration as MM:SS or HH:MM:SS.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	var params paramFlags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Int("max-ticks", 2000, "Ticks per run")
	seeds := flag.Int("seeds", 4, "Number of seeds per grid point")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Var(&params, "param", "Swept parameter as name=v1,v2,... (count, radius, speed); repeatable")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(*configPath, *outputDir, params, *seeds, int32(*maxTicks)); err != nil {
		slog.Error("sweep failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, outputDir string, params []string, seeds int, maxTicks int32) error {
	if outputDir == "" {
		return fmt.Errorf("-output is required")
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	baseCfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	grid := &ParamGrid{}
	for _, p := range params {
		spec, err := ParseParam(p)
		if err != nil {
			return err
		}
		grid.Specs = append(grid.Specs, spec)
	}

	evalSeeds := make([]int64, seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	evaluator := NewEvaluator(grid, baseCfg, evalSeeds, maxTicks)
	points := grid.Points()
	results := make([]Result, 0, len(points))
	start := time.Now()

	slog.Info("starting sweep", "params", grid.Dim(), "points", len(points), "seeds", seeds, "max_ticks", maxTicks)

	for i, p := range points {
		r, err := evaluator.Evaluate(ctx, p)
		if err != nil {
			slog.Warn("sweep interrupted", "completed", i)
			break
		}
		results = append(results, r)

		elapsed := time.Since(start)
		remaining := time.Duration(len(points)-i-1) * (elapsed / time.Duration(i+1))
		slog.Info("point done",
			"point", i+1,
			"of", len(points),
			"params", r.Label,
			"failed", r.Failed,
			"halted", r.Halted,
			"blocked_rate", r.BlockedRate,
			"elapsed", formatDuration(elapsed),
			"eta", formatDuration(remaining),
		)
	}

	if err := writeResults(filepath.Join(outputDir, "sweep.csv"), results); err != nil {
		return err
	}
	return baseCfg.WriteYAML(filepath.Join(outputDir, "base_config.yaml"))
}

func writeResults(path string, results []Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&results, f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
