package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lovehate/camera"
	"github.com/pthm-cable/lovehate/config"
	"github.com/pthm-cable/lovehate/game"
	"github.com/pthm-cable/lovehate/renderer"
	"github.com/pthm-cable/lovehate/ui"
)

// hudHeight is the status strip below the arena.
const hudHeight = 40

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	step := flag.Bool("step", false, "Start in manual stepping mode")
	count := flag.Int("count", 0, "Number of agents (0 = use config)")
	radius := flag.Float64("radius", 0, "Agent radius (0 = use config)")
	realtime := flag.Bool("realtime", false, "Headless runs follow the tick cadence instead of running flat out")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.OptionsFromConfig(cfg)
	opts.Seed = rngSeed
	opts.LogStats = *logStats
	opts.OutputDir = *outputDir
	opts.MaxTicks = int32(*maxTicks)
	opts.Step = *step && !*headless
	if *count > 0 {
		opts.Count = *count
	}
	if *radius > 0 {
		opts.Radius = *radius
	}

	var err error
	if *headless {
		err = runHeadless(cfg, opts, *realtime)
	} else {
		err = runWindow(cfg, opts)
	}
	if err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

// runHeadless runs without raylib. A tick budget without -realtime runs
// flat out; anything else follows the cadence until interrupted.
func runHeadless(cfg *config.Config, opts game.Options, realtime bool) error {
	g, err := game.New(opts)
	if err != nil {
		return err
	}
	defer g.Close()

	if err := g.WriteConfig(cfg); err != nil {
		return err
	}

	// Keep stdout for JSON records
	game.SetLogWriter(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"max_ticks", opts.MaxTicks,
		"realtime", realtime,
	)

	if opts.MaxTicks > 0 && !realtime {
		err = g.RunTicks(ctx, opts.MaxTicks)
	} else {
		err = g.Run(ctx)
	}
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	g.LogWorldState()
	g.LogPerfStats()
	slog.Info("headless simulation finished", "tick", g.Tick(), "halted", g.Halted())
	return err
}

// runWindow opens a raylib window with the arena above a HUD strip.
func runWindow(cfg *config.Config, opts game.Options) error {
	screenW := int32(cfg.Screen.Width)
	screenH := int32(cfg.Screen.Height)
	arenaH := screenH - hudHeight

	palette, err := renderer.NewPalette(cfg.Palette, rand.New(rand.NewSource(opts.Seed)))
	if err != nil {
		return err
	}
	agents := renderer.NewAgentRenderer(palette)
	opts.Sink = agents

	g, err := game.New(opts)
	if err != nil {
		return err
	}
	defer g.Close()

	if err := g.WriteConfig(cfg); err != nil {
		return err
	}

	rl.InitWindow(screenW, screenH, "Love & Hate")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	cam := camera.New(0, 0, float32(screenW), float32(arenaH), opts.Width, opts.Height)
	background := renderer.NewBackgroundRenderer(235, 235, 225)
	hud := ui.NewHUD(0, arenaH, screenW, hudHeight)
	controls := ui.NewControls(float32(screenW)/2-100, float32(arenaH)+8)
	perf := ui.NewPerfPanel(screenW-190, 8, 180)
	inspect := ui.NewAgentPanel(8, 24, 150)

	for !rl.WindowShouldClose() {
		dt := time.Duration(float64(rl.GetFrameTime()) * float64(time.Second))
		g.Update(dt)
		g.RecordFrame()

		rl.BeginDrawing()
		rl.ClearBackground(rl.DarkGray)

		background.Draw(cam)
		agents.Draw(cam)

		hud.Draw(ui.HUDData{
			Tick:     g.Tick(),
			Agents:   g.Len(),
			FPS:      rl.GetFPS(),
			TPS:      g.Options().TicksPerSecond,
			Paused:   g.Paused(),
			Halted:   g.Halted(),
			Stepping: g.Stepping(),
			Policy:   g.Options().Policy,
		})
		hud.DrawControls(8, 6, ui.KeyLegend)

		if err := controls.Update(g, cam); err != nil {
			rl.EndDrawing()
			return err
		}
		if controls.ShowPerf() {
			perf.Draw(g.PerfStats(), g.Registry())
		}
		if e, ok := controls.Selected(); ok {
			if v, found := g.View(e); found {
				color, _ := agents.Color(e)
				inspect.Draw(v, color)
			}
		}

		rl.EndDrawing()

		if opts.MaxTicks > 0 && g.Tick() >= opts.MaxTicks {
			break
		}
	}
	return nil
}
