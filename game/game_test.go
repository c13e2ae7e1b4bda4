package game

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/lovehate/components"
	"github.com/pthm-cable/lovehate/config"
	"github.com/pthm-cable/lovehate/systems"
	"github.com/pthm-cable/lovehate/telemetry"
)

// recordingSink keeps every event it receives.
type recordingSink struct {
	created []AgentView
	moved   []AgentView
	resets  int
}

func (s *recordingSink) AgentCreated(v AgentView) { s.created = append(s.created, v) }
func (s *recordingSink) AgentMoved(v AgentView)   { s.moved = append(s.moved, v) }
func (s *recordingSink) Reset()                   { s.resets++ }

func defaultOptions(seed int64) Options {
	return Options{
		Seed:   seed,
		Count:  5,
		Radius: 10,
		Width:  550,
		Height: 300,
		Speed:  1,
		Step:   true,
	}
}

func newTestGame(t *testing.T, opts Options) *Game {
	t.Helper()
	g, err := New(opts)
	if err != nil {
		t.Fatalf("New(%+v) error = %v", opts, err)
	}
	t.Cleanup(func() { g.Close() })
	return g
}

// checkInvariants verifies bounds, no-overlap and relationship validity.
func checkInvariants(t *testing.T, g *Game) {
	t.Helper()
	views := g.Snapshot()
	for i, v := range views {
		if v.Pos.X < v.Radius || v.Pos.X > g.opts.Width-v.Radius ||
			v.Pos.Y < v.Radius || v.Pos.Y > g.opts.Height-v.Radius {
			t.Fatalf("tick %d: agent #%d at %v is out of bounds", g.Tick(), v.ID, v.Pos)
		}
		if !v.HasTargets {
			t.Fatalf("agent #%d has no relationships", v.ID)
		}
		if v.Love.Entity == v.Entity || v.Hate.Entity == v.Entity || v.Love.Entity == v.Hate.Entity {
			t.Fatalf("agent #%d has invalid targets love=#%d hate=#%d", v.ID, v.Love.ID, v.Hate.ID)
		}
		for _, w := range views[i+1:] {
			if d := systems.Distance(v.Pos, w.Pos); d <= v.Radius+w.Radius {
				t.Fatalf("tick %d: agents #%d and #%d overlap (distance %v)", g.Tick(), v.ID, w.ID, d)
			}
		}
	}
}

// teleport moves an agent directly, keeping the grid in sync.
func teleport(g *Game, e ecs.Entity, x, y float64) {
	pos := g.posMap.Get(e)
	g.grid.Move(e, pos.X, pos.Y, x, y)
	pos.X, pos.Y = x, y
}

func TestNewDefaultScenario(t *testing.T) {
	sink := &recordingSink{}
	opts := defaultOptions(1)
	opts.Sink = sink
	g := newTestGame(t, opts)

	if g.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", g.Len())
	}
	checkInvariants(t, g)

	if len(sink.created) != 5 {
		t.Fatalf("sink saw %d creations, want 5", len(sink.created))
	}
	for i, v := range sink.created {
		if v.ID != i+1 {
			t.Errorf("creation %d has ID %d, want %d", i, v.ID, i+1)
		}
		if !v.HasTargets {
			t.Errorf("agent #%d created before its relationships were assigned", v.ID)
		}
	}
	if g.Tick() != 0 {
		t.Errorf("Tick() = %d, want 0", g.Tick())
	}
}

func TestNewRejectsTooFewAgents(t *testing.T) {
	for _, count := range []int{0, 1, 2} {
		opts := defaultOptions(1)
		opts.Count = count
		if _, err := New(opts); !errors.Is(err, ErrTooFewAgents) {
			t.Errorf("New(count=%d) error = %v, want ErrTooFewAgents", count, err)
		}
	}
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
	}{
		{"zero radius", func(o *Options) { o.Radius = 0 }},
		{"zero width", func(o *Options) { o.Width = 0 }},
		{"arena smaller than an agent", func(o *Options) { o.Height = 15 }},
		{"negative speed", func(o *Options) { o.Speed = -1 }},
		{"unknown policy", func(o *Options) { o.Policy = "bounce" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := defaultOptions(1)
			tt.modify(&opts)
			if _, err := New(opts); !errors.Is(err, config.ErrInvalidConfig) {
				t.Errorf("New() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestNewPlacementExhausted(t *testing.T) {
	// Every center lies in [40, 60]^2, so a second agent of radius 40
	// always overlaps the first.
	opts := Options{Seed: 3, Count: 3, Radius: 40, Width: 100, Height: 100, Step: true, MaxAttempts: 50}
	_, err := New(opts)
	if !errors.Is(err, ErrPlacementExhausted) {
		t.Fatalf("New() error = %v, want ErrPlacementExhausted", err)
	}
}

func TestRelationshipsAndIncoming(t *testing.T) {
	g := newTestGame(t, defaultOptions(7))

	for _, e := range g.agents {
		rel := g.relMap.Get(e)
		love, _ := rel.AttractedTo()
		hate, _ := rel.RepelledFrom()

		for _, target := range []ecs.Entity{love, hate} {
			found := false
			for _, src := range g.incomingMap.Get(target).From {
				if src == e {
					found = true
				}
			}
			if !found {
				t.Errorf("agent %v missing from incoming list of %v", e, target)
			}
		}
	}
}

func TestThreeAgentsTargetBothOthers(t *testing.T) {
	opts := defaultOptions(11)
	opts.Count = 3
	g := newTestGame(t, opts)

	for _, v := range g.Snapshot() {
		if v.Love.ID+v.Hate.ID+v.ID != 6 {
			t.Errorf("agent #%d loves #%d hates #%d, want the two others", v.ID, v.Love.ID, v.Hate.ID)
		}
	}
}

func TestInvariantsHoldOverManyTicks(t *testing.T) {
	for seed := int64(1); seed <= 4; seed++ {
		opts := defaultOptions(seed)
		opts.Count = 8
		g := newTestGame(t, opts)

		type pair struct{ love, hate int }
		initial := make(map[int]pair)
		for _, v := range g.Snapshot() {
			initial[v.ID] = pair{v.Love.ID, v.Hate.ID}
		}

		for i := 0; i < 400; i++ {
			g.Step()
			checkInvariants(t, g)
		}

		for _, v := range g.Snapshot() {
			if got := (pair{v.Love.ID, v.Hate.ID}); got != initial[v.ID] {
				t.Errorf("seed %d: agent #%d relationships changed from %v to %v", seed, v.ID, initial[v.ID], got)
			}
		}
		if g.Tick() != 400 {
			t.Errorf("Tick() = %d, want 400", g.Tick())
		}
	}
}

func TestStepEmitsMoves(t *testing.T) {
	sink := &recordingSink{}
	opts := defaultOptions(5)
	opts.Sink = sink
	g := newTestGame(t, opts)

	before := make(map[int]r2.Vec)
	for _, v := range g.Snapshot() {
		before[v.ID] = v.Pos
	}

	g.Step()

	for _, v := range sink.moved {
		if v.Pos == before[v.ID] {
			t.Errorf("agent #%d reported as moved but stayed at %v", v.ID, v.Pos)
		}
		if !v.HasTargets || len(v.Incoming) > g.Len()-1 {
			t.Errorf("moved view for #%d is incomplete: %+v", v.ID, v)
		}
	}
	for _, v := range g.Snapshot() {
		if v.Pos != before[v.ID] {
			found := false
			for _, m := range sink.moved {
				if m.ID == v.ID {
					found = true
				}
			}
			if !found {
				t.Errorf("agent #%d moved without a sink event", v.ID)
			}
		}
	}
}

func TestStepAgent(t *testing.T) {
	g := newTestGame(t, defaultOptions(2))

	if err := g.StepAgent(5); !errors.Is(err, ErrNoSuchAgent) {
		t.Errorf("StepAgent(5) error = %v, want ErrNoSuchAgent", err)
	}
	if err := g.StepAgent(-1); !errors.Is(err, ErrNoSuchAgent) {
		t.Errorf("StepAgent(-1) error = %v, want ErrNoSuchAgent", err)
	}

	// Paused agents can still be stepped by hand
	g.Pause(g.agents[0])
	if err := g.StepAgent(0); err != nil {
		t.Fatalf("StepAgent(0) error = %v", err)
	}
	if g.Tick() != 0 {
		t.Errorf("Tick() = %d after StepAgent, want 0", g.Tick())
	}
	m := g.motionMap.Get(g.agents[0])
	if m.Moves+m.Blocked != 1 {
		t.Errorf("agent 0 made %d moves and %d blocked moves, want exactly one attempt", m.Moves, m.Blocked)
	}
	checkInvariants(t, g)
}

func TestPauseIsIdempotent(t *testing.T) {
	opts := defaultOptions(4)
	opts.Step = false
	g := newTestGame(t, opts)

	if g.Paused() {
		t.Fatal("new non-stepping game should be running")
	}
	g.PauseAll()
	g.PauseAll()
	if !g.Paused() {
		t.Error("Paused() = false after PauseAll")
	}
	if n := g.Update(time.Second); n != 0 {
		t.Errorf("Update() ran %d ticks while paused", n)
	}
	g.ResumeAll()
	g.ResumeAll()
	if g.Paused() {
		t.Error("Paused() = true after ResumeAll")
	}
	g.TogglePause()
	if !g.Paused() {
		t.Error("TogglePause() did not pause")
	}

	e := g.agents[1]
	g.Pause(e)
	g.Pause(e)
	if !g.AgentPaused(e) {
		t.Fatal("AgentPaused() = false after Pause")
	}
	before := g.posMap.Get(e).Vec()
	for i := 0; i < 10; i++ {
		g.Step()
	}
	if got := g.posMap.Get(e).Vec(); got != before {
		t.Errorf("paused agent moved from %v to %v", before, got)
	}
	g.Resume(e)
	g.Resume(e)
	if g.AgentPaused(e) {
		t.Error("AgentPaused() = true after Resume")
	}
	g.ToggleAgent(e)
	if !g.AgentPaused(e) {
		t.Error("ToggleAgent() did not pause")
	}

	// Unknown entities are ignored
	g.Pause(ecs.Entity{})
	if g.AgentPaused(ecs.Entity{}) {
		t.Error("zero entity reported as paused")
	}
}

// surround places agent 0 at the arena center with four agents just out
// of reach on each side, so any unit move of agent 0 collides.
func surround(g *Game) {
	teleport(g, g.agents[0], 150, 150)
	teleport(g, g.agents[1], 150, 129.5)
	teleport(g, g.agents[2], 150, 170.5)
	teleport(g, g.agents[3], 129.5, 150)
	teleport(g, g.agents[4], 170.5, 150)
}

func TestCollisionPolicies(t *testing.T) {
	tests := []struct {
		policy     string
		wantSpeed  float64
		wantHalted bool
	}{
		{config.PolicyRevert, 1, false},
		{config.PolicyStop, 0, false},
		{config.PolicyHalt, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.policy, func(t *testing.T) {
			opts := Options{Seed: 9, Count: 5, Radius: 10, Width: 300, Height: 300, Speed: 1, Policy: tt.policy}
			g := newTestGame(t, opts)
			surround(g)
			checkInvariants(t, g)

			g.Step()

			e := g.agents[0]
			if got := g.posMap.Get(e).Vec(); got != (r2.Vec{X: 150, Y: 150}) {
				t.Errorf("blocked agent moved to %v", got)
			}
			if got := g.headingMap.Get(e).Speed; got != tt.wantSpeed {
				t.Errorf("speed = %v, want %v", got, tt.wantSpeed)
			}
			if g.Halted() != tt.wantHalted || g.Paused() != tt.wantHalted {
				t.Errorf("Halted, Paused = %v, %v, want %v", g.Halted(), g.Paused(), tt.wantHalted)
			}
			if g.Tick() != 1 {
				t.Errorf("Tick() = %d, want the halting tick to complete", g.Tick())
			}
			if m := g.motionMap.Get(e); m.Blocked != 1 {
				t.Errorf("Motion.Blocked = %d, want 1", m.Blocked)
			}
			checkInvariants(t, g)
		})
	}
}

func TestResumeClearsHalt(t *testing.T) {
	opts := Options{Seed: 9, Count: 5, Radius: 10, Width: 300, Height: 300, Speed: 1, Policy: config.PolicyHalt}
	g := newTestGame(t, opts)
	surround(g)
	g.Step()

	if !g.Halted() {
		t.Fatal("expected halt")
	}
	if err := g.RunTicks(context.Background(), 5); err != nil {
		t.Fatal(err)
	}
	if g.Tick() != 1 {
		t.Errorf("RunTicks advanced a halted simulation to tick %d", g.Tick())
	}

	g.ResumeAll()
	if g.Halted() || g.Paused() {
		t.Error("ResumeAll did not clear the halt")
	}
}

func TestReset(t *testing.T) {
	sink := &recordingSink{}
	opts := defaultOptions(6)
	opts.Step = false
	opts.Sink = sink
	g := newTestGame(t, opts)

	for i := 0; i < 20; i++ {
		g.Step()
	}
	first := g.Snapshot()[0].Pos

	if err := g.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if sink.resets != 1 || len(sink.created) != 10 {
		t.Errorf("sink resets=%d created=%d, want 1 and 10", sink.resets, len(sink.created))
	}
	if g.Tick() != 0 || g.Len() != 5 {
		t.Errorf("after Reset Tick()=%d Len()=%d, want 0 and 5", g.Tick(), g.Len())
	}
	if g.Paused() {
		t.Error("Reset paused a running simulation")
	}
	if g.Snapshot()[0].Pos == first {
		t.Error("Reset reproduced the previous arrangement")
	}
	checkInvariants(t, g)
}

func TestAgentAt(t *testing.T) {
	g := newTestGame(t, defaultOptions(8))
	v := g.Snapshot()[2]

	got, ok := g.AgentAt(r2.Add(v.Pos, r2.Vec{X: 3, Y: -2}))
	if !ok || got != v.Entity {
		t.Errorf("AgentAt(near #%d) = %v, %v, want %v, true", v.ID, got, ok, v.Entity)
	}
	if _, ok := g.AgentAt(r2.Vec{}); ok {
		t.Error("AgentAt(corner) found an agent")
	}
}

func TestView(t *testing.T) {
	g := newTestGame(t, defaultOptions(9))
	want := g.Snapshot()[1]

	got, ok := g.View(want.Entity)
	if !ok || got.ID != want.ID || got.Pos != want.Pos {
		t.Errorf("View(#%d) = %+v, %v, want %+v", want.ID, got, ok, want)
	}
	if _, ok := g.View(ecs.Entity{}); ok {
		t.Error("View(zero entity) reported an agent")
	}

	// Alive, but not an agent
	other := ecs.NewMap1[components.Position](g.world).NewEntity(&components.Position{X: 1, Y: 1})
	if _, ok := g.View(other); ok {
		t.Error("View(non-agent entity) reported an agent")
	}
	if g.AgentPaused(other) {
		t.Error("AgentPaused(non-agent entity) = true")
	}
}

func TestSchedulerAdvance(t *testing.T) {
	s := NewScheduler(16)
	if s.Interval() != 62500*time.Microsecond {
		t.Fatalf("Interval() = %v, want 62.5ms", s.Interval())
	}
	if n := s.Advance(time.Second); n != 0 {
		t.Errorf("stopped Advance() = %d, want 0", n)
	}

	s.Start()
	s.Start()
	if n := s.Advance(30 * time.Millisecond); n != 0 {
		t.Errorf("Advance(30ms) = %d, want 0", n)
	}
	if n := s.Advance(40 * time.Millisecond); n != 1 {
		t.Errorf("Advance(+40ms) = %d, want 1", n)
	}
	if n := s.Advance(10 * time.Second); n != maxCatchUp {
		t.Errorf("Advance(10s) = %d, want cap %d", n, maxCatchUp)
	}

	s.Stop()
	s.Stop()
	if s.Running() {
		t.Error("Running() = true after Stop")
	}
	s.Start()
	if n := s.Advance(50 * time.Millisecond); n != 0 {
		t.Errorf("Advance after Stop kept stale time: %d ticks", n)
	}
}

func TestUpdateFollowsCadence(t *testing.T) {
	opts := defaultOptions(3)
	opts.Step = false
	g := newTestGame(t, opts)

	if n := g.Update(125 * time.Millisecond); n != 2 {
		t.Errorf("Update(125ms) = %d ticks, want 2", n)
	}
	if g.Tick() != 2 {
		t.Errorf("Tick() = %d, want 2", g.Tick())
	}
}

func TestRunSteppingReturnsImmediately(t *testing.T) {
	g := newTestGame(t, defaultOptions(1))
	if err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if g.Tick() != 0 {
		t.Errorf("Run in stepping mode advanced to tick %d", g.Tick())
	}
	if !g.Stepping() || !g.Paused() {
		t.Error("stepping game should report Stepping and Paused")
	}
}

func TestRunStopsAtMaxTicks(t *testing.T) {
	opts := defaultOptions(1)
	opts.Step = false
	opts.TicksPerSecond = 1000
	opts.MaxTicks = 5
	g := newTestGame(t, opts)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := g.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if g.Tick() != 5 {
		t.Errorf("Tick() = %d, want 5", g.Tick())
	}
}

func TestRunHonoursContext(t *testing.T) {
	opts := defaultOptions(1)
	opts.Step = false
	g := newTestGame(t, opts)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := g.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestTelemetryOutput(t *testing.T) {
	dir := t.TempDir()
	opts := defaultOptions(12)
	opts.OutputDir = dir
	opts.StatsWindow = 10
	g := newTestGame(t, opts)

	if err := g.RunTicks(context.Background(), 25); err != nil {
		t.Fatal(err)
	}
	if err := g.WriteConfig(config.Defaults()); err != nil {
		t.Fatal(err)
	}
	if err := g.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("telemetry.csv has %d lines, want header + 2 windows:\n%s", len(lines), data)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml not written: %v", err)
	}
}

func TestStatsCallback(t *testing.T) {
	var windows []telemetry.WindowStats
	opts := defaultOptions(14)
	opts.StatsWindow = 8
	opts.StatsCallback = func(s telemetry.WindowStats) {
		windows = append(windows, s)
	}
	g := newTestGame(t, opts)

	if err := g.RunTicks(context.Background(), 24); err != nil {
		t.Fatal(err)
	}
	if len(windows) != 3 {
		t.Fatalf("got %d windows, want 3", len(windows))
	}
	if windows[2].WindowEndTick != 24 || windows[2].Agents != 5 {
		t.Errorf("last window = %+v, want end tick 24 with 5 agents", windows[2])
	}
}

func TestMinGapPositive(t *testing.T) {
	g := newTestGame(t, defaultOptions(13))
	for i := 0; i < 50; i++ {
		g.Step()
		if gap := g.minGap(); gap <= 0 {
			t.Fatalf("tick %d: minGap() = %v, want > 0", g.Tick(), gap)
		}
	}
}

func TestZeroSpeedStaysPut(t *testing.T) {
	cfg := config.Defaults()
	cfg.Motion.Speed = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	opts := OptionsFromConfig(cfg)
	opts.Seed = 21
	opts.Step = true
	g := newTestGame(t, opts)

	if g.Options().Speed != 0 {
		t.Fatalf("Options().Speed = %v, want 0", g.Options().Speed)
	}
	start := make([]r2.Vec, len(g.agents))
	for i, e := range g.agents {
		start[i] = g.posMap.Get(e).Vec()
	}
	for i := 0; i < 20; i++ {
		g.Step()
	}
	for i, e := range g.agents {
		if got := g.posMap.Get(e).Vec(); got != start[i] {
			t.Errorf("agent %d moved from %v to %v at speed 0", i, start[i], got)
		}
	}
}

func TestResetRestartsStatsWindow(t *testing.T) {
	var windows []telemetry.WindowStats
	opts := defaultOptions(15)
	opts.StatsWindow = 8
	opts.StatsCallback = func(s telemetry.WindowStats) {
		windows = append(windows, s)
	}
	g := newTestGame(t, opts)

	for i := 0; i < 5; i++ {
		g.Step()
	}
	if err := g.Reset(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 8; i++ {
		g.Step()
	}
	if len(windows) != 1 {
		t.Fatalf("got %d windows, want 1", len(windows))
	}
	if w := windows[0]; w.WindowStartTick != 0 || w.WindowEndTick != 8 {
		t.Errorf("window = [%d, %d], want [0, 8]", w.WindowStartTick, w.WindowEndTick)
	}
	if w := windows[0]; w.Moves+w.Blocked > 8*5 {
		t.Errorf("window counted %d attempts, want at most %d", w.Moves+w.Blocked, 8*5)
	}
}
