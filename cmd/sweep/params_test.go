package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/pthm-cable/lovehate/config"
	"github.com/pthm-cable/lovehate/game"
)

func TestParseParam(t *testing.T) {
	tests := []struct {
		in      string
		want    []float64
		wantErr bool
	}{
		{"count=3,5,8", []float64{3, 5, 8}, false},
		{"radius= 4.5 ,10", []float64{4.5, 10}, false},
		{"speed", nil, true},
		{"mass=1,2", nil, true},
		{"count=3,x", nil, true},
	}
	for _, tt := range tests {
		spec, err := ParseParam(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseParam(%q) = %+v, want error", tt.in, spec)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseParam(%q) error = %v", tt.in, err)
		}
		if len(spec.Values) != len(tt.want) {
			t.Fatalf("ParseParam(%q) values = %v, want %v", tt.in, spec.Values, tt.want)
		}
		for i := range tt.want {
			if spec.Values[i] != tt.want[i] {
				t.Errorf("ParseParam(%q) values = %v, want %v", tt.in, spec.Values, tt.want)
			}
		}
	}
}

func TestParamGridPoints(t *testing.T) {
	grid := &ParamGrid{Specs: []ParamSpec{
		{Name: "count", Values: []float64{3, 4}},
		{Name: "radius", Values: []float64{5, 10, 15}},
	}}
	points := grid.Points()
	if len(points) != 6 {
		t.Fatalf("Points() returned %d points, want 6", len(points))
	}
	if p := points[1]; p[0] != 3 || p[1] != 10 {
		t.Errorf("Points()[1] = %v, want [3 10]", p)
	}
	if p := points[5]; p[0] != 4 || p[1] != 15 {
		t.Errorf("Points()[5] = %v, want [4 15]", p)
	}
	if got := grid.Label(points[0]); got != "count=3 radius=5" {
		t.Errorf("Label() = %q, want %q", got, "count=3 radius=5")
	}

	empty := &ParamGrid{}
	if n := len(empty.Points()); n != 1 {
		t.Errorf("empty grid has %d points, want 1", n)
	}
}

func TestEvaluate(t *testing.T) {
	grid := &ParamGrid{Specs: []ParamSpec{{Name: "count", Values: []float64{4}}}}
	ev := NewEvaluator(grid, config.Defaults(), []int64{1, 2}, 200)

	r, err := ev.Evaluate(context.Background(), grid.Points()[0])
	if err != nil {
		t.Fatal(err)
	}
	if r.Count != 4 || r.Seeds != 2 || r.Failed != 0 {
		t.Errorf("Evaluate() = %+v, want 4 agents over 2 seeds without failures", r)
	}
	if r.Ticks != 200 {
		t.Errorf("Ticks = %v, want 200", r.Ticks)
	}
	if math.IsNaN(r.MinGap) || r.MinGap <= 0 {
		t.Errorf("MinGap = %v, want positive", r.MinGap)
	}
}

func TestEvaluateCountsPlacementFailures(t *testing.T) {
	grid := &ParamGrid{Specs: []ParamSpec{{Name: "radius", Values: []float64{140}}}}
	cfg := config.Defaults()
	cfg.Placement.MaxAttempts = 20
	ev := NewEvaluator(grid, cfg, []int64{1}, 10)

	r, err := ev.Evaluate(context.Background(), grid.Points()[0])
	if err != nil {
		t.Fatal(err)
	}
	if r.Failed != 1 || !math.IsNaN(r.Ticks) {
		t.Errorf("Evaluate() = %+v, want one failed seed", r)
	}
}

func TestAggregateSeparatesErrors(t *testing.T) {
	grid := &ParamGrid{}
	cfg := config.Defaults()
	ev := NewEvaluator(grid, cfg, []int64{1, 2, 3}, 10)

	results := []runResult{
		{seed: 1, err: fmt.Errorf("placing: %w", game.ErrPlacementExhausted)},
		{seed: 2, err: errors.New("disk full")},
		{seed: 3, ticks: 10},
	}
	r := ev.aggregate(cfg, grid.Points()[0], results)
	if r.Failed != 1 || r.Errored != 1 {
		t.Errorf("Failed, Errored = %d, %d, want 1, 1", r.Failed, r.Errored)
	}
	if r.Ticks != 10 {
		t.Errorf("Ticks = %v, want 10", r.Ticks)
	}
}
