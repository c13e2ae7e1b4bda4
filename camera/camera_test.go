package camera

import (
	"math"
	"testing"
)

func TestNewExactFit(t *testing.T) {
	cam := New(0, 0, 550, 300, 550, 300)

	if cam.Zoom != 1.0 {
		t.Errorf("Zoom = %f, want 1.0", cam.Zoom)
	}
	sx, sy := cam.WorldToScreen(0, 0)
	if sx != 0 || sy != 0 {
		t.Errorf("WorldToScreen(0, 0) = (%f, %f), want (0, 0)", sx, sy)
	}
	sx, sy = cam.WorldToScreen(550, 300)
	if sx != 550 || sy != 300 {
		t.Errorf("WorldToScreen(550, 300) = (%f, %f), want (550, 300)", sx, sy)
	}
}

func TestLetterbox(t *testing.T) {
	// Viewport twice as wide as needed: arena is centered horizontally
	cam := New(0, 40, 1000, 300, 250, 150)

	if cam.Zoom != 2 {
		t.Fatalf("Zoom = %f, want 2", cam.Zoom)
	}
	x, y, w, h := cam.ArenaRect()
	if x != 250 || y != 40 || w != 500 || h != 300 {
		t.Errorf("ArenaRect() = (%f, %f, %f, %f), want (250, 40, 500, 300)", x, y, w, h)
	}
	if got := cam.Scale(10); got != 20 {
		t.Errorf("Scale(10) = %f, want 20", got)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(10, 20, 800, 600, 550, 300)

	testCases := []struct{ wx, wy float64 }{
		{0, 0},
		{275, 150},
		{549, 1},
	}

	for _, tc := range testCases {
		sx, sy := cam.WorldToScreen(tc.wx, tc.wy)
		wx, wy := cam.ScreenToWorld(sx, sy)
		if math.Abs(wx-tc.wx) > 0.01 || math.Abs(wy-tc.wy) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.wx, tc.wy, sx, sy, wx, wy)
		}
	}
}

func TestContains(t *testing.T) {
	cam := New(0, 0, 550, 340, 550, 300)

	tests := []struct {
		sx, sy float32
		want   bool
	}{
		{275, 170, true},
		{-1, 170, false},
		{275, 5, false}, // letterbox bar above the arena
		{549, 300, true},
	}
	for _, tt := range tests {
		if got := cam.Contains(tt.sx, tt.sy); got != tt.want {
			t.Errorf("Contains(%v, %v) = %v, want %v", tt.sx, tt.sy, got, tt.want)
		}
	}
}

func TestResize(t *testing.T) {
	cam := New(0, 0, 550, 300, 550, 300)
	cam.Resize(1100, 600)

	if cam.Zoom != 2 {
		t.Errorf("Zoom after resize = %f, want 2", cam.Zoom)
	}
	if cam.ViewportW != 1100 || cam.ViewportH != 600 {
		t.Errorf("viewport = %fx%f, want 1100x600", cam.ViewportW, cam.ViewportH)
	}
}
