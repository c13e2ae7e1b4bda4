package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lovehate/camera"
)

// BackgroundRenderer paints the arena floor and its walls.
type BackgroundRenderer struct {
	floor  rl.Color
	wall   rl.Color
	border float32
}

// NewBackgroundRenderer creates a background with the given floor color.
func NewBackgroundRenderer(floorR, floorG, floorB uint8) *BackgroundRenderer {
	return &BackgroundRenderer{
		floor:  rl.Color{R: floorR, G: floorG, B: floorB, A: 255},
		wall:   rl.Color{R: 60, G: 60, B: 60, A: 255},
		border: 1,
	}
}

// Draw fills the arena rectangle and outlines the walls. Letterbox bars
// keep whatever the frame was cleared to.
func (b *BackgroundRenderer) Draw(cam *camera.Camera) {
	x, y, w, h := cam.ArenaRect()
	rect := rl.Rectangle{X: x, Y: y, Width: w, Height: h}
	rl.DrawRectangleRec(rect, b.floor)
	rl.DrawRectangleLinesEx(rect, b.border, b.wall)
}
