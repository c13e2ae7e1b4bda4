package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/lovehate/camera"
)

// Controller is the part of the simulation the controls drive.
type Controller interface {
	TogglePause()
	Paused() bool
	Stepping() bool
	Step()
	StepAgent(i int) error
	Reset() error
	AgentAt(p r2.Vec) (ecs.Entity, bool)
	ToggleAgent(e ecs.Entity)
}

// Command is a user action decoded from input.
type Command int

const (
	CmdNone Command = iota
	CmdTogglePause
	CmdStep
	CmdStepAgent
	CmdReset
	CmdTogglePerf
)

// KeyLegend is the one-line help shown over the arena.
const KeyLegend = "[P/Space] pause  [N] step  [1-9] step agent  [R] reset  [F] perf  [click] pause agent"

// KeyCommand decodes a key press. For CmdStepAgent the second result is
// the zero-based agent index.
func KeyCommand(key int32) (Command, int) {
	switch {
	case key == rl.KeyP || key == rl.KeySpace:
		return CmdTogglePause, 0
	case key == rl.KeyN || key == rl.KeyS:
		return CmdStep, 0
	case key == rl.KeyR:
		return CmdReset, 0
	case key == rl.KeyF:
		return CmdTogglePerf, 0
	case key >= rl.KeyOne && key <= rl.KeyNine:
		return CmdStepAgent, int(key - rl.KeyOne)
	}
	return CmdNone, 0
}

// Controls polls input each frame and applies it to a Controller.
type Controls struct {
	renderer *Renderer
	x, y     float32

	showPerf bool
	selected ecs.Entity
	hasSel   bool
}

// NewControls places the button row with its top-left corner at x, y.
func NewControls(x, y float32) *Controls {
	return &Controls{renderer: NewRenderer(), x: x, y: y}
}

// ShowPerf reports whether the perf panel is toggled on.
func (c *Controls) ShowPerf() bool {
	return c.showPerf
}

// Selected returns the agent last clicked on.
func (c *Controls) Selected() (ecs.Entity, bool) {
	return c.selected, c.hasSel
}

// Update handles keyboard and mouse input, then draws the buttons and
// handles their clicks. Call between BeginDrawing and EndDrawing.
func (c *Controls) Update(ctrl Controller, cam *camera.Camera) error {
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		cmd, idx := KeyCommand(key)
		if err := c.apply(ctrl, cmd, idx); err != nil {
			return err
		}
	}

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		m := rl.GetMousePosition()
		if cam.Contains(m.X, m.Y) {
			wx, wy := cam.ScreenToWorld(m.X, m.Y)
			if e, ok := ctrl.AgentAt(r2.Vec{X: wx, Y: wy}); ok {
				ctrl.ToggleAgent(e)
				c.selected, c.hasSel = e, true
			} else {
				c.hasSel = false
			}
		}
	}

	return c.drawButtons(ctrl)
}

func (c *Controls) drawButtons(ctrl Controller) error {
	theme := c.renderer.Theme
	w, h := theme.ButtonWidth, theme.ButtonHeight
	gap := float32(theme.Padding)

	label := "Pause"
	if ctrl.Paused() {
		label = "Run"
	}
	if !ctrl.Stepping() {
		if gui.Button(rl.Rectangle{X: c.x, Y: c.y, Width: w, Height: h}, label) {
			ctrl.TogglePause()
		}
	}
	if gui.Button(rl.Rectangle{X: c.x + w + gap, Y: c.y, Width: w, Height: h}, "Step") {
		ctrl.Step()
	}
	if gui.Button(rl.Rectangle{X: c.x + 2*(w+gap), Y: c.y, Width: w, Height: h}, "Reset") {
		return c.apply(ctrl, CmdReset, 0)
	}
	return nil
}

func (c *Controls) apply(ctrl Controller, cmd Command, idx int) error {
	switch cmd {
	case CmdTogglePause:
		ctrl.TogglePause()
	case CmdStep:
		ctrl.Step()
	case CmdStepAgent:
		// Indexes past the population are ignored
		_ = ctrl.StepAgent(idx)
	case CmdReset:
		c.hasSel = false
		return ctrl.Reset()
	case CmdTogglePerf:
		c.showPerf = !c.showPerf
	}
	return nil
}
