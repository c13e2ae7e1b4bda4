package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lovehate/game"
	"github.com/pthm-cable/lovehate/systems"
	"github.com/pthm-cable/lovehate/telemetry"
)

// HUDData holds all the data needed to render the status strip.
type HUDData struct {
	Tick     int32
	Agents   int
	FPS      int32
	TPS      float64
	Paused   bool
	Halted   bool
	Stepping bool
	Policy   string
}

// Status returns the run state label shown in the strip.
func (d HUDData) Status() string {
	switch {
	case d.Halted:
		return "HALTED"
	case d.Stepping:
		return "STEP"
	case d.Paused:
		return "PAUSED"
	default:
		return "Running"
	}
}

// HUD renders the status strip below the arena.
type HUD struct {
	renderer *Renderer
	x, y     int32
	width    int32
	height   int32
}

// NewHUD creates a HUD occupying the given strip.
func NewHUD(x, y, width, height int32) *HUD {
	return &HUD{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		height:   height,
	}
}

// Draw renders the HUD. Buttons are drawn separately by Controls.
func (h *HUD) Draw(data HUDData) {
	theme := h.renderer.Theme
	h.renderer.DrawPanel(h.x, h.y, h.width, h.height)

	textY := h.y + (h.height-theme.FontSize)/2
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Agents: %d | FPS: %d | TPS: %.0f | %s", data.Tick, data.Agents, data.FPS, data.TPS, data.Policy),
		h.x+theme.Padding, textY, theme.FontSize, theme.LabelColor,
	)

	status := data.Status()
	color := theme.StatusRunning
	if status != "Running" {
		color = theme.StatusStopped
	}
	statusW := rl.MeasureText(status, theme.HeaderFontSize)
	rl.DrawText(status, h.x+h.width-statusW-theme.Padding, h.y+(h.height-theme.HeaderFontSize)/2, theme.HeaderFontSize, color)
}

// DrawControls renders the key legend in the top-left corner of the arena.
func (h *HUD) DrawControls(x, y int32, controls string) {
	rl.DrawText(controls, x, y, h.renderer.Theme.FontSize, rl.Gray)
}

// PerfPanel renders the per-phase performance breakdown.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Draw renders the performance panel with phases in registry order.
func (p *PerfPanel) Draw(stats telemetry.PerfStats, registry *systems.SystemRegistry) {
	r := p.renderer
	ids := registry.IDs()
	height := r.Theme.Padding*2 + r.Theme.LineHeight*int32(len(ids)+2)
	r.DrawPanel(p.x, p.y, p.width, height)

	x := p.x + r.Theme.Padding
	y := r.DrawSectionHeader(x, p.y+r.Theme.Padding, "Performance")
	rl.DrawText(fmt.Sprintf("Tick: %s", stats.AvgTickDuration.Round(time.Microsecond)), x, y, r.Theme.FontSize, rl.Yellow)
	y += r.Theme.LineHeight

	for _, id := range ids {
		avg := stats.PhaseAvg[id]
		pct := stats.PhasePct[id]

		color := r.Theme.LabelColor
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %6s %5.1f%%", registry.GetName(id), avg.Round(time.Microsecond), pct),
			x, y, r.Theme.FontSize, color,
		)
		y += r.Theme.LineHeight
	}
}

// AgentPanel shows the state of the selected agent.
type AgentPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewAgentPanel creates a new agent panel.
func NewAgentPanel(x, y, width int32) *AgentPanel {
	return &AgentPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Draw renders one agent's position, heading and relationships.
func (a *AgentPanel) Draw(v game.AgentView, color rl.Color) {
	r := a.renderer
	r.DrawPanel(a.x, a.y, a.width, r.Theme.Padding*2+r.Theme.LineHeight*7)

	x := a.x + r.Theme.Padding
	y := r.DrawSectionHeader(x, a.y+r.Theme.Padding, fmt.Sprintf("Agent %d", v.ID))
	y = r.DrawColorSwatch(x, y, "Color", color)
	y = r.DrawLabelValue(x, y, "Pos", fmt.Sprintf("%.1f, %.1f", v.Pos.X, v.Pos.Y))
	y = r.DrawLabelValue(x, y, "Speed", fmt.Sprintf("%.2f", v.Speed))
	y = r.DrawLabelValue(x, y, "Heading", fmt.Sprintf("%.2f rad", v.Angle))
	if v.HasTargets {
		y = r.DrawLabelValue(x, y, "Loves", fmt.Sprintf("#%d", v.Love.ID))
		r.DrawLabelValue(x, y, "Hates", fmt.Sprintf("#%d", v.Hate.ID))
	}
}
