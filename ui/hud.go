package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/MauroVanHoutte/FlowField/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title       string
	Agents      int
	Arrived     int
	Stuck       int
	Reachable   int
	Nodes       int
	Destination string
	Solves      int
	Rebuilds    int
	Tick        int32
	Speed       int
	FPS         int32
	Paused      bool
	Brush       string
}

// HUD renders the main heads-up display.
type HUD struct {
	theme Theme
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{theme: DefaultTheme()}
}

// Draw renders the HUD at the top right of the screen.
func (h *HUD) Draw(data HUDData, screenWidth int32) {
	t := &h.theme
	const width = 300
	x := screenWidth - width - 10
	y := int32(10)

	t.Panel(x, y, width, t.Line*9+t.Padding*2+4)
	x += t.Padding
	y += t.Padding

	y = t.Title(x, y, data.Title)
	y = t.Row(x, y, "Agents", fmt.Sprintf("%d (stuck %d)", data.Agents, data.Stuck))

	arrived := float32(0)
	if data.Agents > 0 {
		arrived = float32(data.Arrived) / float32(data.Agents)
	}
	y = t.Meter(x, y, "Arrived", arrived, width-t.Padding*2)

	y = t.Row(x, y, "Reachable", fmt.Sprintf("%d/%d", data.Reachable, data.Nodes))
	y = t.Row(x, y, "Destination", data.Destination)
	y = t.Row(x, y, "Solves", fmt.Sprintf("%d (rebuilds %d)", data.Solves, data.Rebuilds))
	y = t.Row(x, y, "Tick", fmt.Sprintf("%d @ %dx, %d fps", data.Tick, data.Speed, data.FPS))
	y = t.Row(x, y, "Brush", data.Brush)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, x, y, t.TitleFont, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders per-phase tick timings.
type PerfPanel struct {
	theme Theme
	x, y  int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		theme: DefaultTheme(),
		x:     x,
		y:     y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	p.theme.Panel(x-6, y-6, 270, int32(len(telemetry.AllPhases))*14+52)

	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s | %.0f ticks/s", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond), x, y, 14, rl.Yellow)
	y += 16

	for _, phase := range telemetry.AllPhases {
		avg := stats.PhaseAvg[phase]
		pct := stats.PhasePct[phase]

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-12s %8s %5.1f%%", phase, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
