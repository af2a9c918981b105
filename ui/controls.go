package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/MauroVanHoutte/FlowField/systems"
)

// ControlsState is the editable navigation state shown in the panel.
type ControlsState struct {
	Brush             systems.TerrainKind
	TrafficEnabled    bool
	TrafficMultiplier float32
	OpenList          systems.OpenListKind
	TeleporterEnabled bool
}

// ControlActions reports what the user changed during one Draw.
type ControlActions struct {
	BrushChanged        bool
	TrafficChanged      bool
	OpenListChanged     bool
	TeleporterToggled   bool
	RandomizeTeleporter bool
	RegenerateTerrain   bool
	ResetAgents         bool
}

// Any reports whether the user interacted with the panel.
func (a ControlActions) Any() bool {
	return a.BrushChanged || a.TrafficChanged || a.OpenListChanged ||
		a.TeleporterToggled || a.RandomizeTeleporter || a.RegenerateTerrain || a.ResetAgents
}

const maxTrafficMultiplier = 5

// ControlsPanel renders the left-side panel with navigation controls and
// overlay toggles.
type ControlsPanel struct {
	theme   Theme
	x, y    int32
	width   int32
	height  int32
	visible bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		theme:   DefaultTheme(),
		x:       x,
		y:       y,
		width:   width,
		visible: true,
	}
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Contains reports whether a screen point falls on the panel as last drawn.
func (c *ControlsPanel) Contains(mouseX, mouseY int32) bool {
	if !c.visible {
		return false
	}
	return mouseX >= c.x && mouseX < c.x+c.width && mouseY >= c.y && mouseY < c.y+c.height
}

// Draw renders the panel, applies widget input to state, and returns the
// actions taken this frame.
func (c *ControlsPanel) Draw(state *ControlsState, overlays *OverlayRegistry) ControlActions {
	var actions ControlActions
	if !c.visible {
		return actions
	}

	t := &c.theme
	padding := t.Padding
	lineHeight := t.Line

	categories := overlays.Categories()
	overlayLines := int32(0)
	for _, cat := range categories {
		overlayLines += int32(len(overlays.ByCategory(cat))) + 1
	}
	c.height = padding*2 + 250 + overlayLines*lineHeight + int32(len(categories))*4
	t.Panel(c.x, c.y, c.width, c.height)

	x := float32(c.x + padding)
	y := float32(c.y + padding)
	inner := float32(c.width - padding*2)

	rl.DrawText("Navigation", int32(x), int32(y), 16, rl.White)
	y += float32(lineHeight) + 4

	// Brush selector: one button per terrain kind, the active one labelled.
	rl.DrawText("Brush", int32(x), int32(y), t.Font, t.Dim)
	y += float32(lineHeight)
	bw := (inner - 8) / float32(systems.NumTerrainKinds)
	for k := systems.TerrainKind(0); k < systems.NumTerrainKinds; k++ {
		label := k.String()
		if k == state.Brush {
			label = "[" + label + "]"
		}
		rect := rl.Rectangle{X: x + float32(k)*(bw+4), Y: y, Width: bw, Height: 22}
		if gui.Button(rect, label) && k != state.Brush {
			state.Brush = k
			actions.BrushChanged = true
		}
	}
	y += 30

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: inner, Height: 22},
		toggleText(state.TrafficEnabled, "Traffic: ON", "Traffic: OFF")) {
		state.TrafficEnabled = !state.TrafficEnabled
		actions.TrafficChanged = true
	}
	y += 28

	rl.DrawText(fmt.Sprintf("Traffic multiplier %.2f", state.TrafficMultiplier), int32(x), int32(y), t.Font, t.Dim)
	y += float32(lineHeight)
	mul := gui.SliderBar(rl.Rectangle{X: x + 20, Y: y, Width: inner - 50, Height: 16}, "0", fmt.Sprint(maxTrafficMultiplier),
		state.TrafficMultiplier, 0, maxTrafficMultiplier)
	if mul != state.TrafficMultiplier {
		state.TrafficMultiplier = mul
		actions.TrafficChanged = true
	}
	y += 24

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: inner, Height: 22}, "Open list: "+state.OpenList.String()) {
		if state.OpenList == systems.OpenListHeap {
			state.OpenList = systems.OpenListLinear
		} else {
			state.OpenList = systems.OpenListHeap
		}
		actions.OpenListChanged = true
	}
	y += 28

	half := (inner - 4) / 2
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 22},
		toggleText(state.TeleporterEnabled, "Portal: ON", "Portal: OFF")) {
		state.TeleporterEnabled = !state.TeleporterEnabled
		actions.TeleporterToggled = true
	}
	if gui.Button(rl.Rectangle{X: x + half + 4, Y: y, Width: half, Height: 22}, "Move portal") {
		actions.RandomizeTeleporter = true
	}
	y += 28

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 22}, "New terrain") {
		actions.RegenerateTerrain = true
	}
	if gui.Button(rl.Rectangle{X: x + half + 4, Y: y, Width: half, Height: 22}, "Reset agents") {
		actions.ResetAgents = true
	}
	y += 34

	rl.DrawText("Overlays", int32(x), int32(y), 16, rl.White)
	yi := int32(y) + lineHeight + 4
	for _, category := range categories {
		rl.DrawText(categoryLabel(category), int32(x), yi, t.TitleFont, t.Accent)
		yi += lineHeight
		for _, desc := range overlays.ByCategory(category) {
			c.drawToggle(int32(x), yi, desc, overlays.IsEnabled(desc.ID), int32(inner))
			yi += lineHeight
		}
		yi += 4
	}

	return actions
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc Overlay, enabled bool, width int32) {
	t := &c.theme

	statusColor := t.Track
	if enabled {
		statusColor = t.Fill
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)

	nameColor := t.Dim
	if enabled {
		nameColor = rl.White
	}
	rl.DrawText(desc.Name, x+14, y, t.Font, nameColor)

	if label := desc.KeyLabel(); label != "" {
		keyText := fmt.Sprintf("[%s]", label)
		keyWidth := rl.MeasureText(keyText, t.Font)
		rl.DrawText(keyText, x+width-keyWidth, y, t.Font, t.Dim)
	}
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "grid":
		return "Grid"
	case "fields":
		return "Fields"
	case "agents":
		return "Agents"
	default:
		return cat
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
