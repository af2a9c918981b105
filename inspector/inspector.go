// Package inspector renders a reflection-driven panel for the selected agent.
package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/MauroVanHoutte/FlowField/components"
)

const (
	PanelWidth   = 300
	PanelPadding = 10
	HeaderHeight = 30
	PanelTop     = 190 // below the HUD

	sectionHeight = 20
	titleHeight   = 30 // agent title plus rule
	cellRows      = 4
)

var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorSection     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorSectionText = rl.Color{R: 200, G: 200, B: 220, A: 255}
)

// AgentFilter is the query the inspector picks agents from.
type AgentFilter = ecs.Filter5[
	components.Position,
	components.Velocity,
	components.Heading,
	components.Body,
	components.Agent,
]

// Projector maps world coordinates to the screen.
type Projector interface {
	WorldToScreen(wx, wy float32) (sx, sy float32)
	WorldLength(l float32) float32
}

// Section is one titled component block of the panel.
type Section struct {
	Title     string
	Component any
}

// CellInfo describes the grid cell under the selected agent.
type CellInfo struct {
	Node      int
	Terrain   string
	Cost      float32
	Reachable bool
	FlowX     float32
	FlowY     float32
}

// Inspector tracks the selected agent and draws its panel along the right
// edge of the screen.
type Inspector struct {
	selected    ecs.Entity
	hasSelected bool
	panelX      int32
}

func NewInspector(screenWidth, screenHeight int32) *Inspector {
	ins := &Inspector{}
	ins.Resize(screenWidth, screenHeight)
	return ins
}

// Resize re-anchors the panel to the right edge.
func (ins *Inspector) Resize(screenWidth, _ int32) {
	ins.panelX = screenWidth - PanelWidth - 10
}

func (ins *Inspector) closeButton() rl.Rectangle {
	return rl.Rectangle{X: float32(ins.panelX + PanelWidth - 25), Y: PanelTop + 5, Width: 20, Height: 20}
}

// Contains reports whether the screen point lies over the open panel.
func (ins *Inspector) Contains(mouseX, mouseY float32) bool {
	return ins.hasSelected &&
		mouseX >= float32(ins.panelX) && mouseX <= float32(ins.panelX+PanelWidth) &&
		mouseY >= PanelTop
}

// HandleClick handles a left click and reports whether it was consumed.
// A click on the close button deselects, a click elsewhere on the panel is
// swallowed, and a click in the world selects the nearest agent whose radius
// plus tolerance covers the point.
func (ins *Inspector) HandleClick(mouseX, mouseY, worldX, worldY, tolerance float32, filter *AgentFilter) bool {
	mouse := rl.Vector2{X: mouseX, Y: mouseY}
	if ins.hasSelected && rl.CheckCollisionPointRec(mouse, ins.closeButton()) {
		ins.Deselect()
		return true
	}
	if ins.Contains(mouseX, mouseY) {
		return true
	}

	e, ok := pick(filter, worldX, worldY, tolerance)
	if ok {
		ins.selected, ins.hasSelected = e, true
	}
	return ok
}

func pick(filter *AgentFilter, wx, wy, tolerance float32) (ecs.Entity, bool) {
	var (
		best     ecs.Entity
		bestDist float32
		found    bool
	)
	query := filter.Query()
	for query.Next() {
		pos, _, _, body, _ := query.Get()
		dx, dy := wx-pos.X, wy-pos.Y
		d := dx*dx + dy*dy
		r := body.Radius + tolerance
		if d >= r*r || (found && d >= bestDist) {
			continue
		}
		best, bestDist, found = query.Entity(), d, true
	}
	return best, found
}

func (ins *Inspector) Deselect() {
	ins.hasSelected = false
}

func (ins *Inspector) Selected() (ecs.Entity, bool) {
	return ins.selected, ins.hasSelected
}

// Draw renders the panel: a title, one block per section and the cell block.
func (ins *Inspector) Draw(title string, sections []Section, cell CellInfo) {
	if !ins.hasSelected {
		return
	}

	fieldSets := make([][]Field, len(sections))
	height := int32(HeaderHeight + PanelPadding + titleHeight)
	for i, s := range sections {
		fieldSets[i] = Fields(s.Component)
		height += sectionHeight + 4
		for _, f := range fieldSets[i] {
			height += fieldHeight(f)
		}
	}
	height += sectionHeight + cellRows*labelHeight + vecHeight + PanelPadding

	panel := rl.Rectangle{X: float32(ins.panelX), Y: PanelTop, Width: PanelWidth, Height: float32(height)}
	rl.DrawRectangleRec(panel, ColorPanelBg)
	rl.DrawRectangleLinesEx(panel, 1, ColorPanelBorder)
	rl.DrawRectangle(ins.panelX, PanelTop, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText("INSPECTOR", ins.panelX+PanelPadding, PanelTop+7, 16, rl.White)

	btn := ins.closeButton()
	rl.DrawRectangleRec(btn, ColorCloseBtn)
	rl.DrawText("X", int32(btn.X)+6, int32(btn.Y)+3, 14, rl.White)

	x := ins.panelX + PanelPadding
	y := int32(PanelTop + HeaderHeight + PanelPadding)
	rl.DrawText(title, x, y, 14, rl.White)
	y += 22
	rl.DrawLine(x, y, ins.panelX+PanelWidth-PanelPadding, y, ColorPanelBorder)
	y += 8

	for i, s := range sections {
		y += sectionHeader(x, y, s.Title)
		for _, f := range fieldSets[i] {
			y += DrawField(x, y, f)
		}
		y += 4
	}

	cost := "unreachable"
	if cell.Reachable {
		cost = fmt.Sprintf("%.2f", cell.Cost)
	}
	y += sectionHeader(x, y, "CELL")
	y += DrawLabel(x, y, "Node", cell.Node, nil)
	y += DrawLabel(x, y, "Terrain", cell.Terrain, nil)
	y += DrawLabel(x, y, "Cost", cost, nil)
	y += DrawBool(x, y, "Reachable", cell.Reachable)
	DrawVec(x, y, "Flow", cell.FlowX, cell.FlowY)
}

func sectionHeader(x, y int32, title string) int32 {
	rl.DrawRectangle(x-2, y-2, PanelWidth-2*PanelPadding+4, 18, ColorSection)
	rl.DrawText(title, x+2, y, 14, ColorSectionText)
	return sectionHeight
}

// DrawSelectionHighlight rings the selected agent and draws its heading.
func (ins *Inspector) DrawSelectionHighlight(pos components.Position, heading components.Heading, body components.Body, proj Projector) {
	if !ins.hasSelected {
		return
	}

	sx, sy := proj.WorldToScreen(pos.X, pos.Y)
	radius := max(proj.WorldLength(body.Radius*1.8), 6)
	rl.DrawCircleLines(int32(sx), int32(sy), radius, rl.Yellow)
	tip := rl.Vector2{X: sx + heading.X*radius*2, Y: sy + heading.Y*radius*2}
	rl.DrawLineV(rl.Vector2{X: sx, Y: sy}, tip, rl.Yellow)
}
