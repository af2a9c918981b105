package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/MauroVanHoutte/FlowField/inspector"
	"github.com/MauroVanHoutte/FlowField/systems"
	"github.com/MauroVanHoutte/FlowField/ui"
)

var (
	colorBackground  = rl.Color{R: 18, G: 20, B: 24, A: 255}
	colorGridLine    = rl.Color{R: 60, G: 64, B: 70, A: 120}
	colorUnreachable = rl.Color{R: 40, G: 20, B: 30, A: 255}
	colorFlow        = rl.Color{R: 230, G: 230, B: 240, A: 200}
	colorDestination = rl.Color{R: 250, G: 210, B: 60, A: 255}
	colorAgent       = rl.Color{R: 120, G: 200, B: 255, A: 255}
	colorAgentSlow   = rl.Color{R: 240, G: 160, B: 70, A: 255}
	colorAgentDone   = rl.Color{R: 110, G: 220, B: 120, A: 255}

	terrainColors = [systems.NumTerrainKinds]rl.Color{
		{R: 46, G: 58, B: 44, A: 255},  // open
		{R: 110, G: 82, B: 46, A: 255}, // slow
		{R: 36, G: 72, B: 140, A: 255}, // blocked
	}
)

// Draw renders the game.
func (g *Game) Draw() {
	g.perfCollector.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(colorBackground)

	g.nav.View(func(v systems.NavView) {
		g.drawCells(v)
		if g.overlays.IsEnabled(ui.OverlayFlow) {
			g.drawFlow(v)
		}
		if g.overlays.IsEnabled(ui.OverlayTeleporter) && v.Teleporter != nil {
			g.drawTeleporter(v)
		}
		g.drawDestination(v)
	})

	g.drawAgents()
	g.drawSelection()

	actions := g.controls.Draw(&g.controlsState, g.overlays)
	g.applyControlActions(actions)

	g.hud.Draw(g.hudData(), int32(g.screenWidth))
	if g.showPerf {
		g.perfPanel.Draw(g.perfCollector.Stats())
	}
	g.drawInspector()
	g.hud.DrawControls(int32(g.screenHeight), controlsLegend)

	rl.EndDrawing()
}

// visibleRange returns the inclusive cell range covered by the viewport.
func (g *Game) visibleRange() (c0, r0, c1, r1 int) {
	minX, minY, maxX, maxY := g.camera.VisibleWorldBounds()
	cell := g.graph.CellSize()
	c0 = clampInt(int(minX/cell), 0, g.graph.Columns()-1)
	r0 = clampInt(int(minY/cell), 0, g.graph.Rows()-1)
	c1 = clampInt(int(maxX/cell), 0, g.graph.Columns()-1)
	r1 = clampInt(int(maxY/cell), 0, g.graph.Rows()-1)
	return c0, r0, c1, r1
}

// drawCells fills cells by terrain or cost, then layers traffic, grid lines
// and cost labels on top.
func (g *Game) drawCells(v systems.NavView) {
	showTerrain := g.overlays.IsEnabled(ui.OverlayTerrain)
	showCosts := g.overlays.IsEnabled(ui.OverlayCosts)
	showTraffic := g.overlays.IsEnabled(ui.OverlayTraffic)
	showGrid := g.overlays.IsEnabled(ui.OverlayGridLines)
	showLabels := g.overlays.IsEnabled(ui.OverlayCostLabels)

	maxCost := float32(0)
	if showCosts || showLabels {
		for _, c := range v.Costs {
			if c < systems.CostInfinity && c > maxCost {
				maxCost = c
			}
		}
	}
	maxTraffic := float32(0)
	if showTraffic {
		for _, t := range v.Traffic {
			if t > maxTraffic {
				maxTraffic = t
			}
		}
	}

	cellPx := g.camera.WorldLength(v.Graph.CellSize())
	labels := showLabels && cellPx >= 22
	c0, r0, c1, r1 := g.visibleRange()

	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			idx := v.Graph.Index(col, row)
			sx, sy := g.camera.WorldToScreen(float32(col)*v.Graph.CellSize(), float32(row)*v.Graph.CellSize())
			rect := rl.Rectangle{X: sx, Y: sy, Width: cellPx + 1, Height: cellPx + 1}
			terrain := v.Graph.Terrain(idx)

			switch {
			case showCosts && terrain.Passable():
				rl.DrawRectangleRec(rect, costColor(v.Costs[idx], maxCost))
			case showTerrain || showCosts:
				rl.DrawRectangleRec(rect, terrainColors[terrain])
			}

			if showTraffic && maxTraffic > 0 && v.Traffic[idx] > 0 {
				a := uint8(200 * v.Traffic[idx] / maxTraffic)
				rl.DrawRectangleRec(rect, rl.Color{R: 230, G: 40, B: 40, A: a})
			}
			if showGrid {
				rl.DrawRectangleLinesEx(rect, 1, colorGridLine)
			}
			if labels && v.Costs.Reachable(idx) {
				rl.DrawText(fmt.Sprintf("%.0f", v.Costs[idx]), int32(sx)+3, int32(sy)+3, 10, rl.White)
			}
		}
	}
}

// costColor shades reachable cells from green (near) to red (far).
func costColor(cost, maxCost float32) rl.Color {
	if cost >= systems.CostInfinity {
		return colorUnreachable
	}
	t := float32(0)
	if maxCost > 0 {
		t = cost / maxCost
	}
	return rl.Color{
		R: uint8(40 + 200*t),
		G: uint8(200 - 160*t),
		B: 60,
		A: 255,
	}
}

// drawFlow draws one arrow per visible cell along its flow vector.
func (g *Game) drawFlow(v systems.NavView) {
	cell := v.Graph.CellSize()
	c0, r0, c1, r1 := g.visibleRange()
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			idx := v.Graph.Index(col, row)
			f := v.Flow[idx]
			if f.IsZero() {
				continue
			}
			center := v.Graph.CellCenter(col, row)
			tip := center.Add(f.Normalized().Scale(cell * 0.4))

			sx, sy := g.camera.WorldToScreen(center.X, center.Y)
			tx, ty := g.camera.WorldToScreen(tip.X, tip.Y)
			rl.DrawLineV(rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: tx, Y: ty}, colorFlow)
			rl.DrawCircleV(rl.Vector2{X: tx, Y: ty}, 1.5, colorFlow)
		}
	}
}

// drawTeleporter rings both endpoints; the entry (far) side is drawn hollow.
func (g *Game) drawTeleporter(v systems.NavView) {
	p := v.Teleporter
	if !p.Valid(v.Graph) {
		return
	}
	radius := g.camera.WorldLength(v.Graph.CellSize() * 0.45)
	a := v.Graph.NodeToWorldCenter(p.First)
	b := v.Graph.NodeToWorldCenter(p.Second)
	ax, ay := g.camera.WorldToScreen(a.X, a.Y)
	bx, by := g.camera.WorldToScreen(b.X, b.Y)

	rl.DrawLineEx(rl.Vector2{X: ax, Y: ay}, rl.Vector2{X: bx, Y: by}, 1, rl.Color{R: 190, G: 90, B: 255, A: 90})
	for _, n := range [2]int{p.First, p.Second} {
		c := v.Graph.NodeToWorldCenter(n)
		sx, sy := g.camera.WorldToScreen(c.X, c.Y)
		if n == p.Near() {
			rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, radius, rl.Color{R: 190, G: 90, B: 255, A: 200})
		} else {
			rl.DrawCircleLines(int32(sx), int32(sy), radius, rl.Color{R: 190, G: 90, B: 255, A: 255})
		}
	}
}

func (g *Game) drawDestination(v systems.NavView) {
	if !v.Graph.IsValidIndex(v.Destination) {
		return
	}
	c := v.Graph.NodeToWorldCenter(v.Destination)
	sx, sy := g.camera.WorldToScreen(c.X, c.Y)
	half := g.camera.WorldLength(v.Graph.CellSize() / 2)
	rl.DrawRectangleLinesEx(rl.Rectangle{X: sx - half, Y: sy - half, Width: 2 * half, Height: 2 * half}, 2, colorDestination)
	rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, half*0.3, colorDestination)
}

// drawAgents renders all agents as oriented triangles.
func (g *Game) drawAgents() {
	query := g.agentFilter.Query()
	for query.Next() {
		pos, _, heading, body, agent := query.Get()
		if !g.camera.IsVisible(pos.X, pos.Y, body.Radius*2) {
			continue
		}

		color := colorAgent
		switch {
		case agent.Arrived:
			color = colorAgentDone
		case agent.Slowed:
			color = colorAgentSlow
		}

		sx, sy := g.camera.WorldToScreen(pos.X, pos.Y)
		radius := g.camera.WorldLength(body.Radius)
		if radius < 2 {
			radius = 2
		}
		drawOrientedTriangle(sx, sy, heading.X, heading.Y, radius, color)
	}
}

// drawSelection highlights the inspected agent and, when enabled, its
// avoidance radius and the obstacle it would flee from.
func (g *Game) drawSelection() {
	e, ok := g.inspector.Selected()
	if !ok {
		return
	}
	if !g.world.Alive(e) {
		g.inspector.Deselect()
		return
	}
	pos := g.posMap.Get(e)
	heading := g.headMap.Get(e)
	body := g.bodyMap.Get(e)
	g.inspector.DrawSelectionHighlight(*pos, *heading, *body, g.camera)

	if !g.overlays.IsEnabled(ui.OverlayObstacles) {
		return
	}
	radius := float32(g.cfg.Steering.FleeRadius)
	sx, sy := g.camera.WorldToScreen(pos.X, pos.Y)
	rl.DrawCircleLines(int32(sx), int32(sy), g.camera.WorldLength(radius), rl.Orange)
	if c, found := g.obstacles.Within(systems.Vec2{X: pos.X, Y: pos.Y}, radius); found {
		cx, cy := g.camera.WorldToScreen(c.X, c.Y)
		rl.DrawLineV(rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: cx, Y: cy}, rl.Orange)
	}
}

// drawInspector renders the panel for the selected agent.
func (g *Game) drawInspector() {
	e, ok := g.inspector.Selected()
	if !ok || !g.world.Alive(e) {
		return
	}
	pos := g.posMap.Get(e)
	agent := g.agentMap.Get(e)
	sections := []inspector.Section{
		{Title: "POSITION", Component: pos},
		{Title: "VELOCITY", Component: g.velMap.Get(e)},
		{Title: "HEADING", Component: g.headMap.Get(e)},
		{Title: "BODY", Component: g.bodyMap.Get(e)},
		{Title: "AGENT", Component: agent},
	}

	node := int(agent.Node)
	cell := inspector.CellInfo{
		Node:    node,
		Terrain: g.graph.Terrain(node).String(),
		Cost:    g.nav.CostAt(node),
	}
	cell.Reachable = cell.Cost < systems.CostInfinity
	flow := g.nav.FlowAtNode(node)
	cell.FlowX, cell.FlowY = flow.X, flow.Y

	g.inspector.Draw(fmt.Sprintf("Agent #%d", agent.ID), sections, cell)
}

func (g *Game) hudData() ui.HUDData {
	dest := "none"
	if d := g.nav.Destination(); d != systems.InvalidNode {
		col, row := g.graph.Coord(d)
		dest = fmt.Sprintf("%d (%d,%d)", d, col, row)
	}
	stuck, reachable := 0, 0
	g.nav.View(func(v systems.NavView) {
		reachable = v.Costs.ReachableCount()
		query := g.agentFilter.Query()
		for query.Next() {
			_, _, _, _, agent := query.Get()
			if !v.Costs.Reachable(int(agent.Node)) {
				stuck++
			}
		}
	})

	return ui.HUDData{
		Title:       "Flow Field",
		Agents:      g.agentCount,
		Arrived:     g.arrivedCount,
		Stuck:       stuck,
		Reachable:   reachable,
		Nodes:       g.graph.NodeCount(),
		Destination: dest,
		Solves:      g.nav.Solves(),
		Rebuilds:    g.nav.Rebuilds(),
		Tick:        g.tick,
		Speed:       g.stepsPerUpdate,
		FPS:         rl.GetFPS(),
		Paused:      g.paused,
		Brush:       g.controlsState.Brush.String(),
	}
}

// drawOrientedTriangle draws a triangle at screen (x, y) pointing along (dx, dy).
func drawOrientedTriangle(x, y, dx, dy, radius float32, color rl.Color) {
	if dx == 0 && dy == 0 {
		dx = 1
	}
	// Perpendicular for the back corners
	px, py := -dy, dx

	v1 := rl.Vector2{X: x + dx*radius*1.5, Y: y + dy*radius*1.5}
	v2 := rl.Vector2{X: x - dx*radius*0.8 + px*radius*0.6, Y: y - dy*radius*0.8 + py*radius*0.6}
	v3 := rl.Vector2{X: x - dx*radius*0.8 - px*radius*0.6, Y: y - dy*radius*0.8 - py*radius*0.6}

	// DrawTriangle requires counter-clockwise winding (v1, v3, v2)
	rl.DrawTriangle(v1, v3, v2, color)
	rl.DrawTriangleLines(v1, v2, v3, rl.White)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
