package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/MauroVanHoutte/FlowField/camera"
	"github.com/MauroVanHoutte/FlowField/inspector"
	"github.com/MauroVanHoutte/FlowField/systems"
	"github.com/MauroVanHoutte/FlowField/ui"
)

// controlsLegend is printed along the bottom edge of the window.
const controlsLegend = "LMB paint | RMB destination | MMB inspect | 1-3 brush | Space pause | </> speed | Tab panel | F3 perf | F5 snapshot"

// initGraphics creates the camera and UI. The raylib window must be open.
func (g *Game) initGraphics() {
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w <= 0 || h <= 0 {
		w, h = g.cfg.Derived.ScreenW32, g.cfg.Derived.ScreenH32
	}
	g.screenWidth = w
	g.screenHeight = h

	size := g.graph.WorldSize()
	g.camera = camera.New(w, h, size.X, size.Y)
	g.controls = ui.NewControlsPanel(10, 10, 220)
	g.hud = ui.NewHUD()
	g.perfPanel = ui.NewPerfPanel(10, int32(h)-150)
	g.inspector = inspector.NewInspector(int32(w), int32(h))

	g.overlays = ui.NewOverlayRegistry()
	g.overlays.SetEnabled(ui.OverlayTerrain, true)
	g.overlays.SetEnabled(ui.OverlayGridLines, true)
	g.overlays.SetEnabled(ui.OverlayTeleporter, true)
	g.overlays.SetEnabled(ui.OverlayFlow, g.cfg.Navigation.DrawFlow)
	if g.cfg.Navigation.DrawCosts {
		g.overlays.SetEnabled(ui.OverlayCosts, true)
	}

	traffic, mul := g.nav.Traffic()
	_, hasPair := g.nav.Teleporter()
	g.controlsState = ui.ControlsState{
		Brush:             systems.TerrainBlocked,
		TrafficEnabled:    traffic,
		TrafficMultiplier: mul,
		OpenList:          g.nav.OpenList(),
		TeleporterEnabled: hasPair,
	}
}

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	if rl.IsKeyPressed(rl.KeyTab) {
		g.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyF3) {
		g.showPerf = !g.showPerf
	}
	if rl.IsKeyPressed(rl.KeyF5) {
		g.saveSnapshot(nil)
	}

	// Brush shortcuts
	for k := systems.TerrainKind(0); k < systems.NumTerrainKinds; k++ {
		if rl.IsKeyPressed(rl.KeyOne + int32(k)) {
			g.controlsState.Brush = k
		}
	}

	g.overlays.HandleInput()
	g.handleCameraInput()
	g.handleMouseInput()
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.camera.Resize(w, h)
	g.inspector.Resize(int32(w), int32(h))
	g.perfPanel.SetPosition(10, int32(h)-150)
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	panSpeed := float32(8.0) // screen pixels per frame

	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, -panSpeed)
	}

	wheelMove := rl.GetMouseWheelMove()
	if wheelMove != 0 {
		g.camera.ZoomBy(1.0 + wheelMove*0.1)
	}

	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}

// handleMouseInput paints terrain, picks the destination and selects agents.
// Clicks over a panel are left to the panel.
func (g *Game) handleMouseInput() {
	mouse := rl.GetMousePosition()
	if g.controls.Contains(int32(mouse.X), int32(mouse.Y)) {
		return
	}
	wx, wy := g.camera.ScreenToWorld(mouse.X, mouse.Y)

	if g.inspector.Contains(mouse.X, mouse.Y) {
		if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
			g.inspector.HandleClick(mouse.X, mouse.Y, wx, wy, 0, g.agentFilter)
		}
		return
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonMiddle) {
		tolerance := 6 / g.camera.Zoom
		if !g.inspector.HandleClick(mouse.X, mouse.Y, wx, wy, tolerance, g.agentFilter) {
			g.inspector.Deselect()
		}
	}
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		g.PaintTerrainAt(wx, wy, g.controlsState.Brush)
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		g.SetDestinationAt(wx, wy)
	}
}

// applyControlActions forwards panel interactions to the simulation.
func (g *Game) applyControlActions(a ui.ControlActions) {
	if !a.Any() {
		return
	}
	s := &g.controlsState
	if a.TrafficChanged {
		g.SetTraffic(s.TrafficEnabled, s.TrafficMultiplier)
	}
	if a.OpenListChanged {
		g.SetOpenList(s.OpenList)
	}
	if a.TeleporterToggled {
		g.SetTeleporterEnabled(s.TeleporterEnabled)
	}
	if a.RandomizeTeleporter {
		g.RandomizeTeleporter()
		s.TeleporterEnabled = true
	}
	if a.RegenerateTerrain {
		g.RegenerateTerrain()
	}
	if a.ResetAgents {
		g.ResetAgents()
	}
}
