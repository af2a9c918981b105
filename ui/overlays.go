package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID names a toggleable world overlay.
type OverlayID string

const (
	OverlayTerrain    OverlayID = "terrain"
	OverlayGridLines  OverlayID = "grid_lines"
	OverlayCosts      OverlayID = "costs"
	OverlayCostLabels OverlayID = "cost_labels"
	OverlayFlow       OverlayID = "flow"
	OverlayTraffic    OverlayID = "traffic"
	OverlayTeleporter OverlayID = "teleporter"
	OverlayObstacles  OverlayID = "obstacles"
)

// Overlay describes one entry of the overlay panel. Key is a raylib letter
// key code, which doubles as its ASCII label.
type Overlay struct {
	ID       OverlayID
	Name     string
	Key      int32
	Category string
	Excludes []OverlayID // switched off when this one is switched on
}

// KeyLabel is the key hint shown next to the toggle.
func (o Overlay) KeyLabel() string {
	if o.Key == 0 {
		return ""
	}
	return string(rune(o.Key))
}

var defaultOverlays = []Overlay{
	{ID: OverlayTerrain, Name: "Terrain", Key: rl.KeyT, Category: "grid", Excludes: []OverlayID{OverlayCosts}},
	{ID: OverlayGridLines, Name: "Grid Lines", Key: rl.KeyG, Category: "grid"},
	{ID: OverlayCosts, Name: "Cost Heatmap", Key: rl.KeyC, Category: "fields", Excludes: []OverlayID{OverlayTerrain}},
	{ID: OverlayCostLabels, Name: "Cost Labels", Key: rl.KeyN, Category: "fields"},
	{ID: OverlayFlow, Name: "Flow Arrows", Key: rl.KeyF, Category: "fields"},
	{ID: OverlayTraffic, Name: "Traffic", Key: rl.KeyR, Category: "fields"},
	{ID: OverlayTeleporter, Name: "Teleporter", Key: rl.KeyP, Category: "agents"},
	{ID: OverlayObstacles, Name: "Avoidance", Key: rl.KeyO, Category: "agents"},
}

// OverlayRegistry holds the overlays in display order and which are on.
type OverlayRegistry struct {
	overlays []Overlay
	enabled  map[OverlayID]bool
}

// NewOverlayRegistry returns a registry of the default overlays, all off.
func NewOverlayRegistry() *OverlayRegistry {
	return &OverlayRegistry{
		overlays: defaultOverlays,
		enabled:  make(map[OverlayID]bool, len(defaultOverlays)),
	}
}

func (r *OverlayRegistry) find(id OverlayID) (Overlay, bool) {
	for _, o := range r.overlays {
		if o.ID == id {
			return o, true
		}
	}
	return Overlay{}, false
}

// SetEnabled switches an overlay, turning off the ones it excludes.
// Unknown IDs are ignored.
func (r *OverlayRegistry) SetEnabled(id OverlayID, on bool) {
	o, ok := r.find(id)
	if !ok {
		return
	}
	r.enabled[id] = on
	if on {
		for _, other := range o.Excludes {
			r.enabled[other] = false
		}
	}
}

// Toggle flips an overlay and returns its new state.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	on := !r.enabled[id]
	r.SetEnabled(id, on)
	return r.enabled[id]
}

func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// Categories lists categories in first-seen order.
func (r *OverlayRegistry) Categories() []string {
	var cats []string
	for _, o := range r.overlays {
		if len(cats) == 0 || cats[len(cats)-1] != o.Category {
			cats = append(cats, o.Category)
		}
	}
	return cats
}

func (r *OverlayRegistry) ByCategory(category string) []Overlay {
	var out []Overlay
	for _, o := range r.overlays {
		if o.Category == category {
			out = append(out, o)
		}
	}
	return out
}

// HandleInput toggles every overlay whose key went down this frame.
func (r *OverlayRegistry) HandleInput() {
	for _, o := range r.overlays {
		if o.Key != 0 && rl.IsKeyPressed(o.Key) {
			r.Toggle(o.ID)
		}
	}
}
