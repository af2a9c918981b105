package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MauroVanHoutte/FlowField/systems"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the grid layout and agent positions for replay and debugging.
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`
	Tick    int32 `json:"tick"`

	Columns  int     `json:"columns"`
	Rows     int     `json:"rows"`
	CellSize float32 `json:"cell_size"`

	// Terrain is one character per node, row-major: '.' open, '~' slow, '#' blocked.
	Terrain     []string `json:"terrain"`
	Destination int      `json:"destination"`
	Teleporter  *[2]int  `json:"teleporter,omitempty"`

	Agents []AgentState `json:"agents"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// AgentState holds one agent's state.
type AgentState struct {
	ID   uint32  `json:"id"`
	X    float32 `json:"x"`
	Y    float32 `json:"y"`
	VelX float32 `json:"vel_x"`
	VelY float32 `json:"vel_y"`
}

var terrainGlyphs = [systems.NumTerrainKinds]byte{'.', '~', '#'}

// EncodeTerrain renders the terrain of g as rows of glyphs.
func EncodeTerrain(g *systems.Graph) []string {
	rows := make([]string, g.Rows())
	buf := make([]byte, g.Columns())
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Columns(); c++ {
			buf[c] = terrainGlyphs[g.Terrain(g.Index(c, r))]
		}
		rows[r] = string(buf)
	}
	return rows
}

// ApplyTerrain paints glyph rows onto g. Rows and columns beyond the grid are
// ignored; unknown glyphs are an error.
func ApplyTerrain(g *systems.Graph, rows []string) error {
	for r, line := range rows {
		if r >= g.Rows() {
			break
		}
		for c := 0; c < len(line) && c < g.Columns(); c++ {
			kind, ok := glyphKind(line[c])
			if !ok {
				return fmt.Errorf("row %d col %d: unknown terrain glyph %q", r, c, line[c])
			}
			idx := g.Index(c, r)
			if g.Terrain(idx) != kind {
				g.SetTerrain(idx, kind)
			}
		}
	}
	return nil
}

func glyphKind(b byte) (systems.TerrainKind, bool) {
	for i, glyph := range terrainGlyphs {
		if glyph == b {
			return systems.TerrainKind(i), true
		}
	}
	return 0, false
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	name += ".json"

	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}
