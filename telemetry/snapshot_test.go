package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MauroVanHoutte/FlowField/systems"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version:     SnapshotVersion,
		RNGSeed:     42,
		Tick:        1000,
		Columns:     4,
		Rows:        2,
		CellSize:    5,
		Terrain:     []string{"..#.", "~..."},
		Destination: 3,
		Teleporter:  &[2]int{0, 7},
		Agents: []AgentState{
			{ID: 1, X: 2.5, Y: 7.5, VelX: 0.5, VelY: -0.3},
		},
		Bookmark: &Bookmark{
			Type:        BookmarkAllArrived,
			Tick:        1000,
			Description: "Test bookmark",
		},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if want := filepath.Join(tmpDir, "snapshot_1000_all_arrived.json"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.RNGSeed != 42 || loaded.Tick != 1000 {
		t.Errorf("seed/tick = %d/%d, want 42/1000", loaded.RNGSeed, loaded.Tick)
	}
	if loaded.Columns != 4 || loaded.Rows != 2 || loaded.CellSize != 5 {
		t.Errorf("grid = %dx%d@%v, want 4x2@5", loaded.Columns, loaded.Rows, loaded.CellSize)
	}
	if strings.Join(loaded.Terrain, "|") != "..#.|~..." {
		t.Errorf("Terrain = %v", loaded.Terrain)
	}
	if loaded.Teleporter == nil || *loaded.Teleporter != [2]int{0, 7} {
		t.Errorf("Teleporter = %v, want [0 7]", loaded.Teleporter)
	}
	if len(loaded.Agents) != 1 || loaded.Agents[0].VelY != -0.3 {
		t.Errorf("Agents = %+v", loaded.Agents)
	}
	if loaded.Bookmark == nil || loaded.Bookmark.Type != BookmarkAllArrived {
		t.Errorf("Bookmark = %+v", loaded.Bookmark)
	}
}

func TestSnapshotNoBookmarkName(t *testing.T) {
	tmpDir := t.TempDir()
	path, err := SaveSnapshot(&Snapshot{Version: SnapshotVersion, Tick: 7}, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if filepath.Base(path) != "snapshot_7.json" {
		t.Errorf("file name = %q, want snapshot_7.json", filepath.Base(path))
	}
}

func TestLoadSnapshotErrors(t *testing.T) {
	tmpDir := t.TempDir()

	if _, err := LoadSnapshot(filepath.Join(tmpDir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(tmpDir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(bad); err == nil {
		t.Error("expected error for malformed JSON")
	}

	old := filepath.Join(tmpDir, "old.json")
	if err := os.WriteFile(old, []byte(`{"version": 0}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(old); err == nil {
		t.Error("expected error for version mismatch")
	}
}

func TestTerrainEncodeApply(t *testing.T) {
	src := systems.BuildGrid(4, 3, 5, false, false, 1, 1.5)
	src.SetTerrain(1, systems.TerrainBlocked)
	src.SetTerrain(6, systems.TerrainSlow)

	rows := EncodeTerrain(src)
	want := []string{".#..", "..~.", "...."}
	if strings.Join(rows, "|") != strings.Join(want, "|") {
		t.Fatalf("EncodeTerrain = %v, want %v", rows, want)
	}

	dst := systems.BuildGrid(4, 3, 5, false, false, 1, 1.5)
	if err := ApplyTerrain(dst, rows); err != nil {
		t.Fatalf("ApplyTerrain: %v", err)
	}
	for i := 0; i < dst.NodeCount(); i++ {
		if dst.Terrain(i) != src.Terrain(i) {
			t.Errorf("Terrain(%d) = %v, want %v", i, dst.Terrain(i), src.Terrain(i))
		}
	}
	if dst.EdgeCount() != src.EdgeCount() {
		t.Errorf("EdgeCount() = %d, want %d", dst.EdgeCount(), src.EdgeCount())
	}

	if err := ApplyTerrain(dst, []string{"..x."}); err == nil {
		t.Error("expected error for unknown glyph")
	}
}
