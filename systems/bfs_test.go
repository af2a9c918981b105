package systems

import (
	"math/rand"
	"testing"
)

func TestFindPathBFS(t *testing.T) {
	g := BuildGrid(5, 5, 1, false, false, 1, 1.5)
	// Wall across column 2 except the bottom row.
	for row := 0; row < 4; row++ {
		g.SetTerrain(g.Index(2, row), TerrainBlocked)
	}

	path := FindPathBFS(g, g.Index(0, 0), g.Index(4, 0))
	if len(path) != 13 {
		t.Fatalf("len(path) = %d, want 13: %v", len(path), path)
	}
	if path[0] != g.Index(0, 0) || path[len(path)-1] != g.Index(4, 0) {
		t.Errorf("path endpoints = %d, %d", path[0], path[len(path)-1])
	}
	for i := 1; i < len(path); i++ {
		if !g.HasEdge(path[i-1], path[i]) {
			t.Errorf("path step %d -> %d is not an edge", path[i-1], path[i])
		}
	}
}

func TestFindPathBFSEdgeCases(t *testing.T) {
	g := BuildGrid(3, 3, 1, false, false, 1, 1.5)
	if p := FindPathBFS(g, 4, 4); len(p) != 1 || p[0] != 4 {
		t.Errorf("FindPathBFS(4, 4) = %v, want [4]", p)
	}
	if p := FindPathBFS(g, -1, 4); p != nil {
		t.Errorf("FindPathBFS(-1, 4) = %v, want nil", p)
	}

	g.IsolateNode(8)
	if p := FindPathBFS(g, 0, 8); p != nil {
		t.Errorf("FindPathBFS to isolated node = %v, want nil", p)
	}
}

func TestFindPathBFSLengthMatchesUniformCost(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	g := BuildGrid(9, 9, 1, false, false, 1, 1.5)
	for i := 0; i < 15; i++ {
		g.SetTerrain(rng.Intn(g.NodeCount()), TerrainBlocked)
	}
	g.SetTerrain(0, TerrainOpen)

	costs := SolveCostField(g, 0, nil)
	for start := 0; start < g.NodeCount(); start++ {
		p := FindPathBFS(g, start, 0)
		if !costs.Reachable(start) {
			if p != nil {
				t.Errorf("FindPathBFS(%d, 0) = %v, want nil", start, p)
			}
			continue
		}
		if got := float32(len(p) - 1); got != costs[start] {
			t.Errorf("len(FindPathBFS(%d, 0))-1 = %v, want %v", start, got, costs[start])
		}
	}
}
