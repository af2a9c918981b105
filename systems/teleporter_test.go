package systems

import (
	"math/rand"
	"testing"
)

func TestRandomTeleporter(t *testing.T) {
	g := newTestGrid(8, 8, true)
	for i := 0; i < 32; i++ {
		g.SetTerrain(i, TerrainBlocked)
	}

	for seed := int64(0); seed < 20; seed++ {
		p := RandomTeleporter(g, rand.New(rand.NewSource(seed)))
		if !p.Valid(g) {
			t.Fatalf("seed %d: pair %+v is not valid", seed, p)
		}
		if p.First == p.Second {
			t.Errorf("seed %d: endpoints coincide at %d", seed, p.First)
		}
		if !g.Terrain(p.First).Passable() || !g.Terrain(p.Second).Passable() {
			t.Errorf("seed %d: pair %+v placed on blocked terrain", seed, p)
		}
		if p.Closest != Unreached {
			t.Errorf("seed %d: Closest = %v, want unreached", seed, p.Closest)
		}
	}

	a := RandomTeleporter(g, rand.New(rand.NewSource(5)))
	b := RandomTeleporter(g, rand.New(rand.NewSource(5)))
	if a != b {
		t.Errorf("same seed gave %+v and %+v", a, b)
	}
}

func TestRandomTeleporterAllBlocked(t *testing.T) {
	g := newTestGrid(2, 2, false)
	for i := 0; i < 4; i++ {
		g.SetTerrain(i, TerrainBlocked)
	}
	p := RandomTeleporter(g, rand.New(rand.NewSource(1)))
	if p.Valid(g) {
		t.Errorf("RandomTeleporter on a blocked grid = %+v, want inert", p)
	}
}

func TestCrossingUnreached(t *testing.T) {
	p := &TeleporterPair{First: 2, Second: 5}
	if _, ok := p.Crossing(5); ok {
		t.Error("Crossing() moved an agent before any solve")
	}
	var nilPair *TeleporterPair
	if _, ok := nilPair.Crossing(5); ok {
		t.Error("nil pair Crossing() ok = true")
	}
}

func TestGenerateTerrain(t *testing.T) {
	g := newTestGrid(20, 20, true)
	params := TerrainNoiseParams{Seed: 9, Scale: 0.3, SlowThreshold: 0.55, BlockedThreshold: 0.7}

	painted := GenerateTerrain(g, params, 0, 399)
	if painted == 0 {
		t.Fatal("GenerateTerrain painted nothing")
	}
	if g.Terrain(0) != TerrainOpen || g.Terrain(399) != TerrainOpen {
		t.Error("kept cells were painted")
	}

	counted := 0
	for i := 0; i < g.NodeCount(); i++ {
		if g.Terrain(i) != TerrainOpen {
			counted++
		}
		if !g.Terrain(i).Passable() && len(g.Edges(i)) != 0 {
			t.Errorf("blocked node %d still has edges", i)
		}
	}
	if counted != painted {
		t.Errorf("painted = %d, counted %d", painted, counted)
	}

	h := newTestGrid(20, 20, true)
	if again := GenerateTerrain(h, params, 0, 399); again != painted {
		t.Errorf("same seed painted %d, want %d", again, painted)
	}

	GenerateTerrain(g, TerrainNoiseParams{Seed: 9, Scale: 0.3})
	if want := newTestGrid(20, 20, true).EdgeCount(); g.EdgeCount() != want {
		t.Errorf("EdgeCount() = %d after clearing terrain, want %d", g.EdgeCount(), want)
	}
}
