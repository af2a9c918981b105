package systems

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// TerrainNoiseParams controls GenerateTerrain.
type TerrainNoiseParams struct {
	Seed             int64
	Scale            float64 // noise frequency per cell
	SlowThreshold    float64 // noise >= this becomes slow
	BlockedThreshold float64 // noise >= this becomes blocked
}

// GenerateTerrain paints g from normalized simplex noise. Cells listed in
// keepOpen stay open so the destination and teleporter remain usable.
// Returns the number of cells that are not open.
func GenerateTerrain(g *Graph, p TerrainNoiseParams, keepOpen ...int) int {
	noise := opensimplex.NewNormalized(p.Seed)
	keep := make(map[int]struct{}, len(keepOpen))
	for _, k := range keepOpen {
		keep[k] = struct{}{}
	}

	painted := 0
	for idx := 0; idx < g.NodeCount(); idx++ {
		kind := TerrainOpen
		if _, ok := keep[idx]; !ok {
			col, row := g.Coord(idx)
			v := noise.Eval2(float64(col)*p.Scale, float64(row)*p.Scale)
			switch {
			case p.BlockedThreshold > 0 && v >= p.BlockedThreshold:
				kind = TerrainBlocked
			case p.SlowThreshold > 0 && v >= p.SlowThreshold:
				kind = TerrainSlow
			}
		}
		if g.Terrain(idx) != kind {
			g.SetTerrain(idx, kind)
		}
		if kind != TerrainOpen {
			painted++
		}
	}
	return painted
}
