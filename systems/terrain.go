package systems

import (
	"fmt"
	"strings"
)

// TerrainKind classifies a grid cell for traversal.
type TerrainKind uint8

const (
	TerrainOpen    TerrainKind = iota // ground, weight 1
	TerrainSlow                       // mud, weight 2
	TerrainBlocked                    // water, never connected
	NumTerrainKinds
)

// terrainWeights maps each kind to the multiplier applied to edge costs.
// The blocked weight pushes any averaged cost well past ImpassableCost.
var terrainWeights = [NumTerrainKinds]float32{1, 2, 1e6}

var terrainNames = [NumTerrainKinds]string{"open", "slow", "blocked"}

// Weight returns the edge cost multiplier for the terrain kind.
func (t TerrainKind) Weight() float32 {
	if t >= NumTerrainKinds {
		return terrainWeights[TerrainBlocked]
	}
	return terrainWeights[t]
}

// Passable reports whether edges may touch a cell of this kind.
func (t TerrainKind) Passable() bool {
	return t < TerrainBlocked
}

func (t TerrainKind) String() string {
	if t >= NumTerrainKinds {
		return fmt.Sprintf("terrain(%d)", uint8(t))
	}
	return terrainNames[t]
}

// ParseTerrainKind parses a terrain name as produced by String.
func ParseTerrainKind(s string) (TerrainKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range terrainNames {
		if n == name {
			return TerrainKind(i), nil
		}
	}
	switch name {
	case "ground":
		return TerrainOpen, nil
	case "mud":
		return TerrainSlow, nil
	case "water":
		return TerrainBlocked, nil
	}
	return 0, fmt.Errorf("unknown terrain kind %q", s)
}
