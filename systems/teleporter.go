package systems

import "math/rand"

// RandomTeleporter places a pair on two distinct passable cells chosen by rng.
// Gives up after a bounded number of draws and returns an inert pair.
func RandomTeleporter(g *Graph, rng *rand.Rand) TeleporterPair {
	n := g.NodeCount()
	pair := TeleporterPair{First: InvalidNode, Second: InvalidNode}
	for attempt := 0; attempt < 8*n; attempt++ {
		idx := rng.Intn(n)
		if !g.Terrain(idx).Passable() {
			continue
		}
		if pair.First == InvalidNode {
			pair.First = idx
			continue
		}
		if idx != pair.First {
			pair.Second = idx
			return pair
		}
	}
	return TeleporterPair{First: InvalidNode, Second: InvalidNode}
}

// Crossing returns where an agent standing on node should be moved. Only the
// far endpoint carries agents, toward the side closer to the destination.
func (p *TeleporterPair) Crossing(node int) (int, bool) {
	if p == nil || node == InvalidNode || p.First == p.Second {
		return InvalidNode, false
	}
	if far := p.Far(); far != InvalidNode && far == node {
		return p.Near(), true
	}
	return InvalidNode, false
}
