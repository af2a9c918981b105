package systems

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// obstacleEntry wraps a blocked cell for R-tree storage.
type obstacleEntry struct {
	node   int
	center orb.Point
	bbox   rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (o *obstacleEntry) Bounds() rtreego.Rect {
	return o.bbox
}

// ObstacleIndex is a spatial index over blocked cells, used by agents to
// find the nearest obstacle to flee from.
type ObstacleIndex struct {
	graph   *Graph
	tree    *rtreego.Rtree
	entries map[int]*obstacleEntry
}

// NewObstacleIndex indexes every blocked cell of g.
func NewObstacleIndex(g *Graph) *ObstacleIndex {
	idx := &ObstacleIndex{
		graph:   g,
		tree:    rtreego.NewTree(2, 25, 50),
		entries: make(map[int]*obstacleEntry),
	}
	for i := 0; i < g.NodeCount(); i++ {
		idx.Sync(i)
	}
	return idx
}

// Len returns the number of indexed obstacles.
func (o *ObstacleIndex) Len() int {
	return len(o.entries)
}

// Contains reports whether node is indexed as an obstacle.
func (o *ObstacleIndex) Contains(node int) bool {
	_, ok := o.entries[node]
	return ok
}

// Sync brings the index in line with the current terrain of node.
func (o *ObstacleIndex) Sync(node int) {
	if !o.graph.IsValidIndex(node) {
		return
	}
	blocked := !o.graph.Terrain(node).Passable()
	existing, ok := o.entries[node]
	switch {
	case blocked && !ok:
		entry, err := o.newEntry(node)
		if err != nil {
			return
		}
		o.tree.Insert(entry)
		o.entries[node] = entry
	case !blocked && ok:
		o.tree.Delete(existing)
		delete(o.entries, node)
	}
}

func (o *ObstacleIndex) newEntry(node int) (*obstacleEntry, error) {
	col, row := o.graph.Coord(node)
	cell := float64(o.graph.CellSize())
	bound := orb.Bound{
		Min: orb.Point{float64(col) * cell, float64(row) * cell},
		Max: orb.Point{float64(col+1) * cell, float64(row+1) * cell},
	}
	bbox, err := rtreego.NewRect(
		rtreego.Point{bound.Min.X(), bound.Min.Y()},
		[]float64{bound.Max.X() - bound.Min.X(), bound.Max.Y() - bound.Min.Y()},
	)
	if err != nil {
		return nil, err
	}
	return &obstacleEntry{node: node, center: bound.Center(), bbox: bbox}, nil
}

// Nearest returns the centre and node of the obstacle closest to pos.
// ok is false when there are no obstacles.
func (o *ObstacleIndex) Nearest(pos Vec2) (center Vec2, node int, ok bool) {
	if len(o.entries) == 0 {
		return Vec2{}, InvalidNode, false
	}
	item := o.tree.NearestNeighbor(rtreego.Point{float64(pos.X), float64(pos.Y)})
	entry, found := item.(*obstacleEntry)
	if !found || entry == nil {
		return Vec2{}, InvalidNode, false
	}
	return Vec2{X: float32(entry.center.X()), Y: float32(entry.center.Y())}, entry.node, true
}

// Within returns the nearest obstacle centre if it lies within radius of pos.
func (o *ObstacleIndex) Within(pos Vec2, radius float32) (Vec2, bool) {
	center, _, ok := o.Nearest(pos)
	if !ok {
		return Vec2{}, false
	}
	p := orb.Point{float64(pos.X), float64(pos.Y)}
	c := orb.Point{float64(center.X), float64(center.Y)}
	if planar.Distance(p, c) > float64(radius) {
		return Vec2{}, false
	}
	return center, true
}
