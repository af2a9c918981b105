package systems

import "fmt"

const (
	// InvalidNode is returned by lookups that fall outside the grid.
	InvalidNode = -1

	// ImpassableCost is the edge cost at or above which no edge is created.
	ImpassableCost float32 = 100000
)

// Edge is a directed connection between two nodes.
type Edge struct {
	From, To int
	Cost     float32
}

// Node is one cell of the grid. Its coordinate and world position are
// derived from Index by the owning Graph.
type Node struct {
	Index   int
	Terrain TerrainKind
}

// CostFunc computes the traversal cost of the edge from -> to.
// Costs at or above ImpassableCost suppress the edge.
type CostFunc func(g *Graph, from, to int) float32

// PlainCost uses the straight/diagonal defaults and ignores terrain.
func PlainCost(g *Graph, from, to int) float32 {
	return g.BaseCost(from, to)
}

// TerrainCost scales the base cost by the average terrain weight of both endpoints.
func TerrainCost(g *Graph, from, to int) float32 {
	w := (g.nodes[from].Terrain.Weight() + g.nodes[to].Terrain.Weight()) / 2
	return g.BaseCost(from, to) * w
}

// Neighbor offsets in canonical order. Per-node edge lists are kept sorted by
// this order, which fixes the flow field tie-break independently of edit history.
var (
	straightOffsets = [4][2]int{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}
	diagonalOffsets = [4][2]int{{1, 1}, {-1, 1}, {-1, -1}, {1, -1}}
)

// GridOptions configures NewGridGraph.
type GridOptions struct {
	Columns      int
	Rows         int
	CellSize     float32
	Directed     bool
	Diagonal     bool
	StraightCost float32
	DiagonalCost float32
	Cost         CostFunc // nil = PlainCost
}

// Graph is a rows x columns grid of nodes with directed weighted edges to
// orthogonal and, optionally, diagonal neighbours. Nodes live in a flat
// arena indexed row-major; each node owns an adjacency list of edges.
type Graph struct {
	columns      int
	rows         int
	cellSize     float32
	directed     bool
	diagonal     bool
	straightCost float32
	diagonalCost float32
	cost         CostFunc

	nodes []Node
	edges [][]Edge
}

// BuildGrid creates a grid graph using PlainCost.
func BuildGrid(columns, rows int, cellSize float32, directed, diagonal bool, straightCost, diagonalCost float32) *Graph {
	return NewGridGraph(GridOptions{
		Columns:      columns,
		Rows:         rows,
		CellSize:     cellSize,
		Directed:     directed,
		Diagonal:     diagonal,
		StraightCost: straightCost,
		DiagonalCost: diagonalCost,
	})
}

// NewGridGraph creates a grid graph with all terrain open and every
// in-bounds neighbour connected. Panics on non-positive dimensions.
func NewGridGraph(opts GridOptions) *Graph {
	if opts.Columns <= 0 || opts.Rows <= 0 {
		panic(fmt.Sprintf("systems: grid dimensions must be positive, got %dx%d", opts.Columns, opts.Rows))
	}
	if opts.CellSize <= 0 {
		panic(fmt.Sprintf("systems: cell size must be positive, got %v", opts.CellSize))
	}
	cost := opts.Cost
	if cost == nil {
		cost = PlainCost
	}

	n := opts.Columns * opts.Rows
	g := &Graph{
		columns:      opts.Columns,
		rows:         opts.Rows,
		cellSize:     opts.CellSize,
		directed:     opts.Directed,
		diagonal:     opts.Diagonal,
		straightCost: opts.StraightCost,
		diagonalCost: opts.DiagonalCost,
		cost:         cost,
		nodes:        make([]Node, n),
		edges:        make([][]Edge, n),
	}

	for i := range g.nodes {
		g.nodes[i] = Node{Index: i, Terrain: TerrainOpen}
	}
	for i := range g.nodes {
		g.addEdgesFrom(i)
	}
	return g
}

// Columns returns the grid width in cells.
func (g *Graph) Columns() int { return g.columns }

// Rows returns the grid height in cells.
func (g *Graph) Rows() int { return g.rows }

// CellSize returns the world size of one cell.
func (g *Graph) CellSize() float32 { return g.cellSize }

// NodeCount returns rows*columns.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// IsDirected reports whether edges were created one-way only.
func (g *Graph) IsDirected() bool { return g.directed }

// IsDiagonal reports whether diagonal neighbours are connected.
func (g *Graph) IsDiagonal() bool { return g.diagonal }

// WorldSize returns the world extent covered by the grid.
func (g *Graph) WorldSize() Vec2 {
	return Vec2{X: float32(g.columns) * g.cellSize, Y: float32(g.rows) * g.cellSize}
}

// IsValidIndex reports whether idx names a node.
func (g *Graph) IsValidIndex(idx int) bool {
	return idx >= 0 && idx < len(g.nodes)
}

// InBounds reports whether (col, row) lies on the grid.
func (g *Graph) InBounds(col, row int) bool {
	return col >= 0 && col < g.columns && row >= 0 && row < g.rows
}

// Index returns the row-major node index of (col, row).
func (g *Graph) Index(col, row int) int {
	return row*g.columns + col
}

// Coord returns the (col, row) of a node index.
func (g *Graph) Coord(idx int) (col, row int) {
	return idx % g.columns, idx / g.columns
}

// Node returns the node record at idx.
func (g *Graph) Node(idx int) Node {
	return g.nodes[idx]
}

// Terrain returns the terrain of idx, or TerrainBlocked for invalid indices.
func (g *Graph) Terrain(idx int) TerrainKind {
	if !g.IsValidIndex(idx) {
		return TerrainBlocked
	}
	return g.nodes[idx].Terrain
}

// Edges returns the outgoing edges of idx in canonical direction order.
// The slice is owned by the graph and must not be modified.
func (g *Graph) Edges(idx int) []Edge {
	if !g.IsValidIndex(idx) {
		return nil
	}
	return g.edges[idx]
}

// EdgeCount returns the total number of directed edges.
func (g *Graph) EdgeCount() int {
	total := 0
	for _, es := range g.edges {
		total += len(es)
	}
	return total
}

// HasEdge reports whether the directed edge from -> to exists.
func (g *Graph) HasEdge(from, to int) bool {
	_, ok := g.EdgeCost(from, to)
	return ok
}

// EdgeCost returns the cost of from -> to and whether the edge exists.
func (g *Graph) EdgeCost(from, to int) (float32, bool) {
	if !g.IsValidIndex(from) {
		return 0, false
	}
	for _, e := range g.edges[from] {
		if e.To == to {
			return e.Cost, true
		}
	}
	return 0, false
}

// BaseCost returns the straight or diagonal default cost for a step between
// two nodes, depending on whether both row and column change.
func (g *Graph) BaseCost(from, to int) float32 {
	fc, fr := g.Coord(from)
	tc, tr := g.Coord(to)
	if fc != tc && fr != tr {
		return g.diagonalCost
	}
	return g.straightCost
}

// CellCenter returns the world position of the centre of (col, row).
func (g *Graph) CellCenter(col, row int) Vec2 {
	half := g.cellSize / 2
	return Vec2{X: float32(col)*g.cellSize + half, Y: float32(row)*g.cellSize + half}
}

// NodeToWorldCenter returns the world position of the centre of node idx.
func (g *Graph) NodeToWorldCenter(idx int) Vec2 {
	col, row := g.Coord(idx)
	return g.CellCenter(col, row)
}

// WorldToNode returns the index of the cell containing pos, or InvalidNode
// when pos is outside the grid.
func (g *Graph) WorldToNode(pos Vec2) int {
	// int() truncates toward zero, so negatives must be rejected first.
	if pos.X < 0 || pos.Y < 0 {
		return InvalidNode
	}
	col := int(pos.X / g.cellSize)
	row := int(pos.Y / g.cellSize)
	if !g.InBounds(col, row) {
		return InvalidNode
	}
	return g.Index(col, row)
}

// ClampToWorld pulls pos into the grid rectangle. The far edges are kept
// just inside so WorldToNode of the result is always valid.
func (g *Graph) ClampToWorld(pos Vec2) Vec2 {
	inset := g.cellSize * 1e-3
	size := g.WorldSize()
	return Vec2{
		X: clampFloat(pos.X, 0, size.X-inset),
		Y: clampFloat(pos.Y, 0, size.Y-inset),
	}
}

// SetTerrain changes the terrain of idx and updates connectivity: blocked
// cells are isolated, every other kind is re-connected with fresh costs.
// Invalid indices are ignored.
func (g *Graph) SetTerrain(idx int, kind TerrainKind) {
	if !g.IsValidIndex(idx) {
		return
	}
	g.nodes[idx].Terrain = kind
	if kind.Passable() {
		g.UnIsolateNode(idx)
	} else {
		g.IsolateNode(idx)
	}
}

// IsolateNode removes every edge from or to idx. The node itself remains.
func (g *Graph) IsolateNode(idx int) {
	if !g.IsValidIndex(idx) {
		return
	}
	g.edges[idx] = g.edges[idx][:0]

	col, row := g.Coord(idx)
	g.forEachNeighbor(col, row, func(n int) {
		g.removeEdge(n, idx)
	})
}

// UnIsolateNode rebuilds the edges of idx and of each of its neighbours, so
// edges pointing back into idx are restored with costs for the current terrain.
func (g *Graph) UnIsolateNode(idx int) {
	if !g.IsValidIndex(idx) {
		return
	}
	g.IsolateNode(idx)
	g.addEdgesFrom(idx)

	col, row := g.Coord(idx)
	g.forEachNeighbor(col, row, func(n int) {
		g.addEdgesFrom(n)
	})
}

// forEachNeighbor calls fn for every in-bounds neighbour in the enabled direction set.
func (g *Graph) forEachNeighbor(col, row int, fn func(n int)) {
	for _, d := range straightOffsets {
		if g.InBounds(col+d[0], row+d[1]) {
			fn(g.Index(col+d[0], row+d[1]))
		}
	}
	if !g.diagonal {
		return
	}
	for _, d := range diagonalOffsets {
		if g.InBounds(col+d[0], row+d[1]) {
			fn(g.Index(col+d[0], row+d[1]))
		}
	}
}

// addEdgesFrom connects idx to its neighbours. Existing edges are kept, pairs
// touching a blocked cell or costing ImpassableCost or more are skipped. For
// undirected graphs the reverse edge is added as well.
func (g *Graph) addEdgesFrom(idx int) {
	if !g.nodes[idx].Terrain.Passable() {
		return
	}
	col, row := g.Coord(idx)
	g.forEachNeighbor(col, row, func(n int) {
		if !g.nodes[n].Terrain.Passable() {
			return
		}
		cost := g.cost(g, idx, n)
		if cost >= ImpassableCost {
			return
		}
		if !g.HasEdge(idx, n) {
			g.insertEdge(Edge{From: idx, To: n, Cost: cost})
		}
		if !g.directed && !g.HasEdge(n, idx) {
			g.insertEdge(Edge{From: n, To: idx, Cost: g.cost(g, n, idx)})
		}
	})
}

// insertEdge adds e to its source's list, keeping canonical direction order.
func (g *Graph) insertEdge(e Edge) {
	slot := g.directionSlot(e.From, e.To)
	list := g.edges[e.From]
	pos := len(list)
	for i, existing := range list {
		if g.directionSlot(existing.From, existing.To) > slot {
			pos = i
			break
		}
	}
	list = append(list, Edge{})
	copy(list[pos+1:], list[pos:])
	list[pos] = e
	g.edges[e.From] = list
}

func (g *Graph) removeEdge(from, to int) {
	list := g.edges[from]
	for i, e := range list {
		if e.To == to {
			g.edges[from] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// directionSlot returns the canonical order position (0-7) of the step from -> to.
func (g *Graph) directionSlot(from, to int) int {
	fc, fr := g.Coord(from)
	tc, tr := g.Coord(to)
	dc, dr := tc-fc, tr-fr
	for i, d := range straightOffsets {
		if d[0] == dc && d[1] == dr {
			return i
		}
	}
	for i, d := range diagonalOffsets {
		if d[0] == dc && d[1] == dr {
			return len(straightOffsets) + i
		}
	}
	return len(straightOffsets) + len(diagonalOffsets)
}
