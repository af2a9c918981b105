package systems

import (
	"container/heap"
	"fmt"
	"math"
	"strings"
)

// CostInfinity marks a node that cannot reach the destination.
const CostInfinity float32 = math.MaxFloat32

// CostField holds the cheapest path cost from each node to the destination.
type CostField []float32

// NewCostField allocates a cost field with every entry unreached.
func NewCostField(n int) CostField {
	f := make(CostField, n)
	f.Reset()
	return f
}

// Reset sets every entry to CostInfinity.
func (f CostField) Reset() {
	for i := range f {
		f[i] = CostInfinity
	}
}

// Reachable reports whether idx has a finite cost.
func (f CostField) Reachable(idx int) bool {
	return idx >= 0 && idx < len(f) && f[idx] < CostInfinity
}

// ReachableCount returns how many entries are finite.
func (f CostField) ReachableCount() int {
	n := 0
	for _, c := range f {
		if c < CostInfinity {
			n++
		}
	}
	return n
}

// TeleporterMarker records which endpoint of a pair the last solve reached first.
type TeleporterMarker int8

const (
	Unreached     TeleporterMarker = iota
	FirstReached                   // First is closer to the destination
	SecondReached                  // Second is closer to the destination
)

func (m TeleporterMarker) String() string {
	switch m {
	case FirstReached:
		return "first"
	case SecondReached:
		return "second"
	default:
		return "unreached"
	}
}

// TeleporterPair links two nodes as a free bidirectional shortcut.
// Closest is written by the solver.
type TeleporterPair struct {
	First   int
	Second  int
	Closest TeleporterMarker
}

// Valid reports whether both endpoints name nodes of g.
func (p *TeleporterPair) Valid(g *Graph) bool {
	return p != nil && g.IsValidIndex(p.First) && g.IsValidIndex(p.Second)
}

// Near returns the endpoint closer to the destination, or InvalidNode if the
// pair was not reached.
func (p *TeleporterPair) Near() int {
	switch p.Closest {
	case FirstReached:
		return p.First
	case SecondReached:
		return p.Second
	}
	return InvalidNode
}

// Far returns the endpoint agents should enter to be carried to Near.
func (p *TeleporterPair) Far() int {
	switch p.Closest {
	case FirstReached:
		return p.Second
	case SecondReached:
		return p.First
	}
	return InvalidNode
}

// OpenListKind selects the open set implementation used by the solver.
// Both produce identical cost fields.
type OpenListKind int

const (
	OpenListLinear OpenListKind = iota
	OpenListHeap
)

func (k OpenListKind) String() string {
	if k == OpenListHeap {
		return "heap"
	}
	return "linear"
}

// ParseOpenListKind parses "linear" or "heap".
func ParseOpenListKind(s string) (OpenListKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "linear":
		return OpenListLinear, nil
	case "heap":
		return OpenListHeap, nil
	}
	return OpenListLinear, fmt.Errorf("unknown open list %q", s)
}

// openRecord is a (node, cost-so-far) entry in the open set.
type openRecord struct {
	node int
	cost float32
}

// less orders records by cost, then node index.
func (r openRecord) less(o openRecord) bool {
	if r.cost != o.cost {
		return r.cost < o.cost
	}
	return r.node < o.node
}

type openList interface {
	push(r openRecord)
	pop() openRecord
	len() int
	clear()
}

// linearOpenList scans for the minimum on every pop.
type linearOpenList struct {
	records []openRecord
}

func (l *linearOpenList) push(r openRecord) { l.records = append(l.records, r) }
func (l *linearOpenList) len() int           { return len(l.records) }
func (l *linearOpenList) clear()             { l.records = l.records[:0] }

func (l *linearOpenList) pop() openRecord {
	best := 0
	for i := 1; i < len(l.records); i++ {
		if l.records[i].less(l.records[best]) {
			best = i
		}
	}
	r := l.records[best]
	last := len(l.records) - 1
	l.records[best] = l.records[last]
	l.records = l.records[:last]
	return r
}

// recordHeap implements heap.Interface over open records.
type recordHeap []openRecord

func (h recordHeap) Len() int           { return len(h) }
func (h recordHeap) Less(i, j int) bool { return h[i].less(h[j]) }
func (h recordHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *recordHeap) Push(x any) {
	*h = append(*h, x.(openRecord))
}

func (h *recordHeap) Pop() any {
	old := *h
	n := len(old)
	r := old[n-1]
	*h = old[:n-1]
	return r
}

type heapOpenList struct {
	h recordHeap
}

func (l *heapOpenList) push(r openRecord) { heap.Push(&l.h, r) }
func (l *heapOpenList) pop() openRecord   { return heap.Pop(&l.h).(openRecord) }
func (l *heapOpenList) len() int          { return l.h.Len() }
func (l *heapOpenList) clear()            { l.h = l.h[:0] }

// CostFieldSolver runs uniform-cost relaxation from a destination node.
// Buffers are reused between solves; a solver is not safe for concurrent use.
type CostFieldSolver struct {
	graph  *Graph
	kind   OpenListKind
	open   openList
	closed []bool
}

// NewCostFieldSolver creates a solver bound to g.
func NewCostFieldSolver(g *Graph, kind OpenListKind) *CostFieldSolver {
	s := &CostFieldSolver{
		graph:  g,
		kind:   kind,
		closed: make([]bool, g.NodeCount()),
	}
	if kind == OpenListHeap {
		s.open = &heapOpenList{h: make(recordHeap, 0, 64)}
	} else {
		s.open = &linearOpenList{records: make([]openRecord, 0, 64)}
	}
	return s
}

// Kind returns the open list implementation in use.
func (s *CostFieldSolver) Kind() OpenListKind { return s.kind }

// Solve writes the cost to dest for every node into out, allocating it when
// its length does not match the graph. A node is closed as soon as it is
// discovered and never re-opened. An invalid dest leaves every entry at
// CostInfinity. If pair is valid, the first extraction of either endpoint
// injects the other endpoint at the same cost and records which side won.
func (s *CostFieldSolver) Solve(dest int, pair *TeleporterPair, out CostField) CostField {
	g := s.graph
	if len(out) != g.NodeCount() {
		out = make(CostField, g.NodeCount())
	}
	out.Reset()

	usePair := pair.Valid(g)
	if pair != nil {
		pair.Closest = Unreached
	}
	if !g.IsValidIndex(dest) {
		return out
	}

	for i := range s.closed {
		s.closed[i] = false
	}
	s.open.clear()

	s.open.push(openRecord{node: dest, cost: 0})
	s.closed[dest] = true

	for s.open.len() > 0 {
		rec := s.open.pop()
		if rec.cost >= out[rec.node] {
			// Stale duplicate left behind by a teleporter injection.
			continue
		}
		out[rec.node] = rec.cost

		if usePair && pair.Closest == Unreached {
			var other int
			switch rec.node {
			case pair.First:
				pair.Closest = FirstReached
				other = pair.Second
			case pair.Second:
				pair.Closest = SecondReached
				other = pair.First
			default:
				other = InvalidNode
			}
			if other != InvalidNode && other != rec.node {
				s.open.push(openRecord{node: other, cost: rec.cost})
				s.closed[other] = true
			}
		}

		for _, e := range g.edges[rec.node] {
			if s.closed[e.To] {
				continue
			}
			s.open.push(openRecord{node: e.To, cost: rec.cost + e.Cost})
			s.closed[e.To] = true
		}
	}
	return out
}

// SolveCostField computes a fresh cost field for dest using a linear open list.
func SolveCostField(g *Graph, dest int, pair *TeleporterPair) CostField {
	return NewCostFieldSolver(g, OpenListLinear).Solve(dest, pair, nil)
}
