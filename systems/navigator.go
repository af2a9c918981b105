package systems

import "sync"

// NavigatorOptions configures a Navigator.
type NavigatorOptions struct {
	OpenList          OpenListKind
	TrafficEnabled    bool
	TrafficMultiplier float32
}

// Navigator owns the graph, destination, teleporter and derived fields, and
// recomputes them on demand. The cost field is re-solved only after a
// destination, terrain or teleporter change marks it dirty. With traffic
// enabled the flow field is rebuilt on every Update, otherwise only after a
// solve or after traffic is switched off.
//
// Edits and Update take the write lock so an edit never interleaves with a
// solve; readers take the read lock.
type Navigator struct {
	mu sync.RWMutex

	graph   *Graph
	solver  *CostFieldSolver
	builder *FlowFieldBuilder

	dest     int
	pair     TeleporterPair
	hasPair  bool
	traffic  bool
	mul      float32
	costs    CostField
	flow     FlowField
	dirty    bool
	stale    bool // flow still carries traffic bias
	solves   int
	rebuilds int
}

// NewNavigator creates a navigator over g with no destination set.
func NewNavigator(g *Graph, opts NavigatorOptions) *Navigator {
	mul := opts.TrafficMultiplier
	if mul < 0 {
		mul = 0
	}
	return &Navigator{
		graph:   g,
		solver:  NewCostFieldSolver(g, opts.OpenList),
		builder: NewFlowFieldBuilder(g),
		dest:    InvalidNode,
		traffic: opts.TrafficEnabled,
		mul:     mul,
		costs:   NewCostField(g.NodeCount()),
		flow:    make(FlowField, g.NodeCount()),
		dirty:   true,
	}
}

// Graph returns the underlying graph. Mutate it only through the navigator.
func (n *Navigator) Graph() *Graph { return n.graph }

// Destination returns the current destination or InvalidNode.
func (n *Navigator) Destination() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.dest
}

// SetDestination changes the destination. Invalid indices are ignored.
func (n *Navigator) SetDestination(idx int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.graph.IsValidIndex(idx) || idx == n.dest {
		return
	}
	n.dest = idx
	n.dirty = true
}

// SetTeleporter installs a teleporter pair. Pass nil to remove it.
func (n *Navigator) SetTeleporter(p *TeleporterPair) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if p == nil {
		n.hasPair = false
		n.pair = TeleporterPair{First: InvalidNode, Second: InvalidNode}
	} else {
		n.hasPair = true
		n.pair = TeleporterPair{First: p.First, Second: p.Second}
	}
	n.dirty = true
}

// Teleporter returns a copy of the pair as of the last solve.
func (n *Navigator) Teleporter() (TeleporterPair, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.pair, n.hasPair
}

// SetTerrain edits one cell and marks the cost field dirty.
func (n *Navigator) SetTerrain(idx int, kind TerrainKind) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.graph.IsValidIndex(idx) {
		return
	}
	n.graph.SetTerrain(idx, kind)
	n.dirty = true
}

// SetTraffic toggles agent-aware flow and sets the multiplier (negative
// clamps to 0). The cost field does not depend on traffic and is kept.
func (n *Navigator) SetTraffic(enabled bool, mul float32) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.traffic && !enabled {
		n.stale = true
	}
	n.traffic = enabled
	n.mul = max(mul, 0)
}

// Traffic returns whether agent-aware flow is on and its multiplier.
func (n *Navigator) Traffic() (bool, float32) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.traffic, n.mul
}

// SetOpenList swaps the solver's open set implementation for later solves.
// Both kinds produce the same field, so the current one is kept.
func (n *Navigator) SetOpenList(kind OpenListKind) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if kind == n.solver.Kind() {
		return
	}
	n.solver = NewCostFieldSolver(n.graph, kind)
}

// OpenList returns the open set implementation in use.
func (n *Navigator) OpenList() OpenListKind {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.solver.Kind()
}

// MarkDirty forces a re-solve on the next Update.
func (n *Navigator) MarkDirty() {
	n.mu.Lock()
	n.dirty = true
	n.mu.Unlock()
}

// Dirty reports whether the next Update will re-solve.
func (n *Navigator) Dirty() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.dirty
}

// Update recomputes whatever is stale. agents is only read when traffic is
// enabled. Returns true if the cost field was re-solved.
func (n *Navigator) Update(agents []AgentSample) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	solved := false
	if n.dirty {
		var pair *TeleporterPair
		if n.hasPair {
			pair = &n.pair
		}
		if n.graph.IsValidIndex(n.dest) {
			n.costs = n.solver.Solve(n.dest, pair, n.costs)
		} else {
			n.costs.Reset()
			if pair != nil {
				pair.Closest = Unreached
			}
		}
		n.dirty = false
		n.solves++
		solved = true
	}

	if n.traffic {
		if agents == nil {
			agents = []AgentSample{}
		}
		n.flow = n.builder.Build(n.costs, n.dest, agents, n.mul, n.flow)
		n.rebuilds++
	} else if solved || n.stale {
		n.flow = n.builder.Build(n.costs, n.dest, nil, 0, n.flow)
		n.rebuilds++
	}
	n.stale = false
	return solved
}

// FlowAtNode returns the flow vector of idx, zero when invalid.
func (n *Navigator) FlowAtNode(idx int) Vec2 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if !n.graph.IsValidIndex(idx) {
		return Vec2{}
	}
	return n.flow[idx]
}

// FlowAt returns the flow vector of the cell containing pos.
func (n *Navigator) FlowAt(pos Vec2) Vec2 {
	return n.FlowAtNode(n.graph.WorldToNode(pos))
}

// Sample implements FlowSampler.
func (n *Navigator) Sample(worldX, worldY float32) (float32, float32) {
	v := n.FlowAt(Vec2{X: worldX, Y: worldY})
	return v.X, v.Y
}

// CostAt returns the cost to the destination of idx, CostInfinity when invalid.
func (n *Navigator) CostAt(idx int) float32 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if !n.graph.IsValidIndex(idx) {
		return CostInfinity
	}
	return n.costs[idx]
}

// NavView is the read-only state passed to View callbacks.
type NavView struct {
	Graph       *Graph
	Costs       CostField
	Flow        FlowField
	Traffic     TrafficField
	Destination int
	Teleporter  *TeleporterPair
}

// View calls fn with a consistent snapshot under the read lock. fn must not
// retain the slices or call back into the navigator's mutating methods.
func (n *Navigator) View(fn func(v NavView)) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	v := NavView{
		Graph:       n.graph,
		Costs:       n.costs,
		Flow:        n.flow,
		Traffic:     n.builder.Traffic(),
		Destination: n.dest,
	}
	if n.hasPair {
		p := n.pair
		v.Teleporter = &p
	}
	fn(v)
}

// Solves returns how many times the cost field has been solved.
func (n *Navigator) Solves() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.solves
}

// Rebuilds returns how many times the flow field has been rebuilt.
func (n *Navigator) Rebuilds() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.rebuilds
}
