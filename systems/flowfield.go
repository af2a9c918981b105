package systems

// FlowField holds one steering direction per node. Zero means stay put.
type FlowField []Vec2

// FlowSampler provides flow vectors at world positions.
type FlowSampler interface {
	Sample(worldX, worldY float32) (flowX, flowY float32)
}

// AgentSample is the per-tick snapshot an agent contributes to traffic.
type AgentSample struct {
	Position Vec2
	Radius   float32
}

// TrafficField holds per-node congestion accumulated from agent occupancy.
type TrafficField []float32

// FlowFieldBuilder derives flow fields from cost fields, optionally biased
// by traffic. Buffers are reused between builds.
type FlowFieldBuilder struct {
	graph     *Graph
	traffic   TrafficField
	effective []float32
}

// NewFlowFieldBuilder creates a builder bound to g.
func NewFlowFieldBuilder(g *Graph) *FlowFieldBuilder {
	n := g.NodeCount()
	return &FlowFieldBuilder{
		graph:     g,
		traffic:   make(TrafficField, n),
		effective: make([]float32, n),
	}
}

// Traffic returns the traffic overlay from the most recent agent-aware build.
func (b *FlowFieldBuilder) Traffic() TrafficField {
	return b.traffic
}

// AccumulateTraffic zeroes the overlay and adds mul*radius/cellSize for every
// agent at its containing node. Agents outside the grid are skipped. A
// negative multiplier or radius contributes nothing.
func (b *FlowFieldBuilder) AccumulateTraffic(agents []AgentSample, mul float32) TrafficField {
	for i := range b.traffic {
		b.traffic[i] = 0
	}
	if mul <= 0 {
		return b.traffic
	}
	cell := b.graph.CellSize()
	for _, a := range agents {
		idx := b.graph.WorldToNode(a.Position)
		if idx == InvalidNode || a.Radius <= 0 {
			continue
		}
		b.traffic[idx] += mul * a.Radius / cell
	}
	return b.traffic
}

// effectiveCosts returns traffic + cost per node. Unreachable nodes stay at CostInfinity.
func (b *FlowFieldBuilder) effectiveCosts(costs CostField) []float32 {
	for i, c := range costs {
		if c >= CostInfinity {
			b.effective[i] = CostInfinity
			continue
		}
		b.effective[i] = c + b.traffic[i]
	}
	return b.effective
}

// Build writes a direction per node into out, allocating it when its length
// does not match the graph. With agents == nil the raw cost field drives
// selection; otherwise traffic is accumulated first and added to it. Each node
// points at the outgoing neighbour with the lowest finite cost, first edge in
// canonical order on ties. The destination and nodes without a finite
// neighbour get the zero vector.
func (b *FlowFieldBuilder) Build(costs CostField, dest int, agents []AgentSample, mul float32, out FlowField) FlowField {
	g := b.graph
	if len(out) != g.NodeCount() {
		out = make(FlowField, g.NodeCount())
	}
	if len(costs) != g.NodeCount() {
		for i := range out {
			out[i] = Vec2{}
		}
		return out
	}

	var selection []float32
	if agents != nil {
		b.AccumulateTraffic(agents, mul)
		selection = b.effectiveCosts(costs)
	} else {
		for i := range b.traffic {
			b.traffic[i] = 0
		}
		selection = costs
	}

	for idx := range out {
		out[idx] = Vec2{}
		best := InvalidNode
		bestCost := CostInfinity
		for _, e := range g.edges[idx] {
			if c := selection[e.To]; c < bestCost {
				bestCost = c
				best = e.To
			}
		}
		if best == InvalidNode {
			continue
		}
		out[idx] = g.NodeToWorldCenter(best).Sub(g.NodeToWorldCenter(idx)).Normalized()
	}

	if g.IsValidIndex(dest) {
		out[dest] = Vec2{}
	}
	return out
}

// BuildFlowField derives a fresh flow field from costs. Pass nil agents to
// ignore traffic.
func BuildFlowField(g *Graph, costs CostField, dest int, agents []AgentSample, mul float32) FlowField {
	return NewFlowFieldBuilder(g).Build(costs, dest, agents, mul, nil)
}
