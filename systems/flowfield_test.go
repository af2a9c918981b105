package systems

import (
	"math/rand"
	"testing"
)

func TestFlowFieldThreeByThree(t *testing.T) {
	g := BuildGrid(3, 3, 1, false, false, 1, 1.5)
	costs := SolveCostField(g, 4, nil)
	flow := BuildFlowField(g, costs, 4, nil, 0)

	tests := []struct {
		node int
		want Vec2
	}{
		{0, Vec2{1, 0}}, // east and south tie; east comes first
		{1, Vec2{0, 1}},
		{2, Vec2{0, 1}}, // west and south tie; south comes first
		{3, Vec2{1, 0}},
		{4, Vec2{}},
		{5, Vec2{-1, 0}},
		{6, Vec2{1, 0}},
		{7, Vec2{0, -1}},
		{8, Vec2{-1, 0}},
	}
	for _, tt := range tests {
		if got := flow[tt.node]; got != tt.want {
			t.Errorf("flow[%d] = %v, want %v", tt.node, got, tt.want)
		}
	}
}

func TestFlowFieldZeroAtIsolatedNodes(t *testing.T) {
	g := newTestGrid(5, 5, true)
	g.SetTerrain(7, TerrainBlocked)
	g.IsolateNode(18)

	costs := SolveCostField(g, 12, nil)
	flow := BuildFlowField(g, costs, 12, nil, 0)
	for _, idx := range []int{7, 12, 18} {
		if !flow[idx].IsZero() {
			t.Errorf("flow[%d] = %v, want zero", idx, flow[idx])
		}
	}
}

func TestFlowFieldOverwritesStaleVectors(t *testing.T) {
	g := newTestGrid(4, 4, false)
	b := NewFlowFieldBuilder(g)
	out := make(FlowField, g.NodeCount())
	for i := range out {
		out[i] = Vec2{9, 9}
	}

	g.IsolateNode(5)
	out = b.Build(SolveCostField(g, 0, nil), 0, nil, 0, out)
	if !out[5].IsZero() {
		t.Errorf("flow[5] = %v, want zero after isolation", out[5])
	}
}

func TestFlowFieldMonotonicDescent(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	g := newTestGrid(15, 12, true)
	for i := 0; i < 50; i++ {
		g.SetTerrain(rng.Intn(g.NodeCount()), TerrainKind(rng.Intn(int(NumTerrainKinds))))
	}
	dest := g.Index(7, 6)
	g.SetTerrain(dest, TerrainOpen)

	costs := SolveCostField(g, dest, nil)
	flow := BuildFlowField(g, costs, dest, nil, 0)

	for start := 0; start < g.NodeCount(); start++ {
		if !costs.Reachable(start) {
			continue
		}
		node := start
		for steps := 0; node != dest; steps++ {
			if steps > g.NodeCount() {
				t.Fatalf("following flow from %d did not reach %d", start, dest)
			}
			dir := flow[node]
			if dir.IsZero() {
				t.Fatalf("flow[%d] is zero on a reachable non-destination node", node)
			}
			next := g.WorldToNode(g.NodeToWorldCenter(node).Add(dir.Scale(g.CellSize())))
			if !g.HasEdge(node, next) {
				t.Fatalf("flow[%d] = %v points at non-neighbour %d", node, dir, next)
			}
			if costs[next] > costs[node] {
				t.Fatalf("flow from %d (%v) climbs to %d (%v)", node, costs[node], next, costs[next])
			}
			node = next
		}
	}
}

func TestFlowFieldUnitVectors(t *testing.T) {
	g := newTestGrid(6, 6, true)
	costs := SolveCostField(g, 0, nil)
	flow := BuildFlowField(g, costs, 0, nil, 0)
	for i, v := range flow {
		if i == 0 {
			continue
		}
		if l := v.Length(); l < 0.999 || l > 1.001 {
			t.Errorf("|flow[%d]| = %v, want 1", i, l)
		}
	}
}

func TestAccumulateTraffic(t *testing.T) {
	g := newTestGrid(4, 4, false) // cell size 5
	b := NewFlowFieldBuilder(g)
	cell := g.NodeToWorldCenter(5)

	tests := []struct {
		name   string
		agents []AgentSample
		mul    float32
		want   float32
	}{
		{"none", nil, 2, 0},
		{"one", []AgentSample{{cell, 1}}, 1, 0.2},
		{"three", []AgentSample{{cell, 1}, {cell, 1}, {cell, 2.5}}, 2, 1.8},
		{"negative multiplier", []AgentSample{{cell, 1}}, -4, 0},
		{"outside grid", []AgentSample{{Vec2{-1, 3}, 1}, {Vec2{100, 3}, 1}}, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			traffic := b.AccumulateTraffic(tt.agents, tt.mul)
			if d := traffic[5] - tt.want; d > 1e-5 || d < -1e-5 {
				t.Errorf("traffic[5] = %v, want %v", traffic[5], tt.want)
			}
			for i, v := range traffic {
				if i != 5 && v != 0 {
					t.Errorf("traffic[%d] = %v, want 0", i, v)
				}
			}
		})
	}
}

func TestTrafficNeverLowersEffectiveCost(t *testing.T) {
	g := newTestGrid(5, 5, true)
	costs := SolveCostField(g, 0, nil)
	b := NewFlowFieldBuilder(g)

	crowd := g.NodeToWorldCenter(12)
	var agents []AgentSample
	for n := 0; n <= 5; n++ {
		b.AccumulateTraffic(agents, 1.5)
		eff := b.effectiveCosts(costs)
		for i := range costs {
			if eff[i] < costs[i] {
				t.Fatalf("n=%d: effective[%d] = %v below base %v", n, i, eff[i], costs[i])
			}
		}
		if n > 0 && eff[12] <= costs[12] {
			t.Errorf("n=%d: effective[12] = %v, want above base %v", n, eff[12], costs[12])
		}
		agents = append(agents, AgentSample{Position: crowd, Radius: 1})
	}
}

func TestTrafficDivertsFlow(t *testing.T) {
	// 3x3 orthogonal, destination in the centre. Node 0 ties between 1 and 3
	// and picks 1; crowding 1 should send it to 3 instead.
	g := BuildGrid(3, 3, 1, false, false, 1, 1.5)
	costs := SolveCostField(g, 4, nil)

	b := NewFlowFieldBuilder(g)
	crowd := []AgentSample{{Position: g.NodeToWorldCenter(1), Radius: 0.5}}

	flow := b.Build(costs, 4, crowd, 1, nil)
	if want := (Vec2{0, 1}); flow[0] != want {
		t.Errorf("flow[0] = %v, want %v", flow[0], want)
	}
	if !flow[4].IsZero() {
		t.Errorf("flow[4] = %v, want zero at destination", flow[4])
	}

	raw := b.Build(costs, 4, nil, 1, nil)
	if want := (Vec2{1, 0}); raw[0] != want {
		t.Errorf("raw flow[0] = %v, want %v", raw[0], want)
	}
	if b.Traffic()[1] != 0 {
		t.Errorf("Traffic()[1] = %v after raw build, want 0", b.Traffic()[1])
	}
}

func TestFlowFieldMismatchedCosts(t *testing.T) {
	g := newTestGrid(3, 3, false)
	flow := BuildFlowField(g, CostField{0, 1}, 0, nil, 0)
	if len(flow) != g.NodeCount() {
		t.Fatalf("len(flow) = %d, want %d", len(flow), g.NodeCount())
	}
	for i, v := range flow {
		if !v.IsZero() {
			t.Errorf("flow[%d] = %v, want zero", i, v)
		}
	}
}
