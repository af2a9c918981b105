package systems

import (
	"sync"
	"testing"
)

func TestNavigatorSolvesOnlyWhenDirty(t *testing.T) {
	g := newTestGrid(6, 6, true)
	nav := NewNavigator(g, NavigatorOptions{OpenList: OpenListHeap})
	nav.SetDestination(0)

	if !nav.Update(nil) {
		t.Fatal("first Update() did not solve")
	}
	for i := 0; i < 5; i++ {
		if nav.Update(nil) {
			t.Errorf("Update() %d re-solved without a change", i)
		}
	}
	if got := nav.Solves(); got != 1 {
		t.Errorf("Solves() = %d, want 1", got)
	}
	if got := nav.Rebuilds(); got != 1 {
		t.Errorf("Rebuilds() = %d, want 1", got)
	}

	nav.SetTerrain(14, TerrainSlow)
	if !nav.Dirty() {
		t.Error("Dirty() = false after SetTerrain")
	}
	if !nav.Update(nil) {
		t.Error("Update() did not solve after SetTerrain")
	}

	nav.SetDestination(0) // unchanged
	if nav.Update(nil) {
		t.Error("Update() re-solved for an unchanged destination")
	}
	nav.SetDestination(-5)
	if nav.Dirty() {
		t.Error("invalid destination marked the navigator dirty")
	}
	nav.MarkDirty()
	if !nav.Update(nil) {
		t.Error("Update() did not solve after MarkDirty")
	}
}

func TestNavigatorSetOpenList(t *testing.T) {
	g := newTestGrid(5, 5, true)
	nav := NewNavigator(g, NavigatorOptions{OpenList: OpenListLinear})
	nav.SetDestination(12)
	nav.Update(nil)

	want := make([]float32, g.NodeCount())
	for i := range want {
		want[i] = nav.CostAt(i)
	}

	nav.SetOpenList(OpenListLinear)
	if nav.Dirty() {
		t.Error("same open list marked the navigator dirty")
	}
	nav.SetOpenList(OpenListHeap)
	if got := nav.OpenList(); got != OpenListHeap {
		t.Errorf("OpenList() = %v, want heap", got)
	}
	if nav.Update(nil) {
		t.Error("Update() re-solved after SetOpenList")
	}

	nav.MarkDirty()
	if !nav.Update(nil) {
		t.Fatal("Update() did not solve after MarkDirty")
	}
	if got := nav.Solves(); got != 2 {
		t.Errorf("Solves() = %d, want 2", got)
	}
	for i := range want {
		if got := nav.CostAt(i); got != want[i] {
			t.Errorf("CostAt(%d) = %v, want %v", i, got, want[i])
		}
	}
}

func TestNavigatorNoDestination(t *testing.T) {
	g := newTestGrid(3, 3, false)
	nav := NewNavigator(g, NavigatorOptions{})
	nav.Update(nil)

	if got := nav.Destination(); got != InvalidNode {
		t.Errorf("Destination() = %d, want InvalidNode", got)
	}
	for i := 0; i < g.NodeCount(); i++ {
		if c := nav.CostAt(i); c != CostInfinity {
			t.Errorf("CostAt(%d) = %v, want infinity", i, c)
		}
		if v := nav.FlowAtNode(i); !v.IsZero() {
			t.Errorf("FlowAtNode(%d) = %v, want zero", i, v)
		}
	}
}

func TestNavigatorTrafficRebuildsEveryUpdate(t *testing.T) {
	g := BuildGrid(3, 3, 1, false, false, 1, 1.5)
	nav := NewNavigator(g, NavigatorOptions{TrafficEnabled: true, TrafficMultiplier: 1})
	nav.SetDestination(4)

	nav.Update(nil)
	if got, want := nav.FlowAtNode(0), (Vec2{1, 0}); got != want {
		t.Errorf("FlowAtNode(0) = %v, want %v", got, want)
	}

	crowd := []AgentSample{{Position: g.NodeToWorldCenter(1), Radius: 0.5}}
	if nav.Update(crowd) {
		t.Error("Update() re-solved for a traffic-only change")
	}
	if got, want := nav.FlowAtNode(0), (Vec2{0, 1}); got != want {
		t.Errorf("FlowAtNode(0) with traffic = %v, want %v", got, want)
	}
	if got := nav.Rebuilds(); got != 2 {
		t.Errorf("Rebuilds() = %d, want 2", got)
	}

	nav.View(func(v NavView) {
		if v.Traffic[1] != 0.5 {
			t.Errorf("Traffic[1] = %v, want 0.5", v.Traffic[1])
		}
		if v.Destination != 4 {
			t.Errorf("Destination = %d, want 4", v.Destination)
		}
	})
}

func TestNavigatorTeleporter(t *testing.T) {
	g := BuildGrid(10, 1, 1, false, false, 1, 1.5)
	nav := NewNavigator(g, NavigatorOptions{})
	nav.SetDestination(0)
	nav.SetTeleporter(&TeleporterPair{First: 1, Second: 8, Closest: SecondReached})
	nav.Update(nil)

	pair, ok := nav.Teleporter()
	if !ok {
		t.Fatal("Teleporter() ok = false")
	}
	if pair.Closest != FirstReached {
		t.Errorf("Closest = %v, want first", pair.Closest)
	}
	if c := nav.CostAt(8); c != 1 {
		t.Errorf("CostAt(8) = %v, want 1", c)
	}

	nav.SetTeleporter(nil)
	nav.Update(nil)
	if c := nav.CostAt(8); c != 8 {
		t.Errorf("CostAt(8) without teleporter = %v, want 8", c)
	}
	if _, ok := nav.Teleporter(); ok {
		t.Error("Teleporter() ok = true after removal")
	}
}

func TestNavigatorSample(t *testing.T) {
	g := BuildGrid(3, 1, 2, false, false, 1, 1.5)
	nav := NewNavigator(g, NavigatorOptions{})
	nav.SetDestination(2)
	nav.Update(nil)

	var sampler FlowSampler = nav
	x, y := sampler.Sample(1, 1)
	if x != 1 || y != 0 {
		t.Errorf("Sample(1, 1) = (%v, %v), want (1, 0)", x, y)
	}
	x, y = sampler.Sample(-1, 1)
	if x != 0 || y != 0 {
		t.Errorf("Sample outside grid = (%v, %v), want (0, 0)", x, y)
	}
}

func TestNavigatorConcurrentReaders(t *testing.T) {
	g := newTestGrid(10, 10, true)
	nav := NewNavigator(g, NavigatorOptions{OpenList: OpenListHeap})
	nav.SetDestination(55)
	nav.Update(nil)

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				nav.FlowAt(g.NodeToWorldCenter((i + w) % g.NodeCount()))
				nav.CostAt(i % g.NodeCount())
			}
		}(w)
	}
	for i := 0; i < 20; i++ {
		nav.SetTerrain(i*3, TerrainSlow)
		nav.Update(nil)
	}
	wg.Wait()

	if got := nav.CostAt(55); got != 0 {
		t.Errorf("CostAt(55) = %v, want 0", got)
	}
}

func TestNavigatorTrafficToggleKeepsCosts(t *testing.T) {
	g := BuildGrid(3, 3, 1, false, false, 1, 1.5)
	nav := NewNavigator(g, NavigatorOptions{})
	nav.SetDestination(4)
	nav.Update(nil)

	nav.SetTraffic(true, 2)
	if nav.Dirty() {
		t.Error("Dirty() = true after SetTraffic")
	}
	crowd := []AgentSample{{Position: g.NodeToWorldCenter(1), Radius: 0.5}}
	if nav.Update(crowd) {
		t.Error("Update() re-solved after enabling traffic")
	}
	if got, want := nav.FlowAtNode(0), (Vec2{0, 1}); got != want {
		t.Errorf("FlowAtNode(0) with traffic = %v, want %v", got, want)
	}

	nav.SetTraffic(true, 3)
	nav.Update(crowd)
	nav.SetTraffic(false, 3)
	if nav.Update(nil) {
		t.Error("Update() re-solved after disabling traffic")
	}
	if got := nav.Solves(); got != 1 {
		t.Errorf("Solves() = %d, want 1", got)
	}
	if got, want := nav.FlowAtNode(0), (Vec2{1, 0}); got != want {
		t.Errorf("FlowAtNode(0) after disabling traffic = %v, want %v", got, want)
	}
	if got := nav.Rebuilds(); got != 4 {
		t.Errorf("Rebuilds() = %d, want 4", got)
	}

	nav.Update(nil)
	if got := nav.Rebuilds(); got != 4 {
		t.Errorf("Rebuilds() after an idle Update = %d, want 4", got)
	}
}
