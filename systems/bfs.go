package systems

// FindPathBFS returns the fewest-edge path from start to goal, inclusive of
// both, ignoring edge costs. Returns nil if goal is unreachable.
func FindPathBFS(g *Graph, start, goal int) []int {
	if !g.IsValidIndex(start) || !g.IsValidIndex(goal) {
		return nil
	}
	if start == goal {
		return []int{start}
	}

	cameFrom := make([]int, g.NodeCount())
	for i := range cameFrom {
		cameFrom[i] = InvalidNode
	}
	cameFrom[start] = start

	queue := []int{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range g.Edges(cur) {
			if cameFrom[e.To] != InvalidNode {
				continue
			}
			cameFrom[e.To] = cur
			if e.To == goal {
				return reconstructPath(cameFrom, start, goal)
			}
			queue = append(queue, e.To)
		}
	}
	return nil
}

func reconstructPath(cameFrom []int, start, goal int) []int {
	var path []int
	for n := goal; n != start; n = cameFrom[n] {
		path = append(path, n)
	}
	path = append(path, start)
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
