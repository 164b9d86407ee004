package route

import "context"

// neighborOffsets is the fixed 4-connected expansion order: up, down, left,
// right. The order is the deterministic tie-break among equal-length paths;
// it is not tuned to minimize turns.
var neighborOffsets = [4]Cell{
	{Row: -1, Col: 0},
	{Row: 1, Col: 0},
	{Row: 0, Col: -1},
	{Row: 0, Col: 1},
}

// cancelCheckInterval is how many BFS dequeues happen between context checks.
const cancelCheckInterval = 4096

// FindPath runs Lee wave expansion (unweighted breadth-first search) from
// start to end over the grid's unblocked cells and returns the simplified
// waypoint list in start→end order.
//
// Every search begins with a full visited/cost/parent reset. Out-of-bounds
// endpoints are rejected immediately. The search terminates as soon as the
// end cell is dequeued, which guarantees a shortest step-count path because
// BFS processes cells in level order. Returns false when the end cell is
// unreachable or the context is cancelled mid-search.
//
// Output cells are grid coordinates; the caller converts to world space via
// [Grid.World].
func (g *Grid) FindPath(ctx context.Context, start, end Cell) ([]Cell, bool) {
	if !g.InBounds(start) || !g.InBounds(end) {
		return nil, false
	}
	g.resetSearch()

	// FIFO wavefront over flat cell indices.
	queue := make([]int32, 0, 256)
	si := int32(g.idx(start))
	g.visited[si] = true
	queue = append(queue, si)

	ei := int32(g.idx(end))
	pops := 0
	found := false

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur == ei {
			found = true
			break
		}

		pops++
		if pops%cancelCheckInterval == 0 && ctx.Err() != nil {
			return nil, false
		}

		row := int(cur) / g.cols
		col := int(cur) % g.cols
		for _, d := range neighborOffsets {
			n := Cell{Row: row + d.Row, Col: col + d.Col}
			if !g.InBounds(n) {
				continue
			}
			ni := int32(g.idx(n))
			if g.visited[ni] || g.blocked[ni] {
				continue
			}
			g.visited[ni] = true
			g.cost[ni] = g.cost[cur] + 1
			g.parent[ni] = cur
			queue = append(queue, ni)
		}
	}
	if !found {
		return nil, false
	}

	return simplify(g.backtrace(si, ei)), true
}

// PathCost returns the BFS level at which the cell was visited during the
// most recent search. Meaningful only after FindPath succeeded.
func (g *Grid) PathCost(c Cell) int {
	if !g.InBounds(c) {
		return 0
	}
	return int(g.cost[g.idx(c)])
}

// backtrace follows parent pointers from end to start and reverses the result
// into start→end order.
func (g *Grid) backtrace(start, end int32) []Cell {
	var path []Cell
	for cur := end; ; cur = g.parent[cur] {
		path = append(path, Cell{Row: int(cur) / g.cols, Col: int(cur) % g.cols})
		if cur == start {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// simplify collapses consecutive cells sharing the same direction vector,
// keeping only the first point, the last point, and true turning points. The
// first and last points of the raw path always survive exactly.
func simplify(path []Cell) []Cell {
	if len(path) <= 2 {
		return path
	}
	out := make([]Cell, 0, len(path))
	out = append(out, path[0])
	for i := 1; i < len(path)-1; i++ {
		prev, cur, next := path[i-1], path[i], path[i+1]
		dr1, dc1 := cur.Row-prev.Row, cur.Col-prev.Col
		dr2, dc2 := next.Row-cur.Row, next.Col-cur.Col
		if dr1 != dr2 || dc1 != dc2 {
			out = append(out, cur)
		}
	}
	return append(out, path[len(path)-1])
}
