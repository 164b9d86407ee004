package route

import (
	"context"
	"testing"

	"github.com/copperline/copperline/pkg/board"
)

func testGrid(t *testing.T, w, h float64) *Grid {
	t.Helper()
	g, err := NewGrid(rectOutline(w, h), 1)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return g
}

func TestFindPathStraightLine(t *testing.T) {
	g := testGrid(t, 10, 10)
	path, ok := g.FindPath(context.Background(), Cell{Row: 5, Col: 0}, Cell{Row: 5, Col: 10})
	if !ok {
		t.Fatal("expected a path on an empty grid")
	}
	// A straight run simplifies to its two endpoints.
	if len(path) != 2 {
		t.Fatalf("simplified path has %d points, want 2: %v", len(path), path)
	}
	if path[0] != (Cell{Row: 5, Col: 0}) || path[1] != (Cell{Row: 5, Col: 10}) {
		t.Errorf("path endpoints = %v, want (5,0)..(5,10)", path)
	}
}

func TestFindPathShortestCost(t *testing.T) {
	g := testGrid(t, 10, 10)
	end := Cell{Row: 7, Col: 9}
	_, ok := g.FindPath(context.Background(), Cell{Row: 0, Col: 0}, end)
	if !ok {
		t.Fatal("expected a path")
	}
	// BFS level order guarantees the Manhattan-shortest step count.
	if got, want := g.PathCost(end), 16; got != want {
		t.Errorf("end cell cost = %d, want %d", got, want)
	}
}

func TestFindPathAroundObstacle(t *testing.T) {
	g := testGrid(t, 10, 10)
	// Vertical wall at col 5 with a gap at row 0.
	for row := 1; row < g.Rows(); row++ {
		g.SetBlocked(Cell{Row: row, Col: 5}, true)
	}

	path, ok := g.FindPath(context.Background(), Cell{Row: 10, Col: 0}, Cell{Row: 10, Col: 10})
	if !ok {
		t.Fatal("expected a path through the gap")
	}
	// The path must detour through row 0.
	sawGap := false
	for _, c := range path {
		if c.Row == 0 {
			sawGap = true
		}
		if c.Col == 5 && c.Row != 0 {
			t.Errorf("path crosses the wall at %v", c)
		}
	}
	if !sawGap {
		t.Error("path should detour through the gap at row 0")
	}
}

func TestFindPathUnreachable(t *testing.T) {
	g := testGrid(t, 10, 10)
	// Full wall, no gap.
	for row := 0; row < g.Rows(); row++ {
		g.SetBlocked(Cell{Row: row, Col: 5}, true)
	}
	if _, ok := g.FindPath(context.Background(), Cell{Row: 5, Col: 0}, Cell{Row: 5, Col: 10}); ok {
		t.Error("expected no path across a full wall")
	}
}

func TestFindPathOutOfBoundsEndpoints(t *testing.T) {
	g := testGrid(t, 10, 10)
	if _, ok := g.FindPath(context.Background(), Cell{Row: -1, Col: 0}, Cell{Row: 5, Col: 5}); ok {
		t.Error("out-of-bounds start must be rejected")
	}
	if _, ok := g.FindPath(context.Background(), Cell{Row: 0, Col: 0}, Cell{Row: 5, Col: 99}); ok {
		t.Error("out-of-bounds end must be rejected")
	}
}

func TestFindPathStartEqualsEnd(t *testing.T) {
	g := testGrid(t, 10, 10)
	path, ok := g.FindPath(context.Background(), Cell{Row: 3, Col: 3}, Cell{Row: 3, Col: 3})
	if !ok {
		t.Fatal("start == end should be trivially reachable")
	}
	if len(path) != 1 {
		t.Errorf("path = %v, want a single cell", path)
	}
}

func TestFindPathResetsBetweenSearches(t *testing.T) {
	g := testGrid(t, 10, 10)
	if _, ok := g.FindPath(context.Background(), Cell{Row: 0, Col: 0}, Cell{Row: 0, Col: 10}); !ok {
		t.Fatal("first search failed")
	}
	// A second search must not be confused by the first search's state.
	path, ok := g.FindPath(context.Background(), Cell{Row: 10, Col: 10}, Cell{Row: 10, Col: 0})
	if !ok {
		t.Fatal("second search failed")
	}
	if path[0] != (Cell{Row: 10, Col: 10}) {
		t.Errorf("second search start = %v, want (10,10)", path[0])
	}
}

func TestSimplifyKeepsEndpointsAndTurns(t *testing.T) {
	raw := []Cell{
		{0, 0}, {0, 1}, {0, 2}, // east
		{1, 2}, {2, 2}, // south
		{2, 3}, // east
	}
	got := simplify(raw)
	want := []Cell{{0, 0}, {0, 2}, {2, 2}, {2, 3}}
	if len(got) != len(want) {
		t.Fatalf("simplify = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("simplify = %v, want %v", got, want)
		}
	}
	// First and last raw points always survive exactly.
	if got[0] != raw[0] || got[len(got)-1] != raw[len(raw)-1] {
		t.Error("simplification must preserve the raw endpoints")
	}
}

func TestSimplifyShortPaths(t *testing.T) {
	single := []Cell{{1, 1}}
	if got := simplify(single); len(got) != 1 {
		t.Errorf("single-cell path should be unchanged, got %v", got)
	}
	pair := []Cell{{1, 1}, {1, 2}}
	if got := simplify(pair); len(got) != 2 {
		t.Errorf("two-cell path should be unchanged, got %v", got)
	}
}

func TestFindPathCancellation(t *testing.T) {
	g := testGrid(t, 200, 200)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// With the context already cancelled, a large search must bail out.
	if _, ok := g.FindPath(ctx, Cell{Row: 0, Col: 0}, Cell{Row: 200, Col: 200}); ok {
		t.Error("cancelled search should not return a path")
	}
}

func TestFindPathDeterministicTieBreak(t *testing.T) {
	// Two equal-length L-paths exist; the fixed up/down/left/right expansion
	// order must pick the same one every run.
	first, ok := testGrid(t, 10, 10).FindPath(context.Background(), Cell{Row: 2, Col: 2}, Cell{Row: 5, Col: 5})
	if !ok {
		t.Fatal("expected a path")
	}
	for i := 0; i < 10; i++ {
		again, ok := testGrid(t, 10, 10).FindPath(context.Background(), Cell{Row: 2, Col: 2}, Cell{Row: 5, Col: 5})
		if !ok {
			t.Fatal("expected a path")
		}
		if len(again) != len(first) {
			t.Fatalf("path length changed between runs: %v vs %v", again, first)
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("path changed between runs: %v vs %v", again, first)
			}
		}
	}
}

func TestFindPathWorldLength(t *testing.T) {
	// Board 50x40mm at 0.5mm resolution, endpoints at (0,0) and (10,0):
	// the path is 2 points whose world-space length is exactly 10mm.
	g, err := NewGrid(rectOutline(50, 40), 0.5)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	start, _ := g.CellAt(board.Point{X: 0, Y: 0})
	end, _ := g.CellAt(board.Point{X: 10, Y: 0})

	path, ok := g.FindPath(context.Background(), start, end)
	if !ok {
		t.Fatal("expected a path")
	}
	if len(path) != 2 {
		t.Fatalf("path has %d points, want 2", len(path))
	}
	a, b := g.World(path[0]), g.World(path[1])
	length := b.X - a.X
	if length != 10 {
		t.Errorf("world-space length = %gmm, want 10mm", length)
	}
}
