// Package route implements the grid-based autorouter: board rasterization,
// Lee wave-expansion path finding, and the orchestrator that routes every
// ratsnest connection in order while blocking clearance halos around placed
// copper.
//
// # Architecture
//
// The router is a single-pass, first-come-first-served engine:
//
//  1. The board outline is rasterized into a uniform cell grid.
//  2. Connections are routed one at a time in extraction order.
//  3. Each successful route blocks the cells around its path so later
//     connections avoid it.
//
// A run is an isolated unit of work: the caller hands in an immutable
// document snapshot and receives events (progress, then exactly one terminal)
// over a channel. No memory is shared while the run executes.
package route

import (
	"math"

	"github.com/copperline/copperline/pkg/board"
	"github.com/copperline/copperline/pkg/errors"
)

// DefaultResolution is the grid cell side length in millimeters used when the
// caller does not specify one.
const DefaultResolution = 0.5

// maxCells caps the grid allocation. Boards that rasterize beyond this are
// rejected up front rather than exhausting memory mid-run.
const maxCells = 64 << 20

// Cell addresses a single grid cell by row and column.
type Cell struct {
	Row int
	Col int
}

// Grid rasterizes the board bounding box into uniform square cells and tracks
// per-cell blocked/visited/cost/parent state for the path finder.
//
// Grid state is mutable and owned by a single routing run; it is not safe for
// concurrent use.
type Grid struct {
	origin     board.Point
	resolution float64
	rows, cols int

	blocked []bool
	visited []bool
	cost    []int32
	parent  []int32 // flat cell index of the BFS predecessor, -1 for none
}

// NewGrid builds a grid covering the axis-aligned bounds of the outline at
// the given resolution.
//
// Returns ErrCodeInvalidResolution for non-finite or non-positive resolutions,
// ErrCodeEmptyOutline when the outline has no vertices, and ErrCodeGridTooLarge
// when the rasterization would exceed the allocation cap. All three are fatal
// configuration errors reported before any routing begins.
func NewGrid(outline []board.Point, resolution float64) (*Grid, error) {
	if math.IsNaN(resolution) || math.IsInf(resolution, 0) || resolution <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidResolution,
			"grid resolution must be a positive finite number, got %g", resolution)
	}
	doc := board.Document{Outline: outline}
	bounds, ok := doc.OutlineBounds()
	if !ok {
		return nil, errors.New(errors.ErrCodeEmptyOutline, "board outline has no vertices")
	}

	cols := int(math.Ceil(bounds.Width()/resolution)) + 1
	rows := int(math.Ceil(bounds.Height()/resolution)) + 1
	if int64(rows)*int64(cols) > maxCells {
		return nil, errors.New(errors.ErrCodeGridTooLarge,
			"grid of %dx%d cells exceeds the %d cell limit; increase the resolution", rows, cols, maxCells)
	}

	n := rows * cols
	return &Grid{
		origin:     bounds.Min,
		resolution: resolution,
		rows:       rows,
		cols:       cols,
		blocked:    make([]bool, n),
		visited:    make([]bool, n),
		cost:       make([]int32, n),
		parent:     make([]int32, n),
	}, nil
}

// Rows returns the number of grid rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of grid columns.
func (g *Grid) Cols() int { return g.cols }

// Resolution returns the cell side length in millimeters.
func (g *Grid) Resolution() float64 { return g.resolution }

// Origin returns the world-space position of cell (0, 0).
func (g *Grid) Origin() board.Point { return g.origin }

// InBounds reports whether the cell lies inside the grid.
func (g *Grid) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Row < g.rows && c.Col >= 0 && c.Col < g.cols
}

// CellAt maps a world-space point to its grid cell by rounding. The second
// return value is false when the point rounds outside the grid; such points
// are unroutable and must fail gracefully.
func (g *Grid) CellAt(p board.Point) (Cell, bool) {
	c := Cell{
		Row: int(math.Round((p.Y - g.origin.Y) / g.resolution)),
		Col: int(math.Round((p.X - g.origin.X) / g.resolution)),
	}
	return c, g.InBounds(c)
}

// World maps a grid cell back to world-space coordinates. Together with
// CellAt this is a bijection up to rounding.
func (g *Grid) World(c Cell) board.Point {
	return board.Point{
		X: g.origin.X + float64(c.Col)*g.resolution,
		Y: g.origin.Y + float64(c.Row)*g.resolution,
	}
}

func (g *Grid) idx(c Cell) int { return c.Row*g.cols + c.Col }

// Blocked reports whether the cell is an obstacle. Out-of-bounds cells are
// treated as blocked.
func (g *Grid) Blocked(c Cell) bool {
	if !g.InBounds(c) {
		return true
	}
	return g.blocked[g.idx(c)]
}

// SetBlocked marks or clears the obstacle flag of an in-bounds cell.
func (g *Grid) SetBlocked(c Cell, blocked bool) {
	if g.InBounds(c) {
		g.blocked[g.idx(c)] = blocked
	}
}

// BlockHalo blocks every cell within the given Chebyshev distance of c.
// This is the mechanism by which routed traces keep later connections at
// clearance distance.
func (g *Grid) BlockHalo(c Cell, radius int) {
	for dr := -radius; dr <= radius; dr++ {
		for dc := -radius; dc <= radius; dc++ {
			g.SetBlocked(Cell{Row: c.Row + dr, Col: c.Col + dc}, true)
		}
	}
}

// withUnblocked clears the blocked flag of the given cells, runs fn, and
// restores the previous flags on every exit path. A connection's own
// endpoints must never block themselves even when a prior connection's
// clearance halo marked them blocked, but an unrelated obstacle has to remain
// blocking for subsequent connections.
func (g *Grid) withUnblocked(cells []Cell, fn func()) {
	saved := make([]bool, len(cells))
	for i, c := range cells {
		saved[i] = g.Blocked(c)
		g.SetBlocked(c, false)
	}
	defer func() {
		for i, c := range cells {
			g.SetBlocked(c, saved[i])
		}
	}()
	fn()
}

// resetSearch clears the visited/cost/parent state before a path search.
// The full-grid reset per search is intentional simplicity over incremental
// bookkeeping.
func (g *Grid) resetSearch() {
	for i := range g.visited {
		g.visited[i] = false
		g.cost[i] = 0
		g.parent[i] = -1
	}
}
