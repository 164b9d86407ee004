package route

import (
	"context"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/copperline/copperline/pkg/board"
	"github.com/copperline/copperline/pkg/errors"
	"github.com/copperline/copperline/pkg/netlist"
	"github.com/copperline/copperline/pkg/observability"
)

// Config controls a routing run.
type Config struct {
	// Resolution is the grid cell side length in millimeters.
	// Defaults to DefaultResolution when zero.
	Resolution float64 `json:"resolution,omitempty"`

	// PreferredLayer is the copper layer routed tracks are placed on.
	// Defaults to board.LayerFrontCopper when empty.
	PreferredLayer string `json:"preferred_layer,omitempty"`

	// Logger receives per-connection debug output. Defaults to a discarding
	// logger when nil.
	Logger *log.Logger `json:"-"`

	// EventBuffer is the capacity of the event channel. Defaults to the
	// connection count so a run never blocks on a slow consumer.
	EventBuffer int `json:"-"`
}

// setDefaults applies default values in place.
func (c *Config) setDefaults() {
	if c.Resolution == 0 {
		c.Resolution = DefaultResolution
	}
	if c.PreferredLayer == "" {
		c.PreferredLayer = board.LayerFrontCopper
	}
	if c.Logger == nil {
		c.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Router routes every ratsnest connection of a document, one at a time, in
// extraction order. It is deliberately greedy and non-optimal: it never rips
// up or retries a failed connection, and earlier connections constrain later
// ones through the blocked state they leave behind.
type Router struct {
	doc   *board.Document
	rules board.DesignRules
	cfg   Config
}

// New creates a router over an immutable document snapshot. The document's
// design rules supply the track width and clearance.
func New(doc *board.Document, cfg Config) *Router {
	cfg.setDefaults()
	return &Router{doc: doc, rules: doc.Rules, cfg: cfg}
}

// Run validates the configuration, builds the grid, and starts the routing
// goroutine. Configuration errors (bad resolution, empty outline, oversized
// grid) are returned synchronously before any routing begins.
//
// The returned channel delivers zero or more [Progress] events and then
// exactly one terminal event ([Complete] or [Failed]) before being closed.
func (r *Router) Run(ctx context.Context) (<-chan Event, error) {
	grid, err := NewGrid(r.doc.Outline, r.cfg.Resolution)
	if err != nil {
		return nil, err
	}

	conns := netlist.Extract(r.doc.Footprints).Connections()

	buf := r.cfg.EventBuffer
	if buf == 0 {
		buf = len(conns) + 1
	}
	events := make(chan Event, buf)

	go func() {
		defer close(events)
		r.route(ctx, grid, conns, events)
	}()
	return events, nil
}

// route is the single-threaded body of a run. Connections are processed
// strictly sequentially because each connection's obstacle avoidance depends
// on the cumulative blocked state left by all previous connections.
func (r *Router) route(ctx context.Context, grid *Grid, conns []netlist.Connection, events chan<- Event) {
	logger := r.cfg.Logger
	start := time.Now()
	observability.Router().OnRunStart(ctx, len(conns))

	haloRadius := int(math.Ceil(r.rules.Clearance / grid.Resolution()))

	result := Result{Total: len(conns)}
	for i, conn := range conns {
		if err := ctx.Err(); err != nil {
			wrapped := errors.Wrap(errors.ErrCodeCancelled, err, "routing cancelled after %d of %d connections", i, len(conns))
			observability.Router().OnRunComplete(ctx, result.Routed, result.Failed, time.Since(start), wrapped)
			events <- Failed{Err: wrapped}
			return
		}

		connStart := time.Now()
		track, ok := r.routeOne(ctx, grid, conn, haloRadius)
		if ok {
			result.Tracks = append(result.Tracks, track)
			result.Routed++
			logger.Debug("routed connection", "net", conn.Net, "points", len(track.Points))
		} else {
			result.Failed++
			logger.Debug("failed connection", "net", conn.Net, "from", conn.From, "to", conn.To)
		}
		observability.Router().OnConnection(ctx, conn.Net, ok, time.Since(connStart))

		events <- Progress{
			Fraction: float64(i+1) / float64(len(conns)),
			Routed:   result.Routed,
			Failed:   result.Failed,
		}
	}

	observability.Router().OnRunComplete(ctx, result.Routed, result.Failed, time.Since(start), nil)
	events <- Complete{Result: result}
}

// routeOne attempts a single connection. Failures (endpoints off-grid,
// degenerate zero-length connections, unreachable targets) are reported via
// the ok return, never as errors: one unroutable connection must not abort
// the run.
func (r *Router) routeOne(ctx context.Context, grid *Grid, conn netlist.Connection, haloRadius int) (board.Track, bool) {
	startCell, ok := grid.CellAt(conn.From)
	if !ok {
		return board.Track{}, false
	}
	endCell, ok := grid.CellAt(conn.To)
	if !ok {
		return board.Track{}, false
	}
	if startCell == endCell {
		return board.Track{}, false
	}

	var path []Cell
	var found bool
	grid.withUnblocked([]Cell{startCell, endCell}, func() {
		path, found = grid.FindPath(ctx, startCell, endCell)
	})
	if !found {
		return board.Track{}, false
	}

	points := make([]board.Point, len(path))
	for i, c := range path {
		points[i] = grid.World(c)
	}
	// Block the clearance halo around every cell of the raw path by walking
	// each straight run between consecutive simplified waypoints.
	for i := 0; i+1 < len(path); i++ {
		blockRun(grid, path[i], path[i+1], haloRadius)
	}
	if len(path) == 1 {
		grid.BlockHalo(path[0], haloRadius)
	}

	return board.Track{
		ID:     uuid.NewString(),
		Net:    conn.Net,
		Layer:  r.cfg.PreferredLayer,
		Width:  r.rules.TrackWidth,
		Points: points,
	}, true
}

// blockRun blocks the halo around every cell on the axis-aligned run between
// two consecutive simplified waypoints (endpoints included).
func blockRun(g *Grid, from, to Cell, radius int) {
	dr := sign(to.Row - from.Row)
	dc := sign(to.Col - from.Col)
	for c := from; ; c = (Cell{Row: c.Row + dr, Col: c.Col + dc}) {
		g.BlockHalo(c, radius)
		if c == to {
			break
		}
	}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
