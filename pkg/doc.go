// Package pkg provides the core libraries for Copperline PCB autorouting
// and design-rule verification.
//
// # Overview
//
// Copperline turns an unrouted board document (footprints, pads, nets, an
// outline, and design rules) into copper: it rasterizes the board into a
// grid, routes every net connection with Lee wave expansion, and verifies
// the result against the design rules. The pkg directory is organized into
// these areas:
//
//  1. [board] - Board document model (footprints, pads, tracks, design rules)
//  2. [netlist] - Net extraction and ratsnest connection building
//  3. [geom] - Segment/point distance primitives shared by routing and DRC
//  4. [route] - Grid rasterization, Lee path finding, and the run orchestrator
//  5. [drc] - Design rule checks (clearance, track width, drill, connectivity)
//  6. [io] - JSON import/export of documents, results, and reports
//  7. [ratsnest] - DOT/SVG rendering of unrouted connectivity
//  8. [cache] - Content-addressed result caching (file, Redis, null backends)
//  9. [observability] - Hook registry for router, DRC, and cache telemetry
//
// # Architecture
//
// The typical data flow through Copperline:
//
//	Board document (JSON)
//	         ↓
//	    [netlist] package (extract nets, build connections)
//	         ↓
//	    [route] package (rasterize outline, route each connection)
//	         ↓
//	    [drc] package (verify tracks and pads against design rules)
//	         ↓
//	    Routed document / violation report (JSON)
//
// # Quick Start
//
// Route a board and check the result:
//
//	import (
//	    "context"
//	    "github.com/copperline/copperline/pkg/drc"
//	    "github.com/copperline/copperline/pkg/io"
//	    "github.com/copperline/copperline/pkg/route"
//	)
//
//	// 1. Load the board
//	doc, _ := io.ImportDocument("board.json")
//
//	// 2. Route every connection, consuming progress events
//	router := route.New(doc, route.Config{})
//	events, _ := router.Run(context.Background())
//	var result *route.Result
//	for ev := range events {
//	    if c, ok := ev.(route.Complete); ok {
//	        result = &c.Result
//	    }
//	}
//
//	// 3. Verify the routed board
//	doc.Tracks = result.Tracks
//	violations, _ := drc.Check(context.Background(), doc, doc.Rules)
//	report := drc.NewReport(violations)
//
// # Main Packages
//
// [board] - The document model. A Document holds the outline, footprints
// with rotated pad offsets, existing tracks, and DesignRules. PadPosition
// resolves a pad's world-space location through footprint rotation.
//
// [netlist] - Groups pads by net name and chains each net's pads into
// point-to-point connections in deterministic order. Single-pad nets are
// reported as unconnected.
//
// [route] - The autorouter. A Grid rasterizes the outline bounds into
// uniform cells; FindPath runs 4-connected Lee wave expansion with a fixed
// neighbor order so equal-length paths resolve deterministically. The
// Router routes connections first-come-first-served, blocking a clearance
// halo around each placed track, and streams Progress events followed by
// exactly one Complete or Failed event.
//
// [drc] - Five independent checks run concurrently over the document:
// track-to-track clearance, pad-to-pad clearance, minimum track width,
// minimum via drill, and unconnected nets. Violations carry a position
// anchor and the IDs of the offending objects.
//
// [io] - JSON codecs with validation: documents are checked for unique
// IDs and finite, non-negative dimensions on import, and zero-valued
// design rules are filled with defaults.
//
// [cache] - Content-addressed caching keyed by a hash of the input
// document plus run options. FileCache for the CLI, RedisCache for the
// server, NullCache when caching is disabled.
//
// [observability] - Global hook registry with no-op defaults. Register
// RouterHooks, DRCHooks, or CacheHooks to receive run, check, and cache
// telemetry without coupling the core packages to any logger.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/route/...        # Specific package
//
// [board]: https://pkg.go.dev/github.com/copperline/copperline/pkg/board
// [netlist]: https://pkg.go.dev/github.com/copperline/copperline/pkg/netlist
// [geom]: https://pkg.go.dev/github.com/copperline/copperline/pkg/geom
// [route]: https://pkg.go.dev/github.com/copperline/copperline/pkg/route
// [drc]: https://pkg.go.dev/github.com/copperline/copperline/pkg/drc
// [io]: https://pkg.go.dev/github.com/copperline/copperline/pkg/io
// [ratsnest]: https://pkg.go.dev/github.com/copperline/copperline/pkg/ratsnest
// [cache]: https://pkg.go.dev/github.com/copperline/copperline/pkg/cache
// [observability]: https://pkg.go.dev/github.com/copperline/copperline/pkg/observability
package pkg
