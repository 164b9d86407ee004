// Package drc implements design rule checking over a board document.
//
// Check is a pure function of an immutable document snapshot and the rules in
// force: it never mutates its input and always returns the complete violation
// list rather than aborting at the first finding. The individual checks are
// independent of each other, so they execute concurrently and their results
// are concatenated in a fixed order to keep the output deterministic.
//
// # Checks
//
//   - min-track-width: tracks narrower than the minimum manufacturable width
//   - min-drill: via drills below 90% of the rule drill size
//   - clearance: same-layer track pairs and pad pairs of different nets that
//     sit closer than the required separation
//   - unconnected: nets with a single pad, which can never be routed
//
// The clearance checks are O(n²) in object count. This is a deliberate
// simplicity choice; a spatial index can replace the pairwise scans later
// without changing the violation semantics.
package drc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/copperline/copperline/pkg/board"
	"github.com/copperline/copperline/pkg/errors"
	"github.com/copperline/copperline/pkg/geom"
	"github.com/copperline/copperline/pkg/netlist"
	"github.com/copperline/copperline/pkg/observability"
)

// ViolationType classifies a design rule violation.
type ViolationType string

// Violation types.
const (
	TypeClearance     ViolationType = "clearance"
	TypeMinTrackWidth ViolationType = "min-track-width"
	TypeMinDrill      ViolationType = "min-drill"
	TypeUnconnected   ViolationType = "unconnected"
	TypeOverlap       ViolationType = "overlap" // reserved for copper overlap detection
)

// Severity grades a violation.
type Severity string

// Severity levels.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Violation is a single design rule finding. Violations are pure output
// values, never mutated after creation.
type Violation struct {
	ID       string        `json:"id"`
	Type     ViolationType `json:"type"`
	Severity Severity      `json:"severity"`
	Message  string        `json:"message"`
	Position board.Point   `json:"position"`
	Objects  []string      `json:"objects"`
}

// Report is the outcome of a check run, suitable for export and caching.
type Report struct {
	Violations []Violation `json:"violations"`
	Errors     int         `json:"errors"`
	Warnings   int         `json:"warnings"`
}

// NewReport counts severities over a violation list.
func NewReport(violations []Violation) Report {
	r := Report{Violations: violations}
	for _, v := range violations {
		switch v.Severity {
		case SeverityError:
			r.Errors++
		case SeverityWarning:
			r.Warnings++
		}
	}
	return r
}

// viaDrillTolerance is the fraction of the rule drill size below which a via
// drill violates. The margin absorbs manufacturer rounding.
const viaDrillTolerance = 0.9

// Check runs all design rule checks over the document and returns every
// violation found. The checks run concurrently; results are concatenated in
// check order, then object order, so two runs over identical input produce
// identical violation lists up to generated IDs.
//
// Partially specified objects are tolerated by exclusion: pads with no net
// take part in neither clearance comparisons nor connectivity, and vias
// without a drill value are skipped by the min-drill check.
func Check(ctx context.Context, doc *board.Document, rules board.DesignRules) ([]Violation, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCancelled, err, "design rule check cancelled")
	}

	start := time.Now()
	observability.DRC().OnCheckStart(ctx, len(doc.Tracks), len(doc.Vias), len(doc.Footprints))

	checks := []func() []Violation{
		func() []Violation { return checkTrackWidths(doc.Tracks, rules) },
		func() []Violation { return checkDrills(doc.Vias, rules) },
		func() []Violation { return checkTrackClearance(doc.Tracks, rules) },
		func() []Violation { return checkPadClearance(doc.Footprints, rules) },
		func() []Violation { return checkUnconnected(doc.Footprints) },
	}

	results := make([][]Violation, len(checks))
	var wg sync.WaitGroup
	for i, check := range checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = check()
		}()
	}
	wg.Wait()

	var violations []Violation
	for _, r := range results {
		violations = append(violations, r...)
	}

	observability.DRC().OnCheckComplete(ctx, len(violations), time.Since(start))
	return violations, nil
}

// checkTrackWidths flags tracks narrower than the minimum manufacturable
// width. The violation is anchored at the track's middle point by array
// index, not arc length.
func checkTrackWidths(tracks []board.Track, rules board.DesignRules) []Violation {
	var out []Violation
	for _, t := range tracks {
		if t.Width >= rules.MinTrackWidth {
			continue
		}
		var anchor board.Point
		if len(t.Points) > 0 {
			anchor = t.Points[len(t.Points)/2]
		}
		out = append(out, Violation{
			ID:       uuid.NewString(),
			Type:     TypeMinTrackWidth,
			Severity: SeverityError,
			Message:  fmt.Sprintf("track %s width %.3fmm is below the minimum %.3fmm", t.ID, t.Width, rules.MinTrackWidth),
			Position: anchor,
			Objects:  []string{t.ID},
		})
	}
	return out
}

// checkDrills flags via drills below the tolerated fraction of the rule
// drill size. Vias without a drill value are excluded, not flagged.
func checkDrills(vias []board.Via, rules board.DesignRules) []Violation {
	var out []Violation
	for _, v := range vias {
		if v.Drill == 0 {
			continue
		}
		limit := viaDrillTolerance * rules.ViaDrill
		if v.Drill >= limit {
			continue
		}
		out = append(out, Violation{
			ID:       uuid.NewString(),
			Type:     TypeMinDrill,
			Severity: SeverityError,
			Message:  fmt.Sprintf("via %s drill %.3fmm is below the minimum %.3fmm", v.ID, v.Drill, limit),
			Position: v.Position,
			Objects:  []string{v.ID},
		})
	}
	return out
}

// checkTrackClearance compares every unordered pair of same-layer tracks on
// different nets, segment against segment. The required separation is the
// rule clearance plus half of each track's width; violations use strict
// less-than so a pair at exactly the required distance passes.
func checkTrackClearance(tracks []board.Track, rules board.DesignRules) []Violation {
	var out []Violation
	for i := 0; i < len(tracks); i++ {
		for j := i + 1; j < len(tracks); j++ {
			a, b := &tracks[i], &tracks[j]
			if a.Layer != b.Layer || a.Net == b.Net {
				continue
			}
			required := rules.Clearance + (a.Width+b.Width)/2
			for si := 0; si+1 < len(a.Points); si++ {
				for sj := 0; sj+1 < len(b.Points); sj++ {
					d := geom.SegmentSegmentDistance(
						a.Points[si], a.Points[si+1],
						b.Points[sj], b.Points[sj+1],
					)
					if d >= required {
						continue
					}
					out = append(out, Violation{
						ID:       uuid.NewString(),
						Type:     TypeClearance,
						Severity: SeverityError,
						Message: fmt.Sprintf("track %s (net %s) is %.3fmm from track %s (net %s), required %.3fmm",
							a.ID, a.Net, d, b.ID, b.Net, required),
						Position: geom.Midpoint(a.Points[si], a.Points[si+1]),
						Objects:  []string{a.ID, b.ID},
					})
				}
			}
		}
	}
	return out
}

// padRef is a pad resolved to its absolute position for pairwise comparison.
type padRef struct {
	id  string
	net string
	pos board.Point
	ext float64 // larger pad dimension
}

// checkPadClearance compares every unordered pair of pads on different nets
// by absolute position. The required separation is the rule clearance plus
// the smaller of the two pads' larger dimensions. Pads with no net are
// excluded; no net means no conflict to report.
func checkPadClearance(footprints []board.Footprint, rules board.DesignRules) []Violation {
	var pads []padRef
	for fi := range footprints {
		fp := &footprints[fi]
		for pi := range fp.Pads {
			pad := &fp.Pads[pi]
			if pad.Net == "" {
				continue
			}
			pads = append(pads, padRef{
				id:  fp.ID + "." + pad.ID,
				net: pad.Net,
				pos: fp.PadPosition(pad),
				ext: pad.Size.Max(),
			})
		}
	}

	var out []Violation
	for i := 0; i < len(pads); i++ {
		for j := i + 1; j < len(pads); j++ {
			a, b := pads[i], pads[j]
			if a.net == b.net {
				continue
			}
			required := rules.Clearance + min(a.ext, b.ext)
			d := geom.Distance(a.pos, b.pos)
			if d >= required {
				continue
			}
			out = append(out, Violation{
				ID:       uuid.NewString(),
				Type:     TypeClearance,
				Severity: SeverityError,
				Message: fmt.Sprintf("pad %s (net %s) is %.3fmm from pad %s (net %s), required %.3fmm",
					a.id, a.net, d, b.id, b.net, required),
				Position: geom.Midpoint(a.pos, b.pos),
				Objects:  []string{a.id, b.id},
			})
		}
	}
	return out
}

// checkUnconnected warns about nets with a single pad. A one-pad net has
// nothing to route to and usually indicates a netlist mistake.
func checkUnconnected(footprints []board.Footprint) []Violation {
	var out []Violation
	for _, net := range netlist.Extract(footprints).Unconnected() {
		pad := net.Pads[0]
		out = append(out, Violation{
			ID:       uuid.NewString(),
			Type:     TypeUnconnected,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("net %s has a single pad %s.%s and cannot be routed", net.Name, pad.FootprintID, pad.PadID),
			Position: pad.Position,
			Objects:  []string{pad.FootprintID + "." + pad.PadID},
		})
	}
	return out
}
