package drc

import (
	"context"
	"sort"
	"testing"

	"github.com/copperline/copperline/pkg/board"
)

func testRules() board.DesignRules {
	return board.DesignRules{
		Clearance:     0.2,
		TrackWidth:    0.25,
		ViaDiameter:   0.8,
		ViaDrill:      0.4,
		MinTrackWidth: 0.2,
	}
}

func check(t *testing.T, doc *board.Document, rules board.DesignRules) []Violation {
	t.Helper()
	violations, err := Check(context.Background(), doc, rules)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	return violations
}

func ofType(violations []Violation, typ ViolationType) []Violation {
	var out []Violation
	for _, v := range violations {
		if v.Type == typ {
			out = append(out, v)
		}
	}
	return out
}

func horizontalTrack(id, net string, y, width float64) board.Track {
	return board.Track{
		ID:     id,
		Net:    net,
		Layer:  board.LayerFrontCopper,
		Width:  width,
		Points: []board.Point{{X: 0, Y: y}, {X: 10, Y: y}},
	}
}

func TestCheckMinTrackWidth(t *testing.T) {
	tests := []struct {
		name  string
		width float64
		want  int
	}{
		{"below minimum", 0.15, 1},
		{"exactly minimum", 0.2, 0},
		{"above minimum", 0.3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &board.Document{
				Tracks: []board.Track{horizontalTrack("t1", "N1", 0, tt.width)},
			}
			got := ofType(check(t, doc, testRules()), TypeMinTrackWidth)
			if len(got) != tt.want {
				t.Fatalf("got %d min-track-width violations, want %d", len(got), tt.want)
			}
			if tt.want == 1 {
				v := got[0]
				if v.Severity != SeverityError {
					t.Errorf("severity = %s, want error", v.Severity)
				}
				if len(v.Objects) != 1 || v.Objects[0] != "t1" {
					t.Errorf("objects = %v, want [t1]", v.Objects)
				}
				// Anchored at the middle point by array index.
				if v.Position != (board.Point{X: 10, Y: 0}) {
					t.Errorf("anchor = %v, want the midpoint-by-index {10 0}", v.Position)
				}
			}
		})
	}
}

func TestCheckMinDrill(t *testing.T) {
	// With viaDrill = 0.4, the tolerated minimum is 0.36.
	tests := []struct {
		name  string
		drill float64
		want  int
	}{
		{"just above tolerance", 0.39, 0},
		{"well below tolerance", 0.30, 1},
		{"no drill specified", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &board.Document{
				Vias: []board.Via{{ID: "v1", Net: "N1", Position: board.Point{X: 1, Y: 1}, Diameter: 0.8, Drill: tt.drill}},
			}
			got := ofType(check(t, doc, testRules()), TypeMinDrill)
			if len(got) != tt.want {
				t.Fatalf("got %d min-drill violations, want %d", len(got), tt.want)
			}
		})
	}
}

func TestCheckTrackClearanceBoundary(t *testing.T) {
	rules := testRules()
	// Two 0.25mm tracks need clearance + (wA+wB)/2 = 0.2 + 0.25 = 0.45mm.
	required := rules.Clearance + 0.25

	tests := []struct {
		name string
		gap  float64
		want int
	}{
		{"exactly at required distance", required, 0},
		{"one step inside", required - 0.01, 1},
		{"well apart", 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &board.Document{
				Tracks: []board.Track{
					horizontalTrack("t1", "N1", 0, 0.25),
					horizontalTrack("t2", "N2", tt.gap, 0.25),
				},
			}
			got := ofType(check(t, doc, rules), TypeClearance)
			if len(got) != tt.want {
				t.Fatalf("got %d clearance violations, want %d", len(got), tt.want)
			}
			if tt.want == 1 {
				v := got[0]
				if len(v.Objects) != 2 || v.Objects[0] != "t1" || v.Objects[1] != "t2" {
					t.Errorf("objects = %v, want [t1 t2]", v.Objects)
				}
			}
		})
	}
}

func TestCheckTrackClearanceSkipsSameNetAndOtherLayer(t *testing.T) {
	rules := testRules()
	back := horizontalTrack("t2", "N2", 0.1, 0.25)
	back.Layer = board.LayerBackCopper
	doc := &board.Document{
		Tracks: []board.Track{
			horizontalTrack("t1", "N1", 0, 0.25),
			horizontalTrack("t3", "N1", 0.1, 0.25), // same net, touching distance
			back, // different net but other layer
		},
	}
	if got := ofType(check(t, doc, rules), TypeClearance); len(got) != 0 {
		t.Errorf("got %d clearance violations, want 0: %+v", len(got), got)
	}
}

func TestCheckPadClearance(t *testing.T) {
	rules := testRules()
	pad := func(fpID, net string, at board.Point, w, h float64) board.Footprint {
		return board.Footprint{
			ID:       fpID,
			Position: at,
			Pads:     []board.Pad{{ID: "1", Net: net, Size: board.Size{W: w, H: h}}},
		}
	}

	// Required = clearance + min(max dims) = 0.2 + min(2, 1) = 1.2mm.
	tests := []struct {
		name string
		dist float64
		want int
	}{
		{"too close", 1.0, 1},
		{"exactly at required distance", 1.2, 0},
		{"far apart", 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &board.Document{
				Footprints: []board.Footprint{
					pad("A", "N1", board.Point{X: 0, Y: 0}, 2, 1.5),
					pad("B", "N2", board.Point{X: tt.dist, Y: 0}, 1, 0.5),
				},
			}
			got := ofType(check(t, doc, rules), TypeClearance)
			if len(got) != tt.want {
				t.Fatalf("got %d pad clearance violations, want %d", len(got), tt.want)
			}
		})
	}
}

func TestCheckPadClearanceExcludesUnnetted(t *testing.T) {
	doc := &board.Document{
		Footprints: []board.Footprint{
			{ID: "A", Pads: []board.Pad{{ID: "1", Net: "N1", Size: board.Size{W: 1, H: 1}}}},
			{ID: "B", Position: board.Point{X: 0.1, Y: 0}, Pads: []board.Pad{
				{ID: "1", Size: board.Size{W: 1, H: 1}}, // no net: mounting hole
			}},
		},
	}
	if got := ofType(check(t, doc, testRules()), TypeClearance); len(got) != 0 {
		t.Errorf("unnetted pad must not produce clearance violations, got %+v", got)
	}
}

func TestCheckUnconnectedNet(t *testing.T) {
	doc := &board.Document{
		Footprints: []board.Footprint{
			{ID: "A", Pads: []board.Pad{
				{ID: "1", Net: "LONELY", Size: board.Size{W: 1, H: 1}},
				{ID: "2", Net: "PAIRED", Size: board.Size{W: 1, H: 1}},
			}},
			{ID: "B", Position: board.Point{X: 20, Y: 0}, Pads: []board.Pad{
				{ID: "1", Net: "PAIRED", Size: board.Size{W: 1, H: 1}},
			}},
		},
	}
	got := ofType(check(t, doc, testRules()), TypeUnconnected)
	if len(got) != 1 {
		t.Fatalf("got %d unconnected warnings, want 1: %+v", len(got), got)
	}
	if got[0].Severity != SeverityWarning {
		t.Errorf("severity = %s, want warning", got[0].Severity)
	}
}

func TestCheckIdempotent(t *testing.T) {
	doc := &board.Document{
		Tracks: []board.Track{
			horizontalTrack("t1", "N1", 0, 0.1),
			horizontalTrack("t2", "N2", 0.2, 0.25),
		},
		Vias: []board.Via{{ID: "v1", Net: "N1", Drill: 0.1}},
		Footprints: []board.Footprint{
			{ID: "A", Pads: []board.Pad{{ID: "1", Net: "LONELY", Size: board.Size{W: 1, H: 1}}}},
		},
	}
	rules := testRules()

	key := func(v Violation) string {
		return string(v.Type) + "|" + v.Message
	}
	normalize := func(vs []Violation) []string {
		keys := make([]string, len(vs))
		for i, v := range vs {
			keys[i] = key(v)
		}
		sort.Strings(keys)
		return keys
	}

	first := normalize(check(t, doc, rules))
	second := normalize(check(t, doc, rules))
	if len(first) == 0 {
		t.Fatal("expected violations from the fixture")
	}
	if len(first) != len(second) {
		t.Fatalf("run sizes differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("violation sets differ at %d: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestCheckCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Check(ctx, &board.Document{}, testRules()); err == nil {
		t.Error("expected an error for a cancelled context")
	}
}

func TestNewReportCounts(t *testing.T) {
	r := NewReport([]Violation{
		{Severity: SeverityError},
		{Severity: SeverityError},
		{Severity: SeverityWarning},
	})
	if r.Errors != 2 || r.Warnings != 1 {
		t.Errorf("report = %d errors, %d warnings, want 2 and 1", r.Errors, r.Warnings)
	}
}
