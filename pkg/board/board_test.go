package board

import (
	"math"
	"testing"
)

func TestPadPositionNoRotation(t *testing.T) {
	fp := Footprint{
		Position: Point{X: 10, Y: 20},
		Pads:     []Pad{{ID: "1", Offset: Point{X: 1.5, Y: -2}}},
	}
	got := fp.PadPosition(&fp.Pads[0])
	if got != (Point{X: 11.5, Y: 18}) {
		t.Errorf("PadPosition = %v, want {11.5 18}", got)
	}
}

func TestPadPositionRotation(t *testing.T) {
	tests := []struct {
		name     string
		rotation float64
		offset   Point
		want     Point
	}{
		{"90 degrees", 90, Point{X: 1, Y: 0}, Point{X: 10, Y: 11}},
		{"180 degrees", 180, Point{X: 1, Y: 0}, Point{X: 9, Y: 10}},
		{"270 degrees", 270, Point{X: 1, Y: 0}, Point{X: 10, Y: 9}},
		{"90 degrees y offset", 90, Point{X: 0, Y: 1}, Point{X: 9, Y: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp := Footprint{
				Position: Point{X: 10, Y: 10},
				Rotation: tt.rotation,
				Pads:     []Pad{{ID: "1", Offset: tt.offset}},
			}
			got := fp.PadPosition(&fp.Pads[0])
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Errorf("PadPosition = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSizeMax(t *testing.T) {
	if got := (Size{W: 2, H: 3}).Max(); got != 3 {
		t.Errorf("Max = %g, want 3", got)
	}
	if got := (Size{W: 5, H: 1}).Max(); got != 5 {
		t.Errorf("Max = %g, want 5", got)
	}
}

func TestOutlineBounds(t *testing.T) {
	doc := Document{Outline: []Point{
		{X: 5, Y: 2}, {X: -1, Y: 8}, {X: 3, Y: -4},
	}}
	b, ok := doc.OutlineBounds()
	if !ok {
		t.Fatal("expected bounds for a non-empty outline")
	}
	if b.Min != (Point{X: -1, Y: -4}) || b.Max != (Point{X: 5, Y: 8}) {
		t.Errorf("bounds = %+v", b)
	}
	if b.Width() != 6 || b.Height() != 12 {
		t.Errorf("width/height = %g/%g, want 6/12", b.Width(), b.Height())
	}
}

func TestOutlineBoundsEmpty(t *testing.T) {
	var doc Document
	if _, ok := doc.OutlineBounds(); ok {
		t.Error("empty outline should report no bounds")
	}
}

func TestDefaultRules(t *testing.T) {
	r := DefaultRules()
	if r.Clearance <= 0 || r.TrackWidth <= 0 || r.ViaDrill <= 0 || r.MinTrackWidth <= 0 {
		t.Errorf("defaults must be positive: %+v", r)
	}
	if r.MinTrackWidth > r.TrackWidth {
		t.Errorf("default track width %g must satisfy the minimum %g", r.TrackWidth, r.MinTrackWidth)
	}
}
