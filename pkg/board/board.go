// Package board defines the PCB document model shared by the autorouter and
// the design rule checker.
//
// The model is a read-only snapshot of the board as seen by the engine:
// footprints with their pads, existing copper (tracks and vias), the board
// outline, and the design rules in force. All linear measures are millimeters
// and all positions are world-space board coordinates.
//
// Documents are plain values with JSON tags so they can be copied across task
// boundaries (CLI, HTTP service, cache) without sharing memory with the
// interactive editor that produced them.
package board

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a position in world-space board coordinates (mm).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vec converts the point to a gonum r2 vector for geometric computation.
func (p Point) Vec() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

// FromVec converts a gonum r2 vector back to a Point.
func FromVec(v r2.Vec) Point { return Point{X: v.X, Y: v.Y} }

// Size is a width/height pair in millimeters.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Max returns the larger of the two dimensions.
func (s Size) Max() float64 { return math.Max(s.W, s.H) }

// PadShape enumerates the supported pad geometries.
type PadShape string

// Supported pad shapes.
const (
	ShapeCircle PadShape = "circle"
	ShapeRect   PadShape = "rect"
	ShapeOval   PadShape = "oval"
)

// MountType distinguishes surface-mount from through-hole pads.
type MountType string

// Supported mount types.
const (
	MountSMD         MountType = "smd"
	MountThroughHole MountType = "through-hole"
)

// Common copper layer names.
const (
	LayerFrontCopper = "F.Cu"
	LayerBackCopper  = "B.Cu"
)

// Pad is a single copper landing on a footprint.
//
// Offset is relative to the footprint origin; use [Footprint.PadPosition] to
// obtain the absolute world-space position. An empty Net means the pad is
// electrically unconnected and takes part in neither routing nor clearance
// comparisons. Drill of 0 means no drill is specified (SMD pads).
type Pad struct {
	ID     string    `json:"id"`
	Net    string    `json:"net,omitempty"`
	Offset Point     `json:"offset"`
	Size   Size      `json:"size"`
	Shape  PadShape  `json:"shape"`
	Mount  MountType `json:"mount"`
	Drill  float64   `json:"drill,omitempty"`
}

// Footprint is a placed component with its pads.
// Footprints are owned by the surrounding document and treated as read-only.
type Footprint struct {
	ID        string  `json:"id"`
	Reference string  `json:"reference,omitempty"`
	Position  Point   `json:"position"`
	Rotation  float64 `json:"rotation,omitempty"` // degrees, counter-clockwise
	Layer     string  `json:"layer,omitempty"`
	Pads      []Pad   `json:"pads"`
}

// PadPosition returns the absolute world-space position of the pad:
// the footprint position plus the pad offset rotated by the footprint angle.
func (f *Footprint) PadPosition(p *Pad) Point {
	if f.Rotation == 0 {
		return Point{X: f.Position.X + p.Offset.X, Y: f.Position.Y + p.Offset.Y}
	}
	rad := f.Rotation * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return Point{
		X: f.Position.X + p.Offset.X*cos - p.Offset.Y*sin,
		Y: f.Position.Y + p.Offset.X*sin + p.Offset.Y*cos,
	}
}

// Track is a routed copper polyline on a single layer.
type Track struct {
	ID     string  `json:"id"`
	Net    string  `json:"net"`
	Layer  string  `json:"layer"`
	Width  float64 `json:"width"`
	Points []Point `json:"points"`
}

// Via is a plated through-hole connecting copper layers.
type Via struct {
	ID       string  `json:"id"`
	Net      string  `json:"net,omitempty"`
	Position Point   `json:"position"`
	Diameter float64 `json:"diameter"`
	Drill    float64 `json:"drill,omitempty"`
}

// DesignRules holds the manufacturing constraints applied during routing and
// verification. All values are millimeters.
type DesignRules struct {
	Clearance     float64 `json:"clearance"`
	TrackWidth    float64 `json:"track_width"`
	ViaDiameter   float64 `json:"via_diameter"`
	ViaDrill      float64 `json:"via_drill"`
	MinTrackWidth float64 `json:"min_track_width"`
}

// DefaultRules returns conservative rules suitable for hobby-grade fabrication.
func DefaultRules() DesignRules {
	return DesignRules{
		Clearance:     0.2,
		TrackWidth:    0.25,
		ViaDiameter:   0.8,
		ViaDrill:      0.4,
		MinTrackWidth: 0.15,
	}
}

// Document is the immutable input snapshot for a routing or DRC run.
type Document struct {
	Outline    []Point     `json:"outline"`
	Footprints []Footprint `json:"footprints"`
	Tracks     []Track     `json:"tracks,omitempty"`
	Vias       []Via       `json:"vias,omitempty"`
	Rules      DesignRules `json:"rules"`
	Layers     []string    `json:"layers,omitempty"`
}

// Bounds is an axis-aligned bounding box in world coordinates.
type Bounds struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// Width returns the horizontal extent of the bounds.
func (b Bounds) Width() float64 { return b.Max.X - b.Min.X }

// Height returns the vertical extent of the bounds.
func (b Bounds) Height() float64 { return b.Max.Y - b.Min.Y }

// OutlineBounds computes the axis-aligned bounding box over all outline
// vertices. The second return value is false when the outline is empty.
func (d *Document) OutlineBounds() (Bounds, bool) {
	if len(d.Outline) == 0 {
		return Bounds{}, false
	}
	b := Bounds{Min: d.Outline[0], Max: d.Outline[0]}
	for _, p := range d.Outline[1:] {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
	}
	return b, true
}
