package ratsnest

import (
	"strings"
	"testing"

	"github.com/copperline/copperline/pkg/board"
	"github.com/copperline/copperline/pkg/netlist"
)

func sampleNetlist() *netlist.Netlist {
	footprints := []board.Footprint{
		{ID: "U1", Position: board.Point{X: 10, Y: 10}, Pads: []board.Pad{
			{ID: "1", Net: "VCC", Size: board.Size{W: 1, H: 1}},
			{ID: "2", Net: "GND", Offset: board.Point{X: 2, Y: 0}, Size: board.Size{W: 1, H: 1}},
		}},
		{ID: "C1", Position: board.Point{X: 20, Y: 10}, Pads: []board.Pad{
			{ID: "1", Net: "VCC", Size: board.Size{W: 1, H: 1}},
			{ID: "2", Net: "GND", Offset: board.Point{X: 2, Y: 0}, Size: board.Size{W: 1, H: 1}},
		}},
	}
	return netlist.Extract(footprints)
}

func TestToDOTClustersPerNet(t *testing.T) {
	dot := ToDOT(sampleNetlist(), Options{})

	if !strings.HasPrefix(dot, "graph ratsnest {") {
		t.Errorf("output should be an undirected graph:\n%s", dot)
	}
	for _, want := range []string{
		"subgraph cluster_0",
		"subgraph cluster_1",
		`label="VCC"`,
		`label="GND"`,
		`"U1.1" -- "C1.1"`,
		`"U1.2" -- "C1.2"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("output missing %s:\n%s", want, dot)
		}
	}
}

func TestToDOTChainOrder(t *testing.T) {
	// Three pads chain pairwise; no edge skips the middle pad.
	footprints := []board.Footprint{
		{ID: "A", Pads: []board.Pad{{ID: "1", Net: "N", Size: board.Size{W: 1, H: 1}}}},
		{ID: "B", Pads: []board.Pad{{ID: "1", Net: "N", Size: board.Size{W: 1, H: 1}}}},
		{ID: "C", Pads: []board.Pad{{ID: "1", Net: "N", Size: board.Size{W: 1, H: 1}}}},
	}
	dot := ToDOT(netlist.Extract(footprints), Options{})

	if !strings.Contains(dot, `"A.1" -- "B.1"`) || !strings.Contains(dot, `"B.1" -- "C.1"`) {
		t.Errorf("expected chained edges A-B and B-C:\n%s", dot)
	}
	if strings.Contains(dot, `"A.1" -- "C.1"`) {
		t.Errorf("chain must not contain the shortcut edge A-C:\n%s", dot)
	}
}

func TestToDOTDetailedLabels(t *testing.T) {
	dot := ToDOT(sampleNetlist(), Options{Detailed: true})
	if !strings.Contains(dot, "(10.0, 10.0)") {
		t.Errorf("detailed labels should include world positions:\n%s", dot)
	}
}
