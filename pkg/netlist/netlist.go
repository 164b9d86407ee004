// Package netlist derives the ratsnest — the unrouted point-to-point
// connections implied by shared net membership — from a board's footprints.
//
// Pads are grouped by net name in encounter order (the order footprints and
// their pads appear in the document), and each net's pads are chained
// pairwise: a net with pads [A, B, C] yields the connections A–B and B–C.
// The chain ordering is a deliberate simplification over minimum-spanning-tree
// or star topologies and downstream code depends on it being stable.
package netlist

import (
	"github.com/copperline/copperline/pkg/board"
)

// PadRef identifies a pad within a document and carries its resolved
// world-space position.
type PadRef struct {
	FootprintID string      `json:"footprint_id"`
	PadID       string      `json:"pad_id"`
	Net         string      `json:"net"`
	Position    board.Point `json:"position"`
}

// Connection is a single ratsnest line between two pads of the same net.
type Connection struct {
	Net  string      `json:"net"`
	From board.Point `json:"from"`
	To   board.Point `json:"to"`
}

// Net groups the pads that share one net name, in encounter order.
type Net struct {
	Name string   `json:"name"`
	Pads []PadRef `json:"pads"`
}

// Netlist is the extracted connectivity of a document.
type Netlist struct {
	Nets []Net `json:"nets"`
}

// Extract groups pads by net name and returns the netlist.
//
// Pads with an empty net name are skipped. Nets appear in the order their
// first pad is encountered; within a net, pads keep document order. Extract
// is a pure function with no side effects on the document.
func Extract(footprints []board.Footprint) *Netlist {
	index := make(map[string]int)
	nl := &Netlist{}

	for fi := range footprints {
		fp := &footprints[fi]
		for pi := range fp.Pads {
			pad := &fp.Pads[pi]
			if pad.Net == "" {
				continue
			}
			ref := PadRef{
				FootprintID: fp.ID,
				PadID:       pad.ID,
				Net:         pad.Net,
				Position:    fp.PadPosition(pad),
			}
			i, ok := index[pad.Net]
			if !ok {
				i = len(nl.Nets)
				index[pad.Net] = i
				nl.Nets = append(nl.Nets, Net{Name: pad.Net})
			}
			nl.Nets[i].Pads = append(nl.Nets[i].Pads, ref)
		}
	}
	return nl
}

// Connections chains each net's pads in encounter order: N pads yield N-1
// connections linking pad[i] to pad[i+1]. Nets with fewer than two pads yield
// no connections.
func (nl *Netlist) Connections() []Connection {
	var conns []Connection
	for _, net := range nl.Nets {
		for i := 0; i+1 < len(net.Pads); i++ {
			conns = append(conns, Connection{
				Net:  net.Name,
				From: net.Pads[i].Position,
				To:   net.Pads[i+1].Position,
			})
		}
	}
	return conns
}

// Unconnected returns the nets that have exactly one pad. These cannot be
// routed and are reported by the design rule checker as warnings.
func (nl *Netlist) Unconnected() []Net {
	var single []Net
	for _, net := range nl.Nets {
		if len(net.Pads) == 1 {
			single = append(single, net)
		}
	}
	return single
}
