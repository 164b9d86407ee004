// Package ratsnest renders the unrouted connectivity of a board as a
// Graphviz diagram: one node per pad, one edge per ratsnest connection,
// grouped into a cluster per net.
package ratsnest

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/copperline/copperline/pkg/netlist"
)

// Options configures ratsnest rendering.
type Options struct {
	// Detailed includes pad world positions in node labels.
	// When false, only the footprint.pad reference is shown.
	Detailed bool
}

// ToDOT converts a netlist to Graphviz DOT format. Each net becomes a
// subgraph cluster labelled with the net name; pads connect in chain order,
// matching the connections the router will attempt.
//
// The resulting DOT string can be rendered with [RenderSVG].
func ToDOT(nl *netlist.Netlist, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph ratsnest {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=10];\n")
	buf.WriteString("\n")

	for i, net := range nl.Nets {
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n", net.Name)
		for _, pad := range net.Pads {
			fmt.Fprintf(&buf, "    %q [%s];\n", padID(pad), strings.Join(padAttrs(pad, opts.Detailed), ", "))
		}
		for j := 0; j+1 < len(net.Pads); j++ {
			fmt.Fprintf(&buf, "    %q -- %q;\n", padID(net.Pads[j]), padID(net.Pads[j+1]))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func padID(p netlist.PadRef) string {
	return p.FootprintID + "." + p.PadID
}

func padAttrs(p netlist.PadRef, detailed bool) []string {
	label := padID(p)
	if detailed {
		label = fmt.Sprintf("%s\n(%.1f, %.1f)", label, p.Position.X, p.Position.Y)
	}
	return []string{fmt.Sprintf("label=%q", label)}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
