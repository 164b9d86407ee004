package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/copperline/copperline/pkg/errors"
	"github.com/copperline/copperline/pkg/io"
	"github.com/copperline/copperline/pkg/netlist"
	"github.com/copperline/copperline/pkg/ratsnest"
)

// ratsnestCommand creates the ratsnest visualization command.
func (c *CLI) ratsnestCommand() *cobra.Command {
	var (
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "ratsnest <board.json>",
		Short: "Render the unrouted connectivity as DOT or SVG",
		Long: `Ratsnest extracts the point-to-point connections implied by shared net
membership and renders them as a Graphviz diagram, one cluster per net.

The output format follows the file extension of --output: .dot writes the
DOT source, .svg renders through Graphviz. Without --output the DOT source
goes to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := io.ImportDocument(args[0])
			if err != nil {
				return err
			}

			nl := netlist.Extract(doc.Footprints)
			dot := ratsnest.ToDOT(nl, ratsnest.Options{Detailed: detailed})

			if output == "" {
				fmt.Print(dot)
				return nil
			}

			var data []byte
			switch strings.ToLower(filepath.Ext(output)) {
			case ".dot":
				data = []byte(dot)
			case ".svg":
				data, err = ratsnest.RenderSVG(dot)
				if err != nil {
					return errors.Wrap(errors.ErrCodeInternal, err, "render SVG")
				}
			default:
				return errors.New(errors.ErrCodeUnsupported, "unsupported output format %s (use .dot or .svg)", filepath.Ext(output))
			}

			if err := os.WriteFile(output, data, 0644); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "write %s", output)
			}
			printSuccess("Rendered %d nets, %d connections", len(nl.Nets), len(nl.Connections()))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (.dot or .svg; default: DOT to stdout)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include pad positions in node labels")

	return cmd
}
