package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/copperline/copperline/pkg/cache"
	"github.com/copperline/copperline/pkg/drc"
	"github.com/copperline/copperline/pkg/errors"
	"github.com/copperline/copperline/pkg/io"
	"github.com/copperline/copperline/pkg/observability"
)

// drcCommand creates the drc command.
func (c *CLI) drcCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		strict  bool
	)

	cmd := &cobra.Command{
		Use:   "drc <board.json>",
		Short: "Run design rule checks against a board document",
		Long: `Drc verifies a board document against its design rules: minimum track
width, minimum via drill, copper clearance between same-layer tracks and
between pads of different nets, and unconnected single-pad nets.

Violations are printed as a table; use --output to also write the full JSON
report. With --strict the command fails when any error-severity violation
is found, for CI pipelines.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", args[0])
			}
			doc, err := io.ImportDocument(args[0])
			if err != nil {
				return err
			}

			backend := c.newCache(ctx, noCache)
			defer backend.Close()
			key := cache.NewDefaultKeyer().ReportKey(cache.Hash(raw), cache.ReportKeyOpts{Rules: doc.Rules})

			var report drc.Report
			cached := false
			if data, hit, err := backend.Get(ctx, key); err == nil && hit {
				if err := json.Unmarshal(data, &report); err == nil {
					observability.Cache().OnCacheHit(ctx, "report")
					cached = true
				}
			}

			if !cached {
				observability.Cache().OnCacheMiss(ctx, "report")
				p := newProgress(logger)
				violations, err := drc.Check(ctx, doc, doc.Rules)
				if err != nil {
					return err
				}
				report = drc.NewReport(violations)
				p.done(fmt.Sprintf("Checked %d tracks, %d vias, %d footprints",
					len(doc.Tracks), len(doc.Vias), len(doc.Footprints)))

				if data, err := json.Marshal(report); err == nil {
					if err := backend.Set(ctx, key, data, cache.TTLReport); err != nil {
						logger.Warn("cache write failed", "err", err)
					} else {
						observability.Cache().OnCacheSet(ctx, "report", len(data))
					}
				}
			}

			printReport(report)
			if output != "" {
				if err := io.ExportReport(report, output); err != nil {
					return err
				}
				printFile(output)
			}

			if strict && report.Errors > 0 {
				return errors.New(errors.ErrCodeInvalidDocument, "%d design rule errors", report.Errors)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the report JSON to this path")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the result cache")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when error-severity violations exist")

	return cmd
}

// printReport renders the violation table.
func printReport(report drc.Report) {
	if len(report.Violations) == 0 {
		printSuccess("No design rule violations")
		return
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	rows := make([][]string, len(report.Violations))
	for i, v := range report.Violations {
		severity := StyleError.Render(string(v.Severity))
		if v.Severity == drc.SeverityWarning {
			severity = StyleWarning.Render(string(v.Severity))
		}
		rows[i] = []string{
			severity,
			string(v.Type),
			fmt.Sprintf("(%.2f, %.2f)", v.Position.X, v.Position.Y),
			v.Message,
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Severity", "Type", "Position", "Message").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle()
		})
	fmt.Println(t.Render())

	if report.Errors > 0 {
		printError("%d errors, %d warnings", report.Errors, report.Warnings)
	} else {
		printWarning("%d warnings", report.Warnings)
	}
}
