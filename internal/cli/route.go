package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/copperline/copperline/pkg/board"
	"github.com/copperline/copperline/pkg/cache"
	"github.com/copperline/copperline/pkg/errors"
	"github.com/copperline/copperline/pkg/io"
	"github.com/copperline/copperline/pkg/observability"
	"github.com/copperline/copperline/pkg/route"
)

// routeCommand creates the route command.
func (c *CLI) routeCommand() *cobra.Command {
	var (
		output     string
		resolution float64
		layer      string
		noCache    bool
		plain      bool
	)

	cmd := &cobra.Command{
		Use:   "route <board.json>",
		Short: "Autoroute the unrouted connections of a board document",
		Long: `Route reads a board document, derives the ratsnest from shared net
membership, and routes each connection in order with a grid-based wave
expansion search. Earlier connections constrain later ones through the
clearance halos they leave behind; failed connections are counted, never
fatal.

Results are cached under a key derived from the document content and the
routing options, so re-routing an unchanged board is instant.`,
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

			if resolution == 0 {
				resolution = c.Config.Resolution
			}
			if layer == "" {
				layer = c.Config.PreferredLayer
			}
			cfg := route.Config{Resolution: resolution, PreferredLayer: layer, Logger: logger}

			backend := c.newCache(ctx, noCache)
			defer backend.Close()
			keyer := cache.NewDefaultKeyer()
			key := keyer.RouteKey(cache.Hash(raw), cache.RouteKeyOpts{
				Resolution:     cfg.Resolution,
				PreferredLayer: cfg.PreferredLayer,
			})

			if data, hit, err := backend.Get(ctx, key); err == nil && hit {
				var res route.Result
				if err := json.Unmarshal(data, &res); err == nil {
					observability.Cache().OnCacheHit(ctx, "route")
					logger.Debug("routing result from cache", "key", key)
					return c.finishRoute(res, output, true)
				}
			}
			observability.Cache().OnCacheMiss(ctx, "route")

			p := newProgress(logger)
			res, err := c.runRouter(ctx, doc, cfg, plain)
			if err != nil {
				return err
			}
			p.done(fmt.Sprintf("Routed %d of %d connections", res.Routed, res.Total))

			if data, err := json.Marshal(res); err == nil {
				if err := backend.Set(ctx, key, data, cache.TTLRoute); err != nil {
					logger.Warn("cache write failed", "err", err)
				} else {
					observability.Cache().OnCacheSet(ctx, "route", len(data))
				}
			}
			return c.finishRoute(res, output, false)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the routing result JSON to this path (default: stdout)")
	cmd.Flags().Float64VarP(&resolution, "resolution", "r", 0, "grid resolution in mm (default: from config)")
	cmd.Flags().StringVarP(&layer, "layer", "l", "", "copper layer for routed tracks (default: from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the result cache")
	cmd.Flags().BoolVar(&plain, "plain", false, "disable the interactive progress display")

	return cmd
}

// runRouter executes a routing run, interactively unless plain output is
// requested or stdout is not a terminal.
func (c *CLI) runRouter(ctx context.Context, doc *board.Document, cfg route.Config, plain bool) (route.Result, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	events, err := route.New(doc, cfg).Run(runCtx)
	if err != nil {
		return route.Result{}, err
	}

	if plain || !isTerminal(os.Stdout) {
		return drainEvents(events)
	}

	model := NewRouteModel(events, cancel)
	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return route.Result{}, errors.Wrap(errors.ErrCodeInternal, err, "progress display")
	}
	m := final.(RouteModel)
	if m.Err != nil {
		return route.Result{}, m.Err
	}
	if m.Result == nil {
		return route.Result{}, errors.New(errors.ErrCodeInternal, "routing run ended without a result")
	}
	return *m.Result, nil
}

// drainEvents consumes a router's event stream without a display.
func drainEvents(events <-chan route.Event) (route.Result, error) {
	for ev := range events {
		switch ev := ev.(type) {
		case route.Complete:
			return ev.Result, nil
		case route.Failed:
			return route.Result{}, ev.Err
		}
	}
	return route.Result{}, errors.New(errors.ErrCodeInternal, "routing run ended without a result")
}

// finishRoute reports the run outcome and writes the result.
func (c *CLI) finishRoute(res route.Result, output string, cached bool) error {
	if res.Failed > 0 {
		printWarning("Routed %d of %d connections", res.Routed, res.Total)
	} else {
		printSuccess("Routed %d of %d connections", res.Routed, res.Total)
	}
	printRunStats(res.Routed, res.Failed, res.Total, cached)

	if output == "" {
		return io.WriteResult(res, os.Stdout)
	}
	if err := io.ExportResult(res, output); err != nil {
		return err
	}
	printFile(output)
	return nil
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
