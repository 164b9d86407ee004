package cli

import (
	"github.com/spf13/cobra"

	"github.com/copperline/copperline/internal/server"
)

// serveCommand creates the serve command for the HTTP service.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the routing and DRC engine over HTTP",
		Long: `Serve exposes the engine as a JSON API:

  POST /api/v1/route   route a board document
  POST /api/v1/drc     run design rule checks
  GET  /healthz        liveness probe

Results are cached in the configured backend (Redis for shared deployments,
the file cache otherwise). The server shuts down gracefully on SIGINT.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.Config.Server.Addr
			}

			backend := c.newCache(ctx, false)
			defer backend.Close()

			srv := server.New(server.Config{
				Addr:   addr,
				Logger: loggerFromContext(ctx),
				Cache:  backend,
			})
			printInfo("Listening on %s", addr)
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: from config)")

	return cmd
}
