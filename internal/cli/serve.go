package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphit/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the document store over HTTP",
		Long: `Serve the document store over HTTP.

Documents can be listed, created, replaced, merged, searched and deleted
under /documents. Prometheus metrics are served at /metrics and a liveness
probe at /healthz.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				c.Config.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			metrics := server.NewMetrics()
			svc, closeStore, err := c.storedServiceWith(ctx, metrics.Hooks())
			if err != nil {
				return err
			}
			defer closeStore()

			printInfo("Serving %s store on %s", c.Config.Store.Backend, c.Config.Server.Addr)
			srv := server.New(c.Config.Server, c.Config.Search.Limit, svc, metrics, c.Logger)
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
