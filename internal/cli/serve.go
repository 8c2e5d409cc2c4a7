package cli

import (
	"github.com/spf13/cobra"

	"github.com/qcviz/qcviz/internal/server"
)

// serveCommand creates the serve command, which runs the HTTP render
// service.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var flags cacheFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render service",
		Long: `Serve starts an HTTP server exposing the render pipeline as a JSON
API. POST /api/render accepts the same options as the render command
and returns the rendered artifacts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			runner, err := c.newRunner(ctx, flags)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(runner, logger)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	flags.register(cmd)

	return cmd
}
