package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/qmkwire/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve wiring diagrams over HTTP",
		Long: `Serve wiring diagrams over HTTP.

Endpoints:
  GET  /healthz
  GET  /pins
  GET  /keyboards/{path}?layout=&format=&translator=&refresh=
  POST /render?layout=&format=&translator=   (keyboard.json body)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			runner, store, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer store.Close()

			return server.New(runner, c.Logger).ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "do not cache fetched documents")
	return cmd
}
