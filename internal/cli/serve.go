package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/codemeta/pkg/cache"
	"github.com/matzehuels/codemeta/pkg/config"
	"github.com/matzehuels/codemeta/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the validate, enhance and generate operations over HTTP",
		Long: `Serve starts a JSON HTTP API:

  GET  /healthz
  GET  /v1/profiles/{version}
  POST /v1/validate?schema=&strict=
  POST /v1/enhance?schema=&complete=
  POST /v1/generate   {"repository": "https://github.com/owner/repo"}

Registry responses are cached in memory unless Redis is configured.`,
		Args: args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.Config.Server.Addr
			}

			var (
				backend cache.Cache
				err     error
			)
			if c.Config.Cache.Backend == config.CacheFile {
				backend, err = cache.NewMemoryCache(0)
			} else {
				backend, err = c.newCache(ctx)
			}
			if err != nil {
				return err
			}
			defer backend.Close()

			srv := server.New(server.Options{
				Source: c.newSource(backend),
				Schema: c.version(),
				Logger: c.Logger,
			})
			c.Logger.Info("listening", "addr", addr, "schema", c.version())
			if err := server.ListenAndServe(ctx, addr, srv); err != nil {
				return err
			}
			c.Logger.Info("server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, else :8080)")
	return cmd
}
