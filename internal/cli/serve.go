package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ttgen/internal/server"
	"github.com/matzehuels/ttgen/pkg/config"
)

// serveCommand creates the serve command for the HTTP compile service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP compile service",
		Long: `Run the HTTP compile service.

POST a scene document to /v1/compile and receive the save JSON. Compiled saves
are archived in the configured store and served from /v1/saves/{id}. The
cache and store backends come from the config file ([cache] and [store]).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: config server.addr)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe wires the runner and store into the server and blocks until ctx ends.
func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache, "")
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	st, err := c.newStore(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	if st != nil {
		defer st.Close()
	}

	srv := server.New(runner, st, loggerFromContext(ctx))
	srv.Defaults = c.compileOptions()
	if c.Config.Server.MaxBodySize > 0 {
		srv.MaxBodySize = c.Config.Server.MaxBodySize
	}

	cacheBackend := c.Config.Cache.Backend
	if noCache {
		cacheBackend = config.CacheNone
	}
	c.out.keyValue("listen", addr)
	c.out.keyValue("cache", cacheBackend)
	c.out.keyValue("store", c.Config.Store.Backend)
	if st == nil {
		c.out.warning("Save archive disabled; /v1/saves is empty")
	}
	c.out.blank()

	err = srv.ListenAndServe(ctx, addr)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
