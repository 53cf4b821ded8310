package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/hupe1980/logimesh/config"
	"github.com/hupe1980/logimesh/runner"
	"github.com/hupe1980/logimesh/server"
	"github.com/hupe1980/logimesh/session"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		addr        string
		maxParallel int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mesh, logger, err := opts.setup(cmd)
			if err != nil {
				return err
			}

			cfg := mesh.Config()
			if addr != "" {
				cfg.Server.Addr = addr
			}

			store, err := newStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			r := runner.New(mesh, func(o *runner.Options) {
				o.Store = store
				o.MaxConcurrentRuns = maxParallel
				o.Logger = logger.WithComponent("runner")
			})

			srv := server.New(mesh, r, func(o *server.Options) {
				o.AllowedOrigins = cfg.Server.AllowedOrigins
				o.Logger = logger.WithComponent("server")
			})

			return srv.ListenAndServe(cmd.Context(), cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().IntVar(&maxParallel, "max-parallel", 4, "maximum concurrent runs")

	return cmd
}

// newStore returns a Redis backed run history when configured, an in-memory
// one otherwise.
func newStore(ctx context.Context, cfg *config.Config) (session.Store, error) {
	if cfg.Server.RedisAddr == "" {
		return session.NewInMemoryStore(), nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.Server.RedisAddr})

	store := session.NewRedisStore(client, func(o *session.RedisOptions) {
		o.TTL = cfg.Server.HistoryTTL
		o.Prefix = cfg.Server.RedisPrefix
	})

	if err := store.Ping(ctx); err != nil {
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Server.RedisAddr, err)
	}

	return store, nil
}
