package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/yungbote/dashgen-backend/internal/platform/shutdown"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := shutdown.NotifyContext(cmd.Context())
			defer stop()

			a, err := bootstrap(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close(context.WithoutCancel(ctx))

			a.Log.Info("starting dashgen", "version", version, "addr", a.Cfg.HTTP.Addr, "env", a.Cfg.Env)
			return a.Run(ctx)
		},
	}
}
