package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/yungbote/dashgen-backend/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the dashboard tools over MCP stdio.",
		Long:  `Launch an MCP server so agents can call generate_dashboard, generate_csv_dashboard and generate_widget. Logging stays off stdout, which carries the protocol.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := bootstrap(ctx, true)
			if err != nil {
				return err
			}
			defer a.Close(context.WithoutCancel(ctx))
			return mcp.ServeStdio(a.Log, a.Services.Dashboard, version)
		},
	}
}
