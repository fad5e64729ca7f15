package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yungbote/dashgen-backend/internal/app"
	"github.com/yungbote/dashgen-backend/internal/config"
	"github.com/yungbote/dashgen-backend/internal/platform/logger"
)

// Set by the linker at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

var rootOpts rootOptions

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "dashgen",
		Short:         "Generate chart dashboards from a prompt or a spreadsheet.",
		Long:          `dashgen asks a language model for a dashboard layout, fills every widget with data and serves the result over HTTP, MCP or the terminal.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVar(&rootOpts.configPath, "config", "", "config file (yaml or json); defaults to DASHGEN_CONFIG_PATH or ./config/config.yaml")
	cmd.PersistentFlags().BoolVarP(&rootOpts.verbose, "verbose", "v", false, "log to stderr")

	cmd.AddCommand(newServeCmd(), newGenerateCmd(), newMCPCmd(), newVersionCmd())
	return cmd
}

// Execute runs the command tree.
func Execute() error {
	return newRootCmd().Execute()
}

func loadConfig() (*config.Config, error) {
	if p := strings.TrimSpace(rootOpts.configPath); p != "" {
		return config.LoadFile(p)
	}
	return config.Load()
}

// newLogger builds the process logger. Quiet commands get a discard logger
// unless --verbose is set.
func newLogger(cfg *config.Config, quiet bool) (*logger.Logger, error) {
	if quiet && !rootOpts.verbose {
		return logger.Nop(), nil
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

// bootstrap loads config and wires the application.
func bootstrap(ctx context.Context, quiet bool) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := newLogger(cfg, quiet)
	if err != nil {
		return nil, err
	}
	a, err := app.New(ctx, log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return a, nil
}
