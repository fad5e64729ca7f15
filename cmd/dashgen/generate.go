package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yungbote/dashgen-backend/internal/modules/dashboard"
	"github.com/yungbote/dashgen-backend/internal/render"
	"github.com/yungbote/dashgen-backend/internal/spreadsheet"
)

type generateOptions struct {
	mode       string
	model      string
	csvPath    string
	widget     bool
	widgetType string
	format     string
}

func newGenerateCmd() *cobra.Command {
	var opts generateOptions
	cmd := &cobra.Command{
		Use:   "generate <prompt>",
		Short: "Generate a dashboard and print it.",
		Example: `  dashgen generate "LeBron James career" --mode research
  dashgen generate "sales by region" --csv sales.xlsx --format json
  dashgen generate "iphone market share" --widget --widget-type number`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := render.ParseFormat(opts.format)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			a, err := bootstrap(ctx, true)
			if err != nil {
				return err
			}
			defer a.Close(context.WithoutCancel(ctx))

			return runGenerate(ctx, cmd.OutOrStdout(), a.Services.Dashboard, strings.Join(args, " "), opts, f)
		},
	}
	cmd.Flags().StringVar(&opts.mode, "mode", "research", "research or api")
	cmd.Flags().StringVar(&opts.model, "model", "", "model id override")
	cmd.Flags().StringVar(&opts.csvPath, "csv", "", "CSV or XLSX file to analyze")
	cmd.Flags().BoolVar(&opts.widget, "widget", false, "generate a single widget instead of a dashboard")
	cmd.Flags().StringVar(&opts.widgetType, "widget-type", "", "preferred chart type for --widget (bar, line, number)")
	cmd.Flags().StringVar(&opts.format, "format", "table", "table or json")
	return cmd
}

func runGenerate(ctx context.Context, out io.Writer, svc dashboard.Usecases, prompt string, opts generateOptions, f render.Format) error {
	csv := ""
	if opts.csvPath != "" {
		text, err := readSpreadsheet(opts.csvPath)
		if err != nil {
			return err
		}
		csv = text
	}

	switch {
	case opts.widget:
		w, err := svc.GenerateWidget(ctx, dashboard.WidgetInput{
			Prompt:     prompt,
			WidgetType: opts.widgetType,
			CSV:        csv,
			Model:      opts.model,
		})
		if err != nil {
			return err
		}
		return render.Widget(out, w, f)
	case csv != "":
		d, err := svc.GenerateCSVDashboard(ctx, dashboard.CSVInput{Prompt: prompt, CSV: csv, Model: opts.model})
		if err != nil {
			return err
		}
		return render.Dashboard(out, d, f)
	default:
		d, err := svc.GenerateDashboard(ctx, dashboard.GenerateInput{Prompt: prompt, Mode: opts.mode, Model: opts.model})
		if err != nil {
			return err
		}
		return render.Dashboard(out, d, f)
	}
}

func readSpreadsheet(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text, err := spreadsheet.FromUpload(filepath.Base(path), data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return text, nil
}
