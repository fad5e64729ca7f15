// Package render prints dashboards for terminals.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	domain "github.com/yungbote/dashgen-backend/internal/domain/dashboard"
)

// Format selects the output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format %q (want table or json)", s)
	}
}

var (
	titleColor    = color.New(color.FgCyan, color.Bold)
	fallbackColor = color.New(color.FgYellow)
	okColor       = color.New(color.FgGreen)
)

// maxSummaryPoints bounds how many series points a table cell lists.
const maxSummaryPoints = 4

// Dashboard writes d as a table or as indented JSON.
func Dashboard(w io.Writer, d domain.Dashboard, f Format) error {
	if f == FormatJSON {
		return writeJSON(w, d)
	}

	if _, err := titleColor.Fprintf(w, "%s", d.Name); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  [%s]  %s via %s\n", d.Category, d.DataSource, d.ModelUsed); err != nil {
		return err
	}
	if err := writeWidgetTable(w, d.Widgets); err != nil {
		return err
	}
	generated := time.Unix(0, int64(d.GeneratedAt*float64(time.Second))).UTC().Format(time.RFC3339)
	_, err := fmt.Fprintf(w, "%d widgets, %d with placeholder data, generated %s\n", len(d.Widgets), d.FallbackCount(), generated)
	return err
}

// Widget writes a single widget the same way.
func Widget(w io.Writer, wd domain.Widget, f Format) error {
	if f == FormatJSON {
		return writeJSON(w, wd)
	}
	if _, err := fmt.Fprintf(w, "%s via %s\n", wd.DataSource, wd.ModelUsed); err != nil {
		return err
	}
	return writeWidgetTable(w, []domain.ResolvedWidget{wd.ResolvedWidget})
}

func writeWidgetTable(w io.Writer, widgets []domain.ResolvedWidget) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Widget", "Type", "Data", "Source", "Status"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for i, wd := range widgets {
		status := okColor.Sprint("ok")
		if wd.Fallback {
			status = fallbackColor.Sprint("fallback")
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			wd.Name,
			string(wd.Type),
			Summarize(wd.Data),
			wd.Source,
			status,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// Summarize renders chart data on one line, e.g. "2021=3, 2022=5 (+1 more)".
func Summarize(d domain.ChartData) string {
	if d.Scalar != nil {
		return strings.TrimSpace(formatValue(d.Scalar.Value) + " " + d.Scalar.Label)
	}
	if len(d.Series) == 0 {
		return "-"
	}
	parts := make([]string, 0, maxSummaryPoints)
	for i, p := range d.Series {
		if i == maxSummaryPoints {
			break
		}
		parts = append(parts, p.Name+"="+formatValue(p.Value))
	}
	out := strings.Join(parts, ", ")
	if extra := len(d.Series) - maxSummaryPoints; extra > 0 {
		out += fmt.Sprintf(" (+%d more)", extra)
	}
	return out
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
