package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"financial-report/internal/app"
	"financial-report/internal/report"
)

var (
	revKey  string
	profKey string
	style   string
)

func registerReportFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&revKey, "rev-key", "revenue", "JSON key for revenue (handles format drift)")
	cmd.Flags().StringVar(&profKey, "prof-key", "profit", "JSON key for profit")
	cmd.Flags().StringVar(&style, "style", "", "Table style: simple or grid (defaults to config)")
}

func runReport(cmd *cobra.Command, args []string) error {
	opts := app.ReportOptions{Path: args[0]}

	// Unset flags defer to config so a config file can rename the keys.
	if cmd.Flags().Changed("rev-key") {
		opts.RevenueKey = revKey
	}
	if cmd.Flags().Changed("prof-key") {
		opts.ProfitKey = profKey
	}

	switch report.Style(style) {
	case "", report.StyleSimple, report.StyleGrid:
		opts.Style = style
	default:
		return fmt.Errorf("invalid --style %q: use simple or grid", style)
	}

	return getApp().Report(cmd.Context(), opts)
}
