package app

import (
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"financial-report/internal/config"
	"financial-report/internal/report"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Out    io.Writer
	RunID  string
}

// NewApp constructs a new application handle. Report output goes to stdout.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	runID := uuid.NewString()
	fields := logger.With().Str("run_id", runID)
	if cfg.App.Name != "" {
		fields = fields.Str("app", cfg.App.Name)
	}
	if cfg.App.Environment != "" {
		fields = fields.Str("env", cfg.App.Environment)
	}
	return &App{
		Config: cfg,
		Logger: fields.Logger(),
		Out:    os.Stdout,
		RunID:  runID,
	}
}

// ReportOptions hold parameters for a single report run.
type ReportOptions struct {
	Path       string
	RevenueKey string
	ProfitKey  string
	Style      string
}

func (a *App) renderOptions(style string) report.Options {
	if style == "" {
		style = a.Config.Report.Style
	}
	return report.Options{
		Style: report.Style(style),
		Color: a.Config.Report.Color,
	}
}
