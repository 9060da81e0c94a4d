package app

import (
	"context"
	"fmt"
	"iter"
	"os/signal"
	"syscall"

	"financial-report/internal/pipeline"
	"financial-report/internal/record"
	"financial-report/internal/report"
	"financial-report/internal/source"
)

// Report runs the ingestion pipeline for one file and prints the table.
// Stream-level failures are returned; nothing is printed in that case.
func (a *App) Report(ctx context.Context, opts ReportOptions) error {
	if opts.Path == "" {
		return fmt.Errorf("input file must be provided")
	}

	revenueKey, profitKey := a.Config.ResolveKeys(opts.RevenueKey, opts.ProfitKey)

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := a.Logger.With().Str("component", "app").Logger()

	p, err := pipeline.Assemble(opts.Path, pipeline.Options{
		Keys: source.Keys{Revenue: revenueKey, Profit: profitKey},
	}, a.Logger)
	if err != nil {
		logger.Error().Err(err).Str("file", opts.Path).Msg("unsupported input")
		return err
	}

	totals, err := report.Render(a.Out, p.Path(), cancellable(ctx, p.Records()), a.renderOptions(opts.Style))
	if err != nil {
		return err
	}

	summary := p.Summary()
	logger.Info().
		Int("read", summary.Read).
		Int("skipped", summary.Skipped).
		Int("duplicates", summary.Duplicates).
		Int("unique", summary.Unique).
		Str("total_revenue", totals.Revenue.String()).
		Msg("report complete")
	return nil
}

// cancellable stops the sequence with ctx.Err() once ctx is done.
func cancellable(ctx context.Context, seq iter.Seq2[record.FinancialRecord, error]) iter.Seq2[record.FinancialRecord, error] {
	return func(yield func(record.FinancialRecord, error) bool) {
		for rec, err := range seq {
			if err == nil {
				if cerr := ctx.Err(); cerr != nil {
					yield(record.FinancialRecord{}, cerr)
					return
				}
			}
			if !yield(rec, err) {
				return
			}
		}
	}
}
