// Package source turns CSV and JSON files into lazy, single-pass sequences of
// validated financial records.
//
// Each reader yields records in file order. Invalid rows are logged and
// skipped. A stream-level failure (missing file, undecodable bytes, malformed
// document) is yielded once as a *StreamError and ends the sequence.
package source

import (
	"iter"

	"github.com/rs/zerolog"

	"financial-report/internal/record"
)

// Reader produces records from one input file.
type Reader interface {
	Records() iter.Seq2[record.FinancialRecord, error]
	Stats() Stats
}

// Stats counts what a reader saw. Rows excludes the CSV header.
type Stats struct {
	Rows    int
	Skipped int
	Records int
}

func (s Stats) log(logger zerolog.Logger) {
	logger.Info().
		Int("rows", s.Rows).
		Int("skipped", s.Skipped).
		Int("records", s.Records).
		Msg("source exhausted")
}

// once guards a sequence against a second iteration.
type once struct {
	used bool
}

func (o *once) claim(yield func(record.FinancialRecord, error) bool) bool {
	if o.used {
		yield(record.FinancialRecord{}, ErrConsumed)
		return false
	}
	o.used = true
	return true
}
