package pipeline

import (
	"iter"

	"github.com/rs/zerolog"

	"financial-report/internal/record"
)

// Dedupe drops records equal to one already seen. Memory grows with the number
// of distinct records, not with input size.
type Dedupe struct {
	seen    map[record.Key]struct{}
	removed int
	logger  zerolog.Logger
}

// NewDedupe constructs an empty filter.
func NewDedupe(logger zerolog.Logger) *Dedupe {
	return &Dedupe{
		seen:   make(map[record.Key]struct{}),
		logger: logger.With().Str("component", "dedupe").Logger(),
	}
}

// Removed returns the number of duplicates dropped so far.
func (d *Dedupe) Removed() int {
	return d.removed
}

// Filter wraps seq, yielding only first occurrences in their original order.
// An upstream error is passed through and ends the sequence.
func (d *Dedupe) Filter(seq iter.Seq2[record.FinancialRecord, error]) iter.Seq2[record.FinancialRecord, error] {
	return func(yield func(record.FinancialRecord, error) bool) {
		for rec, err := range seq {
			if err != nil {
				yield(rec, err)
				return
			}

			key := rec.Key()
			if _, dup := d.seen[key]; dup {
				d.removed++
				continue
			}
			d.seen[key] = struct{}{}

			if !yield(rec, nil) {
				return
			}
		}

		if d.removed > 0 {
			d.logger.Info().Int("duplicates", d.removed).Msgf("removed %d duplicate records", d.removed)
		}
	}
}
