// Package pipeline composes a source reader with the deduplication filter.
package pipeline

import (
	"errors"
	"iter"
	"strings"

	"github.com/rs/zerolog"

	"financial-report/internal/record"
	"financial-report/internal/source"
)

// Options carry format specific settings.
type Options struct {
	Keys source.Keys
}

// Summary aggregates counters from every stage.
type Summary struct {
	Read       int
	Skipped    int
	Duplicates int
	Unique     int
}

// Pipeline is reader -> dedupe over a single input file.
type Pipeline struct {
	path   string
	reader source.Reader
	dedupe *Dedupe
	unique int
}

// Assemble picks a reader by file extension and attaches the deduplication
// filter. The extension match is case-sensitive. No file is touched here.
func Assemble(path string, opts Options, logger zerolog.Logger) (*Pipeline, error) {
	var reader source.Reader
	switch {
	case strings.HasSuffix(path, ".csv"):
		reader = source.NewCSV(path, logger)
	case strings.HasSuffix(path, ".json"):
		reader = source.NewJSON(path, opts.Keys, logger)
	default:
		return nil, &source.StreamError{
			Kind: source.KindUnsupported,
			Op:   "select reader",
			Path: path,
			Err:  errors.New("unsupported file extension, use .csv or .json"),
		}
	}

	return &Pipeline{
		path:   path,
		reader: reader,
		dedupe: NewDedupe(logger),
	}, nil
}

// Path returns the input file.
func (p *Pipeline) Path() string {
	return p.path
}

// Records returns the de-duplicated record sequence. It can be consumed once.
func (p *Pipeline) Records() iter.Seq2[record.FinancialRecord, error] {
	filtered := p.dedupe.Filter(p.reader.Records())
	return func(yield func(record.FinancialRecord, error) bool) {
		for rec, err := range filtered {
			if err == nil {
				p.unique++
			}
			if !yield(rec, err) {
				return
			}
		}
	}
}

// Summary reports counters gathered so far.
func (p *Pipeline) Summary() Summary {
	stats := p.reader.Stats()
	return Summary{
		Read:       stats.Rows,
		Skipped:    stats.Skipped,
		Duplicates: p.dedupe.Removed(),
		Unique:     p.unique,
	}
}
