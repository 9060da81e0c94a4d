package source

import (
	"encoding/csv"
	"errors"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"financial-report/internal/charset"
	"financial-report/internal/record"
)

// CSV streams records from a comma-delimited file. Column 0 is revenue and
// column 1 is profit. The first row is always discarded as a header, so a file
// without one loses its first data row.
type CSV struct {
	path      string
	logger    zerolog.Logger
	validator *record.Validator
	stats     Stats
	once      once
}

// NewCSV constructs a CSV reader. Nothing is opened until iteration starts.
func NewCSV(path string, logger zerolog.Logger) *CSV {
	logger = logger.With().Str("component", "csv_reader").Str("file", path).Logger()
	return &CSV{
		path:      path,
		logger:    logger,
		validator: record.NewValidator(logger),
	}
}

// Stats returns the counters accumulated so far.
func (c *CSV) Stats() Stats {
	return c.stats
}

// Records returns the single-pass record sequence. The file is closed when the
// sequence ends, fails or the consumer stops early.
func (c *CSV) Records() iter.Seq2[record.FinancialRecord, error] {
	return func(yield func(record.FinancialRecord, error) bool) {
		if !c.once.claim(yield) {
			return
		}

		enc, err := charset.Probe(c.path, c.logger)
		if err != nil {
			c.fail(yield, newStreamError(KindIO, "probe encoding", c.path, err))
			return
		}

		f, err := os.Open(c.path)
		if err != nil {
			c.fail(yield, newStreamError(KindIO, "open csv", c.path, err))
			return
		}
		defer f.Close()

		reader := csv.NewReader(charset.NewReader(f, enc))
		reader.FieldsPerRecord = -1
		reader.LazyQuotes = true
		reader.ReuseRecord = true

		header, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				c.stats.log(c.logger)
				return
			}
			c.fail(yield, readError("read csv header", c.path, err))
			return
		}
		lastLine := endLine(reader, header)

		for {
			row, err := reader.Read()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				c.fail(yield, readError("read csv", c.path, err))
				return
			}

			line, _ := reader.FieldPos(0)
			for blank := lastLine + 1; blank < line; blank++ {
				c.skipShort(blank, 0)
			}
			lastLine = endLine(reader, row)

			if len(row) < 2 {
				c.skipShort(line, len(row))
				continue
			}
			c.stats.Rows++

			rec, ok := c.validator.Check(row[0], row[1])
			if !ok {
				c.stats.Skipped++
				continue
			}

			c.stats.Records++
			if !yield(rec, nil) {
				return
			}
		}

		c.stats.log(c.logger)
	}
}

// skipShort records a row with fewer than two columns. encoding/csv drops
// empty lines, so those are reported here with zero columns.
func (c *CSV) skipShort(line, columns int) {
	c.stats.Rows++
	c.stats.Skipped++
	c.logger.Warn().Int("line", line).Int("columns", columns).Msg("insufficient columns")
}

// endLine is the line on which row ends, counting newlines inside a quoted
// last field.
func endLine(r *csv.Reader, row []string) int {
	last := len(row) - 1
	line, _ := r.FieldPos(last)
	return line + strings.Count(row[last], "\n")
}

func (c *CSV) fail(yield func(record.FinancialRecord, error) bool, err *StreamError) {
	c.logger.Error().Err(err).Msg("failed to read csv")
	yield(record.FinancialRecord{}, err)
}

var _ Reader = (*CSV)(nil)
