package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"maps"
	"os"
	"slices"

	"github.com/rs/zerolog"

	"financial-report/internal/charset"
	"financial-report/internal/record"
)

// Keys names the object fields holding revenue and profit.
type Keys struct {
	Revenue string
	Profit  string
}

// DefaultKeys returns the field names used when none are configured.
func DefaultKeys() Keys {
	return Keys{Revenue: "revenue", Profit: "profit"}
}

// JSON reads a document whose top level is an array of objects or pairs.
//
// The whole document is decoded before the first record is yielded, unlike CSV
// which streams row by row. Memory use is therefore proportional to file size.
type JSON struct {
	path      string
	keys      Keys
	logger    zerolog.Logger
	validator *record.Validator
	stats     Stats
	once      once
}

// NewJSON constructs a JSON reader. Empty keys fall back to DefaultKeys.
func NewJSON(path string, keys Keys, logger zerolog.Logger) *JSON {
	defaults := DefaultKeys()
	if keys.Revenue == "" {
		keys.Revenue = defaults.Revenue
	}
	if keys.Profit == "" {
		keys.Profit = defaults.Profit
	}

	logger = logger.With().Str("component", "json_reader").Str("file", path).Logger()
	return &JSON{
		path:      path,
		keys:      keys,
		logger:    logger,
		validator: record.NewValidator(logger),
	}
}

// Stats returns the counters accumulated so far.
func (j *JSON) Stats() Stats {
	return j.stats
}

// Records returns the single-pass record sequence.
func (j *JSON) Records() iter.Seq2[record.FinancialRecord, error] {
	return func(yield func(record.FinancialRecord, error) bool) {
		if !j.once.claim(yield) {
			return
		}

		items, err := j.load()
		if err != nil {
			j.logger.Error().Err(err).Msg("failed to read json")
			yield(record.FinancialRecord{}, err)
			return
		}

		if len(items) == 0 {
			j.logger.Warn().Msg("json file contained no list data")
		} else {
			j.checkDrift(items[0])
		}

		for _, item := range items {
			j.stats.Rows++

			rawRevenue, rawProfit, ok := j.extract(item)
			if !ok {
				j.stats.Skipped++
				continue
			}

			rec, ok := j.validator.Check(rawRevenue, rawProfit)
			if !ok {
				j.stats.Skipped++
				continue
			}

			j.stats.Records++
			if !yield(rec, nil) {
				return
			}
		}

		j.stats.log(j.logger)
	}
}

func (j *JSON) load() ([]any, error) {
	f, err := os.Open(j.path)
	if err != nil {
		return nil, newStreamError(KindIO, "open json", j.path, err)
	}
	defer f.Close()

	dec := json.NewDecoder(charset.NewReader(f, charset.UTF8))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, decodeError(j.path, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return nil, newStreamError(KindMalformed, "decode json", j.path, errors.New("unexpected data after top-level value"))
		}
		return nil, decodeError(j.path, err)
	}

	items, ok := doc.([]any)
	if !ok {
		return nil, nil
	}
	return items, nil
}

// checkDrift flags a first object that lacks the configured keys. Validation
// rejects the affected rows anyway, so this only surfaces the likely cause.
func (j *JSON) checkDrift(first any) {
	obj, ok := first.(map[string]any)
	if !ok {
		return
	}
	_, hasRevenue := obj[j.keys.Revenue]
	_, hasProfit := obj[j.keys.Profit]
	if hasRevenue && hasProfit {
		return
	}

	j.logger.Error().
		Str("severity", "critical").
		Str("revenue_key", j.keys.Revenue).
		Str("profit_key", j.keys.Profit).
		Strs("found", slices.Sorted(maps.Keys(obj))).
		Msg("format drift detected: configured keys missing")
}

// extract pulls the raw pair out of an object or positional array. Other item
// shapes are skipped without a diagnostic.
func (j *JSON) extract(item any) (any, any, bool) {
	switch v := item.(type) {
	case map[string]any:
		return v[j.keys.Revenue], v[j.keys.Profit], true
	case []any:
		if len(v) < 2 {
			return nil, nil, false
		}
		return v[0], v[1], true
	default:
		return nil, nil, false
	}
}

func decodeError(path string, err error) *StreamError {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case charset.IsDecodeError(err):
		return newStreamError(KindEncoding, "decode json", path, err)
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		return newStreamError(KindMalformed, "decode json", path, fmt.Errorf("invalid json file: %w", err))
	default:
		return newStreamError(KindIO, "read json", path, err)
	}
}

var _ Reader = (*JSON)(nil)
