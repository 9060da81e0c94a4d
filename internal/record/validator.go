package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// ErrNotNumeric marks a raw value that cannot be coerced to a finite number.
var ErrNotNumeric = errors.New("value is not a finite number")

// InvalidValueError reports the raw pair that failed coercion.
type InvalidValueError struct {
	RawRevenue any
	RawProfit  any
	Err        error
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid data row: rev=%s, prof=%s: %v", describe(e.RawRevenue), describe(e.RawProfit), e.Err)
}

func (e *InvalidValueError) Unwrap() error {
	return e.Err
}

// Validate coerces a raw revenue/profit pair into a record. Zero revenue is
// accepted; the resulting margin is undefined.
func Validate(rawRevenue, rawProfit any) (FinancialRecord, error) {
	revenue, err := toFloat(rawRevenue)
	if err != nil {
		return FinancialRecord{}, &InvalidValueError{RawRevenue: rawRevenue, RawProfit: rawProfit, Err: fmt.Errorf("revenue: %w", err)}
	}
	profit, err := toFloat(rawProfit)
	if err != nil {
		return FinancialRecord{}, &InvalidValueError{RawRevenue: rawRevenue, RawProfit: rawProfit, Err: fmt.Errorf("profit: %w", err)}
	}
	return New(revenue, profit)
}

// Validator applies Validate and logs rejected rows instead of returning them.
type Validator struct {
	logger zerolog.Logger
}

// NewValidator constructs a Validator.
func NewValidator(logger zerolog.Logger) *Validator {
	return &Validator{logger: logger.With().Str("component", "validator").Logger()}
}

// Check returns the record and true, or logs the rejection and returns false.
func (v *Validator) Check(rawRevenue, rawProfit any) (FinancialRecord, bool) {
	rec, err := Validate(rawRevenue, rawProfit)
	if err != nil {
		v.logger.Warn().
			Str("rev", describe(rawRevenue)).
			Str("prof", describe(rawProfit)).
			Err(err).
			Msg("skipping invalid data row")
		return FinancialRecord{}, false
	}
	return rec, true
}

func toFloat(raw any) (float64, error) {
	var (
		v   float64
		err error
	)
	switch t := raw.(type) {
	case nil:
		return 0, fmt.Errorf("missing value: %w", ErrNotNumeric)
	case string:
		v, err = parseDecimal(strings.TrimSpace(t))
	case json.Number:
		v, err = parseDecimal(t.String())
	case float64:
		v = t
	case float32:
		v = float64(t)
	case int:
		v = float64(t)
	case int64:
		v = float64(t)
	case int32:
		v = float64(t)
	case uint64:
		v = float64(t)
	case uint32:
		v = float64(t)
	default:
		return 0, fmt.Errorf("unsupported type %T: %w", raw, ErrNotNumeric)
	}
	if err != nil {
		return 0, fmt.Errorf("%q: %w", raw, ErrNotNumeric)
	}
	if !isFinite(v) {
		return 0, fmt.Errorf("%v: %w", v, ErrNotNumeric)
	}
	return v, nil
}

// parseDecimal accepts decimal notation only. strconv also takes hex floats
// and underscore digit separators, which are not numbers in the input files.
func parseDecimal(s string) (float64, error) {
	digits := strings.TrimLeft(s, "+-")
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") || strings.Contains(s, "_") {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseFloat(s, 64)
}

func describe(raw any) string {
	switch t := raw.(type) {
	case nil:
		return "<missing>"
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
