package record

import (
	"fmt"
	"math"
	"strconv"
)

// FinancialRecord is an immutable revenue/profit pair. Two records with the
// same field values are the same record.
type FinancialRecord struct {
	revenue float64
	profit  float64
}

// Key is a stable identity derived from the record's field values.
type Key [2]uint64

// New builds a record from finite values.
func New(revenue, profit float64) (FinancialRecord, error) {
	if !isFinite(revenue) || !isFinite(profit) {
		return FinancialRecord{}, fmt.Errorf("record values must be finite: revenue=%v profit=%v", revenue, profit)
	}
	return FinancialRecord{revenue: normaliseZero(revenue), profit: normaliseZero(profit)}, nil
}

// Revenue returns the revenue component.
func (r FinancialRecord) Revenue() float64 { return r.revenue }

// Profit returns the profit component.
func (r FinancialRecord) Profit() float64 { return r.profit }

// Margin returns profit/revenue. ok is false when revenue is zero.
func (r FinancialRecord) Margin() (margin float64, ok bool) {
	if r.revenue == 0 {
		return 0, false
	}
	return r.profit / r.revenue, true
}

// Key returns the IEEE-754 bit patterns of both fields.
func (r FinancialRecord) Key() Key {
	return Key{math.Float64bits(r.revenue), math.Float64bits(r.profit)}
}

// Less orders records by revenue, then profit.
func (r FinancialRecord) Less(other FinancialRecord) bool {
	if r.revenue != other.revenue {
		return r.revenue < other.revenue
	}
	return r.profit < other.profit
}

func (r FinancialRecord) String() string {
	return "(" + strconv.FormatFloat(r.revenue, 'f', -1, 64) + ", " + strconv.FormatFloat(r.profit, 'f', -1, 64) + ")"
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// -0 and +0 compare equal, so they must share a key.
func normaliseZero(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}
