package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsNumericInputs(t *testing.T) {
	tests := []struct {
		name        string
		rev, prof   any
		wantRevenue float64
		wantProfit  float64
	}{
		{"plain strings", "100", "10", 100, 10},
		{"signed strings", "+2500", "-170", 2500, -170},
		{"padded strings", "  1000.5 ", "\t17", 1000.5, 17},
		{"exponent", "1e3", "2.5E1", 1000, 25},
		{"json numbers", json.Number("200"), json.Number("20.25"), 200, 20.25},
		{"floats", 300.0, -3.5, 300, -3.5},
		{"ints", 400, int64(4), 400, 4},
		{"zero revenue", "0", "12", 0, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Validate(tt.rev, tt.prof)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRevenue, rec.Revenue())
			assert.Equal(t, tt.wantProfit, rec.Profit())
		})
	}
}

func TestValidateRejectsNonNumericInputs(t *testing.T) {
	tests := []struct {
		name      string
		rev, prof any
	}{
		{"text profit", "200", "x"},
		{"text revenue", "abc", "5"},
		{"missing revenue", nil, "5"},
		{"missing profit", "5", nil},
		{"empty string", "", "1"},
		{"bool", true, "1"},
		{"nan", "NaN", "1"},
		{"inf", "100", "+Inf"},
		{"nested object", map[string]any{"v": 1}, "1"},
		{"thousands separator", "1,000", "1"},
		{"hex float", "0x10p0", "1"},
		{"signed hex float", "100", "-0x1.8p1"},
		{"upper hex float", "0X1P-2", "1"},
		{"digit separator", "1_000", "1"},
		{"hex json number", json.Number("0x10p0"), "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.rev, tt.prof)
			require.Error(t, err)

			var invalid *InvalidValueError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tt.rev, invalid.RawRevenue)
			assert.Equal(t, tt.prof, invalid.RawProfit)
			assert.ErrorIs(t, err, ErrNotNumeric)
		})
	}
}

func TestValidatorCheckLogsRejectedRow(t *testing.T) {
	var buf bytes.Buffer
	v := NewValidator(zerolog.New(&buf))

	_, ok := v.Check("200", "x")
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "skipping invalid data row")
	assert.Contains(t, buf.String(), `"prof":"x"`)

	buf.Reset()
	rec, ok := v.Check("100", "10")
	assert.True(t, ok)
	assert.Equal(t, 100.0, rec.Revenue())
	assert.Empty(t, buf.String())
}

func TestMargin(t *testing.T) {
	rec, err := New(2000, 17)
	require.NoError(t, err)
	m, ok := rec.Margin()
	require.True(t, ok)
	assert.Equal(t, 17.0/2000.0, m)

	zero, err := New(0, 10)
	require.NoError(t, err)
	_, ok = zero.Margin()
	assert.False(t, ok)

	neg, err := New(-50, 5)
	require.NoError(t, err)
	m, ok = neg.Margin()
	require.True(t, ok)
	assert.Equal(t, -0.1, m)
}

func TestNewRejectsNonFinite(t *testing.T) {
	_, err := New(math.NaN(), 1)
	assert.Error(t, err)
	_, err = New(1, math.Inf(-1))
	assert.Error(t, err)
}

func TestStructuralEquality(t *testing.T) {
	a, _ := Validate("100", "10")
	b, _ := Validate(100.0, json.Number("10.0"))
	assert.Equal(t, a, b)
	assert.Equal(t, a.Key(), b.Key())
	assert.True(t, a == b)

	negZero, _ := New(math.Copysign(0, -1), 1)
	posZero, _ := New(0, 1)
	assert.Equal(t, posZero.Key(), negZero.Key())

	c, _ := New(100, 11)
	assert.NotEqual(t, a.Key(), c.Key())
	assert.True(t, a.Less(c))
	assert.False(t, c.Less(a))
}

func TestString(t *testing.T) {
	rec, _ := New(2500, -170)
	assert.Equal(t, "(2500, -170)", rec.String())
}
