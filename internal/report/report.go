// Package report renders de-duplicated records as a text table.
package report

import (
	"bytes"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"financial-report/internal/record"
)

// Style selects the table layout.
type Style string

const (
	StyleSimple Style = "simple"
	StyleGrid   Style = "grid"
)

// EmptyNotice is printed instead of a table when no record survived.
const EmptyNotice = "No valid records to display."

const (
	revenueWidth = 10
	profitWidth  = 10
	marginWidth  = 8
	numberFormat = "#,###.##"
)

// Options configure rendering.
type Options struct {
	Style Style
	// Color highlights negative profit when the output is a colour terminal.
	Color bool
}

// Totals summarise the rendered rows.
type Totals struct {
	Rows    int
	Revenue decimal.Decimal
}

// Render consumes records and writes the report to w. Output is buffered and
// written only after the sequence ends cleanly, so a failing stream prints no
// partial table.
func Render(w io.Writer, title string, records iter.Seq2[record.FinancialRecord, error], opts Options) (Totals, error) {
	t := newTable(opts, lipgloss.NewRenderer(w))

	var body bytes.Buffer
	totals := Totals{Revenue: decimal.Zero}
	for rec, err := range records {
		if err != nil {
			return totals, err
		}
		if totals.Rows == 0 {
			t.header(&body)
		}
		t.row(&body, rec)
		totals.Rows++
		totals.Revenue = totals.Revenue.Add(decimal.NewFromFloat(rec.Revenue()))
	}

	var out bytes.Buffer
	if title != "" {
		fmt.Fprintf(&out, "Generating report for: %s...\n\n", title)
	}
	if totals.Rows == 0 {
		fmt.Fprintln(&out, EmptyNotice)
	} else {
		out.Write(body.Bytes())
		t.footer(&out, totals)
	}

	_, err := out.WriteTo(w)
	return totals, err
}

type table struct {
	style    Style
	negative lipgloss.Style
	color    bool
}

func newTable(opts Options, renderer *lipgloss.Renderer) *table {
	style := opts.Style
	if style != StyleGrid {
		style = StyleSimple
	}
	return &table{
		style:    style,
		negative: renderer.NewStyle().Foreground(lipgloss.Color("9")),
		color:    opts.Color,
	}
}

func (t *table) header(w io.Writer) {
	cells := []string{
		pad("REVENUE", revenueWidth),
		pad("PROFIT", profitWidth),
		pad("MARGIN", marginWidth),
	}
	if t.style == StyleGrid {
		fmt.Fprintln(w, gridRule("-"))
		fmt.Fprintln(w, gridRow(cells))
		fmt.Fprintln(w, gridRule("="))
		return
	}
	fmt.Fprintln(w, simpleRow(cells))
	fmt.Fprintln(w, simpleRule())
}

func (t *table) row(w io.Writer, rec record.FinancialRecord) {
	profit := pad(FormatSigned(rec.Profit()), profitWidth)
	if t.color && rec.Profit() < 0 {
		profit = t.negative.Render(profit)
	}
	cells := []string{
		pad(FormatAmount(rec.Revenue()), revenueWidth),
		profit,
		pad(FormatMargin(rec), marginWidth),
	}
	if t.style == StyleGrid {
		fmt.Fprintln(w, gridRow(cells))
		fmt.Fprintln(w, gridRule("-"))
		return
	}
	fmt.Fprintln(w, simpleRow(cells))
}

func (t *table) footer(w io.Writer, totals Totals) {
	if t.style == StyleSimple {
		fmt.Fprintln(w, simpleRule())
	}
	fmt.Fprintf(w, "Total Rows: %d | Total Rev: $%s\n", totals.Rows, FormatAmount(totals.Revenue.Round(2).InexactFloat64()))
}

// FormatAmount renders v with thousands separators and two decimals.
func FormatAmount(v float64) string {
	return humanize.FormatFloat(numberFormat, v)
}

// FormatSigned is FormatAmount with an explicit sign.
func FormatSigned(v float64) string {
	if v < 0 {
		return FormatAmount(v)
	}
	return "+" + FormatAmount(v)
}

// FormatMargin renders the margin as a percentage, or N/A when undefined.
func FormatMargin(rec record.FinancialRecord) string {
	m, ok := rec.Margin()
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", m*100)
}

func pad(s string, width int) string {
	return fmt.Sprintf("%*s", width, s)
}

func simpleRow(cells []string) string {
	return strings.Join(cells, " | ")
}

func simpleRule() string {
	return strings.Repeat("-", revenueWidth+profitWidth+marginWidth+6)
}

func gridRow(cells []string) string {
	return "| " + strings.Join(cells, " | ") + " |"
}

func gridRule(fill string) string {
	return "+" + strings.Repeat(fill, revenueWidth+2) +
		"+" + strings.Repeat(fill, profitWidth+2) +
		"+" + strings.Repeat(fill, marginWidth+2) + "+"
}
