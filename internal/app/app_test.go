package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financial-report/internal/config"
	"financial-report/internal/report"
	"financial-report/internal/source"
)

func testApp(out *bytes.Buffer, logs *bytes.Buffer) *App {
	cfg := &config.Config{
		App:    config.AppConfig{Name: "finreport", Environment: "test"},
		Input:  config.InputConfig{RevenueKey: "revenue", ProfitKey: "profit"},
		Report: config.ReportConfig{Style: "simple"},
	}
	a := NewApp(cfg, zerolog.New(logs).Level(zerolog.InfoLevel))
	a.Out = out
	return a
}

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReportCSV(t *testing.T) {
	var out, logs bytes.Buffer
	a := testApp(&out, &logs)
	path := writeInput(t, "q1.csv", "revenue,profit\n1000,10\n2000,17\n1000,10\nbad,1\n")

	require.NoError(t, a.Report(context.Background(), ReportOptions{Path: path}))

	assert.Contains(t, out.String(), "Generating report for: "+path)
	assert.Contains(t, out.String(), "Total Rows: 2 | Total Rev: $3,000.00")
	assert.Contains(t, logs.String(), `"duplicates":1`)
	assert.Contains(t, logs.String(), `"skipped":1`)
	assert.Contains(t, logs.String(), a.RunID)
	assert.Contains(t, logs.String(), `"app":"finreport"`)
	assert.Contains(t, logs.String(), `"env":"test"`)
}

func TestReportJSONCustomKeysAndGrid(t *testing.T) {
	var out, logs bytes.Buffer
	a := testApp(&out, &logs)
	path := writeInput(t, "q1.json", `[{"income":2500,"net":-170}]`)

	err := a.Report(context.Background(), ReportOptions{Path: path, RevenueKey: "income", ProfitKey: "net", Style: "grid"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "|   2,500.00 |    -170.00 |   -6.80% |")
}

func TestReportEmpty(t *testing.T) {
	var out, logs bytes.Buffer
	a := testApp(&out, &logs)
	path := writeInput(t, "empty.csv", "revenue,profit\nx,y\n")

	require.NoError(t, a.Report(context.Background(), ReportOptions{Path: path}))
	assert.Contains(t, out.String(), report.EmptyNotice)
}

func TestReportFatalErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		kind source.ErrorKind
	}{
		{"unsupported extension", func(t *testing.T) string { return writeInput(t, "data.txt", "1,2\n") }, source.KindUnsupported},
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "gone.csv") }, source.KindIO},
		{"malformed json", func(t *testing.T) string { return writeInput(t, "bad.json", "[1,") }, source.KindMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, logs bytes.Buffer
			a := testApp(&out, &logs)

			err := a.Report(context.Background(), ReportOptions{Path: tt.path(t)})
			require.Error(t, err)
			assert.True(t, source.IsKind(err, tt.kind), "got %v", err)
			assert.Empty(t, out.String())
			assert.Contains(t, logs.String(), `"level":"error"`)
		})
	}
}

func TestReportCancelled(t *testing.T) {
	var out, logs bytes.Buffer
	a := testApp(&out, &logs)
	path := writeInput(t, "data.csv", "revenue,profit\n1,1\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := a.Report(ctx, ReportOptions{Path: path})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

func TestReportSameKeysIgnoredForCSV(t *testing.T) {
	var out, logs bytes.Buffer
	a := testApp(&out, &logs)
	path := writeInput(t, "data.csv", "revenue,profit\n100,10\n")

	err := a.Report(context.Background(), ReportOptions{Path: path, RevenueKey: "v", ProfitKey: "v"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Total Rows: 1 | Total Rev: $100.00")
}

func TestReportSameKeysUnsupportedExtension(t *testing.T) {
	var out, logs bytes.Buffer
	a := testApp(&out, &logs)
	path := writeInput(t, "data.txt", "1,2\n")

	err := a.Report(context.Background(), ReportOptions{Path: path, RevenueKey: "v", ProfitKey: "v"})
	assert.True(t, source.IsKind(err, source.KindUnsupported), "got %v", err)
}

func TestReportSameKeysJSONReadsFieldTwice(t *testing.T) {
	var out, logs bytes.Buffer
	a := testApp(&out, &logs)
	path := writeInput(t, "data.json", `[{"v":50}]`)

	err := a.Report(context.Background(), ReportOptions{Path: path, RevenueKey: "v", ProfitKey: "v"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "     50.00 |     +50.00 |  100.00%")
}
