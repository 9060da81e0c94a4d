package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (string, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()

	cfg := filepath.Join(dir, "finreport.yaml")
	content := "logging:\n  error_log: " + filepath.Join(dir, "errors.log") + "\nreport:\n  color: false\n"
	require.NoError(t, os.WriteFile(cfg, []byte(content), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() {
		_ = shutdown()
		appHandle = nil
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		_ = rootCmd.Flags().Set("style", "")
	})
	return cfg, &out
}

func TestRootRendersReport(t *testing.T) {
	cfg, out := setup(t)
	data := filepath.Join(filepath.Dir(cfg), "sales.csv")
	require.NoError(t, os.WriteFile(data, []byte("revenue,profit\n1000,10\n1000,10\n"), 0o644))

	rootCmd.SetArgs([]string{"--config", cfg, data})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "  1,000.00 |     +10.00 |    1.00%")
	assert.Contains(t, out.String(), "Total Rows: 1 | Total Rev: $1,000.00")
}

func TestRootRejectsUnknownStyle(t *testing.T) {
	cfg, _ := setup(t)
	data := filepath.Join(filepath.Dir(cfg), "sales.csv")
	require.NoError(t, os.WriteFile(data, []byte("revenue,profit\n1,1\n"), 0o644))

	rootCmd.SetArgs([]string{"--config", cfg, "--style", "fancy", data})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --style")
}

func TestRootRequiresOneFile(t *testing.T) {
	cfg, _ := setup(t)

	rootCmd.SetArgs([]string{"--config", cfg})
	assert.Error(t, rootCmd.Execute())
}

func TestVersionCommand(t *testing.T) {
	_, out := setup(t)

	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "version: dev")
}
