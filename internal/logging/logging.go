package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config describes logger runtime configuration.
type Config struct {
	Level       string `mapstructure:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	Format      string `mapstructure:"format" validate:"omitempty,oneof=json console"`
	TimeFormat  string `mapstructure:"time_format"`
	Caller      bool   `mapstructure:"caller"`
	PrettyPrint bool   `mapstructure:"pretty"`
	// ErrorLog is appended to on every run. Empty disables the file sink.
	ErrorLog string `mapstructure:"error_log"`
}

// NewLogger constructs a zerolog logger writing to console and, when
// configured, the error log file. The returned closer releases the file.
func NewLogger(cfg Config, console io.Writer) (zerolog.Logger, func() error, error) {
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.TimeFormat != "" {
		zerolog.TimeFieldFormat = cfg.TimeFormat
	}

	level := zerolog.WarnLevel
	if parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level)); err == nil && cfg.Level != "" {
		level = parsed
	}

	writers := []io.Writer{consoleWriter(cfg, console)}
	closer := func() error { return nil }

	if cfg.ErrorLog != "" {
		if err := ensureDir(cfg.ErrorLog); err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("create error log dir: %w", err)
		}
		f, err := os.OpenFile(cfg.ErrorLog, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("open error log: %w", err)
		}
		// The error log keeps warnings and above whatever the console level.
		writers = append(writers, &zerolog.FilteredLevelWriter{
			Writer: zerolog.LevelWriterAdapter{Writer: f},
			Level:  zerolog.WarnLevel,
		})
		closer = f.Close
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level)
	builder := logger.With().Timestamp()
	if cfg.Caller {
		builder = builder.Caller()
	}

	return builder.Logger(), closer, nil
}

func consoleWriter(cfg Config, out io.Writer) io.Writer {
	if cfg.PrettyPrint || strings.EqualFold(cfg.Format, "console") {
		return zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: zerolog.TimeFieldFormat,
		}
	}
	return out
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
