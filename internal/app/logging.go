package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/azyu/bibleview/pkg/types"
)

// LogFileName is the log file written inside the config directory.
const LogFileName = "bibleview.log"

// parseLevel maps a level name such as "debug" or "WARN" to a slog level.
func parseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

// NewLogger returns a JSON logger writing to w at the configured level.
func NewLogger(w io.Writer, cfg types.LoggingConfig) (*slog.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}
	return slog.New(slog.NewJSONHandler(w, opts)), nil
}

// OpenLogFile opens the log file for appending. The terminal belongs to the
// reader UI, so logs never go to stdout.
func OpenLogFile(cfg types.LoggingConfig, configDir string) (*os.File, error) {
	path := cfg.File
	if path == "" {
		path = filepath.Join(configDir, LogFileName)
	}
	path = expandPath(path)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
