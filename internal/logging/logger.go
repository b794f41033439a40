// Package logging builds the slog logger shared by the engine.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ParseLevel maps "debug", "info", "warn" and "error" to a slog level.
// Anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// NewLogger returns a text logger at level writing to a timestamped file
// under dir and to console. Either may be empty/nil; with neither the
// logger discards everything. The returned closer flushes the file.
func NewLogger(level, dir string, console io.Writer) (*slog.Logger, io.Closer, error) {
	var writers []io.Writer
	var closer io.Closer = nopCloser{}
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("error creating log directory: %w", err)
		}
		name := "tradepost-" + time.Now().Format("2006-01-02-15-04-05") + ".log"
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return nil, nil, err
		}
		writers = append(writers, f)
		closer = syncCloser{f}
	}
	if console != nil {
		writers = append(writers, console)
	}
	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}

	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key != slog.TimeKey {
				return a
			}
			a.Value = slog.StringValue(a.Value.Time().Format(time.TimeOnly))
			return a
		},
	}
	return slog.New(slog.NewTextHandler(io.MultiWriter(writers...), opts)), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type syncCloser struct{ f *os.File }

func (c syncCloser) Close() error {
	c.f.Sync() //nolint:errcheck
	return c.f.Close()
}
