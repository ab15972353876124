// Package logging builds the structured logger shared by every component.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/phsym/console-slog"
)

// New returns a logger writing to w at the named level ("debug", "info",
// "warn", "error"). Console output is human-oriented and colored; otherwise
// records are JSON with a "ts" time key.
func New(w io.Writer, level string, pretty bool) *slog.Logger {
	lv := &slog.LevelVar{}
	lv.Set(ParseLevel(level))

	var handler slog.Handler
	if pretty {
		handler = console.NewHandler(w, &console.HandlerOptions{
			Level:      lv,
			TimeFormat: "15:04:05.000",
		})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: lv,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey && len(groups) == 0 {
					a.Key = "ts"
				}
				return a
			},
		})
	}
	return slog.New(handler)
}

// ParseLevel maps a level name to a slog.Level. Unknown names map to Info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// Component returns l (or a discarding logger when l is nil) tagged with the
// component name.
func Component(l *slog.Logger, name string) *slog.Logger {
	if l == nil {
		l = Discard()
	}
	return l.With("component", name)
}
