package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

var stdout io.Writer = os.Stdout

// NewConsoleHandler returns the stdout handler for the given format:
// "text" gives colored tint output for local runs, anything else JSON.
func NewConsoleHandler(w io.Writer, format string) slog.Handler {
	if strings.EqualFold(format, "text") {
		return tint.NewHandler(w, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
		})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
}

// Setup installs the console handler as the global slog logger.
func Setup(format string) slog.Handler {
	handler := NewConsoleHandler(stdout, format)
	slog.SetDefault(slog.New(handler))
	return handler
}
