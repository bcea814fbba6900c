package observability

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

// NewLogger builds the process logger. Logs always go to stderr: stdout
// belongs to the MCP stdio transport and must stay clean. Format "text"
// selects a tint handler for local development; anything else gets JSON.
func NewLogger(level, format string) *slog.Logger {
	lvl := parseLevel(level)

	var handler slog.Handler
	if format == "text" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{Level: lvl})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
