package logger

import (
	"log/slog"
	"os"
	"strings"
)

// LevelCritical sits one notch above slog.LevelError. slog has no built-in
// level for it, so the handler renames it on output.
const LevelCritical = slog.Level(12)

// New creates a logger filtering below the named level. Production
// environments get JSON output, everything else text.
func New(level string, addSource bool, environment string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       parseLevel(level),
		AddSource:   addSource,
		ReplaceAttr: renameCritical,
	}

	var handler slog.Handler
	if isProduction(environment) {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler).With(
		slog.String("environment", environment),
	)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "critical":
		return LevelCritical
	case "error":
		return slog.LevelError
	case "warning", "warn":
		return slog.LevelWarn
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

func isProduction(environment string) bool {
	return strings.HasPrefix(strings.ToLower(environment), "prod")
}

func renameCritical(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if lvl, ok := a.Value.Any().(slog.Level); ok && lvl >= LevelCritical {
			a.Value = slog.StringValue("CRITICAL")
		}
	}
	return a
}
