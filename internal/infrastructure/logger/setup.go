package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/LavaJover/freight-auction-service/internal/config"
)

// Setup builds the process logger from log_config and installs it as slog.Default.
func Setup(cfg config.LogConfig) *slog.Logger {
	var out io.Writer = os.Stdout
	if cfg.LogOutput == "stderr" {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	var handler slog.Handler
	if strings.EqualFold(cfg.LogFormat, "json") {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	l := slog.New(handler)
	slog.SetDefault(l)
	return l
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
