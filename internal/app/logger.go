package app

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/heartmarshall/yomitan-backend/internal/config"
	"github.com/heartmarshall/yomitan-backend/pkg/ctxutil"
)

// NewLogger builds the process logger on os.Stderr and installs it as the
// slog default. Records logged with a request context carry its request_id.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	logger := slog.New(newHandler(os.Stderr, cfg))
	slog.SetDefault(logger)
	return logger
}

// newHandler writes JSON for "json" and source-annotated text otherwise.
func newHandler(w io.Writer, cfg config.LogConfig) slog.Handler {
	text := !strings.EqualFold(cfg.Format, "json")
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level), AddSource: text}

	var h slog.Handler = slog.NewJSONHandler(w, opts)
	if text {
		h = slog.NewTextHandler(w, opts)
	}
	return ctxutil.NewLogHandler(h)
}

// parseLevel accepts slog level names in any case, including offsets such
// as "warn+2", and falls back to info.
func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}
