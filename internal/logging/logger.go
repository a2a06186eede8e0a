package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/insightdelivered/food-ledger/internal/config"
)

// New builds a slog logger writing to w at the configured level and format.
// An empty level means info and an empty format means text.
func New(cfg config.LoggingConfig, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}

	opts := &slog.HandlerOptions{Level: level}
	switch cfg.Format {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}
}

// Component returns l tagged with the name of the subsystem using it.
func Component(l *slog.Logger, name string) *slog.Logger {
	return l.With("component", name)
}
