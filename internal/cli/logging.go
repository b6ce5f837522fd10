package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/djh00t/relcommit/internal/config"
)

// newLogger builds the process logger from the system section.
func newLogger(sys config.SystemConfig, w io.Writer) (*slog.Logger, error) {
	level := slog.LevelInfo
	if sys.LogLevel != "" {
		if err := level.UnmarshalText([]byte(sys.LogLevel)); err != nil {
			return nil, fmt.Errorf("%w: %q", config.ErrInvalidLogLevel, sys.LogLevel)
		}
	}

	opts := &slog.HandlerOptions{Level: level}
	if sys.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
