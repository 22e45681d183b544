package shared

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// NewLogger builds the process logger. debug overrides level.
func NewLogger(level string, debug, jsonFormat bool) (*log.Logger, error) {
	lvl := log.InfoLevel
	if level != "" {
		parsed, err := log.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log level %q: %w", level, err)
		}
		lvl = parsed
	}
	if debug {
		lvl = log.DebugLevel
	}

	opts := log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	}
	if jsonFormat {
		opts.Formatter = log.JSONFormatter
		opts.TimeFormat = time.RFC3339Nano
	}
	return log.NewWithOptions(os.Stderr, opts), nil
}
