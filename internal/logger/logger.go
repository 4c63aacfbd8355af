package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New builds the application logger. Level defaults to info and can be
// overridden with LOG_LEVEL (trace, debug, info, warn, error).
func New() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if parsed, err := zerolog.ParseLevel(raw); err == nil {
			level = parsed
		}
	}

	return zerolog.New(os.Stdout).
		With().
		Timestamp().
		Logger().
		Level(level)
}
