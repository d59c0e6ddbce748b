// Package logging configures the zerolog logger used by the tektonik CLI.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LevelFor maps a -v count to a zerolog level.
func LevelFor(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.WarnLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	case verbosity == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// SetupLogger installs a console logger writing to out as the global logger
// and returns it.
func SetupLogger(out io.Writer, verbosity int) zerolog.Logger {
	console := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.Kitchen,
		NoColor:    true,
	}

	logger := zerolog.New(console).Level(LevelFor(verbosity)).With().Timestamp().Logger()
	if verbosity >= 2 {
		logger = logger.With().Caller().Logger()
	}
	log.Logger = logger

	logger.Debug().Int("verbosity", verbosity).Msg("logger initialized")
	return logger
}

// Logger returns the global logger.
func Logger() zerolog.Logger {
	return log.Logger
}

// GetLogger returns the global logger scoped to a component.
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
