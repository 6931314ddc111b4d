package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is the application logger instance
var Logger = zerolog.Nop()

// Init configures the process logger. format is "json" or "console";
// console output is colorized only when writing to a terminal-like stream.
func Init(level, format string) zerolog.Logger {
	Logger = New(os.Stdout, level, format)
	log.Logger = Logger
	return Logger
}

// New builds a logger writing to out without touching the global instance.
func New(out io.Writer, level, format string) zerolog.Logger {
	if strings.ToLower(format) == "json" {
		return zerolog.New(out).Level(ParseLevel(level)).With().
			Timestamp().
			Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    out != os.Stdout && out != os.Stderr,
	}
	return zerolog.New(output).Level(ParseLevel(level)).With().
		Timestamp().
		Logger()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
