package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Config struct {
	Level  string `env:"LEVEL" envDefault:"debug"`
	Pretty bool   `env:"PRETTY" envDefault:"false"`
}

type Logger struct {
	logger zerolog.Logger
}

func NewLogger(cfg *Config) *Logger {
	var w io.Writer = os.Stdout
	if cfg.Pretty {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return New(w, cfg.Level)
}

// New writes JSON lines to w at the given level.
func New(w io.Writer, level string) *Logger {
	zl := zerolog.New(w).Level(getLoggerLevel(level)).With().Timestamp().Logger()
	return &Logger{
		logger: zl,
	}
}

// Zerolog exposes the underlying logger for structured access logs.
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.logger
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.logger.Error().Msgf(format, v...)
}
func (l *Logger) Warn(format string, v ...interface{}) {
	l.logger.Warn().Msgf(format, v...)
}
func (l *Logger) Info(format string, v ...interface{}) {
	l.logger.Info().Msgf(format, v...)
}
func (l *Logger) Debug(format string, v ...interface{}) {
	l.logger.Debug().Msgf(format, v...)
}

func getLoggerLevel(logLevel string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(logLevel)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.DebugLevel
	}
}
