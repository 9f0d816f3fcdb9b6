package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
)

type Logger struct {
	*slog.Logger
}

// ParseLevel accepts the slog level names (debug, info, warn, error), falling back to info
func ParseLevel(level string) slog.Level {
	var parsed slog.Level
	if err := parsed.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return parsed
}

func BuildLogger(level slog.Level) *Logger {
	return BuildLoggerWithOutput(os.Stderr, level)
}

func BuildLoggerWithOutput(output io.Writer, level slog.Level) *Logger {
	logger := Logger{Logger: slog.New(slog.NewJSONHandler(output, &slog.HandlerOptions{Level: level}))}
	return &logger
}

func BuildLoggerFromCtx(ctx *gin.Context) *Logger {
	logger := Logger{Logger: slog.Default().With("path", ctx.Request.URL.Path)}
	return &logger
}

func (l *Logger) WithError(err error) *Logger {
	modifiedLogger := Logger{Logger: l.With("error", err.Error())}
	return &modifiedLogger
}

// SetAsDefault makes l the logger returned by slog.Default, which request scoped loggers are derived from
func (l *Logger) SetAsDefault() {
	slog.SetDefault(l.Logger)
}
