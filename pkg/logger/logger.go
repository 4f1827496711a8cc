package logger

import (
	"log/slog"
	"os"
	"strings"
)

var log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

// Init configures the process-wide logger. Production gets JSON at info level,
// everything else gets human readable text at debug level.
func Init(environment string) {
	var handler slog.Handler

	switch strings.ToLower(environment) {
	case "production", "prod":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	case "test":
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	log = slog.New(handler)
	slog.SetDefault(log)
}

// Get returns the underlying slog logger.
func Get() *slog.Logger {
	return log
}

func Debug(msg string, args ...any) {
	log.Debug(msg, normalize(args)...)
}

func Info(msg string, args ...any) {
	log.Info(msg, normalize(args)...)
}

func Warn(msg string, args ...any) {
	log.Warn(msg, normalize(args)...)
}

func Error(msg string, args ...any) {
	log.Error(msg, normalize(args)...)
}

func Fatal(msg string, args ...any) {
	log.Error(msg, normalize(args)...)
	os.Exit(1)
}

// normalize lets callers pass a bare error as the only argument, e.g.
// logger.Error("failed to load session", err).
func normalize(args []any) []any {
	if len(args) == 1 {
		if err, ok := args[0].(error); ok {
			return []any{"error", err}
		}
	}
	return args
}
