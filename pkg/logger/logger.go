package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu            sync.RWMutex
	defaultLogger *slog.Logger
)

// Options selects the handler. Empty fields fall back to the environment:
// production logs JSON at info, everything else text at debug.
type Options struct {
	Env    string
	Level  string
	Format string
	Output io.Writer
}

// Init installs the process logger and makes it the slog default.
func Init(opts Options) *slog.Logger {
	prod := opts.Env == "production"

	fallback := slog.LevelDebug
	if prod {
		fallback = slog.LevelInfo
	}
	hopts := &slog.HandlerOptions{Level: parseLevel(opts.Level, fallback)}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	format := strings.ToLower(opts.Format)
	if format == "" && prod {
		format = "json"
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(out, hopts)
	} else {
		handler = slog.NewTextHandler(out, hopts)
	}

	l := slog.New(handler)
	mu.Lock()
	defaultLogger = l
	mu.Unlock()
	slog.SetDefault(l)
	return l
}

// LoggerWrapper returns the process logger, installing a development logger
// on first use.
func LoggerWrapper() *slog.Logger {
	mu.RLock()
	l := defaultLogger
	mu.RUnlock()
	if l == nil {
		return Init(Options{Env: "development"})
	}
	return l
}

func parseLevel(level string, fallback slog.Level) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return fallback
}
