// Package logging configures the application loggers: a human-readable
// text handler on stderr and an optional JSON file logger with rotation.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/yolovision/yolovision/internal/conf"
)

// Init installs the default logger: a text handler on stderr and, when file
// logging is enabled, a rotated JSON file handler alongside it. Debug lowers
// the minimum level. The returned closer flushes the file writer and must be
// called on shutdown.
func Init(settings *conf.Settings) (func() error, error) {
	level := slog.LevelInfo
	if settings.Debug {
		level = slog.LevelDebug
	}

	handler := slog.Handler(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	closer := func() error { return nil }

	if settings.Main.Log.Enabled {
		fileHandler, fileCloser, err := newFileHandler(&settings.Main.Log, level)
		if err != nil {
			return nil, err
		}
		handler = teeHandler{handlers: []slog.Handler{handler, fileHandler}}
		closer = fileCloser
	}

	logger := slog.New(handler)
	if settings.Main.Name != "" {
		logger = logger.With("node", settings.Main.Name)
	}
	slog.SetDefault(logger)
	return closer, nil
}

// newFileHandler creates a JSON handler writing to the configured file path
// using lumberjack for rotation.
func newFileHandler(cfg *conf.LogConfig, level slog.Level) (slog.Handler, func() error, error) {
	// lumberjack doesn't create directories
	dir := filepath.Dir(cfg.Path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
	}

	logWriter := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   false,
	}

	handler := slog.NewJSONHandler(logWriter, &slog.HandlerOptions{
		Level: level,
	})

	closer := func() error {
		return logWriter.Close()
	}

	return handler, closer, nil
}

// teeHandler fans every record out to all wrapped handlers.
type teeHandler struct {
	handlers []slog.Handler
}

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, h := range t.handlers {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return teeHandler{handlers: handlers}
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return teeHandler{handlers: handlers}
}

// ForService returns a logger with the service attribute set, for package
// level loggers that want consistent component labeling.
func ForService(name string) *slog.Logger {
	return slog.Default().With("service", name)
}
