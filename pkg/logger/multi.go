package logger

import (
	"context"
	"log/slog"
)

// fanoutHandler dispatches each record to a set of differently configured
// handlers. Serve uses it with --log-file to keep readable output on
// stdout while appending JSON records to the file, each at its own level.
type fanoutHandler struct {
	handlers []slog.Handler
}

// Multi combines loggers into one that forwards every record to each
// logger's underlying handler.
func Multi(loggers ...*slog.Logger) *slog.Logger {
	handlers := make([]slog.Handler, len(loggers))
	for i, l := range loggers {
		handlers[i] = l.Handler()
	}
	return slog.New(&fanoutHandler{handlers: handlers})
}

// Enabled reports true if any destination would accept the level, so a
// debug file sink keeps working behind an info-level stdout sink.
func (f *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range f.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	children := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		children[i] = h.WithAttrs(attrs)
	}
	return &fanoutHandler{handlers: children}
}

func (f *fanoutHandler) WithGroup(name string) slog.Handler {
	children := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		children[i] = h.WithGroup(name)
	}
	return &fanoutHandler{handlers: children}
}
