package logging

import (
	"context"
	"log/slog"
)

// SlogLogger adapts a *slog.Logger to the Logger interface. The server
// wraps a JSON handler on stdout; tests hand it a discard handler.
type SlogLogger struct {
	log *slog.Logger
}

func NewSlogLogger(log *slog.Logger) *SlogLogger {
	return &SlogLogger{log: log}
}

// Debug is not part of the Logger interface; it exists for local
// troubleshooting without widening the contract every caller depends on.
func (s *SlogLogger) Debug(ctx context.Context, msg string, args ...any) {
	s.log.DebugContext(ctx, msg, args...)
}

func (s *SlogLogger) Info(ctx context.Context, msg string, args ...any) {
	s.log.InfoContext(ctx, msg, args...)
}

func (s *SlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	s.log.WarnContext(ctx, msg, args...)
}

func (s *SlogLogger) Error(ctx context.Context, msg string, args ...any) {
	s.log.ErrorContext(ctx, msg, args...)
}

// With derives a child logger carrying the given key-value pairs, typically
// a "module" attribute identifying the component.
func (s *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{log: s.log.With(args...)}
}
