package log

import (
	"context"
	"log/slog"
)

type slogLogger struct {
	l *slog.Logger
}

// NewSlogLogger adapts l to Logger. A nil l means slog.Default() at the time
// of each call.
func NewSlogLogger(l *slog.Logger) Logger {
	return &slogLogger{l: l}
}

func (s *slogLogger) logger() *slog.Logger {
	if s.l == nil {
		return slog.Default()
	}
	return s.l
}

func (s *slogLogger) Debug(msg string, fields ...any) {
	s.logger().Debug(msg, normalizeFields(fields)...)
}

func (s *slogLogger) Info(msg string, fields ...any) {
	s.logger().Info(msg, normalizeFields(fields)...)
}

func (s *slogLogger) Warn(msg string, fields ...any) {
	s.logger().Warn(msg, normalizeFields(fields)...)
}

func (s *slogLogger) Error(msg string, fields ...any) {
	s.logger().Error(msg, normalizeFields(fields)...)
}

func (s *slogLogger) With(fields ...any) Logger {
	return &slogLogger{l: s.logger().With(normalizeFields(fields)...)}
}

func (s *slogLogger) Enabled(ctx context.Context, level Level) bool {
	return s.logger().Enabled(ctx, slog.Level(level))
}
