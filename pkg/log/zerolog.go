package log

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/gradreg/pkg/errors"
)

// ZerologLogger implements Logger on top of zerolog.
type ZerologLogger struct {
	l zerolog.Logger
}

// NewZerologLogger writes JSON lines with a timestamp to w, dropping records
// below level.
func NewZerologLogger(w io.Writer, level Level) *ZerologLogger {
	zl := zerolog.New(w).Level(zerologLevel(level)).With().Timestamp().Logger()
	return &ZerologLogger{l: zl}
}

func zerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

func (z *ZerologLogger) Debug(msg string, fields ...any) {
	z.l.Debug().Fields(normalizeFields(fields)).Msg(msg)
}

func (z *ZerologLogger) Info(msg string, fields ...any) {
	z.l.Info().Fields(normalizeFields(fields)).Msg(msg)
}

func (z *ZerologLogger) Warn(msg string, fields ...any) {
	z.l.Warn().Fields(normalizeFields(fields)).Msg(msg)
}

func (z *ZerologLogger) Error(msg string, fields ...any) {
	z.l.Error().Fields(normalizeFields(fields)).Msg(msg)
}

func (z *ZerologLogger) With(fields ...any) Logger {
	return &ZerologLogger{l: z.l.With().Fields(normalizeFields(fields)).Logger()}
}

func (z *ZerologLogger) Enabled(_ context.Context, level Level) bool {
	return zerologLevel(level) >= z.l.GetLevel()
}

// RouteWarnings sends errors.Warn output to z. Warnings implementing
// zerolog.LogObjectMarshaler contribute their structured fields.
func (z *ZerologLogger) RouteWarnings() {
	errors.SetZerologWarnFunc(func(w error) {
		ev := z.l.Warn()
		if m, ok := w.(zerolog.LogObjectMarshaler); ok {
			ev = ev.EmbedObject(m)
		}
		ev.Msg(w.Error())
	})
}
