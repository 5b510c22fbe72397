package logging

import (
	"context"
	"log/slog"
	"slices"
)

func String(key, value string) slog.Attr { return slog.String(key, value) }

func Int(key string, value int) slog.Attr { return slog.Int(key, value) }

func Bool(key string, value bool) slog.Attr { return slog.Bool(key, value) }

// Error wraps err under the "error" key.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// Args converts attrs into the alternating form accepted by slog.Logger.With.
func Args(attrs ...slog.Attr) []any {
	out := make([]any, len(attrs))
	for i, attr := range attrs {
		out[i] = attr
	}
	return out
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// NewComponentLogger tags logger with a component name. A nil logger yields
// a no-op logger.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// WarnWithContext logs a warning that always carries event_type, error_hint
// and impact, filling defaults for the ones attrs lacks.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...slog.Attr) {
	if logger == nil {
		return
	}
	defaults := []slog.Attr{
		String(FieldEventType, eventType),
		String(FieldErrorHint, "check the equalizer log for details"),
		String(FieldImpact, "the project document may be incomplete"),
	}
	for _, d := range defaults {
		if !slices.ContainsFunc(attrs, func(a slog.Attr) bool { return a.Key == d.Key }) {
			attrs = append(attrs, d)
		}
	}
	logger.LogAttrs(context.Background(), slog.LevelWarn, msg, attrs...)
}
