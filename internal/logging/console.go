package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// consoleHandler writes one line per record:
//
//	15:04:05 INFO  workfile: workfile saved project=/shots/sh010.3de
//
// Debug loggers also print the caller.
type consoleHandler struct {
	mu        *sync.Mutex
	w         io.Writer
	level     slog.Level
	prefix    string
	component string
	// fields holds attributes bound by WithAttrs, already rendered.
	fields []string
}

func newConsoleHandler(w io.Writer, level slog.Level) *consoleHandler {
	return &consoleHandler{mu: &sync.Mutex{}, w: w, level: level}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	component := h.component
	fields := append([]string(nil), h.fields...)
	record.Attrs(func(attr slog.Attr) bool {
		fields, component = h.render(fields, component, attr)
		return true
	})

	var buf bytes.Buffer
	buf.WriteString(ts.Local().Format(time.TimeOnly))
	fmt.Fprintf(&buf, " %-5s ", levelName(record.Level))
	if component != "" {
		buf.WriteString(component)
		buf.WriteString(": ")
	}
	buf.WriteString(strings.TrimSpace(record.Message))
	for _, field := range fields {
		buf.WriteByte(' ')
		buf.WriteString(field)
	}
	if h.level <= slog.LevelDebug && record.PC != 0 {
		if src := record.Source(); src != nil {
			fmt.Fprintf(&buf, " (%s:%d)", filepath.Base(src.File), src.Line)
		}
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.fields = append([]string(nil), h.fields...)
	for _, attr := range attrs {
		clone.fields, clone.component = h.render(clone.fields, clone.component, attr)
	}
	return &clone
}

// render appends attr to fields under the current group prefix. A top-level
// component attribute becomes the line prefix instead.
func (h *consoleHandler) render(fields []string, component string, attr slog.Attr) ([]string, string) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return fields, component
	}
	if attr.Key == FieldComponent && h.prefix == "" {
		return fields, attr.Value.String()
	}
	return appendField(fields, h.prefix, attr), component
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

func appendField(dst []string, prefix string, attr slog.Attr) []string {
	if attr.Value.Kind() == slog.KindGroup {
		for _, child := range attr.Value.Group() {
			child.Value = child.Value.Resolve()
			dst = appendField(dst, prefix+attr.Key+".", child)
		}
		return dst
	}
	return append(dst, prefix+attr.Key+"="+quoteValue(attr.Value))
}

func quoteValue(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindTime:
		s = v.Time().UTC().Format(time.RFC3339)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			s = err.Error()
		} else {
			s = fmt.Sprint(v.Any())
		}
	default:
		s = v.String()
	}
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
