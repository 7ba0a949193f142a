package testenv

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// LogHandler is a slog.Handler that records each message as
// "[index] LEVEL: message key=value, key=value", without timestamps, so
// tests can assert on log output.
type LogHandler struct {
	state       *logState
	attrs       []slog.Attr
	groups      []string
	ignoreDebug bool
}

type logState struct {
	mu    sync.Mutex
	lines []string
}

type LogHandlerOption func(*LogHandler)

// WithIgnoreDebug drops DEBUG records.
func WithIgnoreDebug() LogHandlerOption {
	return func(h *LogHandler) { h.ignoreDebug = true }
}

func NewLogHandler(opts ...LogHandlerOption) *LogHandler {
	h := &LogHandler{state: &logState{}}
	for _, o := range opts {
		o(h)
	}
	return h
}

func (h *LogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return !(h.ignoreDebug && level < slog.LevelInfo)
}

//nolint:gocritic
func (h *LogHandler) Handle(_ context.Context, r slog.Record) error {
	if !h.Enabled(context.Background(), r.Level) {
		return nil
	}
	prefix := ""
	if len(h.groups) > 0 {
		prefix = strings.Join(h.groups, ".") + "."
	}

	var parts []string
	for _, a := range h.attrs {
		parts = append(parts, formatAttr(a, ""))
	}
	r.Attrs(func(a slog.Attr) bool {
		parts = append(parts, formatAttr(a, prefix))
		return true
	})

	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	line := fmt.Sprintf("[%d] %s: %s", len(h.state.lines), r.Level, r.Message)
	if len(parts) > 0 {
		line += " " + strings.Join(parts, ", ")
	}
	h.state.lines = append(h.state.lines, line)
	return nil
}

func formatAttr(a slog.Attr, prefix string) string {
	if a.Value.Kind() == slog.KindGroup {
		var parts []string
		for _, ga := range a.Value.Group() {
			parts = append(parts, formatAttr(ga, prefix+a.Key+"."))
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprintf("%s%s=%v", prefix, a.Key, a.Value)
}

func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	prefix := ""
	if len(h.groups) > 0 {
		prefix = strings.Join(h.groups, ".") + "."
	}
	next := *h
	next.attrs = h.attrs[:len(h.attrs):len(h.attrs)]
	for _, a := range attrs {
		a.Key = prefix + a.Key
		next.attrs = append(next.attrs, a)
	}
	return &next
}

func (h *LogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.groups = append(h.groups[:len(h.groups):len(h.groups)], name)
	return &next
}

// Lines returns every recorded line, shared across handlers derived with
// WithAttrs and WithGroup.
func (h *LogHandler) Lines() []string {
	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	return append([]string(nil), h.state.lines...)
}

// Contains reports whether any recorded message contains s.
func (h *LogHandler) Contains(s string) bool {
	for _, l := range h.Lines() {
		if strings.Contains(l, s) {
			return true
		}
	}
	return false
}
