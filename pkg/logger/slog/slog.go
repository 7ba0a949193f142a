// Package slog lets a client log through any log/slog handler, for example
// the handler of an application that already uses slog or a test recorder.
package slog

import (
	"log/slog"
)

// Adapter forwards client log calls to a slog.Logger. Arguments are the
// alternating key/value pairs the client logs, such as "endpoint", "status".
type Adapter struct {
	logger *slog.Logger
}

// New wraps h. Level filtering is left to h.
func New(h slog.Handler) *Adapter {
	return &Adapter{logger: slog.New(h)}
}

func (a *Adapter) Error(msg string, args ...any) {
	a.logger.Error(msg, args...)
}

func (a *Adapter) Warn(msg string, args ...any) {
	a.logger.Warn(msg, args...)
}

func (a *Adapter) Info(msg string, args ...any) {
	a.logger.Info(msg, args...)
}

func (a *Adapter) Debug(msg string, args ...any) {
	a.logger.Debug(msg, args...)
}
