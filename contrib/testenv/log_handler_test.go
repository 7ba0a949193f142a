package testenv

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogHandler(t *testing.T) {
	h := NewLogHandler()
	logger := slog.New(h)

	logger.Info("first", "a", 1)
	logger.With("request", "r1").WithGroup("http").Warn("second", "status", 401)
	logger.Debug("third")

	assert.Equal(t, []string{
		"[0] INFO: first a=1",
		"[1] WARN: second request=r1, http.status=401",
		"[2] DEBUG: third",
	}, h.Lines())
}

func TestLogHandlerIgnoreDebug(t *testing.T) {
	h := NewLogHandler(WithIgnoreDebug())
	logger := slog.New(h)

	logger.Debug("hidden")
	logger.Error("shown", slog.Group("err", "code", 5))

	assert.Equal(t, []string{"[0] ERROR: shown err.code=5"}, h.Lines())
	assert.True(t, h.Contains("shown"))
	assert.False(t, h.Contains("hidden"))
}
