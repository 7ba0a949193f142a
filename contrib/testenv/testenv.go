// Package testenv provides clients for tests of code built on the DSpace
// client: a live client configured from the environment, and a client wired
// to an in-process fake server with its log output captured.
package testenv

import (
	"context"
	"fmt"
	"os"
	"testing"

	dspace "github.com/divinity/dspace.go"
	"github.com/divinity/dspace.go/internal/fakedspace"
	"github.com/divinity/dspace.go/pkg/config"
	logslog "github.com/divinity/dspace.go/pkg/logger/slog"
)

const (
	// EnvAPIRoot enables live tests against the REST root it names.
	EnvAPIRoot = "DSPACE_TEST_API"
	// EnvUsername and EnvPassword are the live test credentials.
	EnvUsername = "DSPACE_TEST_USER"
	EnvPassword = "DSPACE_TEST_PASSWORD"
	// EnvRedisAddr makes live clients keep their session in Redis.
	EnvRedisAddr = "DSPACE_TEST_REDIS_ADDR"
)

const (
	FakeUsername = "admin@example.org"
	FakePassword = "admin"
)

// LiveConfig builds a configuration from the environment. It reports false
// when EnvAPIRoot is unset.
func LiveConfig() (*config.Config, bool) {
	root := os.Getenv(EnvAPIRoot)
	if root == "" {
		return nil, false
	}
	cfg := config.NewDefaultConfig()
	cfg.API.Root = root
	cfg.API.Username = os.Getenv(EnvUsername)
	cfg.API.Password = os.Getenv(EnvPassword)
	cfg.Log.Level = "disabled"
	if addr := os.Getenv(EnvRedisAddr); addr != "" {
		cfg.Session.Store = config.StoreRedis
		cfg.Session.Redis.Addr = addr
	}
	return cfg, true
}

// Live returns a client for the server named by EnvAPIRoot and skips tb when
// it is unset.
func Live(tb testing.TB, opts ...dspace.Option) *dspace.Client {
	tb.Helper()
	cfg, ok := LiveConfig()
	if !ok {
		tb.Skipf("%s not set", EnvAPIRoot)
	}
	c, err := dspace.FromConfig(tb.Context(), cfg, opts...)
	if err != nil {
		tb.Fatalf("live client: %v", err)
	}
	tb.Cleanup(func() { _ = c.Close() })
	return c
}

// Fake is a client wired to a fake server.
type Fake struct {
	Server *fakedspace.Server
	Client *dspace.Client
	Logs   *LogHandler
}

// NewFake starts a fake server and returns a client that logs into Logs.
// Both are torn down when tb finishes.
func NewFake(tb testing.TB, opts ...dspace.Option) *Fake {
	tb.Helper()
	server := fakedspace.NewServer(FakeUsername, FakePassword)
	tb.Cleanup(server.Close)

	logs := NewLogHandler(WithIgnoreDebug())
	opts = append([]dspace.Option{dspace.WithLogger(logslog.New(logs))}, opts...)
	return &Fake{
		Server: server,
		Client: dspace.New(server.APIRoot(), FakeUsername, FakePassword, opts...),
		Logs:   logs,
	}
}

// MustLive is Live outside of tests. It panics when the environment does not
// name a server.
func MustLive(opts ...dspace.Option) *dspace.Client {
	cfg, ok := LiveConfig()
	if !ok {
		panic(fmt.Sprintf("%s not set", EnvAPIRoot))
	}
	c, err := dspace.FromConfig(context.Background(), cfg, opts...)
	if err != nil {
		panic(fmt.Sprintf("live client: %v", err))
	}
	return c
}
