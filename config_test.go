package dspace_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dspace "github.com/divinity/dspace.go"
	"github.com/divinity/dspace.go/internal/fakedspace"
	"github.com/divinity/dspace.go/pkg/config"
	"github.com/divinity/dspace.go/pkg/constants"
)

func TestFromConfig(t *testing.T) {
	server := fakedspace.NewServer("admin", "secret")
	defer server.Close()
	server.AddItem("Cached", "col", nil)

	cfg := config.NewDefaultConfig()
	cfg.API.Root = server.APIRoot()
	cfg.API.Username = "admin"
	cfg.API.Password = "secret"
	cfg.Log.Level = "disabled"
	cfg.HTTP.Timeout = 5 * time.Second
	cfg.Cache.Enabled = true

	client, err := dspace.FromConfig(context.Background(), cfg)
	require.NoError(t, err)
	defer client.Close()

	for range 2 {
		it := client.ListItems(dspace.WithPageSize(10))
		count := 0
		for it.Next(context.Background()) {
			count++
		}
		require.NoError(t, it.Err())
		assert.Equal(t, 1, count)
	}
	// the first page needs a login and a retry, the second listing is cached
	assert.Equal(t, 2, server.Calls(http.MethodGet, constants.EndpointItems))
}

func TestFromConfigRejectsInvalid(t *testing.T) {
	cfg := config.NewDefaultConfig()
	_, err := dspace.FromConfig(context.Background(), cfg)
	assert.ErrorIs(t, err, constants.ErrInvalidArgument)
}
