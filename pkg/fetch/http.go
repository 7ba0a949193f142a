package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/divinity/dspace.go/pkg/constants"
)

// HTTP fetches http(s) sources with an optional basic-auth login.
type HTTP struct {
	client *http.Client
}

// NewHTTP uses client, or a client with the default timeout when nil.
func NewHTTP(client *http.Client) *HTTP {
	if client == nil {
		client = &http.Client{Timeout: constants.DefaultHTTPTimeout}
	}
	return &HTTP{client: client}
}

func (h *HTTP) Fetch(ctx context.Context, src Source) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URI, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}
	if src.Username != "" && src.Password != "" {
		req.SetBasicAuth(src.Username, src.Password)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %q: %w", src.URI, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: failed to download %q: HTTP %d", constants.ErrHTTPStatus, src.URI, resp.StatusCode)
	}
	return resp.Body, nil
}
