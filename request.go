package dspace

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/divinity/dspace.go/pkg/connection"
	"github.com/divinity/dspace.go/pkg/constants"
	"github.com/divinity/dspace.go/pkg/models"
	"github.com/divinity/dspace.go/pkg/store"
)

// Request sends req with the session tokens attached. A 401 or 403 triggers
// one login and one retry; a second authorization failure is returned as an
// *AuthorizationError. Any other status of 400 or more is an *HTTPStatusError
// and is not retried.
//
// req.URL may be relative to the API root. The response body is left raw;
// check IsJSON before decoding it.
func (c *Client) Request(ctx context.Context, req *connection.Request) (*connection.Response, error) {
	resp, err := c.exchange(ctx, req)
	if err != nil {
		return nil, err
	}

	if isAuthFailure(resp.StatusCode) {
		c.logger.Info("session rejected, logging in again", "status", resp.StatusCode, "url", req.URL)
		if err := c.Login(ctx); err != nil {
			return nil, err
		}
		resp, err = c.exchange(ctx, req)
		if err != nil {
			return nil, err
		}
		if isAuthFailure(resp.StatusCode) {
			return nil, &AuthorizationError{Status: c.statusError(req, resp)}
		}
	}

	if resp.StatusCode >= 400 {
		return nil, c.statusError(req, resp)
	}
	return resp, nil
}

func (c *Client) statusError(req *connection.Request, resp *connection.Response) *HTTPStatusError {
	return newHTTPStatusError(strings.ToUpper(req.Method), c.URL(req.URL), resp.StatusCode, resp.Body, resp.IsJSON())
}

// exchange performs one raw round trip and captures any tokens in the
// response headers.
func (c *Client) exchange(ctx context.Context, req *connection.Request) (*connection.Response, error) {
	out := req.Clone()
	out.URL = c.URL(req.URL)

	if err := c.attachTokens(ctx, out.Header); err != nil {
		return nil, err
	}
	if c.resetTransport {
		out.ResetTransport = true
		c.resetTransport = false
	}

	resp, err := c.conn.Exchange(ctx, out)
	if err != nil {
		return nil, fmt.Errorf("exchange %s %s: %w", out.Method, out.URL, err)
	}
	if err := c.processHeaders(ctx, resp.Header); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) attachTokens(ctx context.Context, h http.Header) error {
	bearer, err := c.store.BearerToken(ctx)
	if err != nil {
		return fmt.Errorf("read bearer token: %w", err)
	}
	if bearer != "" {
		h.Set(constants.AuthorizationHeader, constants.BearerPrefix+" "+bearer)
	}

	csrf, err := c.store.CSRFToken(ctx)
	if err != nil {
		return fmt.Errorf("read csrf token: %w", err)
	}
	if csrf != "" {
		h.Set(constants.CSRFRequestHeader, csrf)
		h.Add("Cookie", (&http.Cookie{Name: constants.CSRFCookie, Value: csrf}).String())
	}
	return nil
}

// processHeaders replaces the stored tokens with any the server sent.
func (c *Client) processHeaders(ctx context.Context, h http.Header) error {
	if csrf := strings.TrimSpace(h.Get(constants.CSRFResponseHeader)); csrf != "" {
		if err := c.store.StoreCSRFToken(ctx, csrf); err != nil {
			return fmt.Errorf("store csrf token: %w", err)
		}
	}
	auth := strings.TrimSpace(h.Get(constants.AuthorizationHeader))
	if token, ok := strings.CutPrefix(auth, constants.BearerPrefix); ok {
		if token = strings.TrimSpace(token); token != "" {
			if err := c.store.StoreBearerToken(ctx, token); err != nil {
				return fmt.Errorf("store bearer token: %w", err)
			}
		}
	}
	return nil
}

// Login authenticates with the client's credentials. The server needs an
// anti-forgery token first, so one is obtained from the status endpoint when
// the store has none.
func (c *Client) Login(ctx context.Context) error {
	csrf, err := c.store.CSRFToken(ctx)
	if err != nil {
		return fmt.Errorf("read csrf token: %w", err)
	}
	if csrf == "" {
		if _, err := c.exchange(ctx, connection.NewRequest(http.MethodGet, constants.EndpointStatus)); err != nil {
			return fmt.Errorf("login: %w", err)
		}
	}

	req := connection.NewRequest(http.MethodPost, constants.EndpointLogin).
		WithForm(url.Values{"user": {c.username}, "password": {c.password}})
	resp, err := c.exchange(ctx, req)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if resp.StatusCode >= 400 {
		se := c.statusError(req, resp)
		if se.Unauthorized() {
			return &AuthorizationError{Status: se}
		}
		return se
	}

	c.resetTransport = true
	if exp, err := c.SessionExpiry(ctx); err == nil {
		c.logger.Info("logged in", "user", c.username, "expires", exp.Format(time.RFC3339))
	} else {
		c.logger.Info("logged in", "user", c.username)
	}
	return nil
}

// Logout ends the server session and drops the stored tokens.
func (c *Client) Logout(ctx context.Context) error {
	if _, err := c.Request(ctx, connection.NewRequest(http.MethodPost, constants.EndpointLogout)); err != nil {
		return err
	}
	return c.store.Clear(ctx)
}

// Status is the authentication state reported by the server.
type Status struct {
	Okay          bool
	Authenticated bool
	EPersonHref   string
}

func (c *Client) Status(ctx context.Context) (Status, error) {
	doc, err := c.getDocument(ctx, constants.EndpointStatus)
	if err != nil {
		return Status{}, err
	}
	return Status{
		Okay:          doc.String("okay") == "true",
		Authenticated: doc.String("authenticated") == "true",
		EPersonHref:   doc.Href("eperson"),
	}, nil
}

// SessionExpiry reads the expiry claim of the stored bearer token.
func (c *Client) SessionExpiry(ctx context.Context) (time.Time, error) {
	bearer, err := c.store.BearerToken(ctx)
	if err != nil {
		return time.Time{}, err
	}
	if bearer == "" {
		return time.Time{}, fmt.Errorf("session expiry: %w: no bearer token", constants.ErrNotFound)
	}
	return store.BearerExpiry(bearer)
}

// document returns the JSON body of resp, or nil for anything else.
func document(resp *connection.Response) models.Document {
	if resp == nil || !resp.IsJSON() || len(resp.Body) == 0 {
		return nil
	}
	return models.Document(resp.Body)
}

func (c *Client) getDocument(ctx context.Context, endpoint string) (models.Document, error) {
	return c.sendDocument(ctx, c.Request, connection.NewRequest(http.MethodGet, endpoint))
}

func (c *Client) sendJSON(ctx context.Context, method, endpoint string, body any) (models.Document, error) {
	return c.sendDocument(ctx, c.Request, connection.NewRequest(method, endpoint).WithBody(body))
}

func (c *Client) sendDocument(ctx context.Context, do connection.RequestFunc, req *connection.Request) (models.Document, error) {
	resp, err := do(ctx, req)
	if err != nil {
		return nil, err
	}
	return document(resp), nil
}
