package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/divinity/dspace.go/pkg/connection"
)

type RoundTripFunc func(req *http.Request) *http.Response

func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

// NewTestClient returns *http.Client with Transport replaced to avoid making real calls
func NewTestClient(fn RoundTripFunc) *http.Client {
	return &http.Client{
		Transport: fn,
	}
}

type HTTPTestSuite struct {
	suite.Suite
}

func TestHTTPTestSuite(t *testing.T) {
	suite.Run(t, new(HTTPTestSuite))
}

func (s *HTTPTestSuite) TestExchangeSendsHeadersAndJSON() {
	httpClient := NewTestClient(func(req *http.Request) *http.Response {
		s.Equal("https://repo.test/server/api/core/items/1", req.URL.String())
		s.Equal(http.MethodPut, req.Method)
		s.Equal("application/json", req.Header.Get("Content-Type"))
		s.Equal("Bearer abc", req.Header.Get("Authorization"))
		body, _ := io.ReadAll(req.Body)
		s.JSONEq(`{"name":"x"}`, string(body))

		return &http.Response{
			StatusCode: 200,
			Header:     http.Header{"Content-Type": {"application/hal+json"}},
			Body:       io.NopCloser(bytes.NewBufferString(`{"id":"1"}`)),
		}
	})

	con := New(connection.NewConfig()).SetHTTPClient(httpClient)
	req := connection.NewRequest("put", "https://repo.test/server/api/core/items/1").
		WithBody(map[string]string{"name": "x"})
	req.Header.Set("Authorization", "Bearer abc")

	resp, err := con.Exchange(context.Background(), req)
	s.Require().NoError(err)
	s.Equal(200, resp.StatusCode)
	s.True(resp.IsJSON())
	s.Equal(`{"id":"1"}`, resp.Text())
}

func (s *HTTPTestSuite) TestErrorStatusIsNotAnError() {
	httpClient := NewTestClient(func(req *http.Request) *http.Response {
		return &http.Response{
			StatusCode: 422,
			Header:     http.Header{"Content-Type": {"text/plain"}},
			Body:       io.NopCloser(bytes.NewBufferString("unprocessable")),
		}
	})

	con := New(nil).SetHTTPClient(httpClient)
	resp, err := con.Exchange(context.Background(), connection.NewRequest(http.MethodGet, "http://repo.test/api"))
	s.Require().NoError(err)
	s.Equal(422, resp.StatusCode)
	s.False(resp.IsJSON())
	s.Equal("unprocessable", resp.Text())
}

func (s *HTTPTestSuite) TestResetTransportClosesConnection() {
	var closed []bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		closed = append(closed, r.Close)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	con := New(connection.NewConfig())
	ctx := context.Background()

	req := connection.NewRequest(http.MethodGet, srv.URL)
	req.ResetTransport = true
	_, err := con.Exchange(ctx, req)
	s.Require().NoError(err)

	_, err = con.Exchange(ctx, connection.NewRequest(http.MethodGet, srv.URL))
	s.Require().NoError(err)

	s.Equal([]bool{true, false}, closed)
}

func (s *HTTPTestSuite) TestTransportFailure() {
	con := New(nil).SetHTTPClient(&http.Client{Transport: failingTransport{}})
	_, err := con.Exchange(context.Background(), connection.NewRequest(http.MethodGet, "http://repo.test/api"))
	s.Error(err)
	s.True(errors.Is(err, errRefused))
}

func (s *HTTPTestSuite) TestRateLimiterHonoursContext() {
	cfg := connection.NewConfig()
	cfg.RequestsPerSecond = 0.001
	con := New(cfg).SetHTTPClient(NewTestClient(func(*http.Request) *http.Response {
		return &http.Response{StatusCode: 204, Body: http.NoBody, Header: http.Header{}}
	}))

	_, err := con.Exchange(context.Background(), connection.NewRequest(http.MethodGet, "http://repo.test/api"))
	s.Require().NoError(err, "first request uses the burst")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = con.Exchange(ctx, connection.NewRequest(http.MethodGet, "http://repo.test/api"))
	s.Error(err)
}

var errRefused = errors.New("connection refused")

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errRefused
}
