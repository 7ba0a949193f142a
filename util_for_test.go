package dspace

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/divinity/dspace.go/pkg/connection"
	"github.com/divinity/dspace.go/pkg/constants"
)

// scripted answers exchanges from a queue and records what was sent.
type scripted struct {
	mu        sync.Mutex
	responses []*connection.Response
	sent      []*connection.Request
}

func (s *scripted) Exchange(_ context.Context, req *connection.Request) (*connection.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, req.Clone())
	if len(s.responses) == 0 {
		return nil, fmt.Errorf("unexpected exchange %s %s", req.Method, req.URL)
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}

func (s *scripted) push(resps ...*connection.Response) *scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = append(s.responses, resps...)
	return s
}

func (s *scripted) requests() []*connection.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*connection.Request(nil), s.sent...)
}

func jsonResponse(status int, body string) *connection.Response {
	return &connection.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": {"application/hal+json;charset=UTF-8"}},
		Body:       []byte(body),
	}
}

func textResponse(status int, body string) *connection.Response {
	return &connection.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": {"text/plain"}},
		Body:       []byte(body),
	}
}

func withHeader(resp *connection.Response, key, value string) *connection.Response {
	resp.Header.Set(key, value)
	return resp
}

// loginOK is a successful login response handing out bearer.
func loginOK(bearer string) *connection.Response {
	resp := &connection.Response{StatusCode: http.StatusOK, Header: http.Header{}}
	resp.Header.Set(constants.AuthorizationHeader, constants.BearerPrefix+" "+bearer)
	return resp
}

func newScriptedClient(resps ...*connection.Response) (*Client, *scripted) {
	s := (&scripted{}).push(resps...)
	return New("https://repo.test/server", "admin", "secret", WithConnection(s)), s
}
