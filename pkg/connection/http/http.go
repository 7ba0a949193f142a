// Package http is the net/http engine behind connection.Exchanger.
package http

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/divinity/dspace.go/internal/codec"
	"github.com/divinity/dspace.go/pkg/connection"
	"github.com/divinity/dspace.go/pkg/logger"
)

const tracerName = "github.com/divinity/dspace.go/pkg/connection/http"

// idleCloser is implemented by *http.Transport.
type idleCloser interface {
	CloseIdleConnections()
}

// HTTPConnection sends requests with a net/http client.
type HTTPConnection struct {
	marshaler codec.Marshaler
	logger    logger.Logger
	limiter   *rate.Limiter
	tracer    trace.Tracer

	httpClient *http.Client
}

var _ connection.Exchanger = (*HTTPConnection)(nil)

func New(p *connection.Config) *HTTPConnection {
	if p == nil {
		p = connection.NewConfig()
	}
	con := &HTTPConnection{
		marshaler: p.Marshaler,
		logger:    p.Logger,
		tracer:    otel.Tracer(tracerName),
	}
	if con.marshaler == nil {
		con.marshaler = codec.NewJSON()
	}
	if con.logger == nil {
		con.logger = logger.Nop()
	}
	if p.RequestsPerSecond > 0 {
		burst := p.Burst
		if burst < 1 {
			burst = 1
		}
		con.limiter = rate.NewLimiter(rate.Limit(p.RequestsPerSecond), burst)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: p.ConnectTimeout}).DialContext
	con.httpClient = &http.Client{
		Timeout:   p.Timeout,
		Transport: transport,
	}
	return con
}

// SetHTTPClient replaces the underlying client, for tests and custom TLS.
func (h *HTTPConnection) SetHTTPClient(client *http.Client) *HTTPConnection {
	h.httpClient = client
	return h
}

func (h *HTTPConnection) Exchange(ctx context.Context, req *connection.Request) (*connection.Response, error) {
	if h.limiter != nil {
		if err := h.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	ctx, span := h.tracer.Start(ctx, "dspace "+req.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.full", req.URL),
		))
	defer span.End()

	resp, err := h.exchange(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
	}
	return resp, nil
}

func (h *HTTPConnection) exchange(ctx context.Context, req *connection.Request) (*connection.Response, error) {
	enc, err := connection.Encode(req, h.marshaler)
	if err != nil {
		return nil, err
	}
	defer func() { _ = enc.Close() }()

	httpReq, err := http.NewRequestWithContext(ctx, strings.ToUpper(req.Method), req.URL, enc.Body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if enc.ContentType != "" {
		httpReq.Header.Set("Content-Type", enc.ContentType)
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}

	if req.ResetTransport {
		httpReq.Close = true
		if t, ok := h.httpClient.Transport.(idleCloser); ok {
			t.CloseIdleConnections()
		}
		h.logger.Debug("transport reset before request", "url", req.URL)
	}

	resp, err := h.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", httpReq.Method, req.URL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return &connection.Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}
