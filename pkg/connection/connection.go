// Package connection defines the raw exchange primitive the client sends its
// requests through, and the rule that turns a request body into bytes on the wire.
package connection

import (
	"context"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/divinity/dspace.go/pkg/constants"
)

// Exchanger sends one request and returns whatever the server answered.
// A non-2xx status is not an error at this level.
type Exchanger interface {
	Exchange(ctx context.Context, req *Request) (*Response, error)
}

// ExchangerFunc adapts a function to Exchanger.
type ExchangerFunc func(ctx context.Context, req *Request) (*Response, error)

func (f ExchangerFunc) Exchange(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// FilePart is a file sent as the "file" field of a multipart body.
type FilePart struct {
	Filename string
	MimeType string
	// Path is the local copy the content is streamed from.
	Path string
}

// Request describes one exchange. At most one body kind is used, checked in
// the order File, URIList, Form, Body. With File set, a non-empty Body is
// sent alongside as the "properties" field.
type Request struct {
	Method string
	// URL is absolute.
	URL    string
	Header http.Header

	File    *FilePart
	URIList []string
	Form    url.Values
	Body    any

	// ResetTransport drops pooled connections before sending.
	ResetTransport bool
}

// NewRequest returns a request with an empty header.
func NewRequest(method, rawURL string) *Request {
	return &Request{Method: method, URL: rawURL, Header: http.Header{}}
}

// WithBody sets the structured payload.
func (r *Request) WithBody(body any) *Request {
	r.Body = body
	return r
}

func (r *Request) WithFile(f *FilePart) *Request {
	r.File = f
	return r
}

func (r *Request) WithURIList(uris ...string) *Request {
	r.URIList = uris
	return r
}

func (r *Request) WithForm(form url.Values) *Request {
	r.Form = form
	return r
}

// Clone copies the request with its own header map.
func (r *Request) Clone() *Request {
	c := *r
	c.Header = r.Header.Clone()
	if c.Header == nil {
		c.Header = http.Header{}
	}
	return &c
}

// Response is the status, headers and raw body of an exchange.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// IsJSON reports whether the content type is JSON or a JSON suffix type such
// as application/hal+json.
func (r *Response) IsJSON() bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == constants.ContentTypeJSON || strings.HasSuffix(mediaType, "+json")
}

// Text is the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// RequestFunc has the shape of the client's authenticated request call, so
// middleware such as a page cache can sit in front of it.
type RequestFunc func(ctx context.Context, req *Request) (*Response, error)
