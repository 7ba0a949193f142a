package dspace

import (
	"fmt"

	"github.com/divinity/dspace.go/pkg/constants"
	"github.com/divinity/dspace.go/pkg/models"
)

// HTTPStatusError is a response with a status of 400 or more.
type HTTPStatusError struct {
	StatusCode int
	Method     string
	URL        string
	// Body is the parsed response when it was JSON.
	Body models.Document
	// Text is the raw response body.
	Text string
}

func newHTTPStatusError(method, url string, status int, body []byte, isJSON bool) *HTTPStatusError {
	e := &HTTPStatusError{StatusCode: status, Method: method, URL: url, Text: string(body)}
	if isJSON {
		e.Body = models.Document(body)
	}
	return e
}

// Message is the server's own explanation, taken from the message or error
// field of the body.
func (e *HTTPStatusError) Message() string {
	if e.Body == nil {
		return ""
	}
	if m := e.Body.String("message"); m != "" {
		return m
	}
	return e.Body.String("error")
}

func (e *HTTPStatusError) Error() string {
	msg := fmt.Sprintf("%s %s: http status %d", e.Method, e.URL, e.StatusCode)
	if m := e.Message(); m != "" {
		msg += ": " + m
	}
	return msg
}

func (e *HTTPStatusError) Unwrap() error {
	return constants.ErrHTTPStatus
}

// Unauthorized reports a 401 or 403.
func (e *HTTPStatusError) Unauthorized() bool {
	return isAuthFailure(e.StatusCode)
}

// AuthorizationError is an authorization failure that survived logging in again.
type AuthorizationError struct {
	Status *HTTPStatusError
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("%s: %s", constants.ErrAuthorization, e.Status)
}

func (e *AuthorizationError) Unwrap() []error {
	return []error{constants.ErrAuthorization, e.Status}
}

// RequestFailureError is a successful response missing something the call needs.
type RequestFailureError struct {
	Op      string
	Missing string
	Body    models.Document
}

func (e *RequestFailureError) Error() string {
	return fmt.Sprintf("%s: %s: response has no %s", e.Op, constants.ErrRequestFailure, e.Missing)
}

func (e *RequestFailureError) Unwrap() error {
	return constants.ErrRequestFailure
}

// DuplicateKeyError means two items of a bulk fetch had the same key value.
type DuplicateKeyError struct {
	KeyBy string
	Key   string
	Page  int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s %s:%s on page %d", constants.ErrDuplicateKey, e.KeyBy, e.Key, e.Page)
}

func (e *DuplicateKeyError) Unwrap() error {
	return constants.ErrDuplicateKey
}

func isAuthFailure(status int) bool {
	return status == 401 || status == 403
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", constants.ErrInvalidArgument, fmt.Sprintf(format, args...))
}
