package constants

import "errors"

// Error kinds surfaced by the client. Concrete error values wrap one of these,
// so callers can branch with errors.Is.
var (
	// ErrHTTPStatus is any response with a status of 400 or more.
	ErrHTTPStatus = errors.New("http status failure")
	// ErrAuthorization is a 401/403 that survived the single re-authentication attempt.
	ErrAuthorization = errors.New("authorization failure")
	// ErrRequestFailure is a successful response missing a field the call depends on.
	ErrRequestFailure = errors.New("request failure")
	// ErrInvalidArgument means the caller violated a precondition.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDuplicateKey means two pages of a bulk fetch carried the same key.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrNotFound means a lookup matched nothing.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguous means a lookup expected to be unique matched more than once.
	ErrAmbiguous = errors.New("ambiguous match")
)

var (
	ErrNoBaseURL     = errors.New("api root not set")
	ErrNoFetcher     = errors.New("no fetcher registered for uri scheme")
	ErrNoFileContent = errors.New("file has neither inline content nor a source uri")
)
