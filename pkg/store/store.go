// Package store holds the session credentials a client sends with every request.
//
// A [TokenStore] keeps the bearer token, the anti-forgery (CSRF) token and a
// small amount of caller-scoped scratch data. It holds state only; it never
// talks to the DSpace server itself. [Memory] is the default; [Redis] lets
// several processes share one session.
package store

import "context"

// TokenStore is the session-state container used by the client.
//
// Tokens are replaced wholesale on every store; an empty string means absent.
type TokenStore interface {
	StoreCSRFToken(ctx context.Context, token string) error
	StoreBearerToken(ctx context.Context, token string) error
	CSRFToken(ctx context.Context) (string, error)
	BearerToken(ctx context.Context) (string, error)

	StoreUserData(ctx context.Context, key string, value any) error
	// UserData returns def when key has no stored value.
	UserData(ctx context.Context, key string, def any) (any, error)
	ClearUserData(ctx context.Context, key string) error

	// Clear drops both tokens, leaving user data alone.
	Clear(ctx context.Context) error
}
