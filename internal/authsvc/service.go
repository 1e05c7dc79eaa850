// Package authsvc talks to the external identity provider. Passwords and
// credential storage live entirely on the provider's side; this package only
// exchanges them for identities and delegated access tokens.
package authsvc

import (
	"context"
	"time"
)

// Identity is an authenticated principal as reported by the auth service.
type Identity struct {
	ID    string
	Email string
}

// Credentials is the result of a successful password sign-in: the identity
// plus the delegated access token attached to subsequent authorized calls.
type Credentials struct {
	Identity    Identity
	AccessToken string
	ExpiresAt   time.Time
}

// Service defines the operations this backend needs from the auth provider.
// This abstraction allows swapping the hosted provider with a mock in tests.
type Service interface {
	SignUp(ctx context.Context, email, password string) (Identity, error)
	SignIn(ctx context.Context, email, password string) (Credentials, error)
}

// AuthError carries the provider's own message so handlers can surface it.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	return e.Message
}
