// Package identity abstracts token verification against the external identity provider.
package identity

import (
	"context"
	"errors"
)

// ErrInvalidToken is returned when a presented ID token cannot be verified.
var ErrInvalidToken = errors.New("invalid identity token")

// Identity is the verified claim set extracted from an ID token.
type Identity struct {
	UID         string
	DisplayName string
	Email       string
	PhotoURL    string
}

// Verifier verifies a bearer ID token and returns the identity it asserts.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}

// Revoker forces sign-out of a principal by revoking its refresh tokens.
// Existing ID tokens expire naturally; revocation stops new ones being minted.
type Revoker interface {
	Revoke(ctx context.Context, uid string) error
}
