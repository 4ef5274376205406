package identity

import "context"

// StaticVerifier resolves tokens from a fixed in-memory map.
// Used in tests and local development where no identity provider is reachable.
type StaticVerifier struct {
	Tokens  map[string]*Identity
	Revoked map[string]bool
}

// NewStaticVerifier returns an empty StaticVerifier.
func NewStaticVerifier() *StaticVerifier {
	return &StaticVerifier{
		Tokens:  make(map[string]*Identity),
		Revoked: make(map[string]bool),
	}
}

// Add registers a token mapping to the given identity and returns the verifier for chaining.
func (v *StaticVerifier) Add(token string, ident *Identity) *StaticVerifier {
	v.Tokens[token] = ident
	return v
}

// Verify looks the token up in the static map.
func (v *StaticVerifier) Verify(_ context.Context, idToken string) (*Identity, error) {
	ident, ok := v.Tokens[idToken]
	if !ok {
		return nil, ErrInvalidToken
	}
	return ident, nil
}

// Revoke records the UID as revoked.
func (v *StaticVerifier) Revoke(_ context.Context, uid string) error {
	v.Revoked[uid] = true
	return nil
}
