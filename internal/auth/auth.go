// Package auth resolves bearer tokens to user identities via Supabase.
// Debate chat is usable anonymously; the speaking-points generator and the
// library require a signed-in user.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/supabase-community/supabase-go"
)

// ErrInvalidToken is returned when a presented token does not resolve to a user.
var ErrInvalidToken = errors.New("auth: invalid token")

// Identity is a resolved user. The zero value is the anonymous identity.
type Identity struct {
	UserID string
	Email  string
}

// Anonymous reports whether the identity belongs to no signed-in user.
func (i Identity) Anonymous() bool {
	return i.UserID == ""
}

// Verifier resolves a bearer token into an Identity. An empty token
// resolves to the anonymous identity without error.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// SupabaseVerifier validates tokens against the Supabase auth service.
type SupabaseVerifier struct {
	client *supabase.Client
}

// NewSupabaseVerifier creates a verifier for the given project.
func NewSupabaseVerifier(url, anonKey string) (*SupabaseVerifier, error) {
	client, err := supabase.NewClient(url, anonKey, nil)
	if err != nil {
		return nil, fmt.Errorf("auth: creating supabase client: %w", err)
	}
	return &SupabaseVerifier{client: client}, nil
}

// Verify implements Verifier.
func (v *SupabaseVerifier) Verify(_ context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, nil
	}
	user, err := v.client.Auth.WithToken(token).GetUser()
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return Identity{UserID: user.ID.String(), Email: user.Email}, nil
}

// StaticVerifier maps fixed tokens to identities, for tests and local runs.
type StaticVerifier map[string]Identity

// Verify implements Verifier.
func (v StaticVerifier) Verify(_ context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, nil
	}
	id, ok := v[token]
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	return id, nil
}
