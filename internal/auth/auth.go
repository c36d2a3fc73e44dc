// Package auth resolves bearer tokens to user identities through an
// identity provider.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aoideee/booktracker/internal/metrics"
)

var (
	// ErrMissingToken means the request carried no usable bearer token.
	ErrMissingToken = errors.New("no token provided")
	// ErrInvalidToken means the identity provider did not accept the token,
	// or could not be reached.
	ErrInvalidToken = errors.New("invalid token")
)

// User is the identity resolved from a token.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Verifier resolves a raw token to a User. Implementations return an error
// wrapping ErrInvalidToken for any rejection.
type Verifier interface {
	Verify(ctx context.Context, token string) (*User, error)
}

// TokenFromHeader strips a leading "Bearer " from an Authorization header value.
func TokenFromHeader(header string) string {
	return strings.TrimPrefix(header, "Bearer ")
}

// Authenticate resolves the Authorization header value to a User.
// An empty token fails with ErrMissingToken without calling the provider.
// Every other failure is reported as ErrInvalidToken.
func Authenticate(ctx context.Context, v Verifier, header string) (*User, error) {
	token := TokenFromHeader(header)
	if token == "" {
		metrics.RecordIdentityLookup("missing")
		return nil, ErrMissingToken
	}

	user, err := v.Verify(ctx, token)
	if err != nil {
		metrics.RecordIdentityLookup("invalid")
		if errors.Is(err, ErrInvalidToken) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if user == nil || user.ID == "" {
		metrics.RecordIdentityLookup("invalid")
		return nil, ErrInvalidToken
	}

	metrics.RecordIdentityLookup("ok")
	return user, nil
}
