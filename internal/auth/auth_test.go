package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type verifierFunc func(ctx context.Context, token string) (*User, error)

func (f verifierFunc) Verify(ctx context.Context, token string) (*User, error) {
	return f(ctx, token)
}

func TestTokenFromHeader(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc.def", "abc.def"},
		{"abc.def", "abc.def"},
		{"Bearer ", ""},
		{"", ""},
		{"bearer abc", "bearer abc"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TokenFromHeader(tt.header), tt.header)
	}
}

func TestAuthenticate_MissingTokenSkipsProvider(t *testing.T) {
	called := false
	v := verifierFunc(func(context.Context, string) (*User, error) {
		called = true
		return &User{ID: "u"}, nil
	})

	for _, header := range []string{"", "Bearer "} {
		_, err := Authenticate(context.Background(), v, header)
		assert.ErrorIs(t, err, ErrMissingToken)
	}
	assert.False(t, called)
}

func TestAuthenticate_ProviderFailuresCollapse(t *testing.T) {
	tests := []struct {
		name string
		v    Verifier
	}{
		{"rejected", verifierFunc(func(context.Context, string) (*User, error) {
			return nil, ErrInvalidToken
		})},
		{"transport error", verifierFunc(func(context.Context, string) (*User, error) {
			return nil, errors.New("dial tcp: connection refused")
		})},
		{"no user", verifierFunc(func(context.Context, string) (*User, error) {
			return nil, nil
		})},
		{"user without id", verifierFunc(func(context.Context, string) (*User, error) {
			return &User{Email: "a@example.com"}, nil
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := Authenticate(context.Background(), tt.v, "Bearer tok")
			assert.Nil(t, user)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestAuthenticate_Success(t *testing.T) {
	var got string
	v := verifierFunc(func(_ context.Context, token string) (*User, error) {
		got = token
		return &User{ID: "user-1", Email: "reader@example.com"}, nil
	})

	user, err := Authenticate(context.Background(), v, "Bearer tok-123")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", got)
	assert.Equal(t, "user-1", user.ID)
}
