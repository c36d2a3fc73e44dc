package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// GoTrueClient resolves tokens by asking a GoTrue-compatible auth server
// (Supabase Auth) for the user that owns them.
type GoTrueClient struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// NewGoTrueClient creates a client for the project at baseURL, authenticating
// itself with the service role key.
func NewGoTrueClient(baseURL, serviceKey string, timeout time.Duration) (*GoTrueClient, error) {
	if baseURL == "" || serviceKey == "" {
		return nil, errors.New("identity provider url and service key are required")
	}
	return &GoTrueClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Verify calls GET /auth/v1/user with the caller's token.
func (c *GoTrueClient) Verify(ctx context.Context, token string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrInvalidToken, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10)) //nolint:errcheck
		return nil, fmt.Errorf("%w: provider returned %d", ErrInvalidToken, resp.StatusCode)
	}

	var user User
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&user); err != nil {
		return nil, fmt.Errorf("%w: decode user: %v", ErrInvalidToken, err)
	}
	if user.ID == "" {
		return nil, fmt.Errorf("%w: user has no id", ErrInvalidToken)
	}
	return &user, nil
}
