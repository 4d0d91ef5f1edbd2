package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	stride "github.com/striderun/stride-go"
)

// AuthService handles session bootstrap and teardown.
type AuthService struct {
	t Transport
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// TokenResponse represents a token response
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// Login authenticates with email and password and stores the returned
// credential pair. The call itself carries no credential.
func (s *AuthService) Login(ctx context.Context, email, password string) (*User, error) {
	resp, err := s.t.Post(ctx, "/auth/login", LoginRequest{Email: email, Password: password}, stride.SkipAuth())
	if err != nil {
		return nil, err
	}

	var tokens TokenResponse
	if err := resp.Decode(&tokens); err != nil {
		return nil, fmt.Errorf("failed to parse login response: %w", err)
	}
	if err := s.t.SetCredentials(ctx, tokens.AccessToken, tokens.RefreshToken); err != nil {
		return nil, fmt.Errorf("failed to store credentials: %w", err)
	}
	return &tokens.User, nil
}

// Register creates an account and stores the returned credential pair.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*User, error) {
	resp, err := s.t.Post(ctx, "/auth/register", RegisterRequest{Email: email, Password: password, Name: name}, stride.SkipAuth())
	if err != nil {
		return nil, err
	}

	var tokens TokenResponse
	if err := resp.Decode(&tokens); err != nil {
		return nil, fmt.Errorf("failed to parse register response: %w", err)
	}
	if err := s.t.SetCredentials(ctx, tokens.AccessToken, tokens.RefreshToken); err != nil {
		return nil, fmt.Errorf("failed to store credentials: %w", err)
	}
	return &tokens.User, nil
}

// Logout tells the server to invalidate the session, then clears the local
// credentials. The local state is cleared even when the server call fails;
// a dead session on the server is preferable to a stuck client.
func (s *AuthService) Logout(ctx context.Context) error {
	_, err := s.t.Post(ctx, "/auth/logout", nil, stride.Retries(0))
	if clearErr := s.t.ClearCredentials(ctx); clearErr != nil {
		return clearErr
	}
	if err != nil {
		// A 401 just means the session was already gone.
		var apiErr *stride.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return nil
		}
		return err
	}
	return nil
}
