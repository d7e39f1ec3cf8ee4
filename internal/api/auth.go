package api

import (
	"context"
	"fmt"

	"github.com/phegonbank/webclient-go/internal/gateway"
	"github.com/phegonbank/webclient-go/internal/session"
)

// AuthClient talks to the /auth endpoints and keeps the session manager in
// step with the results.
type AuthClient struct {
	gw      *gateway.Client
	session *session.Manager
}

// NewAuthClient creates an AuthClient. The session manager is optional;
// without one, login results are returned but not persisted.
func NewAuthClient(gw *gateway.Client, mgr *session.Manager) *AuthClient {
	return &AuthClient{gw: gw, session: mgr}
}

// Login exchanges credentials for a token and writes it through the session
// manager, so the credential store and derived state update atomically from
// the caller's point of view.
func (c *AuthClient) Login(ctx context.Context, req LoginRequest) (LoginResult, error) {
	var res LoginResult
	if err := c.gw.Post(ctx, "/auth/login", req, &res); err != nil {
		return LoginResult{}, err
	}
	if c.session != nil {
		if err := c.session.Login(ctx, res.Token, res.Roles); err != nil {
			return LoginResult{}, fmt.Errorf("persist credential: %w", err)
		}
	}
	return res, nil
}

// Register creates a new user account. The caller still logs in afterwards.
func (c *AuthClient) Register(ctx context.Context, req RegisterRequest) (User, error) {
	var u User
	if err := c.gw.Post(ctx, "/auth/register", req, &u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Logout clears the stored credential and session state. Purely local; the
// backend holds no session to invalidate.
func (c *AuthClient) Logout(ctx context.Context) error {
	if c.session == nil {
		return nil
	}
	return c.session.Logout(ctx)
}

// ForgotPassword requests a reset email for the given address.
func (c *AuthClient) ForgotPassword(ctx context.Context, email string) error {
	return c.gw.Post(ctx, "/auth/forgot-password", ForgotPasswordRequest{Email: email}, nil)
}

// ResetPassword consumes a reset token to set a new password.
func (c *AuthClient) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	return c.gw.Post(ctx, "/auth/reset-password", req, nil)
}

// RefreshToken trades the current token for a fresh one and writes the
// replacement through the session manager.
func (c *AuthClient) RefreshToken(ctx context.Context) (LoginResult, error) {
	var res LoginResult
	if err := c.gw.Post(ctx, "/auth/refresh-token", nil, &res); err != nil {
		return LoginResult{}, err
	}
	if c.session != nil {
		if err := c.session.Login(ctx, res.Token, res.Roles); err != nil {
			return LoginResult{}, fmt.Errorf("persist refreshed credential: %w", err)
		}
	}
	return res, nil
}
