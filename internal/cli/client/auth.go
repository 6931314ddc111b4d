package client

import (
	"context"
	"net/http"
)

// Login authenticates the user and returns the bearer token and profile fields.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResponse, error) {
	var loginResp LoginResponse
	if err := c.do(ctx, call{method: http.MethodPost, path: "/auth/login", body: creds, out: &loginResp}); err != nil {
		return nil, err
	}
	return &loginResp, nil
}

// Me fetches the profile bound to token.
func (c *Client) Me(ctx context.Context, token string) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, call{method: http.MethodGet, path: "/auth/me", out: &profile, token: token}); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Logout tells the backend that the session bound to token has ended.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, call{method: http.MethodPost, path: "/auth/logout", token: token})
}

// Register creates a new USER account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, call{method: http.MethodPost, path: "/auth/register", body: req, out: &profile}); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ChangePassword changes the signed-in user's password.
func (c *Client) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	return c.do(ctx, call{method: http.MethodPut, path: "/auth/change-password", body: req})
}
