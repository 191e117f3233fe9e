package client

import "context"

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	User    *Account `json:"user,omitempty"`
}

// Login authenticates with email and password. On success the session
// cookie is captured by the client's jar.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	req := LoginRequest{
		Email:    email,
		Password: password,
	}

	var resp LoginResponse
	if err := c.doRequest(ctx, "POST", "/api/v1/auth/login", req, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// Me retrieves the account behind the current session
func (c *Client) Me(ctx context.Context) (*Account, error) {
	var account Account
	if err := c.doEnveloped(ctx, "GET", "/api/v1/auth/me", nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// Logout clears the session. The server expires the cookie; calling this
// without a session is not an error.
func (c *Client) Logout(ctx context.Context) error {
	return c.doRequest(ctx, "POST", "/api/v1/auth/logout", nil, nil)
}
