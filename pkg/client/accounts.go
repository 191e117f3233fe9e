package client

import (
	"context"
	"fmt"
)

// CreateAccountRequest represents an account registration request
type CreateAccountRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// UpdateAccountRequest represents a partial account update. Nil fields are
// left unchanged.
type UpdateAccountRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// AccountList is a page of accounts
type AccountList struct {
	Accounts []*Account `json:"accounts"`
	Total    int64      `json:"total"`
	Limit    int        `json:"limit"`
	Offset   int        `json:"offset"`
}

// CreateAccount registers a new account
func (c *Client) CreateAccount(ctx context.Context, req CreateAccountRequest) (*Account, error) {
	var account Account
	if err := c.doEnveloped(ctx, "POST", "/api/create-user", req, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// UpdateAccount updates the account behind the current session
func (c *Client) UpdateAccount(ctx context.Context, req UpdateAccountRequest) (*Account, error) {
	var account Account
	if err := c.doEnveloped(ctx, "PATCH", "/api/v1/account", req, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// RequestPasswordReset asks for reset instructions for an email. The server
// answers 200 whether or not the email is registered.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	req := map[string]string{"email": email}
	return c.doRequest(ctx, "POST", "/redefinir-senha", req, nil)
}

// ListAccounts returns a page of accounts. Requires an admin session.
func (c *Client) ListAccounts(ctx context.Context, limit, offset int) (*AccountList, error) {
	path := "/admin/api/accounts"
	if limit > 0 || offset > 0 {
		path = fmt.Sprintf("%s?limit=%d&offset=%d", path, limit, offset)
	}

	var list AccountList
	if err := c.doEnveloped(ctx, "GET", path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// DeactivateAccount disables an account. Requires an admin session.
func (c *Client) DeactivateAccount(ctx context.Context, id string) error {
	return c.doRequest(ctx, "DELETE", "/admin/api/accounts/"+id, nil, nil)
}
