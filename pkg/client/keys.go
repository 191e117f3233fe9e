package client

import "context"

// IssueKeyRequest represents a manual access key grant
type IssueKeyRequest struct {
	UserID         string `json:"userId"`
	Plan           string `json:"plan"`
	PaymentID      string `json:"paymentId,omitempty"`
	PaymentMethod  string `json:"paymentMethod,omitempty"`
	IsRecurring    bool   `json:"isRecurring"`
	SubscriptionID string `json:"subscriptionId,omitempty"`
}

// KeyList is the set of access keys belonging to one user
type KeyList struct {
	Keys  []*AccessKey `json:"keys"`
	Total int          `json:"total"`
}

// AccessStatus returns the evaluated entitlement of the current session
func (c *Client) AccessStatus(ctx context.Context) (*AccessStatus, error) {
	var status AccessStatus
	if err := c.doEnveloped(ctx, "GET", "/api/v1/entitlement", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListKeys returns every access key for a user. Requires an admin session.
func (c *Client) ListKeys(ctx context.Context, userID string) (*KeyList, error) {
	var list KeyList
	if err := c.doEnveloped(ctx, "GET", "/admin/api/keys/"+userID, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// IssueKey grants an access key manually. Requires an admin session.
func (c *Client) IssueKey(ctx context.Context, req IssueKeyRequest) (*AccessKey, error) {
	var key AccessKey
	if err := c.doEnveloped(ctx, "POST", "/admin/api/keys", req, &key); err != nil {
		return nil, err
	}
	return &key, nil
}

// RevokeKey marks an access key revoked. Requires an admin session.
func (c *Client) RevokeKey(ctx context.Context, key string) error {
	return c.doRequest(ctx, "DELETE", "/admin/api/keys/"+key, nil, nil)
}
