package entitlement

import "context"

// IssueParams carries everything needed to create an access key.
type IssueParams struct {
	UserID         string
	UserEmail      string
	UserName       string
	PaymentID      string
	PaymentMethod  string
	Plan           string
	IsRecurring    bool
	SubscriptionID string
}

// Service defines the interface for entitlement business logic
type Service interface {
	// Evaluate returns the account's current entitlement state. Pure read
	// plus wall clock; safe to call on every request.
	Evaluate(ctx context.Context, userID string) (*Status, error)

	// Issue creates a new access key
	Issue(ctx context.Context, params IssueParams) (*AccessKey, error)

	// Revoke transitions a key active->revoked
	Revoke(ctx context.Context, key string) error

	// RevokeByPaymentID revokes the key created by a payment (refunds,
	// chargebacks)
	RevokeByPaymentID(ctx context.Context, paymentID string) error

	// ListByUser retrieves all access keys for an account
	ListByUser(ctx context.Context, userID string) ([]*AccessKey, error)

	// RenewDue creates successor keys for recurring entitlements nearing
	// expiry and returns how many were issued
	RenewDue(ctx context.Context) (int, error)
}
