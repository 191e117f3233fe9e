package entitlement

import (
	"context"
	"time"
)

// Repository defines the interface for access key data access
type Repository interface {
	// Create persists a new access key
	Create(ctx context.Context, k *AccessKey) error

	// GetByKey retrieves an access key by its key value
	GetByKey(ctx context.Context, key string) (*AccessKey, error)

	// GetByPaymentID retrieves an access key by the payment that created it
	GetByPaymentID(ctx context.Context, paymentID string) (*AccessKey, error)

	// ListByUser retrieves all access keys for an account
	ListByUser(ctx context.Context, userID string) ([]*AccessKey, error)

	// UpdateStatus transitions a key's status
	UpdateStatus(ctx context.Context, key, status string) error

	// ListRecurringExpiring retrieves active recurring keys expiring before
	// the deadline
	ListRecurringExpiring(ctx context.Context, deadline time.Time) ([]*AccessKey, error)
}
