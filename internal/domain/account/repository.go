package account

import "context"

// Repository defines the interface for account data access
type Repository interface {
	// Create creates a new account
	Create(ctx context.Context, a *Account) error

	// GetByID retrieves an account by ID
	GetByID(ctx context.Context, id string) (*Account, error)

	// GetByEmail retrieves an account by email (case-sensitive exact match)
	GetByEmail(ctx context.Context, email string) (*Account, error)

	// Update updates an account
	Update(ctx context.Context, a *Account) error

	// List retrieves accounts with pagination
	List(ctx context.Context, limit, offset int) ([]*Account, int64, error)
}
