package account

import "context"

// Service defines the interface for account business logic
type Service interface {
	// Create registers a new account with a hashed password
	Create(ctx context.Context, email, password, name string) (*Account, error)

	// Authenticate verifies email+password. Unknown email, wrong password
	// and deactivated account are indistinguishable to the caller.
	Authenticate(ctx context.Context, email, password string) (*Account, error)

	// GetByID retrieves an account by ID
	GetByID(ctx context.Context, id string) (*Account, error)

	// GetByEmail retrieves an account by email
	GetByEmail(ctx context.Context, email string) (*Account, error)

	// Update applies a partial update, then returns the re-read canonical record
	Update(ctx context.Context, id string, params UpdateParams) (*Account, error)

	// Deactivate marks an account inactive
	Deactivate(ctx context.Context, id string) error

	// List retrieves accounts with pagination
	List(ctx context.Context, limit, offset int) ([]*Account, int64, error)
}
