package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/LoohanZinho/enem2-sub003/internal/domain/account"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/errors"
)

// AccountRepository implements account.Repository
type AccountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *sql.DB) account.Repository {
	return &AccountRepository{db: db}
}

// Create creates a new account
func (r *AccountRepository) Create(ctx context.Context, a *account.Account) error {
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	query := `
		INSERT INTO accounts (id, email, name, password_hash, role, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.Email, a.Name, a.PasswordHash, a.Role, boolToInt(a.IsActive), now.Unix(), now.Unix(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Conflict("An account with this email already exists")
		}
		return errors.DatabaseError("Failed to create account", err)
	}

	return nil
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*account.Account, error) {
	query := `
		SELECT id, email, name, password_hash, role, is_active, created_at, updated_at
		FROM accounts WHERE id = ?
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves an account by email. The match is case-sensitive;
// email is the unique key as stored.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	query := `
		SELECT id, email, name, password_hash, role, is_active, created_at, updated_at
		FROM accounts WHERE email = ?
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *AccountRepository) scanOne(row *sql.Row) (*account.Account, error) {
	var a account.Account
	var name sql.NullString
	var isActive int
	var createdAt, updatedAt int64

	err := row.Scan(&a.ID, &a.Email, &name, &a.PasswordHash, &a.Role, &isActive, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Account")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get account", err)
	}

	if name.Valid {
		a.Name = name.String
	}
	a.IsActive = isActive != 0
	a.CreatedAt = time.Unix(createdAt, 0)
	a.UpdatedAt = time.Unix(updatedAt, 0)

	return &a, nil
}

// Update updates an account
func (r *AccountRepository) Update(ctx context.Context, a *account.Account) error {
	a.UpdatedAt = time.Now()

	query := `
		UPDATE accounts
		SET email = ?, name = ?, password_hash = ?, role = ?, is_active = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		a.Email, a.Name, a.PasswordHash, a.Role, boolToInt(a.IsActive), a.UpdatedAt.Unix(), a.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Conflict("An account with this email already exists")
		}
		return errors.DatabaseError("Failed to update account", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}

	if rows == 0 {
		return errors.NotFound("Account")
	}

	return nil
}

// List retrieves accounts with pagination
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*account.Account, int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM accounts").Scan(&total)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to count accounts", err)
	}

	query := `
		SELECT id, email, name, password_hash, role, is_active, created_at, updated_at
		FROM accounts
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list accounts", err)
	}
	defer rows.Close()

	var accounts []*account.Account
	for rows.Next() {
		var a account.Account
		var name sql.NullString
		var isActive int
		var createdAt, updatedAt int64

		err := rows.Scan(&a.ID, &a.Email, &name, &a.PasswordHash, &a.Role, &isActive, &createdAt, &updatedAt)
		if err != nil {
			return nil, 0, errors.DatabaseError("Failed to scan account", err)
		}

		if name.Valid {
			a.Name = name.String
		}
		a.IsActive = isActive != 0
		a.CreatedAt = time.Unix(createdAt, 0)
		a.UpdatedAt = time.Unix(updatedAt, 0)

		accounts = append(accounts, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, errors.DatabaseError("Failed to iterate accounts", err)
	}

	return accounts, total, nil
}
