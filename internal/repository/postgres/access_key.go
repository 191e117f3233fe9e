package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/LoohanZinho/enem2-sub003/internal/domain/entitlement"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/errors"
)

// AccessKeyRepository implements entitlement.Repository
type AccessKeyRepository struct {
	db *sql.DB
}

// NewAccessKeyRepository creates a new access key repository
func NewAccessKeyRepository(db *sql.DB) entitlement.Repository {
	return &AccessKeyRepository{db: db}
}

const accessKeyColumns = `id, key, user_id, user_email, user_name, payment_id, payment_method, plan, status, created_at, expires_at, is_recurring, subscription_id`

// Create persists a new access key
func (r *AccessKeyRepository) Create(ctx context.Context, k *entitlement.AccessKey) error {
	query := `
		INSERT INTO access_keys (key, user_id, user_email, user_name, payment_id, payment_method, plan, status, created_at, expires_at, is_recurring, subscription_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		k.Key, k.UserID, k.UserEmail, k.UserName, k.PaymentID, k.PaymentMethod,
		k.Plan, k.Status, k.CreatedAt.Unix(), k.ExpiresAt.Unix(), boolToInt(k.IsRecurring), k.SubscriptionID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Conflict("Access key already exists")
		}
		return errors.DatabaseError("Failed to create access key", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errors.DatabaseError("Failed to get access key ID", err)
	}

	k.ID = id
	return nil
}

// GetByKey retrieves an access key by its key value
func (r *AccessKeyRepository) GetByKey(ctx context.Context, key string) (*entitlement.AccessKey, error) {
	query := `SELECT ` + accessKeyColumns + ` FROM access_keys WHERE key = ?`
	return scanAccessKey(r.db.QueryRowContext(ctx, query, key))
}

// GetByPaymentID retrieves an access key by the payment that created it
func (r *AccessKeyRepository) GetByPaymentID(ctx context.Context, paymentID string) (*entitlement.AccessKey, error) {
	query := `SELECT ` + accessKeyColumns + ` FROM access_keys WHERE payment_id = ? ORDER BY expires_at DESC LIMIT 1`
	return scanAccessKey(r.db.QueryRowContext(ctx, query, paymentID))
}

// ListByUser retrieves all access keys for an account
func (r *AccessKeyRepository) ListByUser(ctx context.Context, userID string) ([]*entitlement.AccessKey, error) {
	query := `SELECT ` + accessKeyColumns + ` FROM access_keys WHERE user_id = ? ORDER BY expires_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list access keys", err)
	}
	defer rows.Close()

	return collectAccessKeys(rows)
}

// UpdateStatus transitions a key's status
func (r *AccessKeyRepository) UpdateStatus(ctx context.Context, key, status string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE access_keys SET status = ? WHERE key = ?`, status, key)
	if err != nil {
		return errors.DatabaseError("Failed to update access key status", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}

	if rows == 0 {
		return errors.NotFound("Access key")
	}

	return nil
}

// ListRecurringExpiring retrieves active recurring keys expiring before the deadline
func (r *AccessKeyRepository) ListRecurringExpiring(ctx context.Context, deadline time.Time) ([]*entitlement.AccessKey, error) {
	query := `SELECT ` + accessKeyColumns + `
		FROM access_keys
		WHERE status = ? AND is_recurring = 1 AND expires_at <= ?
		ORDER BY expires_at ASC`

	rows, err := r.db.QueryContext(ctx, query, entitlement.StatusActive, deadline.Unix())
	if err != nil {
		return nil, errors.DatabaseError("Failed to list expiring access keys", err)
	}
	defer rows.Close()

	return collectAccessKeys(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccessKeyInto(k *entitlement.AccessKey, s rowScanner) error {
	var userEmail, userName, paymentID, paymentMethod, subscriptionID sql.NullString
	var isRecurring int
	var createdAt, expiresAt int64

	err := s.Scan(
		&k.ID, &k.Key, &k.UserID, &userEmail, &userName, &paymentID, &paymentMethod,
		&k.Plan, &k.Status, &createdAt, &expiresAt, &isRecurring, &subscriptionID,
	)
	if err != nil {
		return err
	}

	k.UserEmail = userEmail.String
	k.UserName = userName.String
	k.PaymentID = paymentID.String
	k.PaymentMethod = paymentMethod.String
	k.SubscriptionID = subscriptionID.String
	k.IsRecurring = isRecurring != 0
	k.CreatedAt = time.Unix(createdAt, 0)
	k.ExpiresAt = time.Unix(expiresAt, 0)

	return nil
}

func scanAccessKey(row *sql.Row) (*entitlement.AccessKey, error) {
	var k entitlement.AccessKey
	err := scanAccessKeyInto(&k, row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Access key")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get access key", err)
	}
	return &k, nil
}

func collectAccessKeys(rows *sql.Rows) ([]*entitlement.AccessKey, error) {
	var keys []*entitlement.AccessKey
	for rows.Next() {
		var k entitlement.AccessKey
		if err := scanAccessKeyInto(&k, rows); err != nil {
			return nil, errors.DatabaseError("Failed to scan access key", err)
		}
		keys = append(keys, &k)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate access keys", err)
	}
	return keys, nil
}
