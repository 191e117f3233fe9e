package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/LoohanZinho/enem2-sub003/internal/domain/entitlement"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/errors"
	"github.com/LoohanZinho/enem2-sub003/internal/repository/postgres"
	"github.com/LoohanZinho/enem2-sub003/internal/testutil"
)

func newAccessKey(key, userID string, expiresAt time.Time) *entitlement.AccessKey {
	return &entitlement.AccessKey{
		Key:       key,
		UserID:    userID,
		UserEmail: "user@example.com",
		Plan:      entitlement.PlanMonthly,
		Status:    entitlement.StatusActive,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}
}

func TestAccessKeyRepository_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := postgres.NewAccessKeyRepository(db)
	ctx := context.Background()

	expires := time.Now().Add(30 * 24 * time.Hour)
	k := newAccessKey("key-1", "user-1", expires)
	k.PaymentID = "pay-1"
	k.IsRecurring = true
	k.SubscriptionID = "sub-1"

	if err := repo.Create(ctx, k); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if k.ID == 0 {
		t.Error("Create() did not assign an id")
	}

	got, err := repo.GetByKey(ctx, "key-1")
	if err != nil {
		t.Fatalf("GetByKey() error = %v", err)
	}
	if got.UserID != "user-1" {
		t.Errorf("GetByKey() user = %v, want user-1", got.UserID)
	}
	if !got.IsRecurring {
		t.Error("GetByKey() should preserve the recurring flag")
	}
	if got.SubscriptionID != "sub-1" {
		t.Errorf("GetByKey() subscription = %v, want sub-1", got.SubscriptionID)
	}
	// Timestamps are stored at second precision
	if got.ExpiresAt.Unix() != expires.Unix() {
		t.Errorf("GetByKey() expires = %v, want %v", got.ExpiresAt.Unix(), expires.Unix())
	}
}

func TestAccessKeyRepository_GetByPaymentID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := postgres.NewAccessKeyRepository(db)
	ctx := context.Background()

	k := newAccessKey("key-1", "user-1", time.Now().Add(time.Hour))
	k.PaymentID = "pay-42"
	if err := repo.Create(ctx, k); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByPaymentID(ctx, "pay-42")
	if err != nil {
		t.Fatalf("GetByPaymentID() error = %v", err)
	}
	if got.Key != "key-1" {
		t.Errorf("GetByPaymentID() key = %v, want key-1", got.Key)
	}

	_, err = repo.GetByPaymentID(ctx, "pay-unknown")
	if err == nil {
		t.Fatal("GetByPaymentID() should fail for unknown payment")
	}
	appErr, ok := err.(*errors.AppError)
	if !ok || appErr.Code != errors.ErrCodeNotFound {
		t.Errorf("GetByPaymentID() error = %v, want not found", err)
	}
}

func TestAccessKeyRepository_ListByUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := postgres.NewAccessKeyRepository(db)
	ctx := context.Background()

	now := time.Now()
	for _, k := range []*entitlement.AccessKey{
		newAccessKey("key-1", "user-1", now.Add(24*time.Hour)),
		newAccessKey("key-2", "user-1", now.Add(48*time.Hour)),
		newAccessKey("key-3", "user-2", now.Add(24*time.Hour)),
	} {
		if err := repo.Create(ctx, k); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	keys, err := repo.ListByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("ListByUser() returned %d keys, want 2", len(keys))
	}
	// Ordered latest expiry first
	if keys[0].Key != "key-2" {
		t.Errorf("ListByUser() first key = %v, want key-2", keys[0].Key)
	}

	keys, err = repo.ListByUser(ctx, "user-none")
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("ListByUser() for unknown user returned %d keys", len(keys))
	}
}

func TestAccessKeyRepository_UpdateStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := postgres.NewAccessKeyRepository(db)
	ctx := context.Background()

	k := newAccessKey("key-1", "user-1", time.Now().Add(time.Hour))
	if err := repo.Create(ctx, k); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.UpdateStatus(ctx, "key-1", entitlement.StatusRevoked); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	got, err := repo.GetByKey(ctx, "key-1")
	if err != nil {
		t.Fatalf("GetByKey() error = %v", err)
	}
	if got.Status != entitlement.StatusRevoked {
		t.Errorf("UpdateStatus() status = %v, want %v", got.Status, entitlement.StatusRevoked)
	}

	if err := repo.UpdateStatus(ctx, "missing", entitlement.StatusRevoked); err == nil {
		t.Error("UpdateStatus() of missing key should fail")
	}
}

func TestAccessKeyRepository_ListRecurringExpiring(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := postgres.NewAccessKeyRepository(db)
	ctx := context.Background()

	now := time.Now()

	dueRecurring := newAccessKey("key-due", "user-1", now.Add(12*time.Hour))
	dueRecurring.IsRecurring = true

	farRecurring := newAccessKey("key-far", "user-1", now.Add(30*24*time.Hour))
	farRecurring.IsRecurring = true

	dueOneTime := newAccessKey("key-onetime", "user-2", now.Add(12*time.Hour))

	dueRevoked := newAccessKey("key-revoked", "user-3", now.Add(12*time.Hour))
	dueRevoked.IsRecurring = true
	dueRevoked.Status = entitlement.StatusRevoked

	for _, k := range []*entitlement.AccessKey{dueRecurring, farRecurring, dueOneTime, dueRevoked} {
		if err := repo.Create(ctx, k); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	keys, err := repo.ListRecurringExpiring(ctx, now.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("ListRecurringExpiring() error = %v", err)
	}
	if len(keys) != 1 {
		t.Fatalf("ListRecurringExpiring() returned %d keys, want 1", len(keys))
	}
	if keys[0].Key != "key-due" {
		t.Errorf("ListRecurringExpiring() key = %v, want key-due", keys[0].Key)
	}
}
