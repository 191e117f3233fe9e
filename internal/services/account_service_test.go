package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/LoohanZinho/enem2-sub003/internal/domain/account"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/errors"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/logger"
	"github.com/LoohanZinho/enem2-sub003/internal/testutil"
)

func newTestAccountService(repo account.Repository) account.Service {
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	return NewAccountService(repo, bcrypt.MinCost, log)
}

func TestAccountService_Create(t *testing.T) {
	mockRepo := testutil.NewMockAccountRepository()
	service := newTestAccountService(mockRepo)
	ctx := context.Background()

	a, err := service.Create(ctx, "test@example.com", "secret123", "Test User")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if a.ID == "" {
		t.Error("Create() did not assign an id")
	}
	if a.Role != account.RoleUser {
		t.Errorf("Create() role = %v, want %v", a.Role, account.RoleUser)
	}
	if !a.IsActive {
		t.Error("Create() account should start active")
	}
	if a.PasswordHash == "secret123" {
		t.Error("Create() stored the plaintext password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte("secret123")); err != nil {
		t.Errorf("Create() stored hash does not match password: %v", err)
	}
}

func TestAccountService_Create_DuplicateEmail(t *testing.T) {
	mockRepo := testutil.NewMockAccountRepository()
	service := newTestAccountService(mockRepo)
	ctx := context.Background()

	if _, err := service.Create(ctx, "dup@example.com", "secret123", ""); err != nil {
		t.Fatalf("first Create() error = %v", err)
	}

	_, err := service.Create(ctx, "dup@example.com", "other456", "")
	if err == nil {
		t.Fatal("Create() with duplicate email should fail")
	}
	appErr, ok := err.(*errors.AppError)
	if !ok || appErr.Code != errors.ErrCodeConflict {
		t.Errorf("Create() error = %v, want conflict", err)
	}
}

func TestAccountService_Authenticate(t *testing.T) {
	mockRepo := testutil.NewMockAccountRepository()
	service := newTestAccountService(mockRepo)
	ctx := context.Background()

	created, err := service.Create(ctx, "login@example.com", "correct-password", "Login User")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	inactive, err := service.Create(ctx, "inactive@example.com", "correct-password", "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	inactive.IsActive = false

	tests := []struct {
		name     string
		email    string
		password string
		wantID   string
		wantCode string
	}{
		{
			name:     "valid credentials",
			email:    "login@example.com",
			password: "correct-password",
			wantID:   created.ID,
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "correct-password",
			wantCode: errors.ErrCodeUnauthorized,
		},
		{
			name:     "wrong password",
			email:    "login@example.com",
			password: "wrong-password",
			wantCode: errors.ErrCodeUnauthorized,
		},
		{
			name:     "deactivated account",
			email:    "inactive@example.com",
			password: "correct-password",
			wantCode: errors.ErrCodeUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := service.Authenticate(ctx, tt.email, tt.password)

			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Authenticate() error = %v", err)
				}
				if a.ID != tt.wantID {
					t.Errorf("Authenticate() id = %v, want %v", a.ID, tt.wantID)
				}
				return
			}

			if err == nil {
				t.Fatal("Authenticate() should fail")
			}
			appErr, ok := err.(*errors.AppError)
			if !ok || appErr.Code != tt.wantCode {
				t.Errorf("Authenticate() error = %v, want code %v", err, tt.wantCode)
			}
		})
	}
}

// Every credential failure must produce the same message so the response
// cannot be used to probe which emails are registered.
func TestAccountService_Authenticate_IndistinguishableFailures(t *testing.T) {
	mockRepo := testutil.NewMockAccountRepository()
	service := newTestAccountService(mockRepo)
	ctx := context.Background()

	if _, err := service.Create(ctx, "known@example.com", "correct-password", ""); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, errUnknown := service.Authenticate(ctx, "unknown@example.com", "whatever")
	_, errWrongPw := service.Authenticate(ctx, "known@example.com", "wrong")

	if errUnknown == nil || errWrongPw == nil {
		t.Fatal("both authentication attempts should fail")
	}
	if errUnknown.Error() != errWrongPw.Error() {
		t.Errorf("failure messages differ: %q vs %q", errUnknown.Error(), errWrongPw.Error())
	}
}

func TestAccountService_Authenticate_EmptyFieldsSkipStore(t *testing.T) {
	mockRepo := testutil.NewMockAccountRepository()
	service := newTestAccountService(mockRepo)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "empty email", email: "", password: "secret"},
		{name: "empty password", email: "user@example.com", password: ""},
		{name: "both empty", email: "", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := mockRepo.GetCalls
			_, err := service.Authenticate(ctx, tt.email, tt.password)
			if err == nil {
				t.Fatal("Authenticate() should fail")
			}
			appErr, ok := err.(*errors.AppError)
			if !ok || appErr.Code != errors.ErrCodeValidation {
				t.Errorf("Authenticate() error = %v, want validation error", err)
			}
			if mockRepo.GetCalls != before {
				t.Error("Authenticate() hit the store for an empty-field request")
			}
		})
	}
}

func TestAccountService_Update(t *testing.T) {
	mockRepo := testutil.NewMockAccountRepository()
	service := newTestAccountService(mockRepo)
	ctx := context.Background()

	created, err := service.Create(ctx, "update@example.com", "secret123", "Before")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	newName := "After"
	updated, err := service.Update(ctx, created.ID, account.UpdateParams{Name: &newName})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.Name != "After" {
		t.Errorf("Update() name = %v, want After", updated.Name)
	}
	if updated.Email != "update@example.com" {
		t.Errorf("Update() email changed unexpectedly: %v", updated.Email)
	}

	// Password change must re-hash
	newPassword := "new-password"
	updated, err = service.Update(ctx, created.ID, account.UpdateParams{Password: &newPassword})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte(newPassword)); err != nil {
		t.Errorf("Update() hash does not match new password: %v", err)
	}

	if _, err := service.Authenticate(ctx, "update@example.com", "new-password"); err != nil {
		t.Errorf("Authenticate() after password change error = %v", err)
	}
}

func TestAccountService_Deactivate(t *testing.T) {
	mockRepo := testutil.NewMockAccountRepository()
	service := newTestAccountService(mockRepo)
	ctx := context.Background()

	created, err := service.Create(ctx, "gone@example.com", "secret123", "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := service.Deactivate(ctx, created.ID); err != nil {
		t.Fatalf("Deactivate() error = %v", err)
	}

	if _, err := service.Authenticate(ctx, "gone@example.com", "secret123"); err == nil {
		t.Error("Authenticate() should fail for a deactivated account")
	}
}

func TestAccount_PasswordHashNeverSerialized(t *testing.T) {
	a := &account.Account{
		ID:           "id-1",
		Email:        "json@example.com",
		PasswordHash: "$2a$10$somethingsecret",
	}

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Contains(string(data), "somethingsecret") {
		t.Errorf("password hash leaked into JSON: %s", data)
	}
}
