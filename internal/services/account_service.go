package services

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/LoohanZinho/enem2-sub003/internal/domain/account"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/errors"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/logger"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/metrics"
)

// invalidCredentialsMessage is the single message returned for unknown
// email, wrong password and deactivated account alike, so the response does
// not reveal which emails are registered.
const invalidCredentialsMessage = "invalid credentials"

// AccountService implements account.Service
type AccountService struct {
	repo       account.Repository
	bcryptCost int
	logger     *logger.Logger
}

// NewAccountService creates a new account service
func NewAccountService(repo account.Repository, bcryptCost int, log *logger.Logger) account.Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AccountService{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     log,
	}
}

// Create registers a new account
func (s *AccountService) Create(ctx context.Context, email, password, name string) (*account.Account, error) {
	if email == "" || password == "" {
		return nil, errors.ValidationError("email and password are required", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, errors.Internal("Failed to hash password", err)
	}

	a := &account.Account{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         account.RoleUser,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create account")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"account_id": a.ID,
		"email":      a.Email,
	}).Info("Account created")

	return a, nil
}

// Authenticate verifies email+password against the stored credentials.
// Missing fields fail before any store read.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*account.Account, error) {
	if email == "" || password == "" {
		metrics.RecordLoginAttempt("invalid_request")
		return nil, errors.ValidationError("email and password are required", nil)
	}

	a, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok && appErr.Code == errors.ErrCodeNotFound {
			metrics.RecordLoginAttempt("failure")
			return nil, errors.Unauthorized(invalidCredentialsMessage)
		}
		metrics.RecordLoginAttempt("error")
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		metrics.RecordLoginAttempt("failure")
		return nil, errors.Unauthorized(invalidCredentialsMessage)
	}

	if !a.IsActive {
		metrics.RecordLoginAttempt("failure")
		return nil, errors.Unauthorized(invalidCredentialsMessage)
	}

	metrics.RecordLoginAttempt("success")
	return a, nil
}

// GetByID retrieves an account by ID
func (s *AccountService) GetByID(ctx context.Context, id string) (*account.Account, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByEmail retrieves an account by email
func (s *AccountService) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	return s.repo.GetByEmail(ctx, email)
}

// Update applies a partial update and returns the re-read canonical record
// rather than trusting the partial input.
func (s *AccountService) Update(ctx context.Context, id string, params account.UpdateParams) (*account.Account, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		a.Name = *params.Name
	}
	if params.Email != nil {
		if *params.Email == "" {
			return nil, errors.ValidationError("email must not be empty", nil)
		}
		a.Email = *params.Email
	}
	if params.Password != nil {
		if *params.Password == "" {
			return nil, errors.ValidationError("password must not be empty", nil)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*params.Password), s.bcryptCost)
		if err != nil {
			return nil, errors.Internal("Failed to hash password", err)
		}
		a.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, a); err != nil {
		s.logger.ErrorWithErr(err, "Failed to update account")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"account_id": id,
	}).Info("Account updated")

	return s.repo.GetByID(ctx, id)
}

// Deactivate marks an account inactive
func (s *AccountService) Deactivate(ctx context.Context, id string) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	a.IsActive = false
	if err := s.repo.Update(ctx, a); err != nil {
		s.logger.ErrorWithErr(err, "Failed to deactivate account")
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"account_id": id,
	}).Info("Account deactivated")

	return nil
}

// List retrieves accounts with pagination
func (s *AccountService) List(ctx context.Context, limit, offset int) ([]*account.Account, int64, error) {
	return s.repo.List(ctx, limit, offset)
}
