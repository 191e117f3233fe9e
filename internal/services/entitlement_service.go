package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/LoohanZinho/enem2-sub003/internal/domain/entitlement"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/errors"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/logger"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/metrics"
)

// EntitlementService implements entitlement.Service
type EntitlementService struct {
	repo          entitlement.Repository
	renewalWindow time.Duration
	logger        *logger.Logger
	now           func() time.Time
}

// NewEntitlementService creates a new entitlement service
func NewEntitlementService(repo entitlement.Repository, renewalWindow time.Duration, log *logger.Logger) *EntitlementService {
	return &EntitlementService{
		repo:          repo,
		renewalWindow: renewalWindow,
		logger:        log,
		now:           time.Now,
	}
}

// Evaluate returns the account's current entitlement state. The key with the
// latest expiry among non-revoked records wins; validity is recomputed from
// the wall clock on every call. An active key found past its expiry is
// flipped to expired on the way out (lazy expiry, no background sweep).
func (s *EntitlementService) Evaluate(ctx context.Context, userID string) (*entitlement.Status, error) {
	keys, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var current *entitlement.AccessKey
	for _, k := range keys {
		if k.Status == entitlement.StatusRevoked {
			continue
		}
		if current == nil || k.ExpiresAt.After(current.ExpiresAt) {
			current = k
		}
	}

	if current == nil {
		metrics.RecordEvaluation(entitlement.StateNone)
		return &entitlement.Status{State: entitlement.StateNone}, nil
	}

	expiresAt := current.ExpiresAt
	if !s.now().Before(expiresAt) {
		if current.Status == entitlement.StatusActive {
			// Best effort: the evaluation result stands even if the
			// write-back fails.
			if err := s.repo.UpdateStatus(ctx, current.Key, entitlement.StatusExpired); err != nil {
				s.logger.ErrorWithErr(err, "Failed to mark access key expired")
			}
		}
		metrics.RecordEvaluation(entitlement.StateExpired)
		return &entitlement.Status{
			State:     entitlement.StateExpired,
			Plan:      current.Plan,
			Key:       current.Key,
			ExpiresAt: &expiresAt,
		}, nil
	}

	metrics.RecordEvaluation(entitlement.StateActive)
	return &entitlement.Status{
		State:     entitlement.StateActive,
		Plan:      current.Plan,
		Key:       current.Key,
		ExpiresAt: &expiresAt,
	}, nil
}

// Issue creates a new access key for a plan
func (s *EntitlementService) Issue(ctx context.Context, params entitlement.IssueParams) (*entitlement.AccessKey, error) {
	if params.UserID == "" {
		return nil, errors.ValidationError("userId is required", nil)
	}

	duration := entitlement.PlanDuration(params.Plan)
	if duration == 0 {
		return nil, errors.ValidationError("unknown plan: "+params.Plan, nil)
	}

	now := s.now()
	k := &entitlement.AccessKey{
		Key:            uuid.New().String(),
		UserID:         params.UserID,
		UserEmail:      params.UserEmail,
		UserName:       params.UserName,
		PaymentID:      params.PaymentID,
		PaymentMethod:  params.PaymentMethod,
		Plan:           params.Plan,
		Status:         entitlement.StatusActive,
		CreatedAt:      now,
		ExpiresAt:      now.Add(duration),
		IsRecurring:    params.IsRecurring,
		SubscriptionID: params.SubscriptionID,
	}

	if err := s.repo.Create(ctx, k); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create access key")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"key":     k.Key,
		"user_id": k.UserID,
		"plan":    k.Plan,
	}).Info("Access key issued")

	return k, nil
}

// Revoke transitions a key active->revoked
func (s *EntitlementService) Revoke(ctx context.Context, key string) error {
	if err := s.repo.UpdateStatus(ctx, key, entitlement.StatusRevoked); err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"key": key,
	}).Info("Access key revoked")

	return nil
}

// RevokeByPaymentID revokes the key created by a payment
func (s *EntitlementService) RevokeByPaymentID(ctx context.Context, paymentID string) error {
	k, err := s.repo.GetByPaymentID(ctx, paymentID)
	if err != nil {
		return err
	}
	return s.Revoke(ctx, k.Key)
}

// ListByUser retrieves all access keys for an account
func (s *EntitlementService) ListByUser(ctx context.Context, userID string) ([]*entitlement.AccessKey, error) {
	return s.repo.ListByUser(ctx, userID)
}

// RenewDue creates successor keys for recurring entitlements expiring within
// the renewal window. The expiring key is never mutated; renewal means a new
// record. A key whose subscription already has a later-expiring non-revoked
// key is skipped, which keeps the sweep idempotent across runs.
func (s *EntitlementService) RenewDue(ctx context.Context) (int, error) {
	deadline := s.now().Add(s.renewalWindow)
	due, err := s.repo.ListRecurringExpiring(ctx, deadline)
	if err != nil {
		return 0, err
	}

	renewed := 0
	for _, k := range due {
		ok, err := s.hasSuccessor(ctx, k)
		if err != nil {
			s.logger.ErrorWithErr(err, "Failed to check for successor key")
			continue
		}
		if ok {
			continue
		}

		_, err = s.Issue(ctx, entitlement.IssueParams{
			UserID:         k.UserID,
			UserEmail:      k.UserEmail,
			UserName:       k.UserName,
			PaymentMethod:  k.PaymentMethod,
			Plan:           k.Plan,
			IsRecurring:    true,
			SubscriptionID: k.SubscriptionID,
		})
		if err != nil {
			s.logger.WithFields(map[string]interface{}{
				"key":     k.Key,
				"user_id": k.UserID,
			}).ErrorWithErr(err, "Failed to renew access key")
			continue
		}

		metrics.RecordRenewal()
		renewed++
	}

	return renewed, nil
}

func (s *EntitlementService) hasSuccessor(ctx context.Context, k *entitlement.AccessKey) (bool, error) {
	keys, err := s.repo.ListByUser(ctx, k.UserID)
	if err != nil {
		return false, err
	}
	for _, other := range keys {
		if other.Key == k.Key || other.Status == entitlement.StatusRevoked {
			continue
		}
		if other.SubscriptionID == k.SubscriptionID && other.ExpiresAt.After(k.ExpiresAt) {
			return true, nil
		}
	}
	return false, nil
}
