package testutil

import (
	"context"
	"time"

	"github.com/LoohanZinho/enem2-sub003/internal/domain/account"
	"github.com/LoohanZinho/enem2-sub003/internal/domain/entitlement"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/errors"
)

// MockAccountRepository is a map-backed implementation of account.Repository.
// GetCalls counts lookups so tests can assert the store was never touched.
type MockAccountRepository struct {
	Accounts    map[string]*account.Account
	EmailIndex  map[string]*account.Account
	GetCalls    int
	CreateError error
	GetError    error
	UpdateError error
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		Accounts:   make(map[string]*account.Account),
		EmailIndex: make(map[string]*account.Account),
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, a *account.Account) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	if _, exists := m.EmailIndex[a.Email]; exists {
		return errors.Conflict("Email already registered")
	}
	m.Accounts[a.ID] = a
	m.EmailIndex[a.Email] = a
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*account.Account, error) {
	m.GetCalls++
	if m.GetError != nil {
		return nil, m.GetError
	}
	a, ok := m.Accounts[id]
	if !ok {
		return nil, errors.NotFound("Account")
	}
	return a, nil
}

func (m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	m.GetCalls++
	if m.GetError != nil {
		return nil, m.GetError
	}
	a, ok := m.EmailIndex[email]
	if !ok {
		return nil, errors.NotFound("Account")
	}
	return a, nil
}

func (m *MockAccountRepository) Update(ctx context.Context, a *account.Account) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	old, ok := m.Accounts[a.ID]
	if !ok {
		return errors.NotFound("Account")
	}
	if old.Email != a.Email {
		delete(m.EmailIndex, old.Email)
	}
	m.Accounts[a.ID] = a
	m.EmailIndex[a.Email] = a
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*account.Account, int64, error) {
	if m.GetError != nil {
		return nil, 0, m.GetError
	}
	all := make([]*account.Account, 0, len(m.Accounts))
	for _, a := range m.Accounts {
		all = append(all, a)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// MockAccessKeyRepository is a map-backed implementation of
// entitlement.Repository keyed by access key.
type MockAccessKeyRepository struct {
	Keys         map[string]*entitlement.AccessKey
	NextID       int64
	CreateError  error
	GetError     error
	UpdateError  error
	UpdateCalls  int
	StatusWrites map[string]string
}

func NewMockAccessKeyRepository() *MockAccessKeyRepository {
	return &MockAccessKeyRepository{
		Keys:         make(map[string]*entitlement.AccessKey),
		NextID:       1,
		StatusWrites: make(map[string]string),
	}
}

func (m *MockAccessKeyRepository) Create(ctx context.Context, k *entitlement.AccessKey) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	k.ID = m.NextID
	m.NextID++
	m.Keys[k.Key] = k
	return nil
}

func (m *MockAccessKeyRepository) GetByKey(ctx context.Context, key string) (*entitlement.AccessKey, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	k, ok := m.Keys[key]
	if !ok {
		return nil, errors.NotFound("Access key")
	}
	return k, nil
}

func (m *MockAccessKeyRepository) GetByPaymentID(ctx context.Context, paymentID string) (*entitlement.AccessKey, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	for _, k := range m.Keys {
		if k.PaymentID == paymentID {
			return k, nil
		}
	}
	return nil, errors.NotFound("Access key")
}

func (m *MockAccessKeyRepository) ListByUser(ctx context.Context, userID string) ([]*entitlement.AccessKey, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	var out []*entitlement.AccessKey
	for _, k := range m.Keys {
		if k.UserID == userID {
			out = append(out, k)
		}
	}
	return out, nil
}

func (m *MockAccessKeyRepository) UpdateStatus(ctx context.Context, key, status string) error {
	m.UpdateCalls++
	if m.UpdateError != nil {
		return m.UpdateError
	}
	k, ok := m.Keys[key]
	if !ok {
		return errors.NotFound("Access key")
	}
	k.Status = status
	m.StatusWrites[key] = status
	return nil
}

func (m *MockAccessKeyRepository) ListRecurringExpiring(ctx context.Context, deadline time.Time) ([]*entitlement.AccessKey, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	var out []*entitlement.AccessKey
	for _, k := range m.Keys {
		if k.IsRecurring && k.Status == entitlement.StatusActive && !k.ExpiresAt.After(deadline) {
			out = append(out, k)
		}
	}
	return out, nil
}
