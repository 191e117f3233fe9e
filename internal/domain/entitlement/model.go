package entitlement

import "time"

// AccessKey represents a time-bounded subscription grant for an account.
// The record is created on payment and never mutated afterwards except for
// the status transitions active->expired (lazily, on read) and
// active->revoked (administrative).
type AccessKey struct {
	ID             int64     `json:"id"`
	Key            string    `json:"key"`
	UserID         string    `json:"userId"`
	UserEmail      string    `json:"userEmail,omitempty"`
	UserName       string    `json:"userName,omitempty"`
	PaymentID      string    `json:"paymentId,omitempty"`
	PaymentMethod  string    `json:"paymentMethod,omitempty"`
	Plan           string    `json:"plan"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	ExpiresAt      time.Time `json:"expiresAt"`
	IsRecurring    bool      `json:"isRecurring"`
	SubscriptionID string    `json:"subscriptionId,omitempty"`
}

// Plans
const (
	PlanMonthly    = "monthly"
	PlanSemiannual = "semiannual"
	PlanAnnual     = "annual"
)

// Key statuses
const (
	StatusActive  = "active"
	StatusExpired = "expired"
	StatusRevoked = "revoked"
)

// Evaluation states
const (
	StateNone    = "none"
	StateActive  = "active"
	StateExpired = "expired"
)

// PlanDuration returns the validity window for a plan, or zero for an
// unknown plan.
func PlanDuration(plan string) time.Duration {
	switch plan {
	case PlanMonthly:
		return 30 * 24 * time.Hour
	case PlanSemiannual:
		return 182 * 24 * time.Hour
	case PlanAnnual:
		return 365 * 24 * time.Hour
	default:
		return 0
	}
}

// Valid reports whether the key grants access at the given instant.
func (k *AccessKey) Valid(now time.Time) bool {
	return k.Status == StatusActive && now.Before(k.ExpiresAt)
}

// Status is the result of evaluating an account's current entitlement.
type Status struct {
	State     string     `json:"state"`
	Plan      string     `json:"plan,omitempty"`
	Key       string     `json:"key,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}
