package client

import "time"

// Account represents a user account
type Account struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccessKey represents a granted access key
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

// AccessStatus is the evaluated entitlement state of an account
type AccessStatus struct {
	State     string     `json:"state"`
	Plan      string     `json:"plan,omitempty"`
	Key       string     `json:"key,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Access states
const (
	StateNone    = "none"
	StateActive  = "active"
	StateExpired = "expired"
)
