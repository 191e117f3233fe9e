package dto

// IssueKeyRequest represents an administrative access key issue request
type IssueKeyRequest struct {
	UserID         string `json:"userId" validate:"required"`
	Plan           string `json:"plan" validate:"required,oneof=monthly semiannual annual"`
	PaymentID      string `json:"paymentId,omitempty"`
	PaymentMethod  string `json:"paymentMethod,omitempty"`
	IsRecurring    bool   `json:"isRecurring"`
	SubscriptionID string `json:"subscriptionId,omitempty"`
}

// PaymentWebhookEvent is the payload posted by the payment provider
type PaymentWebhookEvent struct {
	Event          string `json:"event" validate:"required"`
	PaymentID      string `json:"paymentId"`
	PaymentMethod  string `json:"paymentMethod,omitempty"`
	Plan           string `json:"plan,omitempty"`
	IsRecurring    bool   `json:"isRecurring"`
	SubscriptionID string `json:"subscriptionId,omitempty"`
	Customer       struct {
		Email string `json:"email"`
		Name  string `json:"name,omitempty"`
	} `json:"customer"`
}
