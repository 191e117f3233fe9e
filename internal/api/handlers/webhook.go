package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/LoohanZinho/enem2-sub003/internal/api/dto"
	"github.com/LoohanZinho/enem2-sub003/internal/config"
	"github.com/LoohanZinho/enem2-sub003/internal/domain/account"
	"github.com/LoohanZinho/enem2-sub003/internal/domain/entitlement"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/errors"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/logger"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/utils"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/validator"
)

const signatureHeader = "X-Webhook-Signature"

// Payment events the processor delivers.
const (
	eventPaymentApproved = "payment.approved"
	eventPaymentRefunded = "payment.refunded"
	eventChargeback      = "payment.chargeback"
)

// WebhookHandler processes payment processor callbacks. Approved payments
// provision an account if needed and grant an access key; refunds and
// chargebacks revoke the key tied to the payment.
type WebhookHandler struct {
	accounts     account.Service
	entitlements entitlement.Service
	config       *config.Config
	logger       *logger.Logger
	validator    *validator.Validator
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(
	accounts account.Service,
	entitlements entitlement.Service,
	cfg *config.Config,
	log *logger.Logger,
	val *validator.Validator,
) *WebhookHandler {
	return &WebhookHandler{
		accounts:     accounts,
		entitlements: entitlements,
		config:       cfg,
		logger:       log,
		validator:    val,
	}
}

// Payment handles POST /webhook/payment.
func (h *WebhookHandler) Payment(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeAppError(w, h.logger, errors.BadRequest("Failed to read request body"))
		return
	}

	if secret := h.config.Billing.WebhookSecret; secret != "" {
		if !verifySignature(body, r.Header.Get(signatureHeader), secret) {
			h.logger.Warn("Webhook rejected: bad signature")
			writeAppError(w, h.logger, errors.Unauthorized("Invalid signature"))
			return
		}
	}

	var event dto.PaymentWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		writeAppError(w, h.logger, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrors := h.validator.Validate(event); len(validationErrors) > 0 {
		writeAppError(w, h.logger, errors.ValidationError("Validation failed", validationErrors))
		return
	}

	switch event.Event {
	case eventPaymentApproved:
		h.handleApproved(w, r, &event)
	case eventPaymentRefunded, eventChargeback:
		h.handleRevocation(w, r, &event)
	default:
		// Unknown events are acknowledged so the processor stops retrying.
		h.logger.WithFields(map[string]interface{}{
			"event": event.Event,
		}).Info("Ignoring unhandled webhook event")
		utils.WriteSuccessWithMessage(w, http.StatusOK, "Event ignored", nil)
	}
}

func (h *WebhookHandler) handleApproved(w http.ResponseWriter, r *http.Request, event *dto.PaymentWebhookEvent) {
	if event.Customer.Email == "" {
		writeAppError(w, h.logger, errors.BadRequest("Customer email is required"))
		return
	}

	a, err := h.accounts.GetByEmail(r.Context(), event.Customer.Email)
	if err != nil {
		appErr, ok := err.(*errors.AppError)
		if !ok || appErr.Code != errors.ErrCodeNotFound {
			writeAppError(w, h.logger, err)
			return
		}

		// First purchase; provision the account with a throwaway password
		// the reset flow will replace.
		a, err = h.accounts.Create(r.Context(), event.Customer.Email, uuid.NewString(), event.Customer.Name)
		if err != nil {
			writeAppError(w, h.logger, err)
			return
		}
		h.logger.WithFields(map[string]interface{}{
			"account_id": a.ID,
		}).Info("Account provisioned from payment webhook")
	}

	key, err := h.entitlements.Issue(r.Context(), entitlement.IssueParams{
		UserID:         a.ID,
		UserEmail:      a.Email,
		UserName:       a.Name,
		PaymentID:      event.PaymentID,
		PaymentMethod:  event.PaymentMethod,
		Plan:           event.Plan,
		IsRecurring:    event.IsRecurring,
		SubscriptionID: event.SubscriptionID,
	})
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"account_id": a.ID,
		"payment_id": event.PaymentID,
		"plan":       event.Plan,
	}).Info("Access key granted from payment")

	utils.WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"key":       key.Key,
		"expiresAt": key.ExpiresAt,
	})
}

func (h *WebhookHandler) handleRevocation(w http.ResponseWriter, r *http.Request, event *dto.PaymentWebhookEvent) {
	if event.PaymentID == "" {
		writeAppError(w, h.logger, errors.BadRequest("Payment id is required"))
		return
	}

	if err := h.entitlements.RevokeByPaymentID(r.Context(), event.PaymentID); err != nil {
		if appErr, ok := err.(*errors.AppError); ok && appErr.Code == errors.ErrCodeNotFound {
			// Already gone; acknowledge so the processor stops retrying.
			utils.WriteSuccessWithMessage(w, http.StatusOK, "No matching key", nil)
			return
		}
		writeAppError(w, h.logger, err)
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"payment_id": event.PaymentID,
		"event":      event.Event,
	}).Info("Access key revoked from payment event")

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Access revoked", nil)
}

func verifySignature(body []byte, signature, secret string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
