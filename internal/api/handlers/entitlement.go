package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/LoohanZinho/enem2-sub003/internal/api/dto"
	"github.com/LoohanZinho/enem2-sub003/internal/api/middleware"
	"github.com/LoohanZinho/enem2-sub003/internal/domain/account"
	"github.com/LoohanZinho/enem2-sub003/internal/domain/entitlement"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/errors"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/logger"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/utils"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/validator"
)

// EntitlementHandler exposes the caller's access status and the admin key
// management endpoints.
type EntitlementHandler struct {
	entitlements entitlement.Service
	accounts     account.Service
	logger       *logger.Logger
	validator    *validator.Validator
}

// NewEntitlementHandler creates a new entitlement handler
func NewEntitlementHandler(
	entitlements entitlement.Service,
	accounts account.Service,
	log *logger.Logger,
	val *validator.Validator,
) *EntitlementHandler {
	return &EntitlementHandler{
		entitlements: entitlements,
		accounts:     accounts,
		logger:       log,
		validator:    val,
	}
}

// Status evaluates the caller's entitlement at request time.
func (h *EntitlementHandler) Status(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountID(r)
	if !ok {
		writeAppError(w, h.logger, errors.Unauthorized("Authentication required"))
		return
	}

	status, err := h.entitlements.Evaluate(r.Context(), accountID)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, status)
}

// ListKeys returns every access key for a user. Admin only.
func (h *EntitlementHandler) ListKeys(w http.ResponseWriter, r *http.Request, userID string) {
	if _, appErr := requireAdmin(r, h.accounts); appErr != nil {
		writeAppError(w, h.logger, appErr)
		return
	}

	keys, err := h.entitlements.ListByUser(r.Context(), userID)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"keys":  keys,
		"total": len(keys),
	})
}

// IssueKey grants an access key manually, outside the payment flow. Admin
// only; used for support activations.
func (h *EntitlementHandler) IssueKey(w http.ResponseWriter, r *http.Request) {
	admin, appErr := requireAdmin(r, h.accounts)
	if appErr != nil {
		writeAppError(w, h.logger, appErr)
		return
	}

	var req dto.IssueKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAppError(w, h.logger, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrors := h.validator.Validate(req); len(validationErrors) > 0 {
		writeAppError(w, h.logger, errors.ValidationError("Validation failed", validationErrors))
		return
	}

	target, err := h.accounts.GetByID(r.Context(), req.UserID)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	key, err := h.entitlements.Issue(r.Context(), entitlement.IssueParams{
		UserID:         target.ID,
		UserEmail:      target.Email,
		UserName:       target.Name,
		PaymentID:      req.PaymentID,
		PaymentMethod:  req.PaymentMethod,
		Plan:           req.Plan,
		IsRecurring:    req.IsRecurring,
		SubscriptionID: req.SubscriptionID,
	})
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"admin_id": admin.ID,
		"user_id":  target.ID,
		"plan":     req.Plan,
	}).Info("Access key issued manually")

	utils.WriteSuccess(w, http.StatusCreated, key)
}

// RevokeKey marks an access key revoked. Admin only.
func (h *EntitlementHandler) RevokeKey(w http.ResponseWriter, r *http.Request, key string) {
	admin, appErr := requireAdmin(r, h.accounts)
	if appErr != nil {
		writeAppError(w, h.logger, appErr)
		return
	}

	if err := h.entitlements.Revoke(r.Context(), key); err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"admin_id": admin.ID,
		"key":      key,
	}).Info("Access key revoked")

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Access key revoked", nil)
}
