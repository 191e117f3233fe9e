package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/LoohanZinho/enem2-sub003/internal/api/dto"
	"github.com/LoohanZinho/enem2-sub003/internal/api/middleware"
	"github.com/LoohanZinho/enem2-sub003/internal/config"
	"github.com/LoohanZinho/enem2-sub003/internal/domain/account"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/errors"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/logger"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/utils"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/validator"
)

// AccountHandler handles account registration and profile updates
type AccountHandler struct {
	accounts  account.Service
	config    *config.Config
	logger    *logger.Logger
	validator *validator.Validator
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(
	accounts account.Service,
	cfg *config.Config,
	log *logger.Logger,
	val *validator.Validator,
) *AccountHandler {
	return &AccountHandler{
		accounts:  accounts,
		config:    cfg,
		logger:    log,
		validator: val,
	}
}

// Create registers a new account. The route is public so checkout flows can
// provision accounts before the user ever signs in.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAppError(w, h.logger, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrors := h.validator.Validate(req); len(validationErrors) > 0 {
		writeAppError(w, h.logger, errors.ValidationError("Validation failed", validationErrors))
		return
	}

	a, err := h.accounts.Create(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"account_id": a.ID,
	}).Info("Account created")

	utils.WriteSuccess(w, http.StatusCreated, dto.FromAccount(a))
}

// Update modifies the caller's own profile. Admins may update any account by
// id; everyone else is restricted to the account behind their session.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request, targetID string) {
	callerID, ok := middleware.GetAccountID(r)
	if !ok {
		writeAppError(w, h.logger, errors.Unauthorized("Authentication required"))
		return
	}

	if targetID == "" {
		targetID = callerID
	}

	if targetID != callerID {
		if _, appErr := requireAdmin(r, h.accounts); appErr != nil {
			writeAppError(w, h.logger, appErr)
			return
		}
	}

	var req dto.UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAppError(w, h.logger, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrors := h.validator.Validate(req); len(validationErrors) > 0 {
		writeAppError(w, h.logger, errors.ValidationError("Validation failed", validationErrors))
		return
	}

	a, err := h.accounts.Update(r.Context(), targetID, account.UpdateParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.FromAccount(a))
}

// UpdateSelf is Update bound to the session identity.
func (h *AccountHandler) UpdateSelf(w http.ResponseWriter, r *http.Request) {
	h.Update(w, r, "")
}

// PasswordReset accepts a reset request and always answers 200 so the
// endpoint cannot be used to probe which emails are registered.
func (h *AccountHandler) PasswordReset(w http.ResponseWriter, r *http.Request) {
	var req dto.PasswordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAppError(w, h.logger, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrors := h.validator.Validate(req); len(validationErrors) > 0 {
		writeAppError(w, h.logger, errors.ValidationError("Validation failed", validationErrors))
		return
	}

	if _, err := h.accounts.GetByEmail(r.Context(), req.Email); err != nil {
		// Log and fall through; the response is identical either way.
		h.logger.WithFields(map[string]interface{}{
			"email": req.Email,
		}).Debug("Password reset requested for unknown email")
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK,
		"If the email is registered, reset instructions have been sent", nil)
}

// List returns accounts for the admin console.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, appErr := requireAdmin(r, h.accounts); appErr != nil {
		writeAppError(w, h.logger, appErr)
		return
	}

	limit, offset := parsePagination(r)

	accounts, total, err := h.accounts.List(r.Context(), limit, offset)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	items := make([]*dto.AccountDTO, 0, len(accounts))
	for _, a := range accounts {
		items = append(items, dto.FromAccount(a))
	}

	utils.WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"accounts": items,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// Deactivate disables an account so it can no longer sign in.
func (h *AccountHandler) Deactivate(w http.ResponseWriter, r *http.Request, targetID string) {
	if _, appErr := requireAdmin(r, h.accounts); appErr != nil {
		writeAppError(w, h.logger, appErr)
		return
	}

	if err := h.accounts.Deactivate(r.Context(), targetID); err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Account deactivated", nil)
}
