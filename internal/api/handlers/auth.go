package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/LoohanZinho/enem2-sub003/internal/api/dto"
	"github.com/LoohanZinho/enem2-sub003/internal/api/middleware"
	"github.com/LoohanZinho/enem2-sub003/internal/auth"
	"github.com/LoohanZinho/enem2-sub003/internal/config"
	"github.com/LoohanZinho/enem2-sub003/internal/domain/account"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/errors"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/logger"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/utils"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/validator"
)

// AuthHandler handles login, logout and session introspection
type AuthHandler struct {
	accounts  account.Service
	config    *config.Config
	logger    *logger.Logger
	validator *validator.Validator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	accounts account.Service,
	cfg *config.Config,
	log *logger.Logger,
	val *validator.Validator,
) *AuthHandler {
	return &AuthHandler{
		accounts:  accounts,
		config:    cfg,
		logger:    log,
		validator: val,
	}
}

func (h *AuthHandler) secureCookies() bool {
	return h.config.Server.Environment == "production"
}

// Login authenticates with email and password and issues the session cookie.
// Contract: 200 {success:true, user}; 400 missing fields; 401 one generic
// message for every credential failure; 500 on store failure.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLoginError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeLoginError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	authenticated, err := h.accounts.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			if appErr.Code == errors.ErrCodeDatabase || appErr.Code == errors.ErrCodeInternal {
				h.logger.ErrorWithErr(err, "Login failed with store error")
				writeLoginError(w, http.StatusInternalServerError, "An unexpected error occurred")
				return
			}
			writeLoginError(w, appErr.StatusCode, appErr.Message)
			return
		}
		h.logger.ErrorWithErr(err, "Login failed with unexpected error")
		writeLoginError(w, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}

	token, err := auth.MintSessionToken(
		authenticated.ID,
		authenticated.Email,
		h.config.Auth.SessionSecret,
		h.config.Auth.SessionTTL,
	)
	if err != nil {
		h.logger.ErrorWithErr(err, "Failed to mint session token")
		writeLoginError(w, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}

	auth.IssueCookie(w, token, h.config.Auth.SessionTTL, h.secureCookies())

	h.logger.WithFields(map[string]interface{}{
		"account_id": authenticated.ID,
	}).Info("Login succeeded")

	utils.WriteJSON(w, http.StatusOK, dto.LoginResponse{
		Success: true,
		User:    dto.FromAccount(authenticated),
	})
}

// Logout clears the session cookie. Calling it without a session is a no-op.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearCookie(w, h.secureCookies())
	utils.WriteSuccessWithMessage(w, http.StatusOK, "logged out", nil)
}

// Me returns the account behind the current session
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("No active session"))
		return
	}

	a, err := h.accounts.GetByID(r.Context(), accountID)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.FromAccount(a))
}

func writeLoginError(w http.ResponseWriter, status int, message string) {
	utils.WriteJSON(w, status, dto.LoginResponse{
		Success: false,
		Message: message,
	})
}
