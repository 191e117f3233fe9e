package handlers

import (
	"net/http"
	"strconv"

	"github.com/LoohanZinho/enem2-sub003/internal/api/middleware"
	"github.com/LoohanZinho/enem2-sub003/internal/domain/account"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/errors"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/logger"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/utils"
)

// writeAppError maps an error to the response envelope. Store failures are
// logged with their internal detail and surfaced as a generic 500.
func writeAppError(w http.ResponseWriter, log *logger.Logger, err error) {
	if appErr, ok := err.(*errors.AppError); ok {
		if appErr.StatusCode >= http.StatusInternalServerError {
			log.ErrorWithErr(appErr, "Request failed")
			utils.WriteErrorMessage(w, appErr.StatusCode, appErr.Code, "An unexpected error occurred")
			return
		}
		utils.WriteError(w, appErr)
		return
	}

	log.ErrorWithErr(err, "Request failed with unexpected error")
	utils.WriteErrorMessage(w, http.StatusInternalServerError, errors.ErrCodeInternal, "An unexpected error occurred")
}

// requireAdmin resolves the session identity to an account and checks the
// admin role. The /admin prefix is public at the gate, so the role check
// lives here.
func requireAdmin(r *http.Request, accounts account.Service) (*account.Account, *errors.AppError) {
	accountID, ok := middleware.GetAccountID(r)
	if !ok {
		return nil, errors.Unauthorized("Authentication required")
	}

	a, err := accounts.GetByID(r.Context(), accountID)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok && appErr.Code == errors.ErrCodeNotFound {
			return nil, errors.Unauthorized("Authentication required")
		}
		return nil, errors.Internal("Failed to resolve account", err)
	}

	if a.Role != account.RoleAdmin {
		return nil, errors.Forbidden("Admin role required")
	}

	return a, nil
}

// parsePagination reads limit/offset query params with sane defaults.
func parsePagination(r *http.Request) (limit, offset int) {
	limit = 50
	offset = 0

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	return limit, offset
}
