package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/LoohanZinho/enem2-sub003/internal/auth"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/metrics"
)

// ContextKey is a custom type for context keys
type ContextKey string

const (
	// AccountIDKey is the context key for the authenticated account id
	AccountIDKey ContextKey = "accountID"
	// AccountEmailKey is the context key for the authenticated account email
	AccountEmailKey ContextKey = "email"
)

// Gate redirect targets
const (
	LoginPath = "/login"
	HomePath  = "/cronograma"
)

// publicPrefixes are the routes reachable without a session. Root matches
// exactly; everything else is a prefix match.
var publicPrefixes = []string{
	"/",
	"/login",
	"/redefinir-senha",
	"/api/create-user",
	"/api/v1/auth/login",
	"/api/v1/auth/logout",
	"/suporte-ativacao",
	"/admin",
	"/webhook",
}

// excludedPrefixes are never evaluated against the gate's decision table:
// static assets, image optimization and infra endpoints.
var excludedPrefixes = []string{
	"/static/",
	"/assets/",
	"/_next/",
	"/favicon.ico",
	"/health",
	"/healthz",
	"/readyz",
	"/metrics",
}

func isExcluded(path string) bool {
	for _, p := range excludedPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func isPublic(path string) bool {
	for _, p := range publicPrefixes {
		if p == "/" {
			if path == "/" {
				return true
			}
			continue
		}
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Gate is the per-request interceptor. It classifies the path as public or
// protected, checks for a valid session cookie, and decides pass-through,
// redirect-to-login or redirect-to-home. It establishes identity presence
// only; entitlement validity is checked by the features that need it.
// The gate never fails a request: an absent, malformed or badly signed
// cookie is simply "no session".
func Gate(sessionSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isExcluded(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			var claims *auth.Claims
			if cookie, err := r.Cookie(auth.CookieName); err == nil && cookie.Value != "" {
				claims, _ = auth.ParseSessionToken(cookie.Value, sessionSecret)
			}

			if claims != nil {
				ctx := context.WithValue(r.Context(), AccountIDKey, claims.AccountID)
				ctx = context.WithValue(ctx, AccountEmailKey, claims.Email)
				r = r.WithContext(ctx)

				AddLogField(w, "account_id", claims.AccountID)
			}

			switch {
			case isPublic(r.URL.Path):
				if strings.HasPrefix(r.URL.Path, LoginPath) && claims != nil {
					metrics.RecordGateDecision("redirect_home")
					http.Redirect(w, r, HomePath, http.StatusFound)
					return
				}
				metrics.RecordGateDecision("pass")
				next.ServeHTTP(w, r)

			case claims != nil:
				metrics.RecordGateDecision("pass")
				next.ServeHTTP(w, r)

			default:
				metrics.RecordGateDecision("redirect_login")
				http.Redirect(w, r, LoginPath, http.StatusFound)
			}
		})
	}
}

// GetAccountID extracts the account id from the request context
func GetAccountID(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(AccountIDKey).(string)
	return id, ok && id != ""
}

// GetAccountEmail extracts the account email from the request context
func GetAccountEmail(r *http.Request) (string, bool) {
	email, ok := r.Context().Value(AccountEmailKey).(string)
	return email, ok && email != ""
}
