package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LoohanZinho/enem2-sub003/internal/auth"
)

const gateTestSecret = "gate-test-secret"

func gateRequest(t *testing.T, path string, withSession bool) *httptest.ResponseRecorder {
	t.Helper()

	handler := Gate(gateTestSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if withSession {
		token, err := auth.MintSessionToken("account-1", "user@example.com", gateTestSecret, time.Hour)
		if err != nil {
			t.Fatalf("MintSessionToken() error = %v", err)
		}
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestGate_DecisionTable(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		session      bool
		wantStatus   int
		wantLocation string
	}{
		// Public paths without a session pass through
		{name: "root anonymous", path: "/", session: false, wantStatus: http.StatusOK},
		{name: "login anonymous", path: "/login", session: false, wantStatus: http.StatusOK},
		{name: "password reset anonymous", path: "/redefinir-senha", session: false, wantStatus: http.StatusOK},
		{name: "create user anonymous", path: "/api/create-user", session: false, wantStatus: http.StatusOK},
		{name: "support anonymous", path: "/suporte-ativacao", session: false, wantStatus: http.StatusOK},
		{name: "admin anonymous", path: "/admin", session: false, wantStatus: http.StatusOK},
		{name: "webhook anonymous", path: "/webhook/payment", session: false, wantStatus: http.StatusOK},
		{name: "api login anonymous", path: "/api/v1/auth/login", session: false, wantStatus: http.StatusOK},
		{name: "api logout anonymous", path: "/api/v1/auth/logout", session: false, wantStatus: http.StatusOK},

		// Protected paths without a session redirect to login
		{name: "cronograma anonymous", path: "/cronograma", session: false, wantStatus: http.StatusFound, wantLocation: LoginPath},
		{name: "api anonymous", path: "/api/v1/entitlement", session: false, wantStatus: http.StatusFound, wantLocation: LoginPath},
		{name: "unknown path anonymous", path: "/whatever", session: false, wantStatus: http.StatusFound, wantLocation: LoginPath},

		// With a session: login bounces home, everything else passes
		{name: "login with session", path: "/login", session: true, wantStatus: http.StatusFound, wantLocation: HomePath},
		{name: "root with session", path: "/", session: true, wantStatus: http.StatusOK},
		{name: "cronograma with session", path: "/cronograma", session: true, wantStatus: http.StatusOK},
		{name: "api with session", path: "/api/v1/entitlement", session: true, wantStatus: http.StatusOK},
		{name: "admin with session", path: "/admin", session: true, wantStatus: http.StatusOK},

		// Excluded prefixes bypass the gate entirely
		{name: "static asset anonymous", path: "/static/app.css", session: false, wantStatus: http.StatusOK},
		{name: "assets anonymous", path: "/assets/logo.png", session: false, wantStatus: http.StatusOK},
		{name: "next asset anonymous", path: "/_next/chunk.js", session: false, wantStatus: http.StatusOK},
		{name: "favicon anonymous", path: "/favicon.ico", session: false, wantStatus: http.StatusOK},
		{name: "healthz anonymous", path: "/healthz", session: false, wantStatus: http.StatusOK},
		{name: "metrics anonymous", path: "/metrics", session: false, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := gateRequest(t, tt.path, tt.session)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantLocation != "" {
				if loc := rec.Header().Get("Location"); loc != tt.wantLocation {
					t.Errorf("location = %v, want %v", loc, tt.wantLocation)
				}
			}
		})
	}
}

// A bad cookie is treated as no session, never as an error.
func TestGate_InvalidCookie(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "garbage token", value: "not-a-jwt"},
		{name: "empty value", value: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Gate(gateTestSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/cronograma", nil)
			req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: tt.value})

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusFound {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
			}
			if loc := rec.Header().Get("Location"); loc != LoginPath {
				t.Errorf("location = %v, want %v", loc, LoginPath)
			}
		})
	}
}

// A token signed with a different secret must not establish identity.
func TestGate_ForgedToken(t *testing.T) {
	handler := Gate(gateTestSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	forged, err := auth.MintSessionToken("account-1", "", "attacker-secret", time.Hour)
	if err != nil {
		t.Fatalf("MintSessionToken() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/cronograma", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: forged})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want redirect to login", rec.Code)
	}
}

func TestGate_AttachesIdentity(t *testing.T) {
	var gotID, gotEmail string
	handler := Gate(gateTestSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = GetAccountID(r)
		gotEmail, _ = GetAccountEmail(r)
		w.WriteHeader(http.StatusOK)
	}))

	token, err := auth.MintSessionToken("account-42", "user@example.com", gateTestSecret, time.Hour)
	if err != nil {
		t.Fatalf("MintSessionToken() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/cronograma", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if gotID != "account-42" {
		t.Errorf("account id in context = %v, want account-42", gotID)
	}
	if gotEmail != "user@example.com" {
		t.Errorf("email in context = %v, want user@example.com", gotEmail)
	}
}
