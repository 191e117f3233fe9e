package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDefaultCORS(t *testing.T) {
	handler := DefaultCORS("http://localhost:3000")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name      string
		origin    string
		wantAllow string
	}{
		{name: "frontend origin", origin: "http://localhost:3000", wantAllow: "http://localhost:3000"},
		{name: "loopback dev origin", origin: "http://127.0.0.1:3000", wantAllow: "http://127.0.0.1:3000"},
		{name: "unknown origin", origin: "http://evil.example.com", wantAllow: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/api/v1/auth/login", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllow {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantAllow)
			}
			if tt.wantAllow != "" && rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
				t.Error("cookie auth requires Allow-Credentials on permitted origins")
			}
		})
	}
}
