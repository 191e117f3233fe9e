package integration

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/LoohanZinho/enem2-sub003/internal/api/router"
	"github.com/LoohanZinho/enem2-sub003/internal/config"
	"github.com/LoohanZinho/enem2-sub003/internal/domain/account"
	"github.com/LoohanZinho/enem2-sub003/internal/domain/entitlement"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/logger"
	"github.com/LoohanZinho/enem2-sub003/internal/repository/postgres"
	"github.com/LoohanZinho/enem2-sub003/internal/services"
	"github.com/LoohanZinho/enem2-sub003/internal/testutil"
)

type testEnv struct {
	server       *httptest.Server
	accounts     account.Service
	entitlements entitlement.Service
}

func newTestEnv(t *testing.T, webhookSecret string) *testEnv {
	t.Helper()

	db := testutil.NewTestDB(t)
	log := logger.New(logger.Config{Level: "error", Format: "json"})

	cfg := &config.Config{
		Server: config.ServerConfig{
			Environment: "test",
			FrontendURL: "http://localhost:3000",
		},
		Auth: config.AuthConfig{
			SessionSecret: "integration-test-secret",
			SessionTTL:    24 * time.Hour,
			BCryptCost:    bcrypt.MinCost,
		},
		Billing: config.BillingConfig{
			WebhookSecret: webhookSecret,
			RenewalWindow: 24 * time.Hour,
		},
	}

	accounts := services.NewAccountService(postgres.NewAccountRepository(db), cfg.Auth.BCryptCost, log)
	entitlements := services.NewEntitlementService(postgres.NewAccessKeyRepository(db), cfg.Billing.RenewalWindow, log)

	handler := router.New(router.Deps{
		Config:       cfg,
		Logger:       log,
		DB:           db,
		Accounts:     accounts,
		Entitlements: entitlements,
	})

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &testEnv{
		server:       server,
		accounts:     accounts,
		entitlements: entitlements,
	}
}

// newBrowser returns an HTTP client that keeps cookies and does not follow
// redirects, so tests can assert on the gate's 302 responses directly.
func newBrowser(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New() error = %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (e *testEnv) createAccount(t *testing.T, email, password string) *account.Account {
	t.Helper()

	a, err := e.accounts.Create(context.Background(), email, password, "Test User")
	if err != nil {
		t.Fatalf("failed to create account: %v", err)
	}
	return a
}
