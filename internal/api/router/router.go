package router

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/LoohanZinho/enem2-sub003/internal/api/handlers"
	"github.com/LoohanZinho/enem2-sub003/internal/api/middleware"
	"github.com/LoohanZinho/enem2-sub003/internal/config"
	"github.com/LoohanZinho/enem2-sub003/internal/domain/account"
	"github.com/LoohanZinho/enem2-sub003/internal/domain/entitlement"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/logger"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/metrics"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/validator"
)

// Deps carries everything the router wires together.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           *sql.DB
	Accounts     account.Service
	Entitlements entitlement.Service
}

// New builds the HTTP handler tree. Every route passes through the gate;
// the gate's own allowlist decides what is reachable without a session.
func New(deps Deps) http.Handler {
	val := validator.New()

	authHandler := handlers.NewAuthHandler(deps.Accounts, deps.Config, deps.Logger, val)
	accountHandler := handlers.NewAccountHandler(deps.Accounts, deps.Config, deps.Logger, val)
	entitlementHandler := handlers.NewEntitlementHandler(deps.Entitlements, deps.Accounts, deps.Logger, val)
	webhookHandler := handlers.NewWebhookHandler(deps.Accounts, deps.Entitlements, deps.Config, deps.Logger, val)
	pageHandler := handlers.NewPageHandler(deps.Entitlements, deps.Logger)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	r := chi.NewRouter()

	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.DefaultCORS(deps.Config.Server.FrontendURL))
	r.Use(metrics.Middleware)
	// Logger sits directly above the gate so the gate can attach the
	// account id to the request log.
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.RateLimit(100, 200))
	r.Use(middleware.Gate(deps.Config.Auth.SessionSecret))

	// Probes and metrics. Excluded from the gate by prefix.
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/health", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	// Public pages
	r.Get("/", pageHandler.Home)
	r.Get("/login", pageHandler.Login)
	r.Get("/redefinir-senha", pageHandler.PasswordReset)
	r.Get("/suporte-ativacao", pageHandler.Support)
	r.Get("/admin", pageHandler.Admin)

	// Protected pages
	r.Get("/cronograma", pageHandler.Cronograma)

	loginLimit := middleware.RateLimit(2, 5)

	// Public auth and provisioning endpoints
	r.With(loginLimit).Post("/login", authHandler.Login)
	r.Post("/api/create-user", accountHandler.Create)
	r.Post("/redefinir-senha", accountHandler.PasswordReset)
	r.Post("/webhook/payment", webhookHandler.Payment)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(loginLimit).Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Get("/me", authHandler.Me)
		})
		r.Get("/entitlement", entitlementHandler.Status)
		r.Patch("/account", accountHandler.UpdateSelf)
	})

	// Admin API under the public /admin prefix; each handler enforces the
	// admin role itself.
	r.Route("/admin/api", func(r chi.Router) {
		r.Get("/accounts", accountHandler.List)
		r.Patch("/accounts/{id}", func(w http.ResponseWriter, req *http.Request) {
			accountHandler.Update(w, req, chi.URLParam(req, "id"))
		})
		r.Delete("/accounts/{id}", func(w http.ResponseWriter, req *http.Request) {
			accountHandler.Deactivate(w, req, chi.URLParam(req, "id"))
		})
		r.Get("/keys/{userID}", func(w http.ResponseWriter, req *http.Request) {
			entitlementHandler.ListKeys(w, req, chi.URLParam(req, "userID"))
		})
		r.Post("/keys", entitlementHandler.IssueKey)
		r.Delete("/keys/{key}", func(w http.ResponseWriter, req *http.Request) {
			entitlementHandler.RevokeKey(w, req, chi.URLParam(req, "key"))
		})
	})

	return r
}
