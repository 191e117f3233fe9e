package handlers

import (
	"html/template"
	"net/http"

	"github.com/LoohanZinho/enem2-sub003/internal/api/middleware"
	"github.com/LoohanZinho/enem2-sub003/internal/domain/entitlement"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/logger"
)

// PageHandler serves the minimal HTML shells. The real UI is a separate
// frontend; these pages exist so the routes resolve when the app is run
// standalone and so the gate has concrete targets to redirect to.
type PageHandler struct {
	entitlements entitlement.Service
	logger       *logger.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(entitlements entitlement.Service, log *logger.Logger) *PageHandler {
	return &PageHandler{entitlements: entitlements, logger: log}
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head><meta charset="utf-8"><title>{{.Title}} | ENEM Pro</title></head>
<body data-page="{{.Page}}"{{if .State}} data-access-state="{{.State}}"{{end}}>
<h1>{{.Title}}</h1>
</body>
</html>
`))

type pageData struct {
	Title string
	Page  string
	State string
}

func renderPage(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	pageTmpl.Execute(w, data)
}

// Home serves the landing page.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	renderPage(w, pageData{Title: "ENEM Pro", Page: "home"})
}

// Login serves the sign-in page.
func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	renderPage(w, pageData{Title: "Entrar", Page: "login"})
}

// PasswordReset serves the password reset page.
func (h *PageHandler) PasswordReset(w http.ResponseWriter, r *http.Request) {
	renderPage(w, pageData{Title: "Redefinir senha", Page: "redefinir-senha"})
}

// Support serves the activation support page.
func (h *PageHandler) Support(w http.ResponseWriter, r *http.Request) {
	renderPage(w, pageData{Title: "Suporte de ativação", Page: "suporte-ativacao"})
}

// Admin serves the admin console shell. The console's API calls enforce the
// admin role; the shell itself is public per the gate allowlist.
func (h *PageHandler) Admin(w http.ResponseWriter, r *http.Request) {
	renderPage(w, pageData{Title: "Admin", Page: "admin"})
}

// Cronograma serves the study schedule, the post-login home. The access
// state is evaluated per request; if the evaluator fails the page still
// renders, in a degraded state, rather than locking the user out.
func (h *PageHandler) Cronograma(w http.ResponseWriter, r *http.Request) {
	state := ""
	if accountID, ok := middleware.GetAccountID(r); ok {
		status, err := h.entitlements.Evaluate(r.Context(), accountID)
		if err != nil {
			h.logger.ErrorWithErr(err, "Entitlement evaluation failed, rendering degraded page")
			state = "unknown"
		} else {
			state = status.State
		}
	}
	renderPage(w, pageData{Title: "Cronograma", Page: "cronograma", State: state})
}
