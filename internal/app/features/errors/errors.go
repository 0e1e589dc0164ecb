// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/incubahub/internal/app/system/authz"
	"github.com/dalemusser/waffle/pantry/templates"
)

// pageData is the basic view model for error pages.
type pageData struct {
	Title      string
	IsLoggedIn bool
	Role       string
	UserName   string
	Message    string
	BackURL    string
	BackLabel  string
	Status     int
}

func newPageData(r *http.Request, status int, title, msg, backURL string) pageData {
	role, name, _, signedIn := authz.UserCtx(r)
	return pageData{
		Title:      title,
		IsLoggedIn: signedIn,
		Role:       role,
		UserName:   name,
		Message:    msg,
		BackURL:    backURL,
		BackLabel:  "Retour",
		Status:     status,
	}
}

// Handler is the errors feature handler.
// No DB needed; it just renders templates.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Forbidden renders a friendly "access denied" page.
// GET /forbidden
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	RenderForbidden(w, r, "", "/")
}

// Unauthorized renders a friendly "sign in required" page.
// GET /unauthorized
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	RenderUnauthorized(w, r, "/login")
}

// RenderUnauthorized shows a "sign in required" page.
// If backURL is empty, it will default to /login.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, backURL string) {
	if backURL == "" {
		backURL = "/login"
	}
	data := newPageData(r, http.StatusUnauthorized, "Connexion requise", "Veuillez vous connecter pour continuer.", backURL)
	data.BackLabel = "Se connecter"
	render(w, r, data)
}

// RenderForbidden shows an access error page with a message.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if msg == "" {
		msg = "Vous n'avez pas accès à cette page."
	}
	if backURL == "" {
		backURL = "/"
	}
	render(w, r, newPageData(r, http.StatusForbidden, "Accès refusé", msg, backURL))
}

// RenderError shows a generic error page with the given status.
func RenderError(w http.ResponseWriter, r *http.Request, status int, msg, backURL string) {
	if backURL == "" {
		backURL = "/"
	}
	render(w, r, newPageData(r, status, http.StatusText(status), msg, backURL))
}

// RenderRetry shows a load failure with a link that retries the same page.
func RenderRetry(w http.ResponseWriter, r *http.Request, status int, msg, retryURL string) {
	if retryURL == "" {
		retryURL = r.URL.RequestURI()
	}
	data := newPageData(r, status, "Chargement impossible", msg, retryURL)
	data.BackLabel = "Réessayer"
	render(w, r, data)
}

func render(w http.ResponseWriter, r *http.Request, data pageData) {
	w.WriteHeader(data.Status)
	templates.Render(w, r, "error_page", data)
}
