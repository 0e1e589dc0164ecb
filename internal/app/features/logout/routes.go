// internal/app/features/logout/routes.go
package logout

import (
	"github.com/dalemusser/incubahub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts at "/logout"; a session is required.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeLogout)
	r.Post("/", h.ServeLogout)
	return r
}
