// internal/app/features/invitations/routes.go
package invitations

import (
	"github.com/dalemusser/incubahub/internal/app/system/auth"
	"github.com/dalemusser/incubahub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts at "/invitations". Acceptance is public; the token
// authorizes it.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleAdmin, models.RoleManager))
		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleCreate)
		pr.Post("/import", h.HandleImport)
	})

	r.Post("/{token}/accept", h.HandleAccept)

	return r
}
