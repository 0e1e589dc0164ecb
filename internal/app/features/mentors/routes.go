// internal/app/features/mentors/routes.go
package mentors

import (
	"github.com/dalemusser/incubahub/internal/app/system/auth"
	"github.com/dalemusser/incubahub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts at "/mentors". Mentors may see the list; only managers
// and admins change assignments.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleAdmin, models.RoleManager, models.RoleMentor))
		pr.Get("/", h.ServeList)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleAdmin, models.RoleManager))
		pr.Post("/{mentorID}/assign", h.HandleAssign)
		pr.Post("/{mentorID}/unassign", h.HandleUnassign)
	})

	return r
}
