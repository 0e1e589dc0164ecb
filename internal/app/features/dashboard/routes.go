// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/dalemusser/incubahub/internal/app/system/auth"
	"github.com/dalemusser/incubahub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes serves the analytics dashboard, its JSON feed and the exports.
// Mounted at "/analytics".
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleAdmin, models.RoleManager, models.RoleMentor))

		pr.Get("/", h.ServeDashboard)
		pr.Get("/metrics.json", h.ServeMetricsJSON)
		pr.Get("/export.json", h.ServeExportJSON)
		pr.Get("/export.csv", h.ServeExportCSV)
		pr.Post("/compute", h.HandleCompute)
	})

	return r
}
