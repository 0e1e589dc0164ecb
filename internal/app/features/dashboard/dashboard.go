// internal/app/features/dashboard/dashboard.go
package dashboard

import (
	"net/http"
	"net/url"

	"github.com/dalemusser/incubahub/internal/app/system/analytics"
	"github.com/dalemusser/incubahub/internal/app/system/auth"
	"github.com/dalemusser/waffle/pantry/templates"
)

type rangeOption struct {
	Key      analytics.Range
	Label    string
	Selected bool
}

type pieChart struct {
	Title  string
	Slices []analytics.PieSlice
}

type dashboardData struct {
	Title      string
	IsLoggedIn bool
	Role       string
	UserName   string

	Meta     analytics.Metadata
	Ranges   []rangeOption
	Sections []analytics.Section
	Pies     []pieChart
	Monthly  []analytics.SeriesPoint
	Radar    []analytics.RadarPoint
	Warnings int

	ExportJSONURL string
	ExportCSVURL  string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /analytics                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	res, ok := h.load(w, r)
	if !ok {
		return
	}

	data := dashboardData{
		Title:      "Tableau de bord",
		IsLoggedIn: true,
		Meta:       res.Meta,
		Sections:   analytics.Report(res.Meta, res.Metrics),
		Pies: []pieChart{
			{"Statut des projets", res.Charts.ProjectStatuses},
			{"Rôles", res.Charts.Roles},
			{"Profils", res.Charts.Personas},
			{"Types d'événements", res.Charts.EventTypes},
			{"Types de partenaires", res.Charts.PartnerTypes},
		},
		Monthly:       res.Charts.Monthly,
		Radar:         res.Charts.Radar,
		Warnings:      len(res.Metrics.Warnings),
		ExportJSONURL: exportURL("/analytics/export.json", res.Meta),
		ExportCSVURL:  exportURL("/analytics/export.csv", res.Meta),
	}
	if u, ok := auth.CurrentUser(r); ok {
		data.Role = u.Role
		data.UserName = u.Name
	}
	for _, rng := range analytics.Ranges() {
		data.Ranges = append(data.Ranges, rangeOption{Key: rng, Label: rng.Label(), Selected: rng == res.Meta.TimeRange})
	}

	templates.Render(w, r, "analytics_dashboard", data)
}

func exportURL(path string, meta analytics.Metadata) string {
	q := url.Values{}
	q.Set("range", string(meta.TimeRange))
	q.Set("org", meta.OrganizationID)
	return path + "?" + q.Encode()
}
