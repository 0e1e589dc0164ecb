// internal/app/features/dashboard/api.go
package dashboard

import (
	"encoding/json"
	"net/http"

	uierrors "github.com/dalemusser/incubahub/internal/app/features/errors"
	"github.com/dalemusser/incubahub/internal/app/system/analytics"
	"github.com/dalemusser/incubahub/internal/app/system/authz"
	"github.com/dalemusser/incubahub/internal/app/system/limits"
	"github.com/dalemusser/waffle/pantry/query"
)

type metricsResponse struct {
	Metadata analytics.Metadata  `json:"metadata"`
	Metrics  analytics.Metrics   `json:"metrics"`
	Charts   analytics.ChartData `json:"chartData"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /analytics/metrics.json                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeMetricsJSON(w http.ResponseWriter, r *http.Request) {
	r.Header.Set("Accept", "application/json")
	res, ok := h.load(w, r)
	if !ok {
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, metricsResponse{res.Meta, res.Metrics, res.Charts})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /analytics/compute                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleCompute runs the pipeline over a snapshot supplied by the caller
// instead of the stored collections. The body uses the raw wire shape:
// ISO-8601 strings and free-text statuses.
func (h *Handler) HandleCompute(w http.ResponseWriter, r *http.Request) {
	r.Header.Set("Accept", "application/json")
	_, userName, _, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteJSONError(w, http.StatusUnauthorized, "Connexion requise.")
		return
	}

	var raw analytics.RawSnapshot
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limits.MaxSnapshotBody))
	if err := dec.Decode(&raw); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode raw snapshot", err, "Données invalides.", "")
		return
	}
	if err := raw.Validate(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "raw snapshot out of range", err, "Montant ou note hors limites.", "")
		return
	}

	rng := analytics.ParseRange(query.Get(r, "range"))
	res := h.compute(raw.Ingest(), "", "", userName, rng)
	uierrors.WriteJSON(w, http.StatusOK, metricsResponse{res.Meta, res.Metrics, res.Charts})
}
