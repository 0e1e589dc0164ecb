// internal/app/features/dashboard/export.go
package dashboard

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dalemusser/incubahub/internal/app/system/analytics"
	"go.uber.org/zap"
)

func attachment(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))
}

// ServeExportJSON downloads the full export document.
func (h *Handler) ServeExportJSON(w http.ResponseWriter, r *http.Request) {
	res, ok := h.load(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	doc := analytics.BuildDocument(res.Meta, res.Metrics, res.Charts)
	if err := analytics.WriteJSON(&buf, doc); err != nil {
		h.ErrLog.LogServerError(w, r, "encode analytics export", err, "Export impossible.", "/analytics")
		return
	}

	attachment(w, "application/json; charset=utf-8", analytics.JSONFilename(res.Meta.OrganizationID, res.Meta.GeneratedAt))
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.Log.Error("JSON export write failed", zap.Error(err))
	}
}

// ServeExportCSV downloads the human-readable report.
func (h *Handler) ServeExportCSV(w http.ResponseWriter, r *http.Request) {
	res, ok := h.load(w, r)
	if !ok {
		return
	}

	attachment(w, "text/csv; charset=utf-8", analytics.CSVFilename(res.Meta.OrganizationID, res.Meta.GeneratedAt))
	if err := analytics.WriteCSV(w, res.Meta, res.Metrics); err != nil {
		h.Log.Error("CSV export write failed", zap.Error(err))
	}
}
