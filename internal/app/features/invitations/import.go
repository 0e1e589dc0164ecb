// internal/app/features/invitations/import.go
package invitations

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/incubahub/internal/app/features/errors"
	"github.com/dalemusser/incubahub/internal/app/system/authz"
	"github.com/dalemusser/incubahub/internal/app/system/csvutil"
	"github.com/dalemusser/incubahub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// maxShownRowErrors caps the row errors echoed back on a rejected file.
const maxShownRowErrors = 10

type importResponse struct {
	Created     int                  `json:"created"`
	Invitations []invitationResponse `json:"invitations"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /invitations/import                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleImport issues one invitation per line of an uploaded CSV
// ("email[,role]"). The whole file is checked before anything is written;
// a single bad line rejects the upload.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	forceJSON(r)
	_, inviterName, inviterID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteJSONError(w, http.StatusUnauthorized, "Connexion requise.")
		return
	}
	orgID, err := authz.OrgScope(r)
	if errors.Is(err, authz.ErrOrgForbidden) {
		h.ErrLog.LogForbidden(w, r, "invitation org scope", err, "Vous n'avez pas accès à cette organisation.", "")
		return
	}
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "invitation org scope", err, "Aucune organisation sélectionnée.", "")
		return
	}

	src, closeSrc, err := csvSource(w, r)
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "read import upload", err, "Fichier CSV manquant ou trop volumineux.", "")
		return
	}
	defer closeSrc()

	parsed, err := csvutil.ParseInvitationCSV(src, csvutil.DefaultParseOptions())
	if errors.Is(err, csvutil.ErrTooManyRows) {
		h.ErrLog.LogBadRequest(w, r, "import too large", err,
			fmt.Sprintf("Le fichier dépasse %d lignes.", csvutil.MaxRows), "")
		return
	}
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse import csv", err, "Fichier CSV illisible.", "")
		return
	}
	if parsed.HasErrors() {
		h.Log.Info("invitation import rejected",
			zap.String("org_id", orgID.Hex()),
			zap.Int("bad_rows", len(parsed.Errors)))
		uierrors.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"error": "Import refusé : certaines lignes sont invalides.",
			"rows":  parsed.Messages(maxShownRowErrors),
		})
		return
	}
	if len(parsed.Rows) == 0 {
		uierrors.WriteJSONError(w, http.StatusBadRequest, "Le fichier ne contient aucune adresse.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "import invitations")
	defer cancel()

	out := importResponse{Invitations: make([]invitationResponse, 0, len(parsed.Rows))}
	for _, row := range parsed.Rows {
		resp, err := h.issue(ctx, orgID, inviterID, inviterName, row.Email, row.Role)
		if err != nil {
			h.Log.Error("invitation import stopped",
				zap.String("org_id", orgID.Hex()),
				zap.Int("line", row.Line),
				zap.Int("created", len(out.Invitations)),
				zap.Error(err))
			uierrors.WriteJSON(w, http.StatusInternalServerError, map[string]any{
				"error":   fmt.Sprintf("Import interrompu à la ligne %d.", row.Line),
				"created": len(out.Invitations),
			})
			return
		}
		out.Invitations = append(out.Invitations, resp)
	}
	out.Created = len(out.Invitations)
	h.Log.Info("invitations imported", zap.String("org_id", orgID.Hex()), zap.Int("created", out.Created))
	uierrors.WriteJSON(w, http.StatusCreated, out)
}

// csvSource accepts either a multipart upload in the "file" field or a raw
// text/csv body.
func csvSource(w http.ResponseWriter, r *http.Request) (io.Reader, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, csvutil.MaxUploadSize)
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.Body, func() {}, nil
	}
	if err := r.ParseMultipartForm(csvutil.MaxUploadSize); err != nil {
		return nil, nil, err
	}
	f, _, err := r.FormFile("file")
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
