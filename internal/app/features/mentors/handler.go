// internal/app/features/mentors/handler.go
package mentors

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/incubahub/internal/app/features/errors"
	adherentstore "github.com/dalemusser/incubahub/internal/app/store/adherents"
	mentorstore "github.com/dalemusser/incubahub/internal/app/store/mentors"
	"github.com/dalemusser/incubahub/internal/app/system/authz"
	"github.com/dalemusser/incubahub/internal/app/system/inputval"
	"github.com/dalemusser/incubahub/internal/app/system/limits"
	"github.com/dalemusser/incubahub/internal/app/system/paging"
	"github.com/dalemusser/incubahub/internal/app/system/timeouts"
	"github.com/dalemusser/incubahub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Mentors   *mentorstore.Store
	Adherents *adherentstore.Store
	ErrLog    *uierrors.ErrorLogger
	Log       *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Mentors:   mentorstore.New(db),
		Adherents: adherentstore.New(db),
		ErrLog:    errLog,
		Log:       logger,
	}
}

type mentorRow struct {
	models.Mentor
	AdherentCount int `json:"adherent_count"`
}

func (h *Handler) orgScope(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	r.Header.Set("Accept", "application/json")
	orgID, err := authz.OrgScope(r)
	switch {
	case errors.Is(err, authz.ErrOrgForbidden):
		h.ErrLog.LogForbidden(w, r, "mentor org scope", err, "Vous n'avez pas accès à cette organisation.", "")
		return primitive.NilObjectID, false
	case err != nil:
		h.ErrLog.LogBadRequest(w, r, "mentor org scope", err, "Aucune organisation sélectionnée.", "")
		return primitive.NilObjectID, false
	}
	return orgID, true
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /mentors                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgScope(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list mentors")
	defer cancel()

	before, after := paging.FromRequest(r)
	cfg := paging.ConfigureKeyset(before, after)
	list, err := h.Mentors.ListPage(ctx, orgID, cfg)
	if err != nil {
		h.ErrLog.LogFetchError(w, r, "list mentors", err, "Impossible de charger les mentors.", "")
		return
	}
	if cfg.Direction == paging.Backward {
		paging.Reverse(list)
	}
	page := paging.TrimPage(&list, before, after)

	counts, err := h.Adherents.CountByMentor(ctx, orgID)
	if err != nil {
		h.ErrLog.LogFetchError(w, r, "count adherents per mentor", err, "Impossible de charger les mentors.", "")
		return
	}

	rows := make([]mentorRow, 0, len(list))
	for _, m := range list {
		rows = append(rows, mentorRow{Mentor: m, AdherentCount: counts[m.ID]})
	}
	prev, next := paging.BuildCursors(list,
		func(m models.Mentor) string { return m.FullNameCI },
		func(m models.Mentor) primitive.ObjectID { return m.ID })

	resp := mentorList{Mentors: rows, Result: page}
	if page.HasPrev {
		resp.PrevCursor = prev
	}
	if page.HasNext {
		resp.NextCursor = next
	}
	uierrors.WriteJSON(w, http.StatusOK, resp)
}

type mentorList struct {
	Mentors []mentorRow `json:"mentors"`
	paging.Result
	PrevCursor string `json:"prev_cursor,omitempty"`
	NextCursor string `json:"next_cursor,omitempty"`
}

type assignRequest struct {
	AdherentID string `json:"adherent_id" validate:"required,objectid" label:"L'adhérent"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /mentors/{mentorID}/assign   POST /mentors/{mentorID}/unassign         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	h.setAssignment(w, r, true)
}

func (h *Handler) HandleUnassign(w http.ResponseWriter, r *http.Request) {
	h.setAssignment(w, r, false)
}

func (h *Handler) setAssignment(w http.ResponseWriter, r *http.Request, assign bool) {
	orgID, ok := h.orgScope(w, r)
	if !ok {
		return
	}

	mentorID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "mentorID"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad mentor id", err, "Mentor invalide.", "")
		return
	}
	var req assignRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, limits.MaxJSONBody)).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode assignment", err, "Données invalides.", "")
		return
	}
	req.AdherentID = strings.TrimSpace(req.AdherentID)
	if res := inputval.Validate(req); res.HasErrors() {
		h.ErrLog.LogBadRequest(w, r, "bad adherent id", nil, res.First(), "")
		return
	}
	adherentID, _ := primitive.ObjectIDFromHex(req.AdherentID)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "mentor assignment")
	defer cancel()

	// Both lookups are scoped to orgID, so a mentor and an adherent from
	// different organizations can never be linked.
	if _, err := h.Mentors.GetByID(ctx, orgID, mentorID); err != nil {
		h.notFoundOrError(w, r, err, "Mentor introuvable.")
		return
	}
	a, err := h.Adherents.GetByID(ctx, orgID, adherentID)
	if err != nil {
		h.notFoundOrError(w, r, err, "Adhérent introuvable.")
		return
	}

	var target *primitive.ObjectID
	if assign {
		target = &mentorID
	} else if a.MentorID == nil || *a.MentorID != mentorID {
		uierrors.WriteJSONError(w, http.StatusConflict, "Cet adhérent n'est pas suivi par ce mentor.")
		return
	}

	if err := h.Adherents.SetMentor(ctx, orgID, adherentID, target); err != nil {
		h.notFoundOrError(w, r, err, "Adhérent introuvable.")
		return
	}

	h.Log.Info("mentor assignment changed",
		zap.String("mentor_id", mentorID.Hex()),
		zap.String("adherent_id", adherentID.Hex()),
		zap.Bool("assigned", assign))
	resp := map[string]any{"adherent_id": adherentID.Hex(), "mentor_id": nil}
	if assign {
		resp["mentor_id"] = mentorID.Hex()
	}
	uierrors.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) notFoundOrError(w http.ResponseWriter, r *http.Request, err error, userMsg string) {
	if errors.Is(err, mentorstore.ErrNotFound) || errors.Is(err, adherentstore.ErrNotFound) {
		h.ErrLog.LogNotFound(w, r, "mentor assignment lookup", err, userMsg, "")
		return
	}
	h.ErrLog.LogServerError(w, r, "mentor assignment", err, "Une erreur serveur est survenue.", "")
}
