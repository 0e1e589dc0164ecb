// internal/app/features/invitations/accept.go
package invitations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/incubahub/internal/app/features/errors"
	invitationstore "github.com/dalemusser/incubahub/internal/app/store/invitations"
	"github.com/dalemusser/incubahub/internal/app/system/inputval"
	"github.com/dalemusser/incubahub/internal/app/system/limits"
	"github.com/dalemusser/incubahub/internal/app/system/timeouts"
	"github.com/dalemusser/incubahub/internal/app/system/txn"
	"github.com/dalemusser/incubahub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type acceptRequest struct {
	FirstName string `json:"first_name" validate:"notblank,max=100" label:"Le prénom"`
	LastName  string `json:"last_name" validate:"notblank,max=100" label:"Le nom"`
}

type acceptResponse struct {
	AdherentID     string `json:"adherent_id"`
	OrganizationID string `json:"organization_id"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /invitations/{token}/accept                                            |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleAccept turns a pending invitation into an adherent. The token is
// the credential, so no session is required.
func (h *Handler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	forceJSON(r)
	token := strings.TrimSpace(chi.URLParam(r, "token"))

	var req acceptRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, limits.MaxJSONBody)).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode acceptance", err, "Données invalides.", "")
		return
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if res := inputval.Validate(req); res.HasErrors() {
		h.ErrLog.LogBadRequest(w, r, "invalid acceptance", nil, res.First(), "")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "accept invitation")
	defer cancel()

	now := h.now()
	inv, err := h.Invitations.Check(ctx, token, now)
	if err != nil {
		h.writeStateError(w, r, err)
		return
	}

	adherentID := h.newID()
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		if _, err := h.Invitations.MarkAccepted(ctx, token, adherentID, now); err != nil {
			return err
		}
		_, err := h.Adherents.Create(ctx, models.Adherent{
			ID:             adherentID,
			OrganizationID: inv.OrganizationID,
			FirstName:      req.FirstName,
			LastName:       req.LastName,
			Email:          inv.Email,
			Role:           inv.Role,
			JoinedAt:       now,
		})
		return err
	})
	if err != nil {
		h.release(ctx, token, adherentID, err)
		h.writeStateError(w, r, err)
		return
	}

	h.Log.Info("invitation accepted",
		zap.String("invitation_id", inv.ID.Hex()),
		zap.String("adherent_id", adherentID.Hex()))
	uierrors.WriteJSON(w, http.StatusCreated, acceptResponse{
		AdherentID:     adherentID.Hex(),
		OrganizationID: inv.OrganizationID.Hex(),
	})
}

// release reopens the invitation when the adherent insert failed after
// the guard committed. Inside a transaction the guard was rolled back and
// this matches nothing.
func (h *Handler) release(ctx context.Context, token string, adherentID primitive.ObjectID, cause error) {
	if errors.Is(cause, invitationstore.ErrNotFound) ||
		errors.Is(cause, invitationstore.ErrExpired) ||
		errors.Is(cause, invitationstore.ErrAlreadyAccepted) {
		return
	}
	reopened, err := h.Invitations.Release(ctx, token, adherentID)
	if err != nil {
		h.Log.Error("release invitation after failed accept",
			zap.String("adherent_id", adherentID.Hex()), zap.Error(err))
		return
	}
	if reopened {
		h.Log.Warn("invitation reopened after failed accept",
			zap.String("adherent_id", adherentID.Hex()), zap.Error(cause))
	}
}

func (h *Handler) writeStateError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, invitationstore.ErrNotFound):
		h.ErrLog.LogNotFound(w, r, "invitation token", err, "Invitation introuvable.", "")
	case errors.Is(err, invitationstore.ErrExpired):
		h.Log.Info("expired invitation used", zap.Error(err))
		uierrors.WriteJSONError(w, http.StatusGone, "Cette invitation a expiré.")
	case errors.Is(err, invitationstore.ErrAlreadyAccepted):
		h.Log.Info("invitation reused", zap.Error(err))
		uierrors.WriteJSONError(w, http.StatusConflict, "Cette invitation a déjà été acceptée.")
	default:
		h.ErrLog.LogServerError(w, r, "accept invitation", err, "Une erreur serveur est survenue.", "")
	}
}
