// internal/app/features/invitations/invite.go
package invitations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	uierrors "github.com/dalemusser/incubahub/internal/app/features/errors"
	"github.com/dalemusser/incubahub/internal/app/system/authz"
	"github.com/dalemusser/incubahub/internal/app/system/inputval"
	"github.com/dalemusser/incubahub/internal/app/system/limits"
	mailerpkg "github.com/dalemusser/incubahub/internal/app/system/mailer"
	"github.com/dalemusser/incubahub/internal/app/system/normalize"
	"github.com/dalemusser/incubahub/internal/app/system/timeouts"
	"github.com/dalemusser/incubahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type createRequest struct {
	Email string `json:"email" validate:"required,emailaddr" label:"L'adresse e-mail"`
	Role  string `json:"role" validate:"max=40" label:"Le rôle"`
}

type invitationResponse struct {
	models.Invitation
	AcceptURL string `json:"accept_url,omitempty"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /invitations                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
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

	var req createRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, limits.MaxJSONBody)).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode invitation", err, "Données invalides.", "")
		return
	}
	req.Email = normalize.Email(req.Email)
	if res := inputval.Validate(req); res.HasErrors() {
		h.ErrLog.LogBadRequest(w, r, "invalid invitation", nil, res.First(), "")
		return
	}
	email := req.Email

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create invitation")
	defer cancel()

	resp, err := h.issue(ctx, orgID, inviterID, inviterName, email, req.Role)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create invitation", err, "Impossible de créer l'invitation.", "")
		return
	}
	uierrors.WriteJSON(w, http.StatusCreated, resp)
}

// issue stores a pending invitation and mails the link. A mail failure is
// logged but does not undo the invitation; the link can be shared by hand.
func (h *Handler) issue(ctx context.Context, orgID, inviterID primitive.ObjectID, inviterName, email, role string) (invitationResponse, error) {
	inv, err := h.Invitations.Create(ctx, orgID, inviterID, email, role)
	if err != nil {
		return invitationResponse{}, err
	}
	h.Log.Info("invitation created",
		zap.String("invitation_id", inv.ID.Hex()),
		zap.String("org_id", orgID.Hex()),
		zap.String("invited_by", inviterID.Hex()))

	if h.Mail != nil {
		orgName, err := h.Orgs.Name(ctx, orgID)
		if err != nil {
			h.Log.Warn("invitation org name lookup failed", zap.Error(err))
		}
		msg := mailerpkg.BuildInvitationEmail(inv.Email, mailerpkg.InvitationEmailData{
			SiteName:         "IncubaHub",
			OrganizationName: orgName,
			InviterName:      inviterName,
			AcceptURL:        h.acceptURL(inv.Token),
			ExpiresIn:        fmt.Sprintf("%d jours", int(h.Invitations.Expiry().Hours()/24)),
		})
		if err := h.Mail.Send(ctx, msg); err != nil {
			h.Log.Warn("invitation email failed", zap.String("invitation_id", inv.ID.Hex()), zap.Error(err))
		}
	}
	return invitationResponse{Invitation: inv, AcceptURL: h.acceptURL(inv.Token)}, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /invitations                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	forceJSON(r)
	orgID, err := authz.OrgScope(r)
	if errors.Is(err, authz.ErrOrgForbidden) {
		h.ErrLog.LogForbidden(w, r, "invitation org scope", err, "Vous n'avez pas accès à cette organisation.", "")
		return
	}
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "invitation org scope", err, "Aucune organisation sélectionnée.", "")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list invitations")
	defer cancel()

	invs, err := h.Invitations.ListByOrg(ctx, orgID)
	if err != nil {
		h.ErrLog.LogFetchError(w, r, "list invitations", err, "Impossible de charger les invitations.", "")
		return
	}
	out := make([]invitationResponse, 0, len(invs))
	for _, inv := range invs {
		resp := invitationResponse{Invitation: inv}
		if inv.Status == models.InvitationPending {
			resp.AcceptURL = h.acceptURL(inv.Token)
		}
		out = append(out, resp)
	}
	uierrors.WriteJSON(w, http.StatusOK, map[string]any{"invitations": out})
}
