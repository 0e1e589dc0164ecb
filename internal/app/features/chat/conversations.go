// internal/app/features/chat/conversations.go
package chat

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/incubahub/internal/app/features/errors"
	"github.com/dalemusser/incubahub/internal/app/system/authz"
	"github.com/dalemusser/incubahub/internal/app/system/limits"
	"github.com/dalemusser/incubahub/internal/app/system/timeouts"
	"github.com/dalemusser/incubahub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type createRequest struct {
	Title string `json:"title"`
}

type conversationResponse struct {
	Conversation models.Conversation `json:"conversation"`
	Messages     []models.Message    `json:"messages"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /assistant/conversations                                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	r.Header.Set("Accept", "application/json")
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteJSONError(w, http.StatusUnauthorized, "Connexion requise.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list conversations")
	defer cancel()

	list, err := h.Conversations.ListForUser(ctx, userID)
	if err != nil {
		h.ErrLog.LogFetchError(w, r, "list conversations", err, "Impossible de charger les conversations.", "")
		return
	}
	if list == nil {
		list = []models.Conversation{}
	}
	uierrors.WriteJSON(w, http.StatusOK, map[string]any{"conversations": list})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /assistant/conversations                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	r.Header.Set("Accept", "application/json")
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteJSONError(w, http.StatusUnauthorized, "Connexion requise.")
		return
	}
	orgID, err := authz.OrgScope(r)
	if errors.Is(err, authz.ErrOrgForbidden) {
		h.ErrLog.LogForbidden(w, r, "assistant org scope", err, "Vous n'avez pas accès à cette organisation.", "")
		return
	}
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "assistant org scope", err, "Aucune organisation sélectionnée.", "")
		return
	}

	var req createRequest
	// An empty body is allowed and gives the default title.
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, limits.MaxConversationBody)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.ErrLog.LogBadRequest(w, r, "decode conversation", err, "Données invalides.", "")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create conversation")
	defer cancel()

	c, err := h.Conversations.Create(ctx, orgID, userID, strings.TrimSpace(req.Title))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create conversation", err, "Impossible de créer la conversation.", "")
		return
	}
	uierrors.WriteJSON(w, http.StatusCreated, conversationResponse{Conversation: c, Messages: []models.Message{}})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /assistant/conversations/{id}                                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeConversation(w http.ResponseWriter, r *http.Request) {
	r.Header.Set("Accept", "application/json")
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteJSONError(w, http.StatusUnauthorized, "Connexion requise.")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad conversation id", err, "Conversation invalide.", "")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "load conversation")
	defer cancel()

	c, err := h.Conversations.GetForUser(ctx, userID, id)
	if err != nil {
		h.conversationLookupError(w, r, err)
		return
	}
	msgs, err := h.Conversations.Messages(ctx, c.ID)
	if err != nil {
		h.ErrLog.LogFetchError(w, r, "load messages", err, "Impossible de charger la conversation.", "")
		return
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	uierrors.WriteJSON(w, http.StatusOK, conversationResponse{Conversation: c, Messages: msgs})
}
