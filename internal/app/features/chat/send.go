// internal/app/features/chat/send.go
package chat

import (
	"encoding/json"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/incubahub/internal/app/features/errors"
	"github.com/dalemusser/incubahub/internal/app/system/analytics"
	"github.com/dalemusser/incubahub/internal/app/system/assistant"
	"github.com/dalemusser/incubahub/internal/app/system/authz"
	"github.com/dalemusser/incubahub/internal/app/system/inputval"
	"github.com/dalemusser/incubahub/internal/app/system/limits"
	"github.com/dalemusser/incubahub/internal/app/system/timeouts"
	"github.com/dalemusser/incubahub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type sendRequest struct {
	Content string `json:"content" validate:"notblank,max=4000" label:"Le message"`
}

type sendResponse struct {
	UserMessage      models.Message `json:"user_message"`
	AssistantMessage models.Message `json:"assistant_message"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /assistant/conversations/{id}/messages                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleSend stores the user's message, asks the model with the current
// month's figures as context, and stores the rendered reply. A second send
// on the same conversation while one is pending is refused with 409.
func (h *Handler) HandleSend(w http.ResponseWriter, r *http.Request) {
	r.Header.Set("Accept", "application/json")
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteJSONError(w, http.StatusUnauthorized, "Connexion requise.")
		return
	}
	if h.Completer == nil {
		uierrors.WriteJSONError(w, http.StatusServiceUnavailable, "L'assistant n'est pas configuré.")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad conversation id", err, "Conversation invalide.", "")
		return
	}
	var req sendRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, limits.MaxJSONBody)).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode message", err, "Données invalides.", "")
		return
	}
	req.Content = strings.TrimSpace(req.Content)
	if res := inputval.Validate(req); res.HasErrors() {
		h.ErrLog.LogBadRequest(w, r, "message length", nil, res.First(), "")
		return
	}
	content := req.Content

	release, ok := h.begin(id)
	if !ok {
		uierrors.WriteJSONError(w, http.StatusConflict, "Une réponse est déjà en cours pour cette conversation.")
		return
	}
	defer release()

	if h.Limiter != nil && !h.Limiter.Allow(userID.Hex()) {
		uierrors.WriteJSONError(w, http.StatusTooManyRequests, "Trop de messages. Patientez un instant.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Fetch(), h.Log, "assistant context")
	defer cancel()

	c, err := h.Conversations.GetForUser(ctx, userID, id)
	if err != nil {
		h.conversationLookupError(w, r, err)
		return
	}
	stored, err := h.Conversations.Messages(ctx, c.ID)
	if err != nil {
		h.ErrLog.LogFetchError(w, r, "load messages", err, "Impossible de charger la conversation.", "")
		return
	}
	system, err := h.systemPrompt(r, c.OrganizationID)
	if err != nil {
		h.ErrLog.LogFetchError(w, r, "assistant analytics context", err, "Impossible de charger les données.", "")
		return
	}

	userMsg, err := h.Conversations.AppendMessage(ctx, c, models.MessageRoleUser, content, "")
	if err != nil {
		h.ErrLog.LogServerError(w, r, "store user message", err, "Impossible d'enregistrer le message.", "")
		return
	}

	history := make([]assistant.ChatMessage, 0, len(stored)+1)
	for _, m := range stored {
		history = append(history, assistant.ChatMessage{Role: m.Role, Content: m.Content})
	}
	history = append(history, assistant.ChatMessage{Role: assistant.RoleUser, Content: content})

	askCtx, askCancel := timeouts.WithTimeout(r.Context(), timeouts.Assistant(), h.Log, "assistant completion")
	defer askCancel()

	reply, err := h.Completer.Complete(askCtx, assistant.BuildMessages(system, history, MaxHistory))
	if err != nil {
		h.ErrLog.LogFetchError(w, r, "assistant completion", err, "L'assistant n'a pas pu répondre. Réessayez.", "")
		return
	}
	html, err := assistant.RenderReply(reply)
	if err != nil {
		h.Log.Warn("render assistant reply", zap.Error(err))
	}

	storeCtx, storeCancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "store assistant reply")
	defer storeCancel()

	botMsg, err := h.Conversations.AppendMessage(storeCtx, c, models.MessageRoleAssistant, reply, html)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "store assistant message", err, "Impossible d'enregistrer la réponse.", "")
		return
	}

	uierrors.WriteJSON(w, http.StatusCreated, sendResponse{UserMessage: userMsg, AssistantMessage: botMsg})
}

// systemPrompt builds the model framing from the organization's figures
// over the last month.
func (h *Handler) systemPrompt(r *http.Request, orgID primitive.ObjectID) (string, error) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Fetch(), h.Log, "assistant analytics")
	defer cancel()

	orgName, err := h.Orgs.Name(ctx, orgID)
	if err != nil {
		return "", err
	}
	snap, err := h.Source.Snapshot(ctx, orgID)
	if err != nil {
		return "", err
	}

	now := h.now()
	cutoff := analytics.Cutoff(analytics.Range1Month, now)
	m := analytics.Aggregate(snap, cutoff, analytics.Options{Now: now, Policy: h.Policy})
	meta := analytics.Metadata{
		OrganizationID:   orgID.Hex(),
		OrganizationName: orgName,
		TimeRange:        analytics.Range1Month,
		TimeRangeLabel:   analytics.Range1Month.Label(),
		Cutoff:           cutoff,
		GeneratedAt:      now,
	}
	return assistant.SystemPrompt(orgName, meta, m), nil
}
