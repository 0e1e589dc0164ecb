// internal/app/features/chat/handler.go
package chat

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	uierrors "github.com/dalemusser/incubahub/internal/app/features/errors"
	conversationstore "github.com/dalemusser/incubahub/internal/app/store/conversations"
	organizationstore "github.com/dalemusser/incubahub/internal/app/store/organizations"
	"github.com/dalemusser/incubahub/internal/app/store/queries/analyticsdata"
	"github.com/dalemusser/incubahub/internal/app/system/analytics"
	"github.com/dalemusser/incubahub/internal/app/system/assistant"
	"github.com/dalemusser/incubahub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MaxHistory is how many stored turns are replayed to the model.
const MaxHistory = 20

// MaxMessageLen bounds a user message, in characters. Keep in step with
// the max rule on sendRequest.
const MaxMessageLen = 4000

// SnapshotSource loads every collection of one organization.
type SnapshotSource interface {
	Snapshot(ctx context.Context, orgID primitive.ObjectID) (analytics.Snapshot, error)
}

// OrgNamer resolves an organization's display name.
type OrgNamer interface {
	Name(ctx context.Context, id primitive.ObjectID) (string, error)
}

type Handler struct {
	Conversations *conversationstore.Store
	Completer     assistant.Completer // nil when the assistant is off
	Source        SnapshotSource
	Orgs          OrgNamer
	Policy        analytics.TimestampPolicy
	Limiter       *ratelimit.Limiter // per-user send budget; nil disables
	Now           func() time.Time
	ErrLog        *uierrors.ErrorLogger
	Log           *zap.Logger

	// inflight holds the conversations that have a send in progress.
	inflight sync.Map
}

func NewHandler(db *mongo.Database, completer assistant.Completer, policy analytics.TimestampPolicy, limiter *ratelimit.Limiter, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Conversations: conversationstore.New(db),
		Completer:     completer,
		Source:        analyticsdata.NewLoader(db),
		Orgs:          organizationstore.New(db),
		Policy:        policy,
		Limiter:       limiter,
		Now:           time.Now,
		ErrLog:        errLog,
		Log:           logger,
	}
}

// begin claims the conversation for one send. The returned func releases it.
func (h *Handler) begin(id primitive.ObjectID) (func(), bool) {
	if _, busy := h.inflight.LoadOrStore(id, struct{}{}); busy {
		return nil, false
	}
	return func() { h.inflight.Delete(id) }, true
}

func (h *Handler) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

func (h *Handler) conversationLookupError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, conversationstore.ErrNotFound) {
		h.ErrLog.LogNotFound(w, r, "conversation lookup", err, "Conversation introuvable.", "")
		return
	}
	h.ErrLog.LogServerError(w, r, "conversation lookup", err, "Une erreur serveur est survenue.", "")
}
