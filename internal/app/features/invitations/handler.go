// internal/app/features/invitations/handler.go
package invitations

import (
	"net/http"
	"strings"
	"time"

	uierrors "github.com/dalemusser/incubahub/internal/app/features/errors"
	adherentstore "github.com/dalemusser/incubahub/internal/app/store/adherents"
	invitationstore "github.com/dalemusser/incubahub/internal/app/store/invitations"
	organizationstore "github.com/dalemusser/incubahub/internal/app/store/organizations"
	"github.com/dalemusser/incubahub/internal/app/system/mailer"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB          *mongo.Database
	Invitations *invitationstore.Store
	Adherents   *adherentstore.Store
	Orgs        *organizationstore.Store
	Mail        mailer.Sender
	BaseURL     string
	Now         func() time.Time
	NewID       func() primitive.ObjectID // nil uses primitive.NewObjectID
	ErrLog      *uierrors.ErrorLogger
	Log         *zap.Logger
}

func NewHandler(db *mongo.Database, expiry time.Duration, mail mailer.Sender, baseURL string, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:          db,
		Invitations: invitationstore.New(db, expiry),
		Adherents:   adherentstore.New(db),
		Orgs:        organizationstore.New(db),
		Mail:        mail,
		BaseURL:     strings.TrimRight(baseURL, "/"),
		Now:         time.Now,
		ErrLog:      errLog,
		Log:         logger,
	}
}

func (h *Handler) now() time.Time {
	if h.Now == nil {
		return time.Now().UTC()
	}
	return h.Now().UTC()
}

func (h *Handler) newID() primitive.ObjectID {
	if h.NewID == nil {
		return primitive.NewObjectID()
	}
	return h.NewID()
}

// acceptURL is the link sent to the invitee.
func (h *Handler) acceptURL(token string) string {
	return h.BaseURL + "/invitations/" + token + "/accept"
}

// forceJSON marks the request so error paths answer in JSON.
func forceJSON(r *http.Request) {
	r.Header.Set("Accept", "application/json")
}
