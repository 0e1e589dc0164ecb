// internal/app/features/home/handler.go
package home

import (
	"net/http"

	"github.com/dalemusser/incubahub/internal/app/system/authz"
	"github.com/dalemusser/incubahub/internal/domain/models"
	"go.uber.org/zap"
)

// Landing pages per audience.
const (
	StaffLanding    = "/analytics"
	AdherentLanding = "/assistant/conversations"
	SignedOutTarget = "/login"
)

// Handler sends "/" to the right starting page.
type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, Landing(r), http.StatusSeeOther)
}

// Landing is where the current visitor starts.
func Landing(r *http.Request) string {
	role, _, _, ok := authz.UserCtx(r)
	if !ok {
		return SignedOutTarget
	}
	if role == models.RoleAdherent {
		return AdherentLanding
	}
	return StaffLanding
}
