// internal/app/features/login/handler.go
package login

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - LoginID / loginID / login_id: The human-readable string users type to log in

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/incubahub/internal/app/features/errors"
	userstore "github.com/dalemusser/incubahub/internal/app/store/users"
	"github.com/dalemusser/incubahub/internal/app/system/auth"
	"github.com/dalemusser/incubahub/internal/app/system/ratelimit"
	"github.com/dalemusser/incubahub/internal/app/system/timeouts"
	"github.com/dalemusser/incubahub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DefaultLanding is where users go after signing in without a return URL.
// The root handler forwards them to the page for their role.
const DefaultLanding = "/"

type Handler struct {
	Users      *userstore.Store
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Limiter    *ratelimit.LoginLimiter // nil disables throttling
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      userstore.New(db),
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Limiter:    ratelimit.NewLoginLimiter(),
	}
}

type loginFormData struct {
	Title      string
	IsLoggedIn bool
	UserName   string
	Error      string
	LoginID    string
	ReturnURL  string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, DefaultLanding, http.StatusSeeOther)
		return
	}
	templates.Render(w, r, "login", loginFormData{
		Title:     "Connexion",
		ReturnURL: urlutil.SafeReturn(query.Get(r, "return"), "", DefaultLanding),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Formulaire invalide.", "/login")
		return
	}

	loginID := strings.TrimSpace(r.FormValue("login_id"))
	password := r.FormValue("password")
	ret := urlutil.SafeReturn(r.FormValue("return"), "", DefaultLanding)
	if loginID == "" || password == "" {
		h.renderFormWithError(w, r, http.StatusBadRequest, "Saisissez votre identifiant et votre mot de passe.", loginID, ret)
		return
	}

	if h.Limiter != nil {
		if ok, reason := h.Limiter.Check(r, loginID); !ok {
			h.Log.Warn("login throttled", zap.String("login_id", loginID), zap.String("ip", ratelimit.ClientIP(r)))
			h.renderFormWithError(w, r, http.StatusTooManyRequests, reason, loginID, ret)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.Authenticate(ctx, loginID, password)
	switch {
	case errors.Is(err, userstore.ErrBadCredentials):
		h.Log.Info("login failed", zap.String("login_id", loginID))
		h.renderFormWithError(w, r, http.StatusUnauthorized, "Identifiant ou mot de passe incorrect.", loginID, ret)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "DB find user", err, "Une erreur serveur est survenue.", "/login")
		return
	}

	if err := h.SessionMgr.SignIn(w, r, sessionUserOf(u)); err != nil {
		h.ErrLog.LogServerError(w, r, "save session", err, "Une erreur serveur est survenue.", "/login")
		return
	}
	if h.Limiter != nil {
		h.Limiter.Succeeded(loginID)
	}
	h.Log.Info("user signed in", zap.String("user_id", u.ID.Hex()), zap.String("role", u.Role))

	http.Redirect(w, r, ret, http.StatusSeeOther)
}

func sessionUserOf(u *models.User) auth.SessionUser {
	su := auth.SessionUser{
		ID:      u.ID.Hex(),
		Name:    u.FullName,
		LoginID: u.LoginID,
		Role:    u.Role,
	}
	if u.OrganizationID != nil {
		su.OrganizationID = u.OrganizationID.Hex()
	}
	return su
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, status int, msg, loginID, ret string) {
	w.WriteHeader(status)
	templates.Render(w, r, "login", loginFormData{
		Title:     "Connexion",
		Error:     msg,
		LoginID:   loginID,
		ReturnURL: ret,
	})
}
