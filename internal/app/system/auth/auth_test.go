package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/incubahub/internal/app/system/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	cookieName = "incubahub-auth-test"
	orgHex     = "65f0a1b2c3d4e5f6a7b8c9d1"
)

func newSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager("auth-test-key-0123456789abcdefghij", cookieName, "", time.Hour, false, zap.NewNop())
	require.NoError(t, err)
	return sm
}

func ok() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
}

func as(r *http.Request, role string) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:             "65f0a1b2c3d4e5f6a7b8c9d0",
		Name:           "Claire Petit",
		LoginID:        "claire@example.com",
		Role:           role,
		OrganizationID: orgHex,
	})
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body["error"]
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	_, err := auth.NewSessionManager("", cookieName, "", time.Hour, false, zap.NewNop())
	assert.Error(t, err)
}

func TestRequireSignedIn(t *testing.T) {
	sm := newSessionManager(t)
	h := sm.RequireSignedIn(ok())

	t.Run("browser is sent to login with return", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/analytics?range=7days", nil)
		req.Header.Set("Accept", "text/html,application/xhtml+xml")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login?return=%2Fanalytics%3Frange%3D7days", rec.Header().Get("Location"))
	})

	t.Run("api gets 401 json", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/analytics/metrics.json", nil)
		req.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Equal(t, "Connexion requise.", errorBody(t, rec))
	})

	t.Run("signed in passes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, as(httptest.NewRequest("GET", "/analytics", nil), "adherent"))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	sm := newSessionManager(t)
	h := sm.RequireRole("Admin", " manager ")(ok())

	tests := []struct {
		name     string
		role     string // empty means signed out
		accept   string
		want     int
		location string
	}{
		{"admin", "admin", "", http.StatusTeapot, ""},
		{"manager", "manager", "", http.StatusTeapot, ""},
		{"role case ignored", "MANAGER", "", http.StatusTeapot, ""},
		{"mentor browser", "mentor", "text/html", http.StatusSeeOther, "/forbidden"},
		{"adherent api", "adherent", "application/json", http.StatusForbidden, ""},
		{"signed out api", "", "", http.StatusUnauthorized, ""},
		{"signed out browser", "", "text/html", http.StatusSeeOther, "/login?return=%2Finvitations"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/invitations", nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			if tt.role != "" {
				req = as(req, tt.role)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get("Location"))
		})
	}
}

func TestCurrentUser(t *testing.T) {
	_, found := auth.CurrentUser(httptest.NewRequest("GET", "/", nil))
	assert.False(t, found)

	u, found := auth.CurrentUser(as(httptest.NewRequest("GET", "/", nil), "mentor"))
	require.True(t, found)
	assert.Equal(t, "mentor", u.Role)
	assert.Equal(t, orgHex, u.OrganizationID)
}

func TestSignInThenLoadSessionUser(t *testing.T) {
	sm := newSessionManager(t)

	signIn := httptest.NewRecorder()
	want := auth.SessionUser{
		ID:             "65f0a1b2c3d4e5f6a7b8c9d0",
		Name:           "Léa Martin",
		LoginID:        "lea@example.com",
		Role:           "adherent",
		OrganizationID: orgHex,
	}
	require.NoError(t, sm.SignIn(signIn, httptest.NewRequest("POST", "/login", nil), want))
	cookies := signIn.Result().Cookies()
	require.NotEmpty(t, cookies)

	var got *auth.SessionUser
	h := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	}))
	req := httptest.NewRequest("GET", "/assistant", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestLoadSessionUser_UnreadableCookieIsSignedOut(t *testing.T) {
	sm := newSessionManager(t)

	called := false
	h := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		_, found := auth.CurrentUser(r)
		assert.False(t, found)
	}))
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "not-a-signed-value"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, called)
}

func TestSignOut_ExpiresCookie(t *testing.T) {
	sm := newSessionManager(t)

	rec := httptest.NewRecorder()
	require.NoError(t, sm.SignOut(rec, httptest.NewRequest("POST", "/logout", nil)))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, cookieName, cookies[0].Name)
	assert.Negative(t, cookies[0].MaxAge)
}
