package home_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/incubahub/internal/app/features/home"
	"github.com/dalemusser/incubahub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func serve(r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	home.NewHandler(zap.NewNop()).ServeRoot(rec, r)
	return rec
}

func TestServeRoot_Redirects(t *testing.T) {
	orgID := primitive.NewObjectID()
	tests := []struct {
		name string
		req  *http.Request
		want string
	}{
		{"signed out", httptest.NewRequest("GET", "/", nil), home.SignedOutTarget},
		{"admin", testutil.NewAuthenticatedRequest("GET", "/", testutil.AdminUser()), home.StaffLanding},
		{"manager", testutil.NewAuthenticatedRequest("GET", "/", testutil.ManagerUser(orgID)), home.StaffLanding},
		{"mentor", testutil.NewAuthenticatedRequest("GET", "/", testutil.MentorUser(orgID)), home.StaffLanding},
		{"adherent", testutil.NewAuthenticatedRequest("GET", "/", testutil.AdherentUser(orgID)), home.AdherentLanding},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(tt.req)
			if rec.Code != http.StatusSeeOther {
				t.Errorf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
			}
			if got := rec.Header().Get("Location"); got != tt.want {
				t.Errorf("Location: got %q, want %q", got, tt.want)
			}
		})
	}
}
