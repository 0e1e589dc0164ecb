package authz_test

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/incubahub/internal/app/system/auth"
	"github.com/dalemusser/incubahub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testUserID() string {
	return primitive.NewObjectID().Hex()
}

func TestUserCtx_NoUser(t *testing.T) {
	role, name, id, ok := authz.UserCtx(httptest.NewRequest("GET", "/", nil))
	if ok || role != "visitor" || name != "" || id != primitive.NilObjectID {
		t.Errorf("UserCtx: got (%q, %q, %v, %v), want visitor defaults", role, name, id, ok)
	}
}

func TestUserCtx_MalformedIDFailsClosed(t *testing.T) {
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{ID: "nope", Role: "admin"})
	if _, _, _, ok := authz.UserCtx(req); ok {
		t.Error("expected ok=false for malformed user ID")
	}
	if authz.IsAdmin(req) {
		t.Error("malformed ID must not pass role checks")
	}
}

func TestHasAnyRole_CaseInsensitive(t *testing.T) {
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{ID: testUserID(), Role: "Manager"})
	if !authz.HasAnyRole(req, "admin", "manager") {
		t.Error("expected manager to match")
	}
	if !authz.CanManage(req) {
		t.Error("expected manager to manage")
	}
	if authz.IsAdmin(req) {
		t.Error("manager is not admin")
	}
}

func TestOrgScope(t *testing.T) {
	own := primitive.NewObjectID()
	other := primitive.NewObjectID()

	manager := &auth.SessionUser{ID: testUserID(), Role: "manager", OrganizationID: own.Hex()}
	admin := &auth.SessionUser{ID: testUserID(), Role: "admin"}

	cases := []struct {
		name    string
		user    *auth.SessionUser
		target  string
		want    primitive.ObjectID
		wantErr error
	}{
		{"manager default", manager, "/analytics", own, nil},
		{"manager names own", manager, "/analytics?org=" + own.Hex(), own, nil},
		{"manager names other", manager, "/analytics?org=" + other.Hex(), primitive.NilObjectID, authz.ErrOrgForbidden},
		{"admin picks", admin, "/analytics?org=" + other.Hex(), other, nil},
		{"admin without org", admin, "/analytics", primitive.NilObjectID, authz.ErrNoOrganization},
		{"bad hex", admin, "/analytics?org=xyz", primitive.NilObjectID, authz.ErrNoOrganization},
		{"signed out", nil, "/analytics", primitive.NilObjectID, authz.ErrNoUser},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.target, nil)
			if tc.user != nil {
				req = auth.WithTestUser(req, tc.user)
			}
			got, err := authz.OrgScope(req)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err: got %v, want %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("org: got %v, want %v", got, tc.want)
			}
		})
	}
}
