// internal/app/system/authz/authz.go
package authz

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/incubahub/internal/app/system/auth"
	"github.com/dalemusser/incubahub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Errors returned by OrgScope.
var (
	ErrNoUser         = errors.New("not signed in")
	ErrNoOrganization = errors.New("no organization selected")
	ErrOrgForbidden   = errors.New("organization not accessible")
)

// UserCtx returns the user's role (lowercased), name, ObjectID and a found
// flag. A missing user or a malformed ID yields "visitor" and ok=false.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Corrupt session: fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// HasAnyRole reports whether the signed-in user has one of roles.
func HasAnyRole(r *http.Request, roles ...string) bool {
	role, _, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, want := range roles {
		if role == strings.ToLower(strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user is a platform admin.
func IsAdmin(r *http.Request) bool { return HasAnyRole(r, models.RoleAdmin) }

// CanManage reports whether the user may change organization data
// (invitations, mentor assignment).
func CanManage(r *http.Request) bool {
	return HasAnyRole(r, models.RoleAdmin, models.RoleManager)
}

// UserOrgID returns the user's own organization, or NilObjectID.
func UserOrgID(r *http.Request) primitive.ObjectID {
	user, ok := auth.CurrentUser(r)
	if !ok || user.OrganizationID == "" {
		return primitive.NilObjectID
	}
	oid, err := primitive.ObjectIDFromHex(user.OrganizationID)
	if err != nil {
		return primitive.NilObjectID
	}
	return oid
}

// CanAccessOrg reports whether the user may read orgID. Admins reach every
// organization; everyone else only their own.
func CanAccessOrg(r *http.Request, orgID primitive.ObjectID) bool {
	if _, _, _, ok := UserCtx(r); !ok {
		return false
	}
	if IsAdmin(r) {
		return true
	}
	own := UserOrgID(r)
	return !own.IsZero() && own == orgID
}

// OrgScope resolves the organization a request operates on. Admins pick it
// with ?org=<hex>; other roles always get their own organization and may
// only name it explicitly.
func OrgScope(r *http.Request) (primitive.ObjectID, error) {
	if _, _, _, ok := UserCtx(r); !ok {
		return primitive.NilObjectID, ErrNoUser
	}

	if raw := strings.TrimSpace(query.Get(r, "org")); raw != "" {
		oid, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return primitive.NilObjectID, ErrNoOrganization
		}
		if !CanAccessOrg(r, oid) {
			return primitive.NilObjectID, ErrOrgForbidden
		}
		return oid, nil
	}

	own := UserOrgID(r)
	if own.IsZero() {
		return primitive.NilObjectID, ErrNoOrganization
	}
	return own, nil
}
