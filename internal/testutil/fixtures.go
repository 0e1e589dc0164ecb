package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/incubahub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("failed to insert into %s: %v", coll, err)
	}
}

// CreateOrganization creates an active organization with the given name.
func (f *Fixtures) CreateOrganization(ctx context.Context, name string) models.Organization {
	f.t.Helper()
	now := time.Now().UTC()
	org := models.Organization{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Status:    models.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "organizations", org)
	return org
}

// CreateUser creates an active user whose password is "password".
// Admins pass a nil orgID.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, loginID, role string, orgID *primitive.ObjectID) models.User {
	f.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("hash password: %v", err)
	}
	now := time.Now().UTC()
	u := models.User{
		ID:             primitive.NewObjectID(),
		OrganizationID: orgID,
		FullName:       fullName,
		FullNameCI:     text.Fold(fullName),
		LoginID:        loginID,
		LoginIDCI:      text.Fold(loginID),
		PasswordHash:   string(hash),
		Role:           role,
		Status:         models.StatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	f.insert(ctx, "users", u)
	return u
}

// CreateProject creates a project created at the given time.
func (f *Fixtures) CreateProject(ctx context.Context, orgID primitive.ObjectID, name, status string, createdAt time.Time) models.Project {
	f.t.Helper()
	p := models.Project{
		ID:             primitive.NewObjectID(),
		OrganizationID: orgID,
		Name:           name,
		NameCI:         text.Fold(name),
		Status:         status,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}
	f.insert(ctx, "projects", p)
	return p
}

// CreateAdherent creates an adherent who joined at the given time.
func (f *Fixtures) CreateAdherent(ctx context.Context, orgID primitive.ObjectID, first, last string, joinedAt time.Time) models.Adherent {
	f.t.Helper()
	a := models.Adherent{
		ID:             primitive.NewObjectID(),
		OrganizationID: orgID,
		FirstName:      first,
		LastName:       last,
		Role:           "entrepreneur",
		JoinedAt:       joinedAt,
		CreatedAt:      joinedAt,
		UpdatedAt:      joinedAt,
	}
	a.FullNameCI = text.Fold(a.FullName())
	f.insert(ctx, "adherents", a)
	return a
}

// CreateMentor creates an active mentor.
func (f *Fixtures) CreateMentor(ctx context.Context, orgID primitive.ObjectID, fullName string) models.Mentor {
	f.t.Helper()
	now := time.Now().UTC()
	m := models.Mentor{
		ID:             primitive.NewObjectID(),
		OrganizationID: orgID,
		FullName:       fullName,
		FullNameCI:     text.Fold(fullName),
		Status:         models.StatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	f.insert(ctx, "mentors", m)
	return m
}

// CreateDeliverable creates a deliverable of the given kind for a project.
func (f *Fixtures) CreateDeliverable(ctx context.Context, orgID, projectID primitive.ObjectID, kind string, createdAt time.Time) models.Deliverable {
	f.t.Helper()
	d := models.Deliverable{
		ID:             primitive.NewObjectID(),
		OrganizationID: orgID,
		ProjectID:      projectID,
		Kind:           kind,
		Title:          kind,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}
	f.insert(ctx, "deliverables", d)
	return d
}
