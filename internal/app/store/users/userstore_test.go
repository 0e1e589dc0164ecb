package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/dalemusser/incubahub/internal/app/store/users"
	"github.com/dalemusser/incubahub/internal/app/system/indexes"
	"github.com/dalemusser/incubahub/internal/domain/models"
	"github.com/dalemusser/incubahub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestStore_Create_Admin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, models.User{
		FullName: "  Ada   Admin ",
		LoginID:  "Ada@Example.COM",
		Role:     "ADMIN",
	}, "s3cret")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if u.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if u.FullName != "Ada Admin" {
		t.Errorf("FullName: got %q, want %q", u.FullName, "Ada Admin")
	}
	if u.LoginID != "ada@example.com" {
		t.Errorf("LoginID: got %q, want %q", u.LoginID, "ada@example.com")
	}
	if u.Role != models.RoleAdmin {
		t.Errorf("Role: got %q, want admin", u.Role)
	}
	if u.Status != models.StatusActive {
		t.Errorf("Status: got %q, want active", u.Status)
	}
	if u.PasswordHash == "" || u.PasswordHash == "s3cret" {
		t.Error("expected password to be hashed")
	}
}

func TestStore_Create_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	orgID := primitive.NewObjectID()

	tests := []struct {
		name     string
		user     models.User
		password string
	}{
		{"manager without org", models.User{LoginID: "m@x.io", Role: models.RoleManager}, "pw"},
		{"bad role", models.User{LoginID: "r@x.io", Role: "leader", OrganizationID: &orgID}, "pw"},
		{"bad status", models.User{LoginID: "s@x.io", Role: models.RoleMentor, Status: "gone", OrganizationID: &orgID}, "pw"},
		{"no login", models.User{Role: models.RoleAdmin}, "pw"},
		{"no password", models.User{LoginID: "p@x.io", Role: models.RoleAdmin}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.Create(ctx, tt.user, tt.password); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestStore_Create_DuplicateLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	store := userstore.New(db)

	if _, err := store.Create(ctx, models.User{LoginID: "dup@x.io", Role: models.RoleAdmin}, "pw"); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, models.User{LoginID: "DUP@x.io", Role: models.RoleAdmin}, "pw")
	if !errors.Is(err, userstore.ErrDuplicateLogin) {
		t.Errorf("expected ErrDuplicateLogin, got %v", err)
	}
}

func TestStore_Authenticate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	orgID := primitive.NewObjectID()

	created, err := store.Create(ctx, models.User{
		FullName:       "Marie Manager",
		LoginID:        "marie@incubateur.fr",
		Role:           models.RoleManager,
		OrganizationID: &orgID,
	}, "correct horse")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	u, err := store.Authenticate(ctx, " MARIE@incubateur.fr", "correct horse")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if u.ID != created.ID {
		t.Errorf("ID: got %v, want %v", u.ID, created.ID)
	}

	if _, err := store.Authenticate(ctx, "marie@incubateur.fr", "wrong"); !errors.Is(err, userstore.ErrBadCredentials) {
		t.Errorf("wrong password: got %v, want ErrBadCredentials", err)
	}
	if _, err := store.Authenticate(ctx, "nobody@incubateur.fr", "x"); !errors.Is(err, userstore.ErrBadCredentials) {
		t.Errorf("unknown login: got %v, want ErrBadCredentials", err)
	}

	if err := store.SetStatus(ctx, created.ID, models.StatusDisabled); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if _, err := store.Authenticate(ctx, "marie@incubateur.fr", "correct horse"); !errors.Is(err, userstore.ErrBadCredentials) {
		t.Errorf("disabled: got %v, want ErrBadCredentials", err)
	}
}

func TestStore_SetPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, models.User{LoginID: "pw@x.io", Role: models.RoleAdmin}, "old")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.SetPassword(ctx, u.ID, "new"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}
	if _, err := store.Authenticate(ctx, "pw@x.io", "new"); err != nil {
		t.Errorf("Authenticate with new password: %v", err)
	}
	if err := store.SetPassword(ctx, primitive.NewObjectID(), "x"); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("SetPassword missing: got %v, want ErrNotFound", err)
	}

	n, err := store.CountByRole(ctx, models.RoleAdmin)
	if err != nil || n != 1 {
		t.Errorf("CountByRole: got %d, %v; want 1", n, err)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByID(ctx, primitive.NewObjectID()); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_SetRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	orgID := primitive.NewObjectID()

	u, err := store.Create(ctx, models.User{
		FullName:       "Marc Manager",
		LoginID:        "marc@example.com",
		Role:           models.RoleManager,
		OrganizationID: &orgID,
	}, "pw")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.SetRole(ctx, u.ID, "Admin"); err != nil {
		t.Fatalf("SetRole failed: %v", err)
	}
	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Role != models.RoleAdmin {
		t.Errorf("Role: got %q, want admin", got.Role)
	}

	if err := store.SetRole(ctx, u.ID, "owner"); err == nil {
		t.Error("expected unknown role to be rejected")
	}
	if err := store.SetRole(ctx, primitive.NewObjectID(), models.RoleAdmin); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
