package mentorstore_test

import (
	"errors"
	"fmt"
	"testing"

	mentorstore "github.com/dalemusser/incubahub/internal/app/store/mentors"
	"github.com/dalemusser/incubahub/internal/app/system/paging"
	"github.com/dalemusser/incubahub/internal/domain/models"
	"github.com/dalemusser/incubahub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Mentors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := mentorstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	orgID := primitive.NewObjectID()

	z, err := store.Create(ctx, models.Mentor{OrganizationID: orgID, FullName: "Zoé Laurent", Expertise: "finance"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if z.Status != models.StatusActive {
		t.Errorf("default status: got %q, want active", z.Status)
	}
	if _, err := store.Create(ctx, models.Mentor{OrganizationID: orgID, FullName: "Alain Roux"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, models.Mentor{OrganizationID: orgID}); err == nil {
		t.Error("expected error for missing name")
	}

	list, err := store.ListByOrg(ctx, orgID)
	if err != nil {
		t.Fatalf("ListByOrg failed: %v", err)
	}
	if len(list) != 2 || list[0].FullName != "Alain Roux" {
		t.Errorf("ListByOrg: got %+v", list)
	}

	if err := store.SetStatus(ctx, orgID, z.ID, " Inactive "); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	got, err := store.GetByID(ctx, orgID, z.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != "inactive" {
		t.Errorf("Status: got %q, want inactive", got.Status)
	}

	if _, err := store.GetByID(ctx, primitive.NewObjectID(), z.ID); !errors.Is(err, mentorstore.ErrNotFound) {
		t.Errorf("GetByID other org: got %v, want ErrNotFound", err)
	}
}

func TestStore_ListPage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := mentorstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	orgID := primitive.NewObjectID()

	total := paging.PageSize + 5
	for i := 0; i < total; i++ {
		if _, err := store.Create(ctx, models.Mentor{OrganizationID: orgID, FullName: fmt.Sprintf("Mentor %03d", i)}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	if _, err := store.Create(ctx, models.Mentor{OrganizationID: primitive.NewObjectID(), FullName: "Ailleurs"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	first, err := store.ListPage(ctx, orgID, paging.ConfigureKeyset("", ""))
	if err != nil {
		t.Fatalf("ListPage failed: %v", err)
	}
	if len(first) != paging.PageSize+1 {
		t.Fatalf("first page: got %d rows, want %d", len(first), paging.PageSize+1)
	}
	res := paging.TrimPage(&first, "", "")
	if !res.HasNext || res.HasPrev {
		t.Errorf("first page result: %+v", res)
	}

	_, next := paging.BuildCursors(first,
		func(m models.Mentor) string { return m.FullNameCI },
		func(m models.Mentor) primitive.ObjectID { return m.ID })
	second, err := store.ListPage(ctx, orgID, paging.ConfigureKeyset("", next))
	if err != nil {
		t.Fatalf("ListPage failed: %v", err)
	}
	if len(second) != total-paging.PageSize {
		t.Fatalf("second page: got %d rows, want %d", len(second), total-paging.PageSize)
	}
	if second[0].FullName != fmt.Sprintf("Mentor %03d", paging.PageSize) {
		t.Errorf("second page starts at %q", second[0].FullName)
	}
}
