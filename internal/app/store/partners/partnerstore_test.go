package partnerstore_test

import (
	"errors"
	"testing"

	partnerstore "github.com/dalemusser/incubahub/internal/app/store/partners"
	"github.com/dalemusser/incubahub/internal/domain/models"
	"github.com/dalemusser/incubahub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Partners(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := partnerstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	orgID := primitive.NewObjectID()

	bank, err := store.Create(ctx, models.Partner{OrganizationID: orgID, Name: "Banque Régionale", Type: "investor", Contribution: 50000})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if bank.Status != models.StatusActive {
		t.Errorf("default status: got %q", bank.Status)
	}
	if _, err := store.Create(ctx, models.Partner{OrganizationID: orgID, Name: "Atelier Codeurs", Type: "school"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, models.Partner{OrganizationID: orgID, Name: "X", Rating: 7}); err == nil {
		t.Error("expected rating error")
	}

	if err := store.Rate(ctx, orgID, bank.ID, 4); err != nil {
		t.Fatalf("Rate failed: %v", err)
	}
	if err := store.Rate(ctx, primitive.NewObjectID(), bank.ID, 4); !errors.Is(err, partnerstore.ErrNotFound) {
		t.Errorf("Rate other org: got %v, want ErrNotFound", err)
	}

	list, err := store.ListByOrg(ctx, orgID)
	if err != nil {
		t.Fatalf("ListByOrg failed: %v", err)
	}
	if len(list) != 2 || list[1].Rating != 4 {
		t.Errorf("ListByOrg: got %+v", list)
	}
}
