package mentors_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	uierrors "github.com/dalemusser/incubahub/internal/app/features/errors"
	"github.com/dalemusser/incubahub/internal/app/features/mentors"
	adherentstore "github.com/dalemusser/incubahub/internal/app/store/adherents"
	"github.com/dalemusser/incubahub/internal/domain/models"
	"github.com/dalemusser/incubahub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type env struct {
	h   *mentors.Handler
	fx  *testutil.Fixtures
	org models.Organization
}

func newEnv(t *testing.T) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := zap.NewNop()
	fx := testutil.NewFixtures(t, db)
	return env{
		h:   mentors.NewHandler(db, uierrors.NewErrorLogger(logger), logger),
		fx:  fx,
		org: fx.CreateOrganization(ctx, "Incubateur Sud"),
	}
}

func (e env) post(action string, mentorID primitive.ObjectID, adherentID string, user testutil.TestUser) *testutil.ResponseRecorder {
	req := testutil.NewJSONRequest("POST", "/mentors/"+mentorID.Hex()+"/"+action, `{"adherent_id":"`+adherentID+`"}`, user)
	req = testutil.WithChiURLParam(req, "mentorID", mentorID.Hex())
	rec := testutil.NewRecorder()
	if action == "assign" {
		e.h.HandleAssign(rec, req)
	} else {
		e.h.HandleUnassign(rec, req)
	}
	return rec
}

func TestAssignThenList(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	m := e.fx.CreateMentor(ctx, e.org.ID, "Claire Petit")
	other := e.fx.CreateMentor(ctx, e.org.ID, "Paul Roux")
	a := e.fx.CreateAdherent(ctx, e.org.ID, "Léa", "Martin", time.Now())
	b := e.fx.CreateAdherent(ctx, e.org.ID, "Hugo", "Blanc", time.Now())

	manager := testutil.ManagerUser(e.org.ID)
	require.Equal(t, http.StatusOK, e.post("assign", m.ID, a.ID.Hex(), manager).Code)
	require.Equal(t, http.StatusOK, e.post("assign", m.ID, b.ID.Hex(), manager).Code)

	got, err := adherentstore.New(e.fx.DB()).GetByID(ctx, e.org.ID, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got.MentorID)
	assert.Equal(t, m.ID, *got.MentorID)

	req := testutil.NewJSONRequest("GET", "/mentors", "", testutil.MentorUser(e.org.ID))
	rec := testutil.NewRecorder()
	e.h.ServeList(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Mentors []struct {
			ID            string `json:"id"`
			AdherentCount int    `json:"adherent_count"`
		} `json:"mentors"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	counts := map[string]int{}
	for _, row := range body.Mentors {
		counts[row.ID] = row.AdherentCount
	}
	assert.Equal(t, 2, counts[m.ID.Hex()])
	assert.Equal(t, 0, counts[other.ID.Hex()])
}

func TestUnassign(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	m := e.fx.CreateMentor(ctx, e.org.ID, "Claire Petit")
	other := e.fx.CreateMentor(ctx, e.org.ID, "Paul Roux")
	a := e.fx.CreateAdherent(ctx, e.org.ID, "Léa", "Martin", time.Now())
	manager := testutil.ManagerUser(e.org.ID)

	require.Equal(t, http.StatusOK, e.post("assign", m.ID, a.ID.Hex(), manager).Code)
	assert.Equal(t, http.StatusConflict, e.post("unassign", other.ID, a.ID.Hex(), manager).Code)
	require.Equal(t, http.StatusOK, e.post("unassign", m.ID, a.ID.Hex(), manager).Code)

	got, err := adherentstore.New(e.fx.DB()).GetByID(ctx, e.org.ID, a.ID)
	require.NoError(t, err)
	assert.Nil(t, got.MentorID)
}

func TestAssignAcrossOrganizationsRejected(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	otherOrg := e.fx.CreateOrganization(ctx, "Incubateur Est")
	m := e.fx.CreateMentor(ctx, e.org.ID, "Claire Petit")
	foreign := e.fx.CreateAdherent(ctx, otherOrg.ID, "Nina", "Lopez", time.Now())

	rec := e.post("assign", m.ID, foreign.ID.Hex(), testutil.ManagerUser(e.org.ID))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	got, err := adherentstore.New(e.fx.DB()).GetByID(ctx, otherOrg.ID, foreign.ID)
	require.NoError(t, err)
	assert.Nil(t, got.MentorID)
}

func TestAssignBadAdherentID(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	m := e.fx.CreateMentor(ctx, e.org.ID, "Claire Petit")
	rec := e.post("assign", m.ID, "nope", testutil.ManagerUser(e.org.ID))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
