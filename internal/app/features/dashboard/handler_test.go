package dashboard_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/incubahub/internal/app/features/dashboard"
	uierrors "github.com/dalemusser/incubahub/internal/app/features/errors"
	organizationstore "github.com/dalemusser/incubahub/internal/app/store/organizations"
	"github.com/dalemusser/incubahub/internal/app/system/analytics"
	"github.com/dalemusser/incubahub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

type fakeSource struct {
	snap  analytics.Snapshot
	err   error
	calls int
}

func (f *fakeSource) Snapshot(ctx context.Context, orgID primitive.ObjectID) (analytics.Snapshot, error) {
	f.calls++
	return f.snap, f.err
}

type fakeNamer map[primitive.ObjectID]string

func (f fakeNamer) Name(ctx context.Context, id primitive.ObjectID) (string, error) {
	name, ok := f[id]
	if !ok {
		return "", organizationstore.ErrNotFound
	}
	return name, nil
}

func daysAgo(n int) analytics.Stamp {
	return analytics.StampOf(fixedNow.AddDate(0, 0, -n))
}

func sampleSnapshot() analytics.Snapshot {
	return analytics.Snapshot{
		Projects: []analytics.Project{
			{ID: "p1", Status: analytics.StatusCompleted, Created: daysAgo(2)},
			{ID: "p2", Status: analytics.StatusActive, Created: daysAgo(3)},
			{ID: "p3", Status: analytics.StatusActive, Created: daysAgo(60)},
		},
	}
}

func newHandler(src *fakeSource, orgID primitive.ObjectID) *dashboard.Handler {
	logger := zap.NewNop()
	return &dashboard.Handler{
		Source: src,
		Orgs:   fakeNamer{orgID: "Incubateur"},
		Charts: analytics.DefaultChartConfig(),
		Policy: analytics.PolicyWarn,
		Now:    func() time.Time { return fixedNow },
		ErrLog: uierrors.NewErrorLogger(logger),
		Log:    logger,
	}
}

type metricsBody struct {
	Metadata analytics.Metadata  `json:"metadata"`
	Metrics  analytics.Metrics   `json:"metrics"`
	Charts   analytics.ChartData `json:"chartData"`
}

func TestServeMetricsJSON_WindowedAggregate(t *testing.T) {
	orgID := primitive.NewObjectID()
	src := &fakeSource{snap: sampleSnapshot()}
	h := newHandler(src, orgID)

	req := testutil.NewAuthenticatedRequest("GET", "/analytics/metrics.json?range=7days", testutil.ManagerUser(orgID))
	rec := testutil.NewRecorder()
	h.ServeMetricsJSON(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body metricsBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

	assert.Equal(t, 2, body.Metrics.TotalProjects)
	assert.Equal(t, 1, body.Metrics.CompletedProjects)
	assert.InDelta(t, 50.0, body.Metrics.ProjectSuccessRate, 1e-9)
	assert.Equal(t, "Incubateur", body.Metadata.OrganizationName)
	assert.Equal(t, orgID.Hex(), body.Metadata.OrganizationID)
	assert.Equal(t, analytics.Range7Days, body.Metadata.TimeRange)
	assert.Equal(t, "Test Manager", body.Metadata.GeneratedBy)
	assert.NotEmpty(t, body.Charts.Radar)
}

func TestServeMetricsJSON_UnknownRangeUsesTwelveMonths(t *testing.T) {
	orgID := primitive.NewObjectID()
	h := newHandler(&fakeSource{snap: sampleSnapshot()}, orgID)

	req := testutil.NewAuthenticatedRequest("GET", "/analytics/metrics.json?range=forever", testutil.ManagerUser(orgID))
	rec := testutil.NewRecorder()
	h.ServeMetricsJSON(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body metricsBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, analytics.Range12Months, body.Metadata.TimeRange)
	assert.Equal(t, 3, body.Metrics.TotalProjects)
}

func TestServeMetricsJSON_FetchFailureIsAllOrNothing(t *testing.T) {
	orgID := primitive.NewObjectID()
	h := newHandler(&fakeSource{err: errors.New("connection refused")}, orgID)

	req := testutil.NewAuthenticatedRequest("GET", "/analytics/metrics.json", testutil.ManagerUser(orgID))
	rec := testutil.NewRecorder()
	h.ServeMetricsJSON(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.NotEmpty(t, body["error"])
	assert.NotContains(t, body, "metrics")
}

func TestServeMetricsJSON_OtherOrganizationForbidden(t *testing.T) {
	orgID := primitive.NewObjectID()
	src := &fakeSource{snap: sampleSnapshot()}
	h := newHandler(src, orgID)

	other := primitive.NewObjectID()
	req := testutil.NewAuthenticatedRequest("GET", "/analytics/metrics.json?org="+other.Hex(), testutil.ManagerUser(orgID))
	rec := testutil.NewRecorder()
	h.ServeMetricsJSON(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 0, src.calls, "snapshot must not be fetched for a forbidden org")
}

func TestServeMetricsJSON_AdminPicksOrganization(t *testing.T) {
	orgID := primitive.NewObjectID()
	h := newHandler(&fakeSource{snap: sampleSnapshot()}, orgID)

	req := testutil.NewAuthenticatedRequest("GET", "/analytics/metrics.json?org="+orgID.Hex(), testutil.AdminUser())
	rec := testutil.NewRecorder()
	h.ServeMetricsJSON(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServeMetricsJSON_AdminWithoutOrganization(t *testing.T) {
	h := newHandler(&fakeSource{}, primitive.NewObjectID())

	req := testutil.NewAuthenticatedRequest("GET", "/analytics/metrics.json", testutil.AdminUser())
	rec := testutil.NewRecorder()
	h.ServeMetricsJSON(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServeMetricsJSON_UnknownOrganization(t *testing.T) {
	h := newHandler(&fakeSource{}, primitive.NewObjectID())

	missing := primitive.NewObjectID()
	req := testutil.NewAuthenticatedRequest("GET", "/analytics/metrics.json?org="+missing.Hex(), testutil.AdminUser())
	rec := testutil.NewRecorder()
	h.ServeMetricsJSON(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeExportCSV(t *testing.T) {
	orgID := primitive.NewObjectID()
	h := newHandler(&fakeSource{snap: sampleSnapshot()}, orgID)

	req := testutil.NewAuthenticatedRequest("GET", "/analytics/export.csv?range=1month", testutil.ManagerUser(orgID))
	rec := testutil.NewRecorder()
	h.ServeExportCSV(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	want := "analytics-complete-" + orgID.Hex() + "-2026-03-15.csv"
	assert.Contains(t, rec.Header().Get("Content-Disposition"), want)

	body := rec.Body.String()
	for _, header := range []string{"=== MÉTRIQUES PRINCIPALES ===", "=== PROJETS ===", "=== FINANCES ==="} {
		assert.Equal(t, 1, strings.Count(body, header), header)
	}
	assert.Contains(t, body, `"Taux de réussite","50.0%"`)
}

func TestServeExportJSON(t *testing.T) {
	orgID := primitive.NewObjectID()
	h := newHandler(&fakeSource{snap: sampleSnapshot()}, orgID)

	req := testutil.NewAuthenticatedRequest("GET", "/analytics/export.json?range=7days", testutil.ManagerUser(orgID))
	rec := testutil.NewRecorder()
	h.ServeExportJSON(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	want := "analytics-" + orgID.Hex() + "-2026-03-15.json"
	assert.Contains(t, rec.Header().Get("Content-Disposition"), want)
	assert.Contains(t, rec.Body.String(), "\n  \"metadata\"")

	var doc analytics.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, analytics.ExportVersion, doc.ExportVersion)
	assert.Equal(t, 2, doc.Metrics.TotalProjects)
	assert.Len(t, doc.DomainData, 9)
}

func TestHandleCompute_RawSnapshot(t *testing.T) {
	h := newHandler(&fakeSource{}, primitive.NewObjectID())

	body := `{
		"projects": [
			{"id": "a", "status": "terminé", "created_at": "2026-03-14T09:00:00Z"},
			{"id": "b", "status": "brouillon", "created_at": "2026-03-13"},
			{"id": "c", "status": "in progress", "created_at": "not a date"}
		],
		"deliverables": {"pitch": [{"id": "d1", "project_id": "a", "created_at": "2026-03-14T10:00:00.123Z"}]}
	}`
	req := testutil.NewJSONRequest("POST", "/analytics/compute?range=7days", body, testutil.ManagerUser(primitive.NewObjectID()))
	rec := testutil.NewRecorder()
	h.HandleCompute(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got metricsBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, 2, got.Metrics.TotalProjects)
	assert.Equal(t, 1, got.Metrics.CompletedProjects)
	assert.Equal(t, 1, got.Metrics.DraftProjects)
	assert.Equal(t, 1, got.Metrics.DeliverablesSum)
	require.Len(t, got.Metrics.Warnings, 1)
	assert.Equal(t, "c", got.Metrics.Warnings[0].ID)
}

func TestHandleCompute_BadBody(t *testing.T) {
	h := newHandler(&fakeSource{}, primitive.NewObjectID())

	req := testutil.NewJSONRequest("POST", "/analytics/compute", "{not json", testutil.ManagerUser(primitive.NewObjectID()))
	rec := testutil.NewRecorder()
	h.HandleCompute(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCompute_OverflowingAmountsRejected(t *testing.T) {
	h := newHandler(&fakeSource{}, primitive.NewObjectID())

	body := `{"partners": [
		{"id": "x1", "contribution": 1e308, "created_at": "2026-03-14"},
		{"id": "x2", "contribution": 1e308, "created_at": "2026-03-14"}
	]}`
	req := testutil.NewJSONRequest("POST", "/analytics/compute", body, testutil.ManagerUser(primitive.NewObjectID()))
	rec := testutil.NewRecorder()
	h.HandleCompute(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var got map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.NotEmpty(t, got["error"])
}
