// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"errors"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/incubahub/internal/app/features/errors"
	organizationstore "github.com/dalemusser/incubahub/internal/app/store/organizations"
	"github.com/dalemusser/incubahub/internal/app/store/queries/analyticsdata"
	"github.com/dalemusser/incubahub/internal/app/system/analytics"
	"github.com/dalemusser/incubahub/internal/app/system/authz"
	"github.com/dalemusser/incubahub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// SnapshotSource loads every collection of one organization.
type SnapshotSource interface {
	Snapshot(ctx context.Context, orgID primitive.ObjectID) (analytics.Snapshot, error)
}

// OrgNamer resolves an organization's display name.
type OrgNamer interface {
	Name(ctx context.Context, id primitive.ObjectID) (string, error)
}

type Handler struct {
	Source SnapshotSource
	Orgs   OrgNamer
	Charts analytics.ChartConfig
	Policy analytics.TimestampPolicy
	Now    func() time.Time
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, charts analytics.ChartConfig, policy analytics.TimestampPolicy, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Source: analyticsdata.NewLoader(db),
		Orgs:   organizationstore.New(db),
		Charts: charts,
		Policy: policy,
		Now:    time.Now,
		ErrLog: errLog,
		Log:    logger,
	}
}

// result is one computed dashboard: the metadata, the aggregate and the
// chart inputs, all for the same cutoff.
type result struct {
	Meta    analytics.Metadata
	Metrics analytics.Metrics
	Charts  analytics.ChartData
}

func (h *Handler) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

// scope resolves the organization and range of a request. On failure it has
// already answered the client.
func (h *Handler) scope(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, analytics.Range, bool) {
	if _, _, _, ok := authz.UserCtx(r); !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return primitive.NilObjectID, "", false
	}
	orgID, err := authz.OrgScope(r)
	switch {
	case errors.Is(err, authz.ErrOrgForbidden):
		h.ErrLog.LogForbidden(w, r, "analytics org scope", err, "Vous n'avez pas accès à cette organisation.", "/analytics")
		return primitive.NilObjectID, "", false
	case err != nil:
		h.ErrLog.LogBadRequest(w, r, "analytics org scope", err, "Aucune organisation sélectionnée.", "/")
		return primitive.NilObjectID, "", false
	}
	return orgID, analytics.ParseRange(query.Get(r, "range")), true
}

// load fetches the snapshot and runs the pipeline. Nothing is computed
// unless every collection loaded.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) (result, bool) {
	orgID, rng, ok := h.scope(w, r)
	if !ok {
		return result{}, false
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Fetch(), h.Log, "analytics fetch")
	defer cancel()

	orgName, err := h.Orgs.Name(ctx, orgID)
	if errors.Is(err, organizationstore.ErrNotFound) {
		h.ErrLog.LogNotFound(w, r, "analytics organization", err, "Organisation introuvable.", "/")
		return result{}, false
	}
	if err != nil {
		h.ErrLog.LogFetchError(w, r, "analytics organization name", err, "Impossible de charger les données.", r.URL.RequestURI())
		return result{}, false
	}

	snap, err := h.Source.Snapshot(ctx, orgID)
	if err != nil {
		h.ErrLog.LogFetchError(w, r, "analytics snapshot", err, "Impossible de charger les données.", r.URL.RequestURI())
		return result{}, false
	}

	_, userName, _, _ := authz.UserCtx(r)
	return h.compute(snap, orgID.Hex(), orgName, userName, rng), true
}

func (h *Handler) compute(snap analytics.Snapshot, orgID, orgName, by string, rng analytics.Range) result {
	now := h.now()
	cutoff := analytics.Cutoff(rng, now)
	m := analytics.Aggregate(snap, cutoff, analytics.Options{Now: now, Policy: h.Policy})
	if n := len(m.Warnings); n > 0 {
		h.Log.Warn("rows skipped for missing or invalid timestamps",
			zap.String("org_id", orgID), zap.Int("count", n))
	}
	return result{
		Meta: analytics.Metadata{
			OrganizationID:   orgID,
			OrganizationName: orgName,
			TimeRange:        rng,
			TimeRangeLabel:   rng.Label(),
			Cutoff:           cutoff,
			GeneratedAt:      now,
			GeneratedBy:      by,
		},
		Metrics: m,
		Charts:  analytics.BuildCharts(snap, m, cutoff, now, h.Charts),
	}
}
