// internal/app/store/deliverables/deliverablestore.go
package deliverablestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/incubahub/internal/app/system/indexes"
	"github.com/dalemusser/incubahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// All deliverable kinds share one collection, told apart by kind.
type Store struct {
	c *mongo.Collection
}

var (
	ErrNotFound     = errors.New("deliverable not found")
	errKindRequired = errors.New("deliverable kind is required")
	errNoProject    = errors.New("deliverable must belong to a project")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(indexes.Deliverables)}
}

// Create inserts d. Kinds outside the built-in list are accepted.
func (s *Store) Create(ctx context.Context, d models.Deliverable) (models.Deliverable, error) {
	if d.Kind == "" {
		return models.Deliverable{}, errKindRequired
	}
	if d.ProjectID.IsZero() {
		return models.Deliverable{}, errNoProject
	}
	d.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, d); err != nil {
		return models.Deliverable{}, err
	}
	return d, nil
}

// ListByOrg returns every deliverable of the organization, all kinds.
func (s *Store) ListByOrg(ctx context.Context, orgID primitive.ObjectID) ([]models.Deliverable, error) {
	return s.find(ctx, bson.M{"organization_id": orgID})
}

// ListByProject returns the deliverables of one project.
func (s *Store) ListByProject(ctx context.Context, orgID, projectID primitive.ObjectID) ([]models.Deliverable, error) {
	return s.find(ctx, bson.M{"organization_id": orgID, "project_id": projectID})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Deliverable, error) {
	opts := options.Find().SetSort(bson.D{{Key: "kind", Value: 1}, {Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Deliverable
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a deliverable inside orgID.
func (s *Store) Delete(ctx context.Context, orgID, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "organization_id": orgID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
