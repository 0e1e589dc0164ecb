// internal/app/store/mentors/mentorstore.go
package mentorstore

import (
	"context"
	"errors"
	"maps"
	"time"

	"github.com/dalemusser/incubahub/internal/app/system/indexes"
	"github.com/dalemusser/incubahub/internal/app/system/normalize"
	"github.com/dalemusser/incubahub/internal/app/system/paging"
	"github.com/dalemusser/incubahub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrNotFound     = errors.New("mentor not found")
	errNameRequired = errors.New("mentor name is required")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(indexes.Mentors)}
}

func (s *Store) Create(ctx context.Context, m models.Mentor) (models.Mentor, error) {
	m.FullName = normalize.Name(m.FullName)
	if m.FullName == "" {
		return models.Mentor{}, errNameRequired
	}
	m.ID = primitive.NewObjectID()
	m.FullNameCI = text.Fold(m.FullName)
	m.Email = normalize.Email(m.Email)
	if m.Status == "" {
		m.Status = models.StatusActive
	}
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Mentor{}, err
	}
	return m, nil
}

// GetByID loads a mentor inside orgID.
func (s *Store) GetByID(ctx context.Context, orgID, id primitive.ObjectID) (models.Mentor, error) {
	var m models.Mentor
	err := s.c.FindOne(ctx, bson.M{"_id": id, "organization_id": orgID}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Mentor{}, ErrNotFound
	}
	if err != nil {
		return models.Mentor{}, err
	}
	return m, nil
}

// ListByOrg returns every mentor of the organization, sorted by name.
func (s *Store) ListByOrg(ctx context.Context, orgID primitive.ObjectID) ([]models.Mentor, error) {
	opts := options.Find().SetSort(bson.D{{Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"organization_id": orgID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Mentor
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPage returns one keyset page of the organization's mentors ordered
// by folded name. It fetches paging.PageSize+1 rows; callers trim with
// paging.TrimPage. Backward pages come back in descending order.
func (s *Store) ListPage(ctx context.Context, orgID primitive.ObjectID, cfg paging.KeysetConfig) ([]models.Mentor, error) {
	filter := bson.M{"organization_id": orgID}
	if ks := cfg.KeysetWindow("full_name_ci"); ks != nil {
		maps.Copy(filter, ks)
	}
	cur, err := s.c.Find(ctx, filter, cfg.FindOptions("full_name_ci"))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Mentor
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetStatus stores a raw status such as "active" or "inactive".
func (s *Store) SetStatus(ctx context.Context, orgID, id primitive.ObjectID, status string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "organization_id": orgID},
		bson.M{"$set": bson.M{"status": normalize.Status(status), "updated_at": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
