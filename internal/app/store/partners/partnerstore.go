// internal/app/store/partners/partnerstore.go
package partnerstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/incubahub/internal/app/system/indexes"
	"github.com/dalemusser/incubahub/internal/app/system/normalize"
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
	ErrNotFound     = errors.New("partner not found")
	errNameRequired = errors.New("partner name is required")
	errBadRating    = errors.New("rating must be between 0 and 5")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(indexes.Partners)}
}

func (s *Store) Create(ctx context.Context, p models.Partner) (models.Partner, error) {
	p.Name = normalize.Name(p.Name)
	if p.Name == "" {
		return models.Partner{}, errNameRequired
	}
	if p.Rating < 0 || p.Rating > 5 {
		return models.Partner{}, errBadRating
	}
	p.ID = primitive.NewObjectID()
	p.NameCI = text.Fold(p.Name)
	if p.Status == "" {
		p.Status = models.StatusActive
	}
	p.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Partner{}, err
	}
	return p, nil
}

// Rate sets the partner's rating (0 clears it).
func (s *Store) Rate(ctx context.Context, orgID, id primitive.ObjectID, rating float64) error {
	if rating < 0 || rating > 5 {
		return errBadRating
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "organization_id": orgID},
		bson.M{"$set": bson.M{"rating": rating}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByOrg returns the organization's partners sorted by name.
func (s *Store) ListByOrg(ctx context.Context, orgID primitive.ObjectID) ([]models.Partner, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"organization_id": orgID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Partner
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
