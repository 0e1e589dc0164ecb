// internal/app/store/scores/scorestore.go
package scorestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/incubahub/internal/app/system/indexes"
	"github.com/dalemusser/incubahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrNotFound   = errors.New("score not found")
	errOutOfRange = errors.New("score must be between 0 and 5")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(indexes.Scores)}
}

// Open records an evaluation of projectID that has no final score yet.
func (s *Store) Open(ctx context.Context, orgID, projectID primitive.ObjectID) (models.Score, error) {
	sc := models.Score{
		ID:             primitive.NewObjectID(),
		OrganizationID: orgID,
		ProjectID:      projectID,
		CreatedAt:      time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, sc); err != nil {
		return models.Score{}, err
	}
	return sc, nil
}

// Close sets the final score of an open evaluation.
func (s *Store) Close(ctx context.Context, orgID, id primitive.ObjectID, final float64) error {
	if final < 0 || final > 5 {
		return errOutOfRange
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "organization_id": orgID},
		bson.M{"$set": bson.M{"score_final": final}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByOrg returns every evaluation of the organization.
func (s *Store) ListByOrg(ctx context.Context, orgID primitive.ObjectID) ([]models.Score, error) {
	cur, err := s.c.Find(ctx, bson.M{"organization_id": orgID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Score
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
