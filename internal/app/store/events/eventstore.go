// internal/app/store/events/eventstore.go
package eventstore

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

type Store struct {
	c *mongo.Collection
}

var (
	ErrNotFound      = errors.New("event not found")
	errTitleRequired = errors.New("event title is required")
	errBadSchedule   = errors.New("event must end after it starts")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(indexes.Events)}
}

func (s *Store) Create(ctx context.Context, e models.Event) (models.Event, error) {
	if e.Title == "" {
		return models.Event{}, errTitleRequired
	}
	if !e.EndAt.IsZero() && e.EndAt.Before(e.StartAt) {
		return models.Event{}, errBadSchedule
	}
	e.ID = primitive.NewObjectID()
	if e.Participants == nil {
		e.Participants = []primitive.ObjectID{}
	}
	e.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

// AddParticipant registers adherentID once.
func (s *Store) AddParticipant(ctx context.Context, orgID, id, adherentID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "organization_id": orgID},
		bson.M{"$addToSet": bson.M{"participants": adherentID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByOrg returns the organization's events in start order.
func (s *Store) ListByOrg(ctx context.Context, orgID primitive.ObjectID) ([]models.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"organization_id": orgID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Event
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
