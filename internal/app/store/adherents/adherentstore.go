// internal/app/store/adherents/adherentstore.go
package adherentstore

import (
	"context"
	"errors"
	"regexp"
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
	ErrNotFound     = errors.New("adherent not found")
	errNameRequired = errors.New("first or last name is required")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(indexes.Adherents)}
}

// Create inserts a. A zero ID is generated and a zero JoinedAt defaults to
// the creation time.
func (s *Store) Create(ctx context.Context, a models.Adherent) (models.Adherent, error) {
	a.FirstName = normalize.Name(a.FirstName)
	a.LastName = normalize.Name(a.LastName)
	if a.FirstName == "" && a.LastName == "" {
		return models.Adherent{}, errNameRequired
	}
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	a.FullNameCI = text.Fold(a.FullName())
	a.Email = normalize.Email(a.Email)
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	if a.JoinedAt.IsZero() {
		a.JoinedAt = now
	}
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Adherent{}, err
	}
	return a, nil
}

// GetByID loads an adherent inside orgID.
func (s *Store) GetByID(ctx context.Context, orgID, id primitive.ObjectID) (models.Adherent, error) {
	var a models.Adherent
	err := s.c.FindOne(ctx, bson.M{"_id": id, "organization_id": orgID}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Adherent{}, ErrNotFound
	}
	if err != nil {
		return models.Adherent{}, err
	}
	return a, nil
}

// ListByOrg returns every adherent of the organization, sorted by name.
func (s *Store) ListByOrg(ctx context.Context, orgID primitive.ObjectID) ([]models.Adherent, error) {
	return s.find(ctx, bson.M{"organization_id": orgID})
}

// Search returns adherents whose folded full name starts with q.
func (s *Store) Search(ctx context.Context, orgID primitive.ObjectID, q string) ([]models.Adherent, error) {
	filter := bson.M{"organization_id": orgID}
	if q = text.Fold(normalize.QueryParam(q)); q != "" {
		filter["full_name_ci"] = bson.M{"$regex": "^" + regexp.QuoteMeta(q)}
	}
	return s.find(ctx, filter)
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Adherent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Adherent
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetMentor assigns mentorID to the adherent; nil clears the assignment.
// The caller checks that the mentor belongs to orgID.
func (s *Store) SetMentor(ctx context.Context, orgID, id primitive.ObjectID, mentorID *primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"mentor_id": mentorID, "updated_at": time.Now().UTC()}}
	if mentorID == nil {
		update = bson.M{
			"$unset": bson.M{"mentor_id": ""},
			"$set":   bson.M{"updated_at": time.Now().UTC()},
		}
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "organization_id": orgID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByMentor returns the number of adherents assigned to each mentor of
// the organization. Mentors without adherents are absent from the map.
func (s *Store) CountByMentor(ctx context.Context, orgID primitive.ObjectID) (map[primitive.ObjectID]int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"organization_id": orgID, "mentor_id": bson.M{"$ne": nil}}}},
		{{Key: "$group", Value: bson.M{"_id": "$mentor_id", "n": bson.M{"$sum": 1}}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[primitive.ObjectID]int)
	for cur.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
			N  int                `bson:"n"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.ID] = row.N
	}
	return out, cur.Err()
}

// IncrementDeliverables bumps the completed-deliverable counter.
func (s *Store) IncrementDeliverables(ctx context.Context, orgID, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "organization_id": orgID},
		bson.M{
			"$inc": bson.M{"deliverables_completed": 1},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
