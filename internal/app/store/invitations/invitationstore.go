// internal/app/store/invitations/invitationstore.go
package invitationstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/incubahub/internal/app/system/indexes"
	"github.com/dalemusser/incubahub/internal/app/system/normalize"
	"github.com/dalemusser/incubahub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultExpiry is how long an invitation stays valid.
const DefaultExpiry = 7 * 24 * time.Hour

var (
	// ErrNotFound is returned when no invitation has the token.
	ErrNotFound = errors.New("invitation not found")
	// ErrExpired is returned when a pending invitation is past its expiry.
	ErrExpired = errors.New("invitation expired")
	// ErrAlreadyAccepted is returned on a second acceptance.
	ErrAlreadyAccepted = errors.New("invitation already accepted")

	errEmailRequired = errors.New("invitation email is required")
)

// Store manages invitation records.
type Store struct {
	c      *mongo.Collection
	expiry time.Duration
}

// New creates a Store. If expiry is 0 or negative, DefaultExpiry is used.
func New(db *mongo.Database, expiry time.Duration) *Store {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	return &Store{c: db.Collection(indexes.Invitations), expiry: expiry}
}

// Expiry returns the validity period of new invitations.
func (s *Store) Expiry() time.Duration { return s.expiry }

// Create issues a pending invitation with a fresh UUID token.
func (s *Store) Create(ctx context.Context, orgID, invitedBy primitive.ObjectID, email, role string) (models.Invitation, error) {
	email = normalize.Email(email)
	if email == "" {
		return models.Invitation{}, errEmailRequired
	}
	role = normalize.Role(role)
	if role == "" {
		role = models.RoleAdherent
	}
	now := time.Now().UTC()
	inv := models.Invitation{
		ID:             primitive.NewObjectID(),
		OrganizationID: orgID,
		Email:          email,
		Role:           role,
		Token:          uuid.NewString(),
		Status:         models.InvitationPending,
		InvitedBy:      invitedBy,
		ExpiresAt:      now.Add(s.expiry),
		CreatedAt:      now,
	}
	if _, err := s.c.InsertOne(ctx, inv); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Invitation{}, fmt.Errorf("invitation token collision: %w", err)
		}
		return models.Invitation{}, err
	}
	return inv, nil
}

// GetByToken loads an invitation by token regardless of state.
func (s *Store) GetByToken(ctx context.Context, token string) (models.Invitation, error) {
	var inv models.Invitation
	err := s.c.FindOne(ctx, bson.M{"token": token}).Decode(&inv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Invitation{}, ErrNotFound
	}
	if err != nil {
		return models.Invitation{}, err
	}
	return inv, nil
}

// Check reports whether token can still be accepted at now.
func (s *Store) Check(ctx context.Context, token string, now time.Time) (models.Invitation, error) {
	inv, err := s.GetByToken(ctx, token)
	if err != nil {
		return models.Invitation{}, err
	}
	return inv, stateErr(inv, now)
}

func stateErr(inv models.Invitation, now time.Time) error {
	if inv.Status == models.InvitationAccepted {
		return ErrAlreadyAccepted
	}
	if inv.Status == models.InvitationExpired || !now.Before(inv.ExpiresAt) {
		return ErrExpired
	}
	return nil
}

// MarkAccepted flips a pending, unexpired invitation to accepted and
// links the adherent created for it. Only one caller can win.
func (s *Store) MarkAccepted(ctx context.Context, token string, adherentID primitive.ObjectID, now time.Time) (models.Invitation, error) {
	filter := bson.M{
		"token":      token,
		"status":     models.InvitationPending,
		"expires_at": bson.M{"$gt": now},
	}
	update := bson.M{"$set": bson.M{
		"status":      models.InvitationAccepted,
		"adherent_id": adherentID,
		"accepted_at": now,
	}}
	var inv models.Invitation
	err := s.c.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&inv)
	if err == nil {
		return inv, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.Invitation{}, err
	}

	current, gerr := s.GetByToken(ctx, token)
	if gerr != nil {
		return models.Invitation{}, gerr
	}
	if serr := stateErr(current, now); serr != nil {
		return models.Invitation{}, serr
	}
	return models.Invitation{}, ErrNotFound
}

// Release puts an invitation claimed by adherentID back to pending. It
// undoes MarkAccepted when the adherent could not be created and the
// writes ran without a transaction. It reports whether a document changed.
func (s *Store) Release(ctx context.Context, token string, adherentID primitive.ObjectID) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"token": token, "status": models.InvitationAccepted, "adherent_id": adherentID},
		bson.M{
			"$set":   bson.M{"status": models.InvitationPending},
			"$unset": bson.M{"adherent_id": "", "accepted_at": ""},
		})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// ExpirePending marks every pending invitation past its expiry at now as
// expired and returns how many changed.
func (s *Store) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"status": models.InvitationPending, "expires_at": bson.M{"$lte": now}},
		bson.M{"$set": bson.M{"status": models.InvitationExpired}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// ListByOrg returns the organization's invitations, newest first.
func (s *Store) ListByOrg(ctx context.Context, orgID primitive.ObjectID) ([]models.Invitation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"organization_id": orgID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Invitation
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
