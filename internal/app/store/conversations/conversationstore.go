// internal/app/store/conversations/conversationstore.go
package conversationstore

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

// Store covers assistant conversations and their messages.
type Store struct {
	conv *mongo.Collection
	msgs *mongo.Collection
}

var ErrNotFound = errors.New("conversation not found")

// DefaultTitle is used when a conversation is created without one.
const DefaultTitle = "Nouvelle conversation"

func New(db *mongo.Database) *Store {
	return &Store{
		conv: db.Collection(indexes.Conversations),
		msgs: db.Collection(indexes.Messages),
	}
}

// Create starts a conversation owned by userID.
func (s *Store) Create(ctx context.Context, orgID, userID primitive.ObjectID, title string) (models.Conversation, error) {
	if title == "" {
		title = DefaultTitle
	}
	now := time.Now().UTC()
	c := models.Conversation{
		ID:             primitive.NewObjectID(),
		OrganizationID: orgID,
		UserID:         userID,
		Title:          title,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := s.conv.InsertOne(ctx, c); err != nil {
		return models.Conversation{}, err
	}
	return c, nil
}

// GetForUser loads a conversation only if userID owns it.
func (s *Store) GetForUser(ctx context.Context, userID, id primitive.ObjectID) (models.Conversation, error) {
	var c models.Conversation
	err := s.conv.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Conversation{}, ErrNotFound
	}
	if err != nil {
		return models.Conversation{}, err
	}
	return c, nil
}

// ListForUser returns the user's conversations, most recently active first.
func (s *Store) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Conversation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.conv.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Conversation
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByOrg returns every conversation of the organization.
func (s *Store) ListByOrg(ctx context.Context, orgID primitive.ObjectID) ([]models.Conversation, error) {
	cur, err := s.conv.Find(ctx, bson.M{"organization_id": orgID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Conversation
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AppendMessage stores m in conversation c and bumps its UpdatedAt.
func (s *Store) AppendMessage(ctx context.Context, c models.Conversation, role, content, html string) (models.Message, error) {
	now := time.Now().UTC()
	m := models.Message{
		ID:             primitive.NewObjectID(),
		ConversationID: c.ID,
		OrganizationID: c.OrganizationID,
		Role:           role,
		Content:        content,
		HTML:           html,
		CreatedAt:      now,
	}
	if _, err := s.msgs.InsertOne(ctx, m); err != nil {
		return models.Message{}, err
	}
	if _, err := s.conv.UpdateByID(ctx, c.ID, bson.M{"$set": bson.M{"updated_at": now}}); err != nil {
		return models.Message{}, err
	}
	return m, nil
}

// Messages returns the conversation's messages oldest first.
func (s *Store) Messages(ctx context.Context, conversationID primitive.ObjectID) ([]models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	return s.findMessages(ctx, bson.M{"conversation_id": conversationID}, opts)
}

// MessagesByOrg returns every message of the organization.
func (s *Store) MessagesByOrg(ctx context.Context, orgID primitive.ObjectID) ([]models.Message, error) {
	return s.findMessages(ctx, bson.M{"organization_id": orgID})
}

func (s *Store) findMessages(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Message, error) {
	cur, err := s.msgs.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Message
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
