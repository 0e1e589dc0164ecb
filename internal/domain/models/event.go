// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is a workshop, demo day, meetup, etc.
type Event struct {
	ID             primitive.ObjectID   `bson:"_id" json:"id"`
	OrganizationID primitive.ObjectID   `bson:"organization_id" json:"organization_id"`
	Title          string               `bson:"title" json:"title"`
	Type           string               `bson:"type" json:"type"`
	StartAt        time.Time            `bson:"start_at" json:"start_at"`
	EndAt          time.Time            `bson:"end_at" json:"end_at"`
	Participants   []primitive.ObjectID `bson:"participants" json:"participants"`
	CreatedAt      time.Time            `bson:"created_at" json:"created_at"`
}
