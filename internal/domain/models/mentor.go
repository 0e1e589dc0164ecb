// internal/domain/models/mentor.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mentor coaches adherents. Assignment lives on Adherent.MentorID.
type Mentor struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	FullName       string             `bson:"full_name" json:"full_name"`
	FullNameCI     string             `bson:"full_name_ci" json:"-"`
	Email          string             `bson:"email" json:"email"`
	Expertise      string             `bson:"expertise,omitempty" json:"expertise,omitempty"`
	Status         string             `bson:"status" json:"status"` // active | inactive
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}
