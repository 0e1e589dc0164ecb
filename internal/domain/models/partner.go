// internal/domain/models/partner.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Partner is a sponsor, investor, school or service provider.
type Partner struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	Name           string             `bson:"name" json:"name"`
	NameCI         string             `bson:"name_ci" json:"-"`
	Type           string             `bson:"type" json:"type"`
	Status         string             `bson:"status" json:"status"`
	Rating         float64            `bson:"rating" json:"rating"`             // 0–5, 0 = not rated
	Contribution   float64            `bson:"contribution" json:"contribution"` // committed amount
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}
