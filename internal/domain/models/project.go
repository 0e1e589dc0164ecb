// internal/domain/models/project.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project is a venture tracked by the organization.
//
// Status is stored exactly as entered ("completed", "terminé", "en cours", ...).
// The analytics pipeline maps it to a closed enumeration when it reads it.
type Project struct {
	ID             primitive.ObjectID  `bson:"_id" json:"id"`
	OrganizationID primitive.ObjectID  `bson:"organization_id" json:"organization_id"`
	Name           string              `bson:"name" json:"name"`
	NameCI         string              `bson:"name_ci" json:"-"`
	Status         string              `bson:"status" json:"status"`
	OwnerID        *primitive.ObjectID `bson:"owner_id,omitempty" json:"owner_id,omitempty"`
	FundingRaised  float64             `bson:"funding_raised" json:"funding_raised"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
