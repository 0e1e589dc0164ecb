// internal/domain/models/invitation.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Invitation statuses.
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationExpired  = "expired"
)

// Invitation lets someone join an organization as an adherent.
// Token is an opaque UUID sent by email.
type Invitation struct {
	ID             primitive.ObjectID  `bson:"_id" json:"id"`
	OrganizationID primitive.ObjectID  `bson:"organization_id" json:"organization_id"`
	Email          string              `bson:"email" json:"email"`
	Role           string              `bson:"role" json:"role"`
	Token          string              `bson:"token" json:"token"`
	Status         string              `bson:"status" json:"status"`
	InvitedBy      primitive.ObjectID  `bson:"invited_by" json:"invited_by"`
	AdherentID     *primitive.ObjectID `bson:"adherent_id,omitempty" json:"adherent_id,omitempty"`
	ExpiresAt      time.Time           `bson:"expires_at" json:"expires_at"`
	AcceptedAt     *time.Time          `bson:"accepted_at,omitempty" json:"accepted_at,omitempty"`
	CreatedAt      time.Time           `bson:"created_at" json:"created_at"`
}
