// internal/domain/models/deliverable.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Deliverable kinds. All kinds share the deliverables collection and are
// told apart by Kind.
const (
	DeliverableBusinessModel  = "business_model"
	DeliverablePitch          = "pitch"
	DeliverableVisionMission  = "vision_mission"
	DeliverableMarketAnalysis = "market_analysis"
)

// Deliverable is one document produced for a project (business model,
// pitch, ...). Content is kind-specific and kept opaque here.
type Deliverable struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	ProjectID      primitive.ObjectID `bson:"project_id" json:"project_id"`
	Kind           string             `bson:"kind" json:"kind"`
	Title          string             `bson:"title" json:"title"`
	Content        map[string]any     `bson:"content,omitempty" json:"content,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}
