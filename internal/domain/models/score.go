// internal/domain/models/score.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Score is a jury evaluation of a project on a 0–5 scale.
// ScoreFinal is nil until the evaluation is closed.
type Score struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	ProjectID      primitive.ObjectID `bson:"project_id" json:"project_id"`
	ScoreFinal     *float64           `bson:"score_final,omitempty" json:"score_final,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}
