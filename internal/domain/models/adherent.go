// internal/domain/models/adherent.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Adherent is a member entrepreneur of an organization.
// Completion counters are maintained by the project/deliverable flows.
type Adherent struct {
	ID             primitive.ObjectID  `bson:"_id" json:"id"`
	OrganizationID primitive.ObjectID  `bson:"organization_id" json:"organization_id"`
	FirstName      string              `bson:"first_name" json:"first_name"`
	LastName       string              `bson:"last_name" json:"last_name"`
	FullNameCI     string              `bson:"full_name_ci" json:"-"`
	Email          string              `bson:"email" json:"email"`
	Role           string              `bson:"role" json:"role"`
	Persona        string              `bson:"persona,omitempty" json:"persona,omitempty"`
	MentorID       *primitive.ObjectID `bson:"mentor_id,omitempty" json:"mentor_id,omitempty"`

	ProjectsCompleted     int `bson:"projects_completed" json:"projects_completed"`
	DeliverablesCompleted int `bson:"deliverables_completed" json:"deliverables_completed"`

	JoinedAt  time.Time `bson:"joined_at" json:"joined_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// FullName joins first and last name.
func (a Adherent) FullName() string {
	switch {
	case a.FirstName == "":
		return a.LastName
	case a.LastName == "":
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}
