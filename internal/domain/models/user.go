// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account that can sign in: admins, managers, mentors and
// adherents that were given a login.
//
// NOTE:
//   - Adherent and Mentor are separate records; a User only links to
//     them through OrganizationID and the shared email.
type User struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	OrganizationID *primitive.ObjectID `bson:"organization_id,omitempty" json:"organization_id,omitempty"`
	FullName       string              `bson:"full_name" json:"full_name"`
	FullNameCI     string              `bson:"full_name_ci" json:"-"`
	LoginID        string              `bson:"login_id" json:"login_id"`
	LoginIDCI      string              `bson:"login_id_ci" json:"-"`
	PasswordHash   string              `bson:"password_hash,omitempty" json:"-"`
	Role           string              `bson:"role" json:"role"` // admin | manager | mentor | adherent
	Status         string              `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Roles.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleMentor   = "mentor"
	RoleAdherent = "adherent"
)

// Account and record statuses shared by users, organizations and mentors.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)
