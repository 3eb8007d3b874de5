package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleClient
}

// AdminProfile holds the attributes that only exist on admin accounts.
type AdminProfile struct {
	Department  string   `bson:"department" json:"department"`
	Permissions []string `bson:"permissions" json:"permissions"`
}

// ClientProfile holds the attributes that only exist on client/employee accounts.
type ClientProfile struct {
	Company       string `bson:"company,omitempty" json:"company,omitempty"`
	ContactNumber string `bson:"contactNumber,omitempty" json:"contactNumber,omitempty"`
}

// User is a single collection with a role tag plus an optional per-role
// attribute bag. There is no per-role collection or discriminator.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Email         string             `bson:"email" json:"email"`
	Password      string             `bson:"password" json:"-"`
	Role          Role               `bson:"role" json:"role"`
	Department    string             `bson:"department,omitempty" json:"department,omitempty"`
	MobNo         string             `bson:"mobno,omitempty" json:"mobno,omitempty"`
	AdminProfile  *AdminProfile      `bson:"adminProfile,omitempty" json:"adminProfile,omitempty"`
	ClientProfile *ClientProfile     `bson:"clientProfile,omitempty" json:"clientProfile,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// Principal is the authenticated identity attached to a request after the
// session token has been resolved.
type Principal struct {
	ID   primitive.ObjectID
	Role Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
