package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "planning"
	ProjectActive    ProjectStatus = "active"
	ProjectOnHold    ProjectStatus = "onHold"
	ProjectCompleted ProjectStatus = "completed"
	ProjectCancelled ProjectStatus = "cancelled"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPlanning, ProjectActive, ProjectOnHold, ProjectCompleted, ProjectCancelled:
		return true
	}
	return false
}

type ProjectPriority string

const (
	PriorityLow    ProjectPriority = "low"
	PriorityMedium ProjectPriority = "medium"
	PriorityHigh   ProjectPriority = "high"
)

func (p ProjectPriority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Project. Client is a free-text name, not a user reference; visibility for
// a client account is decided by team membership, not by this field.
type Project struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	Description string               `bson:"description" json:"description"`
	Client      string               `bson:"client" json:"client"`
	Manager     primitive.ObjectID   `bson:"manager" json:"manager"`
	Team        []primitive.ObjectID `bson:"team" json:"team"`
	StartDate   time.Time            `bson:"startDate" json:"startDate"`
	EndDate     time.Time            `bson:"endDate" json:"endDate"`
	LastDate    *time.Time           `bson:"lastDate,omitempty" json:"lastDate,omitempty"`
	Status      ProjectStatus        `bson:"status" json:"status"`
	Priority    ProjectPriority      `bson:"priority" json:"priority"`
	Budget      *float64             `bson:"budget,omitempty" json:"budget,omitempty"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
}
