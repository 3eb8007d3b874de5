package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskEvaluated  TaskStatus = "evaluated"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted, TaskEvaluated:
		return true
	}
	return false
}

// Submission is stamped by an assignee when the work is handed in.
type Submission struct {
	SubmittedAt time.Time          `bson:"submittedAt" json:"submittedAt"`
	Description string             `bson:"description" json:"description"`
	ProjectURL  string             `bson:"projectUrl" json:"projectUrl"`
	SubmittedBy primitive.ObjectID `bson:"submittedBy" json:"submittedBy"`
}

// Evaluation is stamped by an admin after submission. Rating is 0-5.
type Evaluation struct {
	Rating      float64            `bson:"rating" json:"rating"`
	Feedback    string             `bson:"feedback" json:"feedback"`
	EvaluatedAt time.Time          `bson:"evaluatedAt" json:"evaluatedAt"`
	EvaluatedBy primitive.ObjectID `bson:"evaluatedBy" json:"evaluatedBy"`
}

type Task struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description" json:"description"`
	AssignedTo  []primitive.ObjectID `bson:"assignedTo" json:"assignedTo"`
	AssignedBy  primitive.ObjectID   `bson:"assignedBy" json:"assignedBy"`
	DueDate     time.Time            `bson:"dueDate" json:"dueDate"`
	Status      TaskStatus           `bson:"status" json:"status"`
	Submission  *Submission          `bson:"submission,omitempty" json:"submission,omitempty"`
	Evaluation  *Evaluation          `bson:"evaluation,omitempty" json:"evaluation,omitempty"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
}
