package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LeaveType string

const (
	LeaveSick      LeaveType = "sick"
	LeaveVacation  LeaveType = "vacation"
	LeavePersonal  LeaveType = "personal"
	LeaveMaternity LeaveType = "maternity"
	LeavePaternity LeaveType = "paternity"
	LeaveOther     LeaveType = "other"
)

func (t LeaveType) Valid() bool {
	switch t {
	case LeaveSick, LeaveVacation, LeavePersonal, LeaveMaternity, LeavePaternity, LeaveOther:
		return true
	}
	return false
}

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

type Leave struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Employee        primitive.ObjectID  `bson:"employee" json:"employee"`
	Type            LeaveType           `bson:"type" json:"type"`
	StartDate       time.Time           `bson:"startDate" json:"startDate"`
	EndDate         time.Time           `bson:"endDate" json:"endDate"`
	Days            int                 `bson:"days" json:"days"`
	Reason          string              `bson:"reason" json:"reason"`
	Status          LeaveStatus         `bson:"status" json:"status"`
	ApprovedBy      *primitive.ObjectID `bson:"approvedBy,omitempty" json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time          `bson:"approvedAt,omitempty" json:"approvedAt,omitempty"`
	RejectionReason string              `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
}

// LeaveDetail is the admin listing shape: the leave joined with its employee
// and (when decided) the deciding admin.
type LeaveDetail struct {
	Leave       `bson:",inline"`
	EmployeeDoc *User `bson:"employeeDoc,omitempty" json:"employeeDoc,omitempty"`
	ApproverDoc *User `bson:"approverDoc,omitempty" json:"approverDoc,omitempty"`
}

// LeaveStats is the status breakdown with unseen statuses zero-filled.
type LeaveStats struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Total    int64 `json:"total"`
}
