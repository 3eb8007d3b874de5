package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceHalfDay AttendanceStatus = "half_day"
	AttendanceLeave   AttendanceStatus = "leave"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceHalfDay, AttendanceLeave:
		return true
	}
	return false
}

// HasWorkHours reports whether check-in/check-out timestamps make sense for
// this status. Absent and leave days never carry them.
func (s AttendanceStatus) HasWorkHours() bool {
	return s == AttendancePresent || s == AttendanceHalfDay
}

// Attendance is one ledger row per user per calendar day. Date is stored
// normalized to UTC midnight and the collection carries a unique index on
// (user, date).
type Attendance struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User        primitive.ObjectID `bson:"user" json:"user"`
	Date        time.Time          `bson:"date" json:"date"`
	Status      AttendanceStatus   `bson:"status" json:"status"`
	CheckIn     *time.Time         `bson:"checkIn,omitempty" json:"checkIn,omitempty"`
	CheckOut    *time.Time         `bson:"checkOut,omitempty" json:"checkOut,omitempty"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	RecordedBy  primitive.ObjectID `bson:"recordedBy" json:"recordedBy"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	HoursWorked string             `bson:"-" json:"hoursWorked,omitempty"`
}
