// Package scope builds the query filters that restrict every read and write
// to what the calling principal may touch. The functions are pure: given a
// principal they return a bson filter and never perform I/O. Restriction
// happens at query level so that foreign records are indistinguishable from
// absent ones.
package scope

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/coderpranjal09/cystas-devsoft-Ems/models"
)

// Projects: a client sees a project iff they are in its team. Being the
// manager is not the authorization key.
func Projects(p models.Principal) bson.M {
	if p.IsAdmin() {
		return bson.M{}
	}
	return bson.M{"team": p.ID}
}

// Tasks: a client sees (and may submit to) a task iff they are an assignee.
func Tasks(p models.Principal) bson.M {
	if p.IsAdmin() {
		return bson.M{}
	}
	return bson.M{"assignedTo": p.ID}
}

// Leaves: a client sees only their own requests.
func Leaves(p models.Principal) bson.M {
	if p.IsAdmin() {
		return bson.M{}
	}
	return bson.M{"employee": p.ID}
}

// Attendance: a client sees only their own ledger rows.
func Attendance(p models.Principal) bson.M {
	if p.IsAdmin() {
		return bson.M{}
	}
	return bson.M{"user": p.ID}
}

// OwnTasks pins a filter to the principal's own assignments regardless of
// role. Self-service operations use this so an admin acting through the
// employee portal still only reaches their own records.
func OwnTasks(p models.Principal) bson.M {
	return bson.M{"assignedTo": p.ID}
}

// OwnLeaves pins a filter to the principal's own leave requests regardless
// of role.
func OwnLeaves(p models.Principal) bson.M {
	return bson.M{"employee": p.ID}
}

// OwnAttendance pins a filter to the principal's own ledger rows regardless
// of role.
func OwnAttendance(p models.Principal) bson.M {
	return bson.M{"user": p.ID}
}

// Merge combines a scope filter with operation-specific criteria. The scope
// filter wins on key collisions so a caller can never widen its visibility.
func Merge(scoped bson.M, extra bson.M) bson.M {
	out := bson.M{}
	for k, v := range extra {
		out[k] = v
	}
	for k, v := range scoped {
		out[k] = v
	}
	return out
}
