package scope

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coderpranjal09/cystas-devsoft-Ems/models"
)

func TestFiltersForAdmin(t *testing.T) {
	admin := models.Principal{ID: primitive.NewObjectID(), Role: models.RoleAdmin}

	for name, filter := range map[string]bson.M{
		"projects":   Projects(admin),
		"tasks":      Tasks(admin),
		"leaves":     Leaves(admin),
		"attendance": Attendance(admin),
	} {
		if len(filter) != 0 {
			t.Errorf("%s: admin filter should be empty, got %v", name, filter)
		}
	}
}

func TestFiltersForClient(t *testing.T) {
	id := primitive.NewObjectID()
	client := models.Principal{ID: id, Role: models.RoleClient}

	tests := []struct {
		name string
		got  bson.M
		want bson.M
	}{
		{"projects", Projects(client), bson.M{"team": id}},
		{"tasks", Tasks(client), bson.M{"assignedTo": id}},
		{"leaves", Leaves(client), bson.M{"employee": id}},
		{"attendance", Attendance(client), bson.M{"user": id}},
	}
	for _, tc := range tests {
		if !reflect.DeepEqual(tc.got, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, tc.got, tc.want)
		}
	}
}

func TestOwnFiltersPinEveryRole(t *testing.T) {
	id := primitive.NewObjectID()

	for _, role := range []models.Role{models.RoleAdmin, models.RoleClient} {
		p := models.Principal{ID: id, Role: role}

		tests := []struct {
			name string
			got  bson.M
			want bson.M
		}{
			{"tasks", OwnTasks(p), bson.M{"assignedTo": id}},
			{"leaves", OwnLeaves(p), bson.M{"employee": id}},
			{"attendance", OwnAttendance(p), bson.M{"user": id}},
		}
		for _, tc := range tests {
			if !reflect.DeepEqual(tc.got, tc.want) {
				t.Errorf("%s/%s: got %v, want %v", role, tc.name, tc.got, tc.want)
			}
		}
	}
}

func TestCancelFilterPinsAdminToOwnLeave(t *testing.T) {
	id := primitive.NewObjectID()
	admin := models.Principal{ID: id, Role: models.RoleAdmin}

	filter := Merge(OwnLeaves(admin), bson.M{"_id": primitive.NewObjectID(), "status": "pending"})

	if filter["employee"] != id {
		t.Errorf("cancel filter must pin the employee to the caller, got %v", filter["employee"])
	}
}

func TestMergeScopeWinsCollisions(t *testing.T) {
	id := primitive.NewObjectID()
	other := primitive.NewObjectID()
	client := models.Principal{ID: id, Role: models.RoleClient}

	merged := Merge(Leaves(client), bson.M{"employee": other, "status": "pending"})

	if merged["employee"] != id {
		t.Errorf("scope key overridden: got %v, want %v", merged["employee"], id)
	}
	if merged["status"] != "pending" {
		t.Errorf("extra key lost: got %v", merged["status"])
	}
}
