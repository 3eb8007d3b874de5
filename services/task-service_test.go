package services

import (
	"context"
	"net/http"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/coderpranjal09/cystas-devsoft-Ems/models"
	"github.com/coderpranjal09/cystas-devsoft-Ems/utils"
)

func TestValidRating(t *testing.T) {
	tests := []struct {
		rating float64
		want   bool
	}{
		{0, true},
		{2.5, true},
		{5, true},
		{-0.1, false},
		{5.1, false},
		{10, false},
	}

	for _, tc := range tests {
		if got := ValidRating(tc.rating); got != tc.want {
			t.Errorf("ValidRating(%v) = %v, want %v", tc.rating, got, tc.want)
		}
	}
}

func TestSubmitTaskRequiresDescription(t *testing.T) {
	s := &TaskService{}
	p := models.Principal{ID: primitive.NewObjectID(), Role: models.RoleClient}

	_, err := s.SubmitTask(context.Background(), p, primitive.NewObjectID(), "", "https://example.com/repo")
	if utils.StatusOf(err) != http.StatusBadRequest {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestEvaluateTaskRejectsOutOfRangeRating(t *testing.T) {
	s := &TaskService{}
	admin := models.Principal{ID: primitive.NewObjectID(), Role: models.RoleAdmin}

	for _, rating := range []float64{-1, 5.5, 100} {
		_, err := s.EvaluateTask(context.Background(), admin, primitive.NewObjectID(), rating, "fine work")
		if utils.StatusOf(err) != http.StatusBadRequest {
			t.Errorf("rating %v: expected validation error, got %v", rating, err)
		}
	}
}

func TestAssignedTo(t *testing.T) {
	mine := primitive.NewObjectID()
	other := primitive.NewObjectID()
	task := models.Task{AssignedTo: []primitive.ObjectID{mine, primitive.NewObjectID()}}

	if !assignedTo(task, mine) {
		t.Error("assignee not recognized")
	}
	if assignedTo(task, other) {
		t.Error("non-assignee recognized as assignee")
	}
	if assignedTo(models.Task{}, mine) {
		t.Error("empty assignee list matched")
	}
}

func TestSubmitTaskMissClassification(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	caller := models.Principal{ID: primitive.NewObjectID(), Role: models.RoleClient}
	noMatch := bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}}

	mt.Run("missing task", func(mt *mtest.T) {
		svc := &TaskService{TasksCollection: mt.Coll}
		ns := mt.DB.Name() + "." + mt.Coll.Name()

		mt.AddMockResponses(noMatch, mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := svc.SubmitTask(context.Background(), caller, primitive.NewObjectID(), "done", "")
		if utils.StatusOf(err) != http.StatusNotFound {
			mt.Errorf("error = %v, want not found", err)
		}
	})

	mt.Run("non-assignee", func(mt *mtest.T) {
		svc := &TaskService{TasksCollection: mt.Coll}
		taskID := primitive.NewObjectID()
		ns := mt.DB.Name() + "." + mt.Coll.Name()

		mt.AddMockResponses(noMatch, mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: taskID},
			{Key: "assignedTo", Value: bson.A{primitive.NewObjectID()}},
			{Key: "status", Value: models.TaskPending},
		}))

		_, err := svc.SubmitTask(context.Background(), caller, taskID, "done", "")
		if utils.StatusOf(err) != http.StatusForbidden {
			mt.Errorf("error = %v, want forbidden", err)
		}
	})

	mt.Run("second submission", func(mt *mtest.T) {
		svc := &TaskService{TasksCollection: mt.Coll}
		taskID := primitive.NewObjectID()
		ns := mt.DB.Name() + "." + mt.Coll.Name()

		mt.AddMockResponses(noMatch, mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: taskID},
			{Key: "assignedTo", Value: bson.A{caller.ID}},
			{Key: "status", Value: models.TaskCompleted},
		}))

		_, err := svc.SubmitTask(context.Background(), caller, taskID, "done", "")
		appErr, ok := utils.AsAppError(err)
		if !ok || appErr.Message != "Task has already been submitted" {
			mt.Errorf("error = %v, want already-submitted state error", err)
		}
	})
}

func TestEvaluateTaskRequiresCompletion(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("pending task cannot be evaluated", func(mt *mtest.T) {
		svc := &TaskService{TasksCollection: mt.Coll}
		admin := models.Principal{ID: primitive.NewObjectID(), Role: models.RoleAdmin}
		taskID := primitive.NewObjectID()
		ns := mt.DB.Name() + "." + mt.Coll.Name()

		mt.AddMockResponses(
			bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}},
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
				{Key: "_id", Value: taskID},
				{Key: "assignedTo", Value: bson.A{primitive.NewObjectID()}},
				{Key: "status", Value: models.TaskPending},
			}),
		)

		_, err := svc.EvaluateTask(context.Background(), admin, taskID, 4.5, "good")
		appErr, ok := utils.AsAppError(err)
		if !ok || appErr.Code != http.StatusBadRequest {
			mt.Fatalf("EvaluateTask error = %v, want a 400 state error", err)
		}
		if appErr.Message != "Task must be completed before evaluation" {
			mt.Errorf("message = %q", appErr.Message)
		}
	})
}
