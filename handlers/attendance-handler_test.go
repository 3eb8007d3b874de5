package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/coderpranjal09/cystas-devsoft-Ems/middleware"
	"github.com/coderpranjal09/cystas-devsoft-Ems/models"
	"github.com/coderpranjal09/cystas-devsoft-Ems/services"
)

func TestMarkAttendanceBatchPartialFailure(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("partial failure stays 201 with counts", func(mt *mtest.T) {
		svc := &services.AttendanceService{AttendanceCollection: mt.Coll}
		handler := NewAttendanceHandler(svc)
		admin := models.Principal{ID: primitive.NewObjectID(), Role: models.RoleAdmin}

		// Only the valid record reaches the database.
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		body := `{"records": [
			{"userId": "` + primitive.NewObjectID().Hex() + `", "date": "2024-05-10", "status": "present"},
			{"userId": "not-an-id", "date": "2024-05-10", "status": "present"}
		]}`
		req := httptest.NewRequest(http.MethodPost, "/api/admin/attendance/batch", strings.NewReader(body))
		req = req.WithContext(middleware.WithPrincipal(req.Context(), admin))
		rec := httptest.NewRecorder()

		handler.MarkAttendanceBatch(rec, req)

		if rec.Code != http.StatusCreated {
			mt.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
		}

		var envelope struct {
			Status    string `json:"status"`
			Succeeded int    `json:"succeeded"`
			Failed    int    `json:"failed"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			mt.Fatalf("decode response: %v", err)
		}
		if envelope.Status != "success" {
			mt.Errorf("envelope status = %q", envelope.Status)
		}
		if envelope.Succeeded != 1 || envelope.Failed != 1 {
			mt.Errorf("counts = %d/%d, want 1/1", envelope.Succeeded, envelope.Failed)
		}
	})
}
