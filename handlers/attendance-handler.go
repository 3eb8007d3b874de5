package handlers

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coderpranjal09/cystas-devsoft-Ems/logging"
	"github.com/coderpranjal09/cystas-devsoft-Ems/services"
	"github.com/coderpranjal09/cystas-devsoft-Ems/utils"
)

type AttendanceHandler struct {
	service *services.AttendanceService
}

func NewAttendanceHandler(service *services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

func (h *AttendanceHandler) MarkAttendance(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	var input services.MarkAttendanceInput
	if err := decodeBody(r, &input); err != nil {
		utils.RespondError(w, err)
		return
	}

	attendance, err := h.service.MarkAttendance(r.Context(), p, input)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: ATTENDANCE_MARKED, Description: %s marked %s for user %s", p.ID.Hex(), attendance.Status, input.UserID)
	utils.RespondSuccess(w, http.StatusCreated, attendance)
}

type batchAttendanceRequest struct {
	Records []services.MarkAttendanceInput `json:"records"`
}

// MarkAttendanceBatch writes what it can and reports the rest; a bad record
// never rolls back its predecessors.
func (h *AttendanceHandler) MarkAttendanceBatch(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	var req batchAttendanceRequest
	if err := decodeBody(r, &req); err != nil {
		utils.RespondError(w, err)
		return
	}

	result, err := h.service.MarkAttendanceBatch(r.Context(), p, req.Records)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: ATTENDANCE_BATCH, Description: Batch by %s: %d succeeded, %d failed", p.ID.Hex(), len(result.Successful), len(result.Failed))
	utils.RespondSuccessExtra(w, http.StatusCreated, result, utils.Envelope{
		"succeeded": len(result.Successful),
		"failed":    len(result.Failed),
	})
}

func (h *AttendanceHandler) GetAllAttendance(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 100)

	records, err := h.service.GetAllAttendance(r.Context(), limit)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondSuccessExtra(w, http.StatusOK, records, utils.Envelope{"results": len(records)})
}

// GetUserAttendance is the admin view of one user's ledger, optionally
// narrowed to a month.
func (h *AttendanceHandler) GetUserAttendance(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	userID, err := idFromRequest(r, "userId")
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	records, err := h.service.QueryAttendance(r.Context(), p, userID,
		int(queryInt(r, "year", 0)), int(queryInt(r, "month", 0)))
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondSuccessExtra(w, http.StatusOK, records, utils.Envelope{"results": len(records)})
}

// GetMyAttendance is the employee view of their own ledger.
func (h *AttendanceHandler) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	records, err := h.service.QueryAttendance(r.Context(), p, primitive.NilObjectID,
		int(queryInt(r, "year", 0)), int(queryInt(r, "month", 0)))
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondSuccessExtra(w, http.StatusOK, records, utils.Envelope{"results": len(records)})
}

func (h *AttendanceHandler) GetAttendanceRecord(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	attendance, err := h.service.GetAttendanceRecord(r.Context(), id)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, attendance)
}

func (h *AttendanceHandler) UpdateAttendance(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	var input services.UpdateAttendanceInput
	if err := decodeBody(r, &input); err != nil {
		utils.RespondError(w, err)
		return
	}

	attendance, err := h.service.UpdateAttendance(r.Context(), id, input)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: ATTENDANCE_UPDATED, Description: Updated attendance record %s", id.Hex())
	utils.RespondSuccess(w, http.StatusOK, attendance)
}

func (h *AttendanceHandler) DeleteAttendance(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	if err := h.service.DeleteAttendance(r.Context(), id); err != nil {
		utils.RespondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: ATTENDANCE_DELETED, Description: Deleted attendance record %s", id.Hex())
	utils.RespondSuccess(w, http.StatusOK, nil)
}
