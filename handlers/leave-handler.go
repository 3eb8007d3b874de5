package handlers

import (
	"net/http"
	"time"

	"github.com/coderpranjal09/cystas-devsoft-Ems/logging"
	"github.com/coderpranjal09/cystas-devsoft-Ems/models"
	"github.com/coderpranjal09/cystas-devsoft-Ems/services"
	"github.com/coderpranjal09/cystas-devsoft-Ems/utils"
)

type LeaveHandler struct {
	service  *services.LeaveService
	notifier *services.Notifier
}

func NewLeaveHandler(service *services.LeaveService, notifier *services.Notifier) *LeaveHandler {
	return &LeaveHandler{service: service, notifier: notifier}
}

type applyLeaveRequest struct {
	Type      models.LeaveType `json:"type"`
	StartDate time.Time        `json:"startDate"`
	EndDate   time.Time        `json:"endDate"`
	Reason    string           `json:"reason"`
}

func (h *LeaveHandler) ApplyForLeave(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	var req applyLeaveRequest
	if err := decodeBody(r, &req); err != nil {
		utils.RespondError(w, err)
		return
	}

	leave, err := h.service.ApplyForLeave(r.Context(), p, req.Type, req.StartDate, req.EndDate, req.Reason)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: LEAVE_APPLIED, Description: %s requested %d days of %s leave", p.ID.Hex(), leave.Days, leave.Type)
	utils.RespondSuccess(w, http.StatusCreated, leave)
}

func (h *LeaveHandler) GetMyLeaves(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	leaves, err := h.service.GetMyLeaves(r.Context(), p)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondSuccessExtra(w, http.StatusOK, leaves, utils.Envelope{"results": len(leaves)})
}

func (h *LeaveHandler) CancelLeave(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	id, err := idFromRequest(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	if err := h.service.CancelLeave(r.Context(), p, id); err != nil {
		utils.RespondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: LEAVE_CANCELLED, Description: %s cancelled leave %s", p.ID.Hex(), id.Hex())
	utils.RespondSuccess(w, http.StatusOK, nil)
}

func parseDateParam(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, utils.NewValidationError("Invalid date: " + raw)
}

func (h *LeaveHandler) ListLeaves(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	status := models.LeaveStatus(q.Get("status"))
	if status != "" && status != models.LeavePending && status != models.LeaveApproved && status != models.LeaveRejected {
		utils.RespondError(w, utils.NewValidationError("Invalid leave status filter"))
		return
	}
	leaveType := models.LeaveType(q.Get("type"))
	if leaveType != "" && !leaveType.Valid() {
		utils.RespondError(w, utils.NewValidationError("Invalid leave type filter"))
		return
	}
	startDate, err := parseDateParam(q.Get("startDate"))
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	endDate, err := parseDateParam(q.Get("endDate"))
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	opts := services.ListLeavesOptions{
		Status:     status,
		Type:       leaveType,
		Department: q.Get("department"),
		StartDate:  startDate,
		EndDate:    endDate,
		Sort:       q.Get("sort"),
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", 10),
	}
	leaves, total, err := h.service.ListLeaves(r.Context(), opts)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondSuccessExtra(w, http.StatusOK, leaves, utils.Envelope{
		"results": len(leaves),
		"total":   total,
		"page":    opts.Page,
		"limit":   opts.Limit,
	})
}

func (h *LeaveHandler) LeaveStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	startDate, err := parseDateParam(q.Get("startDate"))
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	endDate, err := parseDateParam(q.Get("endDate"))
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	stats, err := h.service.LeaveStats(r.Context(), q.Get("department"), startDate, endDate)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, stats)
}

func (h *LeaveHandler) GetLeave(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	leave, err := h.service.GetLeave(r.Context(), id)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, leave)
}

type decideLeaveRequest struct {
	Status          models.LeaveStatus `json:"status"`
	RejectionReason string             `json:"rejectionReason"`
}

func (h *LeaveHandler) DecideLeave(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	id, err := idFromRequest(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	var req decideLeaveRequest
	if err := decodeBody(r, &req); err != nil {
		utils.RespondError(w, err)
		return
	}

	leave, err := h.service.DecideLeave(r.Context(), p, id, req.Status, req.RejectionReason)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: LEAVE_DECIDED, Description: Leave %s %s by %s", id.Hex(), leave.Status, p.ID.Hex())
	h.notifier.LeaveDecided(r.Context(), leave)
	utils.RespondSuccess(w, http.StatusOK, leave)
}
