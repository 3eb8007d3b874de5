package handlers

import (
	"net/http"

	"github.com/coderpranjal09/cystas-devsoft-Ems/services"
	"github.com/coderpranjal09/cystas-devsoft-Ems/utils"
)

type DashboardHandler struct {
	service *services.DashboardService
}

func NewDashboardHandler(service *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.AdminDashboard(r.Context())
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, stats)
}

func (h *DashboardHandler) ClientDashboard(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	stats, err := h.service.ClientDashboard(r.Context(), p)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, stats)
}
