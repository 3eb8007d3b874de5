package handlers

import (
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coderpranjal09/cystas-devsoft-Ems/logging"
	"github.com/coderpranjal09/cystas-devsoft-Ems/models"
	"github.com/coderpranjal09/cystas-devsoft-Ems/services"
	"github.com/coderpranjal09/cystas-devsoft-Ems/utils"
)

type ProjectHandler struct {
	service *services.ProjectService
}

func NewProjectHandler(service *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

type createProjectRequest struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Client      string                 `json:"client"`
	Manager     primitive.ObjectID     `json:"manager"`
	Team        []primitive.ObjectID   `json:"team"`
	StartDate   time.Time              `json:"startDate"`
	EndDate     time.Time              `json:"endDate"`
	LastDate    *time.Time             `json:"lastDate"`
	Status      models.ProjectStatus   `json:"status"`
	Priority    models.ProjectPriority `json:"priority"`
	Budget      *float64               `json:"budget"`
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeBody(r, &req); err != nil {
		utils.RespondError(w, err)
		return
	}

	project := models.Project{
		Name:        req.Name,
		Description: req.Description,
		Client:      req.Client,
		Manager:     req.Manager,
		Team:        req.Team,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		LastDate:    req.LastDate,
		Status:      req.Status,
		Priority:    req.Priority,
		Budget:      req.Budget,
	}
	created, err := h.service.CreateProject(r.Context(), project)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: PROJECT_CREATED, Description: Created project '%s'", created.Name)
	utils.RespondSuccess(w, http.StatusCreated, created)
}

func (h *ProjectHandler) GetAllProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.GetAllProjects(r.Context())
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondSuccessExtra(w, http.StatusOK, projects, utils.Envelope{"results": len(projects)})
}

// GetMyProjects lists the projects the caller belongs to.
func (h *ProjectHandler) GetMyProjects(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	projects, err := h.service.GetProjectsFor(r.Context(), p)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondSuccessExtra(w, http.StatusOK, projects, utils.Envelope{"results": len(projects)})
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
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

	project, err := h.service.GetProjectFor(r.Context(), p, id)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, project)
}

func (h *ProjectHandler) GetProjectTeam(w http.ResponseWriter, r *http.Request) {
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

	manager, team, err := h.service.GetProjectTeam(r.Context(), p, id)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, utils.Envelope{"manager": manager, "team": team})
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	var input services.UpdateProjectInput
	if err := decodeBody(r, &input); err != nil {
		utils.RespondError(w, err)
		return
	}

	project, err := h.service.UpdateProject(r.Context(), id, input)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: PROJECT_UPDATED, Description: Updated project %s", project.ID.Hex())
	utils.RespondSuccess(w, http.StatusOK, project)
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	if err := h.service.DeleteProject(r.Context(), id); err != nil {
		utils.RespondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: PROJECT_DELETED, Description: Deleted project %s", id.Hex())
	utils.RespondSuccess(w, http.StatusOK, nil)
}
