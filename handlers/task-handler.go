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

type TaskHandler struct {
	service  *services.TaskService
	notifier *services.Notifier
}

func NewTaskHandler(service *services.TaskService, notifier *services.Notifier) *TaskHandler {
	return &TaskHandler{service: service, notifier: notifier}
}

type createTaskRequest struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	AssignedTo  []primitive.ObjectID `json:"assignedTo"`
	DueDate     time.Time            `json:"dueDate"`
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	var req createTaskRequest
	if err := decodeBody(r, &req); err != nil {
		utils.RespondError(w, err)
		return
	}

	task, err := h.service.CreateTask(r.Context(), p, req.Title, req.Description, req.AssignedTo, req.DueDate)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Created task '%s'", task.Title)
	utils.RespondSuccess(w, http.StatusCreated, task)
}

func (h *TaskHandler) GetAllTasks(w http.ResponseWriter, r *http.Request) {
	status := models.TaskStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		utils.RespondError(w, utils.NewValidationError("Invalid task status filter"))
		return
	}
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)

	tasks, total, err := h.service.GetAllTasks(r.Context(), page, limit, status)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondSuccessExtra(w, http.StatusOK, tasks, utils.Envelope{
		"results": len(tasks),
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	task, err := h.service.GetTask(r.Context(), id)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, task)
}

// GetMyTasks lists tasks assigned to the caller.
func (h *TaskHandler) GetMyTasks(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	status := models.TaskStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		utils.RespondError(w, utils.NewValidationError("Invalid task status filter"))
		return
	}

	tasks, err := h.service.GetMyTasks(r.Context(), p, status)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondSuccessExtra(w, http.StatusOK, tasks, utils.Envelope{"results": len(tasks)})
}

type submitTaskRequest struct {
	Description string `json:"description"`
	ProjectURL  string `json:"projectUrl"`
}

func (h *TaskHandler) SubmitTask(w http.ResponseWriter, r *http.Request) {
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

	var req submitTaskRequest
	if err := decodeBody(r, &req); err != nil {
		utils.RespondError(w, err)
		return
	}

	task, err := h.service.SubmitTask(r.Context(), p, id, req.Description, req.ProjectURL)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: TASK_SUBMITTED, Description: Task %s submitted by %s", id.Hex(), p.ID.Hex())
	utils.RespondSuccess(w, http.StatusOK, task)
}

type evaluateTaskRequest struct {
	Rating   float64 `json:"rating"`
	Feedback string  `json:"feedback"`
}

func (h *TaskHandler) EvaluateTask(w http.ResponseWriter, r *http.Request) {
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

	var req evaluateTaskRequest
	if err := decodeBody(r, &req); err != nil {
		utils.RespondError(w, err)
		return
	}

	task, err := h.service.EvaluateTask(r.Context(), p, id, req.Rating, req.Feedback)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: TASK_EVALUATED, Description: Task %s rated %.1f", id.Hex(), req.Rating)
	h.notifier.TaskEvaluated(r.Context(), task)
	utils.RespondSuccess(w, http.StatusOK, task)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	var input services.UpdateTaskInput
	if err := decodeBody(r, &input); err != nil {
		utils.RespondError(w, err)
		return
	}

	task, err := h.service.UpdateTask(r.Context(), id, input)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: TASK_UPDATED, Description: Updated task %s", task.ID.Hex())
	utils.RespondSuccess(w, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	if err := h.service.DeleteTask(r.Context(), id); err != nil {
		utils.RespondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Deleted task %s", id.Hex())
	utils.RespondSuccess(w, http.StatusOK, nil)
}
