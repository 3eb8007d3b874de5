package handlers

import (
	"net/http"

	"github.com/coderpranjal09/cystas-devsoft-Ems/logging"
	"github.com/coderpranjal09/cystas-devsoft-Ems/models"
	"github.com/coderpranjal09/cystas-devsoft-Ems/services"
	"github.com/coderpranjal09/cystas-devsoft-Ems/utils"
)

type UserHandler struct {
	service *services.UserService
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	role := models.Role(r.URL.Query().Get("role"))
	if role != "" && !role.Valid() {
		utils.RespondError(w, utils.NewValidationError("Invalid role filter"))
		return
	}

	users, err := h.service.GetAllUsers(r.Context(), role)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondSuccessExtra(w, http.StatusOK, users, utils.Envelope{"results": len(users)})
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, user)
}

type createUserRequest struct {
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Password   string      `json:"password"`
	Role       models.Role `json:"role"`
	Department string      `json:"department"`
	MobNo      string      `json:"mobno"`
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeBody(r, &req); err != nil {
		utils.RespondError(w, err)
		return
	}
	if req.Role == "" {
		req.Role = models.RoleClient
	}

	user := models.User{
		Name:       req.Name,
		Email:      req.Email,
		Role:       req.Role,
		Department: req.Department,
		MobNo:      req.MobNo,
	}
	created, err := h.service.CreateUser(r.Context(), user, req.Password)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: USER_CREATED, Description: Admin created %s account for %s", created.Role, created.Email)
	utils.RespondSuccess(w, http.StatusCreated, created)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	var input services.UpdateUserInput
	if err := decodeBody(r, &input); err != nil {
		utils.RespondError(w, err)
		return
	}

	user, err := h.service.UpdateUser(r.Context(), id, input)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: USER_UPDATED, Description: Updated user %s", user.ID.Hex())
	utils.RespondSuccess(w, http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		utils.RespondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: USER_DELETED, Description: Deleted user %s", id.Hex())
	utils.RespondSuccess(w, http.StatusOK, nil)
}
