package handlers

import (
	"net/http"

	"github.com/coderpranjal09/cystas-devsoft-Ems/logging"
	"github.com/coderpranjal09/cystas-devsoft-Ems/models"
	"github.com/coderpranjal09/cystas-devsoft-Ems/services"
	"github.com/coderpranjal09/cystas-devsoft-Ems/utils"
)

type AuthHandler struct {
	service *services.AuthService
}

func NewAuthHandler(service *services.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

type registerRequest struct {
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Password   string      `json:"password"`
	Role       models.Role `json:"role"`
	Department string      `json:"department"`
	MobNo      string      `json:"mobno"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
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
	created, token, err := h.service.Register(r.Context(), user, req.Password)
	if err != nil {
		logging.Logger.Warnf("Event ID: USER_REGISTER_FAILED, Description: Registration failed for %s: %v", req.Email, err)
		utils.RespondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: New %s account for %s", created.Role, created.Email)
	utils.RespondSuccessExtra(w, http.StatusCreated, created, utils.Envelope{"token": token})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		utils.RespondError(w, err)
		return
	}

	user, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		logging.Logger.Warnf("Event ID: USER_LOGIN_FAILED, Description: Login failed for %s", req.Email)
		utils.RespondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: USER_LOGGED_IN, Description: %s logged in", user.Email)
	utils.RespondSuccessExtra(w, http.StatusOK, user, utils.Envelope{"token": token})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	user, err := h.service.GetUserByID(r.Context(), p.ID)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, user)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	var req changePasswordRequest
	if err := decodeBody(r, &req); err != nil {
		utils.RespondError(w, err)
		return
	}

	user, token, err := h.service.ChangePassword(r.Context(), p, req.CurrentPassword, req.NewPassword)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: PASSWORD_CHANGED, Description: Password changed for %s", user.Email)
	utils.RespondSuccessExtra(w, http.StatusOK, user, utils.Envelope{"token": token})
}
