package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hmcleod/gamelobby/internal/api/apierr"
	"github.com/hmcleod/gamelobby/internal/api/request"
	"github.com/hmcleod/gamelobby/internal/api/response"
	"github.com/hmcleod/gamelobby/internal/model"
	"github.com/hmcleod/gamelobby/internal/services/account"
	"github.com/hmcleod/gamelobby/internal/services/chat"
)

// UserHandler handles account endpoints
type UserHandler struct {
	accounts  *account.Service
	announcer *chat.Announcer
}

// NewUserHandler creates a new user handler
func NewUserHandler(accounts *account.Service, announcer *chat.Announcer) *UserHandler {
	return &UserHandler{
		accounts:  accounts,
		announcer: announcer,
	}
}

// Register handles POST /api/v1/users/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	user, err := h.accounts.Register(r.Context(), req.Username, req.Password, req.Nickname)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.UserFromModel(user))
}

// Login handles POST /api/v1/users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	user, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	_ = h.announcer.UserLoggedIn(r.Context(), user.Nickname)

	response.JSON(w, http.StatusOK, response.UserFromModel(user))
}

// Logout handles POST /api/v1/users/logout
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req request.LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	user, err := h.accounts.Get(r.Context(), model.UserID(req.UserID))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	if err := h.accounts.Logout(r.Context(), user.UserID); err != nil {
		apierr.WriteError(w, err)
		return
	}

	_ = h.announcer.UserLoggedOut(r.Context(), user.Nickname)

	response.NoContent(w)
}

// Get handles GET /api/v1/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.UserID(mux.Vars(r)["id"])

	user, err := h.accounts.Get(r.Context(), id)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromModel(user))
}

// ChangeNickname handles PATCH /api/v1/users/nickname
func (h *UserHandler) ChangeNickname(w http.ResponseWriter, r *http.Request) {
	var req request.ChangeNicknameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	before, err := h.accounts.Get(r.Context(), model.UserID(req.UserID))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	oldNickname := before.Nickname

	user, err := h.accounts.ChangeNickname(r.Context(), model.UserID(req.UserID), req.Nickname)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	if oldNickname != user.Nickname {
		_ = h.announcer.NicknameChanged(r.Context(), oldNickname, user.Nickname)
	}

	response.JSON(w, http.StatusOK, response.UserFromModel(user))
}

// ChangePassword handles PATCH /api/v1/users/password
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req request.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.accounts.ChangePassword(r.Context(), model.UserID(req.UserID), req.CurrentPassword, req.NewPassword); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Delete handles DELETE /api/v1/users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := model.UserID(mux.Vars(r)["id"])

	user, err := h.accounts.Get(r.Context(), id)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	if err := h.accounts.DeleteAccount(r.Context(), id); err != nil {
		apierr.WriteError(w, err)
		return
	}

	_ = h.announcer.UserDeleted(r.Context(), user.Nickname)

	response.NoContent(w)
}
