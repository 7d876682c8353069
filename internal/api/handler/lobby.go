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
	"github.com/hmcleod/gamelobby/internal/services/room"
)

// LobbyHandler handles game room endpoints
type LobbyHandler struct {
	rooms     *room.Service
	accounts  *account.Service
	announcer *chat.Announcer
}

// NewLobbyHandler creates a new lobby handler
func NewLobbyHandler(rooms *room.Service, accounts *account.Service, announcer *chat.Announcer) *LobbyHandler {
	return &LobbyHandler{
		rooms:     rooms,
		accounts:  accounts,
		announcer: announcer,
	}
}

// List handles GET /api/v1/lobby
func (h *LobbyHandler) List(w http.ResponseWriter, r *http.Request) {
	if userID := r.URL.Query().Get("userId"); userID != "" {
		games, err := h.rooms.ListForUser(r.Context(), model.UserID(userID))
		if err != nil {
			apierr.WriteError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, response.GamesFromModel(games))
		return
	}

	games, err := h.rooms.List(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GamesFromModel(games))
}

// Create handles POST /api/v1/lobby
func (h *LobbyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	game, err := h.rooms.Create(r.Context(), req.Name, model.UserID(req.Creator), req.MaxPlayers, req.Password)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	_ = h.announcer.GameCreated(r.Context(), game.Name, game.CreatorNickname)

	response.JSON(w, http.StatusCreated, response.GameFromModel(game))
}

// Get handles GET /api/v1/lobby/{id}
func (h *LobbyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])

	game, err := h.rooms.Get(r.Context(), id)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(game))
}

// Join handles POST /api/v1/lobby/{id}/join
func (h *LobbyHandler) Join(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])

	var req request.JoinGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	game, err := h.rooms.Join(r.Context(), id, model.UserID(req.UserID), req.Password)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	if member := game.Member(model.UserID(req.UserID)); member != nil {
		_ = h.announcer.UserJoined(r.Context(), id, member.Nickname)
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(game))
}

// Leave handles POST /api/v1/lobby/{id}/leave
func (h *LobbyHandler) Leave(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])

	var req request.LeaveGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	user, err := h.accounts.Get(r.Context(), model.UserID(req.UserID))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	game, err := h.rooms.Leave(r.Context(), id, user.UserID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	_ = h.announcer.UserLeft(r.Context(), id, user.Nickname)

	response.JSON(w, http.StatusOK, response.GameFromModel(game))
}

// Kick handles POST /api/v1/lobby/{id}/kick
func (h *LobbyHandler) Kick(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])

	var req request.KickPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	target, err := h.accounts.Get(r.Context(), model.UserID(req.TargetID))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	game, err := h.rooms.Kick(r.Context(), id, model.UserID(req.RequesterID), target.UserID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	_ = h.announcer.ToGame(r.Context(), id, target.Nickname+" was kicked from the game")

	response.JSON(w, http.StatusOK, response.GameFromModel(game))
}

// Delete handles DELETE /api/v1/lobby/{id}
func (h *LobbyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])

	var req request.DeleteGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	game, err := h.rooms.Get(r.Context(), id)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	if err := h.rooms.Delete(r.Context(), id, model.UserID(req.UserID)); err != nil {
		apierr.WriteError(w, err)
		return
	}

	_ = h.announcer.GameDeleted(r.Context(), game.Name, game.CreatorNickname)

	response.NoContent(w)
}
