package handler

import (
	"encoding/json"
	"net/http"

	"github.com/hmcleod/gamelobby/internal/api/apierr"
	"github.com/hmcleod/gamelobby/internal/api/request"
	"github.com/hmcleod/gamelobby/internal/api/response"
	"github.com/hmcleod/gamelobby/internal/model"
	"github.com/hmcleod/gamelobby/internal/services/chat"
)

// ChatHandler handles chat endpoints
type ChatHandler struct {
	chat *chat.Service
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *chat.Service) *ChatHandler {
	return &ChatHandler{chat: chatService}
}

// Messages handles GET /api/v1/chat.
// Query params: type (lobby/game), gameId (game chat), userId (viewer).
func (h *ChatHandler) Messages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	channelType := model.ChannelType(q.Get("type"))
	gameID := model.GameID(q.Get("gameId"))
	viewer := model.UserID(q.Get("userId"))

	messages, err := h.chat.Messages(r.Context(), channelType, gameID, viewer)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MessagesFromModel(messages))
}

// Send handles POST /api/v1/chat. A recognized slash command is
// consumed without creating a message, so the response is 204.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req request.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	msg, err := h.chat.Send(r.Context(),
		model.ChannelType(req.Type),
		model.UserID(req.UserID),
		req.Message,
		model.GameID(req.GameID))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	if msg == nil {
		response.NoContent(w)
		return
	}

	response.JSON(w, http.StatusCreated, response.MessageFromModel(msg))
}
