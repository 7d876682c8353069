package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hmcleod/gamelobby/internal/api/handler"
	"github.com/hmcleod/gamelobby/internal/api/middleware"
	"github.com/hmcleod/gamelobby/internal/services/account"
	"github.com/hmcleod/gamelobby/internal/services/chat"
	"github.com/hmcleod/gamelobby/internal/services/room"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	AccountService *account.Service
	RoomService    *room.Service
	ChatService    *chat.Service
	Announcer      *chat.Announcer
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	userHandler := handler.NewUserHandler(cfg.AccountService, cfg.Announcer)
	lobbyHandler := handler.NewLobbyHandler(cfg.RoomService, cfg.AccountService, cfg.Announcer)
	chatHandler := handler.NewChatHandler(cfg.ChatService)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// User routes
	api.HandleFunc("/users/register", userHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/users/login", userHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/users/logout", userHandler.Logout).Methods(http.MethodPost)
	api.HandleFunc("/users/nickname", userHandler.ChangeNickname).Methods(http.MethodPatch)
	api.HandleFunc("/users/password", userHandler.ChangePassword).Methods(http.MethodPatch)
	api.HandleFunc("/users/{id}", userHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", userHandler.Delete).Methods(http.MethodDelete)

	// Lobby routes
	api.HandleFunc("/lobby", lobbyHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/lobby", lobbyHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/lobby/{id}", lobbyHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/lobby/{id}", lobbyHandler.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/lobby/{id}/join", lobbyHandler.Join).Methods(http.MethodPost)
	api.HandleFunc("/lobby/{id}/leave", lobbyHandler.Leave).Methods(http.MethodPost)
	api.HandleFunc("/lobby/{id}/kick", lobbyHandler.Kick).Methods(http.MethodPost)

	// Chat routes
	api.HandleFunc("/chat", chatHandler.Messages).Methods(http.MethodGet)
	api.HandleFunc("/chat", chatHandler.Send).Methods(http.MethodPost)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
