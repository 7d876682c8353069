// Package request defines the JSON request bodies for the API
package request

// RegisterRequest is the body for POST /users/register
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Nickname string `json:"nickname,omitempty"`
}

// LoginRequest is the body for POST /users/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LogoutRequest is the body for POST /users/logout
type LogoutRequest struct {
	UserID string `json:"userId"`
}

// ChangeNicknameRequest is the body for PATCH /users/nickname
type ChangeNicknameRequest struct {
	UserID   string `json:"userId"`
	Nickname string `json:"nickname"`
}

// ChangePasswordRequest is the body for PATCH /users/password
type ChangePasswordRequest struct {
	UserID          string `json:"userId"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// CreateGameRequest is the body for POST /lobby
type CreateGameRequest struct {
	Name       string `json:"name"`
	Creator    string `json:"creator"`
	MaxPlayers int    `json:"maxPlayers,omitempty"`
	Password   string `json:"password,omitempty"`
}

// JoinGameRequest is the body for POST /lobby/{id}/join
type JoinGameRequest struct {
	UserID   string `json:"userId"`
	Password string `json:"password,omitempty"`
}

// LeaveGameRequest is the body for POST /lobby/{id}/leave
type LeaveGameRequest struct {
	UserID string `json:"userId"`
}

// KickPlayerRequest is the body for POST /lobby/{id}/kick
type KickPlayerRequest struct {
	RequesterID string `json:"requesterId"`
	TargetID    string `json:"targetId"`
}

// DeleteGameRequest is the body for DELETE /lobby/{id}
type DeleteGameRequest struct {
	UserID string `json:"userId"`
}

// SendMessageRequest is the body for POST /chat
type SendMessageRequest struct {
	Type    string `json:"type"`
	UserID  string `json:"userId"`
	Message string `json:"message"`
	GameID  string `json:"gameId,omitempty"`
}
