// Package response defines the JSON response bodies for the API
package response

import (
	"time"

	"github.com/hmcleod/gamelobby/internal/model"
)

// User is the wire form of a user account. The password hash never
// leaves the core.
type User struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Nickname  string    `json:"nickname"`
	Deleted   bool      `json:"deleted"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserFromModel converts a model user to its wire form
func UserFromModel(u *model.User) User {
	return User{
		UserID:    string(u.UserID),
		Username:  u.Username,
		Nickname:  u.Nickname,
		Deleted:   u.Deleted,
		CreatedAt: u.CreatedAt,
	}
}

// GameMember is the wire form of one room member entry
type GameMember struct {
	UserID   string `json:"userId"`
	Nickname string `json:"nickname"`
	Deleted  bool   `json:"deleted,omitempty"`
}

// Game is the wire form of a game room. The join password never
// leaves the core; HasPassword tells clients to prompt.
type Game struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Creator         string       `json:"creator"`
	CreatorNickname string       `json:"creatorNickname"`
	CreatorDeleted  bool         `json:"creatorDeleted,omitempty"`
	MaxPlayers      int          `json:"maxPlayers"`
	HasPassword     bool         `json:"hasPassword"`
	Players         []GameMember `json:"players"`
	Created         time.Time    `json:"created"`
}

// GameFromModel converts a model room to its wire form
func GameFromModel(g *model.GameRoom) Game {
	players := make([]GameMember, len(g.Players))
	for i, m := range g.Players {
		players[i] = GameMember{
			UserID:   string(m.UserID),
			Nickname: m.Nickname,
			Deleted:  m.Deleted,
		}
	}
	return Game{
		ID:              string(g.ID),
		Name:            g.Name,
		Creator:         string(g.Creator),
		CreatorNickname: g.CreatorNickname,
		CreatorDeleted:  g.CreatorDeleted,
		MaxPlayers:      g.MaxPlayers,
		HasPassword:     g.HasPassword(),
		Players:         players,
		Created:         g.CreatedAt,
	}
}

// GamesFromModel converts a room list to wire form
func GamesFromModel(games []*model.GameRoom) []Game {
	out := make([]Game, len(games))
	for i, g := range games {
		out[i] = GameFromModel(g)
	}
	return out
}

// Message is the wire form of a chat message
type Message struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	GameID      string    `json:"gameId,omitempty"`
	UserID      string    `json:"userId"`
	Username    string    `json:"username"`
	Nickname    string    `json:"nickname"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
	Private     bool      `json:"private,omitempty"`
	RecipientID string    `json:"recipientId,omitempty"`
	Deleted     bool      `json:"deleted,omitempty"`
}

// MessageFromModel converts a model message to its wire form
func MessageFromModel(m *model.ChatMessage) Message {
	return Message{
		ID:          m.ID,
		Type:        string(m.Type),
		GameID:      string(m.GameID),
		UserID:      string(m.UserID),
		Username:    m.Username,
		Nickname:    m.Nickname,
		Message:     m.Message,
		Timestamp:   m.Timestamp,
		Private:     m.Private,
		RecipientID: string(m.RecipientID),
		Deleted:     m.Deleted,
	}
}

// MessagesFromModel converts a message list to wire form
func MessagesFromModel(messages []*model.ChatMessage) []Message {
	out := make([]Message, len(messages))
	for i, m := range messages {
		out[i] = MessageFromModel(m)
	}
	return out
}
