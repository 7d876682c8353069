package model

import "time"

// GameID uniquely identifies a game room
type GameID string

// Player count and name limits
const (
	MinMaxPlayers     = 1
	MaxMaxPlayers     = 4
	DefaultMaxPlayers = 4
	MaxGameNameLength = 50
)

// GameMember is one entry in a room's member list. The nickname is a
// denormalized snapshot, kept in sync on nickname change and marked
// when the account is soft-deleted.
type GameMember struct {
	UserID   UserID
	Nickname string
	Deleted  bool
}

// GameRoom is a named, capacity-bounded membership context with its own
// chat channel
type GameRoom struct {
	ID              GameID
	Name            string // unique among rooms
	Creator         UserID
	CreatorNickname string // denormalized cache
	CreatorDeleted  bool
	MaxPlayers      int    // 1-4
	Password        string // empty = no password gate
	Players         []GameMember
	CreatedAt       time.Time
}

// Member returns the member entry for the given user, or nil if the
// user is not in the room
func (g *GameRoom) Member(id UserID) *GameMember {
	for i := range g.Players {
		if g.Players[i].UserID == id {
			return &g.Players[i]
		}
	}
	return nil
}

// HasPassword reports whether joining requires a password
func (g *GameRoom) HasPassword() bool {
	return g.Password != ""
}

// IsFull reports whether the room is at capacity
func (g *GameRoom) IsFull() bool {
	return len(g.Players) >= g.MaxPlayers
}
