package model

import "time"

// ChannelType distinguishes the global lobby channel from per-game channels
type ChannelType string

const (
	ChannelLobby ChannelType = "lobby"
	ChannelGame  ChannelType = "game"
)

// Valid reports whether t is a known channel type
func (t ChannelType) Valid() bool {
	return t == ChannelLobby || t == ChannelGame
}

// Chat limits
const (
	MaxMessageLength = 500
	ChatHistoryLimit = 100
)

// ChatMessage is one message in the lobby channel or a game channel.
// Username and nickname are snapshots taken at send time; the nickname
// is updated retroactively when the sender changes theirs.
type ChatMessage struct {
	ID          string
	Type        ChannelType
	GameID      GameID // set iff Type == ChannelGame
	UserID      UserID
	Username    string
	Nickname    string
	Message     string
	Timestamp   time.Time
	Private     bool
	RecipientID UserID // set iff Private
	Deleted     bool   // set when the sender's account is deleted
}

// IsSystem reports whether the message was sent by the system user
func (m *ChatMessage) IsSystem() bool {
	return m.UserID == SystemUserID
}

// VisibleTo reports whether the given viewer may see this message.
// System and public messages are visible to everyone; private messages
// only to their sender and recipient.
func (m *ChatMessage) VisibleTo(viewer UserID) bool {
	if m.IsSystem() || !m.Private {
		return true
	}
	return viewer != "" && (m.UserID == viewer || m.RecipientID == viewer)
}
