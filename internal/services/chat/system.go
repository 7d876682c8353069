package chat

import (
	"context"
	"fmt"

	"github.com/hmcleod/gamelobby/internal/model"
)

// Announcer broadcasts system messages, attributed to the reserved
// system user id and exempt from sender validation
type Announcer struct {
	chat *Service
}

// NewAnnouncer creates an announcer over the chat service
func NewAnnouncer(chat *Service) *Announcer {
	return &Announcer{chat: chat}
}

// ToLobby broadcasts a system message to the lobby channel
func (a *Announcer) ToLobby(ctx context.Context, message string) error {
	_, err := a.chat.Send(ctx, model.ChannelLobby, model.SystemUserID, message, "")
	return err
}

// ToGame broadcasts a system message to one game channel
func (a *Announcer) ToGame(ctx context.Context, gameID model.GameID, message string) error {
	_, err := a.chat.Send(ctx, model.ChannelGame, model.SystemUserID, message, gameID)
	return err
}

// Pre-defined message helpers

func (a *Announcer) UserJoined(ctx context.Context, gameID model.GameID, nickname string) error {
	return a.ToGame(ctx, gameID, fmt.Sprintf("%s joined the game", nickname))
}

func (a *Announcer) UserLeft(ctx context.Context, gameID model.GameID, nickname string) error {
	return a.ToGame(ctx, gameID, fmt.Sprintf("%s left the game", nickname))
}

func (a *Announcer) UserLoggedIn(ctx context.Context, nickname string) error {
	return a.ToLobby(ctx, fmt.Sprintf("%s logged in", nickname))
}

func (a *Announcer) UserLoggedOut(ctx context.Context, nickname string) error {
	return a.ToLobby(ctx, fmt.Sprintf("%s logged out", nickname))
}

func (a *Announcer) GameCreated(ctx context.Context, gameName, creatorNickname string) error {
	return a.ToLobby(ctx, fmt.Sprintf("%s created game %q", creatorNickname, gameName))
}

func (a *Announcer) GameDeleted(ctx context.Context, gameName, creatorNickname string) error {
	return a.ToLobby(ctx, fmt.Sprintf("%s deleted game %q", creatorNickname, gameName))
}

func (a *Announcer) UserDeleted(ctx context.Context, nickname string) error {
	return a.ToLobby(ctx, fmt.Sprintf("%s deleted their account", nickname))
}

func (a *Announcer) NicknameChanged(ctx context.Context, oldNickname, newNickname string) error {
	return a.ToLobby(ctx, fmt.Sprintf("%s changed their nickname to %s", oldNickname, newNickname))
}

func (a *Announcer) ServerStarted(ctx context.Context) error {
	return a.ToLobby(ctx, "Server started")
}

func (a *Announcer) ServerStopping(ctx context.Context) error {
	return a.ToLobby(ctx, "Server stopping...")
}
