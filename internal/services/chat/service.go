package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/hmcleod/gamelobby/internal/model"
	"github.com/hmcleod/gamelobby/internal/repository"
)

// Service manages message creation and retrieval for the lobby channel
// and per-game channels, including the visibility rules and the slash
// command dispatch
type Service struct {
	users    *repository.Users
	games    *repository.Games
	chat     *repository.Chat
	commands *CommandRegistry
	logger   *slog.Logger
}

// NewService creates a new chat service with an empty command registry
func NewService(users *repository.Users, games *repository.Games, chat *repository.Chat, logger *slog.Logger) *Service {
	return &Service{
		users:    users,
		games:    games,
		chat:     chat,
		commands: NewCommandRegistry(),
		logger:   logger,
	}
}

// Commands returns the slash command registry for wiring
func (s *Service) Commands() *CommandRegistry {
	return s.commands
}

// Messages returns the visible message history for a channel: the most
// recent 100 messages, oldest-first. Game channels require the viewer
// to be a member. System and public messages are always visible;
// private messages only to their sender and recipient.
func (s *Service) Messages(ctx context.Context, t model.ChannelType, gameID model.GameID, viewer model.UserID) ([]*model.ChatMessage, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: valid chat type (lobby/game) is required", model.ErrValidation)
	}

	var messages []*model.ChatMessage
	var err error

	if t == model.ChannelLobby {
		messages, err = s.chat.FindByType(ctx, model.ChannelLobby)
	} else {
		if gameID == "" {
			return nil, fmt.Errorf("%w: game id is required for game chat", model.ErrValidation)
		}
		if _, err := s.games.FindByID(ctx, gameID); err != nil {
			return nil, err
		}
		if viewer == "" {
			return nil, fmt.Errorf("%w: user id is required for game chat", model.ErrValidation)
		}
		inGame, memberErr := s.games.IsPlayerInGame(ctx, gameID, viewer)
		if memberErr != nil {
			return nil, memberErr
		}
		if !inGame {
			return nil, model.ErrNotInGame
		}
		messages, err = s.chat.FindByGame(ctx, gameID)
	}
	if err != nil {
		return nil, err
	}

	visible := make([]*model.ChatMessage, 0, len(messages))
	for _, msg := range messages {
		if msg.VisibleTo(viewer) {
			visible = append(visible, msg)
		}
	}
	return visible, nil
}

// Send validates and persists a message. The system user bypasses all
// validation and persists with the fixed "system"/"System" identity.
// A leading slash dispatches to the command registry; a recognized
// command short-circuits persistence and returns a nil message.
func (s *Service) Send(ctx context.Context, t model.ChannelType, sender model.UserID, text string, gameID model.GameID) (*model.ChatMessage, error) {
	if sender == model.SystemUserID {
		msg := &model.ChatMessage{
			Type:     t,
			UserID:   model.SystemUserID,
			Username: model.SystemUsername,
			Nickname: model.SystemNickname,
			Message:  strings.TrimSpace(text),
		}
		if t == model.ChannelGame {
			msg.GameID = gameID
		}
		return s.chat.Create(ctx, msg)
	}

	if !t.Valid() {
		return nil, fmt.Errorf("%w: valid chat type (lobby/game) is required", model.ErrValidation)
	}
	text = strings.TrimSpace(text)
	if sender == "" || text == "" {
		return nil, fmt.Errorf("%w: user id and message are required", model.ErrValidation)
	}

	user, err := s.users.FindByID(ctx, sender)
	if err != nil {
		return nil, err
	}

	// The limit counts characters of the trimmed message, not bytes
	if utf8.RuneCountInString(text) > model.MaxMessageLength {
		return nil, fmt.Errorf("%w: message too long (max %d characters)", model.ErrValidation, model.MaxMessageLength)
	}

	if t == model.ChannelGame {
		if gameID == "" {
			return nil, fmt.Errorf("%w: game id is required for game chat", model.ErrValidation)
		}
		if _, err := s.games.FindByID(ctx, gameID); err != nil {
			return nil, err
		}
		inGame, err := s.games.IsPlayerInGame(ctx, gameID, sender)
		if err != nil {
			return nil, err
		}
		if !inGame {
			return nil, model.ErrNotInGame
		}
	}

	if strings.HasPrefix(text, "/") {
		handled, err := s.commands.Dispatch(ctx, t, sender, text, gameID)
		if err != nil {
			return nil, err
		}
		if handled {
			return nil, nil
		}
	}

	msg := &model.ChatMessage{
		Type:     t,
		UserID:   user.UserID,
		Username: user.Username,
		Nickname: user.Nickname,
		Message:  text,
	}
	if t == model.ChannelGame {
		msg.GameID = gameID
	}
	return s.chat.Create(ctx, msg)
}

// sendPrivate persists a private message from sender to recipient,
// visible only to the two of them. Used by the /msg command.
func (s *Service) sendPrivate(ctx context.Context, t model.ChannelType, sender *model.User, recipient model.UserID, text string, gameID model.GameID) (*model.ChatMessage, error) {
	msg := &model.ChatMessage{
		Type:        t,
		UserID:      sender.UserID,
		Username:    sender.Username,
		Nickname:    sender.Nickname,
		Message:     strings.TrimSpace(text),
		Private:     true,
		RecipientID: recipient,
	}
	if t == model.ChannelGame {
		msg.GameID = gameID
	}
	return s.chat.Create(ctx, msg)
}

// DeleteGameChat removes a game channel's history; creator only
func (s *Service) DeleteGameChat(ctx context.Context, gameID model.GameID, requester model.UserID) error {
	game, err := s.games.FindByID(ctx, gameID)
	if err != nil {
		return err
	}
	if game.Creator != requester {
		return model.ErrNotCreator
	}
	_, err = s.chat.DeleteByGame(ctx, gameID)
	return err
}

// MarkUserMessagesDeleted bulk-marks a sender's messages deleted;
// pass-through to the repository
func (s *Service) MarkUserMessagesDeleted(ctx context.Context, userID model.UserID) error {
	_, err := s.chat.MarkUserDeleted(ctx, userID)
	return err
}

// UpdateUserNickname rewrites the nickname snapshot on a sender's
// messages; pass-through to the repository
func (s *Service) UpdateUserNickname(ctx context.Context, userID model.UserID, nickname string) error {
	_, err := s.chat.UpdateSenderNickname(ctx, userID, nickname)
	return err
}
