package room

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hmcleod/gamelobby/internal/model"
	"github.com/hmcleod/gamelobby/internal/repository"
)

// Service manages the game room membership state machine: join/leave,
// capacity, the password gate, and the creator-deletion cascade. It
// never writes storage directly; all writes go through repositories.
type Service struct {
	users  *repository.Users
	games  *repository.Games
	chat   *repository.Chat
	logger *slog.Logger
}

// NewService creates a new room service
func NewService(users *repository.Users, games *repository.Games, chat *repository.Chat, logger *slog.Logger) *Service {
	return &Service{
		users:  users,
		games:  games,
		chat:   chat,
		logger: logger,
	}
}

// Create validates and persists a new room with an empty member list
func (s *Service) Create(ctx context.Context, name string, creator model.UserID, maxPlayers int, password string) (*model.GameRoom, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: game name is required", model.ErrValidation)
	}
	if len(name) > model.MaxGameNameLength {
		return nil, fmt.Errorf("%w: game name must be at most %d characters", model.ErrValidation, model.MaxGameNameLength)
	}

	if maxPlayers == 0 {
		maxPlayers = model.DefaultMaxPlayers
	}
	if maxPlayers < model.MinMaxPlayers || maxPlayers > model.MaxMaxPlayers {
		return nil, fmt.Errorf("%w: max players must be between %d and %d",
			model.ErrValidation, model.MinMaxPlayers, model.MaxMaxPlayers)
	}

	if _, err := s.games.FindByName(ctx, name); err == nil {
		return nil, model.ErrGameNameExists
	} else if !errors.Is(err, model.ErrGameNotFound) {
		return nil, err
	}

	creatorUser, err := s.users.FindByID(ctx, creator)
	if err != nil {
		return nil, err
	}
	if creatorUser.Deleted {
		return nil, model.ErrUserNotFound
	}

	game, err := s.games.Create(ctx, &model.GameRoom{
		Name:            name,
		Creator:         creatorUser.UserID,
		CreatorNickname: creatorUser.Nickname,
		MaxPlayers:      maxPlayers,
		Password:        password,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.String("name", game.Name),
		slog.String("creator", string(game.Creator)),
		slog.Int("max_players", game.MaxPlayers))

	return game, nil
}

// Get retrieves a room by id
func (s *Service) Get(ctx context.Context, id model.GameID) (*model.GameRoom, error) {
	return s.games.FindByID(ctx, id)
}

// List returns every room
func (s *Service) List(ctx context.Context) ([]*model.GameRoom, error) {
	return s.games.FindAll(ctx)
}

// ListForUser returns the rooms the user created or is a member of
func (s *Service) ListForUser(ctx context.Context, userID model.UserID) ([]*model.GameRoom, error) {
	rooms, err := s.games.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]*model.GameRoom, 0, len(rooms))
	for _, room := range rooms {
		if room.Creator == userID || room.Member(userID) != nil {
			filtered = append(filtered, room)
		}
	}
	return filtered, nil
}

// Join adds the user to a room. A password-protected room with no
// password supplied yields ErrPasswordRequired, a distinct outcome the
// caller can re-prompt on; a wrong password fails. No slot is consumed
// in either case. The capacity check is atomic in the repository.
func (s *Service) Join(ctx context.Context, gameID model.GameID, userID model.UserID, password string) (*model.GameRoom, error) {
	game, err := s.games.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if game.HasPassword() {
		if password == "" {
			return nil, model.ErrPasswordRequired
		}
		if password != game.Password {
			return nil, model.ErrWrongGamePassword
		}
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Deleted {
		return nil, model.ErrUserNotFound
	}

	updated, err := s.games.AddPlayer(ctx, gameID, userID, user.Nickname)
	if err != nil {
		return nil, err
	}

	s.logger.Info("player joined game",
		slog.String("game_id", string(gameID)),
		slog.String("user_id", string(userID)))

	return updated, nil
}

// Leave removes the user from a room; leaving a room the user is not
// in fails with ErrNotInGame
func (s *Service) Leave(ctx context.Context, gameID model.GameID, userID model.UserID) (*model.GameRoom, error) {
	game, err := s.games.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Member(userID) == nil {
		return nil, model.ErrNotInGame
	}

	updated, err := s.games.RemovePlayer(ctx, gameID, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("player left game",
		slog.String("game_id", string(gameID)),
		slog.String("user_id", string(userID)))

	return updated, nil
}

// Kick lets the creator remove another member
func (s *Service) Kick(ctx context.Context, gameID model.GameID, requester, target model.UserID) (*model.GameRoom, error) {
	game, err := s.games.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Creator != requester {
		return nil, model.ErrNotCreator
	}
	if game.Member(target) == nil {
		return nil, model.ErrNotInGame
	}
	return s.games.RemovePlayer(ctx, gameID, target)
}

// Delete removes a room and cascades away its chat history. Only the
// creator may delete.
func (s *Service) Delete(ctx context.Context, gameID model.GameID, requester model.UserID) error {
	game, err := s.games.FindByID(ctx, gameID)
	if err != nil {
		return err
	}
	if game.Creator != requester {
		return model.ErrNotCreator
	}

	if err := s.games.Delete(ctx, gameID); err != nil {
		return err
	}
	removed, err := s.chat.DeleteByGame(ctx, gameID)
	if err != nil {
		return err
	}

	s.logger.Info("game deleted",
		slog.String("game_id", string(gameID)),
		slog.String("name", game.Name),
		slog.Int("chat_messages_removed", removed))

	return nil
}
