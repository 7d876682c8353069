package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/hmcleod/gamelobby/internal/dependencies/ident"
	"github.com/hmcleod/gamelobby/internal/model"
	"github.com/hmcleod/gamelobby/internal/repository"
	"github.com/hmcleod/gamelobby/internal/store"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
)

var (
	usernamePattern = regexp.MustCompile(`^[a-z0-9]{3,30}$`)
	nicknamePattern = regexp.MustCompile(`^[A-Za-z0-9\[\]_='\- ]{1,30}$`)
	multiSpace      = regexp.MustCompile(`\s+`)
)

// Service owns account lifecycle and is the single source of truth for
// the cross-entity cascades: a nickname change or account deletion
// propagates from here to the user record, every room's member
// entries, and the chat history.
type Service struct {
	users  *repository.Users
	games  *repository.Games
	chat   *repository.Chat
	ident  ident.Generator
	logger *slog.Logger
}

// NewService creates a new account service
func NewService(users *repository.Users, games *repository.Games, chat *repository.Chat, id ident.Generator, logger *slog.Logger) *Service {
	return &Service{
		users:  users,
		games:  games,
		chat:   chat,
		ident:  id,
		logger: logger,
	}
}

// validatePassword enforces the password policy: at least 8
// characters with an uppercase letter, a lowercase letter, a digit,
// and a special character
func validatePassword(password string) error {
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune("@$!%*?&", r):
			hasSpecial = true
		}
	}
	if len(password) < 8 || !hasUpper || !hasLower || !hasDigit || !hasSpecial {
		return fmt.Errorf("%w: password must be at least 8 characters and contain an uppercase letter, a lowercase letter, a number, and a special character", model.ErrValidation)
	}
	return nil
}

// normalizeNickname trims and collapses inner whitespace
func normalizeNickname(nickname string) string {
	return multiSpace.ReplaceAllString(strings.TrimSpace(nickname), " ")
}

// Register creates a new account. The username is case-normalized; the
// nickname defaults to the username. Passwords are stored as bcrypt
// hashes and never compared in plaintext.
func (s *Service) Register(ctx context.Context, username, password, nickname string) (*model.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if !usernamePattern.MatchString(username) {
		return nil, fmt.Errorf("%w: username must be 3-30 characters, lowercase letters and numbers only", model.ErrValidation)
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	nickname = normalizeNickname(nickname)
	if nickname == "" {
		nickname = username
	}
	if !nicknamePattern.MatchString(nickname) {
		return nil, fmt.Errorf("%w: nickname must be 1-30 characters (letters, numbers, and []_='- )", model.ErrValidation)
	}

	// Usernames stay reserved even after soft deletion
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, model.ErrUsernameExists
	} else if !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, &model.User{
		Username:     username,
		Nickname:     nickname,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("user_id", string(user.UserID)),
		slog.String("username", user.Username))

	return user, nil
}

// Get retrieves a user by id
func (s *Service) Get(ctx context.Context, userID model.UserID) (*model.User, error) {
	return s.users.FindByID(ctx, userID)
}

// Login authenticates an active account
func (s *Service) Login(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.FindOneActive(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.logger.Info("user logged in", slog.String("user_id", string(user.UserID)))
	return user, nil
}

// Logout removes the user from every room they are a member of
func (s *Service) Logout(ctx context.Context, userID model.UserID) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}
	if err := s.games.RemovePlayerFromAll(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("user logged out", slog.String("user_id", string(userID)))
	return nil
}

// ChangeNickname updates the user record and propagates the new
// nickname to every room member entry, creatorNickname on rooms they
// created, and every chat message they authored
func (s *Service) ChangeNickname(ctx context.Context, userID model.UserID, nickname string) (*model.User, error) {
	nickname = normalizeNickname(nickname)
	if !nicknamePattern.MatchString(nickname) {
		return nil, fmt.Errorf("%w: nickname must be 1-30 characters (letters, numbers, and []_='- )", model.ErrValidation)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Deleted {
		return nil, model.ErrUserDeleted
	}

	if err := s.users.UpdateByID(ctx, userID, store.Document{"nickname": nickname}); err != nil {
		return nil, err
	}
	if err := s.games.UpdatePlayerNickname(ctx, userID, nickname); err != nil {
		return nil, err
	}
	if _, err := s.chat.UpdateSenderNickname(ctx, userID, nickname); err != nil {
		return nil, err
	}

	s.logger.Info("nickname changed",
		slog.String("user_id", string(userID)),
		slog.String("nickname", nickname))

	user.Nickname = nickname
	return user, nil
}

// ChangePassword verifies the current password and stores a new hash
func (s *Service) ChangePassword(ctx context.Context, userID model.UserID, current, updated string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Deleted {
		return model.ErrUserDeleted
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}
	if err := validatePassword(updated); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(updated), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.UpdateByID(ctx, userID, store.Document{"password": string(hash)})
}

// DeleteAccount soft-deletes the user and propagates "Deleted User"
// across rooms and chat history. The record itself is retained for
// referential consistency.
func (s *Service) DeleteAccount(ctx context.Context, userID model.UserID) error {
	if _, err := s.users.SoftDelete(ctx, userID); err != nil {
		return err
	}
	if err := s.games.MarkPlayerDeleted(ctx, userID); err != nil {
		return err
	}
	if _, err := s.chat.MarkUserDeleted(ctx, userID); err != nil {
		return err
	}

	s.logger.Info("account deleted", slog.String("user_id", string(userID)))
	return nil
}

// EnsureSystemUser creates the reserved system user on startup if it
// does not exist yet. Its password is random and never used.
func (s *Service) EnsureSystemUser(ctx context.Context) error {
	_, err := s.users.FindByID(ctx, model.SystemUserID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return err
	}

	_, err = s.users.Create(ctx, &model.User{
		UserID:       model.SystemUserID,
		Username:     model.SystemUsername,
		Nickname:     model.SystemNickname,
		PasswordHash: s.ident.NewID(),
	})
	return err
}
