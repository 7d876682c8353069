package account

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/hmcleod/gamelobby/internal/dependencies/mocks"
	"github.com/hmcleod/gamelobby/internal/model"
	"github.com/hmcleod/gamelobby/internal/repository"
	"github.com/hmcleod/gamelobby/internal/store/memory"
	"github.com/hmcleod/gamelobby/internal/testutil"
)

const validPassword = "Sup3rSecret!?x@"

type ServiceSuite struct {
	suite.Suite
	users   *repository.Users
	games   *repository.Games
	chat    *repository.Chat
	clock   *mocks.MockClock
	ident   *mocks.MockIdent
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	st := memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.ident = mocks.NewMockIdent()
	s.users = repository.NewUsers(st, s.ident, s.clock)
	s.games = repository.NewGames(st, s.ident, s.clock)
	s.chat = repository.NewChat(st, s.clock)
	s.service = NewService(s.users, s.games, s.chat, s.ident, testutil.NopLogger())
	s.ctx = context.Background()
}

// Register tests

func (s *ServiceSuite) TestRegisterSucceeds() {
	s.ident.QueueID("user-1")

	user, err := s.service.Register(s.ctx, "Alice1", validPassword, "")
	s.Require().NoError(err)

	s.Equal(model.UserID("user-1"), user.UserID)
	s.Equal("alice1", user.Username)
	s.Equal("alice1", user.Nickname)
	s.False(user.Deleted)

	// The hash verifies and the plaintext is not stored
	s.NotEqual(validPassword, user.PasswordHash)
	s.NoError(bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(validPassword)))
}

func (s *ServiceSuite) TestRegisterWithNickname() {
	user, err := s.service.Register(s.ctx, "alice", validPassword, "  The   Ace ")
	s.Require().NoError(err)
	// Whitespace collapses
	s.Equal("The Ace", user.Nickname)
}

func (s *ServiceSuite) TestRegisterRejectsBadUsernames() {
	for _, username := range []string{"ab", "UPPER CASE!", "has space", "waytoolongusernamethatexceedsthirtycharacters", "with_underscore"} {
		_, err := s.service.Register(s.ctx, username, validPassword, "")
		s.ErrorIs(err, model.ErrValidation, "username %q", username)
	}
}

func (s *ServiceSuite) TestRegisterRejectsWeakPasswords() {
	for _, password := range []string{
		"alllower1!", // no uppercase
		"ALLUPPER1!", // no lowercase
		"NoDigits!!", // no digit
		"NoSpecial1", // no special
		"Ab1!",       // too short
	} {
		_, err := s.service.Register(s.ctx, "alice", password, "")
		s.ErrorIs(err, model.ErrValidation, "password %q", password)
	}
}

func (s *ServiceSuite) TestRegisterRejectsBadNickname() {
	_, err := s.service.Register(s.ctx, "alice", validPassword, "bad\"nickname")
	s.ErrorIs(err, model.ErrValidation)
}

func (s *ServiceSuite) TestRegisterDuplicateUsername() {
	_, err := s.service.Register(s.ctx, "alice", validPassword, "")
	s.Require().NoError(err)

	_, err = s.service.Register(s.ctx, "ALICE", validPassword, "")
	s.ErrorIs(err, model.ErrUsernameExists)
}

func (s *ServiceSuite) TestRegisterUsernameStaysReservedAfterDeletion() {
	s.ident.QueueID("user-1")
	_, err := s.service.Register(s.ctx, "alice", validPassword, "")
	s.Require().NoError(err)
	s.Require().NoError(s.service.DeleteAccount(s.ctx, "user-1"))

	_, err = s.service.Register(s.ctx, "alice", validPassword, "")
	s.ErrorIs(err, model.ErrUsernameExists)
}

// Login tests

func (s *ServiceSuite) TestLoginSucceeds() {
	registered, err := s.service.Register(s.ctx, "alice", validPassword, "")
	s.Require().NoError(err)

	user, err := s.service.Login(s.ctx, "alice", validPassword)
	s.Require().NoError(err)
	s.Equal(registered.UserID, user.UserID)
}

func (s *ServiceSuite) TestLoginWrongPassword() {
	_, err := s.service.Register(s.ctx, "alice", validPassword, "")
	s.Require().NoError(err)

	_, err = s.service.Login(s.ctx, "alice", "Wrong1ButValid!")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginUnknownUser() {
	_, err := s.service.Login(s.ctx, "ghost", validPassword)
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginDeletedUser() {
	s.ident.QueueID("user-1")
	_, err := s.service.Register(s.ctx, "alice", validPassword, "")
	s.Require().NoError(err)
	s.Require().NoError(s.service.DeleteAccount(s.ctx, "user-1"))

	_, err = s.service.Login(s.ctx, "alice", validPassword)
	s.ErrorIs(err, ErrInvalidCredentials)
}

// Logout

func (s *ServiceSuite) TestLogoutLeavesAllGames() {
	s.ident.QueueID("user-1")
	user, err := s.service.Register(s.ctx, "alice", validPassword, "")
	s.Require().NoError(err)

	s.ident.QueueID("game-1", "game-2")
	_, _ = s.games.Create(s.ctx, &model.GameRoom{Name: "One", Creator: "someone"})
	_, _ = s.games.Create(s.ctx, &model.GameRoom{Name: "Two", Creator: "someone"})
	_, _ = s.games.AddPlayer(s.ctx, "game-1", user.UserID, user.Nickname)
	_, _ = s.games.AddPlayer(s.ctx, "game-2", user.UserID, user.Nickname)

	s.Require().NoError(s.service.Logout(s.ctx, user.UserID))

	one, _ := s.games.FindByID(s.ctx, "game-1")
	s.Empty(one.Players)
	two, _ := s.games.FindByID(s.ctx, "game-2")
	s.Empty(two.Players)
}

// ChangeNickname tests

func (s *ServiceSuite) TestChangeNicknameCascades() {
	s.ident.QueueID("user-1")
	user, err := s.service.Register(s.ctx, "alice", validPassword, "Alice")
	s.Require().NoError(err)

	s.ident.QueueID("game-1")
	_, _ = s.games.Create(s.ctx, &model.GameRoom{
		Name: "My Game", Creator: user.UserID, CreatorNickname: "Alice",
	})
	_, _ = s.games.AddPlayer(s.ctx, "game-1", user.UserID, "Alice")
	_, _ = s.chat.Create(s.ctx, &model.ChatMessage{
		Type: model.ChannelLobby, UserID: user.UserID, Username: "alice", Nickname: "Alice", Message: "hi",
	})

	updated, err := s.service.ChangeNickname(s.ctx, user.UserID, "Ali")
	s.Require().NoError(err)
	s.Equal("Ali", updated.Nickname)

	game, _ := s.games.FindByID(s.ctx, "game-1")
	s.Equal("Ali", game.CreatorNickname)
	s.Equal("Ali", game.Member(user.UserID).Nickname)

	messages, _ := s.chat.FindByType(s.ctx, model.ChannelLobby)
	s.Require().Len(messages, 1)
	s.Equal("Ali", messages[0].Nickname)
}

func (s *ServiceSuite) TestChangeNicknameRejectsInvalid() {
	s.ident.QueueID("user-1")
	_, err := s.service.Register(s.ctx, "alice", validPassword, "")
	s.Require().NoError(err)

	_, err = s.service.ChangeNickname(s.ctx, "user-1", "bad\"nick")
	s.ErrorIs(err, model.ErrValidation)
}

func (s *ServiceSuite) TestChangeNicknameDeletedUser() {
	s.ident.QueueID("user-1")
	_, err := s.service.Register(s.ctx, "alice", validPassword, "")
	s.Require().NoError(err)
	s.Require().NoError(s.service.DeleteAccount(s.ctx, "user-1"))

	_, err = s.service.ChangeNickname(s.ctx, "user-1", "Ali")
	s.ErrorIs(err, model.ErrUserDeleted)
}

// ChangePassword tests

func (s *ServiceSuite) TestChangePassword() {
	s.ident.QueueID("user-1")
	_, err := s.service.Register(s.ctx, "alice", validPassword, "")
	s.Require().NoError(err)

	const newPassword = "An0therGood1!"
	s.Require().NoError(s.service.ChangePassword(s.ctx, "user-1", validPassword, newPassword))

	_, err = s.service.Login(s.ctx, "alice", validPassword)
	s.ErrorIs(err, ErrInvalidCredentials)
	_, err = s.service.Login(s.ctx, "alice", newPassword)
	s.NoError(err)
}

func (s *ServiceSuite) TestChangePasswordWrongCurrent() {
	s.ident.QueueID("user-1")
	_, err := s.service.Register(s.ctx, "alice", validPassword, "")
	s.Require().NoError(err)

	err = s.service.ChangePassword(s.ctx, "user-1", "Wrong1ButValid!", "An0therGood1!")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestChangePasswordWeakNew() {
	s.ident.QueueID("user-1")
	_, err := s.service.Register(s.ctx, "alice", validPassword, "")
	s.Require().NoError(err)

	err = s.service.ChangePassword(s.ctx, "user-1", validPassword, "weak")
	s.ErrorIs(err, model.ErrValidation)
}

// DeleteAccount tests

func (s *ServiceSuite) TestDeleteAccountCascades() {
	s.ident.QueueID("user-1")
	user, err := s.service.Register(s.ctx, "alice", validPassword, "Alice")
	s.Require().NoError(err)

	s.ident.QueueID("game-1")
	_, _ = s.games.Create(s.ctx, &model.GameRoom{
		Name: "My Game", Creator: user.UserID, CreatorNickname: "Alice",
	})
	_, _ = s.games.AddPlayer(s.ctx, "game-1", user.UserID, "Alice")
	_, _ = s.chat.Create(s.ctx, &model.ChatMessage{
		Type: model.ChannelLobby, UserID: user.UserID, Username: "alice", Nickname: "Alice", Message: "hi",
	})

	s.Require().NoError(s.service.DeleteAccount(s.ctx, user.UserID))

	stored, _ := s.users.FindByID(s.ctx, user.UserID)
	s.True(stored.Deleted)
	s.Equal(model.DeletedUserNickname, stored.Nickname)

	game, _ := s.games.FindByID(s.ctx, "game-1")
	s.True(game.CreatorDeleted)
	s.Equal(model.DeletedUserNickname, game.CreatorNickname)
	member := game.Member(user.UserID)
	s.Require().NotNil(member)
	s.True(member.Deleted)

	messages, _ := s.chat.FindByType(s.ctx, model.ChannelLobby)
	s.Require().Len(messages, 1)
	s.True(messages[0].Deleted)
	s.Equal(model.DeletedUserNickname, messages[0].Nickname)
	s.Equal("hi", messages[0].Message)
}

func (s *ServiceSuite) TestDeleteAccountUnknownUser() {
	s.ErrorIs(s.service.DeleteAccount(s.ctx, "missing"), model.ErrUserNotFound)
}

// EnsureSystemUser

func (s *ServiceSuite) TestEnsureSystemUserIsIdempotent() {
	s.Require().NoError(s.service.EnsureSystemUser(s.ctx))
	s.Require().NoError(s.service.EnsureSystemUser(s.ctx))

	user, err := s.users.FindByID(s.ctx, model.SystemUserID)
	s.Require().NoError(err)
	s.Equal(model.SystemUsername, user.Username)
	s.Equal(model.SystemNickname, user.Nickname)

	users, _ := s.users.FindActive(s.ctx)
	s.Len(users, 1)
}
