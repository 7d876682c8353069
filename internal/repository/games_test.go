package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/hmcleod/gamelobby/internal/dependencies/mocks"
	"github.com/hmcleod/gamelobby/internal/model"
	"github.com/hmcleod/gamelobby/internal/store/memory"
)

type GamesSuite struct {
	suite.Suite
	games *Games
	clock *mocks.MockClock
	ident *mocks.MockIdent
	ctx   context.Context
}

func TestGamesSuite(t *testing.T) {
	suite.Run(t, new(GamesSuite))
}

func (s *GamesSuite) SetupTest() {
	st := memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.ident = mocks.NewMockIdent()
	s.games = NewGames(st, s.ident, s.clock)
	s.ctx = context.Background()
}

func (s *GamesSuite) createGame(id, name string, maxPlayers int) *model.GameRoom {
	s.ident.QueueID(id)
	game, err := s.games.Create(s.ctx, &model.GameRoom{
		Name:            name,
		Creator:         "creator-1",
		CreatorNickname: "Creator",
		MaxPlayers:      maxPlayers,
	})
	s.Require().NoError(err)
	return game
}

func (s *GamesSuite) TestCreateStartsEmpty() {
	game := s.createGame("game-1", "My Game", 3)

	s.Equal(model.GameID("game-1"), game.ID)
	s.Equal("My Game", game.Name)
	s.Equal(3, game.MaxPlayers)
	s.Empty(game.Players)
	s.Equal(s.clock.Now(), game.CreatedAt)
}

func (s *GamesSuite) TestCreateIgnoresCallerPlayers() {
	s.ident.QueueID("game-1")
	game, err := s.games.Create(s.ctx, &model.GameRoom{
		Name:    "My Game",
		Creator: "creator-1",
		Players: []model.GameMember{{UserID: "sneaky"}},
	})
	s.Require().NoError(err)
	s.Empty(game.Players)
}

func (s *GamesSuite) TestFindByIDNotFound() {
	_, err := s.games.FindByID(s.ctx, "missing")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *GamesSuite) TestFindByName() {
	s.createGame("game-1", "My Game", 4)

	game, err := s.games.FindByName(s.ctx, "My Game")
	s.Require().NoError(err)
	s.Equal(model.GameID("game-1"), game.ID)
}

func (s *GamesSuite) TestAddPlayer() {
	s.createGame("game-1", "My Game", 4)

	game, err := s.games.AddPlayer(s.ctx, "game-1", "user-1", "Alice")
	s.Require().NoError(err)

	s.Require().Len(game.Players, 1)
	s.Equal(model.UserID("user-1"), game.Players[0].UserID)
	s.Equal("Alice", game.Players[0].Nickname)
	s.False(game.Players[0].Deleted)
}

func (s *GamesSuite) TestAddPlayerTwiceIsNoOp() {
	s.createGame("game-1", "My Game", 4)

	_, _ = s.games.AddPlayer(s.ctx, "game-1", "user-1", "Alice")
	game, err := s.games.AddPlayer(s.ctx, "game-1", "user-1", "Alice")
	s.Require().NoError(err)
	s.Len(game.Players, 1)
}

func (s *GamesSuite) TestAddPlayerFull() {
	s.createGame("game-1", "My Game", 2)

	_, _ = s.games.AddPlayer(s.ctx, "game-1", "user-1", "Alice")
	_, _ = s.games.AddPlayer(s.ctx, "game-1", "user-2", "Bob")

	_, err := s.games.AddPlayer(s.ctx, "game-1", "user-3", "Carol")
	s.ErrorIs(err, model.ErrGameFull)

	game, _ := s.games.FindByID(s.ctx, "game-1")
	s.Len(game.Players, 2)
}

func (s *GamesSuite) TestAddPlayerGameNotFound() {
	_, err := s.games.AddPlayer(s.ctx, "missing", "user-1", "Alice")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *GamesSuite) TestConcurrentJoinsNeverExceedCapacity() {
	s.createGame("game-1", "My Game", 4)

	const contenders = 20
	var wg sync.WaitGroup
	errs := make(chan error, contenders)
	wg.Add(contenders)
	for i := 0; i < contenders; i++ {
		userID := model.UserID(string(rune('a' + i)))
		go func() {
			defer wg.Done()
			_, err := s.games.AddPlayer(s.ctx, "game-1", userID, "Player")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	joined := 0
	full := 0
	for err := range errs {
		switch {
		case err == nil:
			joined++
		default:
			s.ErrorIs(err, model.ErrGameFull)
			full++
		}
	}
	s.Equal(4, joined)
	s.Equal(contenders-4, full)

	game, _ := s.games.FindByID(s.ctx, "game-1")
	s.Len(game.Players, 4)
}

func (s *GamesSuite) TestRemovePlayer() {
	s.createGame("game-1", "My Game", 4)
	_, _ = s.games.AddPlayer(s.ctx, "game-1", "user-1", "Alice")
	_, _ = s.games.AddPlayer(s.ctx, "game-1", "user-2", "Bob")

	game, err := s.games.RemovePlayer(s.ctx, "game-1", "user-1")
	s.Require().NoError(err)

	s.Require().Len(game.Players, 1)
	s.Equal(model.UserID("user-2"), game.Players[0].UserID)
}

func (s *GamesSuite) TestRemovePlayerNotMemberIsNoOp() {
	s.createGame("game-1", "My Game", 4)

	game, err := s.games.RemovePlayer(s.ctx, "game-1", "stranger")
	s.Require().NoError(err)
	s.Empty(game.Players)
}

func (s *GamesSuite) TestRemovePlayerFromAll() {
	s.createGame("game-1", "Game One", 4)
	s.createGame("game-2", "Game Two", 4)
	_, _ = s.games.AddPlayer(s.ctx, "game-1", "user-1", "Alice")
	_, _ = s.games.AddPlayer(s.ctx, "game-2", "user-1", "Alice")
	_, _ = s.games.AddPlayer(s.ctx, "game-2", "user-2", "Bob")

	s.Require().NoError(s.games.RemovePlayerFromAll(s.ctx, "user-1"))

	one, _ := s.games.FindByID(s.ctx, "game-1")
	s.Empty(one.Players)
	two, _ := s.games.FindByID(s.ctx, "game-2")
	s.Require().Len(two.Players, 1)
	s.Equal(model.UserID("user-2"), two.Players[0].UserID)
}

func (s *GamesSuite) TestIsPlayerInGameExcludesDeletedMembers() {
	s.createGame("game-1", "My Game", 4)
	_, _ = s.games.AddPlayer(s.ctx, "game-1", "user-1", "Alice")

	inGame, err := s.games.IsPlayerInGame(s.ctx, "game-1", "user-1")
	s.Require().NoError(err)
	s.True(inGame)

	s.Require().NoError(s.games.MarkPlayerDeleted(s.ctx, "user-1"))

	inGame, err = s.games.IsPlayerInGame(s.ctx, "game-1", "user-1")
	s.Require().NoError(err)
	s.False(inGame)
}

func (s *GamesSuite) TestUpdatePlayerNickname() {
	s.ident.QueueID("game-1")
	_, _ = s.games.Create(s.ctx, &model.GameRoom{
		Name:            "My Game",
		Creator:         "user-1",
		CreatorNickname: "Alice",
	})
	_, _ = s.games.AddPlayer(s.ctx, "game-1", "user-1", "Alice")
	_, _ = s.games.AddPlayer(s.ctx, "game-1", "user-2", "Bob")

	s.Require().NoError(s.games.UpdatePlayerNickname(s.ctx, "user-1", "Ali"))

	game, _ := s.games.FindByID(s.ctx, "game-1")
	s.Equal("Ali", game.CreatorNickname)
	s.Equal("Ali", game.Member("user-1").Nickname)
	// Other members untouched
	s.Equal("Bob", game.Member("user-2").Nickname)
}

func (s *GamesSuite) TestMarkPlayerDeleted() {
	s.ident.QueueID("game-1")
	_, _ = s.games.Create(s.ctx, &model.GameRoom{
		Name:            "My Game",
		Creator:         "user-1",
		CreatorNickname: "Alice",
	})
	_, _ = s.games.AddPlayer(s.ctx, "game-1", "user-1", "Alice")

	s.Require().NoError(s.games.MarkPlayerDeleted(s.ctx, "user-1"))

	game, _ := s.games.FindByID(s.ctx, "game-1")
	s.True(game.CreatorDeleted)
	s.Equal(model.DeletedUserNickname, game.CreatorNickname)

	member := game.Member("user-1")
	s.Require().NotNil(member)
	s.True(member.Deleted)
	s.Equal(model.DeletedUserNickname, member.Nickname)
}

func (s *GamesSuite) TestDelete() {
	s.createGame("game-1", "My Game", 4)

	s.Require().NoError(s.games.Delete(s.ctx, "game-1"))

	_, err := s.games.FindByID(s.ctx, "game-1")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *GamesSuite) TestDeleteNotFound() {
	s.ErrorIs(s.games.Delete(s.ctx, "missing"), model.ErrGameNotFound)
}
