package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/hmcleod/gamelobby/internal/dependencies/clock"
	"github.com/hmcleod/gamelobby/internal/dependencies/ident"
	"github.com/hmcleod/gamelobby/internal/repository"
	"github.com/hmcleod/gamelobby/internal/services/account"
	"github.com/hmcleod/gamelobby/internal/services/chat"
	"github.com/hmcleod/gamelobby/internal/services/room"
	"github.com/hmcleod/gamelobby/internal/store"
	"github.com/hmcleod/gamelobby/internal/store/memory"
	"github.com/hmcleod/gamelobby/internal/store/redisstore"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Store store.Store

	// External dependencies
	Clock clock.Clock
	Ident ident.Generator

	// Repositories
	Users *repository.Users
	Games *repository.Games
	Chat  *repository.Chat

	// Services
	AccountService *account.Service
	RoomService    *room.Service
	ChatService    *chat.Service
	Announcer      *chat.Announcer
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstore.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var st store.Store
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		st = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstore.New(*cfg.RedisConfig, logger)
		if err != nil {
			return nil, err
		}
		st = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	return newWithDependencies(st, clock.New(), ident.New(), logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(st store.Store, clk clock.Clock, id ident.Generator, logger *slog.Logger) *App {
	// Create repositories
	users := repository.NewUsers(st, id, clk)
	games := repository.NewGames(st, id, clk)
	chatRepo := repository.NewChat(st, clk)

	// Create services
	accountService := account.NewService(users, games, chatRepo, id, logger)
	roomService := room.NewService(users, games, chatRepo, logger)
	chatService := chat.NewService(users, games, chatRepo, logger)

	// Wire the built-in slash commands; the nickname and kick cascades
	// run through the account and room services
	chat.RegisterDefaultCommands(chatService, accountService, roomService)

	return &App{
		Store:          st,
		Clock:          clk,
		Ident:          id,
		Users:          users,
		Games:          games,
		Chat:           chatRepo,
		AccountService: accountService,
		RoomService:    roomService,
		ChatService:    chatService,
		Announcer:      chat.NewAnnouncer(chatService),
	}
}
