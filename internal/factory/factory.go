package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/battlepigs/battlepigs/internal/dependencies/clock"
	"github.com/battlepigs/battlepigs/internal/dependencies/random"
	"github.com/battlepigs/battlepigs/internal/services/board"
	"github.com/battlepigs/battlepigs/internal/services/game"
	"github.com/battlepigs/battlepigs/internal/services/room"
	"github.com/battlepigs/battlepigs/internal/storage"
	"github.com/battlepigs/battlepigs/internal/storage/memory"
	redisstorage "github.com/battlepigs/battlepigs/internal/storage/redis"
	"github.com/battlepigs/battlepigs/internal/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	BoardService   *board.Service
	RoomController *room.Controller
	GameController *game.Controller
	Hub            *ws.Hub
	Dispatcher     *ws.Dispatcher
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
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	// Create services
	boardService := board.New()
	roomController := room.NewController(store, clk, rnd, logger)
	gameController := game.NewController(roomController, boardService, logger)

	// Wire the websocket layer. The hub delivers frames and the
	// dispatcher routes them; SetHandler closes the cycle between them.
	hub := ws.NewHub(logger)
	dispatcher := ws.NewDispatcher(roomController, gameController, hub, logger)
	hub.SetHandler(dispatcher)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		BoardService:   boardService,
		RoomController: roomController,
		GameController: gameController,
		Hub:            hub,
		Dispatcher:     dispatcher,
	}
}
