package services

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/KirkDiggler/roomserver/internal/broadcast"
	"github.com/KirkDiggler/roomserver/internal/clock"
	"github.com/KirkDiggler/roomserver/internal/eventbus"
	"github.com/KirkDiggler/roomserver/internal/repositories"
	"github.com/KirkDiggler/roomserver/internal/repositories/chat"
	"github.com/KirkDiggler/roomserver/internal/repositories/items"
	"github.com/KirkDiggler/roomserver/internal/repositories/occupants"
	"github.com/KirkDiggler/roomserver/internal/repositories/rooms"
	roomService "github.com/KirkDiggler/roomserver/internal/services/room"
	"github.com/KirkDiggler/roomserver/internal/uuid"
)

// Provider holds all service instances
type Provider struct {
	RoomService roomService.Service
	Broadcaster *broadcast.Broadcaster
	Relay       *eventbus.Relay

	bus eventbus.Bus
}

// ProviderConfig holds configuration for creating services
type ProviderConfig struct {
	RedisClient redis.UniversalClient // Optional: in-memory persistence and bus when nil
	Bus         eventbus.Bus          // Optional: overrides the bus picked from RedisClient

	OriginID      string // Required
	DefaultRoomID string // Required
	ChatHistory   int

	// Repository overrides, mostly for tests
	RoomRepository     rooms.Repository
	OccupantRepository occupants.Repository
	ItemRepository     items.Repository
	ChatRepository     chat.Repository

	UUIDGenerator uuid.Generator
	Clock         clock.TimeProvider
	Logger        *zap.Logger
}

// NewProvider creates a new service provider with all services initialized
func NewProvider(cfg *ProviderConfig) *Provider {
	// In-memory repositories share one sequence per room, like Redis does
	seqs := repositories.NewSequences()

	roomRepo := cfg.RoomRepository
	if roomRepo == nil {
		if cfg.RedisClient != nil {
			roomRepo = rooms.NewRedis(cfg.RedisClient)
		} else {
			roomRepo = rooms.NewInMemoryRepository(seqs)
		}
	}

	occupantRepo := cfg.OccupantRepository
	if occupantRepo == nil {
		if cfg.RedisClient != nil {
			occupantRepo = occupants.NewRedis(cfg.RedisClient)
		} else {
			occupantRepo = occupants.NewInMemoryRepository(seqs)
		}
	}

	itemRepo := cfg.ItemRepository
	if itemRepo == nil {
		if cfg.RedisClient != nil {
			itemRepo = items.NewRedis(cfg.RedisClient)
		} else {
			itemRepo = items.NewInMemoryRepository(seqs)
		}
	}

	chatRepo := cfg.ChatRepository
	if chatRepo == nil {
		if cfg.RedisClient != nil {
			chatRepo = chat.NewRedis(cfg.RedisClient)
		} else {
			chatRepo = chat.NewInMemoryRepository(seqs)
		}
	}

	bus := cfg.Bus
	if bus == nil {
		if cfg.RedisClient != nil {
			bus = eventbus.NewRedisBus(&eventbus.RedisBusConfig{Client: cfg.RedisClient, Logger: cfg.Logger})
		} else {
			bus = eventbus.NewLocalBus(&eventbus.LocalBusConfig{Logger: cfg.Logger})
		}
	}

	relay := eventbus.NewRelay(&eventbus.RelayConfig{
		Bus:      bus,
		OriginID: cfg.OriginID,
		Logger:   cfg.Logger,
	})
	broadcaster := broadcast.New(&broadcast.Config{Logger: cfg.Logger})

	// Create room service
	rooms := roomService.NewService(&roomService.ServiceConfig{
		Rooms:         roomRepo,
		Occupants:     occupantRepo,
		Items:         itemRepo,
		Chat:          chatRepo,
		Relay:         relay,
		Broadcaster:   broadcaster,
		DefaultRoomID: cfg.DefaultRoomID,
		ChatHistory:   cfg.ChatHistory,
		UUIDGenerator: cfg.UUIDGenerator,
		Clock:         cfg.Clock,
		Logger:        cfg.Logger,
	})

	return &Provider{
		RoomService: rooms,
		Broadcaster: broadcaster,
		Relay:       relay,
		bus:         bus,
	}
}

// Close stops the rooms, then the bus they subscribe to
func (p *Provider) Close() error {
	if err := p.RoomService.Close(); err != nil {
		return err
	}
	return p.bus.Close()
}
