// Package room is the authority for room state on this instance. Each
// loaded room is owned by one goroutine that applies local operations and
// remote events strictly in the order it receives them.
package room

//go:generate mockgen -destination=mock/mock_service.go -package=mockroom -source=service.go

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/KirkDiggler/roomserver/internal/broadcast"
	"github.com/KirkDiggler/roomserver/internal/clock"
	"github.com/KirkDiggler/roomserver/internal/entities"
	"github.com/KirkDiggler/roomserver/internal/eventbus"
	"github.com/KirkDiggler/roomserver/internal/logging"
	"github.com/KirkDiggler/roomserver/internal/protocol"
	"github.com/KirkDiggler/roomserver/internal/repositories/chat"
	"github.com/KirkDiggler/roomserver/internal/repositories/items"
	"github.com/KirkDiggler/roomserver/internal/repositories/occupants"
	"github.com/KirkDiggler/roomserver/internal/repositories/rooms"
	"github.com/KirkDiggler/roomserver/internal/uuid"
)

const defaultChatHistory = 50

// ErrClosed is returned for operations on a service that is shutting down
var ErrClosed = errors.New("room service closed")

// Session is a live local connection as seen by a room
type Session interface {
	broadcast.Sink
	// Kick closes the connection with reason without blocking.
	Kick(reason string)
}

// Service defines the room authority
type Service interface {
	// Join places the identity in its last persisted room (or the default
	// room) and returns the full snapshot the client starts from
	Join(ctx context.Context, input *JoinInput) (*JoinResult, error)

	// Leave removes the occupant if input.ConnID still owns it
	Leave(ctx context.Context, input *LeaveInput) error

	// Move validates and commits a step to a new tile
	Move(ctx context.Context, input *MoveInput) (*MoveResult, error)

	// PostChat stores and fans out a chat message
	PostChat(ctx context.Context, input *PostChatInput) (*PostChatResult, error)

	// Pickup claims a room item for the occupant standing on it
	Pickup(ctx context.Context, input *PickupInput) (*PickupResult, error)

	// SetTileFlag changes the lock and pickup flags of a tile. Admin only
	SetTileFlag(ctx context.Context, input *SetTileFlagInput) (*AdminResult, error)

	// SetAffordance changes what avatars can do on a tile. Admin only
	SetAffordance(ctx context.Context, input *SetAffordanceInput) (*AdminResult, error)

	// SpawnItem places a new item on a free, unlocked tile. Admin only
	SpawnItem(ctx context.Context, input *SpawnItemInput) (*SpawnItemResult, error)

	// TraceLatency sends a timestamped probe to every session of the room
	// on every instance. Admin only
	TraceLatency(ctx context.Context, input *TraceLatencyInput) error

	// Close stops every loaded room
	Close() error
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Rooms       rooms.Repository       // Required
	Occupants   occupants.Repository   // Required
	Items       items.Repository       // Required
	Chat        chat.Repository        // Required
	Relay       *eventbus.Relay        // Required
	Broadcaster *broadcast.Broadcaster // Required

	DefaultRoomID string             // Required
	ChatHistory   int                // Optional, defaults to 50
	UUIDGenerator uuid.Generator     // Optional, will use default if nil
	Clock         clock.TimeProvider // Optional, system clock if nil
	Logger        *zap.Logger        // Optional
}

type service struct {
	rooms       rooms.Repository
	occupants   occupants.Repository
	items       items.Repository
	chat        chat.Repository
	relay       *eventbus.Relay
	broadcaster *broadcast.Broadcaster

	defaultRoomID string
	chatHistory   int
	uuidGenerator uuid.Generator
	clock         clock.TimeProvider
	logger        *zap.Logger

	loads  singleflight.Group
	mu     sync.Mutex
	actors map[string]*roomActor
	closed bool
}

// NewService creates a new room service
func NewService(cfg *ServiceConfig) Service {
	if cfg.Rooms == nil {
		panic("rooms repository is required")
	}
	if cfg.Occupants == nil {
		panic("occupants repository is required")
	}
	if cfg.Items == nil {
		panic("items repository is required")
	}
	if cfg.Chat == nil {
		panic("chat repository is required")
	}
	if cfg.Relay == nil {
		panic("relay is required")
	}
	if cfg.Broadcaster == nil {
		panic("broadcaster is required")
	}
	if cfg.DefaultRoomID == "" {
		panic("default room ID is required")
	}

	svc := &service{
		rooms:         cfg.Rooms,
		occupants:     cfg.Occupants,
		items:         cfg.Items,
		chat:          cfg.Chat,
		relay:         cfg.Relay,
		broadcaster:   cfg.Broadcaster,
		defaultRoomID: cfg.DefaultRoomID,
		chatHistory:   cfg.ChatHistory,
		uuidGenerator: cfg.UUIDGenerator,
		clock:         cfg.Clock,
		logger:        logging.OrNop(cfg.Logger).Named("room"),
		actors:        make(map[string]*roomActor),
	}

	if svc.chatHistory <= 0 {
		svc.chatHistory = defaultChatHistory
	}
	if svc.uuidGenerator == nil {
		svc.uuidGenerator = uuid.NewGoogleUUIDGenerator()
	}
	if svc.clock == nil {
		svc.clock = clock.System{}
	}

	return svc
}

// JoinInput identifies who is joining over which connection
type JoinInput struct {
	Identity *entities.Identity
	Session  Session
}

// JoinResult is the snapshot sent once on successful authentication
type JoinResult struct {
	Room        entities.Room
	Occupant    entities.Occupant
	Occupants   []entities.Occupant
	TileFlags   []entities.TileFlag
	Affordances []entities.Affordance
	Items       []entities.RoomItem
	Chat        []entities.ChatMessage
	Inventory   []entities.InventoryItem
}

// LeaveInput identifies the connection going away
type LeaveInput struct {
	RoomID string
	UserID string
	ConnID string
}

// MoveInput is a requested step
type MoveInput struct {
	RoomID string
	UserID string
	ConnID string
	Target entities.Position
}

// MoveResult carries the authoritative position and sequence after the
// request, whether or not it was accepted
type MoveResult struct {
	Accepted bool
	Code     protocol.MoveCode // Set when rejected
	Position entities.Position
	RoomSeq  int64
}

// PostChatInput is a chat message to send
type PostChatInput struct {
	RoomID string
	UserID string
	ConnID string
	Body   string
}

// PostChatResult is the stored message
type PostChatResult struct {
	Message entities.ChatMessage
	RoomSeq int64
}

// PickupInput is a claim request for an item
type PickupInput struct {
	RoomID string
	UserID string
	ConnID string
	ItemID string
}

// PickupResult is the outcome of a claim. Inventory is set on success,
// Code on failure
type PickupResult struct {
	Inventory *entities.InventoryItem
	Code      protocol.PickupCode
	RoomSeq   int64
}

// SetTileFlagInput changes one tile's flags
type SetTileFlagInput struct {
	RoomID   string
	ConnID   string
	Identity *entities.Identity
	Flag     entities.TileFlag
}

// SetAffordanceInput changes one tile's affordance
type SetAffordanceInput struct {
	RoomID     string
	ConnID     string
	Identity   *entities.Identity
	Affordance entities.Affordance
}

// SpawnItemInput describes a new room item
type SpawnItemInput struct {
	RoomID   string
	ConnID   string
	Identity *entities.Identity
	Name     string
	Kind     string
	Position entities.Position
}

// TraceLatencyInput starts a latency probe
type TraceLatencyInput struct {
	RoomID   string
	ConnID   string
	Identity *entities.Identity
	TraceID  string
}

// AdminResult is the room sequence after an admin change
type AdminResult struct {
	RoomSeq int64
}

// SpawnItemResult is the created item
type SpawnItemResult struct {
	Item    entities.RoomItem
	RoomSeq int64
}
