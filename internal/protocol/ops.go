package protocol

// Client to server
const (
	OpAuth       = "auth"
	OpPing       = "ping"
	OpMove       = "move"
	OpChatSend   = "chat:send"
	OpItemPickup = "item:pickup"

	OpAdminTileSet       = "admin:tile:set"
	OpAdminAffordanceSet = "admin:affordance:set"
	OpAdminItemSpawn     = "admin:item:spawn"
	OpAdminLatencyTrace  = "admin:latency:trace"
)

// Acknowledgements
const (
	OpAuthOK         = "auth:ok"
	OpPong           = "pong"
	OpMoveOK         = "move:ok"
	OpMoveErr        = "move:err"
	OpChatOK         = "chat:ok"
	OpItemPickupOK   = "item:pickup:ok"
	OpItemPickupErr  = "item:pickup:err"
	OpAdminTileOK    = "admin:tile:ok"
	OpAdminAffordOK  = "admin:affordance:ok"
	OpAdminItemOK    = "admin:item:ok"
	OpAdminLatencyOK = "admin:latency:ok"
	OpAdminErr       = "admin:err"
)

// Errors not tied to a specific op family
const (
	OpErrAuthInvalid          = "error:auth_invalid"
	OpErrNotAuthenticated     = "error:not_authenticated"
	OpErrAlreadyAuthenticated = "error:already_authenticated"
	OpErrProtocol             = "error:protocol"
	OpErrValidation           = "error:validation"
	OpErrChatPayload          = "error:chat_payload"
	OpErrPersistFailed        = "error:persist_failed"
	OpErrForbidden            = "error:forbidden"
	OpErrInternal             = "error:internal"
)

// Server pushes, always seq 0
const (
	OpOccupantJoined    = "room:occupant_joined"
	OpOccupantMoved     = "room:occupant_moved"
	OpOccupantLeft      = "room:occupant_left"
	OpItemRemoved       = "room:item_removed"
	OpItemSpawned       = "room:item_spawned"
	OpTileFlagChanged   = "room:tile_flag_changed"
	OpAffordanceChanged = "room:affordance_changed"
	OpChatNew           = "chat:new"
	OpLatencyTrace      = "admin:latency"
)

// MoveCode is the reason a move was rejected
type MoveCode string

const (
	MoveInvalidTile   MoveCode = "invalid_tile"
	MoveLockedTile    MoveCode = "locked_tile"
	MoveOccupied      MoveCode = "occupied"
	MoveNotInRoom     MoveCode = "not_in_room"
	MovePersistFailed MoveCode = "persist_failed"
)

// PickupCode is the reason an item pickup failed
type PickupCode string

const (
	PickupValidationFailed PickupCode = "validation_failed"
	PickupNotInRoom        PickupCode = "not_in_room"
	PickupNotFound         PickupCode = "not_found"
	PickupTileBlocked      PickupCode = "tile_blocked"
	PickupNotOnTile        PickupCode = "not_on_tile"
	PickupAlreadyPickedUp  PickupCode = "already_picked_up"
	PickupPersistFailed    PickupCode = "persist_failed"
)

// Codes carried by admin:err
const (
	AdminValidation    = "validation"
	AdminPersistFailed = "persist_failed"
)

// Protocol error codes carried by error:protocol
const (
	ProtocolMalformed = "malformed"
	ProtocolUnknownOp = "unknown_op"
)
