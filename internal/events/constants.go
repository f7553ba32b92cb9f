package events

// Event type constants
const (
	// Occupancy
	EventTypeOccupantJoined EventType = "occupant_joined"
	EventTypeOccupantMoved  EventType = "occupant_moved"
	EventTypeOccupantLeft   EventType = "occupant_left"

	// Room content
	EventTypeChatPosted        EventType = "chat_posted"
	EventTypeTileFlagChanged   EventType = "tile_flag_changed"
	EventTypeAffordanceChanged EventType = "affordance_changed"
	EventTypeItemSpawned       EventType = "item_spawned"
	EventTypeItemRemoved       EventType = "item_removed"

	// Diagnostics, never advances the room seq
	EventTypeLatencyTrace EventType = "latency_trace"
)
