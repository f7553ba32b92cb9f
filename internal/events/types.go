package events

import (
	"fmt"
	"time"

	"github.com/KirkDiggler/roomserver/internal/entities"
	"github.com/KirkDiggler/roomserver/internal/protocol"
)

// EventType represents the kind of room event
type EventType string

// RoomEvent is a committed change to one room. Exactly one of the variant
// pointers is set and it must match Type; Validate enforces that for events
// arriving from other instances.
type RoomEvent struct {
	Type   EventType `json:"type"`
	RoomID string    `json:"room_id"`
	Seq    int64     `json:"seq"`
	At     time.Time `json:"at"`

	// ConnID is the local connection that caused the event. It is never
	// sent to other instances.
	ConnID string `json:"-"`

	OccupantJoined    *OccupantJoined    `json:"occupant_joined,omitempty"`
	OccupantMoved     *OccupantMoved     `json:"occupant_moved,omitempty"`
	OccupantLeft      *OccupantLeft      `json:"occupant_left,omitempty"`
	ChatPosted        *ChatPosted        `json:"chat_posted,omitempty"`
	TileFlagChanged   *TileFlagChanged   `json:"tile_flag_changed,omitempty"`
	AffordanceChanged *AffordanceChanged `json:"affordance_changed,omitempty"`
	ItemSpawned       *ItemSpawned       `json:"item_spawned,omitempty"`
	ItemRemoved       *ItemRemoved       `json:"item_removed,omitempty"`
	LatencyTrace      *LatencyTrace      `json:"latency_trace,omitempty"`
}

type OccupantJoined struct {
	Occupant entities.Occupant `json:"occupant"`
}

type OccupantMoved struct {
	UserID   string            `json:"user_id"`
	Position entities.Position `json:"position"`
}

type OccupantLeft struct {
	UserID   string            `json:"user_id"`
	Position entities.Position `json:"position"` // Last committed position
}

type ChatPosted struct {
	Message entities.ChatMessage `json:"message"`
}

type TileFlagChanged struct {
	Flag entities.TileFlag `json:"flag"`
}

type AffordanceChanged struct {
	Affordance entities.Affordance `json:"affordance"`
}

type ItemSpawned struct {
	Item entities.RoomItem `json:"item"`
}

type ItemRemoved struct {
	ItemID    string `json:"item_id"`
	ClaimedBy string `json:"claimed_by"`
}

type LatencyTrace struct {
	TraceID     string    `json:"trace_id"`
	RequestedBy string    `json:"requested_by"`
	OriginID    string    `json:"origin_id"`
	OriginTime  time.Time `json:"origin_time"`
}

func base(t EventType, roomID string, seq int64, at time.Time) *RoomEvent {
	return &RoomEvent{Type: t, RoomID: roomID, Seq: seq, At: at}
}

func NewOccupantJoined(roomID string, seq int64, at time.Time, occ entities.Occupant) *RoomEvent {
	e := base(EventTypeOccupantJoined, roomID, seq, at)
	e.OccupantJoined = &OccupantJoined{Occupant: occ}
	return e
}

func NewOccupantMoved(roomID string, seq int64, at time.Time, userID string, pos entities.Position) *RoomEvent {
	e := base(EventTypeOccupantMoved, roomID, seq, at)
	e.OccupantMoved = &OccupantMoved{UserID: userID, Position: pos}
	return e
}

func NewOccupantLeft(roomID string, seq int64, at time.Time, userID string, pos entities.Position) *RoomEvent {
	e := base(EventTypeOccupantLeft, roomID, seq, at)
	e.OccupantLeft = &OccupantLeft{UserID: userID, Position: pos}
	return e
}

func NewChatPosted(roomID string, seq int64, msg entities.ChatMessage) *RoomEvent {
	e := base(EventTypeChatPosted, roomID, seq, msg.SentAt)
	e.ChatPosted = &ChatPosted{Message: msg}
	return e
}

func NewTileFlagChanged(roomID string, seq int64, at time.Time, flag entities.TileFlag) *RoomEvent {
	e := base(EventTypeTileFlagChanged, roomID, seq, at)
	e.TileFlagChanged = &TileFlagChanged{Flag: flag}
	return e
}

func NewAffordanceChanged(roomID string, seq int64, at time.Time, aff entities.Affordance) *RoomEvent {
	e := base(EventTypeAffordanceChanged, roomID, seq, at)
	e.AffordanceChanged = &AffordanceChanged{Affordance: aff}
	return e
}

func NewItemSpawned(roomID string, seq int64, item entities.RoomItem) *RoomEvent {
	e := base(EventTypeItemSpawned, roomID, seq, item.CreatedAt)
	e.ItemSpawned = &ItemSpawned{Item: item}
	return e
}

func NewItemRemoved(roomID string, seq int64, at time.Time, itemID, claimedBy string) *RoomEvent {
	e := base(EventTypeItemRemoved, roomID, seq, at)
	e.ItemRemoved = &ItemRemoved{ItemID: itemID, ClaimedBy: claimedBy}
	return e
}

// NewLatencyTrace carries seq 0; traces are not room mutations.
func NewLatencyTrace(roomID string, at time.Time, trace LatencyTrace) *RoomEvent {
	e := base(EventTypeLatencyTrace, roomID, 0, at)
	e.LatencyTrace = &trace
	return e
}

// Mutates reports whether the event advanced the room seq.
func (e *RoomEvent) Mutates() bool {
	return e.Type != EventTypeLatencyTrace
}

// Validate checks that exactly the variant named by Type is present.
func (e *RoomEvent) Validate() error {
	if e == nil {
		return fmt.Errorf("event cannot be nil")
	}
	if e.RoomID == "" {
		return fmt.Errorf("event room id cannot be empty")
	}

	set := 0
	for _, present := range []bool{
		e.OccupantJoined != nil, e.OccupantMoved != nil, e.OccupantLeft != nil,
		e.ChatPosted != nil, e.TileFlagChanged != nil, e.AffordanceChanged != nil,
		e.ItemSpawned != nil, e.ItemRemoved != nil, e.LatencyTrace != nil,
	} {
		if present {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("event %s must carry exactly one payload, got %d", e.Type, set)
	}

	var ok bool
	switch e.Type {
	case EventTypeOccupantJoined:
		ok = e.OccupantJoined != nil
	case EventTypeOccupantMoved:
		ok = e.OccupantMoved != nil
	case EventTypeOccupantLeft:
		ok = e.OccupantLeft != nil
	case EventTypeChatPosted:
		ok = e.ChatPosted != nil
	case EventTypeTileFlagChanged:
		ok = e.TileFlagChanged != nil
	case EventTypeAffordanceChanged:
		ok = e.AffordanceChanged != nil
	case EventTypeItemSpawned:
		ok = e.ItemSpawned != nil
	case EventTypeItemRemoved:
		ok = e.ItemRemoved != nil
	case EventTypeLatencyTrace:
		ok = e.LatencyTrace != nil
	default:
		return fmt.Errorf("unknown event type %q", e.Type)
	}
	if !ok {
		return fmt.Errorf("event %s carries the wrong payload", e.Type)
	}
	return nil
}

// Push maps the event to the server push sent to clients.
func (e *RoomEvent) Push(deliveredAt time.Time) (string, any) {
	switch e.Type {
	case EventTypeOccupantJoined:
		return protocol.OpOccupantJoined, protocol.OccupantJoined{
			Occupant: protocol.ViewOccupant(e.OccupantJoined.Occupant),
			RoomSeq:  e.Seq,
		}
	case EventTypeOccupantMoved:
		p := e.OccupantMoved
		return protocol.OpOccupantMoved, protocol.OccupantMoved{UserID: p.UserID, X: p.Position.X, Y: p.Position.Y, RoomSeq: e.Seq}
	case EventTypeOccupantLeft:
		p := e.OccupantLeft
		return protocol.OpOccupantLeft, protocol.OccupantLeft{UserID: p.UserID, X: p.Position.X, Y: p.Position.Y, RoomSeq: e.Seq}
	case EventTypeChatPosted:
		return protocol.OpChatNew, protocol.ChatNew{Message: protocol.ViewChat(e.ChatPosted.Message), RoomSeq: e.Seq}
	case EventTypeTileFlagChanged:
		return protocol.OpTileFlagChanged, protocol.TileFlagChanged{Flag: protocol.ViewTileFlag(e.TileFlagChanged.Flag), RoomSeq: e.Seq}
	case EventTypeAffordanceChanged:
		return protocol.OpAffordanceChanged, protocol.AffordanceChanged{Affordance: protocol.ViewAffordance(e.AffordanceChanged.Affordance), RoomSeq: e.Seq}
	case EventTypeItemSpawned:
		return protocol.OpItemSpawned, protocol.ItemSpawned{Item: protocol.ViewItem(e.ItemSpawned.Item), RoomSeq: e.Seq}
	case EventTypeItemRemoved:
		return protocol.OpItemRemoved, protocol.ItemRemoved{ItemID: e.ItemRemoved.ItemID, ClaimedBy: e.ItemRemoved.ClaimedBy, RoomSeq: e.Seq}
	case EventTypeLatencyTrace:
		p := e.LatencyTrace
		return protocol.OpLatencyTrace, protocol.LatencyTraceView{
			TraceID:      p.TraceID,
			OriginID:     p.OriginID,
			RequestedBy:  p.RequestedBy,
			OriginTime:   p.OriginTime.UnixMilli(),
			DeliveryTime: deliveredAt.UnixMilli(),
		}
	}
	return "", nil
}
