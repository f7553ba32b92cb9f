package protocol

import (
	"github.com/KirkDiggler/roomserver/internal/entities"
)

// ErrorReply is the data of every error:* frame.
type ErrorReply struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type Pong struct {
	ServerTime int64 `json:"serverTime"`
}

type MoveOK struct {
	X       int   `json:"x"`
	Y       int   `json:"y"`
	RoomSeq int64 `json:"roomSeq"`
}

// MoveErr carries the occupant's unchanged position and seq so the client
// can reconcile without a resync.
type MoveErr struct {
	Code    MoveCode `json:"code"`
	X       int      `json:"x"`
	Y       int      `json:"y"`
	RoomSeq int64    `json:"roomSeq"`
}

type ChatOK struct {
	Message ChatView `json:"message"`
	RoomSeq int64    `json:"roomSeq"`
}

type PickupOK struct {
	Item    InventoryView `json:"inventoryItem"`
	RoomSeq int64         `json:"roomSeq"`
}

type PickupErr struct {
	Code    PickupCode `json:"code"`
	ItemID  string     `json:"itemId,omitempty"`
	RoomSeq int64      `json:"roomSeq"`
}

type AdminOK struct {
	RoomSeq int64 `json:"roomSeq"`
}

type AdminErr struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// AuthOK is the one full snapshot a connection receives. Everything after
// it is a delta.
type AuthOK struct {
	User        UserView         `json:"user"`
	Room        RoomView         `json:"room"`
	Occupants   []OccupantView   `json:"occupants"`
	TileFlags   []TileFlagView   `json:"tileFlags"`
	Affordances []AffordanceView `json:"affordances"`
	Items       []ItemView       `json:"items"`
	Chat        []ChatView       `json:"chat"`
	Inventory   []InventoryView  `json:"inventory"`
}

type UserView struct {
	UserID   string   `json:"userId"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	X        int      `json:"x"`
	Y        int      `json:"y"`
}

type RoomView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Rows    int    `json:"rows"`
	RoomSeq int64  `json:"roomSeq"`
}

type OccupantView struct {
	UserID   string   `json:"userId"`
	Username string   `json:"username"`
	Roles    []string `json:"roles,omitempty"`
	X        int      `json:"x"`
	Y        int      `json:"y"`
}

type TileFlagView struct {
	X        int  `json:"x"`
	Y        int  `json:"y"`
	Locked   bool `json:"locked"`
	NoPickup bool `json:"noPickup"`
}

type AffordanceView struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Kind string `json:"kind"`
}

type ItemView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind,omitempty"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

type ChatView struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Body     string `json:"body"`
	SentAt   int64  `json:"sentAt"`
}

type InventoryView struct {
	ID           string `json:"id"`
	SourceItemID string `json:"sourceItemId"`
	Name         string `json:"name"`
	Kind         string `json:"kind,omitempty"`
	AcquiredAt   int64  `json:"acquiredAt"`
}

// Pushes

type OccupantJoined struct {
	Occupant OccupantView `json:"occupant"`
	RoomSeq  int64        `json:"roomSeq"`
}

type OccupantMoved struct {
	UserID  string `json:"userId"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	RoomSeq int64  `json:"roomSeq"`
}

type OccupantLeft struct {
	UserID  string `json:"userId"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	RoomSeq int64  `json:"roomSeq"`
}

type ItemRemoved struct {
	ItemID    string `json:"itemId"`
	ClaimedBy string `json:"claimedBy"`
	RoomSeq   int64  `json:"roomSeq"`
}

type ItemSpawned struct {
	Item    ItemView `json:"item"`
	RoomSeq int64    `json:"roomSeq"`
}

type TileFlagChanged struct {
	Flag    TileFlagView `json:"flag"`
	RoomSeq int64        `json:"roomSeq"`
}

type AffordanceChanged struct {
	Affordance AffordanceView `json:"affordance"`
	RoomSeq    int64          `json:"roomSeq"`
}

type ChatNew struct {
	Message ChatView `json:"message"`
	RoomSeq int64    `json:"roomSeq"`
}

type LatencyTraceView struct {
	TraceID      string `json:"traceId"`
	OriginID     string `json:"originId"`
	RequestedBy  string `json:"requestedBy"`
	OriginTime   int64  `json:"originTime"`
	DeliveryTime int64  `json:"deliveryTime"`
}

func roleStrings(roles []entities.Role) []string {
	if len(roles) == 0 {
		return nil
	}
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

func ViewOccupant(o entities.Occupant) OccupantView {
	return OccupantView{
		UserID:   o.UserID,
		Username: o.Username,
		Roles:    roleStrings(o.Roles),
		X:        o.Position.X,
		Y:        o.Position.Y,
	}
}

func ViewUser(o entities.Occupant) UserView {
	return UserView{
		UserID:   o.UserID,
		Username: o.Username,
		Roles:    roleStrings(o.Roles),
		X:        o.Position.X,
		Y:        o.Position.Y,
	}
}

func ViewTileFlag(f entities.TileFlag) TileFlagView {
	return TileFlagView{X: f.X, Y: f.Y, Locked: f.Locked, NoPickup: f.NoPickup}
}

func ViewAffordance(a entities.Affordance) AffordanceView {
	return AffordanceView{X: a.X, Y: a.Y, Kind: string(a.Kind)}
}

func ViewItem(i entities.RoomItem) ItemView {
	return ItemView{ID: i.ID, Name: i.Name, Kind: i.Kind, X: i.Position.X, Y: i.Position.Y}
}

func ViewChat(m entities.ChatMessage) ChatView {
	return ChatView{
		ID:       m.ID,
		UserID:   m.UserID,
		Username: m.Username,
		Body:     m.Body,
		SentAt:   m.SentAt.UnixMilli(),
	}
}

func ViewInventory(i entities.InventoryItem) InventoryView {
	return InventoryView{
		ID:           i.ID,
		SourceItemID: i.SourceItemID,
		Name:         i.Name,
		Kind:         i.Kind,
		AcquiredAt:   i.AcquiredAt.UnixMilli(),
	}
}

// ViewList maps a slice with fn, always returning a non-nil slice so the
// snapshot encodes [] instead of null.
func ViewList[T, V any](in []T, fn func(T) V) []V {
	out := make([]V, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}
