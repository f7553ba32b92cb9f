package protocol

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/KirkDiggler/roomserver/internal/entities"
)

const (
	MaxChatBodyRunes = 240
	maxIDLength      = 64
	maxNameRunes     = 64
)

// Request is the closed set of client payloads. Each variant belongs to
// exactly one op and validates itself before dispatch.
type Request interface {
	Op() string
	Validate() error
}

var requestFactories = map[string]func() Request{
	OpAuth:               func() Request { return &Auth{} },
	OpPing:               func() Request { return &Ping{} },
	OpMove:               func() Request { return &Move{} },
	OpChatSend:           func() Request { return &ChatSend{} },
	OpItemPickup:         func() Request { return &ItemPickup{} },
	OpAdminTileSet:       func() Request { return &TileSet{} },
	OpAdminAffordanceSet: func() Request { return &AffordanceSet{} },
	OpAdminItemSpawn:     func() Request { return &ItemSpawn{} },
	OpAdminLatencyTrace:  func() Request { return &LatencyTrace{} },
}

type Auth struct {
	Token string `json:"token"`
}

func (*Auth) Op() string { return OpAuth }

func (r *Auth) Validate() error {
	if strings.TrimSpace(r.Token) == "" {
		return errors.New("token is required")
	}
	return nil
}

type Ping struct{}

func (*Ping) Op() string      { return OpPing }
func (*Ping) Validate() error { return nil }

// Move asks to place the caller's avatar on tile (X, Y). Both coordinates
// are required; pointers tell a missing field apart from zero.
type Move struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

func (*Move) Op() string { return OpMove }

func (r *Move) Validate() error {
	if r.X == nil || r.Y == nil {
		return errors.New("x and y are required")
	}
	return nil
}

// Target returns the requested tile. Only valid after Validate.
func (r *Move) Target() entities.Position {
	return entities.Position{X: *r.X, Y: *r.Y}
}

type ChatSend struct {
	Body string `json:"body"`
}

func (*ChatSend) Op() string { return OpChatSend }

func (r *ChatSend) Validate() error {
	body := strings.TrimSpace(r.Body)
	if body == "" {
		return errors.New("body is required")
	}
	if utf8.RuneCountInString(body) > MaxChatBodyRunes {
		return errors.New("body is too long")
	}
	r.Body = body
	return nil
}

type ItemPickup struct {
	ItemID string `json:"itemId"`
}

func (*ItemPickup) Op() string { return OpItemPickup }

func (r *ItemPickup) Validate() error {
	r.ItemID = strings.TrimSpace(r.ItemID)
	if r.ItemID == "" {
		return errors.New("itemId is required")
	}
	if len(r.ItemID) > maxIDLength {
		return errors.New("itemId is too long")
	}
	return nil
}

type TileSet struct {
	X        *int `json:"x"`
	Y        *int `json:"y"`
	Locked   bool `json:"locked"`
	NoPickup bool `json:"noPickup"`
}

func (*TileSet) Op() string { return OpAdminTileSet }

func (r *TileSet) Validate() error {
	if r.X == nil || r.Y == nil {
		return errors.New("x and y are required")
	}
	return nil
}

func (r *TileSet) Flag() entities.TileFlag {
	return entities.TileFlag{
		Position: entities.Position{X: *r.X, Y: *r.Y},
		Locked:   r.Locked,
		NoPickup: r.NoPickup,
	}
}

type AffordanceSet struct {
	X    *int   `json:"x"`
	Y    *int   `json:"y"`
	Kind string `json:"kind"`
}

func (*AffordanceSet) Op() string { return OpAdminAffordanceSet }

func (r *AffordanceSet) Validate() error {
	if r.X == nil || r.Y == nil {
		return errors.New("x and y are required")
	}
	if !entities.AffordanceKind(r.Kind).Valid() {
		return errors.New("unknown affordance kind")
	}
	return nil
}

func (r *AffordanceSet) Affordance() entities.Affordance {
	return entities.Affordance{
		Position: entities.Position{X: *r.X, Y: *r.Y},
		Kind:     entities.AffordanceKind(r.Kind),
	}
}

type ItemSpawn struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	X    *int   `json:"x"`
	Y    *int   `json:"y"`
}

func (*ItemSpawn) Op() string { return OpAdminItemSpawn }

func (r *ItemSpawn) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return errors.New("name is required")
	}
	if utf8.RuneCountInString(r.Name) > maxNameRunes {
		return errors.New("name is too long")
	}
	if r.X == nil || r.Y == nil {
		return errors.New("x and y are required")
	}
	return nil
}

func (r *ItemSpawn) Target() entities.Position {
	return entities.Position{X: *r.X, Y: *r.Y}
}

type LatencyTrace struct {
	TraceID string `json:"traceId"`
}

func (*LatencyTrace) Op() string { return OpAdminLatencyTrace }

func (r *LatencyTrace) Validate() error {
	if r.TraceID == "" || len(r.TraceID) > maxIDLength {
		return errors.New("traceId is required")
	}
	return nil
}
