package entities

// Position is a tile coordinate on a room grid
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Room is the persisted identity of a room. Seq is the room's logical
// clock and strictly increases on every committed mutation.
type Room struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Rows int      `json:"rows"` // Number of grid rows, 0 uses the default
	Door Position `json:"door"` // Preferred spawn tile
	Seq  int64    `json:"seq"`
}

// TileFlag holds administrative attributes for one tile. Tiles without a
// record are unlocked and allow pickup.
type TileFlag struct {
	Position
	Locked   bool `json:"locked"`    // Blocks movement and item spawning
	NoPickup bool `json:"no_pickup"` // Blocks item pickup
}

// IsDefault reports whether the flag carries no restriction.
func (f TileFlag) IsDefault() bool {
	return !f.Locked && !f.NoPickup
}

// AffordanceKind describes what an avatar can do on a tile
type AffordanceKind string

const (
	AffordanceNone AffordanceKind = ""
	AffordanceSit  AffordanceKind = "sit"
	AffordanceLay  AffordanceKind = "lay"
)

// Valid reports whether the kind is one the client knows how to render.
func (k AffordanceKind) Valid() bool {
	switch k {
	case AffordanceNone, AffordanceSit, AffordanceLay:
		return true
	}
	return false
}

// Affordance binds an interaction kind to a tile
type Affordance struct {
	Position
	Kind AffordanceKind `json:"kind"`
}
