package room

import (
	"sort"

	"github.com/KirkDiggler/roomserver/internal/entities"
)

// Store is the authoritative in-memory state of one room. It is not safe
// for concurrent use; a single goroutine owns each Store and serializes
// every read and write.
type Store struct {
	room entities.Room
	grid Grid

	occupants map[string]*entities.Occupant
	// A tile can briefly hold several users when instances race, so it
	// keeps every holder rather than the last one placed.
	tiles  map[entities.Position]map[string]struct{}
	owners map[string]string // user id -> local conn id, empty for remote

	flags       map[entities.Position]entities.TileFlag
	affordances map[entities.Position]entities.Affordance

	items   map[string]*entities.RoomItem
	claimed map[string]string // item id -> claiming user id
}

// NewStore creates an empty store for room. room.Seq seeds the sequence.
func NewStore(room entities.Room) *Store {
	return &Store{
		room:        room,
		grid:        NewGrid(room.Rows),
		occupants:   make(map[string]*entities.Occupant),
		tiles:       make(map[entities.Position]map[string]struct{}),
		owners:      make(map[string]string),
		flags:       make(map[entities.Position]entities.TileFlag),
		affordances: make(map[entities.Position]entities.Affordance),
		items:       make(map[string]*entities.RoomItem),
		claimed:     make(map[string]string),
	}
}

// Room returns the room identity with the current sequence.
func (s *Store) Room() entities.Room {
	return s.room
}

// Grid returns the room bounds.
func (s *Store) Grid() Grid {
	return s.grid
}

// Seq returns the current room sequence.
func (s *Store) Seq() int64 {
	return s.room.Seq
}

// AdvanceSeq adopts seq only if it is greater than the current value and
// reports whether it did. The sequence never moves backwards.
func (s *Store) AdvanceSeq(seq int64) bool {
	if seq <= s.room.Seq {
		return false
	}
	s.room.Seq = seq
	return true
}

// InBounds implements TileView.
func (s *Store) InBounds(p entities.Position) bool {
	return s.grid.InBounds(p)
}

// TileFlag returns the flag at p, or the unrestricted default.
func (s *Store) TileFlag(p entities.Position) entities.TileFlag {
	if f, ok := s.flags[p]; ok {
		return f
	}
	return entities.TileFlag{Position: p}
}

// OccupantAt returns the user standing on p. When several users share p
// the lowest user id is returned.
func (s *Store) OccupantAt(p entities.Position) (string, bool) {
	return s.OtherOccupantAt(p, "")
}

// OtherOccupantAt implements TileView. It returns a user other than userID
// standing on p.
func (s *Store) OtherOccupantAt(p entities.Position, userID string) (string, bool) {
	found := ""
	for id := range s.tiles[p] {
		if id == userID {
			continue
		}
		if found == "" || id < found {
			found = id
		}
	}
	return found, found != ""
}

func (s *Store) occupyTile(p entities.Position, userID string) {
	holders, ok := s.tiles[p]
	if !ok {
		holders = make(map[string]struct{}, 1)
		s.tiles[p] = holders
	}
	holders[userID] = struct{}{}
}

func (s *Store) vacateTile(p entities.Position, userID string) {
	holders := s.tiles[p]
	delete(holders, userID)
	if len(holders) == 0 {
		delete(s.tiles, p)
	}
}

// Occupant returns a copy of the occupant for userID.
func (s *Store) Occupant(userID string) (entities.Occupant, bool) {
	o, ok := s.occupants[userID]
	if !ok {
		return entities.Occupant{}, false
	}
	return *o, true
}

// Owner returns the local connection that owns userID's presence. Remote
// occupants have no local owner.
func (s *Store) Owner(userID string) string {
	return s.owners[userID]
}

// Occupants returns all occupants ordered by user id.
func (s *Store) Occupants() []entities.Occupant {
	out := make([]entities.Occupant, 0, len(s.occupants))
	for _, o := range s.occupants {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

// PlaceOccupant inserts or replaces occ and records connID as its owner.
// Any occupant already on the tile stays indexed there, so callers placing
// local occupants must check OccupantAt first.
func (s *Store) PlaceOccupant(occ entities.Occupant, connID string) {
	if prev, ok := s.occupants[occ.UserID]; ok {
		s.vacateTile(prev.Position, occ.UserID)
	}
	o := occ
	s.occupants[occ.UserID] = &o
	s.occupyTile(occ.Position, occ.UserID)
	s.owners[occ.UserID] = connID
}

// MoveOccupant updates the position of an existing occupant.
func (s *Store) MoveOccupant(userID string, to entities.Position) bool {
	o, ok := s.occupants[userID]
	if !ok {
		return false
	}
	s.vacateTile(o.Position, userID)
	o.Position = to
	s.occupyTile(to, userID)
	return true
}

// RemoveOccupant deletes userID and returns the removed occupant.
func (s *Store) RemoveOccupant(userID string) (entities.Occupant, bool) {
	o, ok := s.occupants[userID]
	if !ok {
		return entities.Occupant{}, false
	}
	s.vacateTile(o.Position, userID)
	delete(s.occupants, userID)
	delete(s.owners, userID)
	return *o, true
}

// SetTileFlag records flag. Default flags are dropped from the index.
func (s *Store) SetTileFlag(flag entities.TileFlag) {
	if flag.IsDefault() {
		delete(s.flags, flag.Position)
		return
	}
	s.flags[flag.Position] = flag
}

// TileFlags returns the non-default flags in row-major order.
func (s *Store) TileFlags() []entities.TileFlag {
	out := make([]entities.TileFlag, 0, len(s.flags))
	for _, f := range s.flags {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return rowMajorLess(out[i].Position, out[j].Position) })
	return out
}

// SetAffordance records aff, clearing the tile when the kind is none.
func (s *Store) SetAffordance(aff entities.Affordance) {
	if aff.Kind == entities.AffordanceNone {
		delete(s.affordances, aff.Position)
		return
	}
	s.affordances[aff.Position] = aff
}

// Affordances returns the tile affordances in row-major order.
func (s *Store) Affordances() []entities.Affordance {
	out := make([]entities.Affordance, 0, len(s.affordances))
	for _, a := range s.affordances {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return rowMajorLess(out[i].Position, out[j].Position) })
	return out
}

// AddItem puts an unclaimed item in the room. Items that were already
// claimed are ignored.
func (s *Store) AddItem(item entities.RoomItem) bool {
	if _, gone := s.claimed[item.ID]; gone || item.Claimed() {
		return false
	}
	it := item
	s.items[item.ID] = &it
	return true
}

// Item returns a copy of the unclaimed item with id.
func (s *Store) Item(id string) (entities.RoomItem, bool) {
	it, ok := s.items[id]
	if !ok {
		return entities.RoomItem{}, false
	}
	return *it, true
}

// ClaimedBy returns who claimed id, if the room has seen the claim. The
// claimant is empty when only the fact of the claim is known.
func (s *Store) ClaimedBy(id string) (string, bool) {
	by, ok := s.claimed[id]
	return by, ok
}

// RemoveItem evicts id from the unclaimed items.
func (s *Store) RemoveItem(id string) bool {
	_, ok := s.items[id]
	delete(s.items, id)
	return ok
}

// MarkClaimed evicts id and remembers that it was claimed, so it can never
// be added back.
func (s *Store) MarkClaimed(id, by string) {
	delete(s.items, id)
	if prev, ok := s.claimed[id]; ok && by == "" {
		by = prev
	}
	s.claimed[id] = by
}

// Items returns the unclaimed items ordered by id.
func (s *Store) Items() []entities.RoomItem {
	out := make([]entities.RoomItem, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, *it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SpawnPoint picks a tile for a new occupant: preferred if it is free,
// then the room door, then the first free tile in row-major order.
func (s *Store) SpawnPoint(preferred *entities.Position) (entities.Position, bool) {
	if preferred != nil && s.spawnable(*preferred) {
		return *preferred, true
	}
	if s.spawnable(s.room.Door) {
		return s.room.Door, true
	}
	var found entities.Position
	ok := false
	s.grid.Walk(func(p entities.Position) bool {
		if s.spawnable(p) {
			found, ok = p, true
			return false
		}
		return true
	})
	return found, ok
}

func (s *Store) spawnable(p entities.Position) bool {
	if !s.grid.InBounds(p) || s.TileFlag(p).Locked {
		return false
	}
	_, taken := s.tiles[p]
	return !taken
}

func rowMajorLess(a, b entities.Position) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}
