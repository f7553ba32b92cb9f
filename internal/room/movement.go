package room

import (
	"github.com/KirkDiggler/roomserver/internal/entities"
	"github.com/KirkDiggler/roomserver/internal/protocol"
)

// TileView is the read-only slice of room state a move is judged against.
type TileView interface {
	InBounds(p entities.Position) bool
	TileFlag(p entities.Position) entities.TileFlag
	OtherOccupantAt(p entities.Position, userID string) (string, bool)
}

// MoveDecision is the outcome of ValidateMove. A rejected decision carries
// the reason; an accepted NoOp must not advance the room seq.
type MoveDecision struct {
	Accepted bool
	NoOp     bool
	Reason   protocol.MoveCode
}

// ValidateMove decides whether userID, standing on current, may step onto
// target. Checks run in order: bounds, lock, occupancy, then same-tile.
func ValidateMove(view TileView, userID string, current, target entities.Position) MoveDecision {
	if !view.InBounds(target) {
		return MoveDecision{Reason: protocol.MoveInvalidTile}
	}
	if view.TileFlag(target).Locked {
		return MoveDecision{Reason: protocol.MoveLockedTile}
	}
	if _, ok := view.OtherOccupantAt(target, userID); ok {
		return MoveDecision{Reason: protocol.MoveOccupied}
	}
	if target == current {
		return MoveDecision{Accepted: true, NoOp: true}
	}
	return MoveDecision{Accepted: true}
}
