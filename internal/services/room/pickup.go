package room

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/KirkDiggler/roomserver/internal/entities"
	apperrors "github.com/KirkDiggler/roomserver/internal/errors"
	"github.com/KirkDiggler/roomserver/internal/events"
	"github.com/KirkDiggler/roomserver/internal/protocol"
	"github.com/KirkDiggler/roomserver/internal/repositories"
)

// Pickup claims an item for the occupant standing on its tile. Every
// failure is reported as a code; the error is only set when the claim
// could not reach persistence.
func (s *service) Pickup(ctx context.Context, input *PickupInput) (*PickupResult, error) {
	if input == nil {
		return nil, apperrors.InvalidArgument("input is required")
	}
	if strings.TrimSpace(input.ItemID) == "" {
		return &PickupResult{Code: protocol.PickupValidationFailed}, nil
	}

	a, err := s.existing(input.RoomID)
	if apperrors.IsNotFound(err) {
		return &PickupResult{Code: protocol.PickupNotInRoom}, nil
	}
	if err != nil {
		return nil, err
	}

	var (
		result *PickupResult
		opErr  error
	)
	if err := a.do(ctx, func(a *roomActor) {
		result, opErr = a.pickup(input)
	}); err != nil {
		return nil, err
	}
	return result, opErr
}

func (a *roomActor) pickup(input *PickupInput) (*PickupResult, error) {
	st := a.store
	failed := func(code protocol.PickupCode) *PickupResult {
		return &PickupResult{Code: code, RoomSeq: st.Seq()}
	}

	occ, ok := st.Occupant(input.UserID)
	if !ok || st.Owner(input.UserID) != input.ConnID {
		return failed(protocol.PickupNotInRoom), nil
	}

	item, ok := st.Item(input.ItemID)
	if !ok {
		if _, claimed := st.ClaimedBy(input.ItemID); claimed {
			return failed(protocol.PickupAlreadyPickedUp), nil
		}
		return failed(protocol.PickupNotFound), nil
	}
	if item.Position != occ.Position {
		return failed(protocol.PickupNotOnTile), nil
	}
	if st.TileFlag(item.Position).NoPickup {
		return failed(protocol.PickupTileBlocked), nil
	}

	inv := entities.InventoryItem{
		ID:           a.svc.uuidGenerator.New(),
		UserID:       input.UserID,
		SourceItemID: item.ID,
		Name:         item.Name,
		Kind:         item.Kind,
		AcquiredAt:   a.svc.clock.Now(),
	}
	logger := a.logger.With(zap.String("user_id", input.UserID), zap.String("item_id", item.ID))

	seq, err := a.svc.items.Claim(a.ctx, a.id, item.ID, inv)
	switch {
	case errors.Is(err, repositories.ErrAlreadyClaimed):
		// Another instance won; its item_removed event may still be in flight
		st.MarkClaimed(item.ID, "")
		logger.Info("lost item claim race")
		return failed(protocol.PickupAlreadyPickedUp), nil
	case errors.Is(err, repositories.ErrNotFound):
		st.RemoveItem(item.ID)
		return failed(protocol.PickupNotFound), nil
	case err != nil:
		logger.Error("failed to persist item claim", zap.Error(err))
		return failed(protocol.PickupPersistFailed),
			apperrors.Unavailable(err, "failed to persist item claim").WithMeta("room_id", a.id)
	}

	st.MarkClaimed(item.ID, input.UserID)
	st.AdvanceSeq(seq)

	event := events.NewItemRemoved(a.id, seq, inv.AcquiredAt, item.ID, input.UserID)
	event.ConnID = input.ConnID
	a.emit(event)

	logger.Info("item picked up", zap.Int64("seq", seq))
	return &PickupResult{Inventory: &inv, RoomSeq: seq}, nil
}
