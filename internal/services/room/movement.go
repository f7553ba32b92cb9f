package room

import (
	"context"

	"go.uber.org/zap"

	apperrors "github.com/KirkDiggler/roomserver/internal/errors"
	"github.com/KirkDiggler/roomserver/internal/events"
	"github.com/KirkDiggler/roomserver/internal/protocol"
	roomstate "github.com/KirkDiggler/roomserver/internal/room"
)

// Move validates and commits a step. Rejections are results, not errors;
// the error is only set when the accepted move could not be persisted.
func (s *service) Move(ctx context.Context, input *MoveInput) (*MoveResult, error) {
	if input == nil {
		return nil, apperrors.InvalidArgument("input is required")
	}
	a, err := s.existing(input.RoomID)
	if apperrors.IsNotFound(err) {
		return &MoveResult{Code: protocol.MoveNotInRoom}, nil
	}
	if err != nil {
		return nil, err
	}

	var (
		result *MoveResult
		opErr  error
	)
	if err := a.do(ctx, func(a *roomActor) {
		result, opErr = a.move(input)
	}); err != nil {
		return nil, err
	}
	return result, opErr
}

func (a *roomActor) move(input *MoveInput) (*MoveResult, error) {
	st := a.store
	occ, ok := st.Occupant(input.UserID)
	if !ok || st.Owner(input.UserID) != input.ConnID {
		return &MoveResult{Code: protocol.MoveNotInRoom, RoomSeq: st.Seq()}, nil
	}

	rejected := &MoveResult{Position: occ.Position, RoomSeq: st.Seq()}
	decision := roomstate.ValidateMove(st, input.UserID, occ.Position, input.Target)
	if !decision.Accepted {
		rejected.Code = decision.Reason
		return rejected, nil
	}
	if decision.NoOp {
		rejected.Accepted = true
		return rejected, nil
	}

	moved := occ
	moved.Position = input.Target
	seq, err := a.svc.occupants.Upsert(a.ctx, a.id, moved)
	if err != nil {
		a.logger.Error("failed to persist move",
			zap.String("user_id", input.UserID),
			zap.Error(err))
		rejected.Code = protocol.MovePersistFailed
		return rejected, apperrors.Unavailable(err, "failed to persist move").WithMeta("room_id", a.id)
	}

	st.MoveOccupant(input.UserID, input.Target)
	st.AdvanceSeq(seq)

	event := events.NewOccupantMoved(a.id, seq, a.svc.clock.Now(), input.UserID, input.Target)
	event.ConnID = input.ConnID
	a.emit(event)

	return &MoveResult{Accepted: true, Position: input.Target, RoomSeq: seq}, nil
}
