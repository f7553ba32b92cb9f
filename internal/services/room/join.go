package room

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/roomserver/internal/entities"
	apperrors "github.com/KirkDiggler/roomserver/internal/errors"
	"github.com/KirkDiggler/roomserver/internal/events"
	"github.com/KirkDiggler/roomserver/internal/repositories"
)

// Join places the identity in its last persisted room or the default room
func (s *service) Join(ctx context.Context, input *JoinInput) (*JoinResult, error) {
	if input == nil || input.Identity == nil || input.Session == nil {
		return nil, apperrors.InvalidArgument("identity and session are required")
	}
	if input.Identity.UserID == "" {
		return nil, apperrors.InvalidArgument("user ID is required")
	}

	roomID := s.defaultRoomID
	var preferred *entities.Position

	loc, err := s.occupants.GetLastLocation(ctx, input.Identity.UserID)
	switch {
	case err == nil && loc.RoomID != "":
		roomID = loc.RoomID
		pos := loc.Position
		preferred = &pos
	case err == nil, errors.Is(err, repositories.ErrNotFound):
	default:
		return nil, apperrors.Unavailable(err, "failed to load last location").
			WithMeta("user_id", input.Identity.UserID)
	}

	a, err := s.actor(ctx, roomID)
	if err != nil {
		return nil, err
	}

	var (
		result *JoinResult
		opErr  error
	)
	if err := a.do(ctx, func(a *roomActor) {
		result, opErr = a.join(input.Identity, input.Session, preferred)
	}); err != nil {
		return nil, err
	}
	return result, opErr
}

func (a *roomActor) join(identity *entities.Identity, sess Session, preferred *entities.Position) (*JoinResult, error) {
	st := a.store
	connID := sess.ID()
	logger := a.logger.With(zap.String("user_id", identity.UserID), zap.String("conn_id", connID))

	var pos entities.Position
	if current, ok := st.Occupant(identity.UserID); ok {
		pos = current.Position
	} else {
		spawn, ok := st.SpawnPoint(preferred)
		if !ok {
			return nil, apperrors.Conflict("room is full").WithMeta("room_id", a.id)
		}
		pos = spawn
	}

	var (
		history   []entities.ChatMessage
		inventory []entities.InventoryItem
	)
	g, gctx := errgroup.WithContext(a.ctx)
	g.Go(func() error {
		var err error
		history, err = a.svc.chat.ListRecent(gctx, a.id, a.svc.chatHistory)
		return err
	})
	g.Go(func() error {
		var err error
		inventory, err = a.svc.items.ListInventory(gctx, identity.UserID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Unavailable(err, "failed to load join snapshot").WithMeta("room_id", a.id)
	}

	occ := entities.Occupant{
		UserID:   identity.UserID,
		Username: identity.Username,
		Roles:    identity.Roles,
		Position: pos,
	}
	seq, err := a.svc.occupants.Upsert(a.ctx, a.id, occ)
	if err != nil {
		return nil, apperrors.Unavailable(err, "failed to persist occupant").WithMeta("room_id", a.id)
	}

	// A second login takes the occupant over from the older connection
	if previous := st.Owner(identity.UserID); previous != "" && previous != connID {
		a.dropSession(previous, "session replaced")
		logger.Info("replaced session", zap.String("previous_conn_id", previous))
	}

	st.PlaceOccupant(occ, connID)
	st.AdvanceSeq(seq)
	a.sessions[connID] = sess
	a.svc.broadcaster.Register(a.id, sess)

	event := events.NewOccupantJoined(a.id, seq, a.svc.clock.Now(), occ)
	event.ConnID = connID
	a.emit(event)

	logger.Info("occupant joined", zap.Int64("seq", seq), zap.Int("x", pos.X), zap.Int("y", pos.Y))

	return &JoinResult{
		Room:        st.Room(),
		Occupant:    occ,
		Occupants:   st.Occupants(),
		TileFlags:   st.TileFlags(),
		Affordances: st.Affordances(),
		Items:       st.Items(),
		Chat:        history,
		Inventory:   inventory,
	}, nil
}

// dropSession kicks and forgets a local session
func (a *roomActor) dropSession(connID, reason string) {
	if sess, ok := a.sessions[connID]; ok {
		sess.Kick(reason)
		delete(a.sessions, connID)
	}
	a.svc.broadcaster.Unregister(a.id, connID)
}

// Leave removes the occupant if input.ConnID still owns it
func (s *service) Leave(ctx context.Context, input *LeaveInput) error {
	if input == nil || input.RoomID == "" {
		return nil
	}
	a, err := s.existing(input.RoomID)
	if err != nil {
		return err
	}
	return a.do(ctx, func(a *roomActor) {
		a.leave(input.UserID, input.ConnID)
	})
}

func (a *roomActor) leave(userID, connID string) {
	delete(a.sessions, connID)
	a.svc.broadcaster.Unregister(a.id, connID)

	st := a.store
	// A replaced connection no longer owns the occupant
	if st.Owner(userID) != connID {
		return
	}
	occ, ok := st.RemoveOccupant(userID)
	if !ok {
		return
	}

	logger := a.logger.With(zap.String("user_id", userID), zap.String("conn_id", connID))
	event := events.NewOccupantLeft(a.id, 0, a.svc.clock.Now(), userID, occ.Position)

	seq, err := a.svc.occupants.Clear(a.ctx, a.id, userID, occ.Position)
	if err != nil {
		// The connection is gone either way; peers still need to see it leave
		logger.Error("failed to persist leave", zap.Error(err))
		seq, err = a.svc.rooms.IncrementSeq(a.ctx, a.id)
	}
	if err != nil {
		logger.Error("failed to advance room sequence for leave", zap.Error(err))
		event.Seq = st.Seq()
		a.broadcastLocal(event, "")
		return
	}

	st.AdvanceSeq(seq)
	event.Seq = seq
	a.emit(event)
	logger.Info("occupant left", zap.Int64("seq", seq))
}
