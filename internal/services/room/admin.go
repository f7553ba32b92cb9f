package room

import (
	"context"

	"go.uber.org/zap"

	"github.com/KirkDiggler/roomserver/internal/entities"
	apperrors "github.com/KirkDiggler/roomserver/internal/errors"
	"github.com/KirkDiggler/roomserver/internal/events"
)

func requireAdmin(identity *entities.Identity) error {
	if !identity.HasRole(entities.RoleAdmin) {
		return apperrors.PermissionDenied("admin role required")
	}
	return nil
}

// SetTileFlag changes the flags of one tile
func (s *service) SetTileFlag(ctx context.Context, input *SetTileFlagInput) (*AdminResult, error) {
	if input == nil {
		return nil, apperrors.InvalidArgument("input is required")
	}
	if err := requireAdmin(input.Identity); err != nil {
		return nil, err
	}
	a, err := s.actor(ctx, input.RoomID)
	if err != nil {
		return nil, err
	}

	var (
		result *AdminResult
		opErr  error
	)
	if err := a.do(ctx, func(a *roomActor) {
		result, opErr = a.setTileFlag(input)
	}); err != nil {
		return nil, err
	}
	return result, opErr
}

func (a *roomActor) setTileFlag(input *SetTileFlagInput) (*AdminResult, error) {
	flag := input.Flag
	if !a.store.InBounds(flag.Position) {
		return nil, apperrors.Validationf("tile (%d,%d) is outside the room", flag.X, flag.Y)
	}

	seq, err := a.svc.rooms.SetTileFlag(a.ctx, a.id, flag)
	if err != nil {
		return nil, apperrors.Unavailable(err, "failed to persist tile flag").WithMeta("room_id", a.id)
	}
	a.store.SetTileFlag(flag)
	a.store.AdvanceSeq(seq)

	event := events.NewTileFlagChanged(a.id, seq, a.svc.clock.Now(), flag)
	event.ConnID = input.ConnID
	a.emit(event)

	a.logger.Info("tile flag changed",
		zap.String("admin_id", input.Identity.UserID),
		zap.Int("x", flag.X), zap.Int("y", flag.Y),
		zap.Bool("locked", flag.Locked), zap.Bool("no_pickup", flag.NoPickup))
	return &AdminResult{RoomSeq: seq}, nil
}

// SetAffordance changes what avatars can do on one tile
func (s *service) SetAffordance(ctx context.Context, input *SetAffordanceInput) (*AdminResult, error) {
	if input == nil {
		return nil, apperrors.InvalidArgument("input is required")
	}
	if err := requireAdmin(input.Identity); err != nil {
		return nil, err
	}
	if !input.Affordance.Kind.Valid() {
		return nil, apperrors.Validationf("unknown affordance kind %q", input.Affordance.Kind)
	}
	a, err := s.actor(ctx, input.RoomID)
	if err != nil {
		return nil, err
	}

	var (
		result *AdminResult
		opErr  error
	)
	if err := a.do(ctx, func(a *roomActor) {
		result, opErr = a.setAffordance(input)
	}); err != nil {
		return nil, err
	}
	return result, opErr
}

func (a *roomActor) setAffordance(input *SetAffordanceInput) (*AdminResult, error) {
	aff := input.Affordance
	if !a.store.InBounds(aff.Position) {
		return nil, apperrors.Validationf("tile (%d,%d) is outside the room", aff.X, aff.Y)
	}

	seq, err := a.svc.rooms.SetAffordance(a.ctx, a.id, aff)
	if err != nil {
		return nil, apperrors.Unavailable(err, "failed to persist affordance").WithMeta("room_id", a.id)
	}
	a.store.SetAffordance(aff)
	a.store.AdvanceSeq(seq)

	event := events.NewAffordanceChanged(a.id, seq, a.svc.clock.Now(), aff)
	event.ConnID = input.ConnID
	a.emit(event)
	return &AdminResult{RoomSeq: seq}, nil
}

// SpawnItem places a new item on an unlocked tile
func (s *service) SpawnItem(ctx context.Context, input *SpawnItemInput) (*SpawnItemResult, error) {
	if input == nil {
		return nil, apperrors.InvalidArgument("input is required")
	}
	if err := requireAdmin(input.Identity); err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, apperrors.Validation("item name is required")
	}
	a, err := s.actor(ctx, input.RoomID)
	if err != nil {
		return nil, err
	}

	var (
		result *SpawnItemResult
		opErr  error
	)
	if err := a.do(ctx, func(a *roomActor) {
		result, opErr = a.spawnItem(input)
	}); err != nil {
		return nil, err
	}
	return result, opErr
}

func (a *roomActor) spawnItem(input *SpawnItemInput) (*SpawnItemResult, error) {
	pos := input.Position
	if !a.store.InBounds(pos) {
		return nil, apperrors.Validationf("tile (%d,%d) is outside the room", pos.X, pos.Y)
	}
	if a.store.TileFlag(pos).Locked {
		return nil, apperrors.Validationf("tile (%d,%d) is locked", pos.X, pos.Y)
	}

	item := entities.RoomItem{
		ID:        a.svc.uuidGenerator.New(),
		RoomID:    a.id,
		Name:      input.Name,
		Kind:      input.Kind,
		Position:  pos,
		CreatedAt: a.svc.clock.Now(),
	}
	seq, err := a.svc.items.Create(a.ctx, &item)
	if err != nil {
		return nil, apperrors.Unavailable(err, "failed to persist item").WithMeta("room_id", a.id)
	}
	a.store.AddItem(item)
	a.store.AdvanceSeq(seq)

	event := events.NewItemSpawned(a.id, seq, item)
	event.ConnID = input.ConnID
	a.emit(event)

	a.logger.Info("item spawned",
		zap.String("admin_id", input.Identity.UserID),
		zap.String("item_id", item.ID),
		zap.Int("x", pos.X), zap.Int("y", pos.Y))
	return &SpawnItemResult{Item: item, RoomSeq: seq}, nil
}

// TraceLatency sends a probe to every session of the room, the requester
// included, on every instance. The room sequence is not touched.
func (s *service) TraceLatency(ctx context.Context, input *TraceLatencyInput) error {
	if input == nil {
		return apperrors.InvalidArgument("input is required")
	}
	if err := requireAdmin(input.Identity); err != nil {
		return err
	}
	if input.TraceID == "" {
		return apperrors.Validation("trace ID is required")
	}
	a, err := s.actor(ctx, input.RoomID)
	if err != nil {
		return err
	}

	return a.do(ctx, func(a *roomActor) {
		now := a.svc.clock.Now()
		a.emit(events.NewLatencyTrace(a.id, now, events.LatencyTrace{
			TraceID:     input.TraceID,
			RequestedBy: input.Identity.UserID,
			OriginID:    a.svc.relay.OriginID(),
			OriginTime:  now,
		}))
	})
}
