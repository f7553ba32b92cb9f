package room

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/roomserver/internal/entities"
	apperrors "github.com/KirkDiggler/roomserver/internal/errors"
	"github.com/KirkDiggler/roomserver/internal/repositories"
	roomstate "github.com/KirkDiggler/roomserver/internal/room"
)

// defaultDoor is where rooms created on first use place new occupants
var defaultDoor = entities.Position{X: 5, Y: 0}

// actor returns the running actor for roomID, loading the room on first use.
// Concurrent first uses share one load.
func (s *service) actor(ctx context.Context, roomID string) (*roomActor, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if a, ok := s.actors[roomID]; ok {
		s.mu.Unlock()
		return a, nil
	}
	s.mu.Unlock()

	v, err, _ := s.loads.Do(roomID, func() (any, error) {
		s.mu.Lock()
		if a, ok := s.actors[roomID]; ok {
			s.mu.Unlock()
			return a, nil
		}
		s.mu.Unlock()

		a, err := s.load(ctx, roomID)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			a.stop()
			return nil, ErrClosed
		}
		s.actors[roomID] = a
		return a, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*roomActor), nil
}

// load hydrates a room from persistence and starts its actor. The bus
// subscription is opened before reading state so no remote event that
// commits during hydration is lost; queued events are applied once the
// actor starts.
func (s *service) load(ctx context.Context, roomID string) (*roomActor, error) {
	logger := s.logger.With(zap.String("room_id", roomID))

	a := newRoomActor(s, roomID, logger)
	sub, err := s.relay.Subscribe(ctx, roomID, a.enqueueRemote)
	if err != nil {
		a.stop()
		return nil, apperrors.Unavailable(err, "failed to subscribe to room events").
			WithMeta("room_id", roomID)
	}
	a.sub = sub

	store, err := s.hydrate(ctx, roomID)
	if err != nil {
		a.stop()
		return nil, err
	}
	a.store = store

	a.start()
	logger.Info("room loaded",
		zap.Int64("seq", store.Seq()),
		zap.Int("occupants", len(store.Occupants())),
		zap.Int("items", len(store.Items())))
	return a, nil
}

func (s *service) hydrate(ctx context.Context, roomID string) (*roomstate.Store, error) {
	room, err := s.rooms.Get(ctx, roomID)
	if errors.Is(err, repositories.ErrNotFound) {
		room = &entities.Room{ID: roomID, Name: roomID, Rows: roomstate.DefaultRows, Door: defaultDoor}
		if err := s.rooms.Save(ctx, room); err != nil {
			return nil, apperrors.Unavailable(err, "failed to create room").WithMeta("room_id", roomID)
		}
		// The sequence may already exist if another instance got here first
		if existing, getErr := s.rooms.Get(ctx, roomID); getErr == nil {
			room = existing
		}
	} else if err != nil {
		return nil, apperrors.Unavailable(err, "failed to load room").WithMeta("room_id", roomID)
	}

	var (
		flags       []entities.TileFlag
		affordances []entities.Affordance
		roomItems   []entities.RoomItem
		present     []entities.Occupant
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		flags, err = s.rooms.ListTileFlags(gctx, roomID)
		return err
	})
	g.Go(func() error {
		var err error
		affordances, err = s.rooms.ListAffordances(gctx, roomID)
		return err
	})
	g.Go(func() error {
		var err error
		roomItems, err = s.items.List(gctx, roomID)
		return err
	})
	g.Go(func() error {
		var err error
		present, err = s.occupants.List(gctx, roomID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Unavailable(err, "failed to hydrate room").WithMeta("room_id", roomID)
	}

	store := roomstate.NewStore(*room)
	for _, f := range flags {
		store.SetTileFlag(f)
	}
	for _, aff := range affordances {
		store.SetAffordance(aff)
	}
	for _, it := range roomItems {
		store.AddItem(it)
	}
	// Presence persisted by other instances; none of it is owned locally
	for _, occ := range present {
		if _, taken := store.OccupantAt(occ.Position); taken {
			continue
		}
		store.PlaceOccupant(occ, "")
	}
	return store, nil
}

// Close stops every loaded room
func (s *service) Close() error {
	s.mu.Lock()
	s.closed = true
	actors := make([]*roomActor, 0, len(s.actors))
	for _, a := range s.actors {
		actors = append(actors, a)
	}
	s.actors = make(map[string]*roomActor)
	s.mu.Unlock()

	for _, a := range actors {
		a.stop()
	}
	return nil
}

// existing returns the actor for roomID if it is loaded
func (s *service) existing(roomID string) (*roomActor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	a, ok := s.actors[roomID]
	if !ok {
		return nil, apperrors.NotFound("room is not loaded").WithMeta("room_id", roomID)
	}
	return a, nil
}
