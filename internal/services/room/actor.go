package room

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/KirkDiggler/roomserver/internal/eventbus"
	"github.com/KirkDiggler/roomserver/internal/events"
	"github.com/KirkDiggler/roomserver/internal/protocol"
	roomstate "github.com/KirkDiggler/roomserver/internal/room"
)

const (
	commandBuffer  = 256
	publishTimeout = 2 * time.Second
)

// roomActor owns one room's store. Only the run goroutine touches store
// and sessions.
type roomActor struct {
	id     string
	svc    *service
	logger *zap.Logger

	store    *roomstate.Store
	sessions map[string]Session

	cmds chan func(*roomActor)
	quit chan struct{}
	done chan struct{}
	sub  eventbus.Subscription

	// ctx bounds persistence calls made by the actor. It outlives the
	// request that triggered them so a commit is never abandoned halfway.
	ctx    context.Context
	cancel context.CancelFunc

	started  bool
	stopOnce sync.Once
}

func newRoomActor(svc *service, roomID string, logger *zap.Logger) *roomActor {
	ctx, cancel := context.WithCancel(context.Background())
	return &roomActor{
		id:       roomID,
		svc:      svc,
		logger:   logger,
		sessions: make(map[string]Session),
		cmds:     make(chan func(*roomActor), commandBuffer),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (a *roomActor) run() {
	defer close(a.done)
	for {
		select {
		case <-a.quit:
			return
		case cmd := <-a.cmds:
			cmd(a)
		}
	}
}

// start must be called at most once, before the actor is shared
func (a *roomActor) start() {
	a.started = true
	go a.run()
}

// stop ends the subscription and the run loop. Safe to call more than once.
func (a *roomActor) stop() {
	a.stopOnce.Do(func() {
		close(a.quit)
		if a.sub != nil {
			if err := a.sub.Close(); err != nil {
				a.logger.Warn("failed to close room subscription", zap.Error(err))
			}
		}
		if a.started {
			<-a.done
		}
		a.cancel()
	})
}

// do runs fn on the actor and waits for it. Once fn is queued it always
// runs to completion, whatever happens to ctx.
func (a *roomActor) do(ctx context.Context, fn func(*roomActor)) error {
	finished := make(chan struct{})
	cmd := func(a *roomActor) {
		defer close(finished)
		fn(a)
	}

	select {
	case a.cmds <- cmd:
	case <-a.quit:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-finished:
		return nil
	case <-a.done:
		select {
		case <-finished:
			return nil
		default:
			return ErrClosed
		}
	}
}

// enqueueRemote is the bus handler. It blocks while the queue is full so
// remote events are never dropped, unless the room is stopping.
func (a *roomActor) enqueueRemote(event *events.RoomEvent) {
	select {
	case a.cmds <- func(a *roomActor) { a.applyRemote(event) }:
	case <-a.quit:
	}
}

// emit delivers a locally committed event to this instance's sessions,
// except the one that caused it, and publishes it to the other instances.
func (a *roomActor) emit(event *events.RoomEvent) {
	a.broadcastLocal(event, event.ConnID)

	ctx, cancel := context.WithTimeout(a.ctx, publishTimeout)
	defer cancel()
	if err := a.svc.relay.Publish(ctx, event); err != nil {
		a.logger.Error("failed to publish room event",
			zap.String("type", string(event.Type)),
			zap.Int64("seq", event.Seq),
			zap.Error(err))
	}
}

func (a *roomActor) broadcastLocal(event *events.RoomEvent, excludeConnID string) {
	now := a.svc.clock.Now()
	op, data := event.Push(now)
	frame, err := protocol.Encode(op, 0, now, data)
	if err != nil {
		a.logger.Error("failed to encode room push", zap.String("op", op), zap.Error(err))
		return
	}
	a.svc.broadcaster.Broadcast(a.id, frame, excludeConnID)
}
