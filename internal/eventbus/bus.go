// Package eventbus carries committed room events between server instances.
//
// Every instance publishes its own events on a per-room channel and
// subscribes to the same channel. Messages are tagged with the producing
// instance's origin id so an instance can drop its own echoes.
package eventbus

import (
	"context"
	"errors"
	"fmt"

	"github.com/KirkDiggler/roomserver/internal/events"
)

const channelPattern = "roomserver:room:%s:events"

// ErrClosed is returned when publishing to or subscribing on a closed bus
var ErrClosed = errors.New("event bus closed")

// Message is the body of every bus message
type Message struct {
	OriginID string           `json:"originId"`
	Event    events.RoomEvent `json:"event"`
}

// Handler receives the messages of one subscription. It is always called
// from a single goroutine per subscription.
type Handler func(Message)

// Subscription ends delivery to its handler when closed
type Subscription interface {
	Close() error
}

// Bus is a per-room publish/subscribe channel shared by all instances.
// Delivery is at-least-once with no ordering across publishers.
type Bus interface {
	Publish(ctx context.Context, roomID string, msg Message) error
	Subscribe(ctx context.Context, roomID string, handler Handler) (Subscription, error)
	Close() error
}

// Channel returns the channel name used for roomID
func Channel(roomID string) string {
	return fmt.Sprintf(channelPattern, roomID)
}
