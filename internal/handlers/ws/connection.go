package ws

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/KirkDiggler/roomserver/internal/entities"
	"github.com/KirkDiggler/roomserver/internal/services/room"
)

// State is where a connection is in its lifecycle
type State int

const (
	StateConnecting State = iota
	StateAuthenticating
	StateActive
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAuthenticating:
		return "authenticating"
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// connection is one client socket. The read loop owns identity, roomID
// and malformed; everything else is guarded.
type connection struct {
	id     string
	h      *Handler
	ws     *websocket.Conn
	logger *zap.Logger

	send        chan []byte
	done        chan struct{}
	closeOnce   sync.Once
	closeCode   int
	closeReason string

	mu    sync.Mutex
	state State
	// Room pushes that arrive while auth is completing wait here so the
	// snapshot is always the first frame after auth.
	pending [][]byte

	identity  *entities.Identity
	roomID    string
	malformed int
}

func newConnection(h *Handler, id string, ws *websocket.Conn) *connection {
	return &connection{
		id:     id,
		h:      h,
		ws:     ws,
		logger: h.logger.With(zap.String("conn_id", id)),
		send:   make(chan []byte, h.sendBuffer),
		done:   make(chan struct{}),
		state:  StateConnecting,
	}
}

// ID implements room.Session
func (c *connection) ID() string {
	return c.id
}

// Send implements room.Session. It never blocks; a connection that cannot
// keep up is closed.
func (c *connection) Send(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateActive {
		if c.isClosed() {
			return false
		}
		if len(c.pending) >= c.h.sendBuffer {
			c.close(websocket.CloseTryAgainLater, "slow consumer")
			return false
		}
		c.pending = append(c.pending, frame)
		return true
	}
	return c.enqueue(frame)
}

// Kick implements room.Session
func (c *connection) Kick(reason string) {
	c.logger.Info("kicking connection", zap.String("reason", reason))
	c.close(websocket.ClosePolicyViolation, reason)
}

func (c *connection) enqueue(frame []byte) bool {
	if c.isClosed() {
		return false
	}
	select {
	case c.send <- frame:
		return true
	default:
		c.logger.Warn("outbound queue full, closing connection")
		c.close(websocket.CloseTryAgainLater, "slow consumer")
		return false
	}
}

// activate queues the snapshot, then whatever was pushed while it was
// being built.
func (c *connection) activate(snapshot []byte, identity *entities.Identity, roomID string) {
	c.identity = identity
	c.roomID = roomID

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateActive
	if !c.enqueue(snapshot) {
		return
	}
	for _, frame := range c.pending {
		if !c.enqueue(frame) {
			break
		}
	}
	c.pending = nil
}

func (c *connection) setState(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
}

func (c *connection) currentState() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// close asks the write pump to send a close frame and drop the socket.
// Only the first call has any effect.
func (c *connection) close(code int, reason string) {
	c.closeOnce.Do(func() {
		c.closeCode = code
		c.closeReason = reason
		close(c.done)
	})
}

func (c *connection) isClosed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *connection) serve(ctx context.Context) {
	go c.writePump()
	defer c.finish()

	c.setState(StateAuthenticating)
	c.ws.SetReadLimit(maxFrameBytes)
	c.logger.Debug("connection opened", zap.String("remote_addr", c.ws.RemoteAddr().String()))

	for {
		// Any frame, ping included, keeps the connection alive
		if err := c.ws.SetReadDeadline(time.Now().Add(c.h.heartbeatTimeout)); err != nil {
			c.close(websocket.CloseInternalServerErr, "")
			return
		}
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			c.readFailed(err)
			return
		}

		c.handle(ctx, raw)
		if c.isClosed() {
			return
		}
	}
}

func (c *connection) readFailed(err error) {
	var netErr net.Error
	switch {
	case errors.As(err, &netErr) && netErr.Timeout():
		c.logger.Warn("heartbeat timeout",
			zap.String("user_id", c.userID()),
			zap.Duration("timeout", c.h.heartbeatTimeout))
		c.close(websocket.ClosePolicyViolation, "heartbeat timeout")
	case websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
		c.logger.Debug("connection dropped", zap.Error(err))
		c.close(websocket.CloseNormalClosure, "")
	default:
		c.close(websocket.CloseNormalClosure, "")
	}
}

// finish leaves the room once the read loop is done
func (c *connection) finish() {
	c.close(websocket.CloseNormalClosure, "")
	c.setState(StateClosed)

	if c.identity == nil {
		c.logger.Debug("connection closed before auth")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	err := c.h.rooms.Leave(ctx, &room.LeaveInput{
		RoomID: c.roomID,
		UserID: c.identity.UserID,
		ConnID: c.id,
	})
	if err != nil && !errors.Is(err, room.ErrClosed) {
		c.logger.Error("failed to leave room", zap.String("room_id", c.roomID), zap.Error(err))
	}
	c.logger.Info("connection closed",
		zap.String("user_id", c.identity.UserID),
		zap.String("room_id", c.roomID),
		zap.String("reason", c.closeReason))
}

func (c *connection) writePump() {
	defer c.ws.Close()

	for {
		select {
		case frame := <-c.send:
			if err := c.write(frame); err != nil {
				c.logger.Debug("write failed", zap.Error(err))
				c.close(websocket.CloseAbnormalClosure, "")
				return
			}
		case <-c.done:
			c.flush()
			return
		}
	}
}

func (c *connection) write(frame []byte) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.TextMessage, frame)
}

// flush writes what is still queued, such as the error explaining a
// forced close, and then the close frame itself.
func (c *connection) flush() {
	if c.closeCode == websocket.CloseAbnormalClosure {
		return
	}
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	for {
		select {
		case frame := <-c.send:
			if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		default:
			msg := websocket.FormatCloseMessage(c.closeCode, c.closeReason)
			_ = c.ws.WriteMessage(websocket.CloseMessage, msg)
			return
		}
	}
}

func (c *connection) userID() string {
	if c.identity == nil {
		return ""
	}
	return c.identity.UserID
}
