package ws

import (
	"context"
	"errors"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	apperrors "github.com/KirkDiggler/roomserver/internal/errors"
	"github.com/KirkDiggler/roomserver/internal/protocol"
	"github.com/KirkDiggler/roomserver/internal/services/room"
)

// handle decodes one inbound frame and answers it
func (c *connection) handle(ctx context.Context, raw []byte) {
	env, req, err := protocol.Decode(raw)
	if err != nil && protocol.IsProtocolError(err) {
		c.protocolError(env.Seq, err)
		return
	}

	if env.Op == protocol.OpAuth && c.currentState() == StateActive {
		c.replyError(env.Seq, protocol.OpErrAlreadyAuthenticated, "", "connection is already authenticated")
		return
	}

	// Only auth and ping are open before authentication
	active := c.currentState() == StateActive
	if !active && env.Op != protocol.OpAuth && env.Op != protocol.OpPing {
		c.replyError(env.Seq, protocol.OpErrNotAuthenticated, "", "authenticate first")
		return
	}

	if err != nil {
		c.invalidPayload(env, err)
		return
	}
	// Pings do not earn back malformed frames
	if env.Op != protocol.OpPing {
		c.malformed = 0
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	switch r := req.(type) {
	case *protocol.Ping:
		c.reply(env.Seq, protocol.OpPong, protocol.Pong{ServerTime: c.h.clock.Now().UnixMilli()})
	case *protocol.Auth:
		c.authenticate(ctx, env.Seq, r)
	case *protocol.Move:
		c.move(ctx, env.Seq, r)
	case *protocol.ChatSend:
		c.chat(ctx, env.Seq, r)
	case *protocol.ItemPickup:
		c.pickup(ctx, env.Seq, r)
	case *protocol.TileSet:
		c.setTile(ctx, env.Seq, r)
	case *protocol.AffordanceSet:
		c.setAffordance(ctx, env.Seq, r)
	case *protocol.ItemSpawn:
		c.spawnItem(ctx, env.Seq, r)
	case *protocol.LatencyTrace:
		c.traceLatency(ctx, env.Seq, r)
	default:
		c.logger.Error("no handler for decoded request", zap.String("op", env.Op))
		c.replyError(env.Seq, protocol.OpErrInternal, "", "unsupported request")
	}
}

func (c *connection) protocolError(seq int64, err error) {
	c.malformed++
	code := protocol.ProtocolMalformed
	if errors.Is(err, protocol.ErrUnknownOp) {
		code = protocol.ProtocolUnknownOp
	}
	c.logger.Debug("protocol error", zap.Int("malformed", c.malformed), zap.Error(err))
	c.replyError(seq, protocol.OpErrProtocol, code, err.Error())

	if c.malformed >= c.h.maxMalformed {
		c.logger.Warn("too many malformed frames, closing connection",
			zap.String("user_id", c.userID()),
			zap.Int("malformed", c.malformed))
		c.close(websocket.CloseProtocolError, "too many malformed frames")
	}
}

// invalidPayload answers a known op whose data failed validation, in the
// failure shape of that op
func (c *connection) invalidPayload(env protocol.Envelope, err error) {
	switch env.Op {
	case protocol.OpAuth:
		c.rejectAuth(env.Seq, err)
	case protocol.OpMove:
		c.replyError(env.Seq, protocol.OpErrValidation, "", err.Error())
	case protocol.OpChatSend:
		c.replyError(env.Seq, protocol.OpErrChatPayload, "", err.Error())
	case protocol.OpItemPickup:
		c.reply(env.Seq, protocol.OpItemPickupErr, protocol.PickupErr{Code: protocol.PickupValidationFailed})
	case protocol.OpAdminTileSet, protocol.OpAdminAffordanceSet, protocol.OpAdminItemSpawn, protocol.OpAdminLatencyTrace:
		c.reply(env.Seq, protocol.OpAdminErr, protocol.AdminErr{Code: protocol.AdminValidation, Message: err.Error()})
	default:
		c.replyError(env.Seq, protocol.OpErrValidation, "", err.Error())
	}
}

func (c *connection) authenticate(ctx context.Context, seq int64, r *protocol.Auth) {
	identity, err := c.h.verifier.Verify(ctx, r.Token)
	if err != nil {
		c.rejectAuth(seq, err)
		return
	}

	result, err := c.h.rooms.Join(ctx, &room.JoinInput{Identity: identity, Session: c})
	if err != nil {
		c.logger.Error("join failed", zap.String("user_id", identity.UserID), zap.Error(err))
		c.replyServiceError(seq, err)
		c.close(websocket.CloseTryAgainLater, "join failed")
		return
	}

	snapshot, err := protocol.Encode(protocol.OpAuthOK, seq, c.h.clock.Now(), protocol.AuthOK{
		User: protocol.ViewUser(result.Occupant),
		Room: protocol.RoomView{
			ID:      result.Room.ID,
			Name:    result.Room.Name,
			Rows:    result.Room.Rows,
			RoomSeq: result.Room.Seq,
		},
		Occupants:   protocol.ViewList(result.Occupants, protocol.ViewOccupant),
		TileFlags:   protocol.ViewList(result.TileFlags, protocol.ViewTileFlag),
		Affordances: protocol.ViewList(result.Affordances, protocol.ViewAffordance),
		Items:       protocol.ViewList(result.Items, protocol.ViewItem),
		Chat:        protocol.ViewList(result.Chat, protocol.ViewChat),
		Inventory:   protocol.ViewList(result.Inventory, protocol.ViewInventory),
	})
	if err != nil {
		c.logger.Error("failed to encode snapshot", zap.Error(err))
		c.close(websocket.CloseInternalServerErr, "")
		// Still owned by this connection, so finish must leave the room
		c.identity = identity
		c.roomID = result.Room.ID
		return
	}

	c.activate(snapshot, identity, result.Room.ID)
	c.logger.Info("authenticated",
		zap.String("user_id", identity.UserID),
		zap.String("room_id", result.Room.ID),
		zap.Int64("room_seq", result.Room.Seq))
}

func (c *connection) rejectAuth(seq int64, err error) {
	c.logger.Info("authentication failed", zap.Error(err))
	c.replyError(seq, protocol.OpErrAuthInvalid, "", "invalid or expired token")
	c.close(websocket.ClosePolicyViolation, "authentication failed")
}

func (c *connection) move(ctx context.Context, seq int64, r *protocol.Move) {
	result, err := c.h.rooms.Move(ctx, &room.MoveInput{
		RoomID: c.roomID,
		UserID: c.identity.UserID,
		ConnID: c.id,
		Target: r.Target(),
	})
	if result == nil {
		c.replyServiceError(seq, err)
		return
	}
	if err != nil {
		c.logger.Warn("move not persisted", zap.Error(err))
	}

	if result.Accepted {
		c.reply(seq, protocol.OpMoveOK, protocol.MoveOK{X: result.Position.X, Y: result.Position.Y, RoomSeq: result.RoomSeq})
		return
	}
	c.reply(seq, protocol.OpMoveErr, protocol.MoveErr{
		Code:    result.Code,
		X:       result.Position.X,
		Y:       result.Position.Y,
		RoomSeq: result.RoomSeq,
	})
}

func (c *connection) chat(ctx context.Context, seq int64, r *protocol.ChatSend) {
	result, err := c.h.rooms.PostChat(ctx, &room.PostChatInput{
		RoomID: c.roomID,
		UserID: c.identity.UserID,
		ConnID: c.id,
		Body:   r.Body,
	})
	if err != nil {
		if apperrors.IsValidation(err) {
			c.replyError(seq, protocol.OpErrChatPayload, "", err.Error())
			return
		}
		c.replyServiceError(seq, err)
		return
	}
	c.reply(seq, protocol.OpChatOK, protocol.ChatOK{Message: protocol.ViewChat(result.Message), RoomSeq: result.RoomSeq})
}

func (c *connection) pickup(ctx context.Context, seq int64, r *protocol.ItemPickup) {
	result, err := c.h.rooms.Pickup(ctx, &room.PickupInput{
		RoomID: c.roomID,
		UserID: c.identity.UserID,
		ConnID: c.id,
		ItemID: r.ItemID,
	})
	if result == nil {
		c.replyServiceError(seq, err)
		return
	}
	if err != nil {
		c.logger.Warn("pickup not persisted", zap.String("item_id", r.ItemID), zap.Error(err))
	}

	if result.Inventory != nil {
		c.reply(seq, protocol.OpItemPickupOK, protocol.PickupOK{Item: protocol.ViewInventory(*result.Inventory), RoomSeq: result.RoomSeq})
		return
	}
	c.reply(seq, protocol.OpItemPickupErr, protocol.PickupErr{Code: result.Code, ItemID: r.ItemID, RoomSeq: result.RoomSeq})
}

func (c *connection) setTile(ctx context.Context, seq int64, r *protocol.TileSet) {
	result, err := c.h.rooms.SetTileFlag(ctx, &room.SetTileFlagInput{
		RoomID:   c.roomID,
		ConnID:   c.id,
		Identity: c.identity,
		Flag:     r.Flag(),
	})
	if err != nil {
		c.adminError(seq, err)
		return
	}
	c.reply(seq, protocol.OpAdminTileOK, protocol.AdminOK{RoomSeq: result.RoomSeq})
}

func (c *connection) setAffordance(ctx context.Context, seq int64, r *protocol.AffordanceSet) {
	result, err := c.h.rooms.SetAffordance(ctx, &room.SetAffordanceInput{
		RoomID:     c.roomID,
		ConnID:     c.id,
		Identity:   c.identity,
		Affordance: r.Affordance(),
	})
	if err != nil {
		c.adminError(seq, err)
		return
	}
	c.reply(seq, protocol.OpAdminAffordOK, protocol.AdminOK{RoomSeq: result.RoomSeq})
}

func (c *connection) spawnItem(ctx context.Context, seq int64, r *protocol.ItemSpawn) {
	result, err := c.h.rooms.SpawnItem(ctx, &room.SpawnItemInput{
		RoomID:   c.roomID,
		ConnID:   c.id,
		Identity: c.identity,
		Name:     r.Name,
		Kind:     r.Kind,
		Position: r.Target(),
	})
	if err != nil {
		c.adminError(seq, err)
		return
	}
	c.reply(seq, protocol.OpAdminItemOK, protocol.ItemSpawned{Item: protocol.ViewItem(result.Item), RoomSeq: result.RoomSeq})
}

func (c *connection) traceLatency(ctx context.Context, seq int64, r *protocol.LatencyTrace) {
	err := c.h.rooms.TraceLatency(ctx, &room.TraceLatencyInput{
		RoomID:   c.roomID,
		ConnID:   c.id,
		Identity: c.identity,
		TraceID:  r.TraceID,
	})
	if err != nil {
		c.adminError(seq, err)
		return
	}
	c.reply(seq, protocol.OpAdminLatencyOK, nil)
}

func (c *connection) adminError(seq int64, err error) {
	switch {
	case apperrors.Is(err, apperrors.CodePermissionDenied):
		c.replyError(seq, protocol.OpErrForbidden, "", "admin role required")
	case apperrors.IsValidation(err):
		c.reply(seq, protocol.OpAdminErr, protocol.AdminErr{Code: protocol.AdminValidation, Message: err.Error()})
	case apperrors.IsUnavailable(err):
		c.logger.Error("admin change not persisted", zap.Error(err))
		c.reply(seq, protocol.OpAdminErr, protocol.AdminErr{Code: protocol.AdminPersistFailed, Message: "could not save, try again"})
	default:
		c.replyServiceError(seq, err)
	}
}

// replyServiceError maps a room service error to its wire error
func (c *connection) replyServiceError(seq int64, err error) {
	switch {
	case apperrors.IsUnavailable(err):
		c.replyError(seq, protocol.OpErrPersistFailed, "", "could not save, try again")
	case apperrors.Is(err, apperrors.CodePermissionDenied):
		c.replyError(seq, protocol.OpErrForbidden, "", err.Error())
	case apperrors.IsValidation(err), apperrors.IsInvalidArgument(err):
		c.replyError(seq, protocol.OpErrValidation, "", err.Error())
	case apperrors.IsConflict(err):
		c.replyError(seq, protocol.OpErrInternal, string(apperrors.CodeConflict), err.Error())
	default:
		c.logger.Error("request failed", zap.Int64("seq", seq), zap.Error(err))
		c.replyError(seq, protocol.OpErrInternal, "", "internal error")
	}
}

func (c *connection) replyError(seq int64, op, code, message string) {
	c.reply(seq, op, protocol.ErrorReply{Code: code, Message: message})
}

func (c *connection) reply(seq int64, op string, data any) {
	frame, err := protocol.Encode(op, seq, c.h.clock.Now(), data)
	if err != nil {
		c.logger.Error("failed to encode reply", zap.String("op", op), zap.Error(err))
		return
	}
	c.enqueue(frame)
}
