package room

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/KirkDiggler/roomserver/internal/entities"
	apperrors "github.com/KirkDiggler/roomserver/internal/errors"
	"github.com/KirkDiggler/roomserver/internal/events"
)

// PostChat stores a message from an occupant and fans it out
func (s *service) PostChat(ctx context.Context, input *PostChatInput) (*PostChatResult, error) {
	if input == nil {
		return nil, apperrors.InvalidArgument("input is required")
	}
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, apperrors.Validation("chat body is required")
	}

	a, err := s.existing(input.RoomID)
	if apperrors.IsNotFound(err) {
		return nil, apperrors.PermissionDenied("not in room")
	}
	if err != nil {
		return nil, err
	}

	var (
		result *PostChatResult
		opErr  error
	)
	if err := a.do(ctx, func(a *roomActor) {
		result, opErr = a.postChat(input.UserID, input.ConnID, body)
	}); err != nil {
		return nil, err
	}
	return result, opErr
}

func (a *roomActor) postChat(userID, connID, body string) (*PostChatResult, error) {
	occ, ok := a.store.Occupant(userID)
	if !ok || a.store.Owner(userID) != connID {
		return nil, apperrors.PermissionDenied("not in room")
	}

	msg := entities.ChatMessage{
		ID:       a.svc.uuidGenerator.New(),
		RoomID:   a.id,
		UserID:   userID,
		Username: occ.Username,
		Body:     body,
		SentAt:   a.svc.clock.Now(),
	}
	seq, err := a.svc.chat.Create(a.ctx, &msg)
	if err != nil {
		a.logger.Error("failed to persist chat message", zap.String("user_id", userID), zap.Error(err))
		return nil, apperrors.Unavailable(err, "failed to persist chat message").WithMeta("room_id", a.id)
	}
	a.store.AdvanceSeq(seq)

	event := events.NewChatPosted(a.id, seq, msg)
	event.ConnID = connID
	a.emit(event)

	return &PostChatResult{Message: msg, RoomSeq: seq}, nil
}
