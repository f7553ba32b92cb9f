package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/KirkDiggler/roomserver/internal/errors"
)

func TestUnavailable_KeepsCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := apperrors.Unavailable(cause, "failed to save occupant")

	assert.True(t, apperrors.IsUnavailable(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to save occupant: connection refused", err.Error())

	assert.True(t, apperrors.IsUnavailable(apperrors.Unavailable(nil, "bus closed")))
}

func TestWrap_PreservesCodeAndMeta(t *testing.T) {
	base := apperrors.NotFound("room is not loaded").WithMeta("room_id", "lobby")
	wrapped := apperrors.Wrap(base, "move failed")

	assert.True(t, apperrors.IsNotFound(wrapped))
	assert.Equal(t, "lobby", apperrors.GetMeta(wrapped)["room_id"])

	// Meta is copied, not shared
	wrapped.WithMeta("user_id", "u1")
	assert.NotContains(t, base.Meta, "user_id")
}

func TestIs_ThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("join: %w", apperrors.PermissionDenied("admin role required"))

	assert.True(t, apperrors.Is(err, apperrors.CodePermissionDenied))
	assert.False(t, apperrors.IsConflict(err))
	assert.Equal(t, apperrors.CodePermissionDenied, apperrors.GetCode(err))
}

func TestGetCode_PlainError(t *testing.T) {
	assert.Equal(t, apperrors.CodeUnknown, apperrors.GetCode(stderrors.New("boom")))
	assert.Nil(t, apperrors.GetMeta(stderrors.New("boom")))
	assert.Nil(t, apperrors.Wrap(nil, "nothing"))
}

func TestConstructors(t *testing.T) {
	assert.True(t, apperrors.IsConflict(apperrors.Conflict("room is full")))
	assert.True(t, apperrors.IsUnauthenticated(apperrors.Unauthenticated("token expired")))
	assert.True(t, apperrors.IsValidation(apperrors.Validationf("tile (%d,%d) is outside the room", 40, 1)))
	assert.Equal(t, "tile (40,1) is outside the room", apperrors.Validationf("tile (%d,%d) is outside the room", 40, 1).Error())
}
