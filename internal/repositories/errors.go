package repositories

import (
	"github.com/KirkDiggler/roomserver/internal"
)

type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

const (
	ErrRecord RepositoryError = "record error"
)

// ErrNotFound is matched with errors.Is by callers that need to tell a
// missing record apart from a transport failure.
var ErrNotFound error = internal.ErrNotFound

// ErrAlreadyClaimed reports that a room item was claimed by someone else first.
var ErrAlreadyClaimed error = internal.ErrConflict

type RecordError struct {
	internal.ErrorWrapper
}

func NewRecordNotFoundError(id string) error {
	return &RecordError{
		ErrorWrapper: internal.ErrorWrapper{
			Err:     internal.ErrNotFound,
			Message: string(ErrRecord) + ": " + id,
		},
	}
}

func NewAlreadyClaimedError(id string) error {
	return &RecordError{
		ErrorWrapper: internal.ErrorWrapper{
			Err:     internal.ErrConflict,
			Message: "already claimed: " + id,
		},
	}
}
