package internal

import "fmt"

// BaseError is a sentinel shared by the storage layers
type BaseError string

func (e BaseError) Error() string {
	return string(e)
}

const (
	ErrNotFound BaseError = "not found"
	ErrConflict BaseError = "conflict"
)

// ErrorWrapper attaches the record it concerns to a sentinel
type ErrorWrapper struct {
	Err     error
	Message string
}

func (e *ErrorWrapper) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Message)
}

func (e *ErrorWrapper) Unwrap() error {
	return e.Err
}
