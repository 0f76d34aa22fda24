package services

import "fmt"

// ValidationError rejects bad input before any write. The message is
// surfaced verbatim to the caller.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ConflictError rejects a write at the transactional boundary:
// double-booking or over-payment. Compare with errors.Is against the
// sentinels below.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

var (
	ErrRoomUnavailable      = &ConflictError{Reason: "room is already booked for the requested dates"}
	ErrAmountExceedsBalance = &ConflictError{Reason: "payment amount exceeds the pending balance"}
)
