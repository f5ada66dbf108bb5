package services

import "fmt"

// Error taxonomy surfaced by the service layer. Each kind reflects a
// caller-correctable condition and maps to a distinct HTTP status in the
// controllers; only StorageError hides internal detail.

// ValidationError: bad input shape or range.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// ConflictError: the operation lost a race or would break a resource bound
// (slot overlap, exhausted coupon, insufficient balance).
type ConflictError struct{ Msg string }

func (e *ConflictError) Error() string { return e.Msg }

// StateError: illegal lifecycle transition.
type StateError struct{ Msg string }

func (e *StateError) Error() string { return e.Msg }

// NotFoundError: unknown booking/coupon/payout/spa id.
type NotFoundError struct{ Msg string }

func (e *NotFoundError) Error() string { return e.Msg }

// AuthorizationError: the actor lacks the role or ownership the operation
// requires.
type AuthorizationError struct{ Msg string }

func (e *AuthorizationError) Error() string { return e.Msg }

// StorageError: the transactional store failed after bounded retries.
type StorageError struct{ Msg string }

func (e *StorageError) Error() string { return e.Msg }

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func conflictf(format string, args ...interface{}) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

func statef(format string, args ...interface{}) error {
	return &StateError{Msg: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...interface{}) error {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

func authzf(format string, args ...interface{}) error {
	return &AuthorizationError{Msg: fmt.Sprintf(format, args...)}
}

func storagef(format string, args ...interface{}) error {
	return &StorageError{Msg: fmt.Sprintf(format, args...)}
}
