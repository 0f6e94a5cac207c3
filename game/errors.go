package game

import "fmt"

// ValidationError rejects a player input that is illegal in the
// current game state. Nothing is mutated; only the acting player is
// told.
type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

func newValidationError(format string, args ...interface{}) ValidationError {
	return ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an unknown room or player.
type NotFoundError struct {
	Msg string
}

func (e NotFoundError) Error() string {
	return e.Msg
}

func newNotFoundError(format string, args ...interface{}) NotFoundError {
	return NotFoundError{Msg: fmt.Sprintf(format, args...)}
}
