package apperror

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrCorruptSession  = errors.New("session state is corrupt")
	ErrUnknownAction   = errors.New("unknown action")
	ErrInvalidPayload  = errors.New("invalid payload")
)
