package apperror

import "errors"

var (
	ErrInvalidMove       = errors.New("invalid move")
	ErrIllegalTransition = errors.New("illegal state transition")
	ErrEngineInvariant   = errors.New("engine and board are out of sync")
	ErrSessionNotFound   = errors.New("session not found")
	ErrCorruptedState    = errors.New("session state is corrupted")
)
