package lua

import "errors"

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when a chunk runs past its timeout.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrOffsetOutOfRange is raised in Lua when a macro passes an offset
	// outside the document.
	ErrOffsetOutOfRange = errors.New("offset out of range")
)
