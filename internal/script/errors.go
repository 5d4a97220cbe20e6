package script

import (
	"errors"
	"fmt"
)

// Errors for script loading and application.
var (
	// ErrUnknownOp indicates an operation name other than splice, insert or remove.
	ErrUnknownOp = errors.New("unknown operation")

	// ErrUnknownFormat indicates a script format that cannot be determined or decoded.
	ErrUnknownFormat = errors.New("unknown script format")

	// ErrNotDeclarative indicates a Lua script was passed where a declarative one is needed.
	ErrNotDeclarative = errors.New("script is not declarative")
)

// OpError reports the operation that failed while applying a script.
type OpError struct {
	Index int // Zero-based position in the script
	Op    Op
	Err   error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("edit #%d (%s): %v", e.Index, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *OpError) Unwrap() error {
	return e.Err
}
