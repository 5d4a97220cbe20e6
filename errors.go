package multisplice

import (
	"errors"
	"fmt"
)

// Errors returned by Splicer operations.
var (
	// ErrOutOfRange indicates an offset is outside the original string.
	ErrOutOfRange = errors.New("offset out of range")

	// ErrInvalidRange indicates a range whose start is after its end.
	ErrInvalidRange = errors.New("invalid range")

	// ErrOverlap indicates two recorded edits cover a common part of the original.
	ErrOverlap = errors.New("edits overlap")
)

// RangeError describes an offset or range rejected by a Splicer operation.
type RangeError struct {
	Op    string // Operation name (e.g., "splice", "insert", "slice")
	Start int    // Requested start offset
	End   int    // Requested end offset
	Len   int    // Length of the original string
	Err   error  // ErrOutOfRange or ErrInvalidRange
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s [%d:%d) on length %d: %v", e.Op, e.Start, e.End, e.Len, e.Err)
}

// Unwrap returns the underlying sentinel error.
func (e *RangeError) Unwrap() error {
	return e.Err
}

// OverlapError identifies the two edits found to overlap while rendering.
// First sorts before Second.
type OverlapError struct {
	First  Edit
	Second Edit
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("%v: %s and %s", ErrOverlap, e.First, e.Second)
}

// Unwrap returns ErrOverlap.
func (e *OverlapError) Unwrap() error {
	return ErrOverlap
}
