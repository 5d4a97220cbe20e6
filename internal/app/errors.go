package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrSameFile indicates the output path is the source being watched.
	ErrSameFile = errors.New("output would overwrite the watched source")
)

// OperationError represents an error that occurred during a specific operation.
type OperationError struct {
	Op     string // Operation name (e.g., "apply", "derive", "read")
	Target string // Target of the operation, usually a file path
	Err    error  // Underlying error
}

func (e *OperationError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Target, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}
