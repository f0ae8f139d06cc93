package exodus

import "errors"

// Common errors. Operation failures wrap one of these sentinels.
var (
	// ErrValidation indicates a violated precondition: bad dimensionality,
	// an unsupported nonzero field, a size mismatch, an out-of-range step,
	// an over-length name, a duplicate id, or a file that already exists.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates a referenced block id, side-set id or variable
	// name that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrCapacity indicates that no free catalog slot remains.
	ErrCapacity = errors.New("capacity exhausted")

	// ErrClosed indicates an operation on a closed file.
	ErrClosed = errors.New("file is closed")
)
