package exports

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicate is returned when a batch document was already recorded.
	ErrDuplicate = errors.New("document already exported")
)
