package library

import (
	"errors"
	"fmt"
)

// ErrEmptyLibrary is returned by Export when every bucket of the library is
// empty. Exporting an all-empty structure is rejected rather than producing
// a useless file.
var ErrEmptyLibrary = errors.New("library has no items to export")

// ErrInvalidFormat is returned by Import when the payload is neither a
// bundle nor a single-library structure with both role keys.
var ErrInvalidFormat = errors.New("payload is not a recognized library format")

// ValidationError indicates a required record field was left empty. It is
// shown to the user; the operation makes no mutation.
type ValidationError struct {
	Field string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("required field %q is empty", e.Field)
}
