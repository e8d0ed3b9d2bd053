package errmatch

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrNoErrorItems is returned when resolution is attempted on an empty
	// item sequence. The validation engine only reports failures with at
	// least one item, so this indicates a caller bug.
	ErrNoErrorItems = errors.New("no error items to resolve")

	// ErrInvalidEntry is returned by FromValues for values that are neither
	// messages nor message functions.
	ErrInvalidEntry = errors.New("invalid error map entry")
)

// TypeError is the error produced when no Constructor is supplied.
type TypeError struct {
	Message string
	Index   int
	Item    ErrorItem
}

func (e *TypeError) Error() string {
	return e.Message
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
