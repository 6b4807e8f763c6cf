package reducer

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownReducer is returned when a reducer name is not in the
	// registry.
	ErrUnknownReducer = errors.New("unknown reducer")

	// ErrEmptyInput is returned by reducers that need at least one value
	// when invoked on an empty value sequence.
	ErrEmptyInput = errors.New("empty input")
)

func NewUnknownReducerError(name string) error {
	return fmt.Errorf("%w %q: name must be one of %s", ErrUnknownReducer,
		name, strings.Join(Names(), ", "))
}

func NewEmptyInputError(name string) error {
	return fmt.Errorf("reducer %q: %w", name, ErrEmptyInput)
}
