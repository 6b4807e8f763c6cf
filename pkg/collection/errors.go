package collection

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeMismatch is returned when a record-only verb is invoked on a
	// collection holding non-record items.
	ErrTypeMismatch = errors.New("collection holds non-record items")

	// ErrNotGrouped is returned when a verb that needs an active group-key
	// tuple is invoked on an ungrouped collection.
	ErrNotGrouped = errors.New("collection is not grouped")

	// ErrInvalidArgument is returned for out-of-domain verb arguments.
	ErrInvalidArgument = errors.New("invalid argument")
)

func NewTypeMismatchError(verb string) error {
	return fmt.Errorf("%s: %w", verb, ErrTypeMismatch)
}

func NewNotGroupedError(verb string) error {
	return fmt.Errorf("%s: %w", verb, ErrNotGrouped)
}

func NewInvalidArgumentError(verb, message string) error {
	return fmt.Errorf("%s: %w: %s", verb, ErrInvalidArgument, message)
}

type ErrAggregation = error

func NewAggregationError(err error) ErrAggregation {
	return fmt.Errorf("failed to evaluate aggregation: %w", err)
}

type ErrJoin = error

func NewJoinError(err error) ErrJoin {
	return fmt.Errorf("failed to evaluate join: %w", err)
}
