package pipeline

import (
	"fmt"
)

type ErrPipeline = error

func NewPipelineError(err error) ErrPipeline {
	return fmt.Errorf("failed to evaluate pipeline: %w", err)
}

type ErrUnmarshal = error

func NewUnmarshalError(kind, content string) ErrUnmarshal {
	return fmt.Errorf("parsing error in %s at %q", kind, content)
}

type ErrInvalidOp = error

func NewInvalidOpError(op, message string) ErrInvalidOp {
	return fmt.Errorf("invalid op %q: %s", op, message)
}
