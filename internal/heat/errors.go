package heat

import (
	"errors"
	"fmt"
)

// Domain errors for configuration and initialisation.
var (
	// ErrInvalidSize indicates a grid too small to have interior nodes.
	ErrInvalidSize = errors.New("heat: invalid grid size")

	// ErrInvalidParameter indicates a physical parameter outside its valid range.
	ErrInvalidParameter = errors.New("heat: invalid parameter")
)

// MinNodes is the smallest grid with at least one interior node.
const MinNodes = 3

// InvalidSizeError reports a node count below MinNodes.
type InvalidSizeError struct {
	N int
}

func (e *InvalidSizeError) Error() string {
	return fmt.Sprintf("%s: need at least %d nodes per dimension, got %d", ErrInvalidSize, MinNodes, e.N)
}

func (e *InvalidSizeError) Unwrap() error {
	return ErrInvalidSize
}

// InvalidParameterError reports a non-positive or non-finite parameter.
type InvalidParameterError struct {
	Name  string
	Value float64
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("%s: %s must be positive and finite, got %g", ErrInvalidParameter, e.Name, e.Value)
}

func (e *InvalidParameterError) Unwrap() error {
	return ErrInvalidParameter
}
