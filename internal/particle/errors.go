package particle

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBounds indicates a non-positive or non-finite width or height.
	ErrInvalidBounds = errors.New("particle: bounds must be positive and finite")

	// ErrInvalidCount indicates a negative particle count.
	ErrInvalidCount = errors.New("particle: count must be non-negative")
)

// ConfigurationError reports a rejected system configuration. The system
// constructors never return it; it is produced by callers that choose to
// validate their inputs before building a system.
type ConfigurationError struct {
	Field   string
	Value   float64
	Wrapped error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%v (%s=%g)", e.Wrapped, e.Field, e.Value)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Wrapped
}
