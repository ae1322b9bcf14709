package mcmt

import (
	"errors"
	"fmt"
)

var (
	// ErrNonFinite is returned when a coordinate or value is NaN or infinite.
	ErrNonFinite = errors.New("non-finite coordinate or value")
	// ErrEmpty is returned by operations that need at least one point.
	ErrEmpty = errors.New("sampler holds no points")
	// ErrInvalidCount is returned for negative sample or iteration counts.
	ErrInvalidCount = errors.New("count must be non-negative")
	// ErrInvalidRange is returned when a sampling range is empty.
	ErrInvalidRange = errors.New("sampling range must satisfy lo < hi")
	// ErrZeroImportance is returned when no Voronoi cell carries weight.
	ErrZeroImportance = errors.New("all voronoi importances are zero")
)

// ErrLengthMismatch indicates a flat position buffer that does not hold
// three coordinates per value.
type ErrLengthMismatch struct {
	Positions int
	Values    int
}

func (e *ErrLengthMismatch) Error() string {
	return fmt.Sprintf("length mismatch: %d position coordinates for %d values", e.Positions, e.Values)
}

// ErrInvalidConfig indicates a configuration value out of range.
type ErrInvalidConfig struct {
	Field string
	Value any
}

func (e *ErrInvalidConfig) Error() string {
	return fmt.Sprintf("invalid config %s: %v", e.Field, e.Value)
}
