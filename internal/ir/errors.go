package ir

import (
	"errors"
	"fmt"
)

// Error kinds returned by the engine. All of them are local, synchronous
// failures; none are retried internally.
var (
	ErrInvalidDimensions   = errors.New("invalid dimensions")
	ErrInvalidRegion       = errors.New("invalid region")
	ErrParameterOutOfRange = errors.New("parameter out of range")
	ErrReferenceNotReady   = errors.New("reference statistics not ready")
)

// RangeError describes a configuration value outside its documented bound.
type RangeError struct {
	Field    string
	Value    float64
	Min, Max float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s must be between %g and %g, got %g", e.Field, e.Min, e.Max, e.Value)
}

// Is makes errors.Is(err, ErrParameterOutOfRange) match.
func (e *RangeError) Is(target error) bool {
	return target == ErrParameterOutOfRange
}

// CheckRange returns a *RangeError unless min <= v <= max. NaN is rejected.
func CheckRange(field string, v, min, max float64) error {
	if !(v >= min && v <= max) {
		return &RangeError{Field: field, Value: v, Min: min, Max: max}
	}
	return nil
}

// FirstError returns the first non-nil error.
func FirstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
