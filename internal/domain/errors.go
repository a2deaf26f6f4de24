package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidProfile is returned when a profile carries contradictory
	// demographic flags, such as a pregnancy without a trimester.
	ErrInvalidProfile = errors.New("invalid profile")

	// ErrUnitConversion is returned when an intake cannot be converted to the
	// canonical unit of its nutrient.
	ErrUnitConversion = errors.New("unit conversion failed")

	// ErrMissingReferenceData is returned when a nutrient has no reference
	// target. Callers treat it as "unknown, not analyzed".
	ErrMissingReferenceData = errors.New("missing reference data")
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError wrapping err.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	if e.Err == nil {
		return ErrValidation
	}
	return e.Err
}

// Is reports whether target is ErrValidation, so every ValidationError
// matches it regardless of the wrapped cause.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// UnitConversionError reports one intake that could not be normalized.
// It matches ErrUnitConversion with errors.Is.
type UnitConversionError struct {
	NutrientID string       `json:"nutrient_id"`
	From       NutrientUnit `json:"from"`
	To         NutrientUnit `json:"to"`
}

// Error implements the error interface.
func (e *UnitConversionError) Error() string {
	return fmt.Sprintf("%s: cannot convert %s intake of %q to %s",
		ErrUnitConversion, e.From, e.NutrientID, e.To)
}

// Unwrap returns ErrUnitConversion.
func (e *UnitConversionError) Unwrap() error {
	return ErrUnitConversion
}
