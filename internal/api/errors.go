package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/vitals/internal/api/shared"
	"github.com/phrazzld/vitals/internal/domain"
	"github.com/phrazzld/vitals/internal/service"
	"github.com/phrazzld/vitals/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, service.ErrGoalNotFound),
		store.IsNotFoundError(err):
		return http.StatusNotFound

	// Conflict errors
	case store.IsDuplicateError(err):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrInvalidProfile),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrMissingReferenceData),
		errors.Is(err, domain.ErrUnitConversion),
		errors.Is(err, service.ErrInvalidEntry),
		errors.Is(err, service.ErrInvalidSettings),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var verr *domain.ValidationError
	switch {
	case errors.Is(err, service.ErrGoalNotFound),
		errors.Is(err, store.ErrGoalNotFound):
		return "Goal not found"

	case store.IsDuplicateError(err):
		return "Entity already exists"

	case errors.Is(err, domain.ErrInvalidProfile):
		return "Invalid profile"

	// Validation errors carry a field name and message written for users
	case errors.As(err, &verr):
		return verr.Error()

	case errors.Is(err, service.ErrInvalidEntry):
		return "Invalid log entry"

	case errors.Is(err, service.ErrInvalidSettings):
		return "Invalid settings"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("Invalid %s: %s", fieldName(fe), getValidationTagMessage(fe.Tag()))
	}
	if errors.Is(err, shared.ErrEmptyBody) {
		return "Request body is required"
	}
	return "Validation error"
}

// fieldName renders the namespace of a failed field without the top-level
// request type, e.g. "Profile.Sex".
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte", "gt":
		return "too small"
	case "max", "lte", "lt":
		return "too large"
	case "oneof":
		return "invalid value"
	case "dive":
		return "invalid element"
	default:
		return "validation failed"
	}
}

// handleServiceError writes the response for an error returned by a
// service or domain call.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
