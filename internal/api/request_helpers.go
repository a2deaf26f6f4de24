package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/vitals/internal/api/shared"
	"github.com/phrazzld/vitals/internal/domain"
)

// Clock returns the current time. Handlers take one so tests can pin it.
type Clock func() time.Time

// getPathUUID extracts a UUID from the URL path parameters.
// It parses and validates the UUID, handling common error cases.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// handlePathUUID extracts a UUID path parameter and writes a 400 response
// when it is missing or malformed.
func handlePathUUID(w http.ResponseWriter, r *http.Request, paramName string, log *slog.Logger) (uuid.UUID, bool) {
	id, err := getPathUUID(r, paramName)
	if err != nil {
		log.Warn("invalid "+paramName, slog.String("value", chi.URLParam(r, paramName)))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, err.Error(), err)
		return uuid.Nil, false
	}
	return id, true
}

// decodeAndValidate decodes the body into req and validates it, writing a
// 400 response on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}, log *slog.Logger) bool {
	if err := shared.DecodeJSON(r, req); err != nil {
		log.Warn("invalid request format", slog.String("error", err.Error()))
		message := "Invalid request format"
		if errors.Is(err, shared.ErrEmptyBody) {
			message = SanitizeValidationError(err)
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, message, err)
		return false
	}

	if err := shared.ValidateRequest(req); err != nil {
		log.Warn("validation error", slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}

	return true
}

// evaluationTime returns the requested evaluation time, or the clock's
// time when the request did not pin one.
func evaluationTime(requested *time.Time, clock Clock) time.Time {
	if requested != nil && !requested.IsZero() {
		return *requested
	}
	return clock()
}
