package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/vitals/internal/api/shared"
	"github.com/phrazzld/vitals/internal/domain"
	"github.com/phrazzld/vitals/internal/platform/logger"
	"github.com/phrazzld/vitals/internal/service"
)

// UserHandler handles the per-user routes backed by the record store.
type UserHandler struct {
	tracker service.Tracker
	clock   Clock
	logger  *slog.Logger
}

// NewUserHandler creates a new UserHandler. A nil clock uses time.Now.
func NewUserHandler(tracker service.Tracker, clock Clock, logger *slog.Logger) *UserHandler {
	if tracker == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("tracker cannot be nil for UserHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for UserHandler")
	}
	if clock == nil {
		clock = time.Now
	}

	return &UserHandler{
		tracker: tracker,
		clock:   clock,
		logger:  logger.With(slog.String("component", "user_handler")),
	}
}

// RecordEntry handles POST /api/users/{userID}/entries requests.
// It returns the stored entry together with the goal updates and
// achievements it caused.
func (h *UserHandler) RecordEntry(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := handlePathUUID(w, r, "userID", log)
	if !ok {
		return
	}

	var entry domain.LogEntry
	if !decodeAndValidate(w, r, &entry, log) {
		return
	}

	result, err := h.tracker.RecordEntry(r.Context(), userID, entry, h.clock())
	if err != nil {
		handleServiceError(w, r, err, "Failed to record entry")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, result)
}

// CreateGoal handles POST /api/users/{userID}/goals requests.
func (h *UserHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := handlePathUUID(w, r, "userID", log)
	if !ok {
		return
	}

	var params domain.GoalParams
	if !decodeAndValidate(w, r, &params, log) {
		return
	}

	now := h.clock()
	g, err := h.tracker.CreateGoal(r.Context(), userID, params, now)
	if err != nil {
		handleServiceError(w, r, err, "Failed to create goal")
		return
	}

	log.Info("goal created",
		slog.String("user_id", userID.String()),
		slog.String("goal_id", g.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, toGoalResponse(g, now))
}

// ListGoals handles GET /api/users/{userID}/goals requests.
func (h *UserHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := handlePathUUID(w, r, "userID", log)
	if !ok {
		return
	}

	goals, err := h.tracker.ListGoals(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err, "Failed to list goals")
		return
	}

	now := h.clock()
	resp := GoalListResponse{Goals: make([]GoalResponse, len(goals))}
	for i, g := range goals {
		resp.Goals[i] = toGoalResponse(g, now)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// EditGoal handles PUT /api/users/{userID}/goals/{goalID} requests.
// Editing resets milestones and the completion latch.
func (h *UserHandler) EditGoal(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := handlePathUUID(w, r, "userID", log)
	if !ok {
		return
	}
	goalID, ok := handlePathUUID(w, r, "goalID", log)
	if !ok {
		return
	}

	var params domain.GoalParams
	if !decodeAndValidate(w, r, &params, log) {
		return
	}

	now := h.clock()
	g, err := h.tracker.EditGoal(r.Context(), userID, goalID, params, now)
	if err != nil {
		handleServiceError(w, r, err, "Failed to edit goal")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toGoalResponse(g, now))
}

// GoalStats handles GET /api/users/{userID}/goals/stats requests.
func (h *UserHandler) GoalStats(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := handlePathUUID(w, r, "userID", log)
	if !ok {
		return
	}

	stats, err := h.tracker.GoalStatistics(r.Context(), userID, h.clock())
	if err != nil {
		handleServiceError(w, r, err, "Failed to compute goal statistics")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// UpdateSettings handles PUT /api/users/{userID}/settings requests.
func (h *UserHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := handlePathUUID(w, r, "userID", log)
	if !ok {
		return
	}

	var settings domain.Settings
	if !decodeAndValidate(w, r, &settings, log) {
		return
	}

	if err := h.tracker.UpdateSettings(r.Context(), userID, settings); err != nil {
		handleServiceError(w, r, err, "Failed to update settings")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, settings)
}
