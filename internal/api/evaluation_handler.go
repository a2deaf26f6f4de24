package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/vitals/internal/api/shared"
	"github.com/phrazzld/vitals/internal/domain/achievement"
	"github.com/phrazzld/vitals/internal/domain/goal"
	"github.com/phrazzld/vitals/internal/platform/logger"
)

// EvaluationHandler exposes the goal and achievement evaluators without
// touching the record store. Callers supply the goal, entries and settings.
type EvaluationHandler struct {
	goals    goal.Service
	detector achievement.Service
	clock    Clock
	logger   *slog.Logger
}

// NewEvaluationHandler creates a new EvaluationHandler. A nil clock uses
// time.Now.
func NewEvaluationHandler(
	goals goal.Service,
	detector achievement.Service,
	clock Clock,
	logger *slog.Logger,
) *EvaluationHandler {
	if goals == nil || detector == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("goal and achievement services cannot be nil for EvaluationHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for EvaluationHandler")
	}
	if clock == nil {
		clock = time.Now
	}

	return &EvaluationHandler{
		goals:    goals,
		detector: detector,
		clock:    clock,
		logger:   logger.With(slog.String("component", "evaluation_handler")),
	}
}

// RecomputeGoal handles POST /api/goals/recompute requests.
func (h *EvaluationHandler) RecomputeGoal(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RecomputeGoalRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	update, err := h.goals.Recompute(req.Goal, req.Entries, evaluationTime(req.Now, h.clock))
	if err != nil {
		handleServiceError(w, r, err, "Failed to recompute goal")
		return
	}

	log.Debug("goal recomputed",
		slog.String("goal_id", update.Goal.ID.String()),
		slog.Float64("progress", update.Progress))
	shared.RespondWithJSON(w, r, http.StatusOK, update)
}

// DetectAchievements handles POST /api/achievements/detect requests.
func (h *EvaluationHandler) DetectAchievements(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req DetectAchievementsRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	fired := h.detector.Detect(req.Entries, req.Settings, evaluationTime(req.Now, h.clock))

	log.Debug("achievements detected", slog.Int("count", len(fired)))
	shared.RespondWithJSON(w, r, http.StatusOK, DetectAchievementsResponse{
		Achievements: toAchievementResponses(fired),
	})
}
