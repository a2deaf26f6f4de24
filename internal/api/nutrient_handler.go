package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/vitals/internal/api/shared"
	"github.com/phrazzld/vitals/internal/platform/logger"
	"github.com/phrazzld/vitals/internal/service"
)

// NutrientHandler handles nutrient adequacy requests
type NutrientHandler struct {
	tracker service.Tracker
	clock   Clock
	logger  *slog.Logger
}

// NewNutrientHandler creates a new NutrientHandler. A nil clock uses
// time.Now.
func NewNutrientHandler(tracker service.Tracker, clock Clock, logger *slog.Logger) *NutrientHandler {
	if tracker == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("tracker cannot be nil for NutrientHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for NutrientHandler")
	}
	if clock == nil {
		clock = time.Now
	}

	return &NutrientHandler{
		tracker: tracker,
		clock:   clock,
		logger:  logger.With(slog.String("component", "nutrient_handler")),
	}
}

// Analyze handles POST /api/nutrients/analyze requests.
// Unit errors and unknown nutrients are part of a 200 response; only an
// invalid profile or request fails.
func (h *NutrientHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req AnalyzeNutrientsRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	report, err := h.tracker.AnalyzeIntake(r.Context(), req.Intakes, req.Profile, evaluationTime(req.Now, h.clock))
	if err != nil {
		handleServiceError(w, r, err, "Failed to analyze intake")
		return
	}

	log.Debug("intake analyzed",
		slog.Int("intake_count", len(req.Intakes)),
		slog.String("bucket", report.Bucket.Key()))
	shared.RespondWithJSON(w, r, http.StatusOK, report)
}
