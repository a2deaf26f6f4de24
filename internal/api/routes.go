package api

import (
	"github.com/go-chi/chi/v5"
)

// Handlers groups the handlers mounted under /api.
type Handlers struct {
	Nutrients   *NutrientHandler
	Evaluations *EvaluationHandler
	Users       *UserHandler
}

// Mount registers every API route on r.
func (h Handlers) Mount(r chi.Router) {
	r.Post("/nutrients/analyze", h.Nutrients.Analyze)
	r.Post("/goals/recompute", h.Evaluations.RecomputeGoal)
	r.Post("/achievements/detect", h.Evaluations.DetectAchievements)

	r.Route("/users/{userID}", func(r chi.Router) {
		r.Post("/entries", h.Users.RecordEntry)
		r.Post("/goals", h.Users.CreateGoal)
		r.Get("/goals", h.Users.ListGoals)
		r.Get("/goals/stats", h.Users.GoalStats)
		r.Put("/goals/{goalID}", h.Users.EditGoal)
		r.Put("/settings", h.Users.UpdateSettings)
	})
}
