package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/vitals/internal/config"
	"github.com/phrazzld/vitals/internal/domain/achievement"
	"github.com/phrazzld/vitals/internal/domain/adequacy"
	"github.com/phrazzld/vitals/internal/domain/goal"
	"github.com/phrazzld/vitals/internal/domain/profile"
	"github.com/phrazzld/vitals/internal/domain/reference"
	"github.com/phrazzld/vitals/internal/events"
	"github.com/phrazzld/vitals/internal/platform/memory"
	"github.com/phrazzld/vitals/internal/service"
	"github.com/phrazzld/vitals/internal/telemetry"
	"github.com/robfig/cron/v3"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config   *config.Config
	logger   *slog.Logger
	location *time.Location
	clock    func() time.Time

	// Record store stand-in
	store *memory.Store

	// Evaluators
	analyzer adequacy.Service
	goals    goal.Service
	detector achievement.Service
	tracker  service.Tracker

	// Event delivery
	emitter *events.InMemoryEventEmitter
	dedup   *events.DailyDeduplicator

	scheduler         *cron.Cron
	telemetryShutdown telemetry.Shutdown
}

// newApplication creates a new application instance with all dependencies initialized.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	loc, err := cfg.Evaluation.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}

	app := &application{
		config:   cfg,
		logger:   logger,
		location: loc,
		clock:    time.Now,
	}

	table, err := loadReferenceTable(cfg.Reference)
	if err != nil {
		return nil, err
	}
	logger.Info("reference tables loaded",
		slog.Int("nutrient_count", len(table.Nutrients())),
		slog.Bool("embedded", cfg.Reference.Path == ""))

	app.analyzer = adequacy.NewDefaultService(table, profile.NewResolver(logger))
	app.goals = goal.NewServiceWithParams(goal.NewParamsWithLocation(loc))

	achievementParams := achievement.NewDefaultParams()
	achievementParams.Location = loc
	achievementParams.ExerciseGoalMinutes = cfg.Evaluation.ExerciseGoalMinutes
	achievementParams.CalorieTolerance = cfg.Evaluation.CalorieTolerance
	achievementParams.StreakLookbackDays = cfg.Evaluation.StreakLookbackDays
	app.detector = achievement.NewServiceWithParams(achievementParams)

	app.store = memory.NewStore(logger)

	app.emitter = events.NewInMemoryEventEmitter(logger)
	app.dedup = events.NewDailyDeduplicator(events.NewLogHandler(logger), logger)
	app.emitter.RegisterHandler(app.dedup)

	app.tracker = service.NewTracker(service.TrackerDeps{
		Entries:  app.store,
		Goals:    app.store,
		Settings: app.store,
		Analyzer: app.analyzer,
		Goal:     app.goals,
		Detector: app.detector,
		Emitter:  app.emitter,
		Logger:   logger,
	}, service.TrackerOptions{
		Defaults: cfg.Defaults,
		Workers:  cfg.Evaluation.GoalWorkers,
		// one extra day so yesterday's food entries count toward a streak
		AchievementWindow: time.Duration(cfg.Evaluation.StreakLookbackDays+1) * 24 * time.Hour,
	})

	app.scheduler = cron.New(cron.WithLocation(loc))
	if _, err := app.scheduler.AddFunc(cfg.Evaluation.PruneSchedule, app.pruneDeliveredEvents); err != nil {
		return nil, fmt.Errorf("invalid prune schedule %q: %w", cfg.Evaluation.PruneSchedule, err)
	}

	return app, nil
}

func loadReferenceTable(cfg config.ReferenceConfig) (*reference.Table, error) {
	if cfg.Path == "" {
		table, err := reference.LoadDefault()
		if err != nil {
			return nil, fmt.Errorf("failed to load embedded reference tables: %w", err)
		}
		return table, nil
	}

	table, err := reference.LoadFile(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference tables from %s: %w", cfg.Path, err)
	}
	return table, nil
}

// pruneDeliveredEvents forgets delivery keys from days before today.
func (app *application) pruneDeliveredEvents() {
	today := app.clock().In(app.location).Format(time.DateOnly)
	removed := app.dedup.Prune(today)
	app.logger.Info("pruned delivered event keys",
		slog.String("before_day", today),
		slog.Int("removed", removed),
		slog.Int("remaining", app.dedup.Len()))
}

// cleanup stops background jobs and flushes telemetry.
func (app *application) cleanup(ctx context.Context) {
	if app.scheduler != nil {
		<-app.scheduler.Stop().Done()
	}
	if app.telemetryShutdown != nil {
		if err := app.telemetryShutdown(ctx); err != nil {
			app.logger.Error("telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}
}
