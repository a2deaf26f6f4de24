package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/vitals/internal/domain"
	"github.com/phrazzld/vitals/internal/domain/achievement"
	"github.com/phrazzld/vitals/internal/domain/adequacy"
	"github.com/phrazzld/vitals/internal/domain/goal"
	"github.com/phrazzld/vitals/internal/events"
	"github.com/phrazzld/vitals/internal/platform/logger"
	"github.com/phrazzld/vitals/internal/redact"
	"github.com/phrazzld/vitals/internal/store"
	"github.com/phrazzld/vitals/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// EntryStore is the record store as seen by the tracker.
type EntryStore interface {
	store.LogReader
	store.LogWriter
}

// SettingsStore reads and writes per-user daily targets.
type SettingsStore interface {
	store.SettingsReader
	store.SettingsWriter
}

// EntryResult is everything that followed from recording one entry.
type EntryResult struct {
	Entry        domain.LogEntry           `json:"entry"`
	Goals        *RecomputeResult          `json:"goals"`
	Achievements []domain.AchievementEvent `json:"achievements"`
}

// RecomputeResult holds the outcome of recomputing all of a user's goals.
// Updates are in the order the store listed the goals; goals that could not
// be recomputed or saved are listed in Failures instead.
type RecomputeResult struct {
	Updates  []*goal.Update `json:"updates"`
	Failures []GoalFailure  `json:"failures,omitempty"`
}

// GoalFailure reports one goal that could not be recomputed or saved.
type GoalFailure struct {
	GoalID uuid.UUID `json:"goal_id"`
	Err    error     `json:"-"`
	Reason string    `json:"reason"`
}

// Tracker orchestrates the pure evaluators against the record store and
// delivers their results as events.
type Tracker interface {
	// AnalyzeIntake grades intakes against the profile's reference targets.
	// Only an invalid profile fails; unit errors and unknown nutrients are
	// reported in the Report.
	AnalyzeIntake(
		ctx context.Context,
		intakes []domain.NutrientIntake,
		p domain.Profile,
		now time.Time,
	) (*adequacy.Report, error)

	// RecordEntry appends an entry to the record store, then recomputes the
	// user's goals and runs achievement detection.
	RecordEntry(
		ctx context.Context,
		userID uuid.UUID,
		entry domain.LogEntry,
		now time.Time,
	) (*EntryResult, error)

	// RecomputeGoals re-evaluates every goal of the user and saves those
	// that changed. A goal that fails is reported and the rest continue.
	RecomputeGoals(ctx context.Context, userID uuid.UUID, now time.Time) (*RecomputeResult, error)

	// DetectAchievements runs every achievement check for the user and
	// emits an achievement.fired event for each one that fires.
	DetectAchievements(ctx context.Context, userID uuid.UUID, now time.Time) ([]domain.AchievementEvent, error)

	// CreateGoal validates and stores a new goal.
	CreateGoal(ctx context.Context, userID uuid.UUID, p domain.GoalParams, now time.Time) (*domain.Goal, error)

	// EditGoal applies a user edit, which resets milestones and completion.
	EditGoal(
		ctx context.Context,
		userID, goalID uuid.UUID,
		p domain.GoalParams,
		now time.Time,
	) (*domain.Goal, error)

	// ListGoals returns the user's goals.
	ListGoals(ctx context.Context, userID uuid.UUID) ([]*domain.Goal, error)

	// GoalStatistics summarizes the user's goals at now.
	GoalStatistics(ctx context.Context, userID uuid.UUID, now time.Time) (goal.Statistics, error)

	// UpdateSettings replaces the user's daily targets.
	UpdateSettings(ctx context.Context, userID uuid.UUID, s domain.Settings) error
}

// TrackerDeps holds the collaborators of the tracker. Every field except
// Logger is required.
type TrackerDeps struct {
	Entries  EntryStore
	Goals    store.GoalStore
	Settings SettingsStore
	Analyzer adequacy.Service
	Goal     goal.Service
	Detector achievement.Service
	Emitter  events.EventEmitter
	Logger   *slog.Logger
}

// TrackerOptions tunes the tracker.
type TrackerOptions struct {
	// Defaults are used for users who never saved settings.
	Defaults domain.Settings
	// Workers bounds how many goals are recomputed concurrently.
	Workers int
	// AchievementWindow is how far back entries are read for detection.
	AchievementWindow time.Duration
}

// DefaultTrackerOptions returns the options used when none are configured.
func DefaultTrackerOptions() TrackerOptions {
	return TrackerOptions{
		Workers:           4,
		AchievementWindow: 31 * 24 * time.Hour,
	}
}

// Entries for daily and weekly goals are read with this much slack so
// that calendar days in any timezone are fully covered.
const windowSlack = 48 * time.Hour

type trackerImpl struct {
	entries  EntryStore
	goals    store.GoalStore
	settings SettingsStore
	analyzer adequacy.Service
	goalSvc  goal.Service
	detector achievement.Service
	emitter  events.EventEmitter
	opts     TrackerOptions
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  trackerMetrics
}

// Verify interface compliance at compile time
var _ Tracker = (*trackerImpl)(nil)

// NewTracker creates a Tracker. It panics if a required dependency is nil.
func NewTracker(deps TrackerDeps, opts TrackerOptions) Tracker {
	if deps.Entries == nil {
		panic("entries store cannot be nil")
	}
	if deps.Goals == nil {
		panic("goal store cannot be nil")
	}
	if deps.Settings == nil {
		panic("settings store cannot be nil")
	}
	if deps.Analyzer == nil {
		panic("adequacy service cannot be nil")
	}
	if deps.Goal == nil {
		panic("goal service cannot be nil")
	}
	if deps.Detector == nil {
		panic("achievement service cannot be nil")
	}
	if deps.Emitter == nil {
		panic("event emitter cannot be nil")
	}

	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "tracker"))

	defaults := DefaultTrackerOptions()
	if opts.Workers < 1 {
		opts.Workers = defaults.Workers
	}
	if opts.AchievementWindow <= 0 {
		opts.AchievementWindow = defaults.AchievementWindow
	}

	return &trackerImpl{
		entries:  deps.Entries,
		goals:    deps.Goals,
		settings: deps.Settings,
		analyzer: deps.Analyzer,
		goalSvc:  deps.Goal,
		detector: deps.Detector,
		emitter:  deps.Emitter,
		opts:     opts,
		logger:   log,
		tracer:   telemetry.Tracer(),
		metrics:  newTrackerMetrics(log),
	}
}

func (t *trackerImpl) startSpan(
	ctx context.Context,
	name string,
	attrs ...attribute.KeyValue,
) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "tracker."+name, trace.WithAttributes(attrs...))
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// AnalyzeIntake implements Tracker.AnalyzeIntake.
func (t *trackerImpl) AnalyzeIntake(
	ctx context.Context,
	intakes []domain.NutrientIntake,
	p domain.Profile,
	now time.Time,
) (*adequacy.Report, error) {
	ctx, span := t.startSpan(ctx, "AnalyzeIntake", attribute.Int("intake_count", len(intakes)))
	defer span.End()
	log := logger.FromContextOrDefault(ctx, t.logger)

	report, err := t.analyzer.Analyze(intakes, p, now)
	if err != nil {
		fail(span, err)
		log.Warn("intake analysis rejected", slog.String("error", err.Error()))
		return nil, NewServiceError("analyze_intake", "invalid profile", err)
	}

	if n := len(report.UnitErrors); n > 0 {
		t.metrics.unitErrors.Add(ctx, int64(n))
		for _, ue := range report.UnitErrors {
			log.Warn("intake excluded",
				slog.String("nutrient_id", ue.NutrientID),
				slog.String("from", string(ue.From)),
				slog.String("to", string(ue.To)))
		}
	}
	if n := len(report.Unknown); n > 0 {
		t.metrics.unknownNutrients.Add(ctx, int64(n))
		log.Info("nutrients without reference data", slog.Any("nutrient_ids", report.Unknown))
	}

	log.Debug("intake analyzed",
		slog.String("bucket", report.Bucket.Key()),
		slog.Int("analysis_count", len(report.Analyses)))
	return report, nil
}

// RecordEntry implements Tracker.RecordEntry.
func (t *trackerImpl) RecordEntry(
	ctx context.Context,
	userID uuid.UUID,
	entry domain.LogEntry,
	now time.Time,
) (*EntryResult, error) {
	ctx, span := t.startSpan(ctx, "RecordEntry",
		attribute.String("user_id", userID.String()),
		attribute.String("entry_kind", string(entry.Kind)))
	defer span.End()
	log := logger.FromContextOrDefault(ctx, t.logger)

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	if err := t.entries.AppendEntry(ctx, userID, entry); err != nil {
		fail(span, err)
		if errors.Is(err, store.ErrInvalidEntity) {
			log.Warn("entry rejected", slog.String("error", err.Error()))
			return nil, NewServiceError("record_entry", "entry rejected", fmt.Errorf("%w: %w", ErrInvalidEntry, err))
		}
		log.Error("failed to append entry", slog.String("error", err.Error()))
		return nil, NewServiceError("record_entry", "failed to store entry", err)
	}
	t.metrics.entriesRecorded.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", string(entry.Kind))))

	goals, err := t.RecomputeGoals(ctx, userID, now)
	if err != nil {
		fail(span, err)
		return nil, err
	}

	achievements, err := t.DetectAchievements(ctx, userID, now)
	if err != nil {
		fail(span, err)
		return nil, err
	}

	log.Info("entry recorded",
		slog.String("user_id", userID.String()),
		slog.String("entry_id", entry.ID.String()),
		slog.Int("goal_updates", len(goals.Updates)),
		slog.Int("achievements", len(achievements)))

	return &EntryResult{Entry: entry, Goals: goals, Achievements: achievements}, nil
}

// entryWindowStart returns the earliest timestamp that can affect g at now.
func entryWindowStart(g *domain.Goal, now time.Time) time.Time {
	switch g.Frequency {
	case domain.FrequencyDaily:
		return now.Add(-windowSlack)
	case domain.FrequencyWeekly:
		return now.Add(-7*24*time.Hour - windowSlack)
	default:
		return g.StartDate
	}
}

// changed reports whether an update needs to be saved and announced.
func changed(before *domain.Goal, u *goal.Update) bool {
	return before.CurrentValue != u.Goal.CurrentValue ||
		len(u.ReachedMilestones) > 0 ||
		u.JustCompleted
}

// RecomputeGoals implements Tracker.RecomputeGoals.
func (t *trackerImpl) RecomputeGoals(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) (*RecomputeResult, error) {
	ctx, span := t.startSpan(ctx, "RecomputeGoals", attribute.String("user_id", userID.String()))
	defer span.End()
	log := logger.FromContextOrDefault(ctx, t.logger)

	goals, err := t.goals.ListGoals(ctx, userID)
	if err != nil {
		fail(span, err)
		log.Error("failed to list goals",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("recompute_goals", "failed to list goals", err)
	}
	span.SetAttributes(attribute.Int("goal_count", len(goals)))

	updates := make([]*goal.Update, len(goals))
	failures := make([]error, len(goals))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(t.opts.Workers)
	for i, g := range goals {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			updates[i], failures[i] = t.recomputeOne(egCtx, userID, g, now)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		fail(span, err)
		return nil, NewServiceError("recompute_goals", "recompute interrupted", err)
	}

	result := &RecomputeResult{Updates: make([]*goal.Update, 0, len(goals))}
	for i, g := range goals {
		if failures[i] != nil {
			result.Failures = append(result.Failures, GoalFailure{
				GoalID: g.ID,
				Err:    failures[i],
				Reason: redact.Error(failures[i]),
			})
			continue
		}
		result.Updates = append(result.Updates, updates[i])
	}

	t.metrics.goalsRecomputed.Add(ctx, int64(len(result.Updates)))
	if n := len(result.Failures); n > 0 {
		t.metrics.goalSaveFailures.Add(ctx, int64(n))
		span.SetAttributes(attribute.Int("failure_count", n))
	}

	return result, nil
}

// recomputeOne evaluates, saves and announces one goal.
func (t *trackerImpl) recomputeOne(
	ctx context.Context,
	userID uuid.UUID,
	g *domain.Goal,
	now time.Time,
) (*goal.Update, error) {
	log := logger.FromContextOrDefault(ctx, t.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("goal_id", g.ID.String()))

	entries, err := t.entries.ListEntries(ctx, userID, entryWindowStart(g, now), now)
	if err != nil {
		log.Error("failed to read entries for goal", slog.String("error", err.Error()))
		return nil, fmt.Errorf("read entries: %w", err)
	}

	update, err := t.goalSvc.Recompute(g, entries, now)
	if err != nil {
		log.Warn("goal cannot be evaluated", slog.String("error", err.Error()))
		return nil, fmt.Errorf("evaluate: %w", err)
	}

	if !changed(g, update) {
		return update, nil
	}

	if err := t.goals.SaveGoal(ctx, userID, update.Goal); err != nil {
		log.Error("failed to save goal", slog.String("error", err.Error()))
		return nil, fmt.Errorf("save: %w", err)
	}

	event, err := events.NewGoalUpdatedEvent(userID, update, now)
	if err == nil {
		err = t.emitter.EmitEvent(ctx, event)
	}
	if err != nil {
		// the goal is saved; a lost notification is not a recompute failure
		log.Warn("failed to emit goal update", slog.String("error", err.Error()))
	}

	log.Debug("goal updated",
		slog.Float64("progress", update.Progress),
		slog.String("state", string(update.State)),
		slog.Int("milestones_reached", len(update.ReachedMilestones)))
	return update, nil
}

// settingsFor returns the user's settings, or the configured defaults when
// the user never saved any.
func (t *trackerImpl) settingsFor(ctx context.Context, userID uuid.UUID) (domain.Settings, error) {
	s, err := t.settings.GetSettings(ctx, userID)
	if errors.Is(err, store.ErrSettingsNotFound) {
		return t.opts.Defaults, nil
	}
	return s, err
}

// DetectAchievements implements Tracker.DetectAchievements.
func (t *trackerImpl) DetectAchievements(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) ([]domain.AchievementEvent, error) {
	ctx, span := t.startSpan(ctx, "DetectAchievements", attribute.String("user_id", userID.String()))
	defer span.End()
	log := logger.FromContextOrDefault(ctx, t.logger)

	settings, err := t.settingsFor(ctx, userID)
	if err != nil {
		fail(span, err)
		log.Error("failed to read settings", slog.String("error", err.Error()))
		return nil, NewServiceError("detect_achievements", "failed to read settings", err)
	}

	entries, err := t.entries.ListEntries(ctx, userID, now.Add(-t.opts.AchievementWindow), now)
	if err != nil {
		fail(span, err)
		log.Error("failed to read entries", slog.String("error", err.Error()))
		return nil, NewServiceError("detect_achievements", "failed to read entries", err)
	}

	fired := t.detector.Detect(entries, settings, now)
	for _, a := range fired {
		t.metrics.achievementsFired.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", string(a.Kind))))

		event, err := events.NewAchievementEvent(userID, a)
		if err == nil {
			err = t.emitter.EmitEvent(ctx, event)
		}
		if err != nil {
			log.Warn("failed to emit achievement",
				slog.String("kind", string(a.Kind)),
				slog.String("error", err.Error()))
		}
	}

	span.SetAttributes(attribute.Int("achievement_count", len(fired)))
	return fired, nil
}

// CreateGoal implements Tracker.CreateGoal.
func (t *trackerImpl) CreateGoal(
	ctx context.Context,
	userID uuid.UUID,
	p domain.GoalParams,
	now time.Time,
) (*domain.Goal, error) {
	log := logger.FromContextOrDefault(ctx, t.logger)

	g, err := domain.NewGoal(p, now)
	if err != nil {
		log.Warn("goal rejected", slog.String("error", err.Error()))
		return nil, NewServiceError("create_goal", "invalid goal", err)
	}

	if err := t.goals.CreateGoal(ctx, userID, g); err != nil {
		log.Error("failed to create goal", slog.String("error", err.Error()))
		return nil, NewServiceError("create_goal", "failed to store goal", err)
	}

	return g, nil
}

// EditGoal implements Tracker.EditGoal.
func (t *trackerImpl) EditGoal(
	ctx context.Context,
	userID, goalID uuid.UUID,
	p domain.GoalParams,
	now time.Time,
) (*domain.Goal, error) {
	log := logger.FromContextOrDefault(ctx, t.logger)

	current, err := t.goals.GetGoal(ctx, userID, goalID)
	if err != nil {
		if errors.Is(err, store.ErrGoalNotFound) {
			return nil, NewServiceError("edit_goal", "goal not found", ErrGoalNotFound)
		}
		return nil, NewServiceError("edit_goal", "failed to load goal", err)
	}

	edited, err := t.goalSvc.Edit(current, p, now)
	if err != nil {
		log.Warn("goal edit rejected", slog.String("error", err.Error()))
		return nil, NewServiceError("edit_goal", "invalid goal", err)
	}

	if err := t.goals.SaveGoal(ctx, userID, edited); err != nil {
		log.Error("failed to save edited goal", slog.String("error", err.Error()))
		return nil, NewServiceError("edit_goal", "failed to store goal", err)
	}

	return edited, nil
}

// ListGoals implements Tracker.ListGoals.
func (t *trackerImpl) ListGoals(ctx context.Context, userID uuid.UUID) ([]*domain.Goal, error) {
	goals, err := t.goals.ListGoals(ctx, userID)
	if err != nil {
		return nil, NewServiceError("list_goals", "failed to list goals", err)
	}
	return goals, nil
}

// GoalStatistics implements Tracker.GoalStatistics.
func (t *trackerImpl) GoalStatistics(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) (goal.Statistics, error) {
	goals, err := t.goals.ListGoals(ctx, userID)
	if err != nil {
		return goal.Statistics{}, NewServiceError("goal_statistics", "failed to list goals", err)
	}
	return goal.Summarize(goals, now), nil
}

// UpdateSettings implements Tracker.UpdateSettings.
func (t *trackerImpl) UpdateSettings(ctx context.Context, userID uuid.UUID, s domain.Settings) error {
	if err := t.settings.SaveSettings(ctx, userID, s); err != nil {
		if errors.Is(err, store.ErrInvalidEntity) {
			return NewServiceError("update_settings", "settings rejected", fmt.Errorf("%w: %w", ErrInvalidSettings, err))
		}
		return NewServiceError("update_settings", "failed to store settings", err)
	}
	return nil
}
