package service

import (
	"log/slog"

	"github.com/phrazzld/vitals/internal/telemetry"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// trackerMetrics are the counters recorded by the tracker. Instruments that
// fail to register fall back to no-ops.
type trackerMetrics struct {
	entriesRecorded   metric.Int64Counter
	goalsRecomputed   metric.Int64Counter
	goalSaveFailures  metric.Int64Counter
	achievementsFired metric.Int64Counter
	unitErrors        metric.Int64Counter
	unknownNutrients  metric.Int64Counter
}

func newTrackerMetrics(log *slog.Logger) trackerMetrics {
	meter := telemetry.Meter()
	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc))
		if err != nil {
			log.Warn("failed to register counter",
				slog.String("counter", name),
				slog.String("error", err.Error()))
			return noop.Int64Counter{}
		}
		return c
	}

	return trackerMetrics{
		entriesRecorded:   counter("vitals.entries.recorded", "Log entries accepted"),
		goalsRecomputed:   counter("vitals.goals.recomputed", "Goal recomputations"),
		goalSaveFailures:  counter("vitals.goals.save_failures", "Goal updates that could not be saved"),
		achievementsFired: counter("vitals.achievements.fired", "Achievement events emitted"),
		unitErrors:        counter("vitals.intake.unit_errors", "Intakes excluded for unit conversion failures"),
		unknownNutrients:  counter("vitals.intake.unknown_nutrients", "Intakes for nutrients without reference data"),
	}
}
