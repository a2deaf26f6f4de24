package config

import (
	"time"

	"github.com/phrazzld/vitals/internal/domain"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Evaluation EvaluationConfig `mapstructure:"evaluation" validate:"required"`
	Defaults   domain.Settings  `mapstructure:"defaults" validate:"required"`
	Reference  ReferenceConfig  `mapstructure:"reference"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// EvaluationConfig tunes goal and achievement evaluation.
type EvaluationConfig struct {
	// Timezone is the IANA location that defines calendar days.
	Timezone            string  `mapstructure:"timezone" validate:"required,timezone"`
	ExerciseGoalMinutes float64 `mapstructure:"exercise_goal_minutes" validate:"gt=0"`
	// CalorieTolerance is the fraction either side of the daily calorie
	// target that still counts as meeting it.
	CalorieTolerance   float64 `mapstructure:"calorie_tolerance" validate:"gt=0,lt=1"`
	StreakLookbackDays int     `mapstructure:"streak_lookback_days" validate:"gte=1,lte=366"`
	GoalWorkers        int     `mapstructure:"goal_workers" validate:"gte=1,lte=64"`
	// PruneSchedule is the cron expression on which delivered-achievement
	// keys from previous days are forgotten.
	PruneSchedule string `mapstructure:"prune_schedule" validate:"required"`
}

// Location resolves Timezone. Validation has already checked it loads, so
// an error here only happens for hand-built configs.
func (e EvaluationConfig) Location() (*time.Location, error) {
	return time.LoadLocation(e.Timezone)
}

// ReferenceConfig points at an optional reference table file. When Path is
// empty the tables compiled into the binary are used.
type ReferenceConfig struct {
	Path string `mapstructure:"path" validate:"omitempty,file"`
}

// TelemetryConfig controls OTLP trace and metric export. An empty endpoint
// disables export.
type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	Insecure     bool   `mapstructure:"insecure"`
	ServiceName  string `mapstructure:"service_name" validate:"required"`
}
