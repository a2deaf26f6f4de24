package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "VITALS"

// Load configuration from environment variables and optionally a config.yaml
// in the working directory. Environment variables take precedence over values
// from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return load("")
}

// LoadFile behaves like Load but reads the named config file, which must
// exist.
func LoadFile(path string) (*Config, error) {
	return load(path)
}

func load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// VITALS_SERVER_PORT overrides server.port
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Every key needs a default, even an empty one, so AutomaticEnv can bind it
// during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("evaluation.timezone", "UTC")
	v.SetDefault("evaluation.exercise_goal_minutes", 30)
	v.SetDefault("evaluation.calorie_tolerance", 0.05)
	v.SetDefault("evaluation.streak_lookback_days", 30)
	v.SetDefault("evaluation.goal_workers", 4)
	v.SetDefault("evaluation.prune_schedule", "5 0 * * *")

	v.SetDefault("defaults.daily_calorie_target", 2000)
	v.SetDefault("defaults.daily_step_goal", 10000)
	v.SetDefault("defaults.daily_water_goal", 64)

	v.SetDefault("reference.path", "")

	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.insecure", false)
	v.SetDefault("telemetry.service_name", "vitals")
}
