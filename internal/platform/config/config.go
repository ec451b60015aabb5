// Package config loads service configuration from an optional YAML
// file layered with environment variable overrides, including legacy
// aliases from earlier deployments.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config is the full runtime configuration for the optimizer service.
type Config struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	DistanceMatrixAPIKey string `mapstructure:"distance_matrix_api_key"`
	GeocodingAPIKey      string `mapstructure:"geocoding_api_key"`
	TravelMode           string `mapstructure:"travel_mode"`

	ECSScoreThreshold float64 `mapstructure:"ecs_score_threshold"`
	PoisPerDay        int     `mapstructure:"pois_per_day"`

	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
	TracingOTLPURL string `mapstructure:"tracing_otlp_url"`
}

// DefaultConfig returns sensible defaults for running without a config
// file or environment overrides.
func DefaultConfig() *Config {
	return &Config{
		Port:              "8080",
		Environment:       "production",
		AllowedOrigins:    []string{"*"},
		TravelMode:        "driving",
		ECSScoreThreshold: 0.3,
		PoisPerDay:        3,
		MetricsEnabled:    true,
	}
}

// envAliases lists legacy environment variable names, bound alongside
// the canonical TOURFLOW_* name so older deployments keep working.
var envAliases = map[string][]string{
	"port":                    {"TOURFLOW_PORT", "PORT"},
	"environment":             {"TOURFLOW_ENV", "ENVIRONMENT"},
	"allowed_origins":         {"TOURFLOW_ALLOWED_ORIGINS", "TOURFLOW_CORS_ALLOWED_ORIGINS"},
	"distance_matrix_api_key": {"TOURFLOW_DISTANCE_MATRIX_API_KEY", "GOOGLE_DISTANCE_MATRIX_API_KEY"},
	"geocoding_api_key":       {"TOURFLOW_GEOCODING_API_KEY", "GOOGLE_GEOCODING_API_KEY"},
	"ecs_score_threshold":     {"TOURFLOW_ECS_SCORE_THRESHOLD"},
}

// Option customizes Load, applied directly to the underlying viper
// instance so callers can reach any viper knob.
type Option func(*viper.Viper)

// WithPath sets the YAML config file path to load, if any.
func WithPath(path string) Option {
	return func(v *viper.Viper) { v.SetConfigFile(path) }
}

// WithViperOption applies an arbitrary viper option, e.g. a custom fs
// for tests.
func WithViperOption(opt func(*viper.Viper)) Option {
	return opt
}

// Load builds a Config starting from defaults, applying a YAML file if
// a path was given and found, then applying environment overrides.
func Load(opts ...Option) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	applyDefaults(v)
	if err := bindEnvAliases(v); err != nil {
		return nil, fmt.Errorf("bind config env vars: %w", err)
	}

	for _, opt := range opts {
		opt(v)
	}

	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", v.ConfigFileUsed(), err)
			}
		}
	}

	cfg := DefaultConfig()
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(cfg, decodeHook); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.GeocodingAPIKey == "" {
		cfg.GeocodingAPIKey = cfg.DistanceMatrixAPIKey
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	return cfg, nil
}

func applyDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("port", defaults.Port)
	v.SetDefault("environment", defaults.Environment)
	v.SetDefault("allowed_origins", defaults.AllowedOrigins)
	v.SetDefault("travel_mode", defaults.TravelMode)
	v.SetDefault("ecs_score_threshold", defaults.ECSScoreThreshold)
	v.SetDefault("pois_per_day", defaults.PoisPerDay)
	v.SetDefault("metrics_enabled", defaults.MetricsEnabled)
}

func bindEnvAliases(v *viper.Viper) error {
	for key, names := range envAliases {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return err
		}
	}
	return nil
}
