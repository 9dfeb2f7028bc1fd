// Package config resolves runtime settings from flags, environment, an optional
// YAML file and defaults, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const DefaultSecretKey = "change_me_in_production"

type HealthConfig struct {
	BaseURL           string
	Token             string
	EnergyPath        string
	StepsPath         string
	Timeout           time.Duration
	RequestsPerSecond float64
	SyncSchedule      string
}

type Config struct {
	DBPath            string
	Port              string
	SecretKey         string
	Timezone          string
	CookieSecure      bool
	LogLevel          string
	LogFormat         string
	MissingDatePolicy string
	Health            HealthConfig
}

var envBindings = map[string]string{
	"db_path":             "DB_PATH",
	"port":                "PORT",
	"secret_key":          "SECRET_KEY",
	"timezone":            "TZ",
	"cookie_secure":       "COOKIE_SECURE",
	"log_level":           "LOG_LEVEL",
	"log_format":          "LOG_FORMAT",
	"missing_date_policy": "MISSING_DATE_POLICY",
	"health.base_url":     "HEALTH_BASE_URL",
	"health.token":        "HEALTH_TOKEN",
	"health.energy_path":  "HEALTH_ENERGY_PATH",
	"health.steps_path":   "HEALTH_STEPS_PATH",
	"health.timeout":      "HEALTH_TIMEOUT",
	"health.rps":          "HEALTH_RPS",
	"health.sync":         "HEALTH_SYNC_SCHEDULE",
}

// NewViper returns a viper instance with defaults and environment bindings.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("db_path", "data/myfit.db")
	v.SetDefault("port", "8080")
	v.SetDefault("secret_key", DefaultSecretKey)
	v.SetDefault("timezone", "UTC")
	v.SetDefault("cookie_secure", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("missing_date_policy", "now")
	v.SetDefault("health.base_url", "")
	v.SetDefault("health.token", "")
	v.SetDefault("health.energy_path", "sum")
	v.SetDefault("health.steps_path", "sum")
	v.SetDefault("health.timeout", "5s")
	v.SetDefault("health.rps", 2.0)
	v.SetDefault("health.sync", "@every 30m")

	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}
	return v
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// A missing file is not an error; variables already set are kept.
func LoadDotEnv(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Load reads configFile (or .myfit.yaml in the working directory when empty)
// and returns the validated configuration.
func Load(v *viper.Viper, configFile string) (Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName(".myfit")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		DBPath:            strings.TrimSpace(v.GetString("db_path")),
		Port:              strings.TrimSpace(v.GetString("port")),
		SecretKey:         v.GetString("secret_key"),
		Timezone:          strings.TrimSpace(v.GetString("timezone")),
		CookieSecure:      v.GetBool("cookie_secure"),
		LogLevel:          strings.TrimSpace(v.GetString("log_level")),
		LogFormat:         strings.TrimSpace(v.GetString("log_format")),
		MissingDatePolicy: strings.ToLower(strings.TrimSpace(v.GetString("missing_date_policy"))),
		Health: HealthConfig{
			BaseURL:           strings.TrimRight(strings.TrimSpace(v.GetString("health.base_url")), "/"),
			Token:             strings.TrimSpace(v.GetString("health.token")),
			EnergyPath:        strings.TrimSpace(v.GetString("health.energy_path")),
			StepsPath:         strings.TrimSpace(v.GetString("health.steps_path")),
			Timeout:           v.GetDuration("health.timeout"),
			RequestsPerSecond: v.GetFloat64("health.rps"),
			SyncSchedule:      strings.TrimSpace(v.GetString("health.sync")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg Config) Validate() error {
	if cfg.DBPath == "" {
		return errors.New("db path is required")
	}
	if cfg.Port == "" {
		return errors.New("port is required")
	}
	if _, err := cfg.Location(); err != nil {
		return err
	}
	switch cfg.MissingDatePolicy {
	case "now", "skip":
	default:
		return fmt.Errorf("unsupported missing date policy %q", cfg.MissingDatePolicy)
	}
	if cfg.CookieSecure && cfg.SecretKey == DefaultSecretKey {
		return errors.New("secret key must be changed when secure cookies are enabled")
	}
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return errors.New("secret key is required")
	}
	if cfg.Health.Timeout <= 0 {
		return errors.New("health timeout must be positive")
	}
	if cfg.Health.RequestsPerSecond <= 0 {
		return errors.New("health requests per second must be positive")
	}
	return nil
}

func (cfg Config) Location() (*time.Location, error) {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	return location, nil
}

// HealthEnabled reports whether a health bridge is configured.
func (cfg Config) HealthEnabled() bool {
	return cfg.Health.BaseURL != ""
}
