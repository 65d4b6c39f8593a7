package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	DatabaseURL string
	Port        string
	Env         string
	LogLevel    string
	ServiceName string

	// Upper bound for one generative analysis call
	AnalysisTimeout time.Duration

	// Cron expression (5 fields) for the in-process inactivation schedule.
	// Empty disables it; an external scheduler can still call the trigger endpoint.
	AutomationSchedule string

	AutoMigrate bool
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("⚠️ .env file not found, using system environment variables")
	}

	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		Port:               os.Getenv("PORT"),
		Env:                os.Getenv("ENV"),
		LogLevel:           os.Getenv("LOG_LEVEL"),
		ServiceName:        os.Getenv("SERVICE_NAME"),
		AutomationSchedule: os.Getenv("AUTOMATION_SCHEDULE"),
	}

	// Default values
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "crm-engagement-api"
	}

	cfg.AnalysisTimeout = parseDuration("ANALYSIS_TIMEOUT", 20*time.Second)
	cfg.AutoMigrate = parseBool("AUTO_MIGRATE", cfg.IsDevelopment())

	return cfg
}

// IsDevelopment reports whether the service runs with ENV=development
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Warn().Str("key", key).Str("value", raw).Msg("invalid duration, using default")
		return fallback
	}
	return d
}

func parseBool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("invalid boolean, using default")
		return fallback
	}
	return b
}
