package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Scheduler SchedulerConfig
	Imports   ImportsConfig
	Exports   ExportsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SchedulerConfig carries the working-hours defaults applied when a project
// has no explicit settings. Times are minutes from midnight.
type SchedulerConfig struct {
	StartOfDay    int
	EndOfDay      int
	WorkingDays   []string
	Timezone      string
	LunchStart    int
	LunchDuration int
}

// ImportsConfig governs the background agenda-import worker pool.
type ImportsConfig struct {
	WorkerConcurrency int
	QueueBuffer       int
	JobTTL            time.Duration
	JobStore          string
}

// ExportsConfig toggles the agenda export endpoints.
type ExportsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Scheduler = SchedulerConfig{
		StartOfDay:    v.GetInt("SCHEDULER_START_OF_DAY"),
		EndOfDay:      v.GetInt("SCHEDULER_END_OF_DAY"),
		WorkingDays:   splitAndTrim(v.GetString("SCHEDULER_WORKING_DAYS")),
		Timezone:      v.GetString("SCHEDULER_TIMEZONE"),
		LunchStart:    v.GetInt("SCHEDULER_LUNCH_START"),
		LunchDuration: v.GetInt("SCHEDULER_LUNCH_DURATION"),
	}

	cfg.Imports = ImportsConfig{
		WorkerConcurrency: v.GetInt("IMPORTS_WORKER_CONCURRENCY"),
		QueueBuffer:       v.GetInt("IMPORTS_QUEUE_BUFFER"),
		JobTTL:            parseDuration(v.GetString("IMPORTS_JOB_TTL"), 24*time.Hour),
		JobStore:          v.GetString("IMPORTS_JOB_STORE"),
	}

	cfg.Exports = ExportsConfig{
		Enabled: v.GetBool("ENABLE_EXPORTS"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "training_agenda")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SCHEDULER_START_OF_DAY", 540)
	v.SetDefault("SCHEDULER_END_OF_DAY", 1020)
	v.SetDefault("SCHEDULER_WORKING_DAYS", "monday,tuesday,wednesday,thursday,friday")
	v.SetDefault("SCHEDULER_TIMEZONE", "UTC")
	v.SetDefault("SCHEDULER_LUNCH_START", 720)
	v.SetDefault("SCHEDULER_LUNCH_DURATION", 60)

	v.SetDefault("IMPORTS_WORKER_CONCURRENCY", 2)
	v.SetDefault("IMPORTS_QUEUE_BUFFER", 16)
	v.SetDefault("IMPORTS_JOB_TTL", "24h")
	v.SetDefault("IMPORTS_JOB_STORE", "memory")

	v.SetDefault("ENABLE_EXPORTS", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
