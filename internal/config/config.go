package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Assist       AssistConfig
	Sync         SyncConfig
	Integrations IntegrationsConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	RefreshTokenTTLDays   int
	BcryptCost            int
}

// AssistConfig gates the assistive classifier.
type AssistConfig struct {
	Enabled        bool
	TimeoutSeconds int
}

// SyncConfig tunes the background synchronization worker.
type SyncConfig struct {
	PollIntervalSeconds    int
	BatchSize              int
	MaxAttempts            int
	CallTimeoutSeconds     int
	ProcessingLeaseSeconds int
}

// IntegrationsConfig toggles external ticketing systems.
type IntegrationsConfig struct {
	GLPIEnabled   bool
	SolmanEnabled bool
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "helpdesk"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 15),
			RefreshTokenTTLDays:   getEnvAsInt("AUTH_REFRESH_TOKEN_TTL_DAYS", 7),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Assist: AssistConfig{
			Enabled:        getEnvAsBool("ASSIST_ENABLED", true),
			TimeoutSeconds: getEnvAsInt("ASSIST_TIMEOUT_SECONDS", 5),
		},
		Sync: SyncConfig{
			PollIntervalSeconds:    getEnvAsInt("SYNC_POLL_INTERVAL_SECONDS", 3),
			BatchSize:              getEnvAsInt("SYNC_BATCH_SIZE", 5),
			MaxAttempts:            getEnvAsInt("SYNC_MAX_ATTEMPTS", 8),
			CallTimeoutSeconds:     getEnvAsInt("SYNC_CALL_TIMEOUT_SECONDS", 10),
			ProcessingLeaseSeconds: getEnvAsInt("SYNC_PROCESSING_LEASE_SECONDS", 300),
		},
		Integrations: IntegrationsConfig{
			GLPIEnabled:   getEnvAsBool("GLPI_ENABLED", true),
			SolmanEnabled: getEnvAsBool("SOLMAN_ENABLED", true),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// PollInterval returns the worker poll cadence.
func (s SyncConfig) PollInterval() time.Duration {
	if s.PollIntervalSeconds <= 0 {
		return 3 * time.Second
	}
	return time.Duration(s.PollIntervalSeconds) * time.Second
}

// CallTimeout bounds a single external-adapter call.
func (s SyncConfig) CallTimeout() time.Duration {
	if s.CallTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(s.CallTimeoutSeconds) * time.Second
}

// ProcessingLease is how long a job may sit in PROCESSING before the
// worker treats it as abandoned and requeues it.
func (s SyncConfig) ProcessingLease() time.Duration {
	if s.ProcessingLeaseSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(s.ProcessingLeaseSeconds) * time.Second
}

// Timeout bounds a single assistive-classifier call.
func (a AssistConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
