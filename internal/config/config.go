package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	CORSAllowOrigins      string
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

// AuthConfig defines token, hashing and throttling parameters. The access and
// refresh secrets are independent and must never be equal.
type AuthConfig struct {
	AccessTokenSecret         string
	AccessTokenTTLMinutes     int
	RefreshTokenSecret        string
	RefreshTokenTTLSeconds    int
	HashConcurrency           int
	Argon2MemoryKiB           int
	Argon2Time                int
	Argon2Threads             int
	LoginMaxAttempts          int
	LoginAttemptWindowSeconds int
}

// AccessTokenTTL is the lifetime of minted access tokens.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

// RefreshTokenTTL is the lifetime of refresh tokens and their cookie.
func (a AuthConfig) RefreshTokenTTL() time.Duration {
	return time.Duration(a.RefreshTokenTTLSeconds) * time.Second
}

// LoginAttemptWindow is how long failed logins are remembered.
func (a AuthConfig) LoginAttemptWindow() time.Duration {
	return time.Duration(a.LoginAttemptWindowSeconds) * time.Second
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
			Name:                  getEnv("APP_NAME", "posts-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "127.0.0.1"),
			Port:                  getEnv("APP_PORT", "7878"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			CORSAllowOrigins:      getEnv("CORS_ALLOW_ORIGINS", "*"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("DATABASE_URL"),
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
			AccessTokenSecret:         os.Getenv("JWT_ACCESS_TOKEN_SECRET"),
			AccessTokenTTLMinutes:     getEnvAsInt("JWT_ACCESS_TOKEN_EXPIRES", 15),
			RefreshTokenSecret:        os.Getenv("JWT_REFRESH_TOKEN_SECRET"),
			RefreshTokenTTLSeconds:    getEnvAsInt("JWT_REFRESH_TOKEN_EXPIRES", 7*24*60*60),
			HashConcurrency:           getEnvAsInt("AUTH_HASH_CONCURRENCY", runtime.NumCPU()),
			Argon2MemoryKiB:           getEnvAsInt("AUTH_ARGON2_MEMORY_KIB", 19456),
			Argon2Time:                getEnvAsInt("AUTH_ARGON2_TIME", 2),
			Argon2Threads:             getEnvAsInt("AUTH_ARGON2_THREADS", 1),
			LoginMaxAttempts:          getEnvAsInt("AUTH_LOGIN_MAX_ATTEMPTS", 5),
			LoginAttemptWindowSeconds: getEnvAsInt("AUTH_LOGIN_ATTEMPT_WINDOW_SECONDS", 900),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Argon2 cost bounds. Memory is per hash and capped at 1 GiB.
const (
	maxArgon2Threads   = 255
	maxArgon2Time      = 64
	maxArgon2MemoryKiB = 1 << 20
)

func (c *Config) validate() error {
	var errs []error
	if strings.TrimSpace(c.Postgres.DSN) == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.Auth.AccessTokenSecret == "" {
		errs = append(errs, errors.New("JWT_ACCESS_TOKEN_SECRET is required"))
	}
	if c.Auth.RefreshTokenSecret == "" {
		errs = append(errs, errors.New("JWT_REFRESH_TOKEN_SECRET is required"))
	}
	if c.Auth.AccessTokenSecret != "" && c.Auth.AccessTokenSecret == c.Auth.RefreshTokenSecret {
		errs = append(errs, errors.New("JWT_ACCESS_TOKEN_SECRET and JWT_REFRESH_TOKEN_SECRET must differ"))
	}
	if c.Auth.AccessTokenTTLMinutes <= 0 {
		errs = append(errs, errors.New("JWT_ACCESS_TOKEN_EXPIRES must be positive"))
	}
	if c.Auth.RefreshTokenTTLSeconds <= 0 {
		errs = append(errs, errors.New("JWT_REFRESH_TOKEN_EXPIRES must be positive"))
	}
	if c.Auth.Argon2Threads < 1 || c.Auth.Argon2Threads > maxArgon2Threads {
		errs = append(errs, fmt.Errorf("AUTH_ARGON2_THREADS must be between 1 and %d", maxArgon2Threads))
	}
	if c.Auth.Argon2Time < 1 || c.Auth.Argon2Time > maxArgon2Time {
		errs = append(errs, fmt.Errorf("AUTH_ARGON2_TIME must be between 1 and %d", maxArgon2Time))
	}
	if c.Auth.Argon2MemoryKiB < 8*max(c.Auth.Argon2Threads, 1) || c.Auth.Argon2MemoryKiB > maxArgon2MemoryKiB {
		errs = append(errs, fmt.Errorf("AUTH_ARGON2_MEMORY_KIB must be between 8*AUTH_ARGON2_THREADS and %d", maxArgon2MemoryKiB))
	}
	if c.Auth.LoginMaxAttempts > 0 && c.Auth.LoginAttemptWindowSeconds <= 0 {
		errs = append(errs, errors.New("AUTH_LOGIN_ATTEMPT_WINDOW_SECONDS must be positive when throttling is enabled"))
	}
	if c.Auth.HashConcurrency <= 0 {
		c.Auth.HashConcurrency = 1
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
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
