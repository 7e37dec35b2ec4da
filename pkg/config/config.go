package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/sosodev/duration"
	"github.com/tendant/chi-demo/app"
)

// Config is the full accountd configuration read from the environment
type Config struct {
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	Persistence PersistenceConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Revocation  RevocationConfig
	Password    PasswordConfig
	RateLimit   RateLimitConfig
	Admin       AdminConfig

	// Server
	AppConfig app.AppConfig
}

// PersistenceConfig selects the account store
type PersistenceConfig struct {
	Type         string `env:"PERSISTENCE_TYPE" env-default:"inmem"`
	FileDataPath string `env:"FILE_DATA_PATH" env-default:"./data"`
	SQLitePath   string `env:"SQLITE_PATH" env-default:"./data/accounts.db"`
}

// DatabaseConfig holds PostgreSQL database configuration
type DatabaseConfig struct {
	Host     string `env:"ACCOUNT_PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"ACCOUNT_PG_PORT" env-default:"5432"`
	Database string `env:"ACCOUNT_PG_DATABASE" env-default:"account_db"`
	User     string `env:"ACCOUNT_PG_USER" env-default:"account"`
	Password string `env:"ACCOUNT_PG_PASSWORD" env-default:"pwd"`
	Schema   string `env:"ACCOUNT_PG_SCHEMA" env-default:"public"`
}

// ToDatabaseURL converts the config to a PostgreSQL connection URL
func (d DatabaseConfig) ToDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable&search_path=%s,public",
		d.User, d.Password, d.Host, d.Port, d.Database, d.Schema)
}

// JWTConfig holds access token settings. AccessTokenExpiry accepts ISO8601 ("PT24H")
// or Go ("24h") durations.
type JWTConfig struct {
	Secret            string `env:"JWT_SECRET" env-default:"very-secure-jwt-secret"`
	Issuer            string `env:"JWT_ISSUER" env-default:"simple-account"`
	Audience          string `env:"JWT_AUDIENCE" env-default:"simple-account"`
	AccessTokenExpiry string `env:"ACCESS_TOKEN_EXPIRY" env-default:"24h"`
}

// DefaultJWTSecret is the development signing key used when JWT_SECRET is unset
const DefaultJWTSecret = "very-secure-jwt-secret"

// UsesDefaultSecret reports whether tokens would be signed with DefaultJWTSecret
func (j JWTConfig) UsesDefaultSecret() bool {
	return j.Secret == DefaultJWTSecret
}

// ParseAccessTokenExpiry parses the access token expiry duration
func (j JWTConfig) ParseAccessTokenExpiry() (time.Duration, error) {
	return parseDurationISO8601(j.AccessTokenExpiry)
}

// RevocationConfig selects where revoked token IDs are kept
type RevocationConfig struct {
	Backend       string `env:"REVOCATION_BACKEND" env-default:"inmem"`
	RedisAddr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" env-default:""`
	RedisDB       int    `env:"REDIS_DB" env-default:"0"`
}

// PasswordConfig selects the hash algorithm for new passwords
type PasswordConfig struct {
	Hasher string `env:"PASSWORD_HASHER" env-default:"bcrypt"`
}

// AdminConfig describes the admin account created on an empty store.
// Bootstrap is skipped when AdminEmail is empty.
type AdminConfig struct {
	AdminName     string `env:"ADMIN_NAME" env-default:"Administrator"`
	AdminEmail    string `env:"ADMIN_EMAIL" env-default:""`
	AdminPassword string `env:"ADMIN_PASSWORD" env-default:""`
}

// Load reads the configuration from the environment and validates it
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	if cfg.JWT.UsesDefaultSecret() {
		slog.Warn("JWT_SECRET is not set, using the built-in development secret", "persistence", cfg.Persistence.Type)
	}
	return cfg, nil
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoadEnvFile loads ENV_FILE, or a .env next to the executable or in the working
// directory. Values already present in the environment win.
func LoadEnvFile() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
		if execPath, err := os.Executable(); err == nil {
			candidate := filepath.Join(filepath.Dir(execPath), ".env")
			if _, err := os.Stat(candidate); err == nil {
				envFile = candidate
			}
		}
	}

	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		slog.Debug("No .env file found (using environment variables or defaults)")
		return
	}

	slog.Info("Loading configuration from .env file", "path", envFile)
	if err := godotenv.Load(envFile); err != nil {
		slog.Warn("Failed to load .env file", "err", err)
	}
}

func parseDurationISO8601(s string) (time.Duration, error) {
	isoDuration, err := duration.Parse(s)
	if err == nil {
		return isoDuration.ToTimeDuration(), nil
	}
	return time.ParseDuration(s)
}
