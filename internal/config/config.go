// Package config loads runtime configuration from the environment and an
// optional YAML file, and validates it before the server starts.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"eventreg/internal/adapters/storage"
	"eventreg/internal/domain/fieldrule"
)

// FileEnvVar names the variable pointing at an optional YAML config file.
const FileEnvVar = "EVENTREG_CONFIG"

// EnvProduction is the Env value that enables production checks.
const EnvProduction = "production"

// Config holds all application configuration.
type Config struct {
	Env      string         `yaml:"env" env:"EVENTREG_ENV" env-default:"development"`
	Timezone string         `yaml:"timezone" env:"EVENTREG_TIMEZONE" env-default:"UTC"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Email    EmailConfig    `yaml:"email"`
	Security SecurityConfig `yaml:"security"`
	Logging  LoggingConfig  `yaml:"logging"`
	Seed     SeedConfig     `yaml:"seed"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"EVENTREG_ADDR" env-default:":8080"`
	StaticDir       string        `yaml:"static_dir" env:"EVENTREG_STATIC_DIR" env-default:"static"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"EVENTREG_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"EVENTREG_WRITE_TIMEOUT" env-default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"EVENTREG_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"EVENTREG_SHUTDOWN_TIMEOUT" env-default:"10s"`
	SlowRequestMs   int           `yaml:"slow_request_ms" env:"EVENTREG_SLOW_REQUEST_MS" env-default:"200"`
}

// DatabaseConfig selects the store driver and pool.
type DatabaseConfig struct {
	Driver       string `yaml:"driver" env:"EVENTREG_DB_DRIVER" env-default:"sqlite"`
	DSN          string `yaml:"dsn" env:"EVENTREG_DB_DSN" env-default:"eventreg.db"`
	MaxOpenConns int    `yaml:"max_open_conns" env:"EVENTREG_DB_MAX_OPEN_CONNS" env-default:"10"`
	SlowQueryMs  int    `yaml:"slow_query_ms" env:"EVENTREG_SLOW_QUERY_MS" env-default:"50"`
}

// EmailConfig configures the notification transport. An empty ResendAPIKey
// selects the no-op sender.
type EmailConfig struct {
	ResendAPIKey string `yaml:"resend_api_key" env:"EVENTREG_RESEND_API_KEY"`
	From         string `yaml:"from" env:"EVENTREG_EMAIL_FROM" env-default:"Events <events@example.com>"`
	ReplyTo      string `yaml:"reply_to" env:"EVENTREG_EMAIL_REPLY_TO"`
	Locale       string `yaml:"locale" env:"EVENTREG_EMAIL_LOCALE" env-default:"en"`
}

// SecurityConfig covers CSRF and rate limiting.
type SecurityConfig struct {
	// CSRFKey is 64 hex characters (32 bytes). Required in production.
	CSRFKey            string   `yaml:"csrf_key" env:"EVENTREG_CSRF_KEY"`
	TrustedOrigins     []string `yaml:"trusted_origins" env:"EVENTREG_TRUSTED_ORIGINS" env-separator:"," env-default:"localhost:8080,127.0.0.1:8080"`
	RateLimitPerSecond int      `yaml:"rate_limit_per_second" env:"EVENTREG_RATE_LIMIT" env-default:"10"`
}

// LoggingConfig configures slog.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"EVENTREG_LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"EVENTREG_LOG_FORMAT" env-default:"text"`
}

// SeedConfig provides initial data applied only to an empty store.
type SeedConfig struct {
	AdminEmail          string `yaml:"admin_email" env:"EVENTREG_ADMIN_EMAIL"`
	EnableNotifications bool   `yaml:"enable_notifications" env:"EVENTREG_ENABLE_NOTIFICATIONS" env-default:"false"`
	SampleEvents        bool   `yaml:"sample_events" env:"EVENTREG_SAMPLE_EVENTS" env-default:"true"`
}

// Configuration errors
var (
	ErrInvalidCSRFKey  = errors.New("EVENTREG_CSRF_KEY must be 64 hex characters (32 bytes)")
	ErrMissingCSRFKey  = errors.New("EVENTREG_CSRF_KEY is required in production")
	ErrInvalidTimezone = errors.New("invalid EVENTREG_TIMEZONE")
	ErrInvalidAdmin    = errors.New("EVENTREG_ADMIN_EMAIL is not a valid email address")
	ErrInvalidRate     = errors.New("EVENTREG_RATE_LIMIT must be positive")
)

// Load reads the YAML file named by EVENTREG_CONFIG when set, then the
// environment, then validates.
// POST: returned Config passed Validate
func Load() (*Config, error) {
	var cfg Config
	var err error
	if path := os.Getenv(FileEnvVar); path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction reports whether production checks apply.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Validate checks cross-field rules cleanenv cannot express.
func (c *Config) Validate() error {
	if _, err := storage.ParseDialect(c.Database.Driver); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Security.CSRFKey == "" && c.IsProduction() {
		return ErrMissingCSRFKey
	}
	if _, err := c.CSRFKeyBytes(); err != nil {
		return err
	}
	if c.Security.RateLimitPerSecond <= 0 {
		return ErrInvalidRate
	}
	if c.Seed.AdminEmail != "" && !fieldrule.IsEmail(c.Seed.AdminEmail) {
		return ErrInvalidAdmin
	}
	return nil
}

// Dialect returns the parsed database dialect.
func (c *Config) Dialect() storage.Dialect {
	d, _ := storage.ParseDialect(c.Database.Driver)
	return d
}

// Location returns the zone submission timestamps are displayed in.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidTimezone, c.Timezone, err)
	}
	return loc, nil
}

// CSRFKeyBytes decodes the CSRF key. It returns nil, nil when no key is set
// so the caller can generate a per-process key outside production.
func (c *Config) CSRFKeyBytes() ([]byte, error) {
	if c.Security.CSRFKey == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(c.Security.CSRFKey)
	if err != nil || len(key) != 32 {
		return nil, ErrInvalidCSRFKey
	}
	return key, nil
}
