// Package config loads the server configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"taskmanager/internal/platform/db"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

// ErrMissingJWTSecret is returned by Load when JWT_SECRET is empty.
var ErrMissingJWTSecret = errors.New("JWT_SECRET is not set")

// Config holds every setting the server reads at startup.
type Config struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	GinMode         string        `env:"GIN_MODE" envDefault:"release"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	StoreDriver   string `env:"STORE_DRIVER" envDefault:"sqlite"`
	RunMigrations bool   `env:"RUN_MIGRATIONS" envDefault:"true"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"./taskmanager.db"`
	MongoURI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"taskmanager"`

	// DB is used by the mysql and postgres drivers.
	DB    db.Config
	Redis RedisConfig
	Auth  AuthConfig
	Mail  MailConfig

	TaskCacheTTL     time.Duration `env:"TASK_CACHE_TTL" envDefault:"5m"`
	LoginRateLimit   int           `env:"LOGIN_RATE_LIMIT" envDefault:"10"`
	LoginRateWindow  time.Duration `env:"LOGIN_RATE_WINDOW" envDefault:"1m"`
	AvatarModeration bool          `env:"AVATAR_MODERATION" envDefault:"false"`
	CORSAllowOrigins []string      `env:"CORS_ALLOW_ORIGINS" envDefault:"*" envSeparator:","`
}

// RedisConfig is optional; an empty host disables Redis.
type RedisConfig struct {
	Host     string `env:"REDIS_HOST"`
	Port     string `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
}

// Enabled reports whether a Redis host was configured.
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

// Addr returns host:port.
func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

type AuthConfig struct {
	JWTSecret          string        `env:"JWT_SECRET"`
	TokenTTL           time.Duration `env:"TOKEN_TTL" envDefault:"168h"`
	MaxSessionsPerUser int           `env:"MAX_SESSIONS_PER_USER" envDefault:"10"`
	BcryptCost         int           `env:"BCRYPT_COST" envDefault:"10"`
}

type MailConfig struct {
	SendGridAPIKey string `env:"SENDGRID_API_KEY"`
	From           string `env:"MAIL_FROM" envDefault:"noreply@example.com"`
	FromName       string `env:"MAIL_FROM_NAME" envDefault:"Task Manager"`
	Workers        int    `env:"MAIL_WORKERS" envDefault:"2"`
	QueueSize      int    `env:"MAIL_QUEUE_SIZE" envDefault:"100"`
	RatePerMinute  int    `env:"MAIL_RATE_PER_MINUTE" envDefault:"60"`
}

// Load reads an optional .env file and parses the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug(".env not loaded", "error", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return ErrMissingJWTSecret
	}

	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	switch c.StoreDriver {
	case DriverMySQL, DriverPostgres, DriverSQLite, DriverMongo:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}

	if c.Auth.MaxSessionsPerUser <= 0 {
		return fmt.Errorf("MAX_SESSIONS_PER_USER must be positive, got %d", c.Auth.MaxSessionsPerUser)
	}
	if c.LoginRateLimit <= 0 {
		return fmt.Errorf("LOGIN_RATE_LIMIT must be positive, got %d", c.LoginRateLimit)
	}
	return nil
}
