package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds application configuration. It is resolved once at start-up
// and handed to the components that need it.
type Config struct {
	Env      string `env:"ENV" envDefault:"development"`
	Port     string `env:"PORT" envDefault:"8000"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Database Database
	JWT      JWT
	CORS     CORS
	Market   Market
}

// Database holds connection and migration settings.
type Database struct {
	Driver          string        `env:"DB_DRIVER" envDefault:"sqlite"`
	SQLitePath      string        `env:"DB_SQLITE_PATH" envDefault:"dwight.db"`
	Host            string        `env:"DB_HOST" envDefault:"localhost"`
	Port            string        `env:"DB_PORT" envDefault:"5432"`
	User            string        `env:"DB_USER" envDefault:"dwight"`
	Password        string        `env:"DB_PASSWORD" envDefault:"dwight"`
	Name            string        `env:"DB_NAME" envDefault:"dwight"`
	SSLMode         string        `env:"DB_SSLMODE" envDefault:"disable"`
	MigrationsDir   string        `env:"DB_MIGRATIONS_DIR" envDefault:"migrations"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"100"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"1h"`
}

// JWT holds token signing settings. The secret has no default.
type JWT struct {
	Secret             string        `env:"JWT_SECRET,required,notEmpty"`
	Lifetime           time.Duration `env:"JWT_LIFETIME" envDefault:"1h"`
	ResetTokenLifetime time.Duration `env:"RESET_TOKEN_LIFETIME" envDefault:"1h"`
}

// CORS holds the allowed browser origins.
type CORS struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
}

// Market holds the market data provider settings.
type Market struct {
	BaseURL string        `env:"MARKET_BASE_URL" envDefault:"https://query2.finance.yahoo.com"`
	Timeout time.Duration `env:"MARKET_TIMEOUT" envDefault:"8s"`
	Debug   bool          `env:"MARKET_DEBUG"`
}

// Load loads configuration from an optional .env file and the environment.
func Load() (*Config, error) {
	// A missing .env is fine; the environment may carry everything.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	switch cfg.Database.Driver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (use sqlite or postgres)", cfg.Database.Driver)
	}

	if cfg.JWT.Lifetime <= 0 || cfg.JWT.ResetTokenLifetime <= 0 {
		return nil, fmt.Errorf("token lifetimes must be positive")
	}

	return cfg, nil
}

// IsProduction reports whether the process runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
