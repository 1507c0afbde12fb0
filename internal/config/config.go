package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geo"
	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Venue    VenueConfig
	Overtime OvertimeConfig
	Jobs     JobsConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int      `env:"APP_PORT" envDefault:"8080"`
	Env            string   `env:"APP_ENV" envDefault:"development"`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

// DatabaseConfig selects the punch store. Driver is one of postgres, sqlite, memory.
type DatabaseConfig struct {
	Driver     string `env:"DB_DRIVER" envDefault:"postgres"`
	Host       string `env:"DB_HOST" envDefault:"localhost"`
	Port       int    `env:"DB_PORT" envDefault:"5432"`
	User       string `env:"DB_USER" envDefault:"postgres"`
	Password   string `env:"DB_PASSWORD"`
	Name       string `env:"DB_NAME" envDefault:"attendance"`
	SSLMode    string `env:"DB_SSL_MODE" envDefault:"disable"`
	SQLitePath string `env:"DB_SQLITE_PATH" envDefault:"./data/attendance.db"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string `env:"JWT_SECRET_KEY"`
	AccessExpiration string `env:"JWT_ACCESS_EXPIRATION_TIME" envDefault:"1h"`
}

// VenueConfig is the venue geofence and calendar, owned by the venue settings store.
type VenueConfig struct {
	Name         string  `env:"VENUE_NAME" envDefault:"Main Venue"`
	Latitude     float64 `env:"VENUE_LATITUDE"`
	Longitude    float64 `env:"VENUE_LONGITUDE"`
	RadiusMeters float64 `env:"VENUE_RADIUS_METERS" envDefault:"100"`
	Timezone     string  `env:"VENUE_TIMEZONE" envDefault:"UTC"`
}

type OvertimeConfig struct {
	ThresholdMinutes int `env:"OVERTIME_THRESHOLD_MINUTES" envDefault:"480"`
}

// JobsConfig controls the background incomplete-day scan.
type JobsConfig struct {
	Enabled      bool          `env:"JOBS_ENABLED" envDefault:"true"`
	Interval     time.Duration `env:"JOBS_INTERVAL" envDefault:"1h"`
	LookbackDays int           `env:"JOBS_LOOKBACK_DAYS" envDefault:"2"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	return Parse()
}

// Parse reads the configuration from the process environment only.
func Parse() (*Config, error) {
	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres":
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case "sqlite":
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("DB_SQLITE_PATH is required")
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.Database.Driver)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}

	if c.Venue.RadiusMeters <= 0 {
		return fmt.Errorf("VENUE_RADIUS_METERS must be positive")
	}
	if _, err := time.LoadLocation(c.Venue.Timezone); err != nil {
		return fmt.Errorf("invalid VENUE_TIMEZONE: %w", err)
	}

	if c.Overtime.ThresholdMinutes < 0 {
		return fmt.Errorf("OVERTIME_THRESHOLD_MINUTES must not be negative")
	}

	if c.Jobs.Enabled && c.Jobs.Interval <= 0 {
		return fmt.Errorf("JOBS_INTERVAL must be positive")
	}

	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func (c *Config) VenueGeofence() attendance.VenueGeofence {
	radius := c.Venue.RadiusMeters
	if radius <= 0 {
		radius = attendance.DefaultVenueRadiusMeters
	}
	return attendance.VenueGeofence{
		Center: geo.Coordinate{
			Latitude:  c.Venue.Latitude,
			Longitude: c.Venue.Longitude,
		},
		RadiusMeters: radius,
	}
}

// VenueLocation returns the venue calendar. Validate guarantees it loads.
func (c *Config) VenueLocation() *time.Location {
	loc, err := time.LoadLocation(c.Venue.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) OvertimeRule() attendance.OvertimeRule {
	return attendance.OvertimeRule{ThresholdMinutes: c.Overtime.ThresholdMinutes}
}

// LogLevel parses App.LogLevel, falling back to info.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
