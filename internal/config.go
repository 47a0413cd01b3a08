package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeJWT      = "jwt"
)

// MinSecretLen is the shortest accepted HS256 signing secret.
const MinSecretLen = 16

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	SQLite SQLiteConfig      `yaml:"sqlite"`
	Auth   AuthConfig        `yaml:"auth"`
	Events EventsConfig      `yaml:"events"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.SQLite.Validate(); err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}
	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Events.Validate(); err != nil {
		return fmt.Errorf("events: %w", err)
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level" env:"LIFEMIRROR_LOG_LEVEL"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port" env:"LIFEMIRROR_HTTP_PORT"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path" env:"LIFEMIRROR_SQLITE_PATH"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how callers are identified:
//   - "jwt" (default): HS256 bearer tokens signed with Secret; the subject is the owner id.
//   - "disabled": every request acts as DevOwner, for local development only.
type AuthConfig struct {
	Mode     string `yaml:"mode" env:"LIFEMIRROR_AUTH_MODE"`
	Secret   string `yaml:"secret" env:"LIFEMIRROR_AUTH_SECRET"`
	Issuer   string `yaml:"issuer" env:"LIFEMIRROR_AUTH_ISSUER"`
	DevOwner string `yaml:"dev_owner" env:"LIFEMIRROR_AUTH_DEV_OWNER"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeJWT
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeJWT)),
		validation.Field(&c.Secret,
			validation.When(c.Mode == AuthModeJWT,
				validation.Required.Error("is required in jwt mode"),
				validation.RuneLength(MinSecretLen, 0).Error(fmt.Sprintf("must be at least %d characters", MinSecretLen)),
			)),
		validation.Field(&c.DevOwner,
			validation.When(c.Mode == AuthModeDisabled, validation.Required.Error("is required when auth is disabled"))),
	)
}

// AuthEnabled returns true when bearer tokens are verified.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeJWT
}

// EventsConfig holds change feed configuration.
type EventsConfig struct {
	DashboardThrottle time.Duration `yaml:"dashboard_throttle" env:"LIFEMIRROR_EVENTS_DASHBOARD_THROTTLE"`
}

// Validate validates the events configuration.
func (c *EventsConfig) Validate() error {
	if c.DashboardThrottle < 0 {
		return errors.New("dashboard_throttle must not be negative")
	}
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		SQLite: SQLiteConfig{
			Path: "./lifemirror.db",
		},
		Auth: AuthConfig{
			Mode:   AuthModeJWT,
			Issuer: "lifemirror",
		},
		Events: EventsConfig{
			DashboardThrottle: 2 * time.Second,
		},
	}
}
