// Package config provides unified configuration for the authgate server.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (AUTH_TYPE, SESSION_NAME,
//     SESSION_DURATION, API_HOST, API_PORT, then AUTHGATE_ prefixed names)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all configuration for the authgate server.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Auth          AuthConfig          `yaml:"auth"`
	Storage       StorageConfig       `yaml:"storage"`
	Password      PasswordConfig      `yaml:"password"`
	Logging       LoggingConfig       `yaml:"logging"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"`             // default: "0.0.0.0"
	Port            int           `yaml:"port"`             // default: 5000
	ReadTimeout     time.Duration `yaml:"read_timeout"`     // default: 15s
	WriteTimeout    time.Duration `yaml:"write_timeout"`    // default: 15s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // default: 10s
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// AuthConfig selects the authentication strategy.
type AuthConfig struct {
	Type            string   `yaml:"type"`             // none, auth, basic_auth, session_auth, session_exp_auth, session_db_auth
	SessionName     string   `yaml:"session_name"`     // cookie name, default: "_my_session_id"
	SessionDuration int      `yaml:"session_duration"` // seconds; <= 0 never expires
	ExcludedPaths   []string `yaml:"excluded_paths"`   // default: auth.DefaultExcludedPaths
	CookieSecure    bool     `yaml:"cookie_secure"`
}

// SessionLifetime returns SessionDuration as a time.Duration.
func (a AuthConfig) SessionLifetime() time.Duration {
	return time.Duration(a.SessionDuration) * time.Second
}

// StorageConfig selects where users and session records are kept.
type StorageConfig struct {
	Type         string         `yaml:"type"`          // "memory", "postgres" or "redis", default: "memory"
	QueryTimeout time.Duration  `yaml:"query_timeout"` // per session store call, default: 2s
	Postgres     PostgresConfig `yaml:"postgres"`
	Redis        RedisConfig    `yaml:"redis"`
}

// PostgresConfig holds PostgreSQL-specific settings. Used for users and
// session records when storage.type is "postgres".
type PostgresConfig struct {
	DSN            string `yaml:"dsn"`
	DSNFile        string `yaml:"dsn_file"`         // _file variant for dsn
	MaxConns       int32  `yaml:"max_conns"`        // default: 10
	MigrateOnStart bool   `yaml:"migrate_on_start"` // default: true
}

// RedisConfig holds Redis settings. Used for session records when
// storage.type is "redis"; users stay in memory.
type RedisConfig struct {
	Addr         string `yaml:"addr"` // default: "localhost:6379"
	Password     string `yaml:"password"`
	PasswordFile string `yaml:"password_file"` // _file variant for password
	DB           int    `yaml:"db"`
	KeyPrefix    string `yaml:"key_prefix"` // default: "session:"
}

// PasswordConfig holds password hashing settings.
type PasswordConfig struct {
	BcryptCost int `yaml:"bcrypt_cost"` // default: 10
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level        string   `yaml:"level"`         // TRACE, DEBUG, INFO, WARN, ERROR; default: INFO
	Format       string   `yaml:"format"`        // "text" or "json", default: "text"
	Debug        string   `yaml:"debug"`         // comma-separated debug categories
	RedactFields []string `yaml:"redact_fields"` // log attribute keys whose values are masked
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Auth: AuthConfig{
			Type:        "none",
			SessionName: "_my_session_id",
		},
		Storage: StorageConfig{
			Type:         "memory",
			QueryTimeout: 2 * time.Second,
			Postgres: PostgresConfig{
				MaxConns:       10,
				MigrateOnStart: true,
			},
			Redis: RedisConfig{
				Addr:      "localhost:6379",
				KeyPrefix: "session:",
			},
		},
		Password: PasswordConfig{
			BcryptCost: 10,
		},
		Logging: LoggingConfig{
			Level:        "INFO",
			Format:       "text",
			RedactFields: []string{"password", "authorization", "reset_token"},
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
	}
}
