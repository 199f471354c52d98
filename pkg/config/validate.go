package config

import (
	"errors"
	"fmt"
	"strings"
)

var authTypes = []string{"none", "auth", "basic_auth", "session_auth", "session_exp_auth", "session_db_auth"}

// Validate checks the configuration for required fields and valid values.
// All problems are reported together, each prefixed with its field path.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}

	if !oneOf(c.Auth.Type, authTypes...) {
		errs = append(errs, fmt.Errorf("auth.type must be one of %s, got %q", strings.Join(authTypes, ", "), c.Auth.Type))
	}
	if c.Auth.SessionName == "" {
		errs = append(errs, fmt.Errorf("auth.session_name is required"))
	}

	switch c.Storage.Type {
	case "memory":
	case "postgres":
		if c.Storage.Postgres.DSN == "" && c.Storage.Postgres.DSNFile == "" {
			errs = append(errs, fmt.Errorf("storage.postgres.dsn or storage.postgres.dsn_file is required when storage.type is \"postgres\""))
		}
	case "redis":
		if c.Storage.Redis.Addr == "" {
			errs = append(errs, fmt.Errorf("storage.redis.addr is required when storage.type is \"redis\""))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.type must be \"memory\", \"postgres\" or \"redis\", got %q", c.Storage.Type))
	}
	if c.Storage.QueryTimeout <= 0 {
		errs = append(errs, fmt.Errorf("storage.query_timeout must be > 0, got %v", c.Storage.QueryTimeout))
	}

	if c.Password.BcryptCost < 4 || c.Password.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("password.bcrypt_cost must be between 4 and 31, got %d", c.Password.BcryptCost))
	}

	if !oneOf(strings.ToLower(c.Logging.Format), "text", "json") {
		errs = append(errs, fmt.Errorf("logging.format must be \"text\" or \"json\", got %q", c.Logging.Format))
	}

	if c.Observability.Metrics.Enabled && !strings.HasPrefix(c.Observability.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("observability.metrics.path must start with \"/\", got %q", c.Observability.Metrics.Path))
	}

	return errors.Join(errs...)
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
