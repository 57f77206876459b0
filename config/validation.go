package config

import (
	"fmt"
	"strings"
)

// ValidateConfig checks that the configuration carries everything the
// current environment requires. Production refuses to start without
// credentials; development fills in a throwaway JWT secret.
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()

	var errors []string

	if env == Production {
		if cfg.DBPassword == "" {
			errors = append(errors, "db_password secret or DB_PASSWORD is required")
		}
		if cfg.JWTSecret == "" {
			errors = append(errors, "jwt_secret secret or JWT_SECRET is required")
		}
	} else if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret"
	}

	if cfg.ServerPort == "" {
		errors = append(errors, "SERVER_PORT must not be empty")
	}
	if cfg.DBName == "" {
		errors = append(errors, "DB_NAME must not be empty")
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}
	return nil
}
