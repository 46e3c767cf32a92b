package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that everything the current environment needs is
// present. Development and test run with defaults; production must be
// explicit about credentials.
func ValidateConfig(cfg *Config) error {
	var errs []string

	if cfg.JWTSecret == "" {
		errs = append(errs, ValidationError{Field: "JWT_SECRET", Message: "is required"}.Error())
	}

	if IsProduction() {
		required := map[string]string{
			"DB_PASSWORD": cfg.DBPassword,
			"DB_HOST":     cfg.DBHost,
			"DB_NAME":     cfg.DBName,
		}
		for field, value := range required {
			if value == "" {
				errs = append(errs, ValidationError{Field: field, Message: "is required in production"}.Error())
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}
