package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

func init() {
	// Load env from .env when present. Missing file is fine; the
	// validated variables come from the real environment in that case.
	godotenv.Load()
}

// Config holds everything the reminder job needs from the environment.
// All required fields fail fast at startup, before any DB or API call.
type Config struct {
	DBServer   string `validate:"required" env:"DB_SERVER"`
	DBPort     string `env:"DB_PORT"`
	DBName     string `validate:"required" env:"DB_NAME"`
	DBUsername string `validate:"required" env:"DB_USERNAME"`
	DBPassword string `validate:"required" env:"DB_PASSWORD"`

	// Optional namespace prefixed to every table name, e.g. "adp".
	DBSchema string `env:"DB_SCHEMA"`

	SlickTextToken   string `validate:"required" env:"SLICKTEXT_API_TOKEN"`
	SlickTextBrandID string `validate:"required" env:"SLICKTEXT_BRAND_ID"`
}

// LoadConfig reads and validates the process configuration.
// The returned error names the first missing variable.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		DBServer:         strings.TrimSpace(os.Getenv("DB_SERVER")),
		DBPort:           strings.TrimSpace(os.Getenv("DB_PORT")),
		DBName:           strings.TrimSpace(os.Getenv("DB_NAME")),
		DBUsername:       strings.TrimSpace(os.Getenv("DB_USERNAME")),
		DBPassword:       os.Getenv("DB_PASSWORD"),
		DBSchema:         strings.TrimSpace(os.Getenv("DB_SCHEMA")),
		SlickTextToken:   strings.TrimSpace(os.Getenv("SLICKTEXT_API_TOKEN")),
		SlickTextBrandID: strings.TrimSpace(os.Getenv("SLICKTEXT_BRAND_ID")),
	}
	if cfg.DBPort == "" {
		cfg.DBPort = "3306"
	}

	if err := validator.New().Struct(cfg); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) && len(errs) > 0 {
			return nil, fmt.Errorf("configuration variable %s is not set", envVarFor(errs[0].StructField()))
		}
		return nil, err
	}
	return cfg, nil
}

func envVarFor(field string) string {
	names := map[string]string{
		"DBServer":         "DB_SERVER",
		"DBName":           "DB_NAME",
		"DBUsername":       "DB_USERNAME",
		"DBPassword":       "DB_PASSWORD",
		"SlickTextToken":   "SLICKTEXT_API_TOKEN",
		"SlickTextBrandID": "SLICKTEXT_BRAND_ID",
	}
	if v, ok := names[field]; ok {
		return v
	}
	return field
}
