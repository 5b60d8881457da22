// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/openbeds/bedtags/internal/validator"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"].
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	// MaxNameLength is the bed tag name limit used when SchemaFile is unset.
	MaxNameLength int

	// SchemaFile, if set, is a YAML field-length schema that replaces MaxNameLength.
	SchemaFile string

	// DuplicatePolicy selects whose void state matters on a name collision.
	DuplicatePolicy validator.Policy

	// MigrateOnStart applies pending goose migrations before serving.
	MigrateOnStart bool
}

const defaultMaxBodyBytes = 1 << 20

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set, or the
// first variable that could not be parsed.
func Load() (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		SchemaFile:  os.Getenv("BEDTAG_SCHEMA_FILE"),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	var err error
	if cfg.MaxBodyBytes, err = getInt64("MAX_BODY_BYTES", defaultMaxBodyBytes); err != nil {
		return Config{}, err
	}
	maxName, err := getInt64("BEDTAG_MAX_NAME_LENGTH", validator.DefaultMaxNameLength)
	if err != nil {
		return Config{}, err
	}
	if maxName > validator.NameColumnWidth {
		return Config{}, fmt.Errorf("BEDTAG_MAX_NAME_LENGTH: %d exceeds the bed_tags.name column width %d", maxName, validator.NameColumnWidth)
	}
	cfg.MaxNameLength = int(maxName)

	if cfg.DuplicatePolicy, err = validator.ParsePolicy(os.Getenv("BEDTAG_DUPLICATE_POLICY")); err != nil {
		return Config{}, fmt.Errorf("BEDTAG_DUPLICATE_POLICY: %w", err)
	}

	if v := os.Getenv("MIGRATE_ON_START"); v != "" {
		if cfg.MigrateOnStart, err = strconv.ParseBool(v); err != nil {
			return Config{}, fmt.Errorf("MIGRATE_ON_START: invalid boolean %q", v)
		}
	}

	return cfg, nil
}

// Schema returns the field-length schema: the contents of SchemaFile when
// set, otherwise a schema limiting the name to MaxNameLength runes.
// The name bound never exceeds validator.NameColumnWidth.
func (c Config) Schema() (validator.Schema, error) {
	if c.SchemaFile != "" {
		return validator.LoadSchema(c.SchemaFile)
	}
	s := validator.Schema{validator.FieldName: c.MaxNameLength}
	if err := s.Verify(); err != nil {
		return nil, fmt.Errorf("config.Config.Schema: %w", err)
	}
	return s, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getInt64 parses a positive integer variable, or returns fallback when unset.
func getInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s: must be a positive integer, got %q", key, v)
	}
	return n, nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
