// Package config loads the reading tracker configuration from built-in
// defaults, an optional YAML file and environment variables, in that order
// of increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar names the environment variable that points at a YAML file.
const ConfigPathEnvVar = "CONFIG_PATH"

// Identity provider modes.
const (
	IdentityGoTrue = "gotrue"
	IdentityJWT    = "jwt"
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	DB       DBConfig       `koanf:"db"`
	Identity IdentityConfig `koanf:"identity"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Environment     string        `koanf:"environment"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	// StrictNotFound makes PATCH and DELETE answer 404 when no owned book
	// matched. Off by default: those requests succeed as no-ops.
	StrictNotFound bool `koanf:"strict_not_found"`
}

// DBConfig selects and tunes the book store.
type DBConfig struct {
	Driver       string        `koanf:"driver"`
	DSN          string        `koanf:"dsn"`
	MaxOpenConns int           `koanf:"max_open_conns"`
	MaxIdleConns int           `koanf:"max_idle_conns"`
	MaxIdleTime  time.Duration `koanf:"max_idle_time"`
	Migrate      bool          `koanf:"migrate"`
}

// IdentityConfig configures how bearer tokens are resolved.
type IdentityConfig struct {
	Mode        string        `koanf:"mode"`
	URL         string        `koanf:"url"`
	ServiceKey  string        `koanf:"service_key"`
	JWTSecret   string        `koanf:"jwt_secret"`
	JWTAudience string        `koanf:"jwt_audience"`
	Timeout     time.Duration `koanf:"timeout"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            4000,
			Environment:     "development",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     time.Minute,
			ShutdownTimeout: 20 * time.Second,
			CORSOrigins:     []string{"*"},
			StrictNotFound:  false,
		},
		DB: DBConfig{
			Driver:       DriverPostgres,
			DSN:          "",
			MaxOpenConns: 25,
			MaxIdleConns: 25,
			MaxIdleTime:  15 * time.Minute,
			Migrate:      false,
		},
		Identity: IdentityConfig{
			Mode:        IdentityGoTrue,
			JWTAudience: "authenticated",
			Timeout:     10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
var envMappings = map[string]string{
	"port":                      "server.port",
	"env":                       "server.environment",
	"cors_origins":              "server.cors_origins",
	"strict_not_found":          "server.strict_not_found",
	"db_driver":                 "db.driver",
	"database_url":              "db.dsn",
	"db_dsn":                    "db.dsn",
	"db_max_open_conns":         "db.max_open_conns",
	"db_max_idle_conns":         "db.max_idle_conns",
	"db_max_idle_time":          "db.max_idle_time",
	"db_migrate":                "db.migrate",
	"identity_mode":             "identity.mode",
	"supabase_url":              "identity.url",
	"next_public_supabase_url":  "identity.url",
	"supabase_service_role_key": "identity.service_key",
	"supabase_jwt_secret":       "identity.jwt_secret",
	"supabase_jwt_audience":     "identity.jwt_audience",
	"identity_timeout":          "identity.timeout",
	"log_level":                 "logging.level",
	"log_format":                "logging.format",
}

var sliceConfigPaths = []string{"server.cors_origins"}

// Load builds the configuration. path names an optional YAML file; when it
// is empty CONFIG_PATH is consulted. A named file that does not exist is an
// error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = os.Getenv(ConfigPathEnvVar)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

// envTransformFunc maps known variables to config paths and skips the rest.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// processSliceFields splits comma separated env values into slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// Validate reports every missing or inconsistent setting.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}

	switch c.DB.Driver {
	case DriverPostgres:
		if c.DB.DSN == "" {
			errs = append(errs, errors.New("db.dsn (DATABASE_URL) is required for the postgres driver"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("db.driver %q must be %s or %s", c.DB.Driver, DriverPostgres, DriverMemory))
	}

	switch c.Identity.Mode {
	case IdentityGoTrue:
		if c.Identity.URL == "" || c.Identity.ServiceKey == "" {
			errs = append(errs, errors.New("missing SUPABASE_URL or SUPABASE_SERVICE_ROLE_KEY"))
		}
	case IdentityJWT:
		if c.Identity.JWTSecret == "" {
			errs = append(errs, errors.New("missing SUPABASE_JWT_SECRET"))
		}
	default:
		errs = append(errs, fmt.Errorf("identity.mode %q must be %s or %s", c.Identity.Mode, IdentityGoTrue, IdentityJWT))
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q must be text or json", c.Logging.Format))
	}

	return errors.Join(errs...)
}
