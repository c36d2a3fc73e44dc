package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, 20*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.False(t, cfg.Server.StrictNotFound)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, IdentityGoTrue, cfg.Identity.Mode)
	assert.Equal(t, "authenticated", cfg.Identity.JWTAudience)
	assert.Equal(t, 10*time.Second, cfg.Identity.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_EnvironmentAliases(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("NEXT_PUBLIC_SUPABASE_URL", "https://project.supabase.co")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "service-role")
	t.Setenv("DATABASE_URL", "postgres://localhost/books")
	t.Setenv("PORT", "8080")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("IDENTITY_TIMEOUT", "3s")
	t.Setenv("STRICT_NOT_FOUND", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://project.supabase.co", cfg.Identity.URL)
	assert.Equal(t, "service-role", cfg.Identity.ServiceKey)
	assert.Equal(t, "postgres://localhost/books", cfg.DB.DSN)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 3*time.Second, cfg.Identity.Timeout)
	assert.True(t, cfg.Server.StrictNotFound)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 5000
  environment: staging
db:
  driver: memory
identity:
  mode: jwt
  jwt_secret: from-file
logging:
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("SUPABASE_JWT_SECRET", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "staging", cfg.Server.Environment)
	assert.Equal(t, DriverMemory, cfg.DB.Driver)
	assert.Equal(t, IdentityJWT, cfg.Identity.Mode)
	assert.Equal(t, "from-env", cfg.Identity.JWTSecret)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		cfg.DB.DSN = "postgres://localhost/books"
		cfg.Identity.URL = "https://project.supabase.co"
		cfg.Identity.ServiceKey = "key"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing supabase url", func(c *Config) { c.Identity.URL = "" }, "SUPABASE_URL"},
		{"missing service key", func(c *Config) { c.Identity.ServiceKey = "" }, "SUPABASE_SERVICE_ROLE_KEY"},
		{"jwt without secret", func(c *Config) { c.Identity.Mode = IdentityJWT }, "SUPABASE_JWT_SECRET"},
		{"unknown identity mode", func(c *Config) { c.Identity.Mode = "magic" }, "identity.mode"},
		{"postgres without dsn", func(c *Config) { c.DB.DSN = "" }, "db.dsn"},
		{"memory without dsn", func(c *Config) { c.DB.Driver = DriverMemory; c.DB.DSN = "" }, ""},
		{"unknown driver", func(c *Config) { c.DB.Driver = "mongo" }, "db.driver"},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
