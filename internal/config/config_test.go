package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("POSTS_DATABASE__DRIVER", "memory")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Primary.Env)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.Database.IsMemory())
	assert.False(t, cfg.Redis.Enabled())
	require.NotNil(t, cfg.Observability)
	assert.Equal(t, ServiceName, cfg.Observability.ServiceName)
	assert.Equal(t, "development", cfg.Observability.Environment)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("POSTS_PRIMARY__ENV", "production")
	t.Setenv("POSTS_SERVER__PORT", "9090")
	t.Setenv("POSTS_DATABASE__HOST", "db.internal")
	t.Setenv("POSTS_DATABASE__PORT", "6543")
	t.Setenv("POSTS_DATABASE__SSL_MODE", "require")
	t.Setenv("POSTS_REDIS__ADDRESS", "redis:6379")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Primary.Env)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "require", cfg.Database.SSLMode)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "production", cfg.Observability.Environment)
	assert.True(t, cfg.Observability.IsProduction())
}

func TestLoadConfigSplitsLists(t *testing.T) {
	t.Setenv("POSTS_DATABASE__DRIVER", "memory")
	t.Setenv("POSTS_SERVER__CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("POSTS_OBSERVABILITY__HEALTH_CHECKS__CHECKS", "database,redis")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, []string{"database", "redis"}, cfg.Observability.HealthChecks.Checks)
	assert.True(t, cfg.Observability.HealthChecks.Runs("database"))
	assert.True(t, cfg.Observability.HealthChecks.Runs("redis"))
}

func TestLoadConfigSingleListValue(t *testing.T) {
	t.Setenv("POSTS_DATABASE__DRIVER", "memory")
	t.Setenv("POSTS_OBSERVABILITY__HEALTH_CHECKS__CHECKS", "database")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"database"}, cfg.Observability.HealthChecks.Checks)
	assert.False(t, cfg.Observability.HealthChecks.Runs("redis"))
}

func TestLoadConfigKeepsObservabilityDefaults(t *testing.T) {
	t.Setenv("POSTS_DATABASE__DRIVER", "memory")
	t.Setenv("POSTS_OBSERVABILITY__LOGGING__LEVEL", "warn")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	defaults := DefaultObservabilityConfig()
	assert.Equal(t, "warn", cfg.Observability.Logging.Level)
	assert.Equal(t, defaults.Logging.Format, cfg.Observability.Logging.Format)
	assert.Equal(t, defaults.Logging.SlowQueryThreshold, cfg.Observability.Logging.SlowQueryThreshold)
	assert.Equal(t, defaults.HealthChecks, cfg.Observability.HealthChecks)
}

func TestEnvValue(t *testing.T) {
	key, value := envValue("POSTS_SERVER__PORT", "9090")
	assert.Equal(t, "server.port", key)
	assert.Equal(t, "9090", value)

	key, value = envValue("POSTS_SERVER__CORS_ALLOWED_ORIGINS", " https://a.example,,https://b.example ")
	assert.Equal(t, "server.cors_allowed_origins", key)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, value)
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	t.Setenv("POSTS_DATABASE__DRIVER", "sqlite")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestConfigValidatePostgresRequiresHost(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Database.Host = ""

	assert.Error(t, cfg.Validate())

	cfg.Database.Driver = DriverMemory
	assert.NoError(t, cfg.Validate())
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "server.port", envKey("POSTS_SERVER__PORT"))
	assert.Equal(t, "database.ssl_mode", envKey("POSTS_DATABASE__SSL_MODE"))
	assert.Equal(t, "observability.logging.level", envKey("POSTS_OBSERVABILITY__LOGGING__LEVEL"))
}

func TestObservabilityValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *ObservabilityConfig)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *ObservabilityConfig) {}},
		{name: "bad level", mutate: func(c *ObservabilityConfig) { c.Logging.Level = "verbose" }, wantErr: true},
		{name: "bad format", mutate: func(c *ObservabilityConfig) { c.Logging.Format = "xml" }, wantErr: true},
		{name: "negative threshold", mutate: func(c *ObservabilityConfig) { c.Logging.SlowQueryThreshold = -time.Second }, wantErr: true},
		{name: "short health timeout", mutate: func(c *ObservabilityConfig) { c.HealthChecks.Timeout = time.Millisecond }, wantErr: true},
		{name: "short timeout with checks disabled", mutate: func(c *ObservabilityConfig) {
			c.HealthChecks.Enabled = false
			c.HealthChecks.Timeout = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultObservabilityConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetLogLevelDefaultsByEnvironment(t *testing.T) {
	c := DefaultObservabilityConfig()
	c.Logging.Level = ""

	c.Environment = "production"
	assert.Equal(t, "info", c.GetLogLevel())

	c.Environment = "local"
	assert.Equal(t, "debug", c.GetLogLevel())
}

func TestHealthChecksRuns(t *testing.T) {
	h := HealthChecksConfig{Enabled: true, Checks: []string{"database"}}
	assert.True(t, h.Runs("database"))
	assert.False(t, h.Runs("redis"))

	h.Enabled = false
	assert.False(t, h.Runs("database"))
}
