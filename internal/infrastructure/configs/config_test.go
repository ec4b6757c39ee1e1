package configs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, 8000, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:8000", cfg.HTTP.Addr())
	assert.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.HTTP.WriteTimeout)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ShutdownTimeout)

	assert.Equal(t, []string{"*"}, cfg.Cors.AllowOrigins)
	assert.True(t, cfg.Cors.AllowCredentials)
	assert.Equal(t, []string{"*"}, cfg.Cors.AllowMethods)
	assert.Equal(t, []string{"*"}, cfg.Cors.AllowHeaders)

	assert.Equal(t, "zap", cfg.Logger.Logger)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, "fg-stock-dashboard-api", cfg.Tracing.ServiceName)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
http:
  host: 127.0.0.1
  port: 9090
  read_timeout: 3s
cors:
  allow_origins:
    - https://dashboard.example.test
  allow_credentials: false
logger:
  logger: zerolog
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.HTTP.Addr())
	assert.Equal(t, 3*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.HTTP.WriteTimeout, "unset keys keep their defaults")
	assert.Equal(t, []string{"https://dashboard.example.test"}, cfg.Cors.AllowOrigins)
	assert.False(t, cfg.Cors.AllowCredentials)
	assert.Equal(t, []string{"*"}, cfg.Cors.AllowMethods)
	assert.Equal(t, "zerolog", cfg.Logger.Logger)
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
http:
  port: 9090
`)
	t.Setenv("HTTP_PORT", "9191")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.test,https://b.test")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "false")
	t.Setenv("LOGGER_LEVEL", "warn")
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.HTTP.Port)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.Cors.AllowOrigins)
	assert.False(t, cfg.Cors.AllowCredentials)
	assert.Equal(t, "warn", cfg.Logger.Level)
	assert.True(t, cfg.Tracing.Enabled)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_EnvDurations(t *testing.T) {
	t.Setenv("HTTP_IDLE_TIMEOUT", "90s")
	t.Setenv("HTTP_REQUEST_TIMEOUT", "15")
	t.Setenv("HTTP_SHUTDOWN_TIMEOUT", "2s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, cfg.HTTP.IdleTimeout)
	assert.Equal(t, 15*time.Second, cfg.HTTP.RequestTimeout)
	assert.Equal(t, 2*time.Second, cfg.HTTP.ShutdownTimeout)
}

func TestLoad_RejectsOutOfRangePort(t *testing.T) {
	t.Run("env above range", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "70000")

		_, err := Load("")
		assert.ErrorIs(t, err, ErrInvalidPort)
	})

	t.Run("env negative", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "-1")

		_, err := Load("")
		assert.ErrorIs(t, err, ErrInvalidPort)
	})

	t.Run("env not a number", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "eighty")

		_, err := Load("")
		assert.ErrorIs(t, err, ErrInvalidPort)
	})

	t.Run("file negative", func(t *testing.T) {
		path := writeConfig(t, `
http:
  port: -1
`)

		_, err := Load(path)
		assert.ErrorIs(t, err, ErrInvalidPort)
	})

	t.Run("file above range", func(t *testing.T) {
		path := writeConfig(t, `
http:
  port: 70000
`)

		_, err := Load(path)
		assert.ErrorIs(t, err, ErrInvalidPort)
	})
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config file")
}

func TestLoad_InvalidLogger(t *testing.T) {
	path := writeConfig(t, `
logger:
  logger: logrus
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownLogger)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return *cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero port", func(c *Config) { c.HTTP.Port = 0 }, ErrInvalidPort},
		{"negative port", func(c *Config) { c.HTTP.Port = -1 }, ErrInvalidPort},
		{"port above range", func(c *Config) { c.HTTP.Port = 70000 }, ErrInvalidPort},
		{"zero read timeout", func(c *Config) { c.HTTP.ReadTimeout = 0 }, ErrInvalidTimeout},
		{"no origins", func(c *Config) { c.Cors.AllowOrigins = nil }, ErrNoOrigins},
		{"no methods", func(c *Config) { c.Cors.AllowMethods = nil }, ErrNoMethods},
		{"sample ratio", func(c *Config) { c.Tracing.SampleRatio = 1.5 }, ErrSampleRatio},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}
}

func TestDetermineConfigPath(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		t.Setenv(configEnvKey, "/from/env.yaml")

		path, err := DetermineConfigPath([]string{"--config", "/from/flag.yaml"})
		require.NoError(t, err)
		assert.Equal(t, "/from/flag.yaml", path)
	})

	t.Run("env fallback", func(t *testing.T) {
		t.Setenv(configEnvKey, "/from/env.yaml")

		path, err := DetermineConfigPath(nil)
		require.NoError(t, err)
		assert.Equal(t, "/from/env.yaml", path)
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, err := DetermineConfigPath([]string{"--nope"})
		assert.Error(t, err)
	})
}

func TestCandidates_StayInWorkingDirOrAbsolute(t *testing.T) {
	for _, p := range candidates {
		assert.False(t, strings.HasPrefix(p, ".."), "candidate %q escapes the working directory", p)
		assert.True(t, filepath.IsAbs(p) || strings.HasPrefix(p, "./"), "candidate %q", p)
	}
}
