package configs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fg-stock-dashboard/api/internal/infrastructure/env"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	ErrInvalidPort    = errors.New("http port must be between 1 and 65535")
	ErrInvalidTimeout = errors.New("http timeouts must be positive")
	ErrNoOrigins      = errors.New("cors allow_origins must not be empty")
	ErrNoMethods      = errors.New("cors allow_methods must not be empty")
	ErrUnknownLogger  = errors.New("logger must be one of [zap, zerolog]")
	ErrSampleRatio    = errors.New("tracing sample_ratio must be within [0, 1]")
)

type Config struct {
	HTTP    HTTPConfig    `koanf:"http"`
	Cors    CorsConfig    `koanf:"cors"`
	Logger  LoggerConfig  `koanf:"logger"`
	Tracing TracingConfig `koanf:"tracing"`
	Metrics MetricsConfig `koanf:"metrics"`
}

type HTTPConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type CorsConfig struct {
	AllowOrigins     []string `koanf:"allow_origins"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	AllowMethods     []string `koanf:"allow_methods"`
	AllowHeaders     []string `koanf:"allow_headers"`
	ExposeHeaders    []string `koanf:"expose_headers"`
	MaxAge           int      `koanf:"max_age"`
}

type LoggerConfig struct {
	Logger   string `koanf:"logger"`
	Encoding string `koanf:"encoding"`
	Level    string `koanf:"level"`
	FilePath string `koanf:"file_path"`
}

type TracingConfig struct {
	Enabled     bool    `koanf:"enabled"`
	ServiceName string  `koanf:"service_name"`
	Environment string  `koanf:"environment"`
	Endpoint    string  `koanf:"endpoint"`
	SampleRatio float64 `koanf:"sample_ratio"`
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	applyDefaults(k)
	if err := applyEnvOverrides(k); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		return fmt.Errorf("%w: got %d", ErrInvalidPort, c.HTTP.Port)
	}
	if c.HTTP.ReadTimeout <= 0 || c.HTTP.WriteTimeout <= 0 || c.HTTP.ShutdownTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if len(c.Cors.AllowOrigins) == 0 {
		return ErrNoOrigins
	}
	if len(c.Cors.AllowMethods) == 0 {
		return ErrNoMethods
	}
	switch c.Logger.Logger {
	case "zap", "zerolog":
	default:
		return fmt.Errorf("%w: got %q", ErrUnknownLogger, c.Logger.Logger)
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return ErrSampleRatio
	}

	return nil
}

func applyDefaults(k *koanf.Koanf) {
	// HTTP defaults
	setDefault(k, "http.host", "0.0.0.0")
	setDefault(k, "http.port", 8000)
	setDefault(k, "http.read_timeout", 10*time.Second)
	setDefault(k, "http.write_timeout", 30*time.Second)
	setDefault(k, "http.idle_timeout", time.Minute)
	setDefault(k, "http.request_timeout", 60*time.Second)
	setDefault(k, "http.shutdown_timeout", 5*time.Second)

	// CORS defaults: any origin, credentials, any method, any header
	setDefault(k, "cors.allow_origins", []string{"*"})
	setDefault(k, "cors.allow_credentials", true)
	setDefault(k, "cors.allow_methods", []string{"*"})
	setDefault(k, "cors.allow_headers", []string{"*"})
	setDefault(k, "cors.expose_headers", []string{"X-Request-ID"})
	setDefault(k, "cors.max_age", 600)

	setDefault(k, "logger.logger", "zap")
	setDefault(k, "logger.encoding", "json")
	setDefault(k, "logger.level", "info")
	setDefault(k, "logger.file_path", "")

	setDefault(k, "tracing.enabled", false)
	setDefault(k, "tracing.service_name", "fg-stock-dashboard-api")
	setDefault(k, "tracing.environment", "development")
	setDefault(k, "tracing.endpoint", "http://localhost:4318/v1/traces")
	setDefault(k, "tracing.sample_ratio", 1.0)

	setDefault(k, "metrics.enabled", true)
	setDefault(k, "metrics.path", "/metrics")
}

func applyEnvOverrides(k *koanf.Koanf) error {
	// HTTP config from env
	if host := env.GetString("HTTP_HOST", ""); host != "" {
		k.Set("http.host", host)
	}
	if raw := env.GetString("HTTP_PORT", ""); raw != "" {
		port, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%w: HTTP_PORT=%q", ErrInvalidPort, raw)
		}
		k.Set("http.port", port)
	}
	if readTimeout := env.GetInt("HTTP_READ_TIMEOUT_SECONDS", 0); readTimeout > 0 {
		k.Set("http.read_timeout", time.Duration(readTimeout)*time.Second)
	}
	if writeTimeout := env.GetInt("HTTP_WRITE_TIMEOUT_SECONDS", 0); writeTimeout > 0 {
		k.Set("http.write_timeout", time.Duration(writeTimeout)*time.Second)
	}
	if idleTimeout := env.GetDuration("HTTP_IDLE_TIMEOUT", 0); idleTimeout > 0 {
		k.Set("http.idle_timeout", idleTimeout)
	}
	if requestTimeout := env.GetDuration("HTTP_REQUEST_TIMEOUT", 0); requestTimeout > 0 {
		k.Set("http.request_timeout", requestTimeout)
	}
	if shutdownTimeout := env.GetDuration("HTTP_SHUTDOWN_TIMEOUT", 0); shutdownTimeout > 0 {
		k.Set("http.shutdown_timeout", shutdownTimeout)
	}

	// CORS config from env
	if origins := env.GetStringSlice("CORS_ALLOW_ORIGINS", nil); len(origins) > 0 {
		k.Set("cors.allow_origins", origins)
	}
	if creds := env.GetString("CORS_ALLOW_CREDENTIALS", ""); creds != "" {
		k.Set("cors.allow_credentials", env.GetBool("CORS_ALLOW_CREDENTIALS", true))
	}

	// Logger config from env
	if logger := env.GetString("LOGGER_LOGGER", ""); logger != "" {
		k.Set("logger.logger", logger)
	}
	if level := env.GetString("LOGGER_LEVEL", ""); level != "" {
		k.Set("logger.level", level)
	}
	if encoding := env.GetString("LOGGER_ENCODING", ""); encoding != "" {
		k.Set("logger.encoding", encoding)
	}
	if filePath := env.GetString("LOGGER_FILE_PATH", ""); filePath != "" {
		k.Set("logger.file_path", filePath)
	}

	// Tracing config from env
	if enabled := env.GetString("TRACING_ENABLED", ""); enabled != "" {
		k.Set("tracing.enabled", env.GetBool("TRACING_ENABLED", false))
	}
	if endpoint := env.GetString("TRACING_ENDPOINT", ""); endpoint != "" {
		k.Set("tracing.endpoint", endpoint)
	}
	if environment := env.GetString("ENVIRONMENT", ""); environment != "" {
		k.Set("tracing.environment", environment)
	}

	if enabled := env.GetString("METRICS_ENABLED", ""); enabled != "" {
		k.Set("metrics.enabled", env.GetBool("METRICS_ENABLED", true))
	}

	return nil
}

// setDefault only sets the value if the key doesn't already exist
func setDefault(k *koanf.Koanf, key string, value any) {
	if !k.Exists(key) {
		k.Set(key, value)
	}
}
