package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	pkgconfig "github.com/eximroyals/storefront/pkg/config"
)

const defaultSessionSecret = "change-me-storefront-session-secret"

// Config holds all configuration for the storefront.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"3000"`

	// Catalog API
	APIBaseURL   string        `env:"API_BASE_URL" envDefault:"http://localhost:8080/api"`
	MediaBaseURL string        `env:"MEDIA_BASE_URL" envDefault:"http://localhost:8080"`
	APITimeout   time.Duration `env:"API_TIMEOUT" envDefault:"10s"`

	// Circuit breaker around the catalog API
	BreakerTimeout      time.Duration `env:"API_BREAKER_OPEN_TIMEOUT" envDefault:"30s"`
	BreakerFailureRatio float64       `env:"API_BREAKER_FAILURE_RATIO" envDefault:"0.5"`
	BreakerMinRequests  uint32        `env:"API_BREAKER_MIN_REQUESTS" envDefault:"5"`

	// Page rendering
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`

	// Admin sessions
	SessionSecret string        `env:"SESSION_SECRET" envDefault:"change-me-storefront-session-secret"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"12h"`
	SessionStore  string        `env:"SESSION_STORE" envDefault:"memory"`
	CookieSecure  bool          `env:"COOKIE_SECURE" envDefault:"false"`

	// Redis (SESSION_STORE=redis)
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Form throttling per client IP
	FormRatePerMinute int `env:"FORM_RATE_PER_MINUTE" envDefault:"10"`
	FormRateBurst     int `env:"FORM_RATE_BURST" envDefault:"5"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// /metrics and pprof are only served to these networks
	MetricsAllowedCIDRs []string `env:"METRICS_ALLOWED_CIDRS" envDefault:"10.0.0.0/8,172.16.0.0/12,192.168.0.0/16,127.0.0.0/8,::1/128" envSeparator:","`
	PprofEnabled        bool     `env:"PPROF_ENABLED" envDefault:"false"`

	// Reverse proxies whose X-Forwarded-For is believed by the form rate limiter
	TrustedProxyCIDRs []string `env:"TRUSTED_PROXY_CIDRS" envSeparator:","`

	// Slow Redis command logging
	SlowCommandThresholdMs int `env:"LOG_SLOW_REDIS_MS" envDefault:"100"`
}

// Load reads configuration from environment variables, after loading an
// optional .env file from the working directory.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.LoadWithDotenv(cfg, ".env"); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if err := validateBaseURL("API_BASE_URL", c.APIBaseURL); err != nil {
		return err
	}
	if err := validateBaseURL("MEDIA_BASE_URL", c.MediaBaseURL); err != nil {
		return err
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive, got %s", c.APITimeout)
	}
	if c.BreakerFailureRatio <= 0 || c.BreakerFailureRatio > 1.0 {
		return fmt.Errorf("API_BREAKER_FAILURE_RATIO must be in (0, 1], got %f", c.BreakerFailureRatio)
	}
	if c.SessionStore != "memory" && c.SessionStore != "redis" {
		return fmt.Errorf("SESSION_STORE must be memory or redis, got %q", c.SessionStore)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if !c.IsDevelopment() && c.SessionSecret == defaultSessionSecret {
		return fmt.Errorf("SESSION_SECRET must be changed from default value in %s environment", c.Environment)
	}
	if len(c.SessionSecret) < 16 {
		return fmt.Errorf("SESSION_SECRET must be at least 16 characters")
	}
	if c.FormRatePerMinute < 1 || c.FormRateBurst < 1 {
		return fmt.Errorf("FORM_RATE_PER_MINUTE and FORM_RATE_BURST must be positive")
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	return nil
}

func validateBaseURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", name, raw)
	}
	return nil
}

// APIBase returns API_BASE_URL without a trailing slash.
func (c *Config) APIBase() string {
	return strings.TrimRight(c.APIBaseURL, "/")
}

// MediaBase returns MEDIA_BASE_URL without a trailing slash.
func (c *Config) MediaBase() string {
	return strings.TrimRight(c.MediaBaseURL, "/")
}

// IsDevelopment reports whether the storefront runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
