package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds all configuration for the CLI.
type Config struct {
	// Credentials
	Username string `envconfig:"POSTNL_USERNAME"`
	Password string `envconfig:"POSTNL_PASSWORD"`

	// Provider
	BaseURL string `envconfig:"POSTNL_BASE_URL" default:"https://jouw.postnl.nl"`
	UseMock bool   `envconfig:"POSTNL_USE_MOCK" default:"false"`

	// Captured bot-detection payload sent during the login handshake.
	SensorData string `envconfig:"POSTNL_SENSOR_DATA"`

	// Token cache file; empty disables caching.
	TokenFile string `envconfig:"POSTNL_TOKEN_FILE"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"postnl-cli"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that credentials are present unless the mock API is used.
func (c *Config) Validate() error {
	if c.UseMock {
		return nil
	}
	if c.Username == "" || c.Password == "" {
		return fmt.Errorf("POSTNL_USERNAME and POSTNL_PASSWORD must be set")
	}
	return nil
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.Bool("postnl.use_mock", c.UseMock),
	}
}
