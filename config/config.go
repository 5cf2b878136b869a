// Package config provides unified configuration loading for rtmlink
// applications: defaults, YAML file, then environment variable overrides.
//
// Usage:
//
//	cfg, err := config.NewLoader().
//	    WithConfigPath("rtmlink.yaml").
//	    WithEnvPrefix("RTMLINK").
//	    Load()
package config

import (
	"fmt"
	"strings"
)

// Config is the complete configuration for an rtmlink application.
type Config struct {
	// Gateway configures the endpoint-issuing RPC collaborator.
	Gateway GatewayConfig `yaml:"gateway" env:"GATEWAY"`

	// Stream configures the streaming connection itself.
	Stream StreamConfig `yaml:"stream" env:"STREAM"`

	// Log configures zap logger construction.
	Log LogConfig `yaml:"log" env:"LOG"`

	// Telemetry configures the OpenTelemetry SDK.
	Telemetry TelemetryConfig `yaml:"telemetry" env:"TELEMETRY"`
}

// GatewayConfig configures the gateway client.
type GatewayConfig struct {
	// Gateway root URL
	BaseURL string `yaml:"base_url" env:"BASE_URL"`
	// Bearer token presented on every call
	Token string `yaml:"token" env:"TOKEN"`
	// Per-request timeout
	Timeout Duration `yaml:"timeout" env:"TIMEOUT"`
	// Outbound request rate limit
	RequestsPerSecond float64 `yaml:"requests_per_second" env:"REQUESTS_PER_SECOND"`
	// Limiter burst size
	Burst int `yaml:"burst" env:"BURST"`
}

// StreamConfig configures the streaming client.
type StreamConfig struct {
	// Fixed read buffer size in bytes, at least 1
	ReadBufferSize int `yaml:"read_buffer_size" env:"READ_BUFFER_SIZE"`
	// Handshake bound; negative means unbounded
	ConnectTimeout Duration `yaml:"connect_timeout" env:"CONNECT_TIMEOUT"`
	// Cap on one reassembled logical message
	MaxMessageSize int `yaml:"max_message_size" env:"MAX_MESSAGE_SIZE"`
	// Prometheus namespace for the client instruments
	MetricsNamespace string `yaml:"metrics_namespace" env:"METRICS_NAMESPACE"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level: debug, info, warn, error
	Level string `yaml:"level" env:"LEVEL"`
	// Format: json, console
	Format string `yaml:"format" env:"FORMAT"`
	// Output paths
	OutputPaths []string `yaml:"output_paths" env:"OUTPUT_PATHS"`
}

// TelemetryConfig configures the OpenTelemetry SDK.
type TelemetryConfig struct {
	// Enabled toggles SDK initialization
	Enabled bool `yaml:"enabled" env:"ENABLED"`
	// OTLP gRPC endpoint
	OTLPEndpoint string `yaml:"otlp_endpoint" env:"OTLP_ENDPOINT"`
	// Reported service name
	ServiceName string `yaml:"service_name" env:"SERVICE_NAME"`
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	var errs []string

	if c.Gateway.BaseURL == "" {
		errs = append(errs, "gateway base_url is required")
	}
	if c.Gateway.RequestsPerSecond < 0 {
		errs = append(errs, "gateway requests_per_second must not be negative")
	}
	if c.Stream.ReadBufferSize < 1 {
		errs = append(errs, "stream read_buffer_size must be at least 1")
	}
	if c.Stream.MaxMessageSize < c.Stream.ReadBufferSize {
		errs = append(errs, "stream max_message_size must be at least read_buffer_size")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors: %s", strings.Join(errs, "; "))
	}
	return nil
}
