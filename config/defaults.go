package config

import "time"

// DefaultConfig returns the configuration used when no file or environment
// overrides are present.
func DefaultConfig() *Config {
	return &Config{
		Gateway: GatewayConfig{
			Timeout:           Duration(10 * time.Second),
			RequestsPerSecond: 1,
			Burst:             2,
		},
		Stream: StreamConfig{
			ReadBufferSize:   4096,
			ConnectTimeout:   Duration(30 * time.Second),
			MaxMessageSize:   4 << 20,
			MetricsNamespace: "rtmlink",
		},
		Log: LogConfig{
			Level:       "info",
			Format:      "json",
			OutputPaths: []string{"stdout"},
		},
		Telemetry: TelemetryConfig{
			Enabled:      false,
			OTLPEndpoint: "localhost:4317",
			ServiceName:  "rtmlink",
		},
	}
}
