package config

import (
	"time"

	"github.com/proxasaurus/proxasaurus/internal/common"
)

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:      "Proxasaurus",
			Host:      "0.0.0.0",
			Port:      5010,
			Transport: "sse",
		},
		PegaProx: PegaProxConfig{
			BaseURL: "http://localhost:5000",
			Timeout: "30s",
		},
		Kube: KubeConfig{
			Enabled: true,
		},
		Logging: common.LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console", "file"},
			FilePath:   "logs/proxasaurus.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}

// GetTimeout parses and returns the upstream request timeout duration.
func (c *PegaProxConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}
