// Package config loads Proxasaurus configuration from TOML files with
// environment overrides.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/proxasaurus/proxasaurus/internal/common"
)

// Config holds all Proxasaurus configuration.
type Config struct {
	Server   ServerConfig         `toml:"server"`
	PegaProx PegaProxConfig       `toml:"pegaprox"`
	Kube     KubeConfig           `toml:"kubernetes"`
	Logging  common.LoggingConfig `toml:"logging"`
}

// ServerConfig holds MCP server settings.
type ServerConfig struct {
	Name      string `toml:"name"`
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
	Transport string `toml:"transport"` // "stdio", "sse", or "http"
}

// Addr returns the host:port bind address for network transports.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// PegaProxConfig holds upstream PegaProx API settings.
type PegaProxConfig struct {
	BaseURL  string `toml:"base_url"`
	APIToken string `toml:"api_token"`
	Timeout  string `toml:"timeout"`
}

// KubeConfig holds Kubernetes tool settings.
type KubeConfig struct {
	Kubeconfig string `toml:"kubeconfig"`
	Enabled    bool   `toml:"enabled"`
}

// Load loads configuration with priority: defaults -> file -> env.
// A missing file is not an error; the defaults plus environment apply.
func Load(path string) (*Config, error) {
	cfg := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		} else if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if u := os.Getenv("PEGAPROX_BASE_URL"); u != "" {
		cfg.PegaProx.BaseURL = u
	}
	if tok := os.Getenv("PEGAPROX_API_TOKEN"); tok != "" {
		cfg.PegaProx.APIToken = tok
	}
	if host := os.Getenv("PROXASAURUS_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if port := os.Getenv("PROXASAURUS_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if tr := os.Getenv("PROXASAURUS_TRANSPORT"); tr != "" {
		cfg.Server.Transport = tr
	}
	if level := os.Getenv("PROXASAURUS_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if kc := os.Getenv("KUBECONFIG"); kc != "" {
		cfg.Kube.Kubeconfig = kc
	}
}

// Validate checks the configuration for startup-fatal errors: a missing
// API token or an unparseable base URL must refuse to start rather than
// surface as runtime tool errors.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.PegaProx.APIToken) == "" {
		return fmt.Errorf("pegaprox.api_token is required (set PEGAPROX_API_TOKEN)")
	}

	u, err := url.Parse(c.PegaProx.BaseURL)
	if err != nil {
		return fmt.Errorf("pegaprox.base_url %q is not a valid URL: %w", c.PegaProx.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("pegaprox.base_url %q must use http or https", c.PegaProx.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("pegaprox.base_url %q has no host", c.PegaProx.BaseURL)
	}

	switch c.Server.Transport {
	case "stdio", "sse", "http":
	default:
		return fmt.Errorf("server.transport %q must be one of stdio, sse, http", c.Server.Transport)
	}

	return nil
}
