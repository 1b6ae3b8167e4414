package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

const (
	TransportTCP       = "tcp"
	TransportWebSocket = "websocket"
)

// WebSocket holds settings used only by the websocket transport.
type WebSocket struct {
	Path            string `yaml:"path" toml:"path"`
	TokenSecret     string `yaml:"tokenSecret" toml:"tokenSecret"`
	TokenTTLSeconds int    `yaml:"tokenTTLSeconds" toml:"tokenTTLSeconds"`
}

// Config holds the client configuration, loaded from a YAML or TOML file.
type Config struct {
	ServerAddress string `yaml:"serverAddress" toml:"serverAddress"`
	Transport     string `yaml:"transport" toml:"transport"`

	ClientID string `yaml:"clientId" toml:"clientId"`
	PeerID   string `yaml:"peerId" toml:"peerId"`

	ReconnectDelaySeconds float64 `yaml:"reconnectDelaySeconds" toml:"reconnectDelaySeconds"`
	// MaxConnectAttempts caps the connect retry loop. Zero retries forever.
	MaxConnectAttempts    int     `yaml:"maxConnectAttempts" toml:"maxConnectAttempts"`
	ConnectTimeoutSeconds float64 `yaml:"connectTimeoutSeconds" toml:"connectTimeoutSeconds"`
	MaxPayloadBytes       uint32  `yaml:"maxPayloadBytes" toml:"maxPayloadBytes"`
	SendIntervalSeconds   float64 `yaml:"sendIntervalSeconds" toml:"sendIntervalSeconds"`

	LogLevel             string `yaml:"logLevel" toml:"logLevel"`
	MetricsListenAddress string `yaml:"metricsListenAddress" toml:"metricsListenAddress"`

	WebSocket WebSocket `yaml:"websocket" toml:"websocket"`
}

// Default returns a configuration pointing at a coordinating server on the
// loopback interface.
func Default() *Config {
	return &Config{
		ServerAddress:         "127.0.0.1:5050",
		Transport:             TransportTCP,
		ReconnectDelaySeconds: 2,
		ConnectTimeoutSeconds: 5,
		MaxPayloadBytes:       64 * 1024,
		SendIntervalSeconds:   4,
		LogLevel:              "info",
		WebSocket: WebSocket{
			Path:            "/connect",
			TokenTTLSeconds: 300,
		},
	}
}

// ReconnectDelay returns the fixed wait between connect attempts.
func (c *Config) ReconnectDelay() time.Duration {
	return seconds(c.ReconnectDelaySeconds)
}

// ConnectTimeout returns the per-attempt dial timeout.
func (c *Config) ConnectTimeout() time.Duration {
	return seconds(c.ConnectTimeoutSeconds)
}

// SendInterval returns the pause between periodic sends in the CLI.
func (c *Config) SendInterval() time.Duration {
	return seconds(c.SendIntervalSeconds)
}

// TokenTTL returns the lifetime of websocket bearer tokens.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.WebSocket.TokenTTLSeconds) * time.Second
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs *multierror.Error

	if strings.TrimSpace(c.ServerAddress) == "" {
		errs = multierror.Append(errs, fmt.Errorf("serverAddress must be set"))
	}
	switch c.Transport {
	case TransportTCP:
	case TransportWebSocket:
		if !strings.HasPrefix(c.WebSocket.Path, "/") {
			errs = multierror.Append(errs, fmt.Errorf("websocket.path must start with '/'"))
		}
		if c.WebSocket.TokenSecret != "" && c.WebSocket.TokenTTLSeconds <= 0 {
			errs = multierror.Append(errs, fmt.Errorf("websocket.tokenTTLSeconds must be positive when tokenSecret is set"))
		}
	default:
		errs = multierror.Append(errs, fmt.Errorf("unknown transport %q", c.Transport))
	}
	if c.PeerID != "" && c.ClientID == "" {
		errs = multierror.Append(errs, fmt.Errorf("peerId requires clientId"))
	}
	if c.ReconnectDelaySeconds < 0 {
		errs = multierror.Append(errs, fmt.Errorf("reconnectDelaySeconds cannot be negative"))
	}
	if c.MaxConnectAttempts < 0 {
		errs = multierror.Append(errs, fmt.Errorf("maxConnectAttempts cannot be negative"))
	}
	if c.ConnectTimeoutSeconds < 0 {
		errs = multierror.Append(errs, fmt.Errorf("connectTimeoutSeconds cannot be negative"))
	}
	if c.MaxPayloadBytes == 0 {
		errs = multierror.Append(errs, fmt.Errorf("maxPayloadBytes must be positive"))
	}
	if c.SendIntervalSeconds <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("sendIntervalSeconds must be positive"))
	}

	return errs.ErrorOrNil()
}

// LoadConfig reads the configuration from the given file path on top of
// Default, unmarshals it, and performs validation. Files ending in .toml are
// parsed as TOML, everything else as YAML.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file at %s: %w", path, err)
	}

	cfg := Default()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal toml from %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal yaml from %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}
