package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 2*time.Second, cfg.ReconnectDelay())
	require.Equal(t, 4*time.Second, cfg.SendInterval())
	require.Zero(t, cfg.MaxConnectAttempts)
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeFile(t, "client.yaml", `
serverAddress: 10.0.0.2:6000
clientId: A
peerId: B
reconnectDelaySeconds: 0.5
maxConnectAttempts: 3
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "10.0.0.2:6000", cfg.ServerAddress)
	require.Equal(t, "A", cfg.ClientID)
	require.Equal(t, "B", cfg.PeerID)
	require.Equal(t, 500*time.Millisecond, cfg.ReconnectDelay())
	require.Equal(t, 3, cfg.MaxConnectAttempts)
	// Untouched keys keep their defaults.
	require.Equal(t, TransportTCP, cfg.Transport)
	require.Equal(t, uint32(64*1024), cfg.MaxPayloadBytes)
}

func TestLoadConfigTOML(t *testing.T) {
	path := writeFile(t, "client.toml", `
serverAddress = "ws.example.net:443"
transport = "websocket"

[websocket]
path = "/mesh"
tokenSecret = "s3cret"
tokenTTLSeconds = 60
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, TransportWebSocket, cfg.Transport)
	require.Equal(t, "/mesh", cfg.WebSocket.Path)
	require.Equal(t, time.Minute, cfg.TokenTTL())
}

func TestValidateAggregatesErrors(t *testing.T) {
	cfg := Default()
	cfg.ServerAddress = ""
	cfg.Transport = "carrier-pigeon"
	cfg.MaxConnectAttempts = -1
	cfg.PeerID = "B"

	err := cfg.Validate()
	require.Error(t, err)
	merr, ok := err.(*multierror.Error)
	require.True(t, ok)
	require.Len(t, merr.Errors, 4)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	path := writeFile(t, "bad.yaml", "transport: udp\n")
	_, err := LoadConfig(path)
	require.ErrorContains(t, err, "config validation failed")
}
