package transport

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/AtDexters-Lab/nexus-peer-client/internal/auth"
	"github.com/AtDexters-Lab/nexus-peer-client/internal/config"
	"github.com/AtDexters-Lab/nexus-peer-client/internal/iface"
	"github.com/AtDexters-Lab/nexus-peer-client/internal/protocol"
)

const keepAlivePeriod = 30 * time.Second

// TCPDialer opens plain TCP connections.
type TCPDialer struct {
	Timeout   time.Duration
	KeepAlive time.Duration
}

// Dial connects to addr over TCP, bounded by ctx and Timeout.
func (d TCPDialer) Dial(ctx context.Context, addr string) (net.Conn, error) {
	nd := net.Dialer{Timeout: d.Timeout, KeepAlive: d.KeepAlive}
	return nd.DialContext(ctx, "tcp", addr)
}

// New builds the dialer selected by cfg.Transport.
func New(cfg *config.Config) (iface.Dialer, error) {
	switch cfg.Transport {
	case "", config.TransportTCP:
		return TCPDialer{Timeout: cfg.ConnectTimeout(), KeepAlive: keepAlivePeriod}, nil

	case config.TransportWebSocket:
		d := &WebSocketDialer{
			Path:    cfg.WebSocket.Path,
			Timeout: cfg.ConnectTimeout(),
		}
		if cfg.WebSocket.TokenSecret != "" {
			secret := []byte(cfg.WebSocket.TokenSecret)
			clientID, peer, ttl := cfg.ClientID, cfg.PeerID, cfg.TokenTTL()
			d.Token = func() (string, error) {
				return auth.NewToken(secret, clientID, peer, ttl)
			}
		}
		return d, nil

	default:
		return nil, protocol.NewError(protocol.KindSocketInit, "select transport",
			fmt.Errorf("unknown transport %q", cfg.Transport))
	}
}
