package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/AtDexters-Lab/nexus-peer-client/internal/config"
	"github.com/AtDexters-Lab/nexus-peer-client/internal/iface"
	"github.com/AtDexters-Lab/nexus-peer-client/internal/metrics"
	"github.com/AtDexters-Lab/nexus-peer-client/internal/protocol"
	"github.com/AtDexters-Lab/nexus-peer-client/internal/transport"
)

var (
	errAlreadyConnected = errors.New("client is already connected")
	errNotConnected     = errors.New("client is not connected")
)

// Client maintains a single connection to the coordinating server. It owns
// the transport and the session identity; the identity is changed either by
// Connect or by control messages arriving on the receive loop.
type Client struct {
	config   *config.Config
	dialer   iface.Dialer
	consumer iface.LabelConsumer
	metrics  *metrics.Metrics
	limits   protocol.Limits

	// connectMu serializes Connect and Disconnect.
	connectMu sync.Mutex

	// mu guards state, conn and dialCancel.
	mu    sync.Mutex
	state identity
	conn  *connection
	// dialCancel aborts the retry loop of an in-flight Connect.
	dialCancel context.CancelFunc

	// writeMu keeps the header and payload of one frame together on the wire.
	writeMu sync.Mutex
}

// Option customizes a Client.
type Option func(*Client)

// WithDialer replaces the transport selected from the configuration.
func WithDialer(d iface.Dialer) Option {
	return func(c *Client) { c.dialer = d }
}

// WithLabelConsumer sets the receiver of incoming label messages. By default
// they are logged.
func WithLabelConsumer(lc iface.LabelConsumer) Option {
	return func(c *Client) { c.consumer = lc }
}

// WithMetrics makes the client record into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a disconnected client with an empty identity.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client configuration: %w", err)
	}

	c := &Client{
		config:   cfg,
		consumer: iface.LabelConsumerFunc(logLabel),
		limits:   protocol.Limits{MaxPayload: cfg.MaxPayloadBytes},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.dialer == nil {
		d, err := transport.New(cfg)
		if err != nil {
			return nil, err
		}
		c.dialer = d
	}
	return c, nil
}

func logLabel(msg protocol.LabelMessage) {
	log.WithField("label", msg.Label).Info(msg.String())
}

// Connect dials the server, retrying every ReconnectDelay until it succeeds,
// ctx is cancelled, or MaxConnectAttempts (when non-zero) is exhausted.
//
// Once connected it starts the receive loop and, when clientID is given,
// announces it with /change_id, followed by /change_peer when peerID is also
// given. Those announcements are not acknowledged. Cancelling ctx later
// tears the session down like Disconnect.
func (c *Client) Connect(ctx context.Context, clientID, peerID string) error {
	c.connectMu.Lock()
	defer c.connectMu.Unlock()

	dialCtx, cancelDial := context.WithCancel(ctx)
	defer cancelDial()

	c.mu.Lock()
	if c.state.alive {
		c.mu.Unlock()
		return protocol.NewError(protocol.KindPrecondition, "connect", errAlreadyConnected)
	}
	prev := c.conn
	c.dialCancel = cancelDial
	c.mu.Unlock()

	// A previous session may still be unwinding its receive loop.
	if prev != nil {
		_ = prev.close()
		<-prev.done
	}
	c.setStatus(nil, Connecting)

	cn, err := c.dial(dialCtx)

	c.mu.Lock()
	c.dialCancel = nil
	if err != nil {
		c.state.status = Disconnected
		c.mu.Unlock()
		return err
	}
	c.conn = cn
	c.state.alive = true
	c.state.status = Connected
	if clientID != "" {
		c.state.clientID = clientID
		if peerID != "" {
			c.state.clientPeer = peerID
		}
	}
	c.mu.Unlock()
	c.metrics.SetAlive(true)

	logger := log.WithFields(log.Fields{"session": cn.session, "addr": c.config.ServerAddress})
	logger.Info("Connected to server")

	go c.receiveLoop(cn)
	go c.watchContext(ctx, cn)

	if clientID != "" {
		if err := c.SendControl(protocol.CmdChangeID, clientID, ""); err != nil {
			logger.WithError(err).Warn("Failed to announce client id")
		}
		if peerID != "" {
			if err := c.SendControl(protocol.CmdChangePeer, peerID, ""); err != nil {
				logger.WithError(err).Warn("Failed to announce peer")
			}
		}
	}
	return nil
}

func (c *Client) dial(ctx context.Context) (*connection, error) {
	addr := c.config.ServerAddress
	delay := c.config.ReconnectDelay()
	maxAttempts := c.config.MaxConnectAttempts

	for attempt := 1; ; attempt++ {
		log.WithFields(log.Fields{"addr": addr, "attempt": attempt}).Info("Trying to connect to server")

		conn, err := c.dialer.Dial(ctx, addr)
		c.metrics.ConnectAttempt(err == nil)
		if err == nil {
			return newConnection(conn), nil
		}
		if ctx.Err() != nil {
			return nil, protocol.NewError(protocol.KindConnectFailed, "connect", ctx.Err())
		}
		if maxAttempts > 0 && attempt >= maxAttempts {
			return nil, protocol.NewError(protocol.KindConnectFailed, "connect",
				fmt.Errorf("giving up after %d attempts: %w", attempt, err))
		}

		log.WithFields(log.Fields{"addr": addr, "error": err}).Warnf("Failed to connect to server. Retrying in %s...", delay)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, protocol.NewError(protocol.KindConnectFailed, "connect", ctx.Err())
		case <-timer.C:
		}
	}
}

func (c *Client) watchContext(ctx context.Context, cn *connection) {
	select {
	case <-ctx.Done():
		if c.markDown(cn) {
			log.WithField("session", cn.session).Info("Context cancelled, disconnecting from server")
		}
	case <-cn.done:
	}
}

// Disconnect stops the receive loop and closes the transport. A Connect that
// is still retrying is aborted and returns a KindConnectFailed error. It is
// safe to call at any time and more than once. It must not be called from a
// LabelConsumer, since it waits for the receive loop to return.
func (c *Client) Disconnect() {
	c.mu.Lock()
	if c.dialCancel != nil {
		c.dialCancel()
	}
	c.mu.Unlock()

	c.connectMu.Lock()
	defer c.connectMu.Unlock()

	c.mu.Lock()
	cn := c.conn
	c.mu.Unlock()
	if cn == nil {
		return
	}

	if c.markDown(cn) {
		log.WithField("session", cn.session).Info("Disconnected from server")
	}
	<-cn.done
}

// markDown flips the liveness flag for cn and closes its transport. It
// reports whether cn was the live connection at the time of the call.
func (c *Client) markDown(cn *connection) bool {
	c.mu.Lock()
	current := c.conn == cn && c.state.alive
	if c.conn == cn {
		c.state.alive = false
		c.state.status = Disconnected
	}
	c.mu.Unlock()

	_ = cn.close()
	if current {
		c.metrics.SetAlive(false)
	}
	return current
}

// setStatus records a lifecycle step. With a non-nil cn the update only
// applies while cn is still the client's live connection.
func (c *Client) setStatus(cn *connection, s State) {
	c.mu.Lock()
	if cn == nil || (c.conn == cn && c.state.alive) {
		c.state.status = s
	}
	c.mu.Unlock()
}

// IsConnected reports whether the session is alive.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.alive
}

// ClientID returns the id the server currently knows this client by.
func (c *Client) ClientID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clientID
}

// ClientPeer returns the peer label messages are routed to.
func (c *Client) ClientPeer() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clientPeer
}

// Status returns the current lifecycle step.
func (c *Client) Status() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.status
}

// SessionID identifies the current or most recent connection in logs.
func (c *Client) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return ""
	}
	return c.conn.session
}
