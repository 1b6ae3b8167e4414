package client

import (
	log "github.com/sirupsen/logrus"

	"github.com/AtDexters-Lab/nexus-peer-client/internal/protocol"
)

// receiveLoop reads frames from cn until the session is no longer alive or
// the transport fails. A transport failure marks the session down; it is
// never retried from here.
func (c *Client) receiveLoop(cn *connection) {
	defer close(cn.done)
	logger := log.WithField("session", cn.session)

	for c.aliveOn(cn) {
		c.setStatus(cn, Receiving)
		frame, err := protocol.ReadFrame(cn, c.limits)
		if err != nil {
			if c.markDown(cn) {
				logger.WithError(err).Warn("Connection to server lost")
			}
			return
		}

		c.setStatus(cn, Dispatching)
		c.dispatch(logger, frame)
	}
}

func (c *Client) aliveOn(cn *connection) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn == cn && c.state.alive
}

// dispatch routes one frame by its type tag. Frames that cannot be decoded
// are dropped; the stream stays aligned because the payload was fully read.
func (c *Client) dispatch(logger *log.Entry, f protocol.Frame) {
	kind := f.Header.Kind()
	switch kind {
	case protocol.KindControl:
		msg, err := protocol.DecodeControl(f.Payload)
		if err != nil {
			logger.WithError(err).Warn("Dropping malformed control message")
			return
		}
		c.metrics.FrameReceived(kind.String())
		c.handleControl(logger, msg)

	case protocol.KindLabel:
		msg, err := protocol.DecodeLabel(f.Payload)
		if err != nil {
			logger.WithError(err).Warn("Dropping malformed label message")
			return
		}
		c.metrics.FrameReceived(kind.String())
		c.consumer.HandleLabel(msg)

	default:
		c.metrics.UnknownFrame()
		logger.WithFields(log.Fields{
			"tag":   f.Header.TrimmedTag(),
			"bytes": f.Header.PayloadSize,
		}).Warn(protocol.NewError(protocol.KindUnknownFrameType, "dispatch", nil))
	}
}

// handleControl applies a server command to the session identity.
func (c *Client) handleControl(logger *log.Entry, msg protocol.ControlMessage) {
	var (
		ending  *connection
		unknown bool
	)

	c.mu.Lock()
	switch msg.Name {
	case protocol.CmdChangeID:
		c.state.clientID = msg.Arg1
	case protocol.CmdChangePeer:
		c.state.clientPeer = msg.Arg1
	case protocol.CmdEndConnection:
		c.state.alive = false
		c.state.status = Disconnected
		ending = c.conn
	case protocol.CmdPeerLost:
		c.state.clientPeer = protocol.BroadcastPeer
	default:
		unknown = true
	}
	c.mu.Unlock()

	logger = logger.WithFields(log.Fields{"command": msg.Name, "arg1": msg.Arg1})
	switch {
	case unknown:
		c.metrics.UnknownCommand()
		if msg.Name == protocol.CmdNewPeer {
			logger.Debug("Ignoring peer announcement")
			return
		}
		logger.Warn(protocol.NewError(protocol.KindUnknownCommand, "dispatch", nil))
	case ending != nil:
		_ = ending.close()
		c.metrics.SetAlive(false)
		logger.Info("Server ended the connection")
	default:
		logger.Info("Applied control message")
	}
}
