package client

import (
	log "github.com/sirupsen/logrus"

	"github.com/AtDexters-Lab/nexus-peer-client/internal/protocol"
)

type wireMessage interface {
	MarshalBinary() ([]byte, error)
	Truncated() bool
}

// Send wraps text in a label message keyed by the client's current id.
func (c *Client) Send(text string) error {
	return c.send(protocol.TagLabel, protocol.LabelMessage{Label: c.ClientID(), Data: text})
}

// SendControl sends a control message to the server.
func (c *Client) SendControl(command, arg1, arg2 string) error {
	return c.send(protocol.TagControl, protocol.ControlMessage{Name: command, Arg1: arg1, Arg2: arg2})
}

func (c *Client) send(tag string, msg wireMessage) error {
	payload, err := msg.MarshalBinary()
	if err != nil {
		return err
	}
	if msg.Truncated() {
		log.WithField("tag", tag).Warn("Message exceeds its field widths and was truncated")
	}
	return c.SendFrame(tag, payload)
}

// SendFrame writes one frame with the given tag. Frames from concurrent
// callers never interleave. A write failure ends the session.
func (c *Client) SendFrame(tag string, payload []byte) error {
	c.mu.Lock()
	cn, alive := c.conn, c.state.alive
	c.mu.Unlock()
	if !alive || cn == nil {
		return protocol.NewError(protocol.KindConnectionLost, "send", errNotConnected)
	}

	c.writeMu.Lock()
	err := protocol.WriteFrame(cn, tag, payload)
	c.writeMu.Unlock()

	if err != nil {
		if c.markDown(cn) {
			log.WithFields(log.Fields{"session": cn.session, "tag": tag}).WithError(err).Error("Error sending data to server")
		}
		return err
	}
	c.metrics.FrameSent(protocol.ClassifyTag(tag).String())
	return nil
}
