package client

import (
	"net"
	"sync"

	"github.com/google/uuid"
)

// connection is one established transport plus the bookkeeping of the
// receive loop that serves it.
type connection struct {
	net.Conn
	session string

	closeOnce sync.Once
	closeErr  error

	// done is closed when the receive loop for this connection exits.
	done chan struct{}
}

func newConnection(conn net.Conn) *connection {
	return &connection{
		Conn:    conn,
		session: uuid.New().String(),
		done:    make(chan struct{}),
	}
}

// close shuts the transport down. Every teardown path funnels through here,
// so it must tolerate repeated calls.
func (c *connection) close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.Conn.Close()
	})
	return c.closeErr
}
