package client

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AtDexters-Lab/nexus-peer-client/internal/config"
	"github.com/AtDexters-Lab/nexus-peer-client/internal/protocol"
	"github.com/stretchr/testify/require"
)

const waitFor = 2 * time.Second

// fakeServer stands in for the coordinating server: it accepts TCP
// connections and lets the test speak the frame protocol on them.
type fakeServer struct {
	l     net.Listener
	conns chan net.Conn
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &fakeServer{l: l, conns: make(chan net.Conn, 4)}
	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			s.conns <- conn
		}
	}()
	t.Cleanup(func() { _ = l.Close() })
	return s
}

func (s *fakeServer) addr() string { return s.l.Addr().String() }

func (s *fakeServer) accept(t *testing.T) net.Conn {
	t.Helper()
	select {
	case conn := <-s.conns:
		t.Cleanup(func() { _ = conn.Close() })
		return conn
	case <-time.After(waitFor):
		t.Fatal("client never connected")
		return nil
	}
}

func testConfig(addr string) *config.Config {
	cfg := config.Default()
	cfg.ServerAddress = addr
	cfg.ReconnectDelaySeconds = 0.01
	cfg.ConnectTimeoutSeconds = 1
	return cfg
}

func sendControl(t *testing.T, conn net.Conn, name, arg1, arg2 string) {
	t.Helper()
	payload, err := protocol.ControlMessage{Name: name, Arg1: arg1, Arg2: arg2}.MarshalBinary()
	require.NoError(t, err)
	require.NoError(t, protocol.WriteFrame(conn, protocol.TagControl, payload))
}

func readFrame(t *testing.T, conn net.Conn) protocol.Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(waitFor)))
	f, err := protocol.ReadFrame(conn, protocol.DefaultLimits())
	require.NoError(t, err)
	return f
}

func readControl(t *testing.T, conn net.Conn) protocol.ControlMessage {
	t.Helper()
	f := readFrame(t, conn)
	require.Equal(t, protocol.TagControl, f.Header.TrimmedTag())
	msg, err := protocol.DecodeControl(f.Payload)
	require.NoError(t, err)
	return msg
}

// connectedClient returns a client connected without identity, plus the
// server side of its connection.
func connectedClient(t *testing.T, opts ...Option) (*Client, net.Conn) {
	t.Helper()
	srv := newFakeServer(t)
	c, err := New(testConfig(srv.addr()), opts...)
	require.NoError(t, err)
	require.NoError(t, c.Connect(context.Background(), "", ""))
	t.Cleanup(c.Disconnect)
	return c, srv.accept(t)
}

// flakyDialer fails a fixed number of times before delegating.
type flakyDialer struct {
	failures int32
	attempts atomic.Int32
	next     func(ctx context.Context, addr string) (net.Conn, error)
}

var errDialRefused = errors.New("connection refused")

func (d *flakyDialer) Dial(ctx context.Context, addr string) (net.Conn, error) {
	n := d.attempts.Add(1)
	if n <= d.failures || d.next == nil {
		return nil, errDialRefused
	}
	return d.next(ctx, addr)
}

// pipeDialer hands out one end of an in-memory pipe.
type pipeDialer struct{ conn net.Conn }

func (d pipeDialer) Dial(context.Context, string) (net.Conn, error) { return d.conn, nil }

// failingWriteConn accepts reads from the wrapped conn but refuses writes.
type failingWriteConn struct{ net.Conn }

func (failingWriteConn) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }
