package iface

import (
	"context"
	"net"

	"github.com/AtDexters-Lab/nexus-peer-client/internal/protocol"
)

// Dialer opens the byte-stream transport to the coordinating server.
type Dialer interface {
	Dial(ctx context.Context, addr string) (net.Conn, error)
}

// LabelConsumer receives label messages decoded by the receive loop. It is
// called from the receive goroutine and must not block for long.
type LabelConsumer interface {
	HandleLabel(msg protocol.LabelMessage)
}

// LabelConsumerFunc adapts a function to LabelConsumer.
type LabelConsumerFunc func(msg protocol.LabelMessage)

func (f LabelConsumerFunc) HandleLabel(msg protocol.LabelMessage) { f(msg) }
