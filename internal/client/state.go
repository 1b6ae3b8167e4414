package client

// State is a step of the connection lifecycle.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
	Receiving
	Dispatching
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Receiving:
		return "receiving"
	case Dispatching:
		return "dispatching"
	default:
		return "invalid"
	}
}

// identity is the mutable session state shared by the caller's goroutine
// and the receive loop. It is only touched with Client.mu held.
type identity struct {
	clientID   string
	clientPeer string
	alive      bool
	status     State
}
