package protocol

import (
	"errors"
	"fmt"
)

var errEmptyName = errors.New("name must be set before encoding")

// ControlMessage is a command frame that mutates session identity or ends
// the session. Each field occupies ArgFieldLen bytes on the wire.
type ControlMessage struct {
	Name string
	Arg1 string
	Arg2 string
}

// MarshalBinary encodes the message into ControlMsgSize bytes. Fields longer
// than ArgFieldLen are truncated; see Truncated.
func (m ControlMessage) MarshalBinary() ([]byte, error) {
	if m.Name == "" {
		return nil, NewError(KindPrecondition, "encode control message", errEmptyName)
	}
	buf := make([]byte, ControlMsgSize)
	putField(buf[0:ArgFieldLen], m.Name)
	putField(buf[ArgFieldLen:2*ArgFieldLen], m.Arg1)
	putField(buf[2*ArgFieldLen:], m.Arg2)
	return buf, nil
}

// Truncated reports whether encoding will drop bytes from any field.
func (m ControlMessage) Truncated() bool {
	return len(m.Name) > ArgFieldLen || len(m.Arg1) > ArgFieldLen || len(m.Arg2) > ArgFieldLen
}

// UnmarshalBinary decodes the first ControlMsgSize bytes of b.
func (m *ControlMessage) UnmarshalBinary(b []byte) error {
	if len(b) < ControlMsgSize {
		return fmt.Errorf("%w: control message needs %d bytes, got %d", ErrShortPayload, ControlMsgSize, len(b))
	}
	m.Name = readField(b[0:ArgFieldLen])
	m.Arg1 = readField(b[ArgFieldLen : 2*ArgFieldLen])
	m.Arg2 = readField(b[2*ArgFieldLen : ControlMsgSize])
	return nil
}

// DecodeControl is a convenience wrapper around UnmarshalBinary.
func DecodeControl(b []byte) (ControlMessage, error) {
	var m ControlMessage
	err := m.UnmarshalBinary(b)
	return m, err
}

func (m ControlMessage) String() string {
	return fmt.Sprintf("[ControlMsg] %s: %s %s", m.Name, m.Arg1, m.Arg2)
}
