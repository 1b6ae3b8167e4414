package protocol

import (
	"errors"
	"fmt"
)

var (
	errEmptyLabel = errors.New("label must be set before encoding")
	errEmptyData  = errors.New("data must be set before encoding")
)

// LabelMessage carries application data tagged with the sender's label.
type LabelMessage struct {
	Label string
	Data  string
}

// MarshalBinary encodes the message into LabelMsgSize bytes: LabelFieldLen
// bytes of label followed by DataFieldLen bytes of data.
func (m LabelMessage) MarshalBinary() ([]byte, error) {
	if m.Label == "" {
		return nil, NewError(KindPrecondition, "encode label message", errEmptyLabel)
	}
	if m.Data == "" {
		return nil, NewError(KindPrecondition, "encode label message", errEmptyData)
	}
	buf := make([]byte, LabelMsgSize)
	putField(buf[:LabelFieldLen], m.Label)
	putField(buf[LabelFieldLen:], m.Data)
	return buf, nil
}

// Truncated reports whether encoding will drop bytes from either field.
func (m LabelMessage) Truncated() bool {
	return len(m.Label) > LabelFieldLen || len(m.Data) > DataFieldLen
}

// UnmarshalBinary decodes the first LabelMsgSize bytes of b.
func (m *LabelMessage) UnmarshalBinary(b []byte) error {
	if len(b) < LabelMsgSize {
		return fmt.Errorf("%w: label message needs %d bytes, got %d", ErrShortPayload, LabelMsgSize, len(b))
	}
	m.Label = readField(b[:LabelFieldLen])
	m.Data = readField(b[LabelFieldLen:LabelMsgSize])
	return nil
}

// DecodeLabel is a convenience wrapper around UnmarshalBinary.
func DecodeLabel(b []byte) (LabelMessage, error) {
	var m LabelMessage
	err := m.UnmarshalBinary(b)
	return m, err
}

func (m LabelMessage) String() string {
	return fmt.Sprintf("[LabelMessage] %s: %s", m.Label, m.Data)
}
