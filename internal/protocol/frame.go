package protocol

import (
	"fmt"
	"io"
	"math"
)

// Frame is one header plus its payload.
type Frame struct {
	Header  Header
	Payload []byte
}

// Limits constrains how much a peer may make us allocate.
type Limits struct {
	MaxPayload uint32
}

// DefaultLimits returns limits allowing payloads up to DefaultMaxPayload.
func DefaultLimits() Limits {
	return Limits{MaxPayload: DefaultMaxPayload}
}

// ReadFrame blocks until one complete frame has been read from r. Any read
// failure, including a clean EOF between frames, is reported as connection
// loss. A declared payload above limits.MaxPayload is also connection loss:
// the stream cannot be resynchronized after it.
func ReadFrame(r io.Reader, limits Limits) (Frame, error) {
	var hb [HeaderSize]byte
	if _, err := io.ReadFull(r, hb[:]); err != nil {
		return Frame{}, NewError(KindConnectionLost, "read header", err)
	}

	h, err := DecodeHeader(hb[:])
	if err != nil {
		return Frame{}, err
	}
	if limits.MaxPayload > 0 && h.PayloadSize > limits.MaxPayload {
		return Frame{Header: h}, NewError(KindConnectionLost, "read header",
			fmt.Errorf("%w: %d bytes declared, limit %d", ErrPayloadTooLarge, h.PayloadSize, limits.MaxPayload))
	}

	payload := make([]byte, h.PayloadSize)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Frame{Header: h}, NewError(KindConnectionLost, "read payload", err)
	}
	return Frame{Header: h, Payload: payload}, nil
}

// WriteFrame writes the header for payload and then the payload itself.
// Callers sharing w between goroutines must serialize calls.
func WriteFrame(w io.Writer, tag string, payload []byte) error {
	if uint64(len(payload)) > math.MaxUint32 {
		return NewError(KindPrecondition, "write frame", ErrPayloadTooLarge)
	}
	if err := writeFull(w, EncodeHeader(uint32(len(payload)), tag)); err != nil {
		return NewError(KindConnectionLost, "write header", err)
	}
	if err := writeFull(w, payload); err != nil {
		return NewError(KindConnectionLost, "write payload", err)
	}
	return nil
}

// writeFull keeps writing until every byte of b has been accepted by w,
// advancing only by the count w actually reports.
func writeFull(w io.Writer, b []byte) error {
	for sent := 0; sent < len(b); {
		n, err := w.Write(b[sent:])
		sent += n
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
	}
	return nil
}
