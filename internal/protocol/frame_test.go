package protocol

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

// trickleWriter accepts at most chunk bytes per call.
type trickleWriter struct {
	bytes.Buffer
	chunk int
	calls int
}

func (w *trickleWriter) Write(p []byte) (int, error) {
	w.calls++
	if len(p) > w.chunk {
		p = p[:w.chunk]
	}
	return w.Buffer.Write(p)
}

type stuckWriter struct{}

func (stuckWriter) Write([]byte) (int, error) { return 0, nil }

// trickleReader returns at most one byte per call.
type trickleReader struct{ r io.Reader }

func (t trickleReader) Read(p []byte) (int, error) {
	if len(p) > 1 {
		p = p[:1]
	}
	return t.r.Read(p)
}

func TestWriteReadFrameRoundTrip(t *testing.T) {
	payload, err := ControlMessage{Name: CmdChangeID, Arg1: "A"}.MarshalBinary()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, TagControl, payload))
	require.Equal(t, HeaderSize+ControlMsgSize, buf.Len())

	f, err := ReadFrame(&buf, DefaultLimits())
	require.NoError(t, err)
	require.Equal(t, KindControl, f.Header.Kind())
	require.Equal(t, payload, f.Payload)
}

func TestWriteFrameHandlesShortWrites(t *testing.T) {
	w := &trickleWriter{chunk: 7}
	payload := bytes.Repeat([]byte{'x'}, 50)
	require.NoError(t, WriteFrame(w, TagLabel, payload))
	require.Equal(t, HeaderSize+50, w.Len())
	require.Greater(t, w.calls, 2)
}

func TestWriteFrameNoProgressFails(t *testing.T) {
	err := WriteFrame(stuckWriter{}, TagLabel, []byte("x"))
	require.True(t, errors.Is(err, ErrConnectionLost))
	require.True(t, errors.Is(err, io.ErrShortWrite))
}

func TestReadFrameAcrossPartialReads(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, TagLabel, []byte("partial")))

	f, err := ReadFrame(trickleReader{r: &buf}, DefaultLimits())
	require.NoError(t, err)
	require.Equal(t, "partial", string(f.Payload))
}

func TestReadFrameEmptyPayload(t *testing.T) {
	f, err := ReadFrame(bytes.NewReader(EncodeHeader(0, "Ping")), DefaultLimits())
	require.NoError(t, err)
	require.Empty(t, f.Payload)
	require.Equal(t, KindUnknown, f.Header.Kind())
}

func TestReadFrameEOFIsConnectionLost(t *testing.T) {
	_, err := ReadFrame(bytes.NewReader(nil), DefaultLimits())
	require.True(t, errors.Is(err, ErrConnectionLost))
	require.True(t, errors.Is(err, io.EOF))

	_, err = ReadFrame(bytes.NewReader(EncodeHeader(10, TagLabel)[:5]), DefaultLimits())
	require.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}

func TestReadFrameTruncatedPayload(t *testing.T) {
	buf := append(EncodeHeader(10, TagLabel), 'a', 'b')
	_, err := ReadFrame(bytes.NewReader(buf), DefaultLimits())
	require.True(t, errors.Is(err, ErrConnectionLost))
}

func TestReadFrameRejectsOversizedPayload(t *testing.T) {
	buf := EncodeHeader(DefaultMaxPayload+1, TagLabel)
	_, err := ReadFrame(bytes.NewReader(buf), DefaultLimits())
	require.True(t, errors.Is(err, ErrPayloadTooLarge))
	require.True(t, errors.Is(err, ErrConnectionLost))
}
