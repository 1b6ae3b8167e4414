package protocol

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Header precedes every payload on the wire.
type Header struct {
	PayloadSize uint32
	// Tag is the tag field up to its first NUL. Space padding written by
	// EncodeHeader is kept; use TrimmedTag or Kind for comparisons.
	Tag string
}

// EncodeHeader lays out a frame header: payload size in network byte order,
// then the tag left-aligned and padded with TagPadByte. Tags longer than
// TagFieldLen are truncated.
func EncodeHeader(size uint32, tag string) []byte {
	buf := make([]byte, HeaderSize)
	binary.BigEndian.PutUint32(buf[:SizeFieldLen], size)
	n := copy(buf[SizeFieldLen:], tag)
	for i := SizeFieldLen + n; i < HeaderSize; i++ {
		buf[i] = TagPadByte
	}
	return buf
}

// DecodeHeader parses a HeaderSize-byte buffer.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) != HeaderSize {
		return Header{}, fmt.Errorf("%w: got %d bytes, want %d", ErrShortHeader, len(b), HeaderSize)
	}
	return Header{
		PayloadSize: binary.BigEndian.Uint32(b[:SizeFieldLen]),
		Tag:         readField(b[SizeFieldLen:]),
	}, nil
}

// TrimmedTag returns the tag without its padding.
func (h Header) TrimmedTag() string {
	return strings.TrimRight(h.Tag, " \x00")
}

// Kind classifies the frame by its tag.
func (h Header) Kind() Kind {
	return ClassifyTag(h.Tag)
}
