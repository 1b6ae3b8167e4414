package protocol

import "bytes"

// putField writes s left-aligned into dst, NUL-padding the remainder.
// It reports whether s had to be truncated to fit.
func putField(dst []byte, s string) bool {
	n := copy(dst, s)
	clear(dst[n:])
	return len(s) > len(dst)
}

// readField returns the content of a fixed-width field up to its first NUL.
func readField(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}
