// Package bounded reads request payloads under a size limit.
package bounded

import (
	"bytes"
	"fmt"
	"io"
)

// DefaultMaxRequestSize limits the size of a request document (1MB).
const DefaultMaxRequestSize = 1 * 1024 * 1024

// TooLargeError reports a payload that exceeded its limit.
type TooLargeError struct {
	Limit int
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("request exceeds %d bytes", e.Limit)
}

// BoundedBuffer is a bytes.Buffer wrapper that limits the size of written data.
type BoundedBuffer struct {
	buffer    bytes.Buffer
	limit     int
	Truncated bool
}

// NewBoundedBuffer creates a new BoundedBuffer with the specified limit.
func NewBoundedBuffer(limit int) *BoundedBuffer {
	return &BoundedBuffer{
		limit: limit,
	}
}

// Write implements io.Writer.
// It writes data up to the limit and then silently discards any additional data.
// The Truncated field is set to true if any data was discarded.
func (b *BoundedBuffer) Write(p []byte) (n int, err error) {
	if b.buffer.Len() >= b.limit {
		if len(p) > 0 {
			b.Truncated = true
		}
		return len(p), nil
	}

	remaining := b.limit - b.buffer.Len()
	if len(p) > remaining {
		b.Truncated = true
		n, err = b.buffer.Write(p[:remaining])
		if err != nil {
			return n, err
		}
		return len(p), nil
	}

	return b.buffer.Write(p)
}

// Bytes returns the buffer contents as a byte slice.
func (b *BoundedBuffer) Bytes() []byte {
	return b.buffer.Bytes()
}

// Len returns the current length of the buffer.
func (b *BoundedBuffer) Len() int {
	return b.buffer.Len()
}

// Reset resets the buffer and clears the Truncated flag.
func (b *BoundedBuffer) Reset() {
	b.buffer.Reset()
	b.Truncated = false
}

// ReadAll reads r to EOF. It fails with TooLargeError when r holds more than
// limit bytes; a limit of zero or less means DefaultMaxRequestSize.
func ReadAll(r io.Reader, limit int) ([]byte, error) {
	if limit <= 0 {
		limit = DefaultMaxRequestSize
	}
	buf := NewBoundedBuffer(limit)
	if _, err := io.Copy(buf, r); err != nil {
		return nil, err
	}
	if buf.Truncated {
		return nil, &TooLargeError{Limit: limit}
	}
	return buf.Bytes(), nil
}
