// Package buffer provides a bounded byte sink for HTTP response bodies.
package buffer

import (
	"errors"
	"fmt"
)

// ErrOverflow is returned by Write when the incoming bytes do not fit.
var ErrOverflow = errors.New("response buffer overflow")

// ErrZeroCapacity is returned by New for a zero capacity.
var ErrZeroCapacity = errors.New("response buffer capacity must be greater than zero")

// Buffer is a fixed capacity append-only byte sink. One byte of the capacity is
// always kept spare, so at most Cap()-1 bytes are ever stored.
type Buffer struct {
	data     []byte
	capacity int
}

// New allocates a buffer able to hold capacity-1 bytes.
func New(capacity int) (*Buffer, error) {
	if capacity <= 0 {
		return nil, ErrZeroCapacity
	}
	return &Buffer{
		data:     make([]byte, 0, capacity),
		capacity: capacity,
	}, nil
}

// Append copies p into the buffer. It returns false and leaves the buffer
// untouched when len+len(p) would reach the capacity.
func (b *Buffer) Append(p []byte) bool {
	if b == nil || b.data == nil {
		return false
	}
	if len(b.data)+len(p) >= b.capacity {
		return false
	}
	b.data = append(b.data, p...)
	return true
}

// Write implements io.Writer so the buffer can be the transport sink. A
// rejected append is reported as ErrOverflow and nothing is written.
func (b *Buffer) Write(p []byte) (int, error) {
	if !b.Append(p) {
		return 0, fmt.Errorf("%w (size: %d, capacity: %d)", ErrOverflow, b.Len()+len(p), b.Cap())
	}
	return len(p), nil
}

// Reset empties the buffer without reallocating.
func (b *Buffer) Reset() {
	if b == nil || b.data == nil {
		return
	}
	b.data = b.data[:0]
}

// Release drops the backing storage. The buffer rejects all appends afterwards.
func (b *Buffer) Release() {
	if b == nil {
		return
	}
	b.data = nil
	b.capacity = 0
}

// Bytes returns the stored bytes. The slice aliases the buffer.
func (b *Buffer) Bytes() []byte {
	if b == nil {
		return nil
	}
	return b.data
}

// String returns a copy of the stored bytes as a string.
func (b *Buffer) String() string {
	return string(b.Bytes())
}

// Len returns the number of stored bytes.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}

// Cap returns the capacity the buffer was created with.
func (b *Buffer) Cap() int {
	if b == nil {
		return 0
	}
	return b.capacity
}
