package wire

import (
	"errors"
	"io"
)

var errNegativePosition = errors.New("wire: negative position")

// Buffer is an in-memory byte sink and source with a settable cursor, the
// counterpart of a seekable memory stream. Writes overwrite or extend the data
// at the cursor; reads consume from the cursor. The zero value is empty and
// ready to use.
type Buffer struct {
	data []byte
	pos  int
}

// NewBuffer returns a Buffer over b positioned at the start.
func NewBuffer(b []byte) *Buffer { return &Buffer{data: b} }

// Write implements io.Writer.
func (b *Buffer) Write(p []byte) (int, error) {
	end := b.pos + len(p)
	if end > len(b.data) {
		if end > cap(b.data) {
			grown := make([]byte, len(b.data), max(end, 2*cap(b.data)))
			copy(grown, b.data)
			b.data = grown
		}
		old := len(b.data)
		b.data = b.data[:end]
		if b.pos > old {
			clear(b.data[old:b.pos])
		}
	}
	copy(b.data[b.pos:], p)
	b.pos = end
	return len(p), nil
}

// Read implements io.Reader.
func (b *Buffer) Read(p []byte) (int, error) {
	if b.pos >= len(b.data) {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := copy(p, b.data[b.pos:])
	b.pos += n
	return n, nil
}

// Seek implements io.Seeker.
func (b *Buffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(b.pos) + offset
	case io.SeekEnd:
		abs = int64(len(b.data)) + offset
	default:
		return 0, errors.New("wire: invalid whence")
	}
	if abs < 0 {
		return 0, errNegativePosition
	}
	b.pos = int(abs)
	return abs, nil
}

// Position returns the cursor.
func (b *Buffer) Position() int64 { return int64(b.pos) }

// SetPosition moves the cursor, for example back to 0 to read what was just
// written.
func (b *Buffer) SetPosition(p int64) error {
	_, err := b.Seek(p, io.SeekStart)
	return err
}

// Len returns the number of unread bytes after the cursor.
func (b *Buffer) Len() int {
	if b.pos >= len(b.data) {
		return 0
	}
	return len(b.data) - b.pos
}

// Size returns the total number of bytes held.
func (b *Buffer) Size() int { return len(b.data) }

// Bytes returns all bytes held, independent of the cursor.
func (b *Buffer) Bytes() []byte { return b.data }

// Reset empties the buffer and rewinds the cursor.
func (b *Buffer) Reset() {
	b.data = b.data[:0]
	b.pos = 0
}
