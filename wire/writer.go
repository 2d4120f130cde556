// Package wire holds the positional little-endian primitives that every whoa
// codec is built from.
//
// A Writer appends fixed-shape values to a caller-owned io.Writer and a Reader
// consumes them from a caller-owned io.Reader. Neither buffers beyond the value
// being processed, so a Reader never reads past the end of the record it decodes
// and the caller can keep using the stream afterwards.
//
// Encodings:
//
//	bool            1 byte, 0 or 1
//	intN / uintN    N/8 bytes; Go int and uint are written as 64-bit
//	float32/64      IEEE-754 bits
//	complex64/128   real part then imaginary part
//	length          uint32
//	text, blob      length + raw bytes
//	uuid            16 bytes, RFC 4122 order
//	time            int64 count of 100ns ticks since 0001-01-01T00:00:00Z
//	big integer     length + minimal little-endian two's complement
//	presence        1 byte, 1 = present, 0 = absent
package wire

import (
	"encoding/binary"
	"io"
	"math"
	"math/big"
	"time"

	"github.com/google/uuid"
)

// MaxLength is the largest length or count representable on the wire.
const MaxLength = math.MaxUint32

// Writer encodes primitives onto an io.Writer.
type Writer struct {
	w       io.Writer
	n       int64
	scratch [16]byte
}

// NewWriter returns a Writer appending to w.
func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

// Offset returns the number of bytes written so far.
func (w *Writer) Offset() int64 { return w.n }

// Write appends raw bytes. It lets handlers stream payloads they framed
// themselves.
func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.n += int64(n)
	return n, err
}

func (w *Writer) raw(p []byte) error {
	_, err := w.Write(p)
	return err
}

// Bool writes a boolean as a single 0/1 byte.
func (w *Writer) Bool(v bool) error {
	if v {
		return w.Uint8(1)
	}
	return w.Uint8(0)
}

// Uint8 writes one byte.
func (w *Writer) Uint8(v uint8) error {
	w.scratch[0] = v
	return w.raw(w.scratch[:1])
}

// Int8 writes one byte.
func (w *Writer) Int8(v int8) error { return w.Uint8(uint8(v)) }

// Uint16 writes v little-endian.
func (w *Writer) Uint16(v uint16) error {
	binary.LittleEndian.PutUint16(w.scratch[:2], v)
	return w.raw(w.scratch[:2])
}

// Int16 writes v little-endian.
func (w *Writer) Int16(v int16) error { return w.Uint16(uint16(v)) }

// Uint32 writes v little-endian.
func (w *Writer) Uint32(v uint32) error {
	binary.LittleEndian.PutUint32(w.scratch[:4], v)
	return w.raw(w.scratch[:4])
}

// Int32 writes v little-endian.
func (w *Writer) Int32(v int32) error { return w.Uint32(uint32(v)) }

// Uint64 writes v little-endian.
func (w *Writer) Uint64(v uint64) error {
	binary.LittleEndian.PutUint64(w.scratch[:8], v)
	return w.raw(w.scratch[:8])
}

// Int64 writes v little-endian.
func (w *Writer) Int64(v int64) error { return w.Uint64(uint64(v)) }

// Float32 writes the IEEE-754 bits of v.
func (w *Writer) Float32(v float32) error { return w.Uint32(math.Float32bits(v)) }

// Float64 writes the IEEE-754 bits of v.
func (w *Writer) Float64(v float64) error { return w.Uint64(math.Float64bits(v)) }

// Complex64 writes the real then the imaginary part of v.
func (w *Writer) Complex64(v complex64) error {
	if err := w.Float32(real(v)); err != nil {
		return err
	}
	return w.Float32(imag(v))
}

// Complex128 writes the real then the imaginary part of v.
func (w *Writer) Complex128(v complex128) error {
	if err := w.Float64(real(v)); err != nil {
		return err
	}
	return w.Float64(imag(v))
}

// Length writes a length or element count.
func (w *Writer) Length(n int) error {
	if n < 0 || uint64(n) > MaxLength {
		return &MalformedLengthError{Length: uint64(n), Max: MaxLength, Offset: w.n}
	}
	return w.Uint32(uint32(n))
}

// Text writes a length-prefixed UTF-8 string.
func (w *Writer) Text(s string) error {
	if err := w.Length(len(s)); err != nil {
		return err
	}
	n, err := io.WriteString(w.w, s)
	w.n += int64(n)
	return err
}

// Blob writes a length-prefixed byte sequence.
func (w *Writer) Blob(b []byte) error {
	if err := w.Length(len(b)); err != nil {
		return err
	}
	return w.raw(b)
}

// UUID writes the 16 bytes of u.
func (w *Writer) UUID(u uuid.UUID) error {
	copy(w.scratch[:16], u[:])
	return w.raw(w.scratch[:16])
}

// Time writes t as 100ns ticks since 0001-01-01 UTC. Precision below 100ns and
// the location are not preserved. Instants outside the tick range fail with
// MalformedValueError.
func (w *Writer) Time(t time.Time) error {
	ticks, ok := TimeTicks(t)
	if !ok {
		return &MalformedValueError{Kind: "time", Offset: w.n}
	}
	return w.Int64(ticks)
}

// BigInt writes v as length-prefixed little-endian two's complement. A nil v
// is written as zero.
func (w *Writer) BigInt(v *big.Int) error {
	if v == nil {
		v = new(big.Int)
	}
	return w.Blob(AppendBigInt(nil, v))
}

// Presence writes the flag that precedes an optional payload.
func (w *Writer) Presence(present bool) error {
	if present {
		return w.Uint8(Present)
	}
	return w.Uint8(Absent)
}
