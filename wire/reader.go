package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"math/big"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxLength bounds decoded lengths and counts unless SetMaxLength
// overrides it.
const DefaultMaxLength = 1 << 28

// bulkChunk caps single allocations while reading long payloads, so a corrupt
// length cannot reserve memory the stream never delivers.
const bulkChunk = 1 << 16

// Reader decodes primitives from an io.Reader.
type Reader struct {
	r       io.Reader
	n       int64
	max     int
	scratch [16]byte
}

// NewReader returns a Reader consuming r.
func NewReader(r io.Reader) *Reader { return &Reader{r: r, max: DefaultMaxLength} }

// SetMaxLength sets the largest length or count Length accepts. Non-positive
// values restore DefaultMaxLength.
func (r *Reader) SetMaxLength(n int) {
	if n <= 0 || uint64(n) > MaxLength {
		n = DefaultMaxLength
	}
	r.max = n
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int64 { return r.n }

// Read reads raw bytes as io.Reader does.
func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	r.n += int64(n)
	return n, err
}

// ReadFull fills p or fails with *TruncatedStreamError.
func (r *Reader) ReadFull(p []byte) error {
	off := r.n
	n, err := io.ReadFull(r.r, p)
	r.n += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return &TruncatedStreamError{Need: len(p), Got: n, Offset: off}
		}
		return err
	}
	return nil
}

func (r *Reader) fixed(n int) ([]byte, error) {
	b := r.scratch[:n]
	if err := r.ReadFull(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Bool reads a 0/1 byte.
func (r *Reader) Bool() (bool, error) {
	off := r.n
	b, err := r.Uint8()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, &MalformedValueError{Kind: "bool", Offset: off}
}

// Uint8 reads one byte.
func (r *Reader) Uint8() (uint8, error) {
	b, err := r.fixed(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Int8 reads one byte.
func (r *Reader) Int8() (int8, error) {
	v, err := r.Uint8()
	return int8(v), err
}

// Uint16 reads a little-endian uint16.
func (r *Reader) Uint16() (uint16, error) {
	b, err := r.fixed(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// Int16 reads a little-endian int16.
func (r *Reader) Int16() (int16, error) {
	v, err := r.Uint16()
	return int16(v), err
}

// Uint32 reads a little-endian uint32.
func (r *Reader) Uint32() (uint32, error) {
	b, err := r.fixed(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Int32 reads a little-endian int32.
func (r *Reader) Int32() (int32, error) {
	v, err := r.Uint32()
	return int32(v), err
}

// Uint64 reads a little-endian uint64.
func (r *Reader) Uint64() (uint64, error) {
	b, err := r.fixed(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// Int64 reads a little-endian int64.
func (r *Reader) Int64() (int64, error) {
	v, err := r.Uint64()
	return int64(v), err
}

// Float32 reads IEEE-754 bits.
func (r *Reader) Float32() (float32, error) {
	v, err := r.Uint32()
	return math.Float32frombits(v), err
}

// Float64 reads IEEE-754 bits.
func (r *Reader) Float64() (float64, error) {
	v, err := r.Uint64()
	return math.Float64frombits(v), err
}

// Complex64 reads the real then the imaginary part.
func (r *Reader) Complex64() (complex64, error) {
	re, err := r.Float32()
	if err != nil {
		return 0, err
	}
	im, err := r.Float32()
	if err != nil {
		return 0, err
	}
	return complex(re, im), nil
}

// Complex128 reads the real then the imaginary part.
func (r *Reader) Complex128() (complex128, error) {
	re, err := r.Float64()
	if err != nil {
		return 0, err
	}
	im, err := r.Float64()
	if err != nil {
		return 0, err
	}
	return complex(re, im), nil
}

// Length reads a length or count and checks it against the configured limit.
func (r *Reader) Length() (int, error) {
	off := r.n
	v, err := r.Uint32()
	if err != nil {
		return 0, err
	}
	if uint64(v) > uint64(r.max) {
		return 0, &MalformedLengthError{Length: uint64(v), Max: uint64(r.max), Offset: off}
	}
	return int(v), nil
}

// Blob reads a length-prefixed byte sequence. The result is never nil.
func (r *Reader) Blob() ([]byte, error) {
	n, err := r.Length()
	if err != nil {
		return nil, err
	}
	return r.bulk(n)
}

// Text reads a length-prefixed string.
func (r *Reader) Text() (string, error) {
	b, err := r.Blob()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Bytes reads exactly n raw bytes with no prefix.
func (r *Reader) Bytes(n int) ([]byte, error) { return r.bulk(n) }

// bulk reads exactly n bytes. Sources that report their unread length (such as
// *bytes.Reader and *Buffer) fail fast; others are read in bounded chunks.
func (r *Reader) bulk(n int) ([]byte, error) {
	if l, ok := r.r.(interface{ Len() int }); ok && l.Len() < n {
		return nil, &TruncatedStreamError{Need: n, Got: l.Len(), Offset: r.n}
	}
	if n <= bulkChunk {
		b := make([]byte, n)
		if err := r.ReadFull(b); err != nil {
			return nil, err
		}
		return b, nil
	}
	off := r.n
	var buf bytes.Buffer
	buf.Grow(bulkChunk)
	got, err := io.CopyN(&buf, r.r, int64(n))
	r.n += got
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &TruncatedStreamError{Need: n, Got: int(got), Offset: off}
		}
		return nil, err
	}
	return buf.Bytes(), nil
}

// UUID reads 16 raw bytes.
func (r *Reader) UUID() (uuid.UUID, error) {
	var u uuid.UUID
	b, err := r.fixed(16)
	if err != nil {
		return u, err
	}
	copy(u[:], b)
	return u, nil
}

// Time reads a tick count and returns the instant in UTC.
func (r *Reader) Time() (time.Time, error) {
	ticks, err := r.Int64()
	if err != nil {
		return time.Time{}, err
	}
	return TimeFromTicks(ticks), nil
}

// BigInt reads a length-prefixed two's complement integer.
func (r *Reader) BigInt() (*big.Int, error) {
	b, err := r.Blob()
	if err != nil {
		return nil, err
	}
	return ParseBigInt(b), nil
}

// Presence reads the flag preceding an optional payload.
func (r *Reader) Presence() (bool, error) {
	off := r.n
	b, err := r.Uint8()
	if err != nil {
		return false, err
	}
	switch b {
	case Absent:
		return false, nil
	case Present:
		return true, nil
	}
	return false, &MalformedPresenceFlagError{Flag: b, Offset: off}
}
