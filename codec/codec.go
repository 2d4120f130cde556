// Package codec provides typed codecs over the wire primitives.
//
// A Codec[T] writes and reads one Go type with no framing of its own. Codecs
// compose: Nullable, Slice and Map wrap element codecs, and any Codec[T] can be
// registered with an engine as the custom handler for T.
//
//	songs := codec.Slice(codec.String())
//	staff := codec.Map(codec.String(), codec.String())
//	profits := codec.Nullable(codec.Int32())
package codec

import (
	"math/big"
	"time"
	"unsafe"

	"github.com/google/uuid"

	"github.com/reoring/whoa/wire"
)

// Codec performs the write/read pair for values of type T.
type Codec[T any] interface {
	Encode(w *wire.Writer, v T) error
	Decode(r *wire.Reader) (T, error)
}

// Func builds a Codec from a pair of functions.
func Func[T any](enc func(*wire.Writer, T) error, dec func(*wire.Reader) (T, error)) Codec[T] {
	return funcCodec[T]{enc: enc, dec: dec}
}

type funcCodec[T any] struct {
	enc func(*wire.Writer, T) error
	dec func(*wire.Reader) (T, error)
}

func (c funcCodec[T]) Encode(w *wire.Writer, v T) error { return c.enc(w, v) }
func (c funcCodec[T]) Decode(r *wire.Reader) (T, error) { return c.dec(r) }

func Bool() Codec[bool]       { return Func((*wire.Writer).Bool, (*wire.Reader).Bool) }
func Int8() Codec[int8]       { return Func((*wire.Writer).Int8, (*wire.Reader).Int8) }
func Int16() Codec[int16]     { return Func((*wire.Writer).Int16, (*wire.Reader).Int16) }
func Int32() Codec[int32]     { return Func((*wire.Writer).Int32, (*wire.Reader).Int32) }
func Int64() Codec[int64]     { return Func((*wire.Writer).Int64, (*wire.Reader).Int64) }
func Uint8() Codec[uint8]     { return Func((*wire.Writer).Uint8, (*wire.Reader).Uint8) }
func Uint16() Codec[uint16]   { return Func((*wire.Writer).Uint16, (*wire.Reader).Uint16) }
func Uint32() Codec[uint32]   { return Func((*wire.Writer).Uint32, (*wire.Reader).Uint32) }
func Uint64() Codec[uint64]   { return Func((*wire.Writer).Uint64, (*wire.Reader).Uint64) }
func Float32() Codec[float32] { return Func((*wire.Writer).Float32, (*wire.Reader).Float32) }
func Float64() Codec[float64] { return Func((*wire.Writer).Float64, (*wire.Reader).Float64) }

// String encodes text as a length-prefixed UTF-8 sequence.
func String() Codec[string] { return Func((*wire.Writer).Text, (*wire.Reader).Text) }

// Bytes encodes a length-prefixed blob. It carries no presence flag; nil and
// empty both decode as an empty slice. Use Slice(Uint8()) to keep them apart.
func Bytes() Codec[[]byte] { return Func((*wire.Writer).Blob, (*wire.Reader).Blob) }

// UUID encodes the 16 raw bytes of a uuid.UUID.
func UUID() Codec[uuid.UUID] { return Func((*wire.Writer).UUID, (*wire.Reader).UUID) }

// Time encodes 100ns ticks since 0001-01-01 UTC.
func Time() Codec[time.Time] { return Func((*wire.Writer).Time, (*wire.Reader).Time) }

// BigInt encodes arbitrary-precision integers. A nil value is written as zero.
func BigInt() Codec[*big.Int] { return Func((*wire.Writer).BigInt, (*wire.Reader).BigInt) }

// Int encodes Go int as 64 bits.
func Int() Codec[int] {
	return Func(
		func(w *wire.Writer, v int) error { return w.Int64(int64(v)) },
		func(r *wire.Reader) (int, error) {
			v, err := r.Int64()
			return int(v), err
		},
	)
}

// Uint encodes Go uint as 64 bits.
func Uint() Codec[uint] {
	return Func(
		func(w *wire.Writer, v uint) error { return w.Uint64(uint64(v)) },
		func(r *wire.Reader) (uint, error) {
			v, err := r.Uint64()
			return uint(v), err
		},
	)
}

// Integer is the set of types an enumeration can be defined over.
type Integer interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int |
		~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
}

// Enum encodes an enumeration (ordinal or flags) as its underlying integer in
// the declared width. No flag validation is performed.
func Enum[E Integer]() Codec[E] { return enumCodec[E]{} }

type enumCodec[E Integer] struct{}

func (enumCodec[E]) Encode(w *wire.Writer, v E) error {
	switch unsafe.Sizeof(v) {
	case 1:
		return w.Uint8(uint8(v))
	case 2:
		return w.Uint16(uint16(v))
	case 4:
		return w.Uint32(uint32(v))
	}
	return w.Uint64(uint64(v))
}

func (enumCodec[E]) Decode(r *wire.Reader) (E, error) {
	var zero E
	signed := zero-1 < 0
	switch unsafe.Sizeof(zero) {
	case 1:
		u, err := r.Uint8()
		if signed {
			return E(int8(u)), err
		}
		return E(u), err
	case 2:
		u, err := r.Uint16()
		if signed {
			return E(int16(u)), err
		}
		return E(u), err
	case 4:
		u, err := r.Uint32()
		if signed {
			return E(int32(u)), err
		}
		return E(u), err
	}
	u, err := r.Uint64()
	if signed {
		return E(int64(u)), err
	}
	return E(u), err
}
