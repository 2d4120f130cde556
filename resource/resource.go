// Package resource provides handlers for opaque types that have no field
// layout of their own: byte streams, images, colours, and values that
// already have an external encoding (msgpack, JSON, protobuf).
//
// Every handler writes a presence byte followed, when present, by a
// length-prefixed payload, so nil values round-trip.
package resource

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	gojson "github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"
	"google.golang.org/protobuf/proto"

	"github.com/reoring/whoa"
	"github.com/reoring/whoa/codec"
	"github.com/reoring/whoa/wire"
)

// blob wraps marshal/unmarshal functions into a presence-flagged codec.
func blob[T any](isNil func(T) bool, marshal func(T) ([]byte, error), unmarshal func([]byte) (T, error)) codec.Codec[T] {
	return codec.Func(
		func(w *wire.Writer, v T) error {
			if isNil(v) {
				return w.Presence(false)
			}
			b, err := marshal(v)
			if err != nil {
				return err
			}
			if err := w.Presence(true); err != nil {
				return err
			}
			return w.Blob(b)
		},
		func(r *wire.Reader) (T, error) {
			var zero T
			ok, err := r.Presence()
			if err != nil || !ok {
				return zero, err
			}
			b, err := r.Blob()
			if err != nil {
				return zero, err
			}
			return unmarshal(b)
		})
}

// Stream stores an io.Reader as its full contents. The stream is read to EOF
// on write; a decoded stream is a *bytes.Reader.
func Stream() codec.Codec[io.Reader] {
	return blob(
		func(r io.Reader) bool { return r == nil },
		io.ReadAll,
		func(b []byte) (io.Reader, error) { return bytes.NewReader(b), nil })
}

// Image stores an image.Image as PNG.
func Image() codec.Codec[image.Image] {
	return blob(
		func(m image.Image) bool { return m == nil },
		func(m image.Image) ([]byte, error) {
			var buf bytes.Buffer
			if err := png.Encode(&buf, m); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		},
		func(b []byte) (image.Image, error) { return png.Decode(bytes.NewReader(b)) })
}

// Color stores a color.Color as 16-bit alpha-premultiplied RGBA. A decoded
// colour is a color.RGBA64.
func Color() codec.Codec[color.Color] {
	return codec.Func(
		func(w *wire.Writer, c color.Color) error {
			if c == nil {
				return w.Presence(false)
			}
			if err := w.Presence(true); err != nil {
				return err
			}
			r, g, b, a := c.RGBA()
			for _, ch := range [4]uint32{r, g, b, a} {
				if err := w.Uint16(uint16(ch)); err != nil {
					return err
				}
			}
			return nil
		},
		func(r *wire.Reader) (color.Color, error) {
			ok, err := r.Presence()
			if err != nil || !ok {
				return nil, err
			}
			var ch [4]uint16
			for i := range ch {
				if ch[i], err = r.Uint16(); err != nil {
					return nil, err
				}
			}
			return color.RGBA64{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
		})
}

// Msgpack stores T in MessagePack form. T is typically a type the engine
// cannot lay out itself, such as one holding interface values.
func Msgpack[T any]() codec.Codec[T] {
	return blob(
		func(T) bool { return false },
		func(v T) ([]byte, error) { return msgpack.Marshal(v) },
		func(b []byte) (T, error) {
			var v T
			err := msgpack.Unmarshal(b, &v)
			return v, err
		})
}

// JSON stores T as JSON text.
func JSON[T any]() codec.Codec[T] {
	return blob(
		func(T) bool { return false },
		func(v T) ([]byte, error) { return gojson.Marshal(v) },
		func(b []byte) (T, error) {
			var v T
			err := gojson.Unmarshal(b, &v)
			return v, err
		})
}

// Proto stores a protobuf message in its wire form. A nil message is
// absent.
func Proto[T proto.Message]() codec.Codec[T] {
	return blob(
		func(m T) bool { return any(m) == nil || !m.ProtoReflect().IsValid() },
		func(m T) ([]byte, error) { return proto.Marshal(m) },
		func(b []byte) (T, error) {
			var zero T
			m, ok := zero.ProtoReflect().New().Interface().(T)
			if !ok {
				return zero, fmt.Errorf("resource: cannot allocate %T", zero)
			}
			if err := proto.Unmarshal(b, m); err != nil {
				return zero, err
			}
			return m, nil
		})
}

// Register installs the stream, image and colour handlers on e. Members of
// static type io.Reader, image.Image and color.Color are then serialized
// rather than skipped or rejected.
func Register(e *whoa.Engine) error {
	return errors.Join(
		whoa.RegisterCodec(e, Stream()),
		whoa.RegisterCodec(e, Image()),
		whoa.RegisterCodec(e, Color()),
	)
}
