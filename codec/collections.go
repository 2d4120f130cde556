package codec

import (
	"bytes"
	"slices"

	"github.com/reoring/whoa/wire"
)

// maxPrealloc bounds the capacity reserved from a decoded count before any
// element has actually been read.
const maxPrealloc = 1024

// Nullable wraps inner with a presence flag: nil writes a single 0 byte,
// anything else writes 1 followed by the inner payload.
func Nullable[T any](inner Codec[T]) Codec[*T] { return nullableCodec[T]{inner: inner} }

type nullableCodec[T any] struct{ inner Codec[T] }

func (c nullableCodec[T]) Encode(w *wire.Writer, v *T) error {
	if err := w.Presence(v != nil); err != nil || v == nil {
		return err
	}
	return c.inner.Encode(w, *v)
}

func (c nullableCodec[T]) Decode(r *wire.Reader) (*T, error) {
	ok, err := r.Presence()
	if err != nil || !ok {
		return nil, err
	}
	v, err := c.inner.Decode(r)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Slice encodes a presence flag, a count and then each element in order. A nil
// slice and an empty slice stay distinct.
func Slice[E any](elem Codec[E]) Codec[[]E] { return sliceCodec[E]{elem: elem} }

type sliceCodec[E any] struct{ elem Codec[E] }

func (c sliceCodec[E]) Encode(w *wire.Writer, v []E) error {
	if err := w.Presence(v != nil); err != nil || v == nil {
		return err
	}
	if err := w.Length(len(v)); err != nil {
		return err
	}
	for _, e := range v {
		if err := c.elem.Encode(w, e); err != nil {
			return err
		}
	}
	return nil
}

func (c sliceCodec[E]) Decode(r *wire.Reader) ([]E, error) {
	ok, err := r.Presence()
	if err != nil || !ok {
		return nil, err
	}
	n, err := r.Length()
	if err != nil {
		return nil, err
	}
	out := make([]E, 0, min(n, maxPrealloc))
	for range n {
		e, err := c.elem.Decode(r)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// Map encodes a presence flag, an entry count and then key/value pairs. Go map
// iteration order is random, so entries are written in ascending order of
// their encoded key bytes; the output for a given map is deterministic. On
// decode a later duplicate key overwrites an earlier one.
func Map[K comparable, V any](key Codec[K], val Codec[V]) Codec[map[K]V] {
	return mapCodec[K, V]{key: key, val: val}
}

type mapCodec[K comparable, V any] struct {
	key Codec[K]
	val Codec[V]
}

type encodedEntry[V any] struct {
	key []byte
	val V
}

func (c mapCodec[K, V]) Encode(w *wire.Writer, m map[K]V) error {
	if err := w.Presence(m != nil); err != nil || m == nil {
		return err
	}
	if err := w.Length(len(m)); err != nil {
		return err
	}
	entries := make([]encodedEntry[V], 0, len(m))
	for k, v := range m {
		var kb wire.Buffer
		if err := c.key.Encode(wire.NewWriter(&kb), k); err != nil {
			return err
		}
		entries = append(entries, encodedEntry[V]{key: kb.Bytes(), val: v})
	}
	slices.SortFunc(entries, func(a, b encodedEntry[V]) int { return bytes.Compare(a.key, b.key) })
	for _, e := range entries {
		if _, err := w.Write(e.key); err != nil {
			return err
		}
		if err := c.val.Encode(w, e.val); err != nil {
			return err
		}
	}
	return nil
}

func (c mapCodec[K, V]) Decode(r *wire.Reader) (map[K]V, error) {
	ok, err := r.Presence()
	if err != nil || !ok {
		return nil, err
	}
	n, err := r.Length()
	if err != nil {
		return nil, err
	}
	out := make(map[K]V, min(n, maxPrealloc))
	for range n {
		k, err := c.key.Decode(r)
		if err != nil {
			return nil, err
		}
		v, err := c.val.Decode(r)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}
