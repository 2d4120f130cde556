package schema

import (
	"bytes"
	"math/big"
	"reflect"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/reoring/whoa/internal/registry"
	"github.com/reoring/whoa/wire"
)

// maxPrealloc caps the capacity reserved from a decoded count, so a corrupt
// count cannot force a large allocation before the elements are read.
const maxPrealloc = 1024

var (
	uuidType   = reflect.TypeFor[uuid.UUID]()
	timeType   = reflect.TypeFor[time.Time]()
	bigIntType = reflect.TypeFor[big.Int]()
)

// scalar identifies the wire encoding of a primitive or enum.
type scalar uint8

const (
	scalarBool scalar = iota
	scalarInt8
	scalarInt16
	scalarInt32
	scalarInt64
	scalarUint8
	scalarUint16
	scalarUint32
	scalarUint64
	scalarFloat32
	scalarFloat64
	scalarComplex64
	scalarComplex128
	scalarString
	scalarUUID
	scalarTime
	scalarBigInt
)

// scalarOf reports the encoding for t, or false if t is not a scalar.
func scalarOf(t reflect.Type) (scalar, bool) {
	switch t {
	case uuidType:
		return scalarUUID, true
	case timeType:
		return scalarTime, true
	case bigIntType:
		return scalarBigInt, true
	}
	switch t.Kind() {
	case reflect.Bool:
		return scalarBool, true
	case reflect.Int8:
		return scalarInt8, true
	case reflect.Int16:
		return scalarInt16, true
	case reflect.Int32:
		return scalarInt32, true
	case reflect.Int, reflect.Int64:
		return scalarInt64, true
	case reflect.Uint8:
		return scalarUint8, true
	case reflect.Uint16:
		return scalarUint16, true
	case reflect.Uint32:
		return scalarUint32, true
	case reflect.Uint, reflect.Uint64:
		return scalarUint64, true
	case reflect.Float32:
		return scalarFloat32, true
	case reflect.Float64:
		return scalarFloat64, true
	case reflect.Complex64:
		return scalarComplex64, true
	case reflect.Complex128:
		return scalarComplex128, true
	case reflect.String:
		return scalarString, true
	}
	return 0, false
}

// isEnum reports whether t is a defined integer type.
func isEnum(t reflect.Type) bool {
	if t.PkgPath() == "" {
		return false
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

type scalarCodec struct {
	typ  reflect.Type
	kind Kind
	enc  scalar
}

func (c *scalarCodec) Kind() Kind         { return c.kind }
func (c *scalarCodec) Type() reflect.Type { return c.typ }
func (c *scalarCodec) Elems() []Codec     { return nil }

func (c *scalarCodec) Encode(e Encoder, v reflect.Value) error {
	w := e.Writer()
	switch c.enc {
	case scalarBool:
		return w.Bool(v.Bool())
	case scalarInt8:
		return w.Int8(int8(v.Int()))
	case scalarInt16:
		return w.Int16(int16(v.Int()))
	case scalarInt32:
		return w.Int32(int32(v.Int()))
	case scalarInt64:
		return w.Int64(v.Int())
	case scalarUint8:
		return w.Uint8(uint8(v.Uint()))
	case scalarUint16:
		return w.Uint16(uint16(v.Uint()))
	case scalarUint32:
		return w.Uint32(uint32(v.Uint()))
	case scalarUint64:
		return w.Uint64(v.Uint())
	case scalarFloat32:
		return w.Float32(float32(v.Float()))
	case scalarFloat64:
		return w.Float64(v.Float())
	case scalarComplex64:
		return w.Complex64(complex64(v.Complex()))
	case scalarComplex128:
		return w.Complex128(v.Complex())
	case scalarString:
		return w.Text(v.String())
	case scalarUUID:
		return w.UUID(v.Interface().(uuid.UUID))
	case scalarTime:
		return w.Time(v.Interface().(time.Time))
	case scalarBigInt:
		if v.CanAddr() {
			return w.BigInt(v.Addr().Interface().(*big.Int))
		}
		x := v.Interface().(big.Int)
		return w.BigInt(&x)
	}
	return nil
}

func (c *scalarCodec) Decode(d Decoder, v reflect.Value) error {
	r := d.Reader()
	switch c.enc {
	case scalarBool:
		x, err := r.Bool()
		if err == nil {
			v.SetBool(x)
		}
		return err
	case scalarInt8:
		x, err := r.Int8()
		if err == nil {
			v.SetInt(int64(x))
		}
		return err
	case scalarInt16:
		x, err := r.Int16()
		if err == nil {
			v.SetInt(int64(x))
		}
		return err
	case scalarInt32:
		x, err := r.Int32()
		if err == nil {
			v.SetInt(int64(x))
		}
		return err
	case scalarInt64:
		x, err := r.Int64()
		if err == nil {
			v.SetInt(x)
		}
		return err
	case scalarUint8:
		x, err := r.Uint8()
		if err == nil {
			v.SetUint(uint64(x))
		}
		return err
	case scalarUint16:
		x, err := r.Uint16()
		if err == nil {
			v.SetUint(uint64(x))
		}
		return err
	case scalarUint32:
		x, err := r.Uint32()
		if err == nil {
			v.SetUint(uint64(x))
		}
		return err
	case scalarUint64:
		x, err := r.Uint64()
		if err == nil {
			v.SetUint(x)
		}
		return err
	case scalarFloat32:
		x, err := r.Float32()
		if err == nil {
			v.SetFloat(float64(x))
		}
		return err
	case scalarFloat64:
		x, err := r.Float64()
		if err == nil {
			v.SetFloat(x)
		}
		return err
	case scalarComplex64:
		x, err := r.Complex64()
		if err == nil {
			v.SetComplex(complex128(x))
		}
		return err
	case scalarComplex128:
		x, err := r.Complex128()
		if err == nil {
			v.SetComplex(x)
		}
		return err
	case scalarString:
		x, err := r.Text()
		if err == nil {
			v.SetString(x)
		}
		return err
	case scalarUUID:
		x, err := r.UUID()
		if err == nil {
			v.Set(reflect.ValueOf(x))
		}
		return err
	case scalarTime:
		x, err := r.Time()
		if err == nil {
			v.Set(reflect.ValueOf(x))
		}
		return err
	case scalarBigInt:
		x, err := r.BigInt()
		if err == nil {
			v.Addr().Interface().(*big.Int).Set(x)
		}
		return err
	}
	return nil
}

// nullableCodec handles *T: a presence byte, then T when present.
type nullableCodec struct {
	typ   reflect.Type
	inner Codec
}

func (c *nullableCodec) Kind() Kind         { return KindNullable }
func (c *nullableCodec) Type() reflect.Type { return c.typ }
func (c *nullableCodec) Elems() []Codec     { return []Codec{c.inner} }

func (c *nullableCodec) Encode(e Encoder, v reflect.Value) error {
	if v.IsNil() {
		return e.Writer().Presence(false)
	}
	if err := e.Writer().Presence(true); err != nil {
		return err
	}
	return c.inner.Encode(e, v.Elem())
}

func (c *nullableCodec) Decode(d Decoder, v reflect.Value) error {
	ok, err := d.Reader().Presence()
	if err != nil {
		return err
	}
	if !ok {
		v.SetZero()
		return nil
	}
	p := reflect.New(c.typ.Elem())
	if err := c.inner.Decode(d, p.Elem()); err != nil {
		return err
	}
	v.Set(p)
	return nil
}

// sliceCodec handles []E: a presence byte, a count, then the elements.
type sliceCodec struct {
	typ  reflect.Type
	elem Codec
	raw  bool // byte-kind elements without a handler are copied in bulk
}

func (c *sliceCodec) Kind() Kind         { return KindSequence }
func (c *sliceCodec) Type() reflect.Type { return c.typ }
func (c *sliceCodec) Elems() []Codec     { return []Codec{c.elem} }

func (c *sliceCodec) Encode(e Encoder, v reflect.Value) error {
	w := e.Writer()
	if v.IsNil() {
		return w.Presence(false)
	}
	if err := w.Presence(true); err != nil {
		return err
	}
	n := v.Len()
	if err := w.Length(n); err != nil {
		return err
	}
	if c.raw {
		_, err := w.Write(v.Bytes())
		return err
	}
	for i := range n {
		if err := c.elem.Encode(e, v.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

func (c *sliceCodec) Decode(d Decoder, v reflect.Value) error {
	r := d.Reader()
	ok, err := r.Presence()
	if err != nil {
		return err
	}
	if !ok {
		v.SetZero()
		return nil
	}
	n, err := r.Length()
	if err != nil {
		return err
	}
	if c.raw {
		b, err := r.Bytes(n)
		if err != nil {
			return err
		}
		v.SetBytes(b)
		return nil
	}
	s := reflect.MakeSlice(c.typ, 0, min(n, maxPrealloc))
	zero := reflect.Zero(c.typ.Elem())
	for i := range n {
		s = reflect.Append(s, zero)
		if err := c.elem.Decode(d, s.Index(i)); err != nil {
			return err
		}
	}
	v.Set(s)
	return nil
}

// arrayCodec handles [N]E: a count, then exactly N elements. There is no
// presence byte since an array value always exists.
type arrayCodec struct {
	typ  reflect.Type
	elem Codec
}

func (c *arrayCodec) Kind() Kind         { return KindSequence }
func (c *arrayCodec) Type() reflect.Type { return c.typ }
func (c *arrayCodec) Elems() []Codec     { return []Codec{c.elem} }

func (c *arrayCodec) Encode(e Encoder, v reflect.Value) error {
	n := v.Len()
	if err := e.Writer().Length(n); err != nil {
		return err
	}
	for i := range n {
		if err := c.elem.Encode(e, v.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

func (c *arrayCodec) Decode(d Decoder, v reflect.Value) error {
	r := d.Reader()
	off := r.Offset()
	n, err := r.Length()
	if err != nil {
		return err
	}
	if n != c.typ.Len() {
		return &wire.MalformedLengthError{Length: uint64(n), Max: uint64(c.typ.Len()), Offset: off}
	}
	for i := range n {
		if err := c.elem.Decode(d, v.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

// mapCodec handles map[K]V: a presence byte, a count, then key/value pairs
// sorted by the encoded key bytes.
type mapCodec struct {
	typ        reflect.Type
	key, value Codec
}

func (c *mapCodec) Kind() Kind         { return KindMap }
func (c *mapCodec) Type() reflect.Type { return c.typ }
func (c *mapCodec) Elems() []Codec     { return []Codec{c.key, c.value} }

type mapEntry struct {
	key   []byte
	value reflect.Value
}

func (c *mapCodec) Encode(e Encoder, v reflect.Value) error {
	w := e.Writer()
	if v.IsNil() {
		return w.Presence(false)
	}
	if err := w.Presence(true); err != nil {
		return err
	}
	if err := w.Length(v.Len()); err != nil {
		return err
	}
	entries := make([]mapEntry, 0, v.Len())
	var kb wire.Buffer
	ke := e.With(wire.NewWriter(&kb))
	it := v.MapRange()
	for it.Next() {
		kb.Reset()
		if err := c.key.Encode(ke, it.Key()); err != nil {
			return err
		}
		entries = append(entries, mapEntry{key: bytes.Clone(kb.Bytes()), value: it.Value()})
	}
	slices.SortFunc(entries, func(a, b mapEntry) int { return bytes.Compare(a.key, b.key) })
	for _, ent := range entries {
		if _, err := w.Write(ent.key); err != nil {
			return err
		}
		if err := c.value.Encode(e, ent.value); err != nil {
			return err
		}
	}
	return nil
}

func (c *mapCodec) Decode(d Decoder, v reflect.Value) error {
	r := d.Reader()
	ok, err := r.Presence()
	if err != nil {
		return err
	}
	if !ok {
		v.SetZero()
		return nil
	}
	n, err := r.Length()
	if err != nil {
		return err
	}
	m := reflect.MakeMapWithSize(c.typ, min(n, maxPrealloc))
	for range n {
		k := reflect.New(c.typ.Key()).Elem()
		if err := c.key.Decode(d, k); err != nil {
			return err
		}
		val := reflect.New(c.typ.Elem()).Elem()
		if err := c.value.Decode(d, val); err != nil {
			return err
		}
		m.SetMapIndex(k, val)
	}
	v.Set(m)
	return nil
}

// handlerCodec delegates to a registered handler.
type handlerCodec struct {
	entry *registry.Entry
}

func (c *handlerCodec) Kind() Kind         { return KindCustom }
func (c *handlerCodec) Type() reflect.Type { return c.entry.Type }
func (c *handlerCodec) Elems() []Codec     { return nil }

func (c *handlerCodec) Encode(e Encoder, v reflect.Value) error {
	if err := c.entry.Serialize(e.Writer(), v); err != nil {
		return &HandlerError{Type: c.entry.Type, Err: err}
	}
	return nil
}

func (c *handlerCodec) Decode(d Decoder, v reflect.Value) error {
	if err := c.entry.Deserialize(d.Reader(), v); err != nil {
		return &HandlerError{Type: c.entry.Type, Err: err}
	}
	return nil
}

// structCodec handles a nested composite through the walker.
type structCodec struct {
	schema *TypeSchema
}

func (c *structCodec) Kind() Kind                              { return KindComposite }
func (c *structCodec) Type() reflect.Type                      { return c.schema.Type }
func (c *structCodec) Elems() []Codec                          { return nil }
func (c *structCodec) Schema() *TypeSchema                     { return c.schema }
func (c *structCodec) Encode(e Encoder, v reflect.Value) error { return e.EncodeStruct(c.schema, v) }
func (c *structCodec) Decode(d Decoder, v reflect.Value) error { return d.DecodeStruct(c.schema, v) }
