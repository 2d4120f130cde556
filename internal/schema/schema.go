// Package schema builds and caches the per-type member layout that drives
// serialization.
//
// A TypeSchema is resolved once per (type, options) pair. Every member is
// classified into a Kind and bound to a Codec at build time, so encoding a value
// never inspects types again. Member order is the wire contract: writer and
// reader stay aligned only because both resolve the same schema.
package schema

import (
	"reflect"

	"github.com/reoring/whoa/wire"
)

// Options mirrors the public serialization options bitmask.
type Options uint32

const (
	Strict        Options = 0
	NonSerialized Options = 1 << 0
)

func (o Options) lenient() bool { return o&NonSerialized != 0 }

// Kind is the semantic classification of a member or element.
type Kind uint8

const (
	KindSkipped Kind = iota
	KindPrimitive
	KindEnum
	KindNullable
	KindSequence
	KindMap
	KindCustom
	KindComposite
)

func (k Kind) String() string {
	switch k {
	case KindSkipped:
		return "skipped"
	case KindPrimitive:
		return "primitive"
	case KindEnum:
		return "enum"
	case KindNullable:
		return "nullable"
	case KindSequence:
		return "sequence"
	case KindMap:
		return "map"
	case KindCustom:
		return "custom"
	case KindComposite:
		return "composite"
	}
	return "unknown"
}

// TypeSchema is the immutable ordered member layout of a struct type.
type TypeSchema struct {
	Type    reflect.Type
	Options Options
	Members []MemberDescriptor
}

// MemberDescriptor describes one exported field. Name is diagnostic only and
// never written to the stream.
type MemberDescriptor struct {
	Name  string
	Type  reflect.Type
	Kind  Kind
	Codec Codec // nil for KindSkipped
	index int
}

// Field is the accessor pair of the member: the returned value reads the
// current field value and, when owner is addressable, is settable to write a
// new one.
func (m *MemberDescriptor) Field(owner reflect.Value) reflect.Value { return owner.Field(m.index) }

// Nested returns the schema of a Composite member, or nil.
func (m *MemberDescriptor) Nested() *TypeSchema {
	if c, ok := m.Codec.(interface{ Schema() *TypeSchema }); ok {
		return c.Schema()
	}
	return nil
}

// Retained reports the number of members that are not skipped.
func (ts *TypeSchema) Retained() int {
	n := 0
	for i := range ts.Members {
		if ts.Members[i].Kind != KindSkipped {
			n++
		}
	}
	return n
}

// Encoder is the write-side environment a Codec runs in. Composite codecs call
// back into EncodeStruct; With redirects output, for example to pre-encode
// map keys.
type Encoder interface {
	Writer() *wire.Writer
	EncodeStruct(ts *TypeSchema, v reflect.Value) error
	With(w *wire.Writer) Encoder
}

// Decoder is the read-side counterpart of Encoder.
type Decoder interface {
	Reader() *wire.Reader
	DecodeStruct(ts *TypeSchema, v reflect.Value) error
}

// Codec encodes and decodes one classified type. Decode writes into v, which
// is always settable.
type Codec interface {
	Kind() Kind
	Type() reflect.Type
	// Elems returns the wrapped codecs: the inner value of a nullable, the
	// element of a sequence, the key and value of a map.
	Elems() []Codec
	Encode(e Encoder, v reflect.Value) error
	Decode(d Decoder, v reflect.Value) error
}
