// Package engine walks an object graph along its resolved schema, writing or
// reading each retained member in order.
package engine

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/reoring/whoa/internal/schema"
	"github.com/reoring/whoa/wire"
)

// DefaultMaxDepth bounds struct nesting when no limit is configured.
const DefaultMaxDepth = 1000

// MaxDepthError is returned when struct nesting exceeds the configured limit,
// which is how a cyclic pointer graph surfaces.
type MaxDepthError struct {
	Max int
}

func (e *MaxDepthError) Error() string { return fmt.Sprintf("engine: max depth %d exceeded", e.Max) }

// PathError attaches the member path (JSON Pointer form) to a failure.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string { return e.Path + ": " + e.Err.Error() }
func (e *PathError) Unwrap() error { return e.Err }

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// atMember prefixes err's path with name as the error unwinds to the root.
func atMember(name string, err error) error {
	seg := "/" + pointerEscaper.Replace(name)
	if pe, ok := err.(*PathError); ok {
		pe.Path = seg + pe.Path
		return pe
	}
	return &PathError{Path: seg, Err: err}
}

func limit(maxDepth int) int {
	if maxDepth <= 0 {
		return DefaultMaxDepth
	}
	return maxDepth
}

// Encoder writes values through their codecs.
type Encoder struct {
	w     *wire.Writer
	depth int
	max   int
}

func NewEncoder(w *wire.Writer, maxDepth int) *Encoder {
	return &Encoder{w: w, max: limit(maxDepth)}
}

func (e *Encoder) Writer() *wire.Writer { return e.w }

// With returns an encoder writing to w at the current depth.
func (e *Encoder) With(w *wire.Writer) schema.Encoder {
	return &Encoder{w: w, depth: e.depth, max: e.max}
}

// Encode writes v with c. v may be a pointer to c's type.
func (e *Encoder) Encode(c schema.Codec, v reflect.Value) error {
	v, err := deref(c, v)
	if err != nil {
		return err
	}
	return c.Encode(e, v)
}

// EncodeStruct writes every retained member of v in schema order. Skipped
// members write nothing.
func (e *Encoder) EncodeStruct(ts *schema.TypeSchema, v reflect.Value) error {
	if e.depth >= e.max {
		return &MaxDepthError{Max: e.max}
	}
	e.depth++
	defer func() { e.depth-- }()

	for i := range ts.Members {
		m := &ts.Members[i]
		if m.Kind == schema.KindSkipped {
			continue
		}
		if err := m.Codec.Encode(e, m.Field(v)); err != nil {
			return atMember(m.Name, err)
		}
	}
	return nil
}

// Decoder reads values through their codecs.
type Decoder struct {
	r     *wire.Reader
	depth int
	max   int
}

func NewDecoder(r *wire.Reader, maxDepth int) *Decoder {
	return &Decoder{r: r, max: limit(maxDepth)}
}

func (d *Decoder) Reader() *wire.Reader { return d.r }

// Decode reads into v, which must be settable and of c's type, or a non-nil
// pointer to it.
func (d *Decoder) Decode(c schema.Codec, v reflect.Value) error {
	for v.Type() != c.Type() && v.Kind() == reflect.Pointer {
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		v = v.Elem()
	}
	if v.Type() != c.Type() {
		return &schema.InvalidTypeError{Type: v.Type()}
	}
	return c.Decode(d, v)
}

// DecodeStruct reads every retained member of v in schema order. Skipped
// members keep their current value.
func (d *Decoder) DecodeStruct(ts *schema.TypeSchema, v reflect.Value) error {
	if d.depth >= d.max {
		return &MaxDepthError{Max: d.max}
	}
	d.depth++
	defer func() { d.depth-- }()

	for i := range ts.Members {
		m := &ts.Members[i]
		if m.Kind == schema.KindSkipped {
			continue
		}
		if err := m.Codec.Decode(d, m.Field(v)); err != nil {
			return atMember(m.Name, err)
		}
	}
	return nil
}

// ErrNilRoot is returned when the value to encode is nil.
var ErrNilRoot = errors.New("engine: nil root value")

func deref(c schema.Codec, v reflect.Value) (reflect.Value, error) {
	if !v.IsValid() {
		return v, ErrNilRoot
	}
	for v.Type() != c.Type() && v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return v, ErrNilRoot
		}
		v = v.Elem()
	}
	if v.Type() != c.Type() {
		return v, &schema.InvalidTypeError{Type: v.Type()}
	}
	return v, nil
}
