package whoa

import (
	"bufio"
	"io"
	"log/slog"
	"reflect"

	"github.com/reoring/whoa/internal/engine"
	"github.com/reoring/whoa/internal/registry"
	"github.com/reoring/whoa/internal/schema"
	"github.com/reoring/whoa/wire"
)

// Schema model, re-exported for inspection.
type (
	TypeSchema       = schema.TypeSchema
	MemberDescriptor = schema.MemberDescriptor
	Kind             = schema.Kind
)

const (
	KindSkipped   = schema.KindSkipped
	KindPrimitive = schema.KindPrimitive
	KindEnum      = schema.KindEnum
	KindNullable  = schema.KindNullable
	KindSequence  = schema.KindSequence
	KindMap       = schema.KindMap
	KindCustom    = schema.KindCustom
	KindComposite = schema.KindComposite
)

// Engine owns a handler registry and a schema cache. It is safe for
// concurrent use; each call is synchronous and touches only the caller's
// stream.
type Engine struct {
	handlers  *registry.Registry
	cache     *schema.Cache
	logger    *slog.Logger
	maxDepth  int
	maxLength int
}

// EngineOption configures an Engine at construction.
type EngineOption func(*Engine)

// WithLogger routes debug records (schema builds, skipped members) to l.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMaxDepth bounds struct nesting during a walk. Non-positive values use
// the default of 1000.
func WithMaxDepth(n int) EngineOption { return func(e *Engine) { e.maxDepth = n } }

// WithMaxLength bounds every decoded length or count. Non-positive values use
// wire.DefaultMaxLength.
func WithMaxLength(n int) EngineOption { return func(e *Engine) { e.maxLength = n } }

// New creates an Engine with an empty handler registry.
func New(opts ...EngineOption) *Engine {
	e := &Engine{
		handlers: registry.New(),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(e)
	}
	e.cache = schema.NewCache(e.handlers, e.logger)
	return e
}

// Serialize writes v to w. v must be a struct, a non-nil pointer to one, or a
// value whose type has a registered handler. Nothing frames the output: the
// stream holds exactly the member encodings in schema order. On failure w
// may hold partial output.
func (e *Engine) Serialize(w io.Writer, v any, opts Options) error {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return toIssues(ErrNilRoot)
	}
	codec, err := e.cache.Root(rv.Type(), opts.internal())
	if err != nil {
		return toIssues(err)
	}
	bw := bufio.NewWriter(w)
	ww := wire.NewWriter(bw)
	if err := engine.NewEncoder(ww, e.maxDepth).Encode(codec, rv); err != nil {
		return toIssues(err)
	}
	if err := bw.Flush(); err != nil {
		return toIssues(err)
	}
	e.logger.Debug("serialized", "type", rv.Type().String(), "bytes", ww.Offset())
	return nil
}

// DeserializeInto reads one value from r into the value ptr points to. The
// source is consumed exactly up to the end of the value. On failure the
// target may be partially written and should be discarded.
func (e *Engine) DeserializeInto(r io.Reader, ptr any, opts Options) error {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		var t reflect.Type
		if rv.IsValid() {
			t = rv.Type()
		}
		return toIssues(&InvalidTypeError{Type: t})
	}
	target := rv.Elem()
	codec, err := e.cache.Root(target.Type(), opts.internal())
	if err != nil {
		return toIssues(err)
	}
	wr := wire.NewReader(r)
	wr.SetMaxLength(e.maxLength)
	if err := engine.NewDecoder(wr, e.maxDepth).Decode(codec, target); err != nil {
		return toIssues(err)
	}
	e.logger.Debug("deserialized", "type", target.Type().String(), "bytes", wr.Offset())
	return nil
}

// SchemaOf returns the cached schema for struct type t, building it on first
// use.
func (e *Engine) SchemaOf(t reflect.Type, opts Options) (*TypeSchema, error) {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return nil, toIssues(&InvalidTypeError{})
	}
	ts, err := e.cache.Get(t, opts.internal())
	if err != nil {
		return nil, toIssues(err)
	}
	return ts, nil
}

// Warmup builds the schemas of the given values' types up front, so
// configuration errors surface at startup rather than on first use.
func (e *Engine) Warmup(opts Options, values ...any) error {
	for _, v := range values {
		if _, err := e.SchemaOf(reflect.TypeOf(v), opts); err != nil {
			return err
		}
	}
	return nil
}

// DeserializeWith reads a T from r using e. When T is a pointer type the
// pointee is allocated. On failure the partial value is discarded and the
// zero T is returned.
func DeserializeWith[T any](e *Engine, r io.Reader, opts Options) (T, error) {
	var v T
	if err := e.DeserializeInto(r, &v, opts); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// Serialize writes v to w using the default engine.
func Serialize(w io.Writer, v any, opts Options) error { return Default().Serialize(w, v, opts) }

// DeserializeInto reads into ptr using the default engine.
func DeserializeInto(r io.Reader, ptr any, opts Options) error {
	return Default().DeserializeInto(r, ptr, opts)
}

// Deserialize reads a T from r using the default engine.
func Deserialize[T any](r io.Reader, opts Options) (T, error) {
	return DeserializeWith[T](Default(), r, opts)
}

// SchemaOf returns the schema of t from the default engine.
func SchemaOf(t reflect.Type, opts Options) (*TypeSchema, error) { return Default().SchemaOf(t, opts) }
