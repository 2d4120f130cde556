package whoa

import (
	"errors"
	"reflect"

	"github.com/reoring/whoa/codec"
	"github.com/reoring/whoa/internal/registry"
	"github.com/reoring/whoa/wire"
)

// RegisterHandlerWith installs a serialize/deserialize pair for exactly type T
// on e. T may be an interface type (io.Reader), which then matches members
// whose static type is that interface. Handlers are consulted before any
// structural rule, for members, elements, map keys and values, and the root.
// A schema built before registration keeps its previous layout.
func RegisterHandlerWith[T any](e *Engine, ser func(*wire.Writer, T) error, de func(*wire.Reader) (T, error)) error {
	if ser == nil || de == nil {
		return errors.New("whoa: handler needs both functions")
	}
	err := e.handlers.Register(registry.Entry{
		Type: reflect.TypeFor[T](),
		Serialize: func(w *wire.Writer, v reflect.Value) error {
			x, _ := v.Interface().(T)
			return ser(w, x)
		},
		Deserialize: func(r *wire.Reader, v reflect.Value) error {
			x, err := de(r)
			if err != nil {
				return err
			}
			v.Set(reflect.ValueOf(&x).Elem())
			return nil
		},
	})
	if err == nil {
		e.logger.Debug("handler registered", "type", reflect.TypeFor[T]().String())
	}
	return err
}

// RegisterCodec installs a typed codec as the handler for T on e.
func RegisterCodec[T any](e *Engine, c codec.Codec[T]) error {
	return RegisterHandlerWith(e, c.Encode, c.Decode)
}

// RegisterHandler installs a handler for T on the default engine.
func RegisterHandler[T any](ser func(*wire.Writer, T) error, de func(*wire.Reader) (T, error)) error {
	return RegisterHandlerWith(Default(), ser, de)
}

// MustRegisterHandler is like RegisterHandler but panics on error. Use it from
// init functions.
func MustRegisterHandler[T any](ser func(*wire.Writer, T) error, de func(*wire.Reader) (T, error)) {
	if err := RegisterHandler(ser, de); err != nil {
		panic(err)
	}
}
