// Package registry maps concrete types to externally supplied codecs for types
// that have no usable field layout.
package registry

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/reoring/whoa/wire"
)

// ErrRegistered is returned when a type already has a handler. Registration is
// append-only.
var ErrRegistered = errors.New("registry: handler already registered")

// Entry is a serialize/deserialize pair for one exact type. Deserialize
// receives a settable value of that type.
type Entry struct {
	Type        reflect.Type
	Serialize   func(w *wire.Writer, v reflect.Value) error
	Deserialize func(r *wire.Reader, v reflect.Value) error
}

// Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[reflect.Type]*Entry
}

func New() *Registry { return &Registry{entries: map[reflect.Type]*Entry{}} }

// Register adds e keyed by e.Type.
func (r *Registry) Register(e Entry) error {
	if e.Type == nil || e.Serialize == nil || e.Deserialize == nil {
		return errors.New("registry: entry needs a type and both functions")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[e.Type]; ok {
		return fmt.Errorf("%w: %s", ErrRegistered, e.Type)
	}
	r.entries[e.Type] = &e
	return nil
}

// Lookup returns the entry registered for exactly t.
func (r *Registry) Lookup(t reflect.Type) (*Entry, bool) {
	r.mu.RLock()
	e, ok := r.entries[t]
	r.mu.RUnlock()
	return e, ok
}

// Len reports the number of registered types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
