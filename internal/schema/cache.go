package schema

import (
	"log/slog"
	"maps"
	"reflect"
	"sync"
	"sync/atomic"
)

// Cache memoizes schemas per (type, options). Reads are lock-free against an
// immutable map; builds are serialized and publish a new map on success, so a
// reader never observes a partial schema.
type Cache struct {
	handlers Handlers
	logger   *slog.Logger

	mu  sync.Mutex
	ptr atomic.Pointer[map[schemaKey]*TypeSchema]
}

// NewCache creates an empty cache. logger may be nil.
func NewCache(handlers Handlers, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Cache{handlers: handlers, logger: logger}
	m := make(map[schemaKey]*TypeSchema)
	c.ptr.Store(&m)
	return c
}

// Get returns the schema of struct type t, building and committing it and every
// schema it references on first use.
func (c *Cache) Get(t reflect.Type, opts Options) (*TypeSchema, error) {
	if t.Kind() != reflect.Struct || opaque(t) {
		return nil, &InvalidTypeError{Type: t}
	}
	key := schemaKey{t, opts}
	if ts, ok := (*c.ptr.Load())[key]; ok {
		return ts, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.ptr.Load()
	if ts, ok := (*m)[key]; ok {
		return ts, nil
	}

	p := &pass{
		handlers:  c.handlers,
		logger:    c.logger,
		opts:      opts,
		committed: *m,
		pending:   map[reflect.Type]*TypeSchema{},
	}
	ts, err := p.structSchema(t, "")
	if err != nil {
		c.logger.Debug("schema build failed", "type", t.String(), "options", uint32(opts), "error", err)
		return nil, err
	}

	next := make(map[schemaKey]*TypeSchema, len(*m)+len(p.pending))
	maps.Copy(next, *m)
	for typ, built := range p.pending {
		next[schemaKey{typ, opts}] = built
		c.logger.Debug("schema built", "type", typ.String(), "options", uint32(opts), "members", len(built.Members))
	}
	c.ptr.Store(&next)
	return ts, nil
}

// Root resolves the codec for a top-level value of type t: a registered
// handler, or the composite codec of a struct. Pointer types resolve to
// their element.
func (c *Cache) Root(t reflect.Type, opts Options) (Codec, error) {
	if c.handlers != nil {
		if e, ok := c.handlers.Lookup(t); ok {
			return &handlerCodec{entry: e}, nil
		}
	}
	if t.Kind() == reflect.Pointer {
		return c.Root(t.Elem(), opts)
	}
	ts, err := c.Get(t, opts)
	if err != nil {
		return nil, err
	}
	return &structCodec{schema: ts}, nil
}

// Len reports the number of committed schemas.
func (c *Cache) Len() int { return len(*c.ptr.Load()) }
