package schema

import (
	"cmp"
	"log/slog"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/reoring/whoa/internal/registry"
)

// Handlers resolves registered custom handlers by exact type.
type Handlers interface {
	Lookup(t reflect.Type) (*registry.Entry, bool)
}

type schemaKey struct {
	typ  reflect.Type
	opts Options
}

// pass is one build run. Schemas created during the pass stay in pending until
// the whole graph resolves; a failure discards all of them.
type pass struct {
	handlers  Handlers
	logger    *slog.Logger
	opts      Options
	committed map[schemaKey]*TypeSchema
	pending   map[reflect.Type]*TypeSchema
	visiting  map[reflect.Type]bool
}

func (p *pass) lookup(t reflect.Type) (*TypeSchema, bool) {
	if ts, ok := p.pending[t]; ok {
		return ts, true
	}
	ts, ok := p.committed[schemaKey{t, p.opts}]
	return ts, ok
}

// structSchema returns the schema of struct type t, building it if needed. A
// schema already pending is returned as is so recursive types terminate.
func (p *pass) structSchema(t reflect.Type, path string) (*TypeSchema, error) {
	if ts, ok := p.lookup(t); ok {
		return ts, nil
	}
	ts := &TypeSchema{Type: t, Options: p.opts}
	p.pending[t] = ts

	// container recursion is only finite through a struct, so each struct
	// starts a fresh chain
	outer := p.visiting
	p.visiting = nil
	defer func() { p.visiting = outer }()

	type candidate struct {
		m   MemberDescriptor
		tag fieldTag
	}
	var (
		cands    []candidate
		anyOrder bool
	)
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag, err := parseTag(t, sf)
		if err != nil {
			return nil, err
		}
		if tag.skip {
			continue
		}
		anyOrder = anyOrder || tag.hasOrder
		m := MemberDescriptor{Name: tag.name, Type: sf.Type, index: i}
		memberPath := path + "/" + escapePointer(tag.name)
		c, err := p.codecFor(sf.Type, t, memberPath)
		switch {
		case err == nil:
			m.Kind, m.Codec = c.Kind(), c
		case isUnsupported(err) && p.opts.lenient():
			p.logger.Debug("member skipped", "type", t.String(), "member", sf.Name, "member_type", sf.Type.String())
			m.Kind = KindSkipped
		default:
			return nil, err
		}
		cands = append(cands, candidate{m: m, tag: tag})
	}

	if anyOrder {
		seen := make(map[int]string, len(cands))
		for _, c := range cands {
			if !c.tag.hasOrder {
				return nil, &InvalidTagError{Owner: t, Member: c.m.Name, Reason: "order is required on every member once any member declares one"}
			}
			if prev, dup := seen[c.tag.order]; dup {
				return nil, &InvalidTagError{Owner: t, Member: c.m.Name, Reason: "order " + strconv.Itoa(c.tag.order) + " already used by " + prev}
			}
			seen[c.tag.order] = c.m.Name
		}
		slices.SortFunc(cands, func(a, b candidate) int { return cmp.Compare(a.tag.order, b.tag.order) })
	}

	ts.Members = make([]MemberDescriptor, len(cands))
	for i, c := range cands {
		ts.Members[i] = c.m
	}
	return ts, nil
}

// codecFor classifies t. Handlers take precedence over every structural rule.
func (p *pass) codecFor(t, owner reflect.Type, path string) (Codec, error) {
	if p.handlers != nil {
		if e, ok := p.handlers.Lookup(t); ok {
			return &handlerCodec{entry: e}, nil
		}
	}
	if enc, ok := scalarOf(t); ok {
		kind := KindPrimitive
		if isEnum(t) {
			kind = KindEnum
		}
		return &scalarCodec{typ: t, kind: kind, enc: enc}, nil
	}

	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Map:
		// a container type that contains itself without an intervening struct
		// (type L []L) has no finite layout
		if p.visiting[t] {
			return nil, &UnsupportedMemberError{Owner: owner, Path: path, Type: t}
		}
		if p.visiting == nil {
			p.visiting = map[reflect.Type]bool{}
		}
		p.visiting[t] = true
		defer delete(p.visiting, t)
	}

	switch t.Kind() {
	case reflect.Pointer:
		inner, err := p.codecFor(t.Elem(), owner, path)
		if err != nil {
			return nil, err
		}
		return &nullableCodec{typ: t, inner: inner}, nil
	case reflect.Slice:
		elem, err := p.codecFor(t.Elem(), owner, path)
		if err != nil {
			return nil, err
		}
		_, custom := elem.(*handlerCodec)
		return &sliceCodec{typ: t, elem: elem, raw: t.Elem().Kind() == reflect.Uint8 && !custom}, nil
	case reflect.Array:
		elem, err := p.codecFor(t.Elem(), owner, path)
		if err != nil {
			return nil, err
		}
		return &arrayCodec{typ: t, elem: elem}, nil
	case reflect.Map:
		key, err := p.codecFor(t.Key(), owner, path)
		if err != nil {
			return nil, err
		}
		value, err := p.codecFor(t.Elem(), owner, path)
		if err != nil {
			return nil, err
		}
		return &mapCodec{typ: t, key: key, value: value}, nil
	case reflect.Struct:
		if opaque(t) {
			break
		}
		ts, err := p.structSchema(t, path)
		if err != nil {
			return nil, err
		}
		return &structCodec{schema: ts}, nil
	}
	return nil, &UnsupportedMemberError{Owner: owner, Path: path, Type: t}
}

// opaque reports a struct whose state is entirely unexported. Such a type has
// no layout to serialize; struct{} is an empty composite, not opaque.
func opaque(t reflect.Type) bool {
	if t.NumField() == 0 {
		return false
	}
	for i := range t.NumField() {
		if t.Field(i).IsExported() {
			return false
		}
	}
	return true
}

func isUnsupported(err error) bool {
	_, ok := err.(*UnsupportedMemberError)
	return ok
}

// escapePointer escapes a member name for use in a JSON Pointer path (RFC 6901).
func escapePointer(s string) string {
	if !strings.ContainsAny(s, "~/") {
		return s
	}
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(s)
}
