package whoa

import (
	"reflect"

	"github.com/reoring/whoa/internal/schema"
	"github.com/reoring/whoa/layout"
)

// Describe projects the schema of t into a layout tree listing every member
// in wire order with its kind and bound codec.
func (e *Engine) Describe(t reflect.Type, opts Options) (*layout.Node, error) {
	ts, err := e.SchemaOf(t, opts)
	if err != nil {
		return nil, err
	}
	return describeSchema(ts, map[reflect.Type]bool{}), nil
}

// Describe uses the default engine.
func Describe(t reflect.Type, opts Options) (*layout.Node, error) { return Default().Describe(t, opts) }

func describeSchema(ts *schema.TypeSchema, seen map[reflect.Type]bool) *layout.Node {
	n := &layout.Node{Kind: schema.KindComposite.String(), Type: ts.Type.String()}
	if seen[ts.Type] {
		n.Ref = ts.Type.String()
		return n
	}
	seen[ts.Type] = true
	defer delete(seen, ts.Type)

	n.Members = make([]*layout.Node, 0, len(ts.Members))
	for i := range ts.Members {
		m := &ts.Members[i]
		var child *layout.Node
		if m.Codec == nil {
			child = &layout.Node{Kind: m.Kind.String(), Type: m.Type.String()}
		} else {
			child = describeCodec(m.Codec, seen)
		}
		child.Name = m.Name
		n.Members = append(n.Members, child)
	}
	return n
}

func describeCodec(c schema.Codec, seen map[reflect.Type]bool) *layout.Node {
	if sc, ok := c.(interface{ Schema() *schema.TypeSchema }); ok {
		return describeSchema(sc.Schema(), seen)
	}
	n := &layout.Node{Kind: c.Kind().String(), Type: c.Type().String()}
	elems := c.Elems()
	switch c.Kind() {
	case schema.KindNullable, schema.KindSequence:
		n.Elem = describeCodec(elems[0], seen)
	case schema.KindMap:
		n.Key = describeCodec(elems[0], seen)
		n.Value = describeCodec(elems[1], seen)
	}
	return n
}
