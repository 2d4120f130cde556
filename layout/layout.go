// Package layout is a serialisable description of a resolved type layout,
// used for diagnostics and documentation.
package layout

import (
	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Node describes one member or element. Composite nodes list their members
// in wire order; a composite already described higher up the tree is
// referenced by type name instead of being expanded again.
type Node struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	Kind string `json:"kind" yaml:"kind"`
	Type string `json:"type" yaml:"type"`

	// Nullable / Sequence
	Elem *Node `json:"elem,omitempty" yaml:"elem,omitempty"`

	// Map
	Key   *Node `json:"key,omitempty" yaml:"key,omitempty"`
	Value *Node `json:"value,omitempty" yaml:"value,omitempty"`

	// Composite
	Members []*Node `json:"members,omitempty" yaml:"members,omitempty"`
	Ref     string  `json:"ref,omitempty" yaml:"ref,omitempty"`
}

// JSON renders the tree as indented JSON.
func (n *Node) JSON() ([]byte, error) { return gojson.MarshalIndent(n, "", "  ") }

// YAML renders the tree as YAML.
func (n *Node) YAML() ([]byte, error) { return yaml.Marshal(n) }

// Walk calls fn for n and every node below it, depth first. Returning false
// stops descent into that node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	n.Elem.Walk(fn)
	n.Key.Walk(fn)
	n.Value.Walk(fn)
	for _, m := range n.Members {
		m.Walk(fn)
	}
}
