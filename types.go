package whoa

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/reoring/whoa/internal/schema"
)

// Options is the serialization options bitmask. Writer and reader must use
// the same options or the stream is misread silently.
type Options uint32

const (
	// Strict (the zero value) fails on any member with no usable layout.
	Strict Options = Options(schema.Strict)
	// NonSerialized silently skips members with no usable layout, on both
	// sides.
	NonSerialized Options = Options(schema.NonSerialized)
)

var optionNames = []struct {
	name string
	bit  Options
}{
	{"nonserialized", NonSerialized},
}

// String renders the options as "strict" or a "|"-joined list of flags.
func (o Options) String() string {
	if o == Strict {
		return "strict"
	}
	var parts []string
	rest := o
	for _, n := range optionNames {
		if o&n.bit != 0 {
			parts = append(parts, n.name)
			rest &^= n.bit
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint32(rest)))
	}
	return strings.Join(parts, "|")
}

// MarshalText implements encoding.TextMarshaler.
func (o Options) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// UnmarshalText accepts flag names separated by "|" or ",", case-insensitive.
func (o *Options) UnmarshalText(b []byte) error {
	var out Options
	for _, p := range strings.FieldsFunc(string(b), func(r rune) bool { return r == '|' || r == ',' }) {
		p = strings.ToLower(strings.TrimSpace(p))
		switch p {
		case "", "strict":
			continue
		}
		found := false
		for _, n := range optionNames {
			if n.name == p {
				out |= n.bit
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("whoa: unknown option %q", p)
		}
	}
	*o = out
	return nil
}

// UnmarshalYAML accepts either a scalar ("nonserialized") or a sequence of
// flag names.
func (o *Options) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		return o.UnmarshalText([]byte(n.Value))
	case yaml.SequenceNode:
		var names []string
		if err := n.Decode(&names); err != nil {
			return err
		}
		return o.UnmarshalText([]byte(strings.Join(names, "|")))
	}
	return fmt.Errorf("whoa: options must be a string or a list, line %d", n.Line)
}

func (o Options) internal() schema.Options { return schema.Options(o) }
