package whoa_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/whoa"
	"github.com/reoring/whoa/layout"
)

type tree struct {
	Label    string `json:"label"`
	Children []*tree
	Attrs    map[string]int16
	Skip     func() `whoa:"-"`
}

func TestDescribe_Tree(t *testing.T) {
	n, err := whoa.New().Describe(reflect.TypeFor[tree](), whoa.Strict)
	require.NoError(t, err)

	assert.Equal(t, "composite", n.Kind)
	require.Len(t, n.Members, 3)
	assert.Equal(t, "label", n.Members[0].Name)
	assert.Equal(t, "sequence", n.Members[1].Kind)
	assert.Equal(t, "nullable", n.Members[1].Elem.Kind)
	// the recursive reference is not expanded again
	assert.Equal(t, reflect.TypeFor[tree]().String(), n.Members[1].Elem.Elem.Ref)
	assert.Equal(t, "map", n.Members[2].Kind)
	assert.Equal(t, "int16", n.Members[2].Value.Type)

	js, err := n.JSON()
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(js), `"kind": "map"`), string(js))
}

func TestDescribe_SkippedMembers(t *testing.T) {
	n, err := whoa.Describe(reflect.TypeFor[withSkipped](), whoa.NonSerialized)
	require.NoError(t, err)

	var kinds []string
	n.Walk(func(c *layout.Node) bool {
		kinds = append(kinds, c.Kind)
		return true
	})
	assert.Equal(t, []string{"composite", "primitive", "skipped", "primitive"}, kinds)
}
