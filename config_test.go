package whoa_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/reoring/whoa"
)

func TestLoadConfig_Formats(t *testing.T) {
	want := whoa.Config{Options: whoa.NonSerialized, MaxDepth: 64, MaxLength: 1 << 20, LogLevel: "debug"}

	cases := map[string]string{
		"yaml": "options: nonserialized\nmax_depth: 64\nmax_length: 1048576\nlog_level: debug\n",
		"toml": "options = \"nonserialized\"\nmax_depth = 64\nmax_length = 1048576\nlog_level = \"debug\"\n",
		"json": `{"options":"nonserialized","max_depth":64,"max_length":1048576,"log_level":"debug"}`,
	}
	for format, body := range cases {
		got, err := whoa.LoadConfig(strings.NewReader(body), format)
		require.NoError(t, err, format)
		assert.Equal(t, want, got, format)
	}
}

func TestLoadConfig_YAMLOptionList(t *testing.T) {
	got, err := whoa.LoadConfig(strings.NewReader("options: [strict, NonSerialized]\n"), "yml")
	require.NoError(t, err)
	assert.Equal(t, whoa.NonSerialized, got.Options)

	_, err = whoa.LoadConfig(strings.NewReader("options: {a: b}\n"), "yaml")
	assert.Error(t, err)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := whoa.LoadConfig(strings.NewReader("options: sometimes\n"), "yaml")
	assert.Error(t, err)

	_, err = whoa.LoadConfig(strings.NewReader("max_depth = -1\n"), "toml")
	assert.Error(t, err)

	_, err = whoa.LoadConfig(strings.NewReader(""), "ini")
	assert.Error(t, err)

	// empty documents are an empty config
	got, err := whoa.LoadConfig(strings.NewReader(""), "yaml")
	require.NoError(t, err)
	assert.Equal(t, whoa.Config{}, got)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "whoa.toml")
	require.NoError(t, os.WriteFile(path, []byte("max_depth = 3\n"), 0o600))

	c, err := whoa.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, c.MaxDepth)

	e, err := whoa.NewFromConfig(c)
	require.NoError(t, err)

	type deep struct{ Next *deep }
	d := &deep{Next: &deep{Next: &deep{Next: &deep{}}}}
	err = e.Serialize(new(strings.Builder), d, whoa.Strict)
	iss, ok := whoa.AsIssues(err)
	require.True(t, ok, "expected depth failure, got %v", err)
	assert.Equal(t, whoa.CodeMaxDepth, iss[0].Code)

	_, err = whoa.NewFromConfig(whoa.Config{LogLevel: "loud"})
	assert.Error(t, err)
}

func TestOptions_Text(t *testing.T) {
	assert.Equal(t, "strict", whoa.Strict.String())
	assert.Equal(t, "nonserialized", whoa.NonSerialized.String())
	assert.Equal(t, "nonserialized|0x8", (whoa.NonSerialized | 8).String())

	var o whoa.Options
	require.NoError(t, o.UnmarshalText([]byte("Strict | nonserialized")))
	assert.Equal(t, whoa.NonSerialized, o)
	require.NoError(t, o.UnmarshalText([]byte("strict")))
	assert.Equal(t, whoa.Strict, o)

	b, err := yaml.Marshal(whoa.Config{Options: whoa.NonSerialized})
	require.NoError(t, err)
	assert.Contains(t, string(b), "options: nonserialized")
}
