package whoa

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/whoa/i18n"
)

// Config is the file form of an engine configuration.
//
//	options: nonserialized
//	max_depth: 64
//	max_length: 1048576
//	log_level: debug
//	language: ja
type Config struct {
	Options   Options `yaml:"options" toml:"options" json:"options"`
	MaxDepth  int     `yaml:"max_depth" toml:"max_depth" json:"max_depth"`
	MaxLength int     `yaml:"max_length" toml:"max_length" json:"max_length"`
	LogLevel  string  `yaml:"log_level" toml:"log_level" json:"log_level"`
	Language  string  `yaml:"language" toml:"language" json:"language"`
}

// LoadConfig decodes a Config from r. format is "yaml", "yml", "toml" or
// "json".
func LoadConfig(r io.Reader, format string) (Config, error) {
	var c Config
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&c); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("whoa: yaml config: %w", err)
		}
	case "toml":
		if _, err := toml.NewDecoder(r).Decode(&c); err != nil {
			return Config{}, fmt.Errorf("whoa: toml config: %w", err)
		}
	case "json":
		if err := gojson.NewDecoder(r).Decode(&c); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("whoa: json config: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("whoa: unknown config format %q", format)
	}
	if c.MaxDepth < 0 || c.MaxLength < 0 {
		return Config{}, errors.New("whoa: max_depth and max_length must not be negative")
	}
	return c, nil
}

// LoadConfigFile reads a Config from path, choosing the format by extension.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	return LoadConfig(f, filepath.Ext(path))
}

// EngineOptions projects the configuration onto engine options. A non-empty
// log_level installs a text logger on stderr at that level.
func (c Config) EngineOptions() ([]EngineOption, error) {
	opts := []EngineOption{WithMaxDepth(c.MaxDepth), WithMaxLength(c.MaxLength)}
	if c.LogLevel != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
			return nil, fmt.Errorf("whoa: log_level: %w", err)
		}
		opts = append(opts, WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))))
	}
	return opts, nil
}

// NewFromConfig builds an Engine from c. extra options apply last. A
// non-empty language switches the process-wide message language.
func NewFromConfig(c Config, extra ...EngineOption) (*Engine, error) {
	opts, err := c.EngineOptions()
	if err != nil {
		return nil, err
	}
	if c.Language != "" {
		i18n.SetLanguage(c.Language)
	}
	return New(append(opts, extra...)...), nil
}
