package platform

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/containerd/errdefs"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the credentials file.
const ConfigFileName = ".trello"

// Environment variables read by FromEnv.
const (
	EnvKey     = "TRELLO_KEY"
	EnvToken   = "TRELLO_TOKEN"
	EnvBoard   = "TRELLO_BOARD"
	EnvBaseURL = "TRELLO_BASE_URL"
)

// ErrMissingSetting is returned by Config.Validate for a required setting no layer provided.
var ErrMissingSetting = errdefs.ErrInvalidArgument.WithMessage("missing setting")

// Setting is one configuration value together with whether a layer set it.
// An explicitly set empty value still counts as set.
type Setting[T any] struct {
	Value T
	Set   bool
}

// Of returns a set Setting.
func Of[T any](v T) Setting[T] {
	return Setting[T]{Value: v, Set: true}
}

// Or returns s when it is set and fallback otherwise.
func (s Setting[T]) Or(fallback Setting[T]) Setting[T] {
	if s.Set {
		return s
	}
	return fallback
}

// Config is one layer of configuration: flags, environment or file.
type Config struct {
	Key     Setting[string]
	Token   Setting[string]
	Board   Setting[string]
	BaseURL Setting[string]
}

// Resolve merges layers field by field; the first layer that sets a field wins.
func Resolve(layers ...Config) Config {
	var out Config
	for _, l := range layers {
		out.Key = out.Key.Or(l.Key)
		out.Token = out.Token.Or(l.Token)
		out.Board = out.Board.Or(l.Board)
		out.BaseURL = out.BaseURL.Or(l.BaseURL)
	}
	return out
}

// Validate reports the first required setting that is missing or empty.
func (c Config) Validate() error {
	required := []struct {
		name string
		s    Setting[string]
	}{
		{"key", c.Key},
		{"token", c.Token},
		{"board", c.Board},
	}
	for _, r := range required {
		if !r.s.Set || r.s.Value == "" {
			return fmt.Errorf("%w: %s (use --%s, %s or %s)", ErrMissingSetting, r.name, r.name, envFor(r.name), ConfigFileName)
		}
	}
	return nil
}

func envFor(name string) string {
	return "TRELLO_" + strings.ToUpper(name)
}

// FromEnv builds a layer from environment variables. A nil lookup uses
// os.LookupEnv. An empty variable counts as unset, so it never hides the file.
func FromEnv(lookup func(string) (string, bool)) Config {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(name string) Setting[string] {
		if v, ok := lookup(name); ok && v != "" {
			return Of(v)
		}
		return Setting[string]{}
	}
	return Config{
		Key:     get(EnvKey),
		Token:   get(EnvToken),
		Board:   get(EnvBoard),
		BaseURL: get(EnvBaseURL),
	}
}

// fileConfig is the on-disk shape of the credentials file. JSON is valid YAML,
// so both encodings are accepted.
type fileConfig struct {
	Key     *string `yaml:"key"`
	Token   *string `yaml:"token"`
	Board   *string `yaml:"board"`
	BaseURL *string `yaml:"base_url"`
}

// LoadFile reads a credentials file. A missing file is an empty layer.
func LoadFile(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	from := func(p *string) Setting[string] {
		if p == nil {
			return Setting[string]{}
		}
		return Of(*p)
	}
	return Config{
		Key:     from(fc.Key),
		Token:   from(fc.Token),
		Board:   from(fc.Board),
		BaseURL: from(fc.BaseURL),
	}, nil
}
