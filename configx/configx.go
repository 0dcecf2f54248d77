// Package configx provides layered configuration assembled from defaults,
// .env files and environment variables. Later sources override earlier ones.
package configx

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Config represents the main configuration interface
type Config interface {
	// Get retrieves a configuration value by key
	Get(key string) Value

	// Has checks if a configuration key exists with a non-empty value
	Has(key string) bool

	// AllSettings returns all settings as a map
	AllSettings() map[string]string
}

// Source represents a configuration source
type Source interface {
	// Load loads configuration values from the source
	Load() (map[string]string, error)

	// Name returns the name of the source
	Name() string

	// Priority returns the priority of the source (higher values override lower)
	Priority() int
}

// Value wraps a configuration value and provides type conversion methods
type Value interface {
	// IsSet returns true if the value exists and is non-empty
	IsSet() bool

	// AsString returns the value as a string
	AsString() string

	// AsStringDefault returns the value as a string or a default value
	AsStringDefault(def string) string

	// AsInt returns the value as an int
	AsInt() int

	// AsIntDefault returns the value as an int or a default value
	AsIntDefault(def int) int

	// AsBool returns the value as a bool
	AsBool() bool

	// AsBoolDefault returns the value as a bool or a default value
	AsBoolDefault(def bool) bool

	// AsDuration returns the value as a duration
	AsDuration() time.Duration

	// AsDurationDefault returns the value as a duration or a default value
	AsDurationDefault(def time.Duration) time.Duration
}

// Builder provides a fluent API for building configuration
type Builder interface {
	// FromEnv adds an environment variable source
	FromEnv(prefix string) Builder

	// FromDotEnv adds a .env file source; a missing file is not an error
	FromDotEnv(path string) Builder

	// WithDefaults adds default values at the lowest priority
	WithDefaults(defaults map[string]string) Builder

	// Require specifies keys that must be present after all sources load
	Require(keys ...string) Builder

	// Build loads all sources and returns the configuration
	Build() (Config, error)
}

type builder struct {
	sources  []Source
	required []string
}

// NewBuilder creates a new configuration builder
func NewBuilder() Builder {
	return &builder{}
}

func (b *builder) FromEnv(prefix string) Builder {
	b.sources = append(b.sources, NewEnvSource(prefix, 20))
	return b
}

func (b *builder) FromDotEnv(path string) Builder {
	b.sources = append(b.sources, NewDotEnvSource(path, 10))
	return b
}

func (b *builder) WithDefaults(defaults map[string]string) Builder {
	b.sources = append(b.sources, NewMapSource(defaults, "defaults", 0))
	return b
}

func (b *builder) Require(keys ...string) Builder {
	b.required = append(b.required, keys...)
	return b
}

func (b *builder) Build() (Config, error) {
	sources := make([]Source, len(b.sources))
	copy(sources, b.sources)
	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].Priority() < sources[j].Priority()
	})

	values := make(map[string]string)
	for _, source := range sources {
		loaded, err := source.Load()
		if err != nil {
			return nil, fmt.Errorf("config source %s: %w", source.Name(), err)
		}
		for k, v := range loaded {
			if v != "" {
				values[k] = v
			}
		}
	}

	cfg := &configuration{values: values}

	for _, key := range b.required {
		if !cfg.Has(key) {
			return nil, fmt.Errorf("required configuration key %s is not set", key)
		}
	}

	return cfg, nil
}

// configuration is the concrete implementation of Config
type configuration struct {
	values map[string]string
}

func (c *configuration) Get(key string) Value {
	v, ok := c.values[key]
	return &value{raw: v, set: ok && v != ""}
}

func (c *configuration) Has(key string) bool {
	return c.Get(key).IsSet()
}

func (c *configuration) AllSettings() map[string]string {
	out := make(map[string]string, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

type value struct {
	raw string
	set bool
}

func (v *value) IsSet() bool {
	return v.set
}

func (v *value) AsString() string {
	return v.raw
}

func (v *value) AsStringDefault(def string) string {
	if !v.set {
		return def
	}
	return v.raw
}

func (v *value) AsInt() int {
	i, _ := strconv.Atoi(v.raw)
	return i
}

func (v *value) AsIntDefault(def int) int {
	if !v.set {
		return def
	}
	if i, err := strconv.Atoi(v.raw); err == nil {
		return i
	}
	return def
}

func (v *value) AsBool() bool {
	b, _ := strconv.ParseBool(v.raw)
	return b
}

func (v *value) AsBoolDefault(def bool) bool {
	if !v.set {
		return def
	}
	if b, err := strconv.ParseBool(v.raw); err == nil {
		return b
	}
	return def
}

func (v *value) AsDuration() time.Duration {
	d, _ := time.ParseDuration(v.raw)
	return d
}

func (v *value) AsDurationDefault(def time.Duration) time.Duration {
	if !v.set {
		return def
	}
	if d, err := time.ParseDuration(v.raw); err == nil {
		return d
	}
	return def
}
