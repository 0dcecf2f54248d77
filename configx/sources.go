package configx

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables source
// ===========================

// EnvSource loads configuration from environment variables
type EnvSource struct {
	prefix   string
	priority int
}

// NewEnvSource creates a new environment variable source
func NewEnvSource(prefix string, priority int) Source {
	return &EnvSource{
		prefix:   prefix,
		priority: priority,
	}
}

// Load loads configuration values from environment variables
func (s *EnvSource) Load() (map[string]string, error) {
	result := make(map[string]string)

	for _, env := range os.Environ() {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key, val := parts[0], parts[1]

		if s.prefix != "" {
			if !strings.HasPrefix(key, s.prefix) {
				continue
			}
			key = strings.TrimPrefix(key, s.prefix)
		}

		result[key] = val
	}

	return result, nil
}

// Name returns the name of the source
func (s *EnvSource) Name() string {
	return fmt.Sprintf("env(%s)", s.prefix)
}

// Priority returns the priority of the source
func (s *EnvSource) Priority() int {
	return s.priority
}

// DotEnv file source
// ===========================

// DotEnvSource loads configuration from a .env file
type DotEnvSource struct {
	path     string
	priority int
}

// NewDotEnvSource creates a new .env file source
func NewDotEnvSource(path string, priority int) Source {
	return &DotEnvSource{
		path:     path,
		priority: priority,
	}
}

// Load loads configuration values from a .env file. A missing file yields an
// empty map so a .env stays optional in every environment.
func (s *DotEnvSource) Load() (map[string]string, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return map[string]string{}, nil
	}

	values, err := godotenv.Read(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	return values, nil
}

// Name returns the name of the source
func (s *DotEnvSource) Name() string {
	return fmt.Sprintf("dotenv(%s)", s.path)
}

// Priority returns the priority of the source
func (s *DotEnvSource) Priority() int {
	return s.priority
}

// Map source
// ===========================

// MapSource loads configuration from a static map
type MapSource struct {
	values   map[string]string
	name     string
	priority int
}

// NewMapSource creates a new map source
func NewMapSource(values map[string]string, name string, priority int) Source {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return &MapSource{
		values:   copied,
		name:     name,
		priority: priority,
	}
}

// Load loads configuration values from the map
func (s *MapSource) Load() (map[string]string, error) {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out, nil
}

// Name returns the name of the source
func (s *MapSource) Name() string {
	return s.name
}

// Priority returns the priority of the source
func (s *MapSource) Priority() int {
	return s.priority
}
