package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/conn-castle/steward/internal/messages"
)

// ErrConfigValidation is a sentinel that wraps config validation failures
// (as opposed to YAML syntax, filesystem, or other loading errors).
// Callers can use errors.Is(err, ErrConfigValidation) to distinguish
// validation problems from other LoadConfig failure modes.
var ErrConfigValidation = errors.New("config validation failed")

// LoadConfig reads a governance config file and validates it.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigMissingFileFmt, path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses and validates config YAML data from a source identifier.
// data is the YAML content; source is used in error messages.
func ParseConfig(data []byte, source string) (*Config, error) {
	cfg, err := ParseConfigLenient(data, source)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(source); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigValidation, err)
	}
	return cfg, nil
}

// ParseConfigLenient parses config YAML data without validation. Unknown keys
// are still rejected because they are almost always typos of real keys.
func ParseConfigLenient(data []byte, source string) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf(messages.ConfigInvalidConfigFmt, source, err)
	}
	return &cfg, nil
}

// Profile returns the profile named name.
func (c *Config) Profile(name string) (ProfileConfig, bool) {
	for _, p := range c.Profiles {
		if normalizeName(p.Name) == normalizeName(name) {
			return p, true
		}
	}
	return ProfileConfig{}, false
}

// ResolveToken returns the inline token or the value of the named
// environment variable. lookup defaults to os.LookupEnv.
func (a AuthConfig) ResolveToken(lookup func(string) (string, bool)) (string, error) {
	if a.Token != "" {
		return a.Token, nil
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}
	token, ok := lookup(a.TokenEnv)
	if !ok || token == "" {
		return "", fmt.Errorf(messages.ConfigTokenEnvUnsetFmt, a.TokenEnv)
	}
	return token, nil
}
