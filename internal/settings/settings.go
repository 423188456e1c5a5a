// Package settings loads per-user tool settings: HTTP pacing, retries,
// concurrency, and log verbosity. They are read from a TOML file and may be
// overridden by STEWARD_* environment variables.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/conn-castle/steward/internal/messages"
)

// DefaultPath is the settings file location before home expansion.
const DefaultPath = "~/.config/steward/settings.toml"

// Settings are tool-wide knobs that do not belong in a governance config.
type Settings struct {
	// Concurrency bounds how many profiles load at once.
	Concurrency int `toml:"concurrency" env:"STEWARD_CONCURRENCY"`
	// Verbosity is the logr V-level that is printed.
	Verbosity int      `toml:"verbosity" env:"STEWARD_VERBOSITY"`
	HTTP      HTTP     `toml:"http"`
	Warnings  Warnings `toml:"warnings"`
}

// Warnings configures advisory output.
type Warnings struct {
	// NoiseMode is "default", "reduce" or "quiet".
	NoiseMode string `toml:"noise_mode" env:"STEWARD_WARNINGS_NOISE_MODE"`
}

// HTTP configures platform API access.
type HTTP struct {
	MaxRetries        int     `toml:"max_retries" env:"STEWARD_HTTP_MAX_RETRIES"`
	RequestsPerSecond float64 `toml:"requests_per_second" env:"STEWARD_HTTP_REQUESTS_PER_SECOND"`
	TimeoutSeconds    int     `toml:"timeout_seconds" env:"STEWARD_HTTP_TIMEOUT_SECONDS"`
	UserAgent         string  `toml:"user_agent" env:"STEWARD_HTTP_USER_AGENT"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Concurrency: 4,
		HTTP: HTTP{
			MaxRetries:        3,
			RequestsPerSecond: 10,
			TimeoutSeconds:    30,
			UserAgent:         "steward",
		},
		Warnings: Warnings{NoiseMode: "default"},
	}
}

// Path expands path, or DefaultPath when path is empty.
func Path(path string) (string, error) {
	if path == "" {
		path = DefaultPath
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf(messages.SettingsHomeFailedFmt, err)
	}
	return filepath.Clean(expanded), nil
}

// Load reads settings from path, falling back to defaults when the file does
// not exist, then applies environment overrides.
func Load(path string) (Settings, error) {
	resolved, err := Path(path)
	if err != nil {
		return Settings{}, err
	}
	s := Default()
	data, err := os.ReadFile(resolved)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Settings{}, fmt.Errorf(messages.SettingsReadFailedFmt, resolved, err)
	default:
		if s, err = Parse(data, resolved); err != nil {
			return Settings{}, err
		}
	}
	if err := cleanenv.ReadEnv(&s); err != nil {
		return Settings{}, fmt.Errorf(messages.SettingsEnvInvalidFmt, err)
	}
	return s, s.Validate()
}

// Parse decodes TOML settings over the defaults. Unknown keys are rejected.
func Parse(data []byte, source string) (Settings, error) {
	s := Default()
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&s); err != nil {
		return Settings{}, fmt.Errorf(messages.SettingsInvalidFmt, source, err)
	}
	return s, nil
}

// Validate rejects values no client can work with.
func (s Settings) Validate() error {
	if s.Concurrency <= 0 {
		return fmt.Errorf(messages.SettingsConcurrencyFmt, s.Concurrency)
	}
	if s.HTTP.MaxRetries < 0 {
		return fmt.Errorf(messages.SettingsRetriesFmt, s.HTTP.MaxRetries)
	}
	if s.HTTP.RequestsPerSecond < 0 {
		return fmt.Errorf(messages.SettingsRateLimitFmt, s.HTTP.RequestsPerSecond)
	}
	return nil
}
