// Package envfile reads dotenv files that hold platform tokens outside the
// governance configuration.
package envfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/conn-castle/steward/internal/messages"
)

// DefaultPath is the dotenv file consulted when none is given explicitly.
const DefaultPath = ".env"

// Parse decodes dotenv content into key/value pairs.
func Parse(content string) (map[string]string, error) {
	values, err := godotenv.Unmarshal(content)
	if err != nil {
		return nil, fmt.Errorf(messages.EnvfileParseFailedFmt, err)
	}
	return values, nil
}

// Load reads the dotenv file at path. When optional is true a missing file
// yields an empty set instead of an error.
func Load(path string, optional bool) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf(messages.EnvfileReadFailedFmt, path, err)
	}
	values, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf(messages.EnvfileInFileFmt, path, err)
	}
	return values, nil
}

// Lookup returns an environment lookup that consults env first and falls
// back to values. The process environment always wins over the file.
func Lookup(values map[string]string, env func(string) (string, bool)) func(string) (string, bool) {
	return func(name string) (string, bool) {
		if env != nil {
			if v, ok := env(name); ok {
				return v, true
			}
		}
		v, ok := values[name]
		return v, ok
	}
}
