// Package root locates the governance configuration by walking up from a
// starting directory.
package root

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/conn-castle/steward/internal/messages"
)

// FindConfig searches start and its parents for a regular file called name.
// It returns the absolute path and true when found. A directory named name
// is an error rather than a miss.
func FindConfig(start string, name string) (string, bool, error) {
	if start == "" {
		return "", false, errors.New(messages.RootStartPathRequired)
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false, fmt.Errorf(messages.RootResolvePathFmt, start, err)
	}
	for {
		candidate := filepath.Join(dir, name)
		info, err := os.Stat(candidate)
		switch {
		case err == nil && info.Mode().IsRegular():
			return candidate, true, nil
		case err == nil:
			return "", false, fmt.Errorf(messages.RootPathNotFileFmt, candidate)
		case !errors.Is(err, fs.ErrNotExist):
			return "", false, fmt.Errorf(messages.RootCheckPathFmt, candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}
