package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/conn-castle/steward/internal/change"
	"github.com/conn-castle/steward/internal/platform"
	"github.com/conn-castle/steward/internal/repository"
)

// Repo builds a repository snapshot from a JSON attribute document.
// t is the active test; path is "namespace/name"; attrs is a JSON object.
func Repo(t *testing.T, path string, attrs string, users ...repository.User) *repository.Repository {
	t.Helper()
	parsed, err := repository.ParseAttributes([]byte(attrs))
	if err != nil {
		t.Fatalf("parse attributes for %s: %v", path, err)
	}
	return repository.New(repository.Snapshot{Path: path, Attributes: parsed, Users: users})
}

// Applied records one change submitted to a FakeClient.
type Applied struct {
	Repository string
	Change     change.Change
}

// FakeClient is an in-memory platform.Client.
// It records fetch options and applied changes and is safe for concurrent use.
type FakeClient struct {
	SchemaValue repository.Schema
	Repos       []*repository.Repository
	FetchErr    error

	// ApplyErr, when set, is consulted before recording each change.
	ApplyErr func(repo *repository.Repository, ch change.Change) error

	mu      sync.Mutex
	fetches []platform.FetchOptions
	applied []Applied
}

// Schema implements platform.Client.
func (c *FakeClient) Schema() repository.Schema { return c.SchemaValue }

// Repositories implements platform.Client.
func (c *FakeClient) Repositories(ctx context.Context, opts platform.FetchOptions) ([]*repository.Repository, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.fetches = append(c.fetches, opts)
	c.mu.Unlock()
	if c.FetchErr != nil {
		return nil, c.FetchErr
	}
	return append([]*repository.Repository{}, c.Repos...), nil
}

// Apply implements platform.Client.
func (c *FakeClient) Apply(_ context.Context, repo *repository.Repository, ch change.Change) error {
	if c.ApplyErr != nil {
		if err := c.ApplyErr(repo, ch); err != nil {
			return err
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applied = append(c.applied, Applied{Repository: repo.Path(), Change: ch})
	return nil
}

// Fetches returns the options of every Repositories call so far.
func (c *FakeClient) Fetches() []platform.FetchOptions {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]platform.FetchOptions{}, c.fetches...)
}

// AppliedChanges returns every change applied so far, in order.
func (c *FakeClient) AppliedChanges() []Applied {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Applied{}, c.applied...)
}

// WriteFile writes content to dir/name and returns the full path.
// t is the active test; dir is the output directory; name is the file name.
func WriteFile(t *testing.T, dir string, name string, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// WithWorkingDir runs fn with dir as the current working directory and restores the previous directory.
// t is the active test; dir is the temporary working directory for fn.
func WithWorkingDir(t *testing.T, dir string, fn func()) {
	t.Helper()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer func() {
		if err := os.Chdir(cwd); err != nil {
			t.Fatalf("restore chdir: %v", err)
		}
	}()
	fn()
}
