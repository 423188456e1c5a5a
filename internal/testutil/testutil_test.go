package testutil

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/conn-castle/steward/internal/change"
	"github.com/conn-castle/steward/internal/platform"
	"github.com/conn-castle/steward/internal/repository"
)

func TestRepoParsesAttributes(t *testing.T) {
	repo := Repo(t, "acme/api", `{"description":"api","has_wiki":true}`, repository.User{Username: "carol", Role: "admin"})

	if repo.Path() != "acme/api" {
		t.Fatalf("expected path acme/api, got %q", repo.Path())
	}
	if got := repo.Attributes().Keys(); len(got) != 2 || got[0] != "description" {
		t.Fatalf("unexpected attribute keys %v", got)
	}
	if !repo.Users().Has("carol") {
		t.Fatal("expected carol among users")
	}
}

func TestFakeClientRecordsFetchesAndChanges(t *testing.T) {
	repo := Repo(t, "acme/api", `{}`)
	client := &FakeClient{Repos: []*repository.Repository{repo}}

	got, err := client.Repositories(context.Background(), platform.FetchOptions{Users: true})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 repository, got %d", len(got))
	}
	ch := change.NewAttributeUpdate("description", nil, "api")
	if err := client.Apply(context.Background(), repo, ch); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if fetches := client.Fetches(); len(fetches) != 1 || !fetches[0].Users {
		t.Fatalf("unexpected fetches %+v", fetches)
	}
	applied := client.AppliedChanges()
	if len(applied) != 1 || applied[0].Repository != "acme/api" {
		t.Fatalf("unexpected applied %+v", applied)
	}
}

func TestFakeClientApplyErr(t *testing.T) {
	repo := Repo(t, "acme/api", `{}`)
	boom := errors.New("boom")
	client := &FakeClient{ApplyErr: func(*repository.Repository, change.Change) error { return boom }}

	err := client.Apply(context.Background(), repo, change.NewAttributeUpdate("description", nil, "x"))
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if len(client.AppliedChanges()) != 0 {
		t.Fatal("expected no recorded change")
	}
}

func TestFakeClientCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&FakeClient{}).Repositories(ctx, platform.FetchOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := WriteFile(t, dir, "steward.yaml", "profiles: []\n")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "profiles: []\n" {
		t.Fatalf("unexpected content %q", data)
	}
	if path != filepath.Join(dir, "steward.yaml") {
		t.Fatalf("unexpected path %q", path)
	}
}

func TestWithWorkingDirRunsInTargetDirectoryAndRestoresOriginal(t *testing.T) {
	targetDir := t.TempDir()
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd before test: %v", err)
	}

	var observedDir string
	WithWorkingDir(t, targetDir, func() {
		wd, innerErr := os.Getwd()
		if innerErr != nil {
			t.Fatalf("getwd inside callback: %v", innerErr)
		}
		observedDir = wd
	})

	targetReal, err := filepath.EvalSymlinks(targetDir)
	if err != nil {
		targetReal = targetDir
	}
	observedReal, err := filepath.EvalSymlinks(observedDir)
	if err != nil {
		observedReal = observedDir
	}
	if observedReal != targetReal {
		t.Fatalf("expected callback cwd %q (real %q), got %q (real %q)", targetDir, targetReal, observedDir, observedReal)
	}

	finalDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd after callback: %v", err)
	}
	origReal, err := filepath.EvalSymlinks(origDir)
	if err != nil {
		origReal = origDir
	}
	finalReal, err := filepath.EvalSymlinks(finalDir)
	if err != nil {
		finalReal = finalDir
	}
	if finalReal != origReal {
		t.Fatalf("expected cwd restored to %q (real %q), got %q (real %q)", origDir, origReal, finalDir, finalReal)
	}
}
