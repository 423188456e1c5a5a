package root

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindConfigFound(t *testing.T) {
	root := t.TempDir()
	want := filepath.Join(root, "steward.yaml")
	if err := os.WriteFile(want, []byte("profiles: []\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	sub := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir sub: %v", err)
	}

	got, found, err := FindConfig(sub, "steward.yaml")
	if err != nil {
		t.Fatalf("FindConfig error: %v", err)
	}
	if !found {
		t.Fatalf("expected config to be found")
	}
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestFindConfigPrefersNearest(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "nested")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir sub: %v", err)
	}
	for _, dir := range []string{root, sub} {
		if err := os.WriteFile(filepath.Join(dir, "steward.yaml"), []byte("x"), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
	}

	got, _, err := FindConfig(sub, "steward.yaml")
	if err != nil {
		t.Fatalf("FindConfig error: %v", err)
	}
	if got != filepath.Join(sub, "steward.yaml") {
		t.Fatalf("expected nearest config, got %s", got)
	}
}

func TestFindConfigMissing(t *testing.T) {
	got, found, err := FindConfig(t.TempDir(), "steward-missing-config.yaml")
	if err != nil {
		t.Fatalf("FindConfig error: %v", err)
	}
	if found {
		t.Fatalf("expected not found, got %s", got)
	}
}

func TestFindConfigDirectoryError(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "steward.yaml"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if _, _, err := FindConfig(root, "steward.yaml"); err == nil {
		t.Fatalf("expected error for directory steward.yaml")
	}
}

func TestFindConfigRequiresStartPath(t *testing.T) {
	if _, _, err := FindConfig("", "steward.yaml"); err == nil {
		t.Fatal("expected FindConfig to reject empty start")
	}
}
