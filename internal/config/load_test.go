package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
profiles:
  - type: gitlab
    name: work
    client:
      auth:
        token_env: STEWARD_TEST_TOKEN
      options:
        group: platform
        archived: false
    templates:
      strict:
        filter:
          path: platform/api
          topics: [go, service]
        target:
          attribute:
            visibility: private
            merge_method: ff
          user:
            alice:
              role: maintainer
      default:
        filter:
          visibility: public
        target:
          attribute:
            description: managed
`

func TestParseConfigKeepsDeclarationOrder(t *testing.T) {
	cfg, err := ParseConfig([]byte(sampleConfig), "steward.yaml")
	require.NoError(t, err)
	require.Len(t, cfg.Profiles, 1)

	profile := cfg.Profiles[0]
	assert.Equal(t, "gitlab", profile.Type)
	assert.Equal(t, "platform", profile.Client.Option("group"))
	assert.False(t, profile.Client.BoolOption("archived", true))
	assert.True(t, profile.Client.BoolOption("missing", true))
	assert.Equal(t, []string{"strict", "default"}, profile.Templates.Keys())

	strict, ok := profile.Templates.Get("strict")
	require.True(t, ok)
	assert.Equal(t, []string{"path", "topics"}, strict.Filter.Keys())
	topics, _ := strict.Filter.Get("topics")
	assert.Equal(t, []any{"go", "service"}, topics)
	assert.Equal(t, []string{"visibility", "merge_method"}, strict.Target.Attribute.Keys())
	require.NotNil(t, strict.Target.User)
	alice, ok := strict.Target.User.Get("alice")
	require.True(t, ok)
	assert.Equal(t, "maintainer", alice.Role)

	def, _ := profile.Templates.Get("default")
	assert.Nil(t, def.Target.User, "templates without a user block leave collaborators unmanaged")
}

func TestParseConfigRejectsUnknownKeys(t *testing.T) {
	data := strings.Replace(sampleConfig, "filter:\n          visibility", "filters:\n          visibility", 1)

	_, err := ParseConfig([]byte(data), "steward.yaml")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "filters")
	assert.False(t, errors.Is(err, ErrConfigValidation))
}

func TestParseConfigRejectsDuplicateTemplate(t *testing.T) {
	data := sampleConfig + `      strict:
        target:
          attribute:
            archived: true
`

	_, err := ParseConfig([]byte(data), "steward.yaml")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `"strict"`)
}

func TestParseConfigEmptyFails(t *testing.T) {
	_, err := ParseConfig(nil, "steward.yaml")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfigValidation))
	assert.Contains(t, err.Error(), "at least one profile")
}

func TestParseConfigLenientSkipsValidation(t *testing.T) {
	cfg, err := ParseConfigLenient([]byte("profiles:\n  - name: x\n"), "steward.yaml")

	require.NoError(t, err)
	require.Len(t, cfg.Profiles, 1)
	assert.Equal(t, 0, cfg.Profiles[0].Templates.Len())
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steward.yaml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if _, ok := cfg.Profile("work"); !ok {
		t.Fatalf("expected profile work")
	}
	if _, ok := cfg.Profile("missing"); ok {
		t.Fatalf("unexpected profile missing")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "missing config file") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestProfileLookupNormalizesName(t *testing.T) {
	cfg := &Config{Profiles: []ProfileConfig{{Name: "ｗｏｒｋ"}}}

	_, ok := cfg.Profile(" work ")

	assert.True(t, ok)
}

func TestResolveToken(t *testing.T) {
	token, err := AuthConfig{Token: "inline"}.ResolveToken(nil)
	require.NoError(t, err)
	assert.Equal(t, "inline", token)

	lookup := func(name string) (string, bool) {
		if name == "TOKEN" {
			return "from-env", true
		}
		return "", false
	}
	token, err = AuthConfig{TokenEnv: "TOKEN"}.ResolveToken(lookup)
	require.NoError(t, err)
	assert.Equal(t, "from-env", token)

	_, err = AuthConfig{TokenEnv: "OTHER"}.ResolveToken(lookup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OTHER")
}

func TestMapOfDropsDuplicates(t *testing.T) {
	m := MapOf([]string{"b", "a", "b"}, map[string]int{"a": 1, "b": 2})

	assert.Equal(t, []string{"b", "a"}, m.Keys())
	v, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}
