package profile

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/steward/internal/change"
	"github.com/conn-castle/steward/internal/config"
	"github.com/conn-castle/steward/internal/platform"
	"github.com/conn-castle/steward/internal/repository"
	"github.com/conn-castle/steward/internal/testutil"
)

const governance = `
profiles:
  - type: github
    name: oss
    client:
      auth:
        token: secret
    templates:
      services:
        filter:
          topics: service
        target:
          attribute:
            has_wiki: false
      docs:
        filter:
          path: acme/docs
        target:
          attribute:
            description: Documentation
  - type: gitlab
    name: work
    client:
      auth:
        token: secret
    templates:
      team:
        filter:
          users: "@=match('^ali', property)"
        target:
          attribute:
            description: owned
          user:
            alice:
              role: maintainer
`

var schema = repository.Schema{
	Platform:   "github",
	Attributes: []string{"description", "has_wiki"},
	ReadOnly:   []string{"stargazers_count"},
}

func loadConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.ParseConfig([]byte(governance), "steward.yaml")
	require.NoError(t, err)
	return cfg
}

func profileConfig(t *testing.T, name string) config.ProfileConfig {
	t.Helper()
	p, ok := loadConfig(t).Profile(name)
	require.True(t, ok)
	return p
}

func fakeClient(t *testing.T) *testutil.FakeClient {
	t.Helper()
	return &testutil.FakeClient{
		SchemaValue: schema,
		Repos: []*repository.Repository{
			repository.New(repository.Snapshot{Path: "acme/api", Topics: []string{"service"}, Attributes: mustAttrs(t, `{"description":"api","has_wiki":true}`)}),
			repository.New(repository.Snapshot{Path: "acme/docs", Attributes: mustAttrs(t, `{"description":"docs","has_wiki":true}`)}),
			repository.New(repository.Snapshot{Path: "tools/cli", Topics: []string{"service"}, Attributes: mustAttrs(t, `{"description":"cli","has_wiki":false}`)}),
		},
	}
}

func mustAttrs(t *testing.T, doc string) repository.Attributes {
	t.Helper()
	attrs, err := repository.ParseAttributes([]byte(doc))
	require.NoError(t, err)
	return attrs
}

func TestLoadBuildsTemplatesInOrder(t *testing.T) {
	client := fakeClient(t)

	p, err := Load(context.Background(), profileConfig(t, "oss"), client, logr.Discard())

	require.NoError(t, err)
	assert.Equal(t, "oss", p.Name())
	assert.Equal(t, "github", p.Platform())
	assert.Equal(t, 3, p.Repositories().Len())
	templates := p.Templates()
	require.Len(t, templates, 2)
	assert.Equal(t, "services", templates[0].Name())
	assert.Equal(t, []string{"acme/api", "tools/cli"}, templates[0].Repositories().Names())
	assert.Equal(t, "docs", templates[1].Name())
	assert.Equal(t, []platform.FetchOptions{{}}, client.Fetches())
}

func TestLoadRejectsUnknownFilterPropertyBeforeFetching(t *testing.T) {
	cfg := profileConfig(t, "oss")
	tmpl, _ := cfg.Templates.Get("services")
	tmpl.Filter = config.MapOf([]string{"has_wikk"}, map[string]any{"has_wikk": true})
	cfg.Templates = config.MapOf([]string{"services"}, map[string]config.TemplateConfig{"services": tmpl})
	client := fakeClient(t)

	_, err := Load(context.Background(), cfg, client, logr.Discard())

	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrUnknownProperty)
	assert.Contains(t, err.Error(), `profile "oss": template "services"`)
	assert.Contains(t, err.Error(), "has_wiki")
	assert.Empty(t, client.Fetches())
}

func TestLoadRequestsUsersWhenReferenced(t *testing.T) {
	client := fakeClient(t)

	_, err := Load(context.Background(), profileConfig(t, "work"), client, logr.Discard())

	require.NoError(t, err)
	assert.Equal(t, []platform.FetchOptions{{Users: true}}, client.Fetches())
}

func TestValidateReportsFetchOptions(t *testing.T) {
	cfg := profileConfig(t, "oss")
	cfg.Templates = config.MapOf([]string{"lang"}, map[string]config.TemplateConfig{
		"lang": {Filter: config.MapOf([]string{"name"}, map[string]any{"name": "@=property == 'x' or match('^go$', repository.languages)"})},
	})

	opts, err := Validate(cfg, schema)

	require.NoError(t, err)
	assert.True(t, opts.Languages)
	assert.False(t, opts.Users)
}

func TestValidateRequestsDetailsForDetailedAttributes(t *testing.T) {
	detailed := schema
	detailed.Attributes = append([]string{"delete_branch_on_merge"}, schema.Attributes...)
	detailed.Detailed = []string{"delete_branch_on_merge"}
	cfg := profileConfig(t, "oss")

	opts, err := Validate(cfg, detailed)
	require.NoError(t, err)
	assert.False(t, opts.Details)

	cfg.Templates = config.MapOf([]string{"merge"}, map[string]config.TemplateConfig{
		"merge": {Target: config.TargetConfig{Attribute: config.MapOf([]string{"delete_branch_on_merge"}, map[string]any{"delete_branch_on_merge": true})}},
	})
	opts, err = Validate(cfg, detailed)
	require.NoError(t, err)
	assert.True(t, opts.Details)

	cfg.Templates = config.MapOf([]string{"merge"}, map[string]config.TemplateConfig{
		"merge": {Filter: config.MapOf([]string{"path"}, map[string]any{"path": "@=repository.delete_branch_on_merge == false"})},
	})
	opts, err = Validate(cfg, detailed)
	require.NoError(t, err)
	assert.True(t, opts.Details)
}

func TestLoadWrapsFetchError(t *testing.T) {
	client := fakeClient(t)
	client.FetchErr = errors.New("connection refused")

	_, err := Load(context.Background(), profileConfig(t, "oss"), client, logr.Discard())

	require.Error(t, err)
	assert.Contains(t, err.Error(), `profile "oss": fetch repositories: connection refused`)
}

func TestPlanAndApply(t *testing.T) {
	client := fakeClient(t)
	p, err := Load(context.Background(), profileConfig(t, "oss"), client, logr.Discard())
	require.NoError(t, err)

	pl, err := p.Plan()
	require.NoError(t, err)
	require.False(t, pl.Empty())

	var observed []string
	applied, err := p.Apply(context.Background(), pl, func(repo *repository.Repository, ch change.Change) {
		observed = append(observed, repo.Path()+":"+ch.Name())
	})

	require.NoError(t, err)
	assert.Equal(t, 2, applied)
	assert.Equal(t, []string{"acme/api:has_wiki", "acme/docs:description"}, observed)
	got := client.AppliedChanges()
	require.Len(t, got, 2)
	assert.Equal(t, "acme/api", got[0].Repository)
}

func TestApplyStopsAtFailure(t *testing.T) {
	client := fakeClient(t)
	client.ApplyErr = func(*repository.Repository, change.Change) error { return errors.New("forbidden") }
	p, err := Load(context.Background(), profileConfig(t, "oss"), client, logr.Discard())
	require.NoError(t, err)
	pl, err := p.Plan()
	require.NoError(t, err)

	applied, err := p.Apply(context.Background(), pl, nil)

	require.Error(t, err)
	assert.Equal(t, 0, applied)
	assert.Empty(t, client.AppliedChanges())
}

func TestSummary(t *testing.T) {
	p, err := Load(context.Background(), profileConfig(t, "oss"), fakeClient(t), logr.Discard())
	require.NoError(t, err)

	s := p.Summary()

	assert.Equal(t, "oss", s.Profile)
	assert.Equal(t, 3, s.Repositories)
	assert.Equal(t, []NamespaceCount{{Namespace: "acme", Repositories: 2}, {Namespace: "tools", Repositories: 1}}, s.Namespaces)
	assert.Equal(t, []TemplateCount{{Template: "services", Repositories: 2}, {Template: "docs", Repositories: 1}}, s.Templates)
}

func TestSelect(t *testing.T) {
	cfg := loadConfig(t)

	all, err := Select(cfg, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	one, err := Select(cfg, []string{"work"})
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "work", one[0].Name)

	_, err = Select(cfg, []string{"missing"})
	assert.EqualError(t, err, `profile "missing" is not configured`)
}

func TestLoadAllKeepsOrder(t *testing.T) {
	cfg := loadConfig(t)
	var calls atomic.Int32
	connect := func(config.ProfileConfig) (platform.Client, error) {
		calls.Add(1)
		return fakeClient(t), nil
	}

	profiles, err := LoadAll(context.Background(), cfg.Profiles, connect, 1, logr.Discard())

	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "oss", profiles[0].Name())
	assert.Equal(t, "work", profiles[1].Name())
	assert.Equal(t, int32(2), calls.Load())
}

func TestLoadAllReturnsConnectError(t *testing.T) {
	cfg := loadConfig(t)
	connect := func(p config.ProfileConfig) (platform.Client, error) {
		if p.Name == "work" {
			return nil, errors.New("token missing")
		}
		return fakeClient(t), nil
	}

	_, err := LoadAll(context.Background(), cfg.Profiles, connect, 4, logr.Discard())

	assert.EqualError(t, err, "token missing")
}
