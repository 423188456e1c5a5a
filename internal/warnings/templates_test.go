package warnings

import (
	"context"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/steward/internal/config"
	"github.com/conn-castle/steward/internal/profile"
	"github.com/conn-castle/steward/internal/repository"
	"github.com/conn-castle/steward/internal/testutil"
)

const overlapping = `
profiles:
  - type: github
    name: oss
    client:
      auth:
        token_env: GITHUB_TOKEN
    templates:
      all:
        filter: {}
        target:
          attribute:
            has_wiki: false
      api:
        filter:
          path: acme/api
        target:
          attribute:
            description: API
      archived:
        filter:
          path: acme/legacy
        target:
          attribute:
            archived: true
`

func TestCheckTemplates(t *testing.T) {
	cfg, err := config.ParseConfig([]byte(overlapping), "steward.yaml")
	require.NoError(t, err)
	client := &testutil.FakeClient{Repos: []*repository.Repository{
		testutil.Repo(t, "acme/api", `{"has_wiki":true}`),
		testutil.Repo(t, "acme/web", `{"has_wiki":true}`),
	}}
	p, err := profile.Load(context.Background(), cfg.Profiles[0], client, logr.Discard())
	require.NoError(t, err)

	results := CheckTemplates(p)

	require.Len(t, results, 2)
	require.Equal(t, CodeTemplateNoMatch, results[0].Code)
	require.Equal(t, "profile oss: template archived", results[0].Subject)
	require.Equal(t, CodeTemplateOverlap, results[1].Code)
	require.Equal(t, "profile oss: repository acme/api", results[1].Subject)
	require.Equal(t, []string{"all", "api"}, results[1].Details)
	require.Contains(t, results[1].Message, "2 templates")
}

func TestCheckTemplatesNil(t *testing.T) {
	require.Nil(t, CheckTemplates(nil))
}
