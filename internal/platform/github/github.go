// Package github implements the platform client for the GitHub REST API.
package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"

	"github.com/conn-castle/steward/internal/change"
	"github.com/conn-castle/steward/internal/messages"
	"github.com/conn-castle/steward/internal/platform"
	"github.com/conn-castle/steward/internal/repository"
	"github.com/conn-castle/steward/internal/resource"
)

// Platform is the profile type served by this client.
const Platform = "github"

// DefaultBaseURL is the public GitHub API.
const DefaultBaseURL = "https://api.github.com"

// Roles are the collaborator role names GitHub reports.
var Roles = []string{"read", "triage", "write", "maintain", "admin"}

var schema = repository.Schema{
	Platform: Platform,
	Attributes: []string{
		"name", "description", "homepage", "private", "visibility",
		"has_issues", "has_projects", "has_wiki", "has_discussions", "has_downloads",
		"is_template", "default_branch", "archived",
		"allow_squash_merge", "allow_merge_commit", "allow_rebase_merge", "allow_auto_merge",
		"allow_update_branch", "allow_forking", "delete_branch_on_merge",
		"use_squash_pr_title_as_default", "squash_merge_commit_title", "squash_merge_commit_message",
		"merge_commit_title", "merge_commit_message", "web_commit_signoff_required",
	},
	ReadOnly: []string{
		"id", "node_id", "full_name", "owner", "fork", "url", "html_url",
		"clone_url", "git_url", "ssh_url", "svn_url", "mirror_url",
		"created_at", "updated_at", "pushed_at", "size", "language", "license",
		"stargazers_count", "watchers_count", "watchers", "forks_count", "forks",
		"open_issues_count", "open_issues", "network_count", "subscribers_count",
		"disabled", "permissions", "topics",
	},
	Detailed: []string{
		"allow_squash_merge", "allow_merge_commit", "allow_rebase_merge", "allow_auto_merge",
		"allow_update_branch", "delete_branch_on_merge",
		"use_squash_pr_title_as_default", "squash_merge_commit_title", "squash_merge_commit_message",
		"merge_commit_title", "merge_commit_message", "web_commit_signoff_required",
		"network_count", "subscribers_count",
	},
}

// Options scopes a client.
type Options struct {
	// Organization limits listing to one organization; empty lists every
	// repository the token can administer.
	Organization string
}

// Client talks to GitHub.
type Client struct {
	api  *platform.API
	opts Options
	log  logr.Logger
}

// Schema returns the attributes this platform exposes. It is static, so
// filters can be validated without credentials.
func Schema() repository.Schema { return schema }

// New returns a client over api.
func New(api *platform.API, opts Options, logger logr.Logger) *Client {
	return &Client{api: api, opts: opts, log: logger.WithName(Platform)}
}

// Authorize sets a bearer token on GitHub requests.
func Authorize(token string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
		r.Header.Set("Accept", "application/vnd.github+json")
		r.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	}
}

// Schema implements platform.Client.
func (c *Client) Schema() repository.Schema { return Schema() }

type repoHeader struct {
	ID         int64    `json:"id"`
	FullName   string   `json:"full_name"`
	Fork       bool     `json:"fork"`
	Private    bool     `json:"private"`
	Visibility string   `json:"visibility"`
	Topics     []string `json:"topics"`
}

// Repositories implements platform.Client.
func (c *Client) Repositories(ctx context.Context, opts platform.FetchOptions) ([]*repository.Repository, error) {
	path := "user/repos"
	query := url.Values{"per_page": {"100"}}
	if c.opts.Organization != "" {
		path = "orgs/" + url.PathEscape(c.opts.Organization) + "/repos"
		query.Set("type", "all")
	} else {
		query.Set("affiliation", "owner,organization_member")
	}

	var out []*repository.Repository
	err := c.api.List(ctx, path, query, func(raw json.RawMessage) error {
		repo, err := c.decode(ctx, raw, opts)
		if err != nil {
			return err
		}
		out = append(out, repo)
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.log.V(1).Info("fetched repositories", "count", len(out), "organization", c.opts.Organization)
	return out, nil
}

func (c *Client) decode(ctx context.Context, raw json.RawMessage, opts platform.FetchOptions) (*repository.Repository, error) {
	var header repoHeader
	if err := json.Unmarshal(raw, &header); err != nil {
		return nil, errors.Wrap(err, messages.PlatformDecodeRepository)
	}
	if opts.Details {
		// Listings carry the minimal repository object; merge settings
		// only come back from repos/{owner}/{name}.
		var detailed json.RawMessage
		if err := c.api.Do(ctx, http.MethodGet, repoPath(header.FullName), nil, nil, &detailed); err != nil {
			return nil, err
		}
		raw = detailed
	}
	attrs, err := repository.ParseAttributes(raw)
	if err != nil {
		return nil, err
	}
	snapshot := repository.Snapshot{
		ID:         header.ID,
		Path:       header.FullName,
		Type:       repository.TypeSource,
		Visibility: repository.VisibilityPublic,
		Topics:     header.Topics,
		Attributes: attrs,
	}
	if header.Fork {
		snapshot.Type = repository.TypeFork
	}
	if header.Private || (header.Visibility != "" && header.Visibility != "public") {
		snapshot.Visibility = repository.VisibilityPrivate
	}
	if opts.Languages {
		if snapshot.Languages, err = c.languages(ctx, header.FullName); err != nil {
			return nil, err
		}
	}
	if opts.Users {
		if snapshot.Users, err = c.collaborators(ctx, header.FullName); err != nil {
			return nil, err
		}
	}
	return repository.New(snapshot), nil
}

// languages returns language names, largest first as GitHub orders them.
func (c *Client) languages(ctx context.Context, fullName string) ([]string, error) {
	var raw json.RawMessage
	if err := c.api.Do(ctx, http.MethodGet, repoPath(fullName)+"/languages", nil, nil, &raw); err != nil {
		return nil, err
	}
	attrs, err := repository.ParseAttributes(raw)
	if err != nil {
		return nil, err
	}
	return attrs.Keys(), nil
}

func (c *Client) collaborators(ctx context.Context, fullName string) ([]repository.User, error) {
	var users []repository.User
	query := url.Values{"affiliation": {"direct"}, "per_page": {"100"}}
	err := c.api.List(ctx, repoPath(fullName)+"/collaborators", query, func(raw json.RawMessage) error {
		var collaborator struct {
			Login    string `json:"login"`
			RoleName string `json:"role_name"`
		}
		if err := json.Unmarshal(raw, &collaborator); err != nil {
			return errors.Wrap(err, messages.PlatformDecodeResponse)
		}
		users = append(users, repository.User{Username: collaborator.Login, Role: collaborator.RoleName})
		return nil
	})
	return users, err
}

// permission maps a reported role name to the value the collaborator
// endpoint accepts.
func permission(roleName string) string {
	switch roleName {
	case "read":
		return "pull"
	case "write":
		return "push"
	default:
		return roleName
	}
}

// Apply implements platform.Client.
func (c *Client) Apply(ctx context.Context, repo *repository.Repository, ch change.Change) error {
	path := repoPath(repo.Path())
	switch t := ch.(type) {
	case *change.AttributeUpdate:
		return c.api.Do(ctx, http.MethodPatch, path, nil, map[string]any{t.Name(): t.Expected()}, nil)
	case *change.Create:
		return c.putCollaborator(ctx, path, t.Resource())
	case *change.Update:
		return c.putCollaborator(ctx, path, t.Resource())
	case *change.Delete:
		return c.api.Do(ctx, http.MethodDelete, path+"/collaborators/"+url.PathEscape(t.Name()), nil, nil, nil)
	default:
		return platform.Unsupported(Platform, ch)
	}
}

func (c *Client) putCollaborator(ctx context.Context, path string, r resource.Named) error {
	user, ok := r.(repository.User)
	if !ok {
		return platform.Unsupported(Platform, change.NewCreate(r))
	}
	if !validRole(user.Role) {
		return &platform.Error{
			Platform: Platform,
			Op:       "PUT " + path + "/collaborators/" + user.Username,
			Err:      errors.Errorf(messages.PlatformUnknownRoleFmt, user.Role, strings.Join(Roles, ", ")),
		}
	}
	body := map[string]any{"permission": permission(user.Role)}
	return c.api.Do(ctx, http.MethodPut, path+"/collaborators/"+url.PathEscape(user.Username), nil, body, nil)
}

func validRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

func repoPath(fullName string) string {
	owner, name, _ := strings.Cut(fullName, "/")
	return "repos/" + url.PathEscape(owner) + "/" + url.PathEscape(name)
}
