// Package gitlab implements the platform client for the GitLab REST API v4.
package gitlab

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"

	"github.com/conn-castle/steward/internal/change"
	"github.com/conn-castle/steward/internal/messages"
	"github.com/conn-castle/steward/internal/platform"
	"github.com/conn-castle/steward/internal/repository"
)

// Platform is the profile type served by this client.
const Platform = "gitlab"

// DefaultBaseURL is the GitLab.com API.
const DefaultBaseURL = "https://gitlab.com/api/v4"

// accessLevels maps role names to GitLab member access levels.
var accessLevels = map[string]int{
	"guest":      10,
	"reporter":   20,
	"developer":  30,
	"maintainer": 40,
	"owner":      50,
}

// Roles are the member role names, lowest access first.
var Roles = []string{"guest", "reporter", "developer", "maintainer", "owner"}

var schema = repository.Schema{
	Platform: Platform,
	Attributes: []string{
		"name", "path", "description", "visibility", "default_branch",
		"issues_enabled", "merge_requests_enabled", "wiki_enabled", "jobs_enabled",
		"snippets_enabled", "container_registry_enabled", "lfs_enabled", "packages_enabled",
		"request_access_enabled", "shared_runners_enabled", "emails_disabled",
		"only_allow_merge_if_pipeline_succeeds", "only_allow_merge_if_all_discussions_are_resolved",
		"allow_merge_on_skipped_pipeline", "remove_source_branch_after_merge",
		"printing_merge_request_link_enabled", "autoclose_referenced_issues",
		"merge_method", "squash_option", "ci_config_path",
		"issues_access_level", "merge_requests_access_level", "wiki_access_level",
		"builds_access_level", "repository_access_level", "forking_access_level",
		"pages_access_level", "snippets_access_level",
	},
	ReadOnly: []string{
		"id", "path_with_namespace", "name_with_namespace", "namespace", "owner",
		"web_url", "http_url_to_repo", "ssh_url_to_repo", "readme_url", "avatar_url",
		"created_at", "last_activity_at", "creator_id", "forked_from_project",
		"star_count", "forks_count", "open_issues_count", "archived", "empty_repo",
		"import_status", "tag_list", "topics", "statistics", "permissions", "_links",
	},
}

// Options scopes a client.
type Options struct {
	// Group limits listing to one group (full path or id); empty lists every
	// project the token is a member of.
	Group string
	// IncludeSubgroups also lists projects of nested groups.
	IncludeSubgroups bool
	// Archived includes archived projects.
	Archived bool
}

// Client talks to GitLab.
type Client struct {
	api  *platform.API
	opts Options
	log  logr.Logger

	mu    sync.Mutex
	users map[string]int64
}

// Schema returns the attributes this platform exposes. It is static, so
// filters can be validated without credentials.
func Schema() repository.Schema { return schema }

// New returns a client over api.
func New(api *platform.API, opts Options, logger logr.Logger) *Client {
	return &Client{api: api, opts: opts, log: logger.WithName(Platform), users: map[string]int64{}}
}

// Authorize sets a private token on GitLab requests.
func Authorize(token string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set("PRIVATE-TOKEN", token)
	}
}

// Schema implements platform.Client.
func (c *Client) Schema() repository.Schema { return Schema() }

type projectHeader struct {
	ID                int64           `json:"id"`
	PathWithNamespace string          `json:"path_with_namespace"`
	Visibility        string          `json:"visibility"`
	Topics            []string        `json:"topics"`
	TagList           []string        `json:"tag_list"`
	ForkedFrom        json.RawMessage `json:"forked_from_project"`
}

// Repositories implements platform.Client.
func (c *Client) Repositories(ctx context.Context, opts platform.FetchOptions) ([]*repository.Repository, error) {
	path := "projects"
	query := url.Values{"per_page": {"100"}}
	if c.opts.Group != "" {
		path = "groups/" + url.PathEscape(c.opts.Group) + "/projects"
		query.Set("include_subgroups", strconv.FormatBool(c.opts.IncludeSubgroups))
	} else {
		query.Set("membership", "true")
	}
	if !c.opts.Archived {
		query.Set("archived", "false")
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
	c.log.V(1).Info("fetched projects", "count", len(out), "group", c.opts.Group)
	return out, nil
}

func (c *Client) decode(ctx context.Context, raw json.RawMessage, opts platform.FetchOptions) (*repository.Repository, error) {
	var header projectHeader
	if err := json.Unmarshal(raw, &header); err != nil {
		return nil, errors.Wrap(err, messages.PlatformDecodeRepository)
	}
	attrs, err := repository.ParseAttributes(raw)
	if err != nil {
		return nil, err
	}
	topics := header.Topics
	if topics == nil {
		topics = header.TagList
	}
	snapshot := repository.Snapshot{
		ID:         header.ID,
		Path:       header.PathWithNamespace,
		Type:       repository.TypeSource,
		Visibility: repository.VisibilityPrivate,
		Topics:     topics,
		Attributes: attrs,
	}
	if len(header.ForkedFrom) > 0 && string(header.ForkedFrom) != "null" {
		snapshot.Type = repository.TypeFork
	}
	if header.Visibility == "public" {
		snapshot.Visibility = repository.VisibilityPublic
	}
	if opts.Languages {
		if snapshot.Languages, err = c.languages(ctx, header.ID); err != nil {
			return nil, err
		}
	}
	if opts.Users {
		if snapshot.Users, err = c.members(ctx, header.ID); err != nil {
			return nil, err
		}
	}
	return repository.New(snapshot), nil
}

func (c *Client) languages(ctx context.Context, id int64) ([]string, error) {
	var raw json.RawMessage
	if err := c.api.Do(ctx, http.MethodGet, projectPath(id)+"/languages", nil, nil, &raw); err != nil {
		return nil, err
	}
	attrs, err := repository.ParseAttributes(raw)
	if err != nil {
		return nil, err
	}
	return attrs.Keys(), nil
}

type member struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	AccessLevel int    `json:"access_level"`
}

// members lists direct project members. Inherited group members are not
// managed per project.
func (c *Client) members(ctx context.Context, id int64) ([]repository.User, error) {
	var users []repository.User
	err := c.api.List(ctx, projectPath(id)+"/members", url.Values{"per_page": {"100"}}, func(raw json.RawMessage) error {
		var m member
		if err := json.Unmarshal(raw, &m); err != nil {
			return errors.Wrap(err, messages.PlatformDecodeResponse)
		}
		c.remember(m.Username, m.ID)
		users = append(users, repository.User{Username: m.Username, Role: roleName(m.AccessLevel)})
		return nil
	})
	return users, err
}

func roleName(level int) string {
	for name, l := range accessLevels {
		if l == level {
			return name
		}
	}
	return strconv.Itoa(level)
}

// Apply implements platform.Client.
func (c *Client) Apply(ctx context.Context, repo *repository.Repository, ch change.Change) error {
	path := projectPath(repo.ID())
	switch t := ch.(type) {
	case *change.AttributeUpdate:
		return c.api.Do(ctx, http.MethodPut, path, nil, map[string]any{t.Name(): t.Expected()}, nil)
	case *change.Create:
		user, level, err := c.resolveMember(ctx, path, t.Resource())
		if err != nil {
			return err
		}
		return c.api.Do(ctx, http.MethodPost, path+"/members", nil, map[string]any{"user_id": user, "access_level": level}, nil)
	case *change.Update:
		user, level, err := c.resolveMember(ctx, path, t.Resource())
		if err != nil {
			return err
		}
		return c.api.Do(ctx, http.MethodPut, path+"/members/"+strconv.FormatInt(user, 10), nil, map[string]any{"access_level": level}, nil)
	case *change.Delete:
		user, err := c.userID(ctx, t.Name())
		if err != nil {
			return err
		}
		return c.api.Do(ctx, http.MethodDelete, path+"/members/"+strconv.FormatInt(user, 10), nil, nil, nil)
	default:
		return platform.Unsupported(Platform, ch)
	}
}

func (c *Client) resolveMember(ctx context.Context, path string, r any) (int64, int, error) {
	user, ok := r.(repository.User)
	if !ok {
		return 0, 0, &platform.Error{Platform: Platform, Op: "member " + path, Err: errors.WithStack(platform.ErrUnsupportedChange)}
	}
	level, ok := accessLevels[strings.ToLower(user.Role)]
	if !ok {
		return 0, 0, &platform.Error{
			Platform: Platform,
			Op:       "member " + path,
			Err:      errors.Errorf(messages.PlatformUnknownRoleFmt, user.Role, strings.Join(Roles, ", ")),
		}
	}
	id, err := c.userID(ctx, user.Username)
	if err != nil {
		return 0, 0, err
	}
	return id, level, nil
}

// userID resolves a username, caching ids learned while listing members.
func (c *Client) userID(ctx context.Context, username string) (int64, error) {
	c.mu.Lock()
	id, ok := c.users[username]
	c.mu.Unlock()
	if ok {
		return id, nil
	}
	var found []member
	if err := c.api.Do(ctx, http.MethodGet, "users", url.Values{"username": {username}}, nil, &found); err != nil {
		return 0, err
	}
	if len(found) == 0 {
		return 0, &platform.Error{
			Platform:   Platform,
			Op:         "GET users",
			StatusCode: http.StatusNotFound,
			Err:        errors.Errorf(messages.PlatformUserNotFoundFmt, username),
		}
	}
	c.remember(username, found[0].ID)
	return found[0].ID, nil
}

func (c *Client) remember(username string, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users[username] = id
}

func projectPath(id int64) string {
	return "projects/" + strconv.FormatInt(id, 10)
}
