// Package repository models a remote repository snapshot as fetched from a
// hosting platform. Repositories are built once per fetch and never mutated.
package repository

import (
	"strings"

	"github.com/conn-castle/steward/internal/resource"
)

// Type distinguishes source repositories from forks.
type Type string

// Repository types.
const (
	TypeSource Type = "source"
	TypeFork   Type = "fork"
)

// Scalar returns the backing value used in filter comparisons.
func (t Type) Scalar() any { return string(t) }

// Visibility is the access level of a repository.
type Visibility string

// Repository visibilities.
const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Scalar returns the backing value used in filter comparisons.
func (v Visibility) Scalar() any { return string(v) }

// User is a collaborator with a platform-specific role.
type User struct {
	Username string
	Role     string
}

// Name implements resource.Named.
func (u User) Name() string { return u.Username }

// ResourceKind implements resource.Kinded.
func (u User) ResourceKind() resource.Kind { return resource.KindUser }

// Snapshot carries everything a platform client knows about one repository.
type Snapshot struct {
	ID         int64
	Path       string
	Type       Type
	Visibility Visibility
	Topics     []string
	Languages  []string
	Users      []User
	Attributes Attributes
}

// Repository is an immutable remote repository snapshot.
type Repository struct {
	id         int64
	path       string
	typ        Type
	visibility Visibility
	topics     []string
	languages  []string
	users      *resource.Collection[User]
	attributes Attributes
}

// New builds a repository from a snapshot. Slices are copied.
func New(s Snapshot) *Repository {
	typ := s.Type
	if typ == "" {
		typ = TypeSource
	}
	visibility := s.Visibility
	if visibility == "" {
		visibility = VisibilityPublic
	}
	return &Repository{
		id:         s.ID,
		path:       s.Path,
		typ:        typ,
		visibility: visibility,
		topics:     append([]string{}, s.Topics...),
		languages:  append([]string{}, s.Languages...),
		users:      resource.NewCollection(s.Users...),
		attributes: s.Attributes,
	}
}

// Name implements resource.Named; the namespace-qualified path is unique.
func (r *Repository) Name() string { return r.path }

// ResourceKind implements resource.Kinded.
func (r *Repository) ResourceKind() resource.Kind { return resource.KindRepository }

// ID returns the numeric platform identifier.
func (r *Repository) ID() int64 { return r.id }

// Path returns the namespace-qualified name, e.g. "group/sub/repo".
func (r *Repository) Path() string { return r.path }

// Namespace returns the top-level namespace of the path.
func (r *Repository) Namespace() string {
	namespace, _, found := strings.Cut(r.path, "/")
	if !found {
		return ""
	}
	return namespace
}

// ShortName returns the last path segment.
func (r *Repository) ShortName() string {
	if i := strings.LastIndex(r.path, "/"); i >= 0 {
		return r.path[i+1:]
	}
	return r.path
}

// Type returns whether the repository is a source or a fork.
func (r *Repository) Type() Type { return r.typ }

// Visibility returns the repository visibility.
func (r *Repository) Visibility() Visibility { return r.visibility }

// Topics returns a copy of the repository topics.
func (r *Repository) Topics() []string { return append([]string{}, r.topics...) }

// Languages returns a copy of the repository languages.
func (r *Repository) Languages() []string { return append([]string{}, r.languages...) }

// Users returns the collaborators.
func (r *Repository) Users() *resource.Collection[User] { return r.users }

// Attributes returns the raw attribute snapshot.
func (r *Repository) Attributes() Attributes { return r.attributes }
