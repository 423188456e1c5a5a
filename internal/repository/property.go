package repository

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/conn-castle/steward/internal/messages"
)

// ErrUnknownProperty is matched by every PropertyError.
var ErrUnknownProperty = errors.New("unknown repository property")

// PropertyError reports a filter property that is neither synthetic nor a
// known attribute.
type PropertyError struct {
	Name        string
	Suggestions []string
}

func (e *PropertyError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf(messages.RepositoryUnknownPropertyFmt, e.Name)
	}
	return fmt.Sprintf(messages.RepositoryUnknownPropertyFmt, e.Name) +
		fmt.Sprintf(messages.DidYouMeanFmt, quoteJoin(e.Suggestions))
}

// Is makes errors.Is(err, ErrUnknownProperty) true.
func (e *PropertyError) Is(target error) bool {
	return target == ErrUnknownProperty
}

// Synthetic property names resolved from typed fields rather than raw attributes.
const (
	PropertyID         = "id"
	PropertyPath       = "path"
	PropertyName       = "name"
	PropertyNamespace  = "namespace"
	PropertyType       = "type"
	PropertyVisibility = "visibility"
	PropertyTopics     = "topics"
	PropertyLanguages  = "languages"
	PropertyUsers      = "users"
)

var syntheticProperties = map[string]func(*Repository) any{
	PropertyID:         func(r *Repository) any { return r.id },
	PropertyPath:       func(r *Repository) any { return r.path },
	PropertyName:       func(r *Repository) any { return r.ShortName() },
	PropertyNamespace:  func(r *Repository) any { return r.Namespace() },
	PropertyType:       func(r *Repository) any { return r.typ },
	PropertyVisibility: func(r *Repository) any { return r.visibility },
	PropertyTopics:     func(r *Repository) any { return stringsToList(r.topics) },
	PropertyLanguages:  func(r *Repository) any { return stringsToList(r.languages) },
	PropertyUsers:      func(r *Repository) any { return stringsToList(r.users.Names()) },
}

// SyntheticProperties returns the synthetic property names, sorted.
func SyntheticProperties() []string {
	names := make([]string, 0, len(syntheticProperties))
	for name := range syntheticProperties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsSynthetic reports whether name resolves from typed fields.
func IsSynthetic(name string) bool {
	_, ok := syntheticProperties[name]
	return ok
}

// Property resolves a filter property: synthetic properties first, then the
// raw attribute snapshot. Unknown names yield a *PropertyError.
func (r *Repository) Property(name string) (any, error) {
	if accessor, ok := syntheticProperties[name]; ok {
		return accessor(r), nil
	}
	if v, ok := r.attributes.Get(name); ok {
		return v, nil
	}
	return nil, &PropertyError{Name: name}
}

func stringsToList(items []string) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

func quoteJoin(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = fmt.Sprintf("%q", name)
	}
	return strings.Join(quoted, ", ")
}
