// Package template builds profile templates: the repositories a template's
// filter selects, frozen at build time, bound to the template's target.
package template

import (
	"fmt"

	"github.com/conn-castle/steward/internal/change"
	"github.com/conn-castle/steward/internal/config"
	"github.com/conn-castle/steward/internal/filter"
	"github.com/conn-castle/steward/internal/messages"
	"github.com/conn-castle/steward/internal/repository"
	"github.com/conn-castle/steward/internal/resource"
)

// Template is a named filter result bound to a desired target.
type Template struct {
	name         string
	spec         filter.Spec
	target       change.Target
	repositories *resource.Collection[*repository.Repository]
}

// Build matches every repository in repos against cfg.Filter and binds
// cfg.Target to the result. Membership is computed once; a template that
// matches nothing is valid.
func Build(name string, cfg config.TemplateConfig, repos *resource.Collection[*repository.Repository]) (*Template, error) {
	spec := SpecFromConfig(cfg)
	matched := make([]*repository.Repository, 0, repos.Len())
	for repo := range repos.All() {
		ok, err := filter.Match(repo, spec)
		if err != nil {
			return nil, fmt.Errorf(messages.TemplateMatchFmt, name, err)
		}
		if ok {
			matched = append(matched, repo)
		}
	}
	return &Template{
		name:         name,
		spec:         spec,
		target:       TargetFromConfig(cfg.Target),
		repositories: resource.NewCollection(matched...),
	}, nil
}

// SpecFromConfig compiles a template's filter block in declaration order.
func SpecFromConfig(cfg config.TemplateConfig) filter.Spec {
	criteria := make([]filter.Criterion, 0, cfg.Filter.Len())
	for property, value := range cfg.Filter.All() {
		criteria = append(criteria, filter.Criterion{Property: property, Value: value})
	}
	return filter.NewSpec(criteria...)
}

// TargetFromConfig converts a target block. A missing user block yields a nil
// user set so collaborators stay unmanaged.
func TargetFromConfig(cfg config.TargetConfig) change.Target {
	target := change.Target{
		Attributes: make([]change.AttributeValue, 0, cfg.Attribute.Len()),
	}
	for name, value := range cfg.Attribute.All() {
		target.Attributes = append(target.Attributes, change.AttributeValue{Name: name, Value: value})
	}
	if cfg.User != nil {
		users := make([]repository.User, 0, cfg.User.Len())
		for username, user := range cfg.User.All() {
			users = append(users, repository.User{Username: username, Role: user.Role})
		}
		target.Users = resource.NewCollection(users...)
	}
	return target
}

// Name returns the template name.
func (t *Template) Name() string { return t.name }

// ResourceKind reports resource.KindTemplate.
func (t *Template) ResourceKind() resource.Kind { return resource.KindTemplate }

// Spec returns the compiled filter.
func (t *Template) Spec() filter.Spec { return t.spec }

// Target returns the desired state.
func (t *Template) Target() change.Target { return t.target }

// Repositories returns the matched repositories in profile order.
func (t *Template) Repositories() *resource.Collection[*repository.Repository] {
	return t.repositories
}

// Diff computes the template-level change collection: one repository
// collection per matched repository, in profile order.
func (t *Template) Diff(schema repository.Schema) (*change.Collection, error) {
	children := make([]change.Change, 0, t.repositories.Len())
	for repo := range t.repositories.All() {
		c, err := change.Diff(repo, t.target, schema)
		if err != nil {
			return nil, fmt.Errorf(messages.TemplateDiffFmt, t.name, repo.Path(), err)
		}
		children = append(children, c)
	}
	return change.NewCollection(t, children...), nil
}
