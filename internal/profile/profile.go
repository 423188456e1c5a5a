// Package profile couples a platform client with its templates and
// repository snapshot and exposes the plan/apply lifecycle.
package profile

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/go-logr/logr"

	"github.com/conn-castle/steward/internal/change"
	"github.com/conn-castle/steward/internal/config"
	"github.com/conn-castle/steward/internal/filter"
	"github.com/conn-castle/steward/internal/messages"
	"github.com/conn-castle/steward/internal/plan"
	"github.com/conn-castle/steward/internal/platform"
	"github.com/conn-castle/steward/internal/repository"
	"github.com/conn-castle/steward/internal/resource"
	"github.com/conn-castle/steward/internal/template"
)

// Profile is one configured connection to a hosting platform, its
// repositories, and its templates. It owns its collections exclusively.
type Profile struct {
	name         string
	platform     string
	client       platform.Client
	schema       repository.Schema
	repositories *resource.Collection[*repository.Repository]
	templates    []*template.Template
	log          logr.Logger
}

// Load validates cfg's filters against the client schema, fetches the
// repositories, and builds every template in declaration order.
func Load(ctx context.Context, cfg config.ProfileConfig, client platform.Client, logger logr.Logger) (*Profile, error) {
	logger = logger.WithValues("profile", cfg.Name)
	schema := client.Schema()

	opts, err := Validate(cfg, schema)
	if err != nil {
		return nil, err
	}

	fetched, err := client.Repositories(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf(messages.ProfileFetchFmt, cfg.Name, err)
	}
	repos := resource.NewCollection(fetched...)
	logger.V(1).Info("fetched repositories", "count", repos.Len(), "users", opts.Users, "languages", opts.Languages)

	p := &Profile{
		name:         cfg.Name,
		platform:     cfg.Type,
		client:       client,
		schema:       schema,
		repositories: repos,
		log:          logger,
	}
	for name, tmplCfg := range cfg.Templates.All() {
		tmpl, err := template.Build(name, tmplCfg, repos)
		if err != nil {
			return nil, fmt.Errorf(messages.ProfileTemplateFmt, cfg.Name, err)
		}
		logger.V(1).Info("built template", "template", name, "matched", tmpl.Repositories().Len())
		p.templates = append(p.templates, tmpl)
	}
	return p, nil
}

// Validate checks every template filter against schema without network
// access and reports which optional repository data the templates need,
// counting both filter properties and target attributes.
func Validate(cfg config.ProfileConfig, schema repository.Schema) (platform.FetchOptions, error) {
	var opts platform.FetchOptions
	for name, tmplCfg := range cfg.Templates.All() {
		spec := template.SpecFromConfig(tmplCfg)
		if err := spec.Validate(schema); err != nil {
			return platform.FetchOptions{}, fmt.Errorf(messages.ProfileFilterFmt, cfg.Name, name, err)
		}
		for _, property := range referenced(spec) {
			switch property {
			case repository.PropertyUsers:
				opts.Users = true
			case repository.PropertyLanguages:
				opts.Languages = true
			}
			if schema.IsDetailed(property) {
				opts.Details = true
			}
		}
		for _, attribute := range tmplCfg.Target.Attribute.Keys() {
			if schema.IsDetailed(attribute) {
				opts.Details = true
			}
		}
		if tmplCfg.Target.User != nil {
			opts.Users = true
		}
	}
	return opts, nil
}

// referenced lists the properties a filter reads, including those read by
// expressions.
func referenced(spec filter.Spec) []string {
	var out []string
	for _, c := range spec.Criteria() {
		out = append(out, c.Property)
		if expr := c.Expression(); expr != nil {
			out = append(out, expr.Properties()...)
		}
	}
	return out
}

// Name implements resource.Named.
func (p *Profile) Name() string { return p.name }

// ResourceKind implements resource.Kinded.
func (p *Profile) ResourceKind() resource.Kind { return resource.KindProfile }

// Platform returns the platform type, e.g. "github".
func (p *Profile) Platform() string { return p.platform }

// Schema returns the client schema.
func (p *Profile) Schema() repository.Schema { return p.schema }

// Repositories returns the fetched repositories.
func (p *Profile) Repositories() *resource.Collection[*repository.Repository] {
	return p.repositories
}

// Templates returns the built templates in declaration order.
func (p *Profile) Templates() []*template.Template {
	return slices.Clone(p.templates)
}

// Plan computes the pending changes of every template.
func (p *Profile) Plan() (*plan.Plan, error) {
	pl, err := plan.Build(p.name, p.templates, p.schema)
	if err != nil {
		return nil, fmt.Errorf(messages.ProfileTemplateFmt, p.name, err)
	}
	p.log.V(1).Info("planned", "plan", pl.ID().String(), "entries", len(pl.Entries()))
	return pl, nil
}

// Apply submits pl through the profile's client and logs each applied change.
func (p *Profile) Apply(ctx context.Context, pl *plan.Plan, observe plan.Observer) (int, error) {
	log := p.log.WithValues("plan", pl.ID().String())
	applied, err := pl.Apply(ctx, p.client, func(repo *repository.Repository, ch change.Change) {
		log.Info("applied change", "repository", repo.Path(), "change", ch.Name())
		if observe != nil {
			observe(repo, ch)
		}
	})
	if err != nil {
		log.Error(err, "apply stopped", "applied", applied)
		return applied, err
	}
	log.Info("apply finished", "applied", applied)
	return applied, nil
}

// NamespaceCount is the number of repositories under one top-level namespace.
type NamespaceCount struct {
	Namespace    string
	Repositories int
}

// TemplateCount is the number of repositories one template matched.
type TemplateCount struct {
	Template     string
	Repositories int
}

// Summary describes a loaded profile for display.
type Summary struct {
	Profile      string
	Platform     string
	Repositories int
	Namespaces   []NamespaceCount
	Templates    []TemplateCount
}

// Summary counts repositories per top-level namespace, sorted by namespace,
// and matches per template, in declaration order.
func (p *Profile) Summary() Summary {
	counts := map[string]int{}
	for repo := range p.repositories.All() {
		counts[repo.Namespace()]++
	}
	s := Summary{Profile: p.name, Platform: p.platform, Repositories: p.repositories.Len()}
	for ns, n := range counts {
		s.Namespaces = append(s.Namespaces, NamespaceCount{Namespace: ns, Repositories: n})
	}
	slices.SortFunc(s.Namespaces, func(a, b NamespaceCount) int {
		return strings.Compare(a.Namespace, b.Namespace)
	})
	for _, tmpl := range p.templates {
		s.Templates = append(s.Templates, TemplateCount{Template: tmpl.Name(), Repositories: tmpl.Repositories().Len()})
	}
	return s
}
