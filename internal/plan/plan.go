// Package plan turns template diffs into an ordered list of pending changes
// and applies them one at a time through a platform client.
package plan

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/conn-castle/steward/internal/change"
	"github.com/conn-castle/steward/internal/messages"
	"github.com/conn-castle/steward/internal/repository"
	"github.com/conn-castle/steward/internal/resource"
	"github.com/conn-castle/steward/internal/template"
)

// Entry is the pending change set of one repository under one template.
type Entry struct {
	Template   *template.Template
	Repository *repository.Repository
	Changes    *change.Collection
}

// Plan is the ordered set of computed, not-yet-applied changes for one profile.
type Plan struct {
	id      uuid.UUID
	profile owner
	entries []Entry
	changes *change.Collection
	// desired keeps every matched repository, actual or not, so that
	// overlapping templates resolve the same way on every run.
	desired *change.Collection
}

type owner string

func (o owner) Name() string                { return string(o) }
func (o owner) ResourceKind() resource.Kind { return resource.KindProfile }

// Build diffs every matched repository of every template, in template then
// repository order. Repositories that are already in the desired state are
// omitted.
func Build(profile string, templates []*template.Template, schema repository.Schema) (*Plan, error) {
	p := &Plan{id: uuid.New(), profile: owner(profile)}
	aggregate := make([]change.Change, 0, len(templates))
	desired := make([]change.Change, 0, len(templates))
	for _, tmpl := range templates {
		diff, err := tmpl.Diff(schema)
		if err != nil {
			return nil, err
		}
		desired = append(desired, diff)
		var pending []change.Change
		for _, ch := range diff.Changes() {
			repoChanges, ok := ch.(*change.Collection)
			if !ok || repoChanges.IsActual() {
				continue
			}
			repo, ok := repoChanges.Resource().(*repository.Repository)
			if !ok {
				continue
			}
			p.entries = append(p.entries, Entry{Template: tmpl, Repository: repo, Changes: repoChanges})
			pending = append(pending, repoChanges)
		}
		if len(pending) > 0 {
			aggregate = append(aggregate, change.NewCollection(tmpl, pending...))
		}
	}
	p.changes = change.NewCollection(p.profile, aggregate...)
	p.desired = change.NewCollection(p.profile, desired...)
	return p, nil
}

// ID identifies this plan run in logs.
func (p *Plan) ID() uuid.UUID { return p.id }

// Profile returns the name of the profile the plan was built for.
func (p *Plan) Profile() string { return string(p.profile) }

// Entries returns the plan entries in order.
func (p *Plan) Entries() []Entry { return append([]Entry{}, p.entries...) }

// Empty reports whether there is nothing to apply.
func (p *Plan) Empty() bool { return len(p.Steps()) == 0 }

// Changes returns the profile-level aggregate: template collections of
// repository collections of leaf changes.
func (p *Plan) Changes() *change.Collection { return p.changes }

// Steps returns the deduplicated per-repository change sets that Apply
// submits, in application order. A repository matched by several templates
// appears once; for a given attribute or user the last template wins, even
// when its value is already in place.
func (p *Plan) Steps() []Step {
	merged := change.Filter[change.Change](p.desired)
	var out []Step
	for _, ch := range merged.Changes() {
		c, ok := ch.(*change.Collection)
		if !ok {
			continue
		}
		repo, ok := c.Resource().(*repository.Repository)
		if !ok {
			continue
		}
		pending := c.Pending()
		if len(pending) == 0 {
			continue
		}
		out = append(out, Step{Repository: repo, Changes: pending})
	}
	return out
}

// Step is the ordered pending changes for one repository.
type Step struct {
	Repository *repository.Repository
	Changes    []change.Change
}

// Applier submits a single change to the hosting platform.
type Applier interface {
	Apply(ctx context.Context, repo *repository.Repository, ch change.Change) error
}

// Observer is notified after each change is applied successfully.
type Observer func(repo *repository.Repository, ch change.Change)

// ApplyError reports the change that failed. Changes applied before it are
// not rolled back.
type ApplyError struct {
	Applied    int
	Repository *repository.Repository
	Change     change.Change
	Err        error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf(messages.PlanApplyFailedFmt, e.Change.Name(), e.Repository.Path(), e.Applied, e.Err)
}

func (e *ApplyError) Unwrap() error { return e.Err }

// Apply submits every step in order, one change at a time, and stops at the
// first failure. It returns the number of changes applied.
func (p *Plan) Apply(ctx context.Context, applier Applier, observe Observer) (int, error) {
	applied := 0
	for _, step := range p.Steps() {
		for _, ch := range step.Changes {
			if err := ctx.Err(); err != nil {
				return applied, &ApplyError{Applied: applied, Repository: step.Repository, Change: ch, Err: err}
			}
			if err := applier.Apply(ctx, step.Repository, ch); err != nil {
				return applied, &ApplyError{Applied: applied, Repository: step.Repository, Change: ch, Err: err}
			}
			applied++
			if observe != nil {
				observe(step.Repository, ch)
			}
		}
	}
	return applied, nil
}
