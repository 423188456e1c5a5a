package change

import (
	"github.com/conn-castle/steward/internal/resource"
)

// Collection aggregates the changes of a composite resource: the attribute
// and user changes of a repository, the repository changes of a template, or
// the template changes of a profile. A Collection is itself a Change.
type Collection struct {
	resource resource.Named
	changes  []Change
}

// NewCollection groups changes under r in the given order.
func NewCollection(r resource.Named, changes ...Change) *Collection {
	return &Collection{resource: r, changes: append([]Change{}, changes...)}
}

// Name implements resource.Named.
func (c *Collection) Name() string { return c.resource.Name() }

// Resource returns the composite resource.
func (c *Collection) Resource() resource.Named { return c.resource }

// Changes returns the direct children in insertion order.
func (c *Collection) Changes() []Change { return append([]Change{}, c.changes...) }

// Len returns the number of direct children.
func (c *Collection) Len() int { return len(c.changes) }

// IsActual is true when every child is actual. An empty collection is actual.
func (c *Collection) IsActual() bool {
	for _, ch := range c.changes {
		if !ch.IsActual() {
			return false
		}
	}
	return true
}

// Pending returns the direct children that are not actual.
func (c *Collection) Pending() []Change {
	var out []Change
	for _, ch := range c.changes {
		if !ch.IsActual() {
			out = append(out, ch)
		}
	}
	return out
}

// Filter collects every leaf change of type T below c.
//
// Leaves are grouped under their owner, the nearest enclosing repository or
// template collection, and deduplicated by owner and leaf resource: when the
// same pair is reached through several paths the last one wins, keeping the
// position of the first. Leaves without such an owner sit directly under the
// result. Descent skips child collections coarser than their parent;
// template and repository count as the same level since both address the
// same physical repository. Filter is idempotent.
func Filter[T Change](c *Collection) *Collection {
	f := &flattener{groups: map[string]*group{}}
	f.collect(c, nil, func(ch Change) bool {
		_, ok := ch.(T)
		return ok
	})

	out := &Collection{resource: c.resource}
	for _, key := range f.order {
		g := f.groups[key]
		if g.owner == nil {
			out.changes = append(out.changes, g.leaves()...)
			continue
		}
		out.changes = append(out.changes, &Collection{resource: g.owner, changes: g.leaves()})
	}
	return out
}

type group struct {
	owner resource.Named
	order []string
	items map[string]Change
}

func (g *group) add(ch Change) {
	key := ch.Name()
	if ch.Resource() != nil {
		key = string(resource.KindOf(ch.Resource())) + "\x00" + key
	}
	if _, ok := g.items[key]; !ok {
		g.order = append(g.order, key)
	}
	g.items[key] = ch
}

func (g *group) leaves() []Change {
	out := make([]Change, len(g.order))
	for i, key := range g.order {
		out[i] = g.items[key]
	}
	return out
}

type flattener struct {
	order  []string
	groups map[string]*group
}

func (f *flattener) group(owner resource.Named) *group {
	key := ""
	if owner != nil {
		key = string(resource.KindOf(owner)) + "\x00" + owner.Name()
	}
	g, ok := f.groups[key]
	if !ok {
		g = &group{owner: owner, items: map[string]Change{}}
		f.groups[key] = g
		f.order = append(f.order, key)
	}
	return g
}

func (f *flattener) collect(c *Collection, owner resource.Named, keep func(Change) bool) {
	parent := resource.KindOf(c.resource)
	for _, ch := range c.changes {
		nested, ok := ch.(*Collection)
		if !ok {
			if keep(ch) {
				f.group(owner).add(ch)
			}
			continue
		}
		child := resource.KindOf(nested.resource)
		if !canDescend(parent, child) {
			continue
		}
		next := owner
		if child == resource.KindRepository || child == resource.KindTemplate {
			next = nested.resource
		}
		f.collect(nested, next, keep)
	}
}

func canDescend(parent, child resource.Kind) bool {
	if parent == resource.KindUnknown || child == resource.KindUnknown {
		return true
	}
	if child.Level() > parent.Level() {
		return true
	}
	return child.Level() == 1 && parent.Level() == 1
}
