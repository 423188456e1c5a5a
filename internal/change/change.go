// Package change computes and aggregates differences between the actual state
// of a repository and the desired state declared by a template.
//
// Leaf changes (AttributeUpdate, Create, Update, Delete) roll up through
// Collection at repository, template, and profile level. A collection is
// actual only when every change below it is.
package change

import (
	"github.com/conn-castle/steward/internal/resource"
	"github.com/conn-castle/steward/internal/value"
)

// Change is a computed difference for one resource.
type Change interface {
	resource.Named
	// Resource returns the resource the change pertains to.
	Resource() resource.Named
	// IsActual reports whether the resource is already as desired.
	IsActual() bool
}

// Attribute is a repository attribute, the unit of attribute comparison.
type Attribute string

// Name implements resource.Named.
func (a Attribute) Name() string { return string(a) }

// ResourceKind implements resource.Kinded.
func (a Attribute) ResourceKind() resource.Kind { return resource.KindAttribute }

// AttributeUpdate carries the actual and expected value of one attribute.
type AttributeUpdate struct {
	attribute Attribute
	actual    any
	expected  any
}

// NewAttributeUpdate records an actual/expected pair for the named attribute.
func NewAttributeUpdate(name string, actual, expected any) *AttributeUpdate {
	return &AttributeUpdate{
		attribute: Attribute(name),
		actual:    value.Normalize(actual),
		expected:  value.Normalize(expected),
	}
}

// Name implements resource.Named.
func (u *AttributeUpdate) Name() string { return string(u.attribute) }

// Resource returns the attribute.
func (u *AttributeUpdate) Resource() resource.Named { return u.attribute }

// Actual returns the value the platform reports.
func (u *AttributeUpdate) Actual() any { return u.actual }

// Expected returns the value the template wants.
func (u *AttributeUpdate) Expected() any { return u.expected }

// IsActual uses strict type-and-value equality.
func (u *AttributeUpdate) IsActual() bool { return value.Equal(u.actual, u.expected) }

// Create adds a resource that does not exist yet.
type Create struct {
	resource resource.Named
}

// NewCreate records that r must be created.
func NewCreate(r resource.Named) *Create { return &Create{resource: r} }

// Name implements resource.Named.
func (c *Create) Name() string { return c.resource.Name() }

// Resource returns the resource to create.
func (c *Create) Resource() resource.Named { return c.resource }

// IsActual is always false.
func (c *Create) IsActual() bool { return false }

// Update replaces an existing resource with a desired version.
type Update struct {
	resource resource.Named
	previous resource.Named
}

// NewUpdate records that previous must become desired.
func NewUpdate(desired, previous resource.Named) *Update {
	return &Update{resource: desired, previous: previous}
}

// Name implements resource.Named.
func (u *Update) Name() string { return u.resource.Name() }

// Resource returns the desired resource.
func (u *Update) Resource() resource.Named { return u.resource }

// Previous returns the resource as it exists now.
func (u *Update) Previous() resource.Named { return u.previous }

// IsActual is always false.
func (u *Update) IsActual() bool { return false }

// Delete removes an existing resource.
type Delete struct {
	resource resource.Named
}

// NewDelete records that r must be removed.
func NewDelete(r resource.Named) *Delete { return &Delete{resource: r} }

// Name implements resource.Named.
func (d *Delete) Name() string { return d.resource.Name() }

// Resource returns the resource to delete.
func (d *Delete) Resource() resource.Named { return d.resource }

// IsActual is always false.
func (d *Delete) IsActual() bool { return false }
