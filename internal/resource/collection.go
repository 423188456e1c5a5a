package resource

import (
	"errors"
	"fmt"
	"iter"
	"sort"

	"github.com/conn-castle/steward/internal/messages"
)

// ErrNotFound is matched by every LookupError.
var ErrNotFound = errors.New("resource not found")

// LookupError reports a Get on a name the collection does not hold.
type LookupError struct {
	Name string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf(messages.ResourceNotFoundFmt, e.Name)
}

// Is makes errors.Is(err, ErrNotFound) true for lookup failures.
func (e *LookupError) Is(target error) bool {
	return target == ErrNotFound
}

// Collection is an ordered set of named resources keyed by name.
// Collections are never mutated after construction; every operation returns
// a new collection.
type Collection[T Named] struct {
	items  []T
	index  map[string]int
	sorted bool
}

// NewCollection builds an insertion-ordered collection. A later item with a
// name already present replaces the earlier value and keeps its position.
func NewCollection[T Named](items ...T) *Collection[T] {
	return build(false, items)
}

// NewSortedCollection builds a collection ordered by name. Collections
// derived from it (Filter, Diff, Intersect) stay sorted.
func NewSortedCollection[T Named](items ...T) *Collection[T] {
	return build(true, items)
}

func build[T Named](sorted bool, items []T) *Collection[T] {
	c := &Collection[T]{
		items:  make([]T, 0, len(items)),
		index:  make(map[string]int, len(items)),
		sorted: sorted,
	}
	for _, item := range items {
		name := item.Name()
		if pos, ok := c.index[name]; ok {
			c.items[pos] = item
			continue
		}
		c.index[name] = len(c.items)
		c.items = append(c.items, item)
	}
	if sorted {
		sort.SliceStable(c.items, func(i, j int) bool {
			return c.items[i].Name() < c.items[j].Name()
		})
		for i, item := range c.items {
			c.index[item.Name()] = i
		}
	}
	return c
}

// Len returns the number of resources.
func (c *Collection[T]) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Sorted reports whether the collection canonicalizes to name order.
func (c *Collection[T]) Sorted() bool {
	return c != nil && c.sorted
}

// Items returns a copy of the resources in collection order.
func (c *Collection[T]) Items() []T {
	if c == nil {
		return nil
	}
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Names returns resource names in collection order.
func (c *Collection[T]) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, len(c.items))
	for i, item := range c.items {
		names[i] = item.Name()
	}
	return names
}

// All iterates the resources in collection order. The iterator is restartable.
func (c *Collection[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		if c == nil {
			return
		}
		for _, item := range c.items {
			if !yield(item) {
				return
			}
		}
	}
}

// Has reports whether a resource named name is present.
func (c *Collection[T]) Has(name string) bool {
	if c == nil {
		return false
	}
	_, ok := c.index[name]
	return ok
}

// Contains reports whether a resource with item's name is present.
func (c *Collection[T]) Contains(item T) bool {
	return c.Has(item.Name())
}

// Get returns the resource named name or a *LookupError.
func (c *Collection[T]) Get(name string) (T, error) {
	if c != nil {
		if pos, ok := c.index[name]; ok {
			return c.items[pos], nil
		}
	}
	var zero T
	return zero, &LookupError{Name: name}
}

// Filter returns the resources for which keep returns true.
func (c *Collection[T]) Filter(keep func(T) bool) *Collection[T] {
	out := make([]T, 0, c.Len())
	for item := range c.All() {
		if keep(item) {
			out = append(out, item)
		}
	}
	return build(c.Sorted(), out)
}

// Diff returns the resources whose names are absent from other.
func (c *Collection[T]) Diff(other *Collection[T]) *Collection[T] {
	return c.Filter(func(item T) bool { return !other.Contains(item) })
}

// Intersect returns the resources whose names are present in other.
func (c *Collection[T]) Intersect(other *Collection[T]) *Collection[T] {
	return c.Filter(func(item T) bool { return other.Contains(item) })
}
