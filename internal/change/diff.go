package change

import (
	"fmt"

	"github.com/conn-castle/steward/internal/messages"
	"github.com/conn-castle/steward/internal/repository"
	"github.com/conn-castle/steward/internal/resource"
	"github.com/conn-castle/steward/internal/suggest"
	"github.com/conn-castle/steward/internal/value"
)

// AttributeValue is one desired attribute value.
type AttributeValue struct {
	Name  string
	Value any
}

// Target is the desired state a template declares for its repositories.
type Target struct {
	// Attributes are compared and applied in this order.
	Attributes []AttributeValue
	// Users is the desired collaborator set; nil leaves collaborators unmanaged.
	Users *resource.Collection[repository.User]
}

// Diff compares repo against target and returns the repository-level change
// collection: attribute updates in target order, then user changes.
func Diff(repo *repository.Repository, target Target, schema repository.Schema) (*Collection, error) {
	changes, err := DiffAttributes(repo, target.Attributes, schema)
	if err != nil {
		return nil, err
	}
	changes = append(changes, DiffUsers(repo, target.Users)...)
	return NewCollection(repo, changes...), nil
}

// DiffAttributes returns one AttributeUpdate per desired attribute.
//
// Read-only attributes fail regardless of value, attributes absent from the
// snapshot fail with close-spelling suggestions, and attributes whose current
// value is not a scalar fail because only scalar comparison is supported.
func DiffAttributes(repo *repository.Repository, attrs []AttributeValue, schema repository.Schema) ([]Change, error) {
	snapshot := repo.Attributes()
	out := make([]Change, 0, len(attrs))
	for _, attr := range attrs {
		if schema.IsReadOnly(attr.Name) {
			return nil, &ReadOnlyAttributeError{Name: attr.Name}
		}
		actual, ok := snapshot.Get(attr.Name)
		if !ok {
			return nil, &UnknownAttributeError{
				Name:        attr.Name,
				Suggestions: suggest.Candidates(attr.Name, snapshot.Keys()),
			}
		}
		if !value.IsScalar(actual) {
			return nil, &UnsupportedValueTypeError{Name: attr.Name, Type: value.TypeName(actual)}
		}
		if !value.IsScalar(attr.Value) {
			return nil, fmt.Errorf(messages.ChangeExpectedScalarFmt, attr.Name, value.TypeName(attr.Value))
		}
		out = append(out, NewAttributeUpdate(attr.Name, actual, attr.Value))
	}
	return out, nil
}

// DiffUsers returns Create for desired users that are not collaborators,
// Update for collaborators with a different role, and Delete for
// collaborators that are not desired. A nil desired set yields no changes.
func DiffUsers(repo *repository.Repository, desired *resource.Collection[repository.User]) []Change {
	if desired == nil {
		return nil
	}
	actual := repo.Users()
	var out []Change
	for user := range desired.All() {
		current, err := actual.Get(user.Username)
		if err != nil {
			out = append(out, NewCreate(user))
			continue
		}
		if current.Role != user.Role {
			out = append(out, NewUpdate(user, current))
		}
	}
	for user := range actual.Diff(desired).All() {
		out = append(out, NewDelete(user))
	}
	return out
}
