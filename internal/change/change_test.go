package change

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/steward/internal/repository"
	"github.com/conn-castle/steward/internal/resource"
)

type named struct {
	name string
	kind resource.Kind
}

func (n named) Name() string                { return n.name }
func (n named) ResourceKind() resource.Kind { return n.kind }

func newRepo(t *testing.T, path string, attrs string, users ...repository.User) *repository.Repository {
	t.Helper()
	parsed, err := repository.ParseAttributes([]byte(attrs))
	require.NoError(t, err)
	return repository.New(repository.Snapshot{Path: path, Attributes: parsed, Users: users})
}

var gitlabSchema = repository.Schema{
	Platform:   "gitlab",
	Attributes: []string{"description", "visibility", "archived"},
	ReadOnly:   []string{"star_count", "forks_count"},
}

func TestAttributeUpdateIsActualIsStrict(t *testing.T) {
	cases := []struct {
		actual, expected any
		want             bool
	}{
		{1, 1, true},
		{1, "1", false},
		{true, 1, false},
		{"true", true, false},
		{nil, nil, true},
		{nil, "", false},
		{"x", "x", true},
		{int64(1), 1.0, false},
		{2.5, 2.5, true},
	}
	for _, tc := range cases {
		u := NewAttributeUpdate("a", tc.actual, tc.expected)
		assert.Equal(t, tc.want, u.IsActual(), "%#v vs %#v", tc.actual, tc.expected)
	}
}

func TestDiffIsActualIffStrictlyEqual(t *testing.T) {
	repo := newRepo(t, "ns/repo", `{"description":"x","archived":false,"visibility":"private"}`)

	cases := []struct {
		name  string
		value any
		want  bool
	}{
		{"description", "x", true},
		{"description", "y", false},
		{"archived", false, true},
		{"archived", 0, false},
		{"archived", "false", false},
		{"visibility", "private", true},
	}
	for _, tc := range cases {
		c, err := Diff(repo, Target{Attributes: []AttributeValue{{Name: tc.name, Value: tc.value}}}, gitlabSchema)
		require.NoError(t, err)
		assert.Equal(t, tc.want, c.IsActual(), "%s=%#v", tc.name, tc.value)
	}
}

func TestDiffUnknownAttributeSuggests(t *testing.T) {
	repo := newRepo(t, "ns/repo", `{"id":1,"description":"x","topics":[]}`)

	_, err := Diff(repo, Target{Attributes: []AttributeValue{{Name: "desciption", Value: "x"}}}, gitlabSchema)

	require.Error(t, err)
	assert.Equal(t, `Attribute "desciption" does not exist. Did you mean "description"?`, err.Error())
	var unknown *UnknownAttributeError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, []string{"description"}, unknown.Suggestions)
	assert.True(t, errors.Is(err, ErrInvalidTarget))
}

func TestDiffUnknownAttributeSuggestionsInDeclarationOrder(t *testing.T) {
	repo := newRepo(t, "ns/repo", `{"names":1,"zzzzzzzzzz":2,"name":"x","nam":3}`)

	_, err := Diff(repo, Target{Attributes: []AttributeValue{{Name: "nme", Value: "x"}}}, repository.Schema{})

	var unknown *UnknownAttributeError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, []string{"names", "name", "nam"}, unknown.Suggestions)
	assert.Equal(t, `Attribute "nme" does not exist. Did you mean "names", "name", "nam"?`, err.Error())
}

func TestDiffUnknownAttributeWithoutSuggestions(t *testing.T) {
	repo := newRepo(t, "ns/repo", `{"description":"x"}`)

	_, err := Diff(repo, Target{Attributes: []AttributeValue{{Name: "completely_unrelated", Value: 1}}}, gitlabSchema)

	var unknown *UnknownAttributeError
	require.True(t, errors.As(err, &unknown))
	assert.Empty(t, unknown.Suggestions)
	assert.Equal(t, `Attribute "completely_unrelated" does not exist`, err.Error())
}

func TestDiffReadOnlyAttribute(t *testing.T) {
	repo := newRepo(t, "ns/repo", `{"description":"x","star_count":3}`)

	for _, v := range []any{3, 4, "x", nil} {
		_, err := Diff(repo, Target{Attributes: []AttributeValue{{Name: "star_count", Value: v}}}, gitlabSchema)
		require.Error(t, err)
		assert.Equal(t, `Attribute "star_count" is read-only.`, err.Error())
	}

	_, err := Diff(repo, Target{Attributes: []AttributeValue{{Name: "forks_count", Value: 1}}}, gitlabSchema)
	var readOnly *ReadOnlyAttributeError
	assert.True(t, errors.As(err, &readOnly), "read-only wins even when the snapshot lacks the attribute")
}

func TestDiffRejectsNestedValues(t *testing.T) {
	repo := newRepo(t, "ns/repo", `{"tag_list":["a"],"namespace":{"id":1}}`)

	_, err := Diff(repo, Target{Attributes: []AttributeValue{{Name: "tag_list", Value: "a"}}}, repository.Schema{})
	var unsupported *UnsupportedValueTypeError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "array", unsupported.Type)

	_, err = Diff(repo, Target{Attributes: []AttributeValue{{Name: "namespace", Value: "a"}}}, repository.Schema{})
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "object", unsupported.Type)
}

func TestDiffRejectsNonScalarExpectedValue(t *testing.T) {
	repo := newRepo(t, "ns/repo", `{"description":"x"}`)

	_, err := Diff(repo, Target{Attributes: []AttributeValue{{Name: "description", Value: []any{"x"}}}}, repository.Schema{})
	assert.ErrorContains(t, err, "must be a bool, int, string, or null")
}

func TestDiffKeepsTargetOrder(t *testing.T) {
	repo := newRepo(t, "ns/repo", `{"a":1,"b":2,"c":3}`)

	c, err := Diff(repo, Target{Attributes: []AttributeValue{
		{Name: "c", Value: 0},
		{Name: "a", Value: 1},
		{Name: "b", Value: 0},
	}}, repository.Schema{})
	require.NoError(t, err)

	var names []string
	for _, ch := range c.Changes() {
		names = append(names, ch.Name())
	}
	assert.Equal(t, []string{"c", "a", "b"}, names)
	assert.Len(t, c.Pending(), 2)
	assert.Equal(t, repo, c.Resource())
}

func TestDiffUsers(t *testing.T) {
	repo := newRepo(t, "ns/repo", `{}`,
		repository.User{Username: "alice", Role: "maintainer"},
		repository.User{Username: "bob", Role: "developer"},
		repository.User{Username: "carol", Role: "developer"},
	)
	desired := resource.NewCollection(
		repository.User{Username: "alice", Role: "maintainer"},
		repository.User{Username: "bob", Role: "maintainer"},
		repository.User{Username: "dave", Role: "reporter"},
	)

	changes := DiffUsers(repo, desired)

	require.Len(t, changes, 3)
	update, ok := changes[0].(*Update)
	require.True(t, ok)
	assert.Equal(t, "bob", update.Name())
	assert.Equal(t, "developer", update.Previous().(repository.User).Role)
	create, ok := changes[1].(*Create)
	require.True(t, ok)
	assert.Equal(t, "dave", create.Name())
	del, ok := changes[2].(*Delete)
	require.True(t, ok)
	assert.Equal(t, "carol", del.Name())

	assert.Nil(t, DiffUsers(repo, nil))
}

func TestCollectionIsActualIsConjunction(t *testing.T) {
	actual := NewAttributeUpdate("a", 1, 1)
	pending := NewAttributeUpdate("b", 1, 2)

	assert.True(t, NewCollection(named{"r", resource.KindRepository}).IsActual())
	assert.True(t, NewCollection(named{"r", resource.KindRepository}, actual).IsActual())
	assert.False(t, NewCollection(named{"r", resource.KindRepository}, actual, pending).IsActual())

	nested := NewCollection(named{"p", resource.KindProfile},
		NewCollection(named{"t", resource.KindTemplate},
			NewCollection(named{"r", resource.KindRepository}, actual, pending)))
	assert.False(t, nested.IsActual())
	assert.False(t, NewCollection(named{"r", resource.KindRepository}, NewCreate(named{"u", resource.KindUser})).IsActual())
}
