package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"desciption", "description", 1},
		{"same", "same", 0},
		{"visibilty", "visibility", 1},
		{"héllo", "hello", 1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Levenshtein(tc.a, tc.b), "%q -> %q", tc.a, tc.b)
		assert.Equal(t, tc.want, Levenshtein(tc.b, tc.a), "%q -> %q", tc.b, tc.a)
	}
}

func TestCandidatesKeepsOptionOrder(t *testing.T) {
	options := []string{"name", "description", "homepage", "visibility", "descr"}

	got := Candidates("desciption", options)

	assert.Equal(t, []string{"description"}, got)
	for _, candidate := range got {
		assert.LessOrEqual(t, Levenshtein("desciption", candidate), MaxDistance)
	}
}

func TestCandidatesMultiple(t *testing.T) {
	got := Candidates("nme", []string{"path", "name", "type", "namespace"})

	assert.Equal(t, []string{"name", "type"}, got)
}

func TestCandidatesEmpty(t *testing.T) {
	assert.Empty(t, Candidates("zzzzzzzzzz", []string{"description", "homepage"}))
}
