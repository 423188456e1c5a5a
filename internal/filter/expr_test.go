package filter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/steward/internal/repository"
)

func TestParseExpressionSyntaxErrors(t *testing.T) {
	cases := []string{
		"",
		"(true",
		"true and",
		"repository",
		"repository.",
		"match(",
		"match()",
		"match('a', 'b', 'c')",
		"unknown == 1",
		"'unterminated",
		"true $",
		"1 == 1 1",
	}
	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			_, err := ParseExpression(src)
			require.Error(t, err)
			var syntaxErr *SyntaxError
			assert.True(t, errors.As(err, &syntaxErr), "got %T", err)
		})
	}
}

func TestEvalExpressions(t *testing.T) {
	attrs, err := repository.ParseAttributes([]byte(`{"description":"Payment Gateway","stars":12,"archived":false,"ratio":0.5}`))
	require.NoError(t, err)
	repo := repository.New(repository.Snapshot{
		Path:       "shop/payments",
		Type:       repository.TypeFork,
		Topics:     []string{"Billing", "go"},
		Attributes: attrs,
	})

	cases := []struct {
		src      string
		property string
		want     bool
	}{
		{"true", "path", true},
		{"false", "path", false},
		{"!false", "path", true},
		{"not true", "path", false},
		{"true && false", "path", false},
		{"true || false", "path", true},
		{"false or (true and not false)", "path", true},
		{"repository.stars == 12", "path", true},
		{"repository.stars == '12'", "path", false},
		{"repository.stars != 13", "path", true},
		{"repository.ratio == 0.5", "path", true},
		{"repository.type == 'fork'", "path", true},
		{"repository.archived == false", "path", true},
		{"repository.description == null", "path", false},
		{"property == \"description\"", "description", true},
		{"match('gateway')", "description", true},
		{"match('^gateway')", "description", false},
		{"match('billing')", "topics", true},
		{"match('^sh', repository.path)", "description", true},
		{"match('2$', repository.stars)", "path", true},
		{"match(\"it\\'s\", 'IT\\'S')", "path", true},
		{"match('x', null)", "path", false},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			expr, err := ParseExpression(tc.src)
			require.NoError(t, err)
			got, err := expr.Eval(repo, tc.property)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEvalShortCircuitsLogicalOperators(t *testing.T) {
	repo := repository.New(repository.Snapshot{Path: "a/b"})

	expr, err := ParseExpression("false and repository.missing == 1")
	require.NoError(t, err)
	got, err := expr.Eval(repo, "path")
	require.NoError(t, err)
	assert.False(t, got)

	expr, err = ParseExpression("true or repository.missing == 1")
	require.NoError(t, err)
	got, err = expr.Eval(repo, "path")
	require.NoError(t, err)
	assert.True(t, got)
}

func TestEvalRejectsNonBoolOperands(t *testing.T) {
	repo := repository.New(repository.Snapshot{Path: "a/b"})

	expr, err := ParseExpression("'x' and true")
	require.NoError(t, err)
	_, err = expr.Eval(repo, "path")
	assert.ErrorContains(t, err, "logical operand must be a boolean")

	expr, err = ParseExpression("match(1)")
	require.NoError(t, err)
	_, err = expr.Eval(repo, "path")
	assert.ErrorContains(t, err, "pattern must be a string")
}

func TestExpressionProperties(t *testing.T) {
	expr, err := ParseExpression("repository.a == 1 and match('x', repository.b) or property == 'c'")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, expr.Properties())
	assert.Equal(t, "repository.a == 1 and match('x', repository.b) or property == 'c'", expr.String())
}
