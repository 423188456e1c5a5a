// Package filter decides which repositories belong to a template by
// evaluating the template's filter criteria against repository properties.
package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/conn-castle/steward/internal/messages"
	"github.com/conn-castle/steward/internal/repository"
	"github.com/conn-castle/steward/internal/value"
)

// Criterion is one (property, filter value) entry of a filter.
// Value is a scalar, a list of scalars, or an "@=" expression string.
type Criterion struct {
	Property string
	Value    any

	expr *Expression
}

// Expression returns the parsed expression, or nil when Value is not an
// expression or failed to parse (and is compared literally).
func (c Criterion) Expression() *Expression {
	return c.expr
}

// Spec is an ordered list of criteria combined with AND.
type Spec struct {
	criteria []Criterion
}

// NewSpec compiles criteria in declaration order. Values with the "@="
// prefix that do not parse are kept and compared as literal strings.
func NewSpec(criteria ...Criterion) Spec {
	out := make([]Criterion, len(criteria))
	for i, c := range criteria {
		c.Value = value.Normalize(c.Value)
		if s, ok := c.Value.(string); ok && strings.HasPrefix(s, ExpressionPrefix) {
			if expr, err := ParseExpression(strings.TrimPrefix(s, ExpressionPrefix)); err == nil {
				c.expr = expr
			}
		}
		out[i] = c
	}
	return Spec{criteria: out}
}

// Criteria returns the compiled criteria in declaration order.
func (s Spec) Criteria() []Criterion {
	return append([]Criterion{}, s.criteria...)
}

// Len returns the number of criteria.
func (s Spec) Len() int {
	return len(s.criteria)
}

// Validate rejects property names the schema cannot resolve, including
// properties read through "repository.<name>" inside expressions.
func (s Spec) Validate(schema repository.Schema) error {
	var errs []error
	for _, c := range s.criteria {
		if err := schema.ValidateProperty(c.Property); err != nil {
			errs = append(errs, err)
			continue
		}
		if c.expr == nil {
			continue
		}
		for _, property := range c.expr.Properties() {
			if err := schema.ValidateProperty(property); err != nil {
				errs = append(errs, fmt.Errorf(messages.FilterExpressionPropertyFmt, c.Property, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Match reports whether repo satisfies every criterion of spec. Every
// property the spec reads is resolved up front, so an unresolvable property
// is an error regardless of criteria order. Criteria are then evaluated in
// order and evaluation stops at the first one that fails.
// An empty spec matches every repository.
func Match(repo *repository.Repository, spec Spec) (bool, error) {
	for _, c := range spec.criteria {
		if err := c.resolve(repo); err != nil {
			return false, fmt.Errorf(messages.FilterCriterionFmt, repo.Name(), c.Property, err)
		}
	}
	for _, c := range spec.criteria {
		ok, err := c.matches(repo)
		if err != nil {
			return false, fmt.Errorf(messages.FilterCriterionFmt, repo.Name(), c.Property, err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// resolve looks up every property c reads without evaluating it.
func (c Criterion) resolve(repo *repository.Repository) error {
	if _, err := repo.Property(c.Property); err != nil {
		return err
	}
	if c.expr == nil {
		return nil
	}
	for _, property := range c.expr.Properties() {
		if _, err := repo.Property(property); err != nil {
			return err
		}
	}
	return nil
}

func (c Criterion) matches(repo *repository.Repository) (bool, error) {
	actual, err := repo.Property(c.Property)
	if err != nil {
		return false, err
	}

	if wanted, ok := value.AsList(c.Value); ok {
		if len(wanted) == 0 {
			return true, nil
		}
		if actualList, ok := value.AsList(actual); ok {
			return value.Intersects(wanted, actualList), nil
		}
		return value.Contains(wanted, actual), nil
	}

	if c.expr != nil {
		return c.expr.Eval(repo, c.Property)
	}
	if backed, ok := actual.(value.Backed); ok {
		return value.Equal(backed.Scalar(), c.Value), nil
	}
	if actualList, ok := value.AsList(actual); ok {
		return value.Contains(actualList, c.Value), nil
	}
	return value.Equal(actual, c.Value), nil
}
