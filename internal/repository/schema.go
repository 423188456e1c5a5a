package repository

import (
	"github.com/conn-castle/steward/internal/suggest"
)

// Schema declares which raw attributes a platform exposes and which of them
// cannot be written.
type Schema struct {
	Platform string
	// Attributes lists writable attribute names in declaration order.
	Attributes []string
	// ReadOnly lists attribute names the platform reports but refuses to update.
	ReadOnly []string
	// Detailed lists attribute names the platform reports only on the
	// single-repository endpoint, not in listings.
	Detailed []string
}

// IsDetailed reports whether name is only available from the
// single-repository endpoint.
func (s Schema) IsDetailed(name string) bool {
	for _, d := range s.Detailed {
		if d == name {
			return true
		}
	}
	return false
}

// IsReadOnly reports whether name is a recognized read-only attribute.
func (s Schema) IsReadOnly(name string) bool {
	for _, ro := range s.ReadOnly {
		if ro == name {
			return true
		}
	}
	return false
}

// Open reports whether the schema declares nothing, in which case every
// property name is accepted and unknown names surface while matching.
func (s Schema) Open() bool {
	return len(s.Attributes) == 0 && len(s.ReadOnly) == 0
}

// Properties returns every filterable name: synthetic properties followed by
// declared attributes.
func (s Schema) Properties() []string {
	out := SyntheticProperties()
	out = append(out, s.Attributes...)
	out = append(out, s.ReadOnly...)
	return out
}

// ValidateProperty rejects filter property names the platform cannot resolve.
func (s Schema) ValidateProperty(name string) error {
	if IsSynthetic(name) || s.Open() {
		return nil
	}
	for _, known := range s.Properties() {
		if known == name {
			return nil
		}
	}
	return &PropertyError{Name: name, Suggestions: suggest.Candidates(name, s.Properties())}
}
