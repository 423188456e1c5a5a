// Package resource provides the named-resource contract shared by
// repositories, users, templates, profiles, and attributes, plus a generic
// name-keyed collection over them.
package resource

// Named is any entity identified by a stable name within its collection.
type Named interface {
	Name() string
}

// Kind classifies a named resource for change aggregation.
type Kind string

// Resource kinds, coarsest first.
const (
	KindProfile    Kind = "profile"
	KindTemplate   Kind = "template"
	KindRepository Kind = "repository"
	KindAttribute  Kind = "attribute"
	KindUser       Kind = "user"
	KindUnknown    Kind = ""
)

// Kinded is implemented by resources that report their kind.
type Kinded interface {
	ResourceKind() Kind
}

// KindOf returns the resource kind of n, or KindUnknown when n does not report one.
func KindOf(n Named) Kind {
	if k, ok := n.(Kinded); ok {
		return k.ResourceKind()
	}
	return KindUnknown
}

// Level orders kinds from coarse to fine. Template and repository share a
// level because template changes land on the same physical repository.
func (k Kind) Level() int {
	switch k {
	case KindProfile:
		return 0
	case KindTemplate, KindRepository:
		return 1
	case KindAttribute, KindUser:
		return 2
	default:
		return -1
	}
}
