package change

import (
	"errors"
	"fmt"
	"strings"

	"github.com/conn-castle/steward/internal/messages"
)

// ErrInvalidTarget is matched by every target attribute error below.
var ErrInvalidTarget = errors.New("invalid target attribute")

// UnknownAttributeError reports a target attribute the platform does not expose.
type UnknownAttributeError struct {
	Name string
	// Suggestions are real attribute names within edit distance 3, in
	// attribute declaration order.
	Suggestions []string
}

func (e *UnknownAttributeError) Error() string {
	msg := fmt.Sprintf(messages.ChangeAttributeUnknownFmt, e.Name)
	if len(e.Suggestions) == 0 {
		return msg
	}
	quoted := make([]string, len(e.Suggestions))
	for i, s := range e.Suggestions {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return msg + fmt.Sprintf(messages.DidYouMeanFmt, strings.Join(quoted, ", "))
}

// Is makes errors.Is(err, ErrInvalidTarget) true.
func (e *UnknownAttributeError) Is(target error) bool { return target == ErrInvalidTarget }

// ReadOnlyAttributeError reports a target attribute the platform refuses to update.
type ReadOnlyAttributeError struct {
	Name string
}

func (e *ReadOnlyAttributeError) Error() string {
	return fmt.Sprintf(messages.ChangeAttributeReadOnlyFmt, e.Name)
}

// Is makes errors.Is(err, ErrInvalidTarget) true.
func (e *ReadOnlyAttributeError) Is(target error) bool { return target == ErrInvalidTarget }

// UnsupportedValueTypeError reports an attribute whose current value is not a
// scalar and therefore cannot be compared.
type UnsupportedValueTypeError struct {
	Name string
	Type string
}

func (e *UnsupportedValueTypeError) Error() string {
	return fmt.Sprintf(messages.ChangeAttributeUnsupportedTypeFmt, e.Name, e.Type)
}

// Is makes errors.Is(err, ErrInvalidTarget) true.
func (e *UnsupportedValueTypeError) Is(target error) bool { return target == ErrInvalidTarget }
