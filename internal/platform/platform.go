// Package platform defines the contract between the governance core and a
// source-hosting platform, plus the HTTP plumbing shared by its clients.
package platform

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/conn-castle/steward/internal/change"
	"github.com/conn-castle/steward/internal/messages"
	"github.com/conn-castle/steward/internal/repository"
)

// FetchOptions selects the per-repository lookups a fetch performs. Each one
// costs one extra request per repository.
type FetchOptions struct {
	Users     bool
	Languages bool
	// Details replaces the listing payload with the full single-repository
	// document, for attributes listings omit.
	Details bool
}

// Client reads repositories from a platform and applies changes to them.
type Client interface {
	// Schema describes the attributes the platform exposes.
	Schema() repository.Schema
	// Repositories returns every repository the client is scoped to.
	Repositories(ctx context.Context, opts FetchOptions) ([]*repository.Repository, error)
	// Apply submits a single change.
	Apply(ctx context.Context, repo *repository.Repository, ch change.Change) error
}

// ErrUnsupportedChange is returned by Apply for change kinds a client cannot submit.
var ErrUnsupportedChange = errors.New("unsupported change")

// Error is a failure reported by a hosting platform or its transport.
type Error struct {
	Platform   string
	Op         string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf(messages.PlatformStatusErrorFmt, e.Platform, e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf(messages.PlatformErrorFmt, e.Platform, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a platform 404.
func IsNotFound(err error) bool {
	var platformErr *Error
	return errors.As(err, &platformErr) && platformErr.StatusCode == 404
}

// Unsupported builds the error for a change a client cannot submit.
func Unsupported(platformName string, ch change.Change) error {
	return &Error{
		Platform: platformName,
		Op:       fmt.Sprintf("apply %T", ch),
		Err:      errors.WithStack(ErrUnsupportedChange),
	}
}
