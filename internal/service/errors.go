package service

import (
	"errors"
	"fmt"

	"github.com/taskward/taskward/internal/store"
)

// The domain error taxonomy. Each failure surfaces as one of these stable
// sentinels so the transport layer can map them to distinct statuses.
var (
	// ErrConflict reports a duplicate unique-key violation on create.
	ErrConflict = errors.New("conflict")

	// ErrNotFound reports a missing entity or a dangling foreign reference.
	ErrNotFound = errors.New("not_found")

	// ErrUnauthorized reports a missing/invalid/expired token, a token that
	// resolves to an inactive or deleted user, or bad login credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden reports an authenticated principal acting outside its
	// ownership scope.
	ErrForbidden = errors.New("forbidden")

	// ErrInternal wraps unexpected persistence or signing failures. The
	// underlying message is preserved for diagnostics; hash material never is.
	ErrInternal = errors.New("internal_error")
)

// mapStoreErr translates persistence sentinels into the domain taxonomy.
// Anything unrecognized becomes ErrInternal with the original message kept.
func mapStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrAlreadyExists):
		return ErrConflict
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
