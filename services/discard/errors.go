package discard

import (
	"errors"

	"recicleaqui/apperr"
	"recicleaqui/database/repository"
)

// notFound maps a store miss to a NotFound error about what; other errors
// pass through unchanged.
func notFound(err error, what string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(what + " not found").WithCause(err)
	}
	return err
}

// stale maps a lost compare-and-swap to a Conflict. Errors that already carry
// a code are left alone.
func stale(err error, what string) error {
	if apperr.CodeOf(err) != "" {
		return err
	}
	if errors.Is(err, repository.ErrStaleWrite) {
		return apperr.Conflict(what + " was modified concurrently").WithCause(err)
	}
	return err
}
