// Package ownership checks that the authenticated caller owns the resource
// a mutating operation targets.
package ownership

import (
	"context"
	"errors"
	"fmt"

	"recicleaqui/apperr"
	"recicleaqui/models"
)

// Actor is the authenticated caller.
type Actor struct {
	UserID string
	Role   models.Role
}

// ResolverFunc returns the user id owning resourceID.
type ResolverFunc func(ctx context.Context, resourceID string) (string, error)

// LookupFunc maps a user id to a domain identity such as a client id.
type LookupFunc func(ctx context.Context, userID string) (string, error)

// Policy describes who may act on a kind of resource. An empty Role accepts
// any role; a nil Owner skips the ownership comparison. When Identity is set,
// Owner returns a domain identity (a client or collector id) and the actor's
// own identity is resolved through Identity before comparing.
type Policy struct {
	Resource string
	Role     models.Role
	Identity LookupFunc
	Owner    ResolverFunc
}

// RequireRole fails with Unauthorized for anonymous actors and Forbidden when
// the actor does not hold role.
func RequireRole(actor Actor, role models.Role) error {
	if actor.UserID == "" {
		return apperr.Unauthorized("authentication required")
	}
	if role != "" && actor.Role != role {
		return apperr.Forbidden(fmt.Sprintf("requires role %s", role))
	}
	return nil
}

// Authorize applies p to actor for resourceID. The actor's identity is
// resolved before the resource is looked up. Errors from the owner resolver
// are returned unchanged.
func Authorize(ctx context.Context, actor Actor, resourceID string, p Policy) error {
	if err := RequireRole(actor, p.Role); err != nil {
		return err
	}
	if p.Owner == nil {
		return nil
	}
	caller := actor.UserID
	if p.Identity != nil {
		id, err := ResolveIdentity(ctx, actor, p.Identity)
		if err != nil {
			return err
		}
		caller = id
	}
	owner, err := p.Owner(ctx, resourceID)
	if err != nil {
		return err
	}
	if owner != caller {
		return apperr.Forbidden(fmt.Sprintf("access denied to %s %s", p.Resource, resourceID))
	}
	return nil
}

// ResolveIdentity runs lookup for the actor. A caller without a mapped
// identity is treated as unauthenticated.
func ResolveIdentity(ctx context.Context, actor Actor, lookup LookupFunc) (string, error) {
	if actor.UserID == "" {
		return "", apperr.Unauthorized("authentication required")
	}
	id, err := lookup(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", apperr.Unauthorized("no profile linked to the authenticated user").WithCause(err)
		}
		return "", err
	}
	return id, nil
}
