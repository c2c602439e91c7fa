// Package identity maps authenticated users to their client and collector
// profiles, and collection points to the collectors owning them.
package identity

import (
	"context"
	"errors"

	"recicleaqui/apperr"
	"recicleaqui/database/repository"
	"recicleaqui/models"
)

type ClientLookup interface {
	GetClientByUserID(ctx context.Context, userID string) (*models.Client, error)
}

type CollectorLookup interface {
	GetCollectorByUserID(ctx context.Context, userID string) (*models.Collector, error)
	GetCollectionPoint(ctx context.Context, id string) (*models.CollectionPoint, error)
}

// Resolver answers identity questions from the client and collector stores.
// Every method fails with a NotFound error when no mapping exists.
type Resolver struct {
	Clients    ClientLookup
	Collectors CollectorLookup
}

func NewResolver(clients ClientLookup, collectors CollectorLookup) *Resolver {
	return &Resolver{Clients: clients, Collectors: collectors}
}

func missing(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(msg).WithCause(err)
	}
	return err
}

func (r *Resolver) ClientIDForUser(ctx context.Context, userID string) (string, error) {
	c, err := r.Clients.GetClientByUserID(ctx, userID)
	if err != nil {
		return "", missing(err, "client not found for user")
	}
	return c.ID, nil
}

func (r *Resolver) CollectorIDForUser(ctx context.Context, userID string) (string, error) {
	c, err := r.Collectors.GetCollectorByUserID(ctx, userID)
	if err != nil {
		return "", missing(err, "collector not found for user")
	}
	return c.ID, nil
}

// CollectorIDForCollectionPoint returns the collector owning a point.
func (r *Resolver) CollectorIDForCollectionPoint(ctx context.Context, pointID string) (string, error) {
	p, err := r.Collectors.GetCollectionPoint(ctx, pointID)
	if err != nil {
		return "", missing(err, "collection point not found")
	}
	return p.CollectorID, nil
}
