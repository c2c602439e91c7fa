package collector

import (
	"context"

	"recicleaqui/models"
	"recicleaqui/services/ownership"
)

func (s *DefaultCollectorService) collectorID(ctx context.Context, actor ownership.Actor) (string, error) {
	if err := ownership.RequireRole(actor, models.RoleCollector); err != nil {
		return "", err
	}
	return ownership.ResolveIdentity(ctx, actor, s.Identity.CollectorIDForUser)
}

func (s *DefaultCollectorService) CreateCollectionPointForUser(ctx context.Context, actor ownership.Actor, in CreatePointInput) (*models.CollectionPoint, error) {
	collectorID, err := s.collectorID(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.CreateCollectionPoint(ctx, collectorID, in)
}

// SetCollectionPointActiveForUser toggles a point owned by the caller.
func (s *DefaultCollectorService) SetCollectionPointActiveForUser(ctx context.Context, actor ownership.Actor, pointID string, active bool) (*models.CollectionPoint, error) {
	policy := ownership.Policy{
		Resource: "collection point",
		Role:     models.RoleCollector,
		Identity: s.Identity.CollectorIDForUser,
		Owner:    s.Identity.CollectorIDForCollectionPoint,
	}
	if err := ownership.Authorize(ctx, actor, pointID, policy); err != nil {
		return nil, err
	}
	return s.SetCollectionPointActive(ctx, pointID, active)
}

func (s *DefaultCollectorService) ListPointsForUser(ctx context.Context, actor ownership.Actor) ([]models.CollectionPoint, error) {
	collectorID, err := s.collectorID(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.Store.ListPointsByCollector(ctx, collectorID)
}
