package collectorRepo

import (
	"context"

	"recicleaqui/models"
)

// CollectorRepository defines persistence for collectors and their collection points.
type CollectorRepository interface {
	GetCollector(ctx context.Context, id string) (*models.Collector, error)
	GetCollectorByUserID(ctx context.Context, userID string) (*models.Collector, error)
	ListCollectorsByIDs(ctx context.Context, ids []string) ([]models.Collector, error)
	// SearchCollectors filters by accepted line and collection type. BOTH
	// collectors match either MOBILE or FIXED.
	SearchCollectors(ctx context.Context, criteria models.CollectorSearchCriteria) ([]models.Collector, error)

	GetCollectionPoint(ctx context.Context, id string) (*models.CollectionPoint, error)
	// ListCollectionPointsAcceptingLines returns active points accepting every
	// line in lines, joined with their collector.
	ListCollectionPointsAcceptingLines(ctx context.Context, lines models.Lines) ([]models.CollectionPointWithCollector, error)
	ListActivePointsByCollectors(ctx context.Context, collectorIDs []string) ([]models.CollectionPoint, error)
	ListPointsByCollector(ctx context.Context, collectorID string) ([]models.CollectionPoint, error)
	CreateCollectionPoint(ctx context.Context, p *models.CollectionPoint) error
	SetCollectionPointActive(ctx context.Context, id string, active bool) (*models.CollectionPoint, error)

	EnsureIndexes(ctx context.Context) error
}
