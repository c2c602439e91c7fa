package collector

import (
	"context"
	"time"

	"recicleaqui/models"
	"recicleaqui/services/geo"
	"recicleaqui/services/ownership"

	"go.uber.org/zap"
)

// CollectorStore is the persistence the collector directory needs.
type CollectorStore interface {
	GetCollector(ctx context.Context, id string) (*models.Collector, error)
	SearchCollectors(ctx context.Context, criteria models.CollectorSearchCriteria) ([]models.Collector, error)
	ListActivePointsByCollectors(ctx context.Context, collectorIDs []string) ([]models.CollectionPoint, error)
	ListPointsByCollector(ctx context.Context, collectorID string) ([]models.CollectionPoint, error)
	CreateCollectionPoint(ctx context.Context, p *models.CollectionPoint) error
	SetCollectionPointActive(ctx context.Context, id string, active bool) (*models.CollectionPoint, error)
}

type IdentityResolver interface {
	CollectorIDForUser(ctx context.Context, userID string) (string, error)
	CollectorIDForCollectionPoint(ctx context.Context, pointID string) (string, error)
}

type CollectorService interface {
	SearchCollectors(ctx context.Context, f SearchFilter) ([]CollectorResult, error)
	CreateCollectionPoint(ctx context.Context, collectorID string, in CreatePointInput) (*models.CollectionPoint, error)
	SetCollectionPointActive(ctx context.Context, pointID string, active bool) (*models.CollectionPoint, error)
	ListCollectorPoints(ctx context.Context, collectorID string) ([]models.CollectionPoint, error)

	CreateCollectionPointForUser(ctx context.Context, actor ownership.Actor, in CreatePointInput) (*models.CollectionPoint, error)
	SetCollectionPointActiveForUser(ctx context.Context, actor ownership.Actor, pointID string, active bool) (*models.CollectionPoint, error)
	ListPointsForUser(ctx context.Context, actor ownership.Actor) ([]models.CollectionPoint, error)
}

// DefaultCollectorService implements CollectorService.
type DefaultCollectorService struct {
	Store    CollectorStore
	Identity IdentityResolver
	Geocoder geo.Geocoder
	Logger   *zap.Logger
	Now      func() time.Time
}

func (s *DefaultCollectorService) log() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *DefaultCollectorService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// SearchFilter narrows a collector search. Zero fields are ignored; the
// radius filter applies only when Latitude, Longitude and RadiusKm are set.
type SearchFilter struct {
	City           string
	State          string
	Line           models.MaterialLine
	CollectionType models.CollectionType
	Latitude       *float64
	Longitude      *float64
	RadiusKm       float64
}

func (f SearchFilter) origin() *models.Address {
	if f.Latitude == nil || f.Longitude == nil || f.RadiusKm <= 0 {
		return nil
	}
	return &models.Address{Latitude: f.Latitude, Longitude: f.Longitude}
}

// CollectorResult is a collector with the active points relevant to a search.
type CollectorResult struct {
	models.Collector
	CollectionPoints   []models.CollectionPoint `json:"collectionPoints"`
	HeadquartersNearby bool                     `json:"headquartersNearby"`
	// DistanceKm is the distance to the nearest matching location when the
	// search had an origin.
	DistanceKm *float64 `json:"distanceKm,omitempty"`
}

type CreatePointInput struct {
	Name    string
	Address models.Address
	Lines   []string
}
