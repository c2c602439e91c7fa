package discard

import (
	"context"
	"time"

	"recicleaqui/models"
	"recicleaqui/services/geo"

	"go.uber.org/zap"
)

// DiscardStore is the persistence the lifecycle manager needs for discards.
type DiscardStore interface {
	CreateDiscard(ctx context.Context, d *models.Discard) error
	GetDiscard(ctx context.Context, id string) (*models.Discard, error)
	ListDiscards(ctx context.Context, filter models.DiscardFilter) ([]models.Discard, error)
	SaveDiscard(ctx context.Context, d *models.Discard) error
}

// OfferStore is the persistence the negotiation protocol needs for offers.
type OfferStore interface {
	CreateOffer(ctx context.Context, o *models.Offer) error
	GetOffer(ctx context.Context, id string) (*models.Offer, error)
	ListOffers(ctx context.Context, filter models.OfferFilter) ([]models.Offer, error)
	SaveOffer(ctx context.Context, o *models.Offer) error
}

// Transactor runs fn atomically. Store calls made with the ctx passed to fn
// take part in the transaction.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// CollectorDirectory reads collectors and their collection points.
type CollectorDirectory interface {
	GetCollector(ctx context.Context, id string) (*models.Collector, error)
	GetCollectionPoint(ctx context.Context, id string) (*models.CollectionPoint, error)
	ListCollectionPointsAcceptingLines(ctx context.Context, lines models.Lines) ([]models.CollectionPointWithCollector, error)
}

// ClientDirectory reads client profiles.
type ClientDirectory interface {
	GetClient(ctx context.Context, id string) (*models.Client, error)
	ListClientsByIDs(ctx context.Context, ids []string) ([]models.Client, error)
}

// DiscardService is the discard lifecycle and offer negotiation workflow.
// Callers pass already-resolved client and collector ids; ownership checks
// live in Guard.
type DiscardService interface {
	RegisterDiscard(ctx context.Context, clientID string, in RegisterDiscardInput) (*models.Discard, error)
	GetDiscard(ctx context.Context, discardID string) (*DiscardDetails, error)
	ListClientDiscards(ctx context.Context, clientID string) ([]models.Discard, error)
	CancelDiscard(ctx context.Context, discardID string) (*models.Discard, error)
	CompleteDiscard(ctx context.Context, discardID string) (*models.Discard, error)

	ListEligibleCollectionPoints(ctx context.Context, clientAddress models.Address, lines models.Lines, radiusKm float64) ([]EligiblePoint, error)
	ListPendingPickupDiscardsForCollector(ctx context.Context, collectorID string) ([]models.Discard, error)
	ListPendingPickupDiscardsByDistance(ctx context.Context, collectorID string, radiusKm float64) ([]PickupCandidate, error)

	CreateOffer(ctx context.Context, collectorID, discardID string, slots []models.TimeSlot) (*models.Offer, error)
	AcceptOffer(ctx context.Context, offerID string, chosenSlotIndex int) (*OfferDecision, error)
	RejectOffer(ctx context.Context, offerID string) (*OfferDecision, error)
	GetOffer(ctx context.Context, offerID string) (*models.Offer, error)
	AcceptedOffer(ctx context.Context, discardID string) (*models.Offer, error)
	ListOffers(ctx context.Context, discardID string) ([]models.Offer, error)
}

const (
	DefaultPointRadiusKm  = 20.0
	DefaultPickupRadiusKm = 15.0
)

// DefaultDiscardService implements DiscardService.
type DefaultDiscardService struct {
	Discards   DiscardStore
	Offers     OfferStore
	Tx         Transactor
	Collectors CollectorDirectory
	Clients    ClientDirectory
	// Geocoder is optional; without it eligible-point search relies on the
	// textual locality match when the client address has no coordinates.
	Geocoder geo.Geocoder
	Logger   *zap.Logger

	PointRadiusKm  float64
	PickupRadiusKm float64

	Now func() time.Time
}

func (s *DefaultDiscardService) log() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *DefaultDiscardService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// RegisterDiscardInput carries the client's request for a new discard.
type RegisterDiscardInput struct {
	Mode              models.DiscardMode
	Lines             []string
	CollectionPointID string
	Description       string
}

// CollectorRef identifies the collector owning a collection point.
type CollectorRef struct {
	ID        string `json:"id"`
	TradeName string `json:"tradeName"`
}

// EligiblePoint is a collection point able to receive a discard.
type EligiblePoint struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	models.Address
	AcceptedLines models.Lines `json:"acceptedLines"`
	Collector     CollectorRef `json:"collector"`
	DistanceKm    *float64     `json:"distanceKm"`
}

// ClientContact is what a collector sees about the client of a pickup.
type ClientContact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// PickupCandidate is a pending pickup discard annotated with the distance
// from the collector's headquarters.
type PickupCandidate struct {
	ID                       string               `json:"id"`
	Mode                     models.DiscardMode   `json:"mode"`
	Status                   models.DiscardStatus `json:"status"`
	Description              string               `json:"description,omitempty"`
	Lines                    models.Lines         `json:"lines"`
	CreatedAt                time.Time            `json:"createdAt"`
	Client                   ClientContact        `json:"client"`
	Address                  models.Address       `json:"address"`
	DistanceFromHeadquarters *float64             `json:"distanceFromHeadquarters"`
}

// DiscardDetails is a discard with every offer made on it.
type DiscardDetails struct {
	models.Discard
	Offers []models.Offer `json:"offers"`
}

// OfferDecision reports the outcome of accepting or rejecting an offer.
type OfferDecision struct {
	Offer   *models.Offer   `json:"offer"`
	Discard *models.Discard `json:"discard"`
}
