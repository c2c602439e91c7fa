package discardRepo

import (
	"context"

	"recicleaqui/models"
)

// DiscardRepository defines persistence for discards and their offers.
type DiscardRepository interface {
	// CreateDiscard inserts a new discard.
	CreateDiscard(ctx context.Context, d *models.Discard) error
	// GetDiscard returns the discard or repository.ErrNotFound.
	GetDiscard(ctx context.Context, id string) (*models.Discard, error)
	// ListDiscards returns discards matching filter, oldest first.
	ListDiscards(ctx context.Context, filter models.DiscardFilter) ([]models.Discard, error)
	// SaveDiscard writes d if the stored version still equals d.Version and
	// bumps the version; otherwise it returns repository.ErrStaleWrite.
	SaveDiscard(ctx context.Context, d *models.Discard) error

	CreateOffer(ctx context.Context, o *models.Offer) error
	GetOffer(ctx context.Context, id string) (*models.Offer, error)
	ListOffers(ctx context.Context, filter models.OfferFilter) ([]models.Offer, error)
	SaveOffer(ctx context.Context, o *models.Offer) error

	// WithTransaction runs fn inside a single multi-document transaction.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	// EnsureIndexes creates the indexes used by the queries above.
	EnsureIndexes(ctx context.Context) error
}
