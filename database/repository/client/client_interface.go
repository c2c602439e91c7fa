package clientRepo

import (
	"context"

	"recicleaqui/models"
)

// ClientRepository defines read access to client profiles.
type ClientRepository interface {
	GetClient(ctx context.Context, id string) (*models.Client, error)
	GetClientByUserID(ctx context.Context, userID string) (*models.Client, error)
	ListClientsByIDs(ctx context.Context, ids []string) ([]models.Client, error)
	EnsureIndexes(ctx context.Context) error
}
