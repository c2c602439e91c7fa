package identity

import (
	"context"
	"errors"
	"testing"

	"recicleaqui/apperr"
	"recicleaqui/database/repository"
	"recicleaqui/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	clients    []models.Client
	collectors []models.Collector
	points     []models.CollectionPoint
	err        error
}

func (m *memStore) GetClientByUserID(_ context.Context, userID string) (*models.Client, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.clients {
		if m.clients[i].UserID == userID {
			return &m.clients[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) GetCollectorByUserID(_ context.Context, userID string) (*models.Collector, error) {
	for i := range m.collectors {
		if m.collectors[i].UserID == userID {
			return &m.collectors[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) GetCollectionPoint(_ context.Context, id string) (*models.CollectionPoint, error) {
	for i := range m.points {
		if m.points[i].ID == id {
			return &m.points[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func newResolver() (*Resolver, *memStore) {
	store := &memStore{
		clients:    []models.Client{{ID: "cl1", UserID: "u-client"}},
		collectors: []models.Collector{{ID: "co1", UserID: "u-collector"}},
		points:     []models.CollectionPoint{{ID: "p1", CollectorID: "co1"}},
	}
	return NewResolver(store, store), store
}

func TestResolver_Mappings(t *testing.T) {
	ctx := context.Background()
	r, _ := newResolver()

	id, err := r.ClientIDForUser(ctx, "u-client")
	require.NoError(t, err)
	assert.Equal(t, "cl1", id)

	id, err = r.CollectorIDForUser(ctx, "u-collector")
	require.NoError(t, err)
	assert.Equal(t, "co1", id)

	owner, err := r.CollectorIDForCollectionPoint(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "co1", owner)
}

func TestResolver_NotFound(t *testing.T) {
	ctx := context.Background()
	r, _ := newResolver()

	_, err := r.ClientIDForUser(ctx, "nobody")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = r.CollectorIDForUser(ctx, "u-client")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = r.CollectorIDForCollectionPoint(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestResolver_StoreFailurePassesThrough(t *testing.T) {
	r, store := newResolver()
	boom := errors.New("connection reset")
	store.err = boom

	_, err := r.ClientIDForUser(context.Background(), "u-client")
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, apperr.CodeOf(err))
}
