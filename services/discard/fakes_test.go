package discard

import (
	"context"
	"sort"
	"sync"
	"time"

	"recicleaqui/database/repository"
	"recicleaqui/models"
)

// memStore is an in-memory implementation of every store the service needs.
// WithTransaction snapshots discards and offers and restores them when fn
// fails.
type memStore struct {
	mu         sync.Mutex
	discards   map[string]models.Discard
	offers     map[string]models.Offer
	collectors map[string]models.Collector
	points     []models.CollectionPointWithCollector
	clients    map[string]models.Client

	// saveDiscardErr is returned by the next SaveDiscard call.
	saveDiscardErr error
	// commitErr fails the next transaction after fn succeeded.
	commitErr error
}

func newMemStore() *memStore {
	return &memStore{
		discards:   map[string]models.Discard{},
		offers:     map[string]models.Offer{},
		collectors: map[string]models.Collector{},
		clients:    map[string]models.Client{},
	}
}

func (m *memStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	discards := make(map[string]models.Discard, len(m.discards))
	for k, v := range m.discards {
		discards[k] = v
	}
	offers := make(map[string]models.Offer, len(m.offers))
	for k, v := range m.offers {
		offers[k] = v
	}
	m.mu.Unlock()

	err := fn(ctx)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil && m.commitErr != nil {
		err, m.commitErr = m.commitErr, nil
	}
	if err != nil {
		m.discards, m.offers = discards, offers
	}
	return err
}

func (m *memStore) CreateDiscard(_ context.Context, d *models.Discard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.discards[d.ID] = *d
	return nil
}

func (m *memStore) GetDiscard(_ context.Context, id string) (*models.Discard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.discards[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (m *memStore) ListDiscards(_ context.Context, f models.DiscardFilter) ([]models.Discard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Discard{}
	for _, d := range m.discards {
		if (f.ClientID == "" || d.ClientID == f.ClientID) &&
			(f.Mode == "" || d.Mode == f.Mode) &&
			(f.Status == "" || d.Status == f.Status) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) SaveDiscard(_ context.Context, d *models.Discard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.saveDiscardErr; err != nil {
		m.saveDiscardErr = nil
		return err
	}
	stored, ok := m.discards[d.ID]
	if !ok || stored.Version != d.Version {
		return repository.ErrStaleWrite
	}
	d.Version++
	m.discards[d.ID] = *d
	return nil
}

func (m *memStore) CreateOffer(_ context.Context, o *models.Offer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offers[o.ID] = *o
	return nil
}

func (m *memStore) GetOffer(_ context.Context, id string) (*models.Offer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.offers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &o, nil
}

func (m *memStore) ListOffers(_ context.Context, f models.OfferFilter) ([]models.Offer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Offer{}
	for _, o := range m.offers {
		if (f.DiscardID == "" || o.DiscardID == f.DiscardID) &&
			(f.CollectorID == "" || o.CollectorID == f.CollectorID) &&
			(f.Status == "" || o.Status == f.Status) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) SaveOffer(_ context.Context, o *models.Offer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.offers[o.ID]
	if !ok || stored.Version != o.Version {
		return repository.ErrStaleWrite
	}
	o.Version++
	m.offers[o.ID] = *o
	return nil
}

func (m *memStore) GetCollector(_ context.Context, id string) (*models.Collector, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.collectors[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (m *memStore) GetCollectionPoint(_ context.Context, id string) (*models.CollectionPoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.points {
		if p.ID == id {
			cp := p.CollectionPoint
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

// ListCollectionPointsAcceptingLines returns every stored point, leaving the
// line and activity filtering to the service.
func (m *memStore) ListCollectionPointsAcceptingLines(_ context.Context, _ models.Lines) ([]models.CollectionPointWithCollector, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.CollectionPointWithCollector(nil), m.points...), nil
}

func (m *memStore) GetClient(_ context.Context, id string) (*models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.clients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (m *memStore) ListClientsByIDs(_ context.Context, ids []string) ([]models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Client{}
	for _, id := range ids {
		if c, ok := m.clients[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) discard(id string) models.Discard {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.discards[id]
}

func (m *memStore) offer(id string) models.Offer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.offers[id]
}

func (m *memStore) addPoint(p models.CollectionPoint) {
	c := m.collectors[p.CollectorID]
	m.points = append(m.points, models.CollectionPointWithCollector{CollectionPoint: p, Collector: c})
}

// stepClock returns a clock advancing one minute per call.
func stepClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Minute)
		return t
	}
}

type stubGeocoder struct {
	coords *models.Coordinates
	err    error
	calls  int
}

func (g *stubGeocoder) Geocode(_ context.Context, _ models.Address) (*models.Coordinates, error) {
	g.calls++
	return g.coords, g.err
}

func newService(store *memStore) *DefaultDiscardService {
	return &DefaultDiscardService{
		Discards:   store,
		Offers:     store,
		Tx:         store,
		Collectors: store,
		Clients:    store,
		Now:        stepClock(),
	}
}
