package discard

import (
	"context"
	"errors"
	"testing"
	"time"

	"recicleaqui/apperr"
	"recicleaqui/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// São Paulo city centre and points around it.
var (
	centre = models.Coordinates{Latitude: -23.5505, Longitude: -46.6333}
	near   = models.Coordinates{Latitude: -23.5614, Longitude: -46.6559} // ~2.6 km
	mid    = models.Coordinates{Latitude: -23.6000, Longitude: -46.7000} // ~8.7 km
	far    = models.Coordinates{Latitude: -23.0000, Longitude: -46.0000} // ~90 km
)

func pointAt(id, city, state string, c *models.Coordinates, active bool, lines ...models.MaterialLine) models.CollectionPoint {
	p := models.CollectionPoint{
		ID:            id,
		CollectorID:   "co1",
		Name:          "Ponto " + id,
		IsActive:      active,
		AcceptedLines: lines,
		Address:       models.Address{City: city, State: state},
	}
	if c != nil {
		p.Address.SetCoordinates(*c)
	}
	return p
}

func seedEligible(store *memStore) {
	store.collectors["co1"] = models.Collector{ID: "co1", TradeName: "Recicla SP"}
	both := []models.MaterialLine{models.LineAzul, models.LineVerde}
	store.addPoint(pointAt("nocoords", "São Paulo", "SP", nil, true, both...))
	store.addPoint(pointAt("mid", "sao paulo", "sp", &mid, true, both...))
	store.addPoint(pointAt("far", "São Paulo", "SP", &far, true, both...))
	store.addPoint(pointAt("near", "SÃO PAULO", "SP", &near, true, models.LineAzul, models.LineVerde, models.LineBranca))
	store.addPoint(pointAt("inactive", "São Paulo", "SP", &near, false, both...))
	store.addPoint(pointAt("rio", "Rio de Janeiro", "RJ", nil, true, both...))
	store.addPoint(pointAt("azul-only", "São Paulo", "SP", &near, true, models.LineAzul))
}

func ids(points []EligiblePoint) []string {
	out := make([]string, len(points))
	for i, p := range points {
		out[i] = p.ID
	}
	return out
}

var azulVerde = models.Lines{models.LineAzul, models.LineVerde}

func TestListEligibleCollectionPoints(t *testing.T) {
	ctx := context.Background()
	clientWithCoords := models.Address{City: "São Paulo", State: "SP"}
	clientWithCoords.SetCoordinates(centre)

	t.Run("distance filter and sort", func(t *testing.T) {
		store := newMemStore()
		seedEligible(store)
		svc := newService(store)

		points, err := svc.ListEligibleCollectionPoints(ctx, clientWithCoords, azulVerde, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"near", "mid", "nocoords"}, ids(points))

		require.NotNil(t, points[0].DistanceKm)
		assert.InDelta(t, 2.6, *points[0].DistanceKm, 0.5)
		assert.Nil(t, points[2].DistanceKm)
		assert.Equal(t, CollectorRef{ID: "co1", TradeName: "Recicla SP"}, points[0].Collector)

		for _, p := range points {
			assert.True(t, azulVerde.CoveredBy(p.AcceptedLines), p.ID)
		}
	})

	t.Run("explicit radius", func(t *testing.T) {
		store := newMemStore()
		seedEligible(store)
		svc := newService(store)

		points, err := svc.ListEligibleCollectionPoints(ctx, clientWithCoords, azulVerde, 5)
		require.NoError(t, err)
		assert.Equal(t, []string{"near", "nocoords"}, ids(points))
	})

	t.Run("geocodes a client without coordinates", func(t *testing.T) {
		store := newMemStore()
		seedEligible(store)
		svc := newService(store)
		geocoder := &stubGeocoder{coords: &centre}
		svc.Geocoder = geocoder

		points, err := svc.ListEligibleCollectionPoints(ctx, models.Address{City: "São Paulo", State: "SP"}, azulVerde, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, geocoder.calls)
		assert.Equal(t, []string{"near", "mid", "nocoords"}, ids(points))
	})

	t.Run("geocoder failure falls back to locality", func(t *testing.T) {
		store := newMemStore()
		seedEligible(store)
		svc := newService(store)
		svc.Geocoder = &stubGeocoder{err: errors.New("nominatim down")}

		points, err := svc.ListEligibleCollectionPoints(ctx, models.Address{City: "Sao Paulo", State: "SP"}, azulVerde, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"nocoords", "mid", "far", "near"}, ids(points))
		for _, p := range points {
			assert.Nil(t, p.DistanceKm)
		}
	})

	t.Run("other state", func(t *testing.T) {
		store := newMemStore()
		seedEligible(store)
		svc := newService(store)

		points, err := svc.ListEligibleCollectionPoints(ctx, models.Address{City: "Rio de Janeiro", State: "RJ"}, azulVerde, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"rio"}, ids(points))
	})

	t.Run("validation", func(t *testing.T) {
		svc := newService(newMemStore())
		_, err := svc.ListEligibleCollectionPoints(ctx, clientWithCoords, nil, 0)
		assert.ErrorIs(t, err, apperr.ErrValidation)

		_, err = svc.ListEligibleCollectionPoints(ctx, models.Address{State: "SP"}, azulVerde, 0)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func seedPickups(store *memStore) {
	hq := models.Address{City: "São Paulo", State: "SP"}
	hq.SetCoordinates(centre)
	store.collectors["co-hq"] = models.Collector{ID: "co-hq", AcceptedLines: models.Lines{models.LineAzul}, Headquarters: &hq}
	store.collectors["co-nohq"] = models.Collector{ID: "co-nohq", AcceptedLines: models.Lines{models.LineAzul}}

	at := func(c models.Coordinates) *models.Address {
		a := models.Address{AddressName: "Rua X", City: "São Paulo", State: "SP"}
		a.SetCoordinates(c)
		return &a
	}
	store.clients["cl-near"] = models.Client{ID: "cl-near", Phone: "11 9999", Individual: &models.Individual{FirstName: "Ana", LastName: "Souza"}, Address: at(near)}
	store.clients["cl-far"] = models.Client{ID: "cl-far", Company: &models.Company{CompanyName: "Padaria Boa"}, Address: at(far)}
	store.clients["cl-none"] = models.Client{ID: "cl-none", Address: &models.Address{City: "São Paulo", State: "SP"}}

	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	add := func(id, clientID string, minute int, status models.DiscardStatus, lines ...models.MaterialLine) {
		store.discards[id] = models.Discard{
			ID: id, ClientID: clientID, Mode: models.ModePickup, Status: status, Lines: lines,
			CreatedAt: base.Add(time.Duration(minute) * time.Minute),
		}
	}
	add("d-far", "cl-far", 1, models.DiscardPending, models.LineAzul)
	add("d-none", "cl-none", 2, models.DiscardPending, models.LineAzul)
	add("d-near", "cl-near", 3, models.DiscardPending, models.LineAzul)
	add("d-ghost", "cl-ghost", 4, models.DiscardPending, models.LineAzul)
	add("d-verde", "cl-near", 5, models.DiscardPending, models.LineAzul, models.LineVerde)
	add("d-offered", "cl-near", 6, models.DiscardOffered, models.LineAzul)
	store.discards["d-point"] = models.Discard{ID: "d-point", ClientID: "cl-near", Mode: models.ModeCollectionPoint, Status: models.DiscardPending, Lines: models.Lines{models.LineAzul}}
}

func TestListPendingPickupDiscardsForCollector(t *testing.T) {
	store := newMemStore()
	seedPickups(store)
	svc := newService(store)

	list, err := svc.ListPendingPickupDiscardsForCollector(context.Background(), "co-hq")
	require.NoError(t, err)
	got := make([]string, len(list))
	for i, d := range list {
		got[i] = d.ID
	}
	assert.Equal(t, []string{"d-far", "d-none", "d-near", "d-ghost"}, got)

	_, err = svc.ListPendingPickupDiscardsForCollector(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListPendingPickupDiscardsByDistance(t *testing.T) {
	store := newMemStore()
	seedPickups(store)
	svc := newService(store)
	ctx := context.Background()

	list, err := svc.ListPendingPickupDiscardsByDistance(ctx, "co-hq", 0)
	require.NoError(t, err)
	got := make([]string, len(list))
	for i, c := range list {
		got[i] = c.ID
	}
	assert.Equal(t, []string{"d-near", "d-none", "d-ghost"}, got)

	first := list[0]
	require.NotNil(t, first.DistanceFromHeadquarters)
	assert.InDelta(t, 2.6, *first.DistanceFromHeadquarters, 0.5)
	assert.Equal(t, ClientContact{Name: "Ana Souza", Phone: "11 9999"}, first.Client)
	assert.Equal(t, "Rua X", first.Address.AddressName)

	assert.Nil(t, list[1].DistanceFromHeadquarters)
	assert.Equal(t, "Cliente", list[2].Client.Name)

	wide, err := svc.ListPendingPickupDiscardsByDistance(ctx, "co-hq", 200)
	require.NoError(t, err)
	require.Len(t, wide, 4)
	assert.Equal(t, "d-near", wide[0].ID)
	assert.Equal(t, "d-far", wide[1].ID)
	assert.Equal(t, "Padaria Boa", wide[1].Client.Name)

	_, err = svc.ListPendingPickupDiscardsByDistance(ctx, "co-nohq", 0)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
