package discard

import (
	"context"
	"sort"

	"recicleaqui/apperr"
	"recicleaqui/models"
	"recicleaqui/services/geo"

	"go.uber.org/zap"
)

// ListEligibleCollectionPoints finds active points accepting every line in
// lines that sit in the client's locality. When both sides carry
// coordinates the point must also lie within radiusKm; points without
// coordinates are kept on the locality match alone. Results are sorted by
// distance with distance-less points last.
func (s *DefaultDiscardService) ListEligibleCollectionPoints(ctx context.Context, clientAddress models.Address, lines models.Lines, radiusKm float64) ([]EligiblePoint, error) {
	if len(lines) == 0 {
		return nil, apperr.Validation("at least one material line is required")
	}
	if clientAddress.City == "" || clientAddress.State == "" {
		return nil, apperr.Validation("client address requires city and state")
	}
	if radiusKm <= 0 {
		radiusKm = s.pointRadius()
	}

	origin := clientAddress
	if origin.Coordinates() == nil && s.Geocoder != nil {
		coords, err := s.Geocoder.Geocode(ctx, origin)
		switch {
		case err != nil:
			s.log().Warn("geocoding client address failed, using locality match",
				zap.String("city", origin.City), zap.Error(err))
		case coords != nil:
			origin.SetCoordinates(*coords)
		}
	}

	points, err := s.Collectors.ListCollectionPointsAcceptingLines(ctx, lines)
	if err != nil {
		return nil, err
	}

	out := make([]EligiblePoint, 0, len(points))
	for _, p := range points {
		if !p.IsActive || !lines.CoveredBy(p.AcceptedLines) {
			continue
		}
		if !geo.SameLocality(origin.City, origin.State, p.City, p.State) {
			continue
		}
		var dist *float64
		if km, ok := geo.DistanceKm(&origin, &p.Address); ok {
			if km > radiusKm {
				continue
			}
			dist = &km
		}
		out = append(out, EligiblePoint{
			ID:            p.ID,
			Name:          p.Name,
			Address:       p.Address,
			AcceptedLines: p.AcceptedLines,
			Collector:     CollectorRef{ID: p.Collector.ID, TradeName: p.Collector.TradeName},
			DistanceKm:    dist,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return geo.LessDistance(out[i].DistanceKm, out[j].DistanceKm)
	})
	return out, nil
}

// ListPendingPickupDiscardsForCollector returns the PENDING pickup discards
// whose lines the collector fully accepts.
func (s *DefaultDiscardService) ListPendingPickupDiscardsForCollector(ctx context.Context, collectorID string) ([]models.Discard, error) {
	collector, err := s.Collectors.GetCollector(ctx, collectorID)
	if err != nil {
		return nil, notFound(err, "collector")
	}
	return s.pendingPickupsFor(ctx, collector)
}

func (s *DefaultDiscardService) pendingPickupsFor(ctx context.Context, collector *models.Collector) ([]models.Discard, error) {
	discards, err := s.Discards.ListDiscards(ctx, models.DiscardFilter{
		Mode:   models.ModePickup,
		Status: models.DiscardPending,
	})
	if err != nil {
		return nil, err
	}
	out := make([]models.Discard, 0, len(discards))
	for _, d := range discards {
		if d.Lines.CoveredBy(collector.AcceptedLines) {
			out = append(out, d)
		}
	}
	return out, nil
}

// ListPendingPickupDiscardsByDistance is ListPendingPickupDiscardsForCollector
// restricted to radiusKm around the collector's headquarters. Discards whose
// distance cannot be computed are always included and sort last.
func (s *DefaultDiscardService) ListPendingPickupDiscardsByDistance(ctx context.Context, collectorID string, radiusKm float64) ([]PickupCandidate, error) {
	if radiusKm <= 0 {
		radiusKm = s.pickupRadius()
	}
	collector, err := s.Collectors.GetCollector(ctx, collectorID)
	if err != nil {
		return nil, notFound(err, "collector")
	}
	if collector.Headquarters == nil {
		return nil, apperr.NotFound("collector headquarters not found")
	}

	discards, err := s.pendingPickupsFor(ctx, collector)
	if err != nil {
		return nil, err
	}

	clientIDs := make([]string, 0, len(discards))
	seen := make(map[string]bool, len(discards))
	for _, d := range discards {
		if !seen[d.ClientID] {
			seen[d.ClientID] = true
			clientIDs = append(clientIDs, d.ClientID)
		}
	}
	clients, err := s.Clients.ListClientsByIDs(ctx, clientIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.Client, len(clients))
	for i := range clients {
		byID[clients[i].ID] = &clients[i]
	}

	out := make([]PickupCandidate, 0, len(discards))
	for _, d := range discards {
		c := PickupCandidate{
			ID:          d.ID,
			Mode:        d.Mode,
			Status:      d.Status,
			Description: d.Description,
			Lines:       d.Lines,
			CreatedAt:   d.CreatedAt,
			Client:      ClientContact{Name: "Cliente"},
		}
		if client, ok := byID[d.ClientID]; ok {
			c.Client = ClientContact{Name: client.DisplayName(), Phone: client.Phone}
			if client.Address != nil {
				c.Address = *client.Address
			}
		}
		if km, ok := geo.DistanceKm(collector.Headquarters, &c.Address); ok {
			c.DistanceFromHeadquarters = &km
		}
		if !geo.Within(c.DistanceFromHeadquarters, radiusKm) {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return geo.LessDistance(out[i].DistanceFromHeadquarters, out[j].DistanceFromHeadquarters)
	})
	return out, nil
}

func (s *DefaultDiscardService) pointRadius() float64 {
	if s.PointRadiusKm > 0 {
		return s.PointRadiusKm
	}
	return DefaultPointRadiusKm
}

func (s *DefaultDiscardService) pickupRadius() float64 {
	if s.PickupRadiusKm > 0 {
		return s.PickupRadiusKm
	}
	return DefaultPickupRadiusKm
}
