package collector

import (
	"context"
	"errors"
	"sort"
	"strings"

	"recicleaqui/apperr"
	"recicleaqui/database/repository"
	"recicleaqui/models"
	"recicleaqui/services/geo"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func notFound(err error, what string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(what + " not found").WithCause(err)
	}
	return err
}

// matchesLocation reports whether addr lies in the requested city and state.
// City matches by accent-insensitive containment, state by equality.
func matchesLocation(addr *models.Address, city, state string) bool {
	if addr == nil {
		return false
	}
	if state != "" && geo.Fold(addr.State) != geo.Fold(state) {
		return false
	}
	if city != "" && !strings.Contains(geo.Fold(addr.City), geo.Fold(city)) {
		return false
	}
	return true
}

// SearchCollectors filters collectors by accepted line and collection type,
// then by headquarters or active point location, then by radius around the
// filter origin.
func (s *DefaultCollectorService) SearchCollectors(ctx context.Context, f SearchFilter) ([]CollectorResult, error) {
	if f.Line != "" && !f.Line.Valid() {
		return nil, apperr.Validationf("invalid material line %q", f.Line)
	}
	switch f.CollectionType {
	case "", models.CollectionMobile, models.CollectionFixed, models.CollectionBoth:
	default:
		return nil, apperr.Validationf("invalid collection type %q", f.CollectionType)
	}

	collectors, err := s.Store.SearchCollectors(ctx, models.CollectorSearchCriteria{
		Line:           f.Line,
		CollectionType: f.CollectionType,
	})
	if err != nil {
		return nil, err
	}
	if len(collectors) == 0 {
		return []CollectorResult{}, nil
	}

	ids := make([]string, len(collectors))
	for i, c := range collectors {
		ids[i] = c.ID
	}
	points, err := s.Store.ListActivePointsByCollectors(ctx, ids)
	if err != nil {
		return nil, err
	}
	byCollector := make(map[string][]models.CollectionPoint, len(collectors))
	for _, p := range points {
		byCollector[p.CollectorID] = append(byCollector[p.CollectorID], p)
	}

	byLocation := f.City != "" || f.State != ""
	origin := f.origin()

	out := make([]CollectorResult, 0, len(collectors))
	for _, c := range collectors {
		res := CollectorResult{Collector: c, CollectionPoints: byCollector[c.ID]}
		if res.CollectionPoints == nil {
			res.CollectionPoints = []models.CollectionPoint{}
		}

		if byLocation {
			hqMatch := matchesLocation(c.Headquarters, f.City, f.State)
			local := make([]models.CollectionPoint, 0, len(res.CollectionPoints))
			for _, p := range res.CollectionPoints {
				if matchesLocation(&p.Address, f.City, f.State) {
					local = append(local, p)
				}
			}
			if !hqMatch && len(local) == 0 {
				continue
			}
			if !hqMatch {
				res.CollectionPoints = local
			}
		}

		if origin != nil {
			if !applyRadius(&res, origin, f.RadiusKm) {
				continue
			}
		}
		out = append(out, res)
	}

	if origin != nil {
		sort.SliceStable(out, func(i, j int) bool {
			return geo.LessDistance(out[i].DistanceKm, out[j].DistanceKm)
		})
	}
	return out, nil
}

// applyRadius keeps the points within radiusKm of origin and flags a nearby
// headquarters. It reports whether anything of the collector is in range.
func applyRadius(res *CollectorResult, origin *models.Address, radiusKm float64) bool {
	var nearest *float64
	consider := func(km float64) {
		if nearest == nil || km < *nearest {
			d := km
			nearest = &d
		}
	}

	if km, ok := geo.DistanceKm(origin, res.Headquarters); ok && km <= radiusKm {
		res.HeadquartersNearby = true
		consider(km)
	}
	nearby := make([]models.CollectionPoint, 0, len(res.CollectionPoints))
	for _, p := range res.CollectionPoints {
		if km, ok := geo.DistanceKm(origin, &p.Address); ok && km <= radiusKm {
			nearby = append(nearby, p)
			consider(km)
		}
	}
	res.CollectionPoints = nearby
	res.DistanceKm = nearest
	return res.HeadquartersNearby || len(nearby) > 0
}

// CreateCollectionPoint registers an active point for collectorID. The
// address is geocoded when it has no coordinates and a geocoder is set.
func (s *DefaultCollectorService) CreateCollectionPoint(ctx context.Context, collectorID string, in CreatePointInput) (*models.CollectionPoint, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	if in.Address.City == "" || in.Address.State == "" {
		return nil, apperr.Validation("address requires city and state")
	}
	lines, err := models.ParseMaterialLines(in.Lines)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}
	if _, err := s.Store.GetCollector(ctx, collectorID); err != nil {
		return nil, notFound(err, "collector")
	}

	addr := in.Address
	addr.State = strings.ToUpper(strings.TrimSpace(addr.State))
	if addr.Coordinates() == nil && s.Geocoder != nil {
		coords, err := s.Geocoder.Geocode(ctx, addr)
		switch {
		case err != nil:
			s.log().Warn("geocoding collection point failed",
				zap.String("collectorID", collectorID), zap.Error(err))
		case coords != nil:
			addr.SetCoordinates(*coords)
		}
	}

	now := s.now()
	p := &models.CollectionPoint{
		ID:            uuid.New().String(),
		CollectorID:   collectorID,
		Name:          name,
		Address:       addr,
		AcceptedLines: lines,
		IsActive:      true,
		CreatedAt:     now,
		EditedAt:      now,
	}
	if err := s.Store.CreateCollectionPoint(ctx, p); err != nil {
		return nil, err
	}
	s.log().Info("collection point created",
		zap.String("pointID", p.ID), zap.String("collectorID", collectorID))
	return p, nil
}

func (s *DefaultCollectorService) SetCollectionPointActive(ctx context.Context, pointID string, active bool) (*models.CollectionPoint, error) {
	p, err := s.Store.SetCollectionPointActive(ctx, pointID, active)
	if err != nil {
		return nil, notFound(err, "collection point")
	}
	s.log().Info("collection point updated",
		zap.String("pointID", pointID), zap.Bool("active", active))
	return p, nil
}

func (s *DefaultCollectorService) ListCollectorPoints(ctx context.Context, collectorID string) ([]models.CollectionPoint, error) {
	if _, err := s.Store.GetCollector(ctx, collectorID); err != nil {
		return nil, notFound(err, "collector")
	}
	return s.Store.ListPointsByCollector(ctx, collectorID)
}
