package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"recicleaqui/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Geocoder converts a postal address into coordinates. Implementations
// return nil, nil when the address cannot be located.
type Geocoder interface {
	Geocode(ctx context.Context, addr models.Address) (*models.Coordinates, error)
}

const geocodeCachePrefix = "geocode:"

// NominatimConfig configures the OpenStreetMap Nominatim client.
type NominatimConfig struct {
	BaseURL     string
	UserAgent   string
	CountryCode string
	CacheTTL    time.Duration
	// Interval between outbound requests; Nominatim's usage policy asks for
	// at most one request per second.
	Interval time.Duration
}

// NominatimGeocoder geocodes addresses through the Nominatim search API.
type NominatimGeocoder struct {
	cfg     NominatimConfig
	client  *http.Client
	limiter *rate.Limiter
	cache   *redis.Client
	logger  *zap.Logger
}

// NewNominatimGeocoder builds a geocoder. cache may be nil to disable caching.
func NewNominatimGeocoder(cfg NominatimConfig, cache *redis.Client, logger *zap.Logger) *NominatimGeocoder {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NominatimGeocoder{
		cfg:     cfg,
		client:  &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Every(cfg.Interval), 1),
		cache:   cache,
		logger:  logger,
	}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves addr. Addresses that already carry coordinates are
// returned without a request.
func (g *NominatimGeocoder) Geocode(ctx context.Context, addr models.Address) (*models.Coordinates, error) {
	if c := addr.Coordinates(); c != nil {
		return c, nil
	}
	query := FormatQuery(addr)
	if query == "" {
		return nil, nil
	}
	cacheKey := geocodeCachePrefix + Fold(query)

	if g.cache != nil {
		cached, err := g.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var c models.Coordinates
			if jsonErr := json.Unmarshal([]byte(cached), &c); jsonErr == nil {
				return &c, nil
			}
		} else if err != redis.Nil {
			g.logger.Warn("geocode cache read failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("geocode rate limiter: %w", err)
	}

	coords, err := g.search(ctx, query)
	if err != nil || coords == nil {
		return coords, err
	}

	if g.cache != nil {
		payload, _ := json.Marshal(coords)
		if err := g.cache.Set(ctx, cacheKey, payload, g.cfg.CacheTTL).Err(); err != nil {
			g.logger.Warn("geocode cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return coords, nil
}

func (g *NominatimGeocoder) search(ctx context.Context, query string) (*models.Coordinates, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("addressdetails", "1")
	if g.cfg.CountryCode != "" {
		params.Set("countrycodes", g.cfg.CountryCode)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build geocode request: %w", err)
	}
	req.Header.Set("User-Agent", g.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode request returned status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(results) == 0 {
		g.logger.Info("no coordinates found", zap.String("query", query))
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parse latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parse longitude %q: %w", results[0].Lon, err)
	}
	return &models.Coordinates{Latitude: lat, Longitude: lon}, nil
}

// FormatQuery joins the non-empty address parts into a free-form query.
func FormatQuery(addr models.Address) string {
	parts := make([]string, 0, 6)
	for _, p := range []string{addr.AddressName, addr.Number, addr.Neighborhood, addr.City, addr.State, addr.PostalCode} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
