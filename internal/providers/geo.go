package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// NominatimGeocoder resolves place names against a Nominatim-compatible
// endpoint. Results are cached in-process; place names are stable enough
// that a short TTL saves most round trips.
type NominatimGeocoder struct {
	baseURL string
	client  *http.Client
	cache   *gocache.Cache
}

// NewNominatimGeocoder creates a new geocoder
func NewNominatimGeocoder(baseURL string, timeout, cacheTTL time.Duration) *NominatimGeocoder {
	return &NominatimGeocoder{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		cache:   gocache.New(cacheTTL, 2*cacheTTL),
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves a place name to coordinates
func (g *NominatimGeocoder) Geocode(ctx context.Context, place string) (*GeoResult, error) {
	key := strings.ToLower(strings.TrimSpace(place))
	if cached, ok := g.cache.Get(key); ok {
		result := cached.(GeoResult)
		return &result, nil
	}

	endpoint := fmt.Sprintf("%s/search?q=%s&format=json&limit=1", g.baseURL, url.QueryEscape(place))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocode request: %w", err)
	}
	req.Header.Set("User-Agent", "tripmind/1.0")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode returned status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no match for place %q", place)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude in geocode response: %w", err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude in geocode response: %w", err)
	}

	result := GeoResult{
		Name:   results[0].DisplayName,
		Coords: Coordinates{Lat: lat, Lng: lng},
	}
	g.cache.Set(key, result, gocache.DefaultExpiration)

	return &result, nil
}
