package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// interest names mapped to OpenTripMap kind filters
var interestKinds = map[string]string{
	"beaches":   "beaches",
	"nightlife": "adult,bars",
	"food":      "foods",
	"history":   "historic",
	"culture":   "cultural",
	"nature":    "natural",
	"shopping":  "shops",
	"adventure": "sport",
}

// OpenTripMapAttractions lists points of interest from an
// OpenTripMap-compatible endpoint
type OpenTripMapAttractions struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewOpenTripMapAttractions creates a new attraction provider
func NewOpenTripMapAttractions(baseURL, apiKey string, timeout time.Duration) *OpenTripMapAttractions {
	return &OpenTripMapAttractions{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type openTripMapFeature struct {
	Properties struct {
		Name  string `json:"name"`
		Kinds string `json:"kinds"`
	} `json:"properties"`
	Geometry struct {
		Coordinates []float64 `json:"coordinates"` // lng, lat
	} `json:"geometry"`
}

type openTripMapResponse struct {
	Features []openTripMapFeature `json:"features"`
}

// Nearby lists attractions around a point, filtered to the traveler's
// interests where a kind mapping exists
func (a *OpenTripMapAttractions) Nearby(ctx context.Context, coords Coordinates, interests []string) ([]Attraction, error) {
	var kinds []string
	for _, interest := range interests {
		if k, ok := interestKinds[strings.ToLower(interest)]; ok {
			kinds = append(kinds, k)
		}
	}
	if len(kinds) == 0 {
		kinds = []string{"interesting_places"}
	}

	endpoint := fmt.Sprintf("%s/0.1/en/places/radius?radius=20000&lat=%f&lon=%f&kinds=%s&rate=2&limit=15&apikey=%s",
		a.baseURL, coords.Lat, coords.Lng, url.QueryEscape(strings.Join(kinds, ",")), url.QueryEscape(a.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build attractions request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("attractions request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("attractions returned status %d", resp.StatusCode)
	}

	var body openTripMapResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode attractions response: %w", err)
	}

	var attractions []Attraction
	for _, f := range body.Features {
		if f.Properties.Name == "" || len(f.Geometry.Coordinates) < 2 {
			continue
		}
		attractions = append(attractions, Attraction{
			Name: f.Properties.Name,
			Kind: f.Properties.Kinds,
			Coords: Coordinates{
				Lat: f.Geometry.Coordinates[1],
				Lng: f.Geometry.Coordinates[0],
			},
		})
	}

	return attractions, nil
}
