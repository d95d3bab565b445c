package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/tripmind/tripmind/internal/domain"
)

// OpenMeteoWeather fetches daily forecasts from an Open-Meteo-compatible
// endpoint
type OpenMeteoWeather struct {
	baseURL string
	client  *http.Client
	cache   *gocache.Cache
}

// NewOpenMeteoWeather creates a new weather provider
func NewOpenMeteoWeather(baseURL string, timeout, cacheTTL time.Duration) *OpenMeteoWeather {
	return &OpenMeteoWeather{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		cache:   gocache.New(cacheTTL, 2*cacheTTL),
	}
}

type openMeteoResponse struct {
	Daily struct {
		TemperatureMax []float64 `json:"temperature_2m_max"`
		TemperatureMin []float64 `json:"temperature_2m_min"`
		WeatherCode    []int     `json:"weathercode"`
	} `json:"daily"`
}

// Forecast returns the digest for the travel window. Windows beyond the
// forecast horizon are clamped by the upstream API; whatever days come
// back are averaged.
func (w *OpenMeteoWeather) Forecast(ctx context.Context, coords Coordinates, dates domain.DateRange) (*WeatherInfo, error) {
	key := fmt.Sprintf("%.3f:%.3f:%s", coords.Lat, coords.Lng, dates.Start.Format("2006-01-02"))
	if cached, ok := w.cache.Get(key); ok {
		info := cached.(WeatherInfo)
		return &info, nil
	}

	endpoint := fmt.Sprintf(
		"%s/v1/forecast?latitude=%f&longitude=%f&daily=temperature_2m_max,temperature_2m_min,weathercode&timezone=auto&start_date=%s&end_date=%s",
		w.baseURL, coords.Lat, coords.Lng,
		dates.Start.Format("2006-01-02"), dates.End.Format("2006-01-02"),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build weather request: %w", err)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather returned status %d", resp.StatusCode)
	}

	var body openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}
	if len(body.Daily.TemperatureMax) == 0 || len(body.Daily.TemperatureMin) == 0 {
		return nil, fmt.Errorf("weather response contained no days")
	}

	var high, low float64
	for _, t := range body.Daily.TemperatureMax {
		high += t
	}
	for _, t := range body.Daily.TemperatureMin {
		low += t
	}
	high /= float64(len(body.Daily.TemperatureMax))
	low /= float64(len(body.Daily.TemperatureMin))

	info := WeatherInfo{
		Description: describeWeatherCode(dominantCode(body.Daily.WeatherCode)),
		HighC:       high,
		LowC:        low,
	}
	w.cache.Set(key, info, gocache.DefaultExpiration)

	return &info, nil
}

func dominantCode(codes []int) int {
	counts := make(map[int]int)
	best, bestCount := 0, 0
	for _, c := range codes {
		counts[c]++
		if counts[c] > bestCount {
			best, bestCount = c, counts[c]
		}
	}
	return best
}

// WMO weather interpretation codes, coarse buckets
func describeWeatherCode(code int) string {
	switch {
	case code == 0:
		return "clear skies"
	case code <= 3:
		return "partly cloudy"
	case code <= 48:
		return "foggy"
	case code <= 57:
		return "drizzle"
	case code <= 67:
		return "rainy"
	case code <= 77:
		return "snowy"
	case code <= 82:
		return "rain showers"
	case code <= 86:
		return "snow showers"
	default:
		return "thunderstorms"
	}
}
