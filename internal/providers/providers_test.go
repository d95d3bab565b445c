package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tripmind/tripmind/internal/domain"
)

func TestNominatimGeocoder_Geocode(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "Goa", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		w.Write([]byte(`[{"lat": "15.3", "lon": "74.1", "display_name": "Goa, India"}]`))
	}))
	defer server.Close()

	geo := NewNominatimGeocoder(server.URL, 5*time.Second, time.Minute)
	ctx := context.Background()

	result, err := geo.Geocode(ctx, "Goa")
	assert.NoError(t, err)
	assert.Equal(t, "Goa, India", result.Name)
	assert.InDelta(t, 15.3, result.Coords.Lat, 0.001)
	assert.InDelta(t, 74.1, result.Coords.Lng, 0.001)

	// Second lookup is served from cache.
	_, err = geo.Geocode(ctx, "goa")
	assert.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestNominatimGeocoder_NoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	geo := NewNominatimGeocoder(server.URL, 5*time.Second, time.Minute)

	_, err := geo.Geocode(context.Background(), "Nowhereville")
	assert.Error(t, err)
}

func TestOpenMeteoWeather_Forecast(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"daily": {
			"temperature_2m_max": [30, 32, 31],
			"temperature_2m_min": [23, 24, 25],
			"weathercode": [2, 2, 61]
		}}`))
	}))
	defer server.Close()

	weather := NewOpenMeteoWeather(server.URL, 5*time.Second, time.Minute)

	info, err := weather.Forecast(context.Background(), Coordinates{Lat: 15.3, Lng: 74.1}, testDates(3))
	assert.NoError(t, err)
	assert.Equal(t, "partly cloudy", info.Description)
	assert.InDelta(t, 31, info.HighC, 0.001)
	assert.InDelta(t, 24, info.LowC, 0.001)
}

func TestOpenMeteoWeather_EmptyForecast(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"daily": {"temperature_2m_max": [], "temperature_2m_min": [], "weathercode": []}}`))
	}))
	defer server.Close()

	weather := NewOpenMeteoWeather(server.URL, 5*time.Second, time.Minute)

	_, err := weather.Forecast(context.Background(), Coordinates{}, testDates(3))
	assert.Error(t, err)
}

func TestOpenMeteoWeather_MissingMinTemps(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"daily": {
			"temperature_2m_max": [30, 32],
			"temperature_2m_min": [],
			"weathercode": [2, 2]
		}}`))
	}))
	defer server.Close()

	weather := NewOpenMeteoWeather(server.URL, 5*time.Second, time.Minute)

	_, err := weather.Forecast(context.Background(), Coordinates{Lat: 1, Lng: 1}, testDates(2))
	assert.Error(t, err)
}

func TestDescribeWeatherCode(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "clear skies"},
		{2, "partly cloudy"},
		{45, "foggy"},
		{61, "rainy"},
		{95, "thunderstorms"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, describeWeatherCode(tt.code))
	}
}

func TestDateRangeDays(t *testing.T) {
	assert.Equal(t, 3, testDates(3).Days())
	assert.Equal(t, 1, domain.DateRange{}.Days())
}
