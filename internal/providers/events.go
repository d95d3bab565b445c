package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tripmind/tripmind/internal/domain"
)

// HTTPEventProvider queries a local-events endpoint. An empty base URL
// disables the provider.
type HTTPEventProvider struct {
	baseURL string
	client  *http.Client
}

// NewHTTPEventProvider creates a new event provider
func NewHTTPEventProvider(baseURL string, timeout time.Duration) *HTTPEventProvider {
	return &HTTPEventProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Upcoming returns events during the travel window
func (e *HTTPEventProvider) Upcoming(ctx context.Context, place string, dates domain.DateRange) ([]LocalEvent, error) {
	if e.baseURL == "" {
		return nil, nil
	}

	endpoint := fmt.Sprintf("%s/events?city=%s&from=%s&to=%s",
		e.baseURL, url.QueryEscape(place),
		dates.Start.Format("2006-01-02"), dates.End.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build events request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("events request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("events returned status %d", resp.StatusCode)
	}

	var events []LocalEvent
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("failed to decode events response: %w", err)
	}

	return events, nil
}
