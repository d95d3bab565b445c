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

// HTTPStayProvider queries an accommodation search endpoint. An empty
// base URL disables the provider; the pipeline then proceeds without
// accommodation data rather than failing.
type HTTPStayProvider struct {
	baseURL string
	client  *http.Client
}

// NewHTTPStayProvider creates a new stay provider
func NewHTTPStayProvider(baseURL string, timeout time.Duration) *HTTPStayProvider {
	return &HTTPStayProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Search returns accommodation options for a place and budget tier
func (s *HTTPStayProvider) Search(ctx context.Context, place string, dates domain.DateRange, tier string) ([]Stay, error) {
	if s.baseURL == "" {
		return nil, nil
	}

	endpoint := fmt.Sprintf("%s/stays?city=%s&tier=%s&checkin=%s&checkout=%s",
		s.baseURL, url.QueryEscape(place), url.QueryEscape(tier),
		dates.Start.Format("2006-01-02"), dates.End.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build stays request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stays request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stays returned status %d", resp.StatusCode)
	}

	var stays []Stay
	if err := json.NewDecoder(resp.Body).Decode(&stays); err != nil {
		return nil, fmt.Errorf("failed to decode stays response: %w", err)
	}

	return stays, nil
}
