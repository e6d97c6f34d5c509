package place

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Candidate is a named place returned by nearby search, top-ranked first.
type Candidate struct {
	PlaceID  string `json:"place_id"`
	Name     string `json:"name"`
	Vicinity string `json:"vicinity"`
}

// GeocodeResult is one reverse-geocoding hit.
type GeocodeResult struct {
	PlaceID          string `json:"place_id"`
	FormattedAddress string `json:"formatted_address"`
}

// Provider is the external places/geocoding collaborator. Running without
// credentials is a valid mode: Configured reports false and the resolver
// skips straight to the coordinate tier.
type Provider interface {
	Configured() bool
	NearbySearch(ctx context.Context, lat, lng float64, radius int) ([]Candidate, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) ([]GeocodeResult, error)
}

// HTTPProvider talks to a Google-style places/geocoding web API.
type HTTPProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewHTTPProvider(baseURL, apiKey string) *HTTPProvider {
	return &HTTPProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *HTTPProvider) Configured() bool { return p.APIKey != "" }

func (p *HTTPProvider) NearbySearch(ctx context.Context, lat, lng float64, radius int) ([]Candidate, error) {
	q := url.Values{}
	q.Set("location", fmt.Sprintf("%f,%f", lat, lng))
	q.Set("radius", fmt.Sprintf("%d", radius))
	q.Set("key", p.APIKey)

	var body struct {
		Results []Candidate `json:"results"`
	}
	if err := p.getJSON(ctx, "/maps/api/place/nearbysearch/json", q, &body); err != nil {
		return nil, err
	}
	return body.Results, nil
}

func (p *HTTPProvider) ReverseGeocode(ctx context.Context, lat, lng float64) ([]GeocodeResult, error) {
	q := url.Values{}
	q.Set("latlng", fmt.Sprintf("%f,%f", lat, lng))
	q.Set("key", p.APIKey)

	var body struct {
		Results []GeocodeResult `json:"results"`
	}
	if err := p.getJSON(ctx, "/maps/api/geocode/json", q, &body); err != nil {
		return nil, err
	}
	return body.Results, nil
}

func (p *HTTPProvider) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
