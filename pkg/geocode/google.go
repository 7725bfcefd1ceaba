package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const googleGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

// googleGeocodeResponse is the JSON response from the Google Geocoding API.
type googleGeocodeResponse struct {
	Results []googleResult `json:"results"`
	Status  string         `json:"status"`
}

type googleResult struct {
	Geometry struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
		LocationType string `json:"location_type"`
	} `json:"geometry"`
	FormattedAddress string `json:"formatted_address"`
}

type googleClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *memoryCache
}

func (g *googleClient) Configured() bool {
	return g.apiKey != ""
}

// Geocode resolves a single address. The provider's status codes are
// folded into the package sentinels so callers never see raw status
// strings.
func (g *googleClient) Geocode(ctx context.Context, addr AddressInput) (*Result, error) {
	if !g.Configured() {
		return nil, ErrNotConfigured
	}

	oneLine := formatOneLine(addr)
	if oneLine == "" {
		return nil, ErrNoResults
	}

	if g.cache != nil {
		if r, ok := g.cache.get(addr); ok {
			return r, nil
		}
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geocode: rate limit")
	}

	params := url.Values{
		"address": {oneLine},
		"key":     {g.apiKey},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: build request")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrQuotaExceeded
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("geocode: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: read body")
	}

	var googleResp googleGeocodeResponse
	if err := json.Unmarshal(body, &googleResp); err != nil {
		return nil, eris.Wrap(ErrMalformedResponse, "decode body")
	}

	switch googleResp.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, ErrNoResults
	case "OVER_QUERY_LIMIT", "OVER_DAILY_LIMIT":
		return nil, ErrQuotaExceeded
	case "REQUEST_DENIED", "INVALID_REQUEST":
		return nil, eris.Wrapf(ErrMalformedResponse, "status %s", googleResp.Status)
	default:
		return nil, eris.Wrapf(ErrMalformedResponse, "unknown status %s", googleResp.Status)
	}

	if len(googleResp.Results) == 0 {
		return nil, ErrNoResults
	}

	first := googleResp.Results[0]
	result := &Result{
		Latitude:         first.Geometry.Location.Lat,
		Longitude:        first.Geometry.Location.Lng,
		FormattedAddress: first.FormattedAddress,
		Quality:          googleLocationTypeToQuality(first.Geometry.LocationType),
	}
	if g.cache != nil {
		g.cache.put(addr, result)
	}
	return result, nil
}

// googleLocationTypeToQuality maps Google's location_type to our quality taxonomy.
func googleLocationTypeToQuality(locType string) string {
	switch strings.ToUpper(locType) {
	case "ROOFTOP":
		return "rooftop"
	case "RANGE_INTERPOLATED":
		return "range"
	case "GEOMETRIC_CENTER":
		return "centroid"
	default:
		return "approximate"
	}
}
