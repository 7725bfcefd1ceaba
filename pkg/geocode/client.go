// Package geocode resolves street addresses to coordinates via the
// Google Geocoding API.
package geocode

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Failure kinds surfaced by Geocode. Callers distinguish them with
// errors.Is; anything else is a transport or server fault.
var (
	// ErrNotConfigured means no API key is set. Returned before any
	// network call is made.
	ErrNotConfigured = eris.New("geocode: api key not configured")

	// ErrNoResults means the provider matched nothing for the address.
	ErrNoResults = eris.New("geocode: no results for address")

	// ErrQuotaExceeded means the provider refused the call on quota
	// grounds.
	ErrQuotaExceeded = eris.New("geocode: query quota exceeded")

	// ErrMalformedResponse means the provider answered with something
	// we could not interpret.
	ErrMalformedResponse = eris.New("geocode: malformed response")
)

// Client geocodes one address at a time.
type Client interface {
	// Configured reports whether the client can make live calls.
	Configured() bool

	// Geocode resolves an address to coordinates.
	Geocode(ctx context.Context, addr AddressInput) (*Result, error)
}

// AddressInput represents an address to geocode.
type AddressInput struct {
	Street  string
	City    string
	State   string
	ZipCode string
}

// Result holds the geocoding output for an address.
type Result struct {
	Latitude         float64
	Longitude        float64
	FormattedAddress string
	Quality          string // "rooftop", "range", "centroid", "approximate"
}

// Option configures the geocoder.
type Option func(*googleClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *googleClient) {
		g.httpClient = hc
	}
}

// WithRateLimit sets the requests-per-second limit for API calls.
func WithRateLimit(rps float64) Option {
	return func(g *googleClient) {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithBaseURL overrides the API endpoint, for tests.
func WithBaseURL(u string) Option {
	return func(g *googleClient) {
		g.baseURL = u
	}
}

// WithCache enables in-memory caching of results keyed by normalized
// address, so repeated addresses inside one run cost one API call.
func WithCache() Option {
	return func(g *googleClient) {
		g.cache = newMemoryCache()
	}
}

// NewClient creates a geocoding Client backed by the Google Geocoding
// API. An empty key yields an unconfigured client that fails fast.
func NewClient(apiKey string, opts ...Option) Client {
	g := &googleClient{
		apiKey:     apiKey,
		baseURL:    googleGeocodeURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(50, 50),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// formatOneLine joins the populated address components into the
// single-line form the API expects.
func formatOneLine(addr AddressInput) string {
	var parts []string
	for _, p := range []string{addr.Street, addr.City, addr.State, addr.ZipCode} {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}
