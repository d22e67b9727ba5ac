// Package geocode resolves free-text addresses to coordinates (Nominatim
// primary, Census fallback) and coordinates back to display addresses.
package geocode

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Client is the geocoding service used by the session.
type Client interface {
	// Search returns the best match for query. An unmatched query is not an
	// error: the result has Matched == false.
	Search(ctx context.Context, query string) (*Result, error)

	// Suggest returns up to limit candidate matches for a partial query.
	Suggest(ctx context.Context, query string, limit int) ([]Result, error)

	// Reverse returns a display address for a coordinate.
	Reverse(ctx context.Context, lat, lon float64) (*ReverseResult, error)
}

// Result is a forward-geocoding match.
type Result struct {
	Latitude    float64
	Longitude   float64
	DisplayName string
	Source      string // "nominatim" or "census"
	Matched     bool
}

// ReverseResult is a reverse-geocoding match.
type ReverseResult struct {
	DisplayName string
	Source      string
	Matched     bool
}

// Provider is a single forward-geocoding backend.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]Result, error)
}

// ReverseProvider is a backend that can reverse geocode.
type ReverseProvider interface {
	Name() string
	Reverse(ctx context.Context, lat, lon float64) (*ReverseResult, error)
}

// Observer receives one call per provider request with outcome "match",
// "no_match" or "error".
type Observer func(provider, outcome string)

// Option configures providers and the cascade.
type Option func(*options)

type options struct {
	httpClient   *http.Client
	limiter      *rate.Limiter
	userAgent    string
	email        string
	nominatimURL string
	bbox         []float64
	observer     Observer
	cacheTTL     time.Duration
	cacheMax     int
}

const (
	defaultUserAgent    = "burden-map/1.0"
	defaultNominatimURL = "https://nominatim.openstreetmap.org"
	defaultTimeout      = 10 * time.Second
)

func newOptions(opts []Option) *options {
	o := &options{
		httpClient:   &http.Client{Timeout: defaultTimeout},
		limiter:      rate.NewLimiter(1, 1), // Nominatim usage policy: 1 req/s
		userAgent:    defaultUserAgent,
		nominatimURL: defaultNominatimURL,
		cacheTTL:     time.Hour,
		cacheMax:     1024,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithHTTPClient sets the HTTP client for all provider requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

// WithTimeout sets a per-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithRateLimit sets the requests-per-second limit.
func WithRateLimit(rps float64) Option {
	return func(o *options) {
		if rps <= 0 {
			o.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		o.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		if ua != "" {
			o.userAgent = ua
		}
	}
}

// WithEmail adds the contact email Nominatim asks heavy users to send.
func WithEmail(email string) Option {
	return func(o *options) {
		o.email = email
	}
}

// WithNominatimURL overrides the Nominatim base URL.
func WithNominatimURL(u string) Option {
	return func(o *options) {
		if u != "" {
			o.nominatimURL = u
		}
	}
}

// WithBoundingBox restricts forward searches to west, south, east, north.
func WithBoundingBox(bbox []float64) Option {
	return func(o *options) {
		if len(bbox) == 4 {
			o.bbox = bbox
		}
	}
}

// WithObserver registers a per-request callback, typically for metrics.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// WithReverseCache sizes the in-memory reverse-geocode cache.
func WithReverseCache(maxEntries int, ttl time.Duration) Option {
	return func(o *options) {
		o.cacheMax = maxEntries
		o.cacheTTL = ttl
	}
}
