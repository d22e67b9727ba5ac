package geocode

import (
	"context"
	"errors"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// CascadeClient tries providers in order until one matches.
type CascadeClient struct {
	providers []Provider
	reverse   ReverseProvider
	cache     *ReverseCache
	observer  Observer
}

// NewCascade builds a Client over providers. The first provider that can
// reverse geocode serves Reverse.
func NewCascade(providers []Provider, opts ...Option) *CascadeClient {
	o := newOptions(opts)
	c := &CascadeClient{
		providers: providers,
		cache:     NewReverseCache(o.cacheMax, o.cacheTTL),
		observer:  o.observer,
	}
	for _, p := range providers {
		if rp, ok := p.(ReverseProvider); ok {
			c.reverse = rp
			break
		}
	}
	return c
}

// New builds the cascade from provider names ("nominatim", "census").
// Each provider gets its own rate limiter built from opts.
func New(names []string, opts ...Option) (*CascadeClient, error) {
	if len(names) == 0 {
		return nil, eris.New("geocode: no providers configured")
	}
	providers := make([]Provider, 0, len(names))
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "nominatim":
			providers = append(providers, NewNominatim(opts...))
		case "census":
			providers = append(providers, NewCensus(opts...))
		default:
			return nil, eris.Errorf("geocode: unknown provider %q", name)
		}
	}
	return NewCascade(providers, opts...), nil
}

// Search implements Client. It returns an error only when every provider
// failed; a miss everywhere is an unmatched result.
func (c *CascadeClient) Search(ctx context.Context, query string) (*Result, error) {
	results, err := c.search(ctx, query, 1)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return &Result{Matched: false, Source: "cascade"}, nil
	}
	r := results[0]
	return &r, nil
}

// Suggest implements Client.
func (c *CascadeClient) Suggest(ctx context.Context, query string, limit int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	return c.search(ctx, query, limit)
}

func (c *CascadeClient) search(ctx context.Context, query string, limit int) ([]Result, error) {
	var errs []error
	for _, p := range c.providers {
		results, err := p.Search(ctx, query, limit)
		if err != nil {
			c.observe(p.Name(), "error")
			zap.L().Debug("cascade: provider error, trying next",
				zap.String("provider", p.Name()),
				zap.Error(err),
			)
			errs = append(errs, err)
			continue
		}
		if len(results) > 0 {
			c.observe(p.Name(), "match")
			return results, nil
		}
		c.observe(p.Name(), "no_match")
	}

	if len(c.providers) > 0 && len(errs) == len(c.providers) {
		return nil, eris.Wrap(errors.Join(errs...), "geocode: all providers failed")
	}
	return nil, nil
}

// Reverse implements Client, answering repeat lookups of nearby points from
// the in-memory cache.
func (c *CascadeClient) Reverse(ctx context.Context, lat, lon float64) (*ReverseResult, error) {
	if cached, ok := c.cache.Get(lat, lon); ok {
		return cached, nil
	}
	if c.reverse == nil {
		return &ReverseResult{Matched: false, Source: "cascade"}, nil
	}

	r, err := c.reverse.Reverse(ctx, lat, lon)
	if err != nil {
		c.observe(c.reverse.Name(), "error")
		return nil, eris.Wrap(err, "geocode: reverse")
	}
	if r.Matched {
		c.observe(c.reverse.Name(), "match")
	} else {
		c.observe(c.reverse.Name(), "no_match")
	}
	c.cache.Put(lat, lon, r)
	return r, nil
}

// CacheStats exposes the reverse cache counters.
func (c *CascadeClient) CacheStats() CacheStats {
	return c.cache.Stats()
}

func (c *CascadeClient) observe(provider, outcome string) {
	if c.observer != nil {
		c.observer(provider, outcome)
	}
}
