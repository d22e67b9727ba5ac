package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Nominatim geocodes through the OpenStreetMap Nominatim API.
type Nominatim struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	userAgent  string
	email      string
	bbox       []float64
}

// NewNominatim creates a Nominatim provider.
func NewNominatim(opts ...Option) *Nominatim {
	o := newOptions(opts)
	return &Nominatim{
		httpClient: o.httpClient,
		limiter:    o.limiter,
		baseURL:    strings.TrimRight(o.nominatimURL, "/"),
		userAgent:  o.userAgent,
		email:      o.email,
		bbox:       o.bbox,
	}
}

// Name implements Provider.
func (n *Nominatim) Name() string { return "nominatim" }

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

type nominatimReverse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

// Search implements Provider.
func (n *Nominatim) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if limit < 1 {
		limit = 1
	}
	params := url.Values{
		"format": {"json"},
		"q":      {query},
		"limit":  {strconv.Itoa(limit)},
	}
	if len(n.bbox) == 4 {
		params.Set("viewbox", formatViewBox(n.bbox))
		params.Set("bounded", "1")
	}
	if n.email != "" {
		params.Set("email", n.email)
	}

	var places []nominatimPlace
	if err := n.get(ctx, "/search", params, &places); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(places))
	for _, p := range places {
		lat, latErr := strconv.ParseFloat(p.Lat, 64)
		lon, lonErr := strconv.ParseFloat(p.Lon, 64)
		if latErr != nil || lonErr != nil {
			zap.L().Debug("nominatim: skipping place with bad coordinates",
				zap.String("lat", p.Lat), zap.String("lon", p.Lon))
			continue
		}
		results = append(results, Result{
			Latitude:    lat,
			Longitude:   lon,
			DisplayName: p.DisplayName,
			Source:      n.Name(),
			Matched:     true,
		})
	}
	return results, nil
}

// Reverse implements ReverseProvider.
func (n *Nominatim) Reverse(ctx context.Context, lat, lon float64) (*ReverseResult, error) {
	params := url.Values{
		"format": {"jsonv2"},
		"lat":    {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":    {strconv.FormatFloat(lon, 'f', -1, 64)},
	}
	if n.email != "" {
		params.Set("email", n.email)
	}

	var rev nominatimReverse
	if err := n.get(ctx, "/reverse", params, &rev); err != nil {
		return nil, err
	}
	if rev.Error != "" || rev.DisplayName == "" {
		return &ReverseResult{Source: n.Name(), Matched: false}, nil
	}
	return &ReverseResult{DisplayName: rev.DisplayName, Source: n.Name(), Matched: true}, nil
}

func (n *Nominatim) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "geocode: nominatim rate limit")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return eris.Wrap(err, "geocode: nominatim build request")
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return eris.Wrap(err, "geocode: nominatim request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("geocode: nominatim returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "geocode: nominatim read body")
	}
	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "geocode: nominatim parse response")
	}
	return nil
}

// formatViewBox renders west,south,east,north as Nominatim's x1,y1,x2,y2.
func formatViewBox(b []float64) string {
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}
