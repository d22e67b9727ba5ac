package session

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/burden-map/internal/burden"
	"github.com/sells-group/burden-map/internal/choropleth"
	"github.com/sells-group/burden-map/internal/metrics"
	"github.com/sells-group/burden-map/internal/predict"
	"github.com/sells-group/burden-map/internal/tract"
	"github.com/sells-group/burden-map/pkg/geocode"
)

// DefaultFocusZoom is the zoom used when centering on a searched point.
const DefaultFocusZoom = 13

// Deps are the collaborators of a Controller. Geocoder and Metrics may be nil.
type Deps struct {
	Locator   tract.Locator
	Values    *burden.Lookup
	Predictor *predict.Predictor
	Geocoder  geocode.Client
	Surface   Surface
	Metrics   *metrics.Metrics
	FocusZoom float64
	// Strict rejects selector labels the model does not know instead of
	// contributing zero for them.
	Strict bool
}

// Outcome describes where a search or pick landed.
type Outcome struct {
	Point       Point
	DisplayName string
	Tract       *tract.Tract
	Observed    float64
	HasObserved bool
	Band        choropleth.Band
}

// Found reports whether the point resolved to a tract.
func (o Outcome) Found() bool {
	return o.Tract != nil
}

// TractID returns the resolved tract id or "".
func (o Outcome) TractID() string {
	if o.Tract == nil {
		return ""
	}
	return o.Tract.ID
}

// Estimate is the result of Calculate. Predicted comes from the regression
// model and Observed from the burden lookup; neither overrides the other.
type Estimate struct {
	TractID     string
	Housing     string
	Income      string
	Predicted   float64
	Observed    float64
	HasObserved bool
	// Band classifies Predicted. ObservedBand classifies Observed and is
	// NoData when HasObserved is false.
	Band         choropleth.Band
	ObservedBand choropleth.Band
}

// Controller runs the session handlers against a rendering surface.
type Controller struct {
	deps Deps
	log  *zap.Logger
}

// NewController creates a controller. A zero FocusZoom uses DefaultFocusZoom.
func NewController(d Deps) *Controller {
	if d.FocusZoom == 0 {
		d.FocusZoom = DefaultFocusZoom
	}
	return &Controller{
		deps: d,
		log:  zap.L().With(zap.String("component", "session")),
	}
}

// Search geocodes address and applies the match through Pick. On error the
// state is returned unchanged.
func (c *Controller) Search(ctx context.Context, st State, address string) (State, Outcome, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return st, Outcome{}, ErrMissingAddress
	}
	if c.deps.Geocoder == nil {
		return st, Outcome{}, eris.Wrap(ErrGeocodeFailed, "no geocoder configured")
	}

	res, err := c.deps.Geocoder.Search(ctx, address)
	if err != nil {
		c.log.Warn("geocode failed",
			zap.String("session", st.ID),
			zap.String("address", address),
			zap.Error(err),
		)
		return st, Outcome{}, eris.Wrapf(ErrGeocodeFailed, "search %q: %v", address, err)
	}
	if res == nil || !res.Matched {
		c.log.Debug("address not found", zap.String("session", st.ID), zap.String("address", address))
		return st, Outcome{}, ErrAddressNotFound
	}

	next, out := c.Pick(st, res.Longitude, res.Latitude)
	next.Query = address
	out.DisplayName = res.DisplayName
	return next, out, nil
}

// Pick moves the session to (lon, lat): old overlays come off the surface
// before the new marker and, when a tract contains the point, its highlight
// go on.
func (c *Controller) Pick(st State, lon, lat float64) (State, Outcome) {
	c.removeOverlays(st)

	p := Point{Lon: lon, Lat: lat}
	next := State{
		ID:      st.ID,
		Point:   &p,
		Housing: st.Housing,
		Income:  st.Income,
	}
	out := Outcome{Point: p, Band: choropleth.NoData}

	c.deps.Surface.SetView(p, c.deps.FocusZoom)
	next.Marker = c.deps.Surface.AddMarker(p)

	t, ok := c.deps.Locator.Locate(lon, lat)
	c.deps.Metrics.ObserveTract(ok)
	if !ok {
		c.log.Debug("no tract for point",
			zap.String("session", st.ID),
			zap.Float64("lon", lon),
			zap.Float64("lat", lat),
		)
		return next, out
	}

	next.Tract = t
	next.Highlight = c.deps.Surface.AddHighlight(t)
	out.Tract = t

	v, has := c.deps.Values.ValueFor(t.ID)
	c.deps.Metrics.ObserveBurden(has)
	out.Observed = v
	out.HasObserved = has
	out.Band = choropleth.ColorForLookup(v, has)
	return next, out
}

// Calculate predicts the burden for the located tract and the given selector
// values.
func (c *Controller) Calculate(st State, housing, income string) (Estimate, error) {
	if st.Tract == nil {
		return Estimate{}, ErrNoLocation
	}
	housing = strings.TrimSpace(housing)
	income = strings.TrimSpace(income)
	if housing == "" || income == "" {
		return Estimate{}, ErrMissingSelection
	}

	verr := c.deps.Predictor.Validate(housing, income)
	c.deps.Metrics.ObservePrediction(verr == nil)
	if verr != nil {
		if c.deps.Strict {
			return Estimate{}, verr
		}
		c.log.Debug("unknown selector label contributes zero",
			zap.String("session", st.ID),
			zap.String("housing", housing),
			zap.String("income", income),
		)
	}

	predicted := c.deps.Predictor.Predict(housing, income)
	observed, has := c.deps.Values.ValueFor(st.Tract.ID)

	return Estimate{
		TractID:      st.Tract.ID,
		Housing:      housing,
		Income:       income,
		Predicted:    predicted,
		Observed:     observed,
		HasObserved:  has,
		Band:         choropleth.ColorFor(predicted),
		ObservedBand: choropleth.ColorForLookup(observed, has),
	}, nil
}

// Clear removes the session's overlays and returns an Empty state that keeps
// only the session id.
func (c *Controller) Clear(st State) State {
	c.removeOverlays(st)
	return State{ID: st.ID}
}

func (c *Controller) removeOverlays(st State) {
	if st.Marker != 0 {
		c.deps.Surface.RemoveMarker(st.Marker)
	}
	if st.Highlight != 0 {
		c.deps.Surface.RemoveHighlight(st.Highlight)
	}
}
