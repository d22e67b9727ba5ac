package session

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/burden-map/internal/burden"
	"github.com/sells-group/burden-map/internal/choropleth"
	"github.com/sells-group/burden-map/internal/metrics"
	"github.com/sells-group/burden-map/internal/predict"
	"github.com/sells-group/burden-map/internal/tract"
	"github.com/sells-group/burden-map/pkg/geocode"
)

type fakeGeocoder struct {
	result *geocode.Result
	err    error
	calls  int
}

func (f *fakeGeocoder) Search(_ context.Context, _ string) (*geocode.Result, error) {
	f.calls++
	return f.result, f.err
}

func (f *fakeGeocoder) Suggest(_ context.Context, _ string, _ int) ([]geocode.Result, error) {
	return nil, nil
}

func (f *fakeGeocoder) Reverse(_ context.Context, _, _ float64) (*geocode.ReverseResult, error) {
	return &geocode.ReverseResult{}, nil
}

func squareTract(t *testing.T, id string, minX, minY, maxX, maxY float64, ordinal int) *tract.Tract {
	t.Helper()
	p, err := geom.NewPolygon(geom.XY).SetCoords([][]geom.Coord{{
		{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}, {minX, minY},
	}})
	require.NoError(t, err)
	mp := geom.NewMultiPolygon(geom.XY)
	require.NoError(t, mp.Push(p))
	return tract.New(id, mp, ordinal)
}

type fixture struct {
	ctrl    *Controller
	surface *RecordingSurface
	geo     *fakeGeocoder
	metrics *metrics.Metrics
}

func newFixture(t *testing.T, strict bool) fixture {
	t.Helper()
	tracts := []*tract.Tract{
		squareTract(t, "421010001001", -75.2, 39.9, -75.1, 40.0, 0),
		squareTract(t, "42101000200", -75.1, 39.9, -75.0, 40.0, 1),
	}
	pred, err := predict.New(predict.DefaultCoefficients())
	require.NoError(t, err)

	f := fixture{
		surface: NewRecordingSurface(View{Center: Point{Lon: -75.12, Lat: 39.99}, Zoom: 11}),
		geo:     &fakeGeocoder{},
		metrics: metrics.New(),
	}
	f.ctrl = NewController(Deps{
		Locator:   tract.NewScanIndex(tracts),
		Values:    burden.FromMap(map[string]float64{"42101000100": 8.5}),
		Predictor: pred,
		Geocoder:  f.geo,
		Surface:   f.surface,
		Metrics:   f.metrics,
		Strict:    strict,
	})
	return f
}

func TestSearch_LocatesTract(t *testing.T) {
	f := newFixture(t, false)
	f.geo.result = &geocode.Result{Longitude: -75.15, Latitude: 39.95, DisplayName: "City Hall", Matched: true}

	st, out, err := f.ctrl.Search(context.Background(), New(), "  1400 JFK Blvd ")
	require.NoError(t, err)

	assert.Equal(t, "1400 JFK Blvd", st.Query)
	require.True(t, st.Located())
	assert.Equal(t, "42101000100", st.TractID())
	assert.NotZero(t, st.Marker)
	assert.NotZero(t, st.Highlight)

	assert.True(t, out.Found())
	assert.Equal(t, "42101000100", out.TractID())
	assert.Equal(t, "City Hall", out.DisplayName)
	assert.True(t, out.HasObserved)
	assert.InDelta(t, 8.5, out.Observed, 1e-9)
	assert.Equal(t, "#f03b20", out.Band.Color)

	view := f.surface.View()
	assert.InDelta(t, 13, view.Zoom, 1e-9)
	assert.InDelta(t, 39.95, view.Center.Lat, 1e-9)
	assert.Equal(t, 1, f.surface.Markers())
	assert.Equal(t, []string{"42101000100"}, f.surface.Highlights())

	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.TractLookups.WithLabelValues("hit")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.BurdenLookups.WithLabelValues("hit")), 1e-9)
}

func TestSearch_MissingAddress(t *testing.T) {
	f := newFixture(t, false)
	st := New()

	got, _, err := f.ctrl.Search(context.Background(), st, "   ")
	assert.ErrorIs(t, err, ErrMissingAddress)
	assert.Equal(t, st, got)
	assert.Zero(t, f.geo.calls)
}

func TestSearch_NotFoundLeavesStateUnchanged(t *testing.T) {
	f := newFixture(t, false)
	f.geo.result = &geocode.Result{Longitude: -75.15, Latitude: 39.95, Matched: true}
	st, _, err := f.ctrl.Search(context.Background(), New(), "first")
	require.NoError(t, err)

	f.geo.result = &geocode.Result{Matched: false}
	got, _, err := f.ctrl.Search(context.Background(), st, "nowhere")
	assert.ErrorIs(t, err, ErrAddressNotFound)
	assert.Equal(t, st, got)
	assert.Equal(t, 1, f.surface.Markers())
}

func TestSearch_TransportFailure(t *testing.T) {
	f := newFixture(t, false)
	f.geo.err = errors.New("connection refused")

	_, _, err := f.ctrl.Search(context.Background(), New(), "1400 JFK Blvd")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGeocodeFailed)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, 1, f.geo.calls)
}

func TestSearch_NoGeocoder(t *testing.T) {
	ctrl := NewController(Deps{Surface: NewRecordingSurface(View{})})
	_, _, err := ctrl.Search(context.Background(), New(), "x")
	assert.ErrorIs(t, err, ErrGeocodeFailed)
}

func TestPick_OutsideEveryTract(t *testing.T) {
	f := newFixture(t, false)

	st, out := f.ctrl.Pick(New(), -80, 30)
	assert.True(t, st.Located())
	assert.Nil(t, st.Tract)
	assert.NotZero(t, st.Marker)
	assert.Zero(t, st.Highlight)
	assert.False(t, out.Found())
	assert.Equal(t, choropleth.NoData, out.Band)
	assert.Empty(t, f.surface.Highlights())
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.TractLookups.WithLabelValues("miss")), 1e-9)
}

func TestPick_TractWithoutObservedValue(t *testing.T) {
	f := newFixture(t, false)

	st, out := f.ctrl.Pick(New(), -75.05, 39.95)
	assert.Equal(t, "42101000200", st.TractID())
	assert.True(t, out.Found())
	assert.False(t, out.HasObserved)
	assert.Equal(t, choropleth.NoData, out.Band)
}

func TestPick_RemovesOldOverlaysFirst(t *testing.T) {
	f := newFixture(t, false)

	st, _ := f.ctrl.Pick(New(), -75.15, 39.95)
	st.Housing = "RENTER 2 UNIT"
	next, _ := f.ctrl.Pick(st, -75.05, 39.95)

	ops := f.surface.Ops()
	require.Len(t, ops, 8)
	assert.Equal(t, []string{
		"remove-marker 1",
		"remove-highlight 2",
	}, ops[3:5])
	assert.Equal(t, "add-marker 3", ops[6])
	assert.Equal(t, "add-highlight 4", ops[7])

	assert.Equal(t, 1, f.surface.Markers())
	assert.Equal(t, []string{"42101000200"}, f.surface.Highlights())
	assert.Equal(t, st.ID, next.ID)
	assert.Equal(t, "RENTER 2 UNIT", next.Housing)
}

func TestCalculate(t *testing.T) {
	f := newFixture(t, false)
	st, _ := f.ctrl.Pick(New(), -75.15, 39.95)

	est, err := f.ctrl.Calculate(st, "RENTER 2 UNIT", "$30k–$40k")
	require.NoError(t, err)

	assert.Equal(t, "42101000100", est.TractID)
	assert.InDelta(t, 11.9792-10.4705+12.8207, est.Predicted, 1e-6)
	assert.True(t, est.HasObserved)
	assert.InDelta(t, 8.5, est.Observed, 1e-9)
	assert.Equal(t, choropleth.BandSevere, est.Band)
	assert.Equal(t, choropleth.BandHigh, est.ObservedBand)
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.Predictions.WithLabelValues("known")), 1e-9)
}

func TestCalculate_Errors(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.ctrl.Calculate(New(), "RENTER 2 UNIT", "$30k–$40k")
	assert.ErrorIs(t, err, ErrNoLocation)

	outside, _ := f.ctrl.Pick(New(), -80, 30)
	_, err = f.ctrl.Calculate(outside, "RENTER 2 UNIT", "$30k–$40k")
	assert.ErrorIs(t, err, ErrNoLocation)

	st, _ := f.ctrl.Pick(New(), -75.15, 39.95)
	_, err = f.ctrl.Calculate(st, "", "$30k–$40k")
	assert.ErrorIs(t, err, ErrMissingSelection)
	_, err = f.ctrl.Calculate(st, "RENTER 2 UNIT", " ")
	assert.ErrorIs(t, err, ErrMissingSelection)
}

func TestCalculate_UnknownLabel(t *testing.T) {
	f := newFixture(t, false)
	st, _ := f.ctrl.Pick(New(), -75.15, 39.95)

	est, err := f.ctrl.Calculate(st, "CASTLE", "$30k–$40k")
	require.NoError(t, err)
	assert.InDelta(t, 11.9792+12.8207, est.Predicted, 1e-6)
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.Predictions.WithLabelValues("unknown")), 1e-9)

	strict := newFixture(t, true)
	st, _ = strict.ctrl.Pick(New(), -75.15, 39.95)
	_, err = strict.ctrl.Calculate(st, "CASTLE", "$30k–$40k")
	assert.ErrorIs(t, err, predict.ErrUnknownHousing)
}

func TestClear(t *testing.T) {
	f := newFixture(t, false)
	st := New()
	st.Housing = "RENTER 2 UNIT"
	st.Income = "Under $20k"
	st, _ = f.ctrl.Pick(st, -75.15, 39.95)
	st.Query = "somewhere"

	cleared := f.ctrl.Clear(st)
	assert.Equal(t, State{ID: st.ID}, cleared)
	assert.False(t, cleared.Located())
	assert.Zero(t, f.surface.Markers())
	assert.Empty(t, f.surface.Highlights())

	ops := f.surface.Ops()
	assert.Equal(t, []string{"remove-marker 1", "remove-highlight 2"}, ops[len(ops)-2:])

	// Clearing an empty state touches nothing.
	before := len(f.surface.Ops())
	_ = f.ctrl.Clear(cleared)
	assert.Len(t, f.surface.Ops(), before)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, "Enter an address.", Message(ErrMissingAddress))
	assert.Equal(t, "Could not find that address.", Message(ErrAddressNotFound))
	assert.Equal(t, "Search for an address first.", Message(ErrNoLocation))
	assert.Equal(t, "Select housing and income.", Message(ErrMissingSelection))
	assert.Equal(t, "Unknown housing type.", Message(predict.ErrUnknownHousing))
	assert.Contains(t, Message(errors.Join(ErrGeocodeFailed, errors.New("boom"))), "unavailable")
	assert.Equal(t, "Something went wrong.", Message(errors.New("other")))
}
