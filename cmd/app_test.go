package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/burden-map/internal/config"
	"github.com/sells-group/burden-map/internal/session"
)

const testTracts = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"GEOID": "421010001001"},
     "geometry": {"type": "Polygon", "coordinates": [[[-75.2, 39.9], [-75.1, 39.9], [-75.1, 40.0], [-75.2, 40.0], [-75.2, 39.9]]]}},
    {"type": "Feature", "properties": {"GEOID": "42101000200"},
     "geometry": {"type": "Polygon", "coordinates": [[[-75.1, 39.9], [-75.0, 39.9], [-75.0, 40.0], [-75.1, 40.0], [-75.1, 39.9]]]}}
  ]
}`

const testBurden = "GEOID,burden_pct\n42101000100,8.5%\n42101000200,not-a-number\n"

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	tractsPath := filepath.Join(dir, "tracts.geojson")
	burdenPath := filepath.Join(dir, "burden.csv")
	require.NoError(t, os.WriteFile(tractsPath, []byte(testTracts), 0o644))
	require.NoError(t, os.WriteFile(burdenPath, []byte(testBurden), 0o644))

	c := &config.Config{}
	c.Data.Tracts.Path = tractsPath
	c.Data.Tracts.IDField = "GEOID"
	c.Data.Burden.Path = burdenPath
	c.Data.Burden.IDColumn = "GEOID"
	c.Data.Burden.ValueColumn = "burden_pct"
	c.Index.Kind = "rtree"
	c.Geocode.Providers = []string{"nominatim", "census"}
	c.Geocode.RateLimit = 1
	c.Geocode.TimeoutSecs = 5
	c.Geocode.ReverseCacheMax = 16
	c.Geocode.ReverseCacheTTL = 60
	c.Map.CenterLat, c.Map.CenterLon, c.Map.Zoom, c.Map.FocusZoom = 39.99, -75.12, 11, 13
	c.Metrics.Textfile = filepath.Join(dir, "burden_map.prom")
	return c
}

func TestLoadApp_PickAndCalculate(t *testing.T) {
	c := testConfig(t)

	a, err := loadApp(context.Background(), c)
	require.NoError(t, err)

	assert.Len(t, a.tracts, 2)
	assert.Equal(t, 1, a.values.Len())

	surface := session.NewRecordingSurface(a.initialView())
	ctrl := a.controller(surface, false)

	st, out := ctrl.Pick(session.New(), -75.15, 39.95)
	assert.Equal(t, "42101000100", out.TractID())
	assert.Equal(t, "#f03b20", out.Band.Color)
	assert.InDelta(t, 13, surface.View().Zoom, 1e-9)

	_, err = ctrl.Calculate(st, "RENTER 2 UNIT", "Under $20k")
	require.NoError(t, err)

	a.Close()
	data, err := os.ReadFile(c.Metrics.Textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "burden_map_tract_lookups_total")
}

func TestLoadApp_MissingTracts(t *testing.T) {
	c := testConfig(t)
	c.Data.Tracts.Path = filepath.Join(t.TempDir(), "missing.geojson")

	_, err := loadApp(context.Background(), c)
	assert.Error(t, err)
}

func TestLoadApp_UnknownProvider(t *testing.T) {
	c := testConfig(t)
	c.Geocode.Providers = []string{"bing"}

	_, err := loadApp(context.Background(), c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bing")
}

func TestFormatOutcome(t *testing.T) {
	c := testConfig(t)
	a, err := loadApp(context.Background(), c)
	require.NoError(t, err)
	defer a.Close()
	ctrl := a.controller(session.NewRecordingSurface(a.initialView()), false)

	var buf bytes.Buffer
	_, out := ctrl.Pick(session.New(), -75.15, 39.95)
	out.DisplayName = "City Hall"
	formatOutcome(&buf, out)
	assert.Contains(t, buf.String(), "Tract:    42101000100")
	assert.Contains(t, buf.String(), "Address:  City Hall")
	assert.Contains(t, buf.String(), "8.5% (7 - 10%, #f03b20)")

	buf.Reset()
	_, out = ctrl.Pick(session.New(), -75.05, 39.95)
	formatOutcome(&buf, out)
	assert.Contains(t, buf.String(), "no data (#cccccc)")

	buf.Reset()
	_, out = ctrl.Pick(session.New(), -80, 30)
	formatOutcome(&buf, out)
	assert.Contains(t, buf.String(), session.NoTractMessage)
}

func TestFormatPrediction(t *testing.T) {
	var buf bytes.Buffer
	formatPrediction(&buf, 14.33)
	assert.Equal(t, "Predicted energy burden: 14.3% (> 10%, #bd0026)\n", buf.String())
}

func TestFormatLabels(t *testing.T) {
	var buf bytes.Buffer
	formatLabels(&buf, 11.9792, []string{"OWNER 2 UNIT"}, []string{"Under $20k"})
	assert.Equal(t, "Baseline burden: 11.9792%\nHousing:\n  OWNER 2 UNIT\nIncome:\n  Under $20k\n", buf.String())
}
