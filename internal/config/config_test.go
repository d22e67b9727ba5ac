package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/tracts.geojson", cfg.Data.Tracts.Path)
	assert.Equal(t, "GEOID", cfg.Data.Tracts.IDField)
	assert.Equal(t, "geom", cfg.Data.Tracts.GeomColumn)
	assert.Equal(t, "data/burden_lookup_clean.csv", cfg.Data.Burden.Path)
	assert.Equal(t, "GEOID", cfg.Data.Burden.IDColumn)
	assert.Equal(t, "burden_pct", cfg.Data.Burden.ValueColumn)
	assert.Empty(t, cfg.Model.CoefficientsPath)
	assert.Equal(t, "scan", cfg.Index.Kind)
	assert.Equal(t, []string{"nominatim", "census"}, cfg.Geocode.Providers)
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.Geocode.NominatimURL)
	assert.InDelta(t, 1.0, cfg.Geocode.RateLimit, 0.001)
	assert.Equal(t, 10, cfg.Geocode.TimeoutSecs)
	assert.Equal(t, PhiladelphiaBBox, cfg.Geocode.BBox)
	assert.InDelta(t, 39.99, cfg.Map.CenterLat, 0.0001)
	assert.InDelta(t, -75.12, cfg.Map.CenterLon, 0.0001)
	assert.InDelta(t, 13, cfg.Map.FocusZoom, 0.0001)
	assert.Equal(t, 300, cfg.TUI.DebounceMillis)
	assert.Equal(t, 5, cfg.TUI.SuggestLimit)
	assert.Equal(t, 2024, cfg.Tiger.Year)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "burden-map-explore.log", cfg.Log.TUIFile)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
data:
  burden:
    kind: xlsx
    path: lookup.xlsx
    sheet: Tracts
index:
  kind: rtree
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "xlsx", cfg.Data.Burden.Kind)
	assert.Equal(t, "lookup.xlsx", cfg.Data.Burden.Path)
	assert.Equal(t, "Tracts", cfg.Data.Burden.Sheet)
	assert.Equal(t, "rtree", cfg.Index.Kind)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	// Defaults still apply for unset values
	assert.Equal(t, "GEOID", cfg.Data.Burden.IDColumn)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
index:
  kind: rtree
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	t.Setenv("BURDEN_INDEX_KIND", "scan")
	t.Setenv("BURDEN_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "scan", cfg.Index.Kind)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("BURDEN_GEOCODE_TIMEOUT_SECS", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Geocode.TimeoutSecs)
}

func TestLoadRejectsUnknownIndex(t *testing.T) {
	chdirTemp(t)

	t.Setenv("BURDEN_INDEX_KIND", "quadtree")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quadtree")
}

func TestValidate_BBoxLength(t *testing.T) {
	cfg := &Config{}
	cfg.Geocode.BBox = []float64{1, 2, 3}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "geocode.bbox")

	cfg.Geocode.BBox = nil
	assert.NoError(t, cfg.Validate())
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

func TestInitFileLogger_WritesOnlyToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "explore.log")

	require.NoError(t, InitFileLogger(LogConfig{Level: "info", Format: "json"}, path))
	t.Cleanup(func() { _ = InitLogger(LogConfig{Level: "info", Format: "json"}) })

	zap.L().Warn("geocode failed", zap.Duration("elapsed", time.Second))
	_ = zap.L().Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "geocode failed")
}

func TestInitFileLogger_EmptyPathDiscards(t *testing.T) {
	require.NoError(t, InitFileLogger(LogConfig{Level: "info", Format: "json"}, ""))
	t.Cleanup(func() { _ = InitLogger(LogConfig{Level: "info", Format: "json"}) })

	assert.False(t, zap.L().Core().Enabled(zap.ErrorLevel))
}

func TestInitFileLogger_InvalidLevel(t *testing.T) {
	err := InitFileLogger(LogConfig{Level: "loud"}, filepath.Join(t.TempDir(), "x.log"))
	assert.Error(t, err)
}
