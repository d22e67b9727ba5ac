package choropleth

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/burden-map/internal/burden"
	"github.com/sells-group/burden-map/internal/tract"
)

func testTract(t *testing.T, id string, x float64, ordinal int) *tract.Tract {
	t.Helper()
	p, err := geom.NewPolygon(geom.XY).SetCoords([][]geom.Coord{{
		{x, 0}, {x + 1, 0}, {x + 1, 1}, {x, 1}, {x, 0},
	}})
	require.NoError(t, err)
	mp := geom.NewMultiPolygon(geom.XY)
	require.NoError(t, mp.Push(p))
	return tract.New(id, mp, ordinal)
}

func TestStyler_Style(t *testing.T) {
	values := burden.FromMap(map[string]float64{"421010001001": 8.5})
	s := NewStyler(values)

	st := s.Style(testTract(t, "42101000100", 0, 0))
	assert.True(t, st.HasValue)
	assert.Equal(t, 8.5, st.Value)
	assert.Equal(t, "#f03b20", st.Fill)
	assert.Equal(t, BandHigh, st.Band)
	assert.Equal(t, "Tract 42101000100: 8.5%", st.Tooltip)

	st = s.Style(testTract(t, "42101000200", 1, 1))
	assert.False(t, st.HasValue)
	assert.Equal(t, "#cccccc", st.Fill)
	assert.Equal(t, "Tract 42101000200: no data", st.Tooltip)
}

func TestExport(t *testing.T) {
	tracts := []*tract.Tract{
		testTract(t, "42101000100", 0, 0),
		testTract(t, "42101000200", 1, 1),
	}
	s := NewStyler(burden.FromMap(map[string]float64{"42101000100": 12}))

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, tracts, s))

	var out struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type string `json:"type"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "FeatureCollection", out.Type)
	require.Len(t, out.Features, 2)

	first := out.Features[0]
	assert.Equal(t, "MultiPolygon", first.Geometry.Type)
	assert.Equal(t, "42101000100", first.Properties["geoid"])
	assert.Equal(t, 12.0, first.Properties["burden"])
	assert.Equal(t, "#bd0026", first.Properties["fill"])
	assert.Equal(t, "severe", first.Properties["band"])

	second := out.Features[1]
	assert.Nil(t, second.Properties["burden"])
	assert.Equal(t, "#cccccc", second.Properties["fill"])
	assert.Equal(t, "no_data", second.Properties["band"])
	assert.Equal(t, "Tract 42101000200: no data", second.Properties["tooltip"])
}

func TestExport_SharedTractIDKeepsDistinctFeatureIDs(t *testing.T) {
	tracts := []*tract.Tract{
		testTract(t, "421010001001", 0, 0),
		testTract(t, "421010001002", 1, 1),
	}

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, tracts, NewStyler(burden.FromMap(nil))))

	var out struct {
		Features []struct {
			ID         string         `json:"id"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out.Features, 2)

	assert.Equal(t, "0", out.Features[0].ID)
	assert.Equal(t, "1", out.Features[1].ID)
	assert.Equal(t, "42101000100", out.Features[0].Properties["geoid"])
	assert.Equal(t, "42101000100", out.Features[1].Properties["geoid"])
}
