package tract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func ring(minX, minY, maxX, maxY float64) []geom.Coord {
	return []geom.Coord{{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}, {minX, minY}}
}

func multi(t *testing.T, polys ...[][]geom.Coord) *geom.MultiPolygon {
	t.Helper()
	mp := geom.NewMultiPolygon(geom.XY)
	for _, rings := range polys {
		p, err := geom.NewPolygon(geom.XY).SetCoords(rings)
		require.NoError(t, err)
		require.NoError(t, mp.Push(p))
	}
	return mp
}

func square(t *testing.T, id string, minX, minY, maxX, maxY float64, ordinal int) *Tract {
	t.Helper()
	return New(id, multi(t, [][]geom.Coord{ring(minX, minY, maxX, maxY)}), ordinal)
}

func TestNew_NormalizesID(t *testing.T) {
	tr := square(t, "421010001001", 0, 0, 1, 1, 0)
	assert.Equal(t, "42101000100", tr.ID)
	assert.Equal(t, "421010001001", tr.RawGEOID)
}

func TestContains_InteriorAndOutside(t *testing.T) {
	tr := square(t, "42101000100", -75.2, 39.9, -75.1, 40.0, 0)

	assert.True(t, tr.Contains(-75.15, 39.95))
	assert.False(t, tr.Contains(-75.25, 39.95))
	assert.False(t, tr.Contains(-75.15, 40.05))
}

func TestContains_BoundaryIsInside(t *testing.T) {
	tr := square(t, "42101000100", 0, 0, 1, 1, 0)

	assert.True(t, tr.Contains(0, 0.5), "edge")
	assert.True(t, tr.Contains(1, 1), "vertex")
	assert.True(t, tr.Contains(0.5, 0), "bottom edge")
}

func TestContains_Holes(t *testing.T) {
	tr := New("42101000100", multi(t, [][]geom.Coord{ring(0, 0, 4, 4), ring(1, 1, 3, 3)}), 0)

	assert.False(t, tr.Contains(2, 2), "inside hole")
	assert.True(t, tr.Contains(1, 2), "hole boundary")
	assert.True(t, tr.Contains(0.5, 0.5), "between shell and hole")
}

func TestContains_MultiPolygon(t *testing.T) {
	tr := New("42101000100", multi(t,
		[][]geom.Coord{ring(0, 0, 1, 1)},
		[][]geom.Coord{ring(5, 5, 6, 6)},
	), 0)

	assert.True(t, tr.Contains(0.5, 0.5))
	assert.True(t, tr.Contains(5.5, 5.5))
	assert.False(t, tr.Contains(3, 3))
}

func TestContains_NilSafe(t *testing.T) {
	var tr *Tract
	assert.False(t, tr.Contains(0, 0))
}

func TestScanIndex_FirstMatchWins(t *testing.T) {
	tracts := []*Tract{
		square(t, "42101000100", 0, 0, 2, 2, 0),
		square(t, "42101000200", 1, 1, 3, 3, 1),
	}
	idx := NewScanIndex(tracts)

	got, ok := idx.Locate(1.5, 1.5)
	require.True(t, ok)
	assert.Equal(t, "42101000100", got.ID)

	got, ok = idx.Locate(2.5, 2.5)
	require.True(t, ok)
	assert.Equal(t, "42101000200", got.ID)

	got, ok = idx.Locate(10, 10)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestScanIndex_SharedEdgeGoesToEarlierTract(t *testing.T) {
	idx := NewScanIndex([]*Tract{
		square(t, "42101000100", 0, 0, 1, 1, 0),
		square(t, "42101000200", 1, 0, 2, 1, 1),
	})

	got, ok := idx.Locate(1, 0.5)
	require.True(t, ok)
	assert.Equal(t, "42101000100", got.ID)
}

func TestScanIndex_Empty(t *testing.T) {
	_, ok := NewScanIndex(nil).Locate(0, 0)
	assert.False(t, ok)
}

func TestRTreeIndex_MatchesScan(t *testing.T) {
	// A grid with overlapping strips laid over it, so tie-breaks matter.
	var tracts []*Tract
	for i := 0; i < 10; i++ {
		for j := 0; j < 10; j++ {
			tracts = append(tracts, square(t, "42101000100", float64(i), float64(j), float64(i+1), float64(j+1), len(tracts)))
		}
	}
	tracts = append(tracts, square(t, "42101000200", 2.5, -1, 3.5, 11, len(tracts)))

	scan := NewScanIndex(tracts)
	rt, err := NewRTreeIndex(tracts)
	require.NoError(t, err)
	assert.Equal(t, len(tracts), rt.Len())

	for x := -1.0; x <= 11; x += 0.25 {
		for y := -1.5; y <= 11.5; y += 0.25 {
			want, wantOK := scan.Locate(x, y)
			got, gotOK := rt.Locate(x, y)
			require.Equal(t, wantOK, gotOK, "probe (%v, %v)", x, y)
			if wantOK {
				require.Same(t, want, got, "probe (%v, %v)", x, y)
			}
		}
	}
}

func TestRTreeIndex_LowestOrdinalWins(t *testing.T) {
	// Load order puts the larger polygon second.
	tracts := []*Tract{
		square(t, "42101000100", 1, 1, 2, 2, 0),
		square(t, "42101000200", 0, 0, 3, 3, 1),
	}
	rt, err := NewRTreeIndex(tracts)
	require.NoError(t, err)

	got, ok := rt.Locate(1.5, 1.5)
	require.True(t, ok)
	assert.Equal(t, "42101000100", got.ID)

	got, ok = rt.Locate(0.5, 0.5)
	require.True(t, ok)
	assert.Equal(t, "42101000200", got.ID)
}

func TestNewIndex(t *testing.T) {
	tracts := []*Tract{square(t, "42101000100", 0, 0, 1, 1, 0)}

	for _, kind := range []string{"", IndexScan, IndexRTree} {
		idx, err := NewIndex(kind, tracts)
		require.NoError(t, err, kind)
		got, ok := idx.Locate(0.5, 0.5)
		require.True(t, ok, kind)
		assert.Equal(t, "42101000100", got.ID)
	}

	_, err := NewIndex("kdtree", tracts)
	assert.Error(t, err)
}

func TestToMultiPolygon(t *testing.T) {
	p, err := geom.NewPolygon(geom.XY).SetCoords([][]geom.Coord{ring(0, 0, 1, 1)})
	require.NoError(t, err)

	mp, err := toMultiPolygon(p)
	require.NoError(t, err)
	assert.Equal(t, 1, mp.NumPolygons())

	_, err = toMultiPolygon(geom.NewPointFlat(geom.XY, []float64{0, 0}))
	assert.Error(t, err)
	_, err = toMultiPolygon(nil)
	assert.Error(t, err)
	_, err = toMultiPolygon(geom.NewMultiPolygon(geom.XY))
	assert.Error(t, err)
}
