// Package tract holds census tract polygons and resolves points to the tract
// that contains them.
package tract

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"github.com/twpayne/go-geom/xy/location"

	"github.com/sells-group/burden-map/internal/normalize"
)

// Tract is one census tract polygon. Tracts are immutable after load.
type Tract struct {
	// ID is the normalized 11-character tract GEOID.
	ID string
	// RawGEOID is the identifier as it appeared in the source.
	RawGEOID string
	Geometry *geom.MultiPolygon
	// Ordinal is the tract's position in load order. The lowest ordinal wins
	// when polygons overlap.
	Ordinal int

	bounds *geom.Bounds
}

// New builds a tract from a raw identifier and its geometry.
func New(rawGEOID string, g *geom.MultiPolygon, ordinal int) *Tract {
	return &Tract{
		ID:       normalize.GEOID(rawGEOID),
		RawGEOID: rawGEOID,
		Geometry: g,
		Ordinal:  ordinal,
		bounds:   g.Bounds(),
	}
}

// Bounds returns the tract's bounding box.
func (t *Tract) Bounds() *geom.Bounds {
	return t.bounds
}

// Contains reports whether (lon, lat) lies inside the tract or on its
// boundary. Points strictly inside a hole are outside.
func (t *Tract) Contains(lon, lat float64) bool {
	if t == nil || t.Geometry == nil {
		return false
	}
	if !inBounds(t.bounds, lon, lat) {
		return false
	}
	c := geom.Coord{lon, lat}
	for i := 0; i < t.Geometry.NumPolygons(); i++ {
		if polygonContains(t.Geometry.Polygon(i), c) {
			return true
		}
	}
	return false
}

func polygonContains(p *geom.Polygon, c geom.Coord) bool {
	if p.NumLinearRings() == 0 {
		return false
	}
	layout := p.Layout()
	switch xy.LocatePointInRing(layout, c, p.LinearRing(0).FlatCoords()) {
	case location.Exterior:
		return false
	case location.Boundary:
		return true
	}
	for i := 1; i < p.NumLinearRings(); i++ {
		if xy.LocatePointInRing(layout, c, p.LinearRing(i).FlatCoords()) == location.Interior {
			return false
		}
	}
	return true
}

func inBounds(b *geom.Bounds, lon, lat float64) bool {
	if b == nil || b.IsEmpty() {
		return false
	}
	return lon >= b.Min(0) && lon <= b.Max(0) && lat >= b.Min(1) && lat <= b.Max(1)
}

// Locator resolves a point to the tract containing it.
type Locator interface {
	// Locate returns the first tract in load order containing (lon, lat),
	// or false if the point is outside every tract.
	Locate(lon, lat float64) (*Tract, bool)
}

// Index kinds.
const (
	IndexScan  = "scan"
	IndexRTree = "rtree"
)

// NewIndex builds the Locator named by kind. An empty kind selects a scan.
func NewIndex(kind string, tracts []*Tract) (Locator, error) {
	switch kind {
	case "", IndexScan:
		return NewScanIndex(tracts), nil
	case IndexRTree:
		return NewRTreeIndex(tracts)
	default:
		return nil, eris.Errorf("tract: unknown index kind %q", kind)
	}
}

// toMultiPolygon promotes polygon geometries to a multipolygon.
func toMultiPolygon(g geom.T) (*geom.MultiPolygon, error) {
	switch v := g.(type) {
	case *geom.MultiPolygon:
		if v.NumPolygons() == 0 {
			return nil, eris.New("tract: empty multipolygon")
		}
		return v, nil
	case *geom.Polygon:
		if v.NumLinearRings() == 0 {
			return nil, eris.New("tract: empty polygon")
		}
		mp := geom.NewMultiPolygon(v.Layout()).SetSRID(v.SRID())
		if err := mp.Push(v); err != nil {
			return nil, eris.Wrap(err, "tract: promote polygon")
		}
		return mp, nil
	case nil:
		return nil, eris.New("tract: missing geometry")
	default:
		return nil, eris.Errorf("tract: unsupported geometry %T", g)
	}
}
