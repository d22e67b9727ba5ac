package tract

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"go.uber.org/zap"
)

// LoadShapefile reads a TIGER/Line tract shapefile. The tract id comes from
// the idField attribute (GEOID in TIGER files).
func LoadShapefile(path, idField string) ([]*Tract, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "tract: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	idIdx := -1
	for i, f := range reader.Fields() {
		name := strings.TrimRight(f.String(), "\x00")
		if strings.EqualFold(name, idField) {
			idIdx = i
			break
		}
	}
	if idIdx < 0 {
		return nil, eris.Errorf("tract: field %q not in shapefile %s", idField, path)
	}

	var tracts []*Tract
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()
		raw := strings.TrimSpace(strings.TrimRight(reader.Attribute(idIdx), "\x00"))
		poly, ok := shape.(*shp.Polygon)
		if raw == "" || !ok {
			skipped++
			continue
		}
		mp := shapeToMultiPolygon(poly)
		if mp == nil {
			skipped++
			continue
		}
		tracts = append(tracts, New(raw, mp, len(tracts)))
	}

	if skipped > 0 {
		zap.L().Debug("tract: skipped shapefile records", zap.String("path", path), zap.Int("skipped", skipped))
	}
	return tracts, nil
}

// shapeToMultiPolygon groups shapefile rings into polygons. Clockwise rings
// are shells; counter-clockwise rings are holes of the preceding shell.
func shapeToMultiPolygon(p *shp.Polygon) *geom.MultiPolygon {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	var polys [][][]float64
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}
		if end-start < 4 {
			continue
		}
		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		hole := xy.IsRingCounterClockwise(geom.XY, flat)
		if hole && len(polys) > 0 {
			last := len(polys) - 1
			polys[last] = append(polys[last], flat)
			continue
		}
		polys = append(polys, [][]float64{flat})
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(4326)
	for i, rings := range polys {
		poly := geom.NewPolygon(geom.XY)
		for _, ring := range rings {
			if err := poly.Push(geom.NewLinearRingFlat(geom.XY, ring)); err != nil {
				zap.L().Debug("tract: skipping malformed ring", zap.Int("polygon", i), zap.Error(err))
			}
		}
		if poly.NumLinearRings() == 0 {
			continue
		}
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("tract: skipping malformed polygon", zap.Int("polygon", i), zap.Error(err))
		}
	}
	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}
