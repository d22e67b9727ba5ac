package tract

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/sells-group/burden-map/internal/normalize"
)

// LoadGeoJSON reads a FeatureCollection of Polygon or MultiPolygon features.
// The tract id is taken from idProperty, falling back to the feature id.
// Features without a usable id or geometry are skipped.
func LoadGeoJSON(r io.Reader, idProperty string) ([]*Tract, error) {
	var fc geojson.FeatureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, eris.Wrap(err, "tract: decode geojson")
	}

	var tracts []*Tract
	var skipped int
	for i, f := range fc.Features {
		if f == nil {
			skipped++
			continue
		}
		raw := normalize.IDString(f.Properties[idProperty])
		if raw == "" {
			raw = f.ID
		}
		if raw == "" {
			skipped++
			zap.L().Debug("tract: feature without id", zap.Int("feature", i))
			continue
		}
		mp, err := toMultiPolygon(f.Geometry)
		if err != nil {
			skipped++
			zap.L().Debug("tract: skipping feature", zap.Int("feature", i), zap.String("id", raw), zap.Error(err))
			continue
		}
		tracts = append(tracts, New(raw, mp, len(tracts)))
	}

	if skipped > 0 {
		zap.L().Warn("tract: skipped geojson features", zap.Int("skipped", skipped))
	}
	return tracts, nil
}

// WriteGeoJSON writes tracts as a FeatureCollection with the id under
// idProperty, in load order. LoadGeoJSON reads the output back unchanged.
func WriteGeoJSON(w io.Writer, tracts []*Tract, idProperty string) error {
	fc := geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(tracts))}
	for _, t := range tracts {
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       strconv.Itoa(t.Ordinal),
			Geometry: t.Geometry,
			Properties: map[string]any{
				idProperty: t.RawGEOID,
			},
		})
	}
	if err := json.NewEncoder(w).Encode(&fc); err != nil {
		return eris.Wrap(err, "tract: encode geojson")
	}
	return nil
}
