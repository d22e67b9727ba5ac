package choropleth

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/burden-map/internal/tract"
)

// Export writes every tract as a styled GeoJSON Feature, in load order. The
// feature id is the load ordinal since several polygons may share a tract id.
// Properties: geoid, burden (null when unknown), fill, band, tooltip.
func Export(w io.Writer, tracts []*tract.Tract, s *Styler) error {
	fc := geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(tracts))}
	for _, t := range tracts {
		st := s.Style(t)
		var value any
		if st.HasValue {
			value = st.Value
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       strconv.Itoa(t.Ordinal),
			Geometry: t.Geometry,
			Properties: map[string]any{
				"geoid":   t.ID,
				"burden":  value,
				"fill":    st.Fill,
				"band":    st.Band.Name,
				"tooltip": st.Tooltip,
			},
		})
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(&fc); err != nil {
		return eris.Wrap(err, "choropleth: encode feature collection")
	}
	return nil
}
