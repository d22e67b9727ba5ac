package tract

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/burden-map/internal/db"
)

// Source kinds.
const (
	KindGeoJSON   = "geojson"
	KindShapefile = "shapefile"
	KindPostGIS   = "postgis"
)

// Source describes where tract polygons come from.
type Source struct {
	Kind       string
	Path       string
	IDField    string
	Table      string
	GeomColumn string

	// Pool is required for KindPostGIS.
	Pool db.Pool
}

// InferKind returns the source kind implied by a file extension.
func InferKind(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return KindGeoJSON
	case ".shp":
		return KindShapefile
	}
	return ""
}

// Load reads src in source order.
func Load(ctx context.Context, src Source) ([]*Tract, error) {
	kind := src.Kind
	if kind == "" {
		kind = InferKind(src.Path)
	}

	var (
		tracts []*Tract
		err    error
	)
	switch kind {
	case KindGeoJSON:
		tracts, err = loadGeoJSONFile(src.Path, src.IDField)
	case KindShapefile:
		tracts, err = LoadShapefile(src.Path, src.IDField)
	case KindPostGIS:
		if src.Pool == nil {
			return nil, eris.New("tract: postgis source needs a pool")
		}
		tracts, err = LoadPostGIS(ctx, src.Pool, src.Table, src.IDField, src.GeomColumn)
	default:
		return nil, eris.Errorf("tract: unknown source kind %q (path %q)", kind, src.Path)
	}
	if err != nil {
		return nil, err
	}

	zap.L().Info("loaded tracts",
		zap.String("component", "tract"),
		zap.String("kind", kind),
		zap.Int("tracts", len(tracts)),
	)
	return tracts, nil
}

func loadGeoJSONFile(path, idField string) ([]*Tract, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "tract: open geojson")
	}
	defer f.Close() //nolint:errcheck
	return LoadGeoJSON(f, idField)
}
