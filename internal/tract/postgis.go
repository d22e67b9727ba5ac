package tract

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"go.uber.org/zap"

	"github.com/sells-group/burden-map/internal/db"
)

// LoadPostGIS reads tract polygons from a PostGIS table, ordered by id.
func LoadPostGIS(ctx context.Context, pool db.Pool, table, idColumn, geomColumn string) ([]*Tract, error) {
	if err := db.CheckIdents(table, idColumn, geomColumn); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		"SELECT %s::text, ST_AsEWKB(%s) FROM %s WHERE %s IS NOT NULL ORDER BY 1",
		idColumn, geomColumn, table, geomColumn,
	)
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, eris.Wrapf(err, "tract: query %s", table)
	}
	defer rows.Close()

	var tracts []*Tract
	var skipped int
	for rows.Next() {
		var raw string
		var wkb []byte
		if err := rows.Scan(&raw, &wkb); err != nil {
			return nil, eris.Wrap(err, "tract: scan row")
		}
		g, err := ewkb.Unmarshal(wkb)
		if err != nil {
			skipped++
			zap.L().Debug("tract: undecodable geometry", zap.String("id", raw), zap.Error(err))
			continue
		}
		mp, err := toMultiPolygon(g)
		if err != nil {
			skipped++
			zap.L().Debug("tract: unusable geometry", zap.String("id", raw), zap.Error(err))
			continue
		}
		tracts = append(tracts, New(raw, mp, len(tracts)))
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "tract: iterate rows")
	}

	if skipped > 0 {
		zap.L().Warn("tract: skipped postgis rows", zap.String("table", table), zap.Int("skipped", skipped))
	}
	return tracts, nil
}
