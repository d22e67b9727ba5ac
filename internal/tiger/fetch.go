package tiger

import (
	"context"
	"net/http"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/burden-map/internal/tract"
)

// FetchOptions selects a state's tract file and optionally one county.
type FetchOptions struct {
	Year    int
	State   string // abbreviation or FIPS code
	County  string // 3-digit county FIPS; empty keeps the whole state
	TempDir string
	BaseURL string
	Client  *http.Client
}

// FetchTracts downloads a state's tract shapefile and returns its tracts,
// keeping only the requested county. Ordinals are renumbered after filtering.
func FetchTracts(ctx context.Context, opts FetchOptions) ([]*tract.Tract, error) {
	stateFIPS, ok := StateFIPS(opts.State)
	if !ok {
		return nil, eris.Errorf("tiger: unknown state %q", opts.State)
	}

	url := TractURL(opts.BaseURL, opts.Year, stateFIPS)
	shpPath, err := Download(ctx, opts.Client, url, opts.TempDir)
	if err != nil {
		return nil, err
	}

	all, err := tract.LoadShapefile(shpPath, "GEOID")
	if err != nil {
		return nil, err
	}

	county := CountyFIPS(opts.County)
	if county == "" {
		return all, nil
	}

	prefix := stateFIPS + county
	kept := make([]*tract.Tract, 0, len(all))
	for _, t := range all {
		if strings.HasPrefix(t.ID, prefix) {
			kept = append(kept, tract.New(t.RawGEOID, t.Geometry, len(kept)))
		}
	}
	zap.L().Info("tiger: filtered tracts to county",
		zap.String("state", stateFIPS),
		zap.String("county", county),
		zap.Int("total", len(all)),
		zap.Int("kept", len(kept)),
	)
	if len(kept) == 0 {
		return nil, eris.Errorf("tiger: no tracts for county %s%s", stateFIPS, county)
	}
	return kept, nil
}
