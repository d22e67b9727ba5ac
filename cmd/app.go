package main

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/burden-map/internal/burden"
	"github.com/sells-group/burden-map/internal/config"
	"github.com/sells-group/burden-map/internal/db"
	"github.com/sells-group/burden-map/internal/metrics"
	"github.com/sells-group/burden-map/internal/predict"
	"github.com/sells-group/burden-map/internal/session"
	"github.com/sells-group/burden-map/internal/tract"
	"github.com/sells-group/burden-map/pkg/geocode"
)

// app bundles the loaded data and clients a command needs.
type app struct {
	cfg       *config.Config
	tracts    []*tract.Tract
	index     tract.Locator
	values    *burden.Lookup
	predictor *predict.Predictor
	geocoder  *geocode.CascadeClient
	metrics   *metrics.Metrics
	pools     []*pgxpool.Pool
}

// loadApp loads the tract geometry and the burden lookup in parallel and
// builds the predictor and geocoder.
func loadApp(ctx context.Context, c *config.Config) (*app, error) {
	a := &app{cfg: c, metrics: metrics.New()}
	log := zap.L().With(zap.String("component", "app"))

	var err error
	if a.predictor, err = loadPredictor(c); err != nil {
		return nil, err
	}

	tractSrc := tract.Source{
		Kind:       c.Data.Tracts.Kind,
		Path:       c.Data.Tracts.Path,
		IDField:    c.Data.Tracts.IDField,
		Table:      c.Data.Tracts.Table,
		GeomColumn: c.Data.Tracts.GeomColumn,
	}
	if tractSrc.Kind == "" {
		tractSrc.Kind = tract.InferKind(tractSrc.Path)
	}
	if tractSrc.Kind == tract.KindPostGIS {
		pool, err := a.connect(ctx, c.Data.Tracts.DatabaseURL)
		if err != nil {
			return nil, err
		}
		tractSrc.Pool = pool
	}

	burdenSrc := burden.Source{
		Kind:        c.Data.Burden.Kind,
		Path:        c.Data.Burden.Path,
		Sheet:       c.Data.Burden.Sheet,
		Table:       c.Data.Burden.Table,
		IDColumn:    c.Data.Burden.IDColumn,
		ValueColumn: c.Data.Burden.ValueColumn,
	}
	if burdenSrc.Kind == "" {
		burdenSrc.Kind = burden.InferKind(burdenSrc.Path)
	}
	if burdenSrc.Kind == burden.KindPostgres {
		pool, err := a.connect(ctx, c.Data.Burden.DatabaseURL)
		if err != nil {
			a.closePools()
			return nil, err
		}
		burdenSrc.Pool = pool
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ts, err := tract.Load(gctx, tractSrc)
		if err != nil {
			return err
		}
		a.tracts = ts
		return nil
	})
	g.Go(func() error {
		l, err := burden.Load(gctx, burdenSrc)
		if err != nil {
			return err
		}
		a.values = l
		return nil
	})
	if err := g.Wait(); err != nil {
		a.closePools()
		return nil, err
	}

	if a.index, err = tract.NewIndex(c.Index.Kind, a.tracts); err != nil {
		a.closePools()
		return nil, err
	}

	if a.geocoder, err = geocode.New(c.Geocode.Providers, a.geocodeOptions()...); err != nil {
		a.closePools()
		return nil, err
	}

	log.Info("data loaded",
		zap.Int("tracts", len(a.tracts)),
		zap.Int("burden_values", a.values.Len()),
		zap.String("index", c.Index.Kind),
		zap.Duration("elapsed", time.Since(start)),
	)
	return a, nil
}

func (a *app) connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := db.Connect(ctx, url)
	if err != nil {
		return nil, err
	}
	a.pools = append(a.pools, pool)
	return pool, nil
}

func (a *app) geocodeOptions() []geocode.Option {
	g := a.cfg.Geocode
	return []geocode.Option{
		geocode.WithTimeout(time.Duration(g.TimeoutSecs) * time.Second),
		geocode.WithRateLimit(g.RateLimit),
		geocode.WithUserAgent(g.UserAgent),
		geocode.WithEmail(g.Email),
		geocode.WithNominatimURL(g.NominatimURL),
		geocode.WithBoundingBox(g.BBox),
		geocode.WithReverseCache(g.ReverseCacheMax, time.Duration(g.ReverseCacheTTL)*time.Second),
		geocode.WithObserver(a.metrics.ObserveGeocode),
	}
}

// controller builds a session controller drawing on surface.
func (a *app) controller(surface session.Surface, strict bool) *session.Controller {
	return session.NewController(session.Deps{
		Locator:   a.index,
		Values:    a.values,
		Predictor: a.predictor,
		Geocoder:  a.geocoder,
		Surface:   surface,
		Metrics:   a.metrics,
		FocusZoom: a.cfg.Map.FocusZoom,
		Strict:    strict,
	})
}

// initialView is the configured map view before any search.
func (a *app) initialView() session.View {
	return session.View{
		Center: session.Point{Lon: a.cfg.Map.CenterLon, Lat: a.cfg.Map.CenterLat},
		Zoom:   a.cfg.Map.Zoom,
	}
}

func (a *app) geocodeTimeout() time.Duration {
	return time.Duration(a.cfg.Geocode.TimeoutSecs) * time.Second
}

// Close writes the metrics textfile, if configured, and closes any pools.
func (a *app) Close() {
	if a.geocoder != nil {
		cs := a.geocoder.CacheStats()
		zap.L().Debug("reverse geocode cache",
			zap.Int("entries", cs.Entries),
			zap.Int64("hits", cs.Hits),
			zap.Int64("misses", cs.Misses),
		)
	}
	if err := a.metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
		zap.L().Warn("write metrics textfile", zap.Error(err))
	}
	a.closePools()
}

func (a *app) closePools() {
	for _, p := range a.pools {
		p.Close()
	}
	a.pools = nil
}

// loadPredictor builds the predictor from the configured coefficient file or
// the compiled-in defaults.
func loadPredictor(c *config.Config) (*predict.Predictor, error) {
	coeffs, err := predict.LoadCoefficients(c.Model.CoefficientsPath)
	if err != nil {
		return nil, err
	}
	return predict.New(coeffs)
}
