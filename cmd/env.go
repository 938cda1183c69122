package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/siteselect/internal/cache"
	"github.com/sells-group/siteselect/internal/catalog"
	"github.com/sells-group/siteselect/internal/catchment"
	"github.com/sells-group/siteselect/internal/db"
	"github.com/sells-group/siteselect/internal/engine"
	"github.com/sells-group/siteselect/internal/recommend"
	"github.com/sells-group/siteselect/internal/refdata"
	"github.com/sells-group/siteselect/pkg/isochrone"
)

// appEnv holds the wired engine and its owned resources.
type appEnv struct {
	Engine  *engine.Engine
	Catalog *catalog.Catalog
	cleanup func()
}

// Close releases held resources.
func (e *appEnv) Close() {
	if e.cleanup != nil {
		e.cleanup()
	}
}

// initEngine wires the full engine from config: catalog, reference-data
// source, isochrone client, resolver, cache tiers.
func initEngine(ctx context.Context) (*appEnv, error) {
	cat, err := loadCatalog()
	if err != nil {
		return nil, err
	}

	env := &appEnv{Catalog: cat}

	var src refdata.Source
	switch cfg.RefData.Driver {
	case "postgres":
		pool, err := db.Connect(ctx, cfg.RefData.DatabaseURL)
		if err != nil {
			return nil, err
		}
		env.cleanup = pool.Close
		src = refdata.NewPostgresSource(pool)
	case "memory":
		src, err = loadMemorySource(cat)
		if err != nil {
			return nil, err
		}
	default:
		return nil, eris.Errorf("unknown refdata driver %q", cfg.RefData.Driver)
	}

	var client isochrone.Client
	if cfg.Isochrone.Token != "" {
		client = isochrone.NewHTTPClient(cfg.Isochrone.BaseURL, cfg.Isochrone.Token,
			isochrone.WithTimeout(cfg.Isochrone.Timeout),
			isochrone.WithRateLimit(cfg.Isochrone.RatePerSec, cfg.Isochrone.RateBurst),
		)
	} else {
		zap.L().Info("no isochrone token configured, catchments use bbox fallback")
	}

	env.Engine = engine.New(
		cat,
		src,
		catchment.NewResolver(client, cfg.Isochrone.Timeout),
		cache.NewTiers(cfg.Cache),
		recommend.Options{
			TopAreas:           cfg.Ranking.TopAreas,
			TopRecommendations: cfg.Ranking.TopRecommendations,
			Parallelism:        cfg.Ranking.Parallelism,
		},
	)
	return env, nil
}

func loadCatalog() (*catalog.Catalog, error) {
	if cfg.RefData.CatalogOverride == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(cfg.RefData.CatalogOverride)
}

// loadMemorySource reads the local dataset files named in config.
func loadMemorySource(cat *catalog.Catalog) (*refdata.MemorySource, error) {
	var areas []refdata.Area
	var err error

	switch {
	case cfg.RefData.AreasXLSX != "":
		areas, err = refdata.LoadAreasXLSX(cfg.RefData.AreasXLSX)
	case cfg.RefData.AreasCSV != "":
		areas, err = refdata.LoadAreasCSV(cfg.RefData.AreasCSV)
	default:
		return nil, eris.New("memory driver needs refdata.areas_csv or refdata.areas_xlsx")
	}
	if err != nil {
		return nil, err
	}

	if cfg.RefData.Shapefile != "" {
		if _, err := refdata.AttachBoundaries(areas, cfg.RefData.Shapefile, cfg.RefData.ShapefileNameField); err != nil {
			return nil, err
		}
	}

	var pois []refdata.POI
	if cfg.RefData.POIsCSV != "" {
		pois, err = refdata.LoadPOIsCSV(cfg.RefData.POIsCSV, cat)
		if err != nil {
			return nil, err
		}
	}

	return refdata.NewMemorySource(areas, pois), nil
}
