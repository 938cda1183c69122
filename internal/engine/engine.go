// Package engine is the facade over the analysis pipeline: ranking, area
// opportunity analysis, and spatial clustering, each behind the tiered result
// cache.
package engine

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"

	"github.com/sells-group/siteselect/internal/cache"
	"github.com/sells-group/siteselect/internal/catalog"
	"github.com/sells-group/siteselect/internal/catchment"
	"github.com/sells-group/siteselect/internal/cluster"
	"github.com/sells-group/siteselect/internal/gap"
	"github.com/sells-group/siteselect/internal/recommend"
	"github.com/sells-group/siteselect/internal/refdata"
)

// Engine wires the catalog, reference data, catchment resolution, and caches
// behind the exposed operations.
type Engine struct {
	cat      *catalog.Catalog
	src      refdata.Source
	resolver *catchment.Resolver
	tiers    *cache.Tiers
	ranker   *recommend.Ranker
	analyzer *gap.Analyzer
}

// New builds an Engine. Zero-valued Options fields fall back to defaults.
// The reference tier fronts the near-static dataset reads and the provider
// tier fronts isochrone resolution, so repeated rankings reuse both.
func New(cat *catalog.Catalog, src refdata.Source, resolver *catchment.Resolver, tiers *cache.Tiers, opts recommend.Options) *Engine {
	cached := refdata.NewCachedSource(src, tiers.Reference)
	resolver.UseCache(tiers.Provider)

	return &Engine{
		cat:      cat,
		src:      cached,
		resolver: resolver,
		tiers:    tiers,
		ranker:   recommend.NewRanker(cat, cached, resolver, opts),
		analyzer: gap.NewAnalyzer(cat, cached),
	}
}

// RankAreas ranks the best areas for a business category. Unknown categories
// are rejected rather than silently mapped to the fallback bucket, because a
// caller asking for a ranking almost certainly misspelled one of the
// thirteen.
func (e *Engine) RankAreas(ctx context.Context, category catalog.Category, radiusKM float64) (*recommend.Result, error) {
	if !e.cat.IsValid(category) {
		return nil, &InvalidArgumentError{
			Field:  "category",
			Reason: fmt.Sprintf("%q is not one of the defined super-categories", category),
		}
	}
	if radiusKM <= 0 || radiusKM > 50 {
		return nil, &InvalidArgumentError{Field: "radius_km", Reason: "must be in (0, 50]"}
	}

	key := cache.Key("rank_areas", string(category), radiusKM)
	return cache.GetOr(e.tiers.Search, key, func() (*recommend.Result, error) {
		return e.ranker.Rank(ctx, category, radiusKM)
	})
}

// AnalyzeArea analyzes gap and complementary opportunities for a named area
// or POI-derived location.
func (e *Engine) AnalyzeArea(ctx context.Context, name string) (*gap.Result, error) {
	if name == "" {
		return nil, &InvalidArgumentError{Field: "name", Reason: "must not be empty"}
	}

	key := cache.Key("analyze_area", name)
	return cache.GetOr(e.tiers.Search, key, func() (*gap.Result, error) {
		return e.analyzer.Analyze(ctx, name)
	})
}

// ClusterPoints runs density clustering over caller-supplied coordinates.
// The point set enters the cache key as a digest, so identical payloads
// share a viewport-tier entry without storing the coordinates twice.
func (e *Engine) ClusterPoints(_ context.Context, points []cluster.Point, epsKM float64, minSamples int) (*cluster.Result, error) {
	if epsKM <= 0 {
		return nil, &InvalidArgumentError{Field: "eps_km", Reason: "must be positive"}
	}
	if minSamples < 1 {
		return nil, &InvalidArgumentError{Field: "min_samples", Reason: "must be at least 1"}
	}

	key := cache.Key("cluster_points", pointsDigest(points), epsKM, minSamples)
	return cache.GetOr(e.tiers.Viewport, key, func() (*cluster.Result, error) {
		res := cluster.DBSCAN(points, epsKM, minSamples)
		return &res, nil
	})
}

// pointsDigest fingerprints an ordered point set.
func pointsDigest(points []cluster.Point) string {
	h := sha256.New()
	var buf [16]byte
	for _, p := range points {
		binary.BigEndian.PutUint64(buf[:8], math.Float64bits(p.Lat))
		binary.BigEndian.PutUint64(buf[8:], math.Float64bits(p.Lng))
		h.Write(buf[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// CompetitorClusters clusters the competitor POIs of one category around a
// centroid, for map visualization of competitive hot spots.
func (e *Engine) CompetitorClusters(ctx context.Context, category catalog.Category, lat, lng, radiusKM float64, epsKM float64, minSamples int) (*cluster.Result, error) {
	if !e.cat.IsValid(category) {
		return nil, &InvalidArgumentError{
			Field:  "category",
			Reason: fmt.Sprintf("%q is not one of the defined super-categories", category),
		}
	}
	if radiusKM <= 0 || radiusKM > 50 {
		return nil, &InvalidArgumentError{Field: "radius_km", Reason: "must be in (0, 50]"}
	}
	if epsKM <= 0 {
		return nil, &InvalidArgumentError{Field: "eps_km", Reason: "must be positive"}
	}
	if minSamples < 1 {
		return nil, &InvalidArgumentError{Field: "min_samples", Reason: "must be at least 1"}
	}

	key := cache.Key("competitor_clusters", string(category), lat, lng, radiusKM, epsKM, minSamples)
	return cache.GetOr(e.tiers.Viewport, key, func() (*cluster.Result, error) {
		region := e.resolver.Resolve(ctx, lat, lng, radiusKM)
		pois, err := e.src.POIsByCategory(ctx, category, region)
		if err != nil {
			return nil, err
		}

		points := make([]cluster.Point, len(pois))
		for i, p := range pois {
			points[i] = cluster.Point{Lat: p.Lat, Lng: p.Lng}
		}
		res := cluster.DBSCAN(points, epsKM, minSamples)
		return &res, nil
	})
}

// CacheStats reports hit/miss statistics per cache tier.
func (e *Engine) CacheStats() map[string]cache.Stats {
	return e.tiers.StatsByTier()
}
