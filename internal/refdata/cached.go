package refdata

import (
	"context"

	"github.com/sells-group/siteselect/internal/cache"
	"github.com/sells-group/siteselect/internal/catalog"
	"github.com/sells-group/siteselect/internal/catchment"
)

// CachedSource wraps a Source with cache-aside reuse of its near-static
// reads: the full area table and the city-wide distribution. Region-scoped
// queries pass through untouched; those results belong to the operation
// caches, keyed per request.
type CachedSource struct {
	inner Source
	c     *cache.Cache
}

// NewCachedSource wraps inner with the given cache tier.
func NewCachedSource(inner Source, c *cache.Cache) *CachedSource {
	return &CachedSource{inner: inner, c: c}
}

// cityTotals bundles CityDistribution's pair of results into one cache entry.
type cityTotals struct {
	dist  Distribution
	areas int
}

// Areas implements Source.
func (s *CachedSource) Areas(ctx context.Context) ([]Area, error) {
	return cache.GetOr(s.c, cache.Key("areas"), func() ([]Area, error) {
		return s.inner.Areas(ctx)
	})
}

// CityDistribution implements Source.
func (s *CachedSource) CityDistribution(ctx context.Context) (Distribution, int, error) {
	totals, err := cache.GetOr(s.c, cache.Key("city_distribution"), func() (cityTotals, error) {
		dist, areas, err := s.inner.CityDistribution(ctx)
		return cityTotals{dist: dist, areas: areas}, err
	})
	if err != nil {
		return nil, 0, err
	}
	return totals.dist, totals.areas, nil
}

// AreaByName implements Source.
func (s *CachedSource) AreaByName(ctx context.Context, name string) (*Area, error) {
	return s.inner.AreaByName(ctx, name)
}

// LocationFromPOIs implements Source.
func (s *CachedSource) LocationFromPOIs(ctx context.Context, name string) (*Location, error) {
	return s.inner.LocationFromPOIs(ctx, name)
}

// CountByCategory implements Source.
func (s *CachedSource) CountByCategory(ctx context.Context, region catchment.Region, cats []catalog.Category) (int, error) {
	return s.inner.CountByCategory(ctx, region, cats)
}

// Distribution implements Source.
func (s *CachedSource) Distribution(ctx context.Context, region catchment.Region) (Distribution, error) {
	return s.inner.Distribution(ctx, region)
}

// POIsByCategory implements Source.
func (s *CachedSource) POIsByCategory(ctx context.Context, cat catalog.Category, region catchment.Region) ([]POI, error) {
	return s.inner.POIsByCategory(ctx, cat, region)
}
