package catchment

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/siteselect/internal/cache"
	"github.com/sells-group/siteselect/pkg/isochrone"
)

// Resolver obtains a catchment Region for a centroid, preferring the external
// reachability provider and degrading to the local bounding-box approximation
// on any failure. Resolution never returns an error: the fallback is a
// first-class result, not an error branch.
type Resolver struct {
	client  isochrone.Client
	timeout time.Duration
	cache   *cache.Cache
}

// NewResolver creates a Resolver. A nil client means the provider is not
// configured and every catchment uses the fallback.
func NewResolver(client isochrone.Client, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Resolver{client: client, timeout: timeout}
}

// UseCache enables cache-aside reuse of provider regions. Keys round
// coordinates to 4 decimals, so requests within ~10 m share a polygon until
// the tier TTL lapses. Provider failures are never cached.
func (r *Resolver) UseCache(c *cache.Cache) {
	r.cache = c
}

// Resolve returns the catchment region around (lat, lng).
func (r *Resolver) Resolve(ctx context.Context, lat, lng, radiusKM float64) Region {
	if r.client != nil {
		region, err := r.providerRegion(ctx, lat, lng, radiusKM)
		if err == nil {
			return region
		}

		zap.L().Debug("catchment: provider unavailable, using bbox fallback",
			zap.Float64("lat", lat),
			zap.Float64("lng", lng),
			zap.Float64("radius_km", radiusKM),
			zap.Error(err),
		)
	}

	return FallbackRegion(lat, lng, radiusKM)
}

func (r *Resolver) providerRegion(ctx context.Context, lat, lng, radiusKM float64) (Region, error) {
	fetch := func() (Region, error) {
		cctx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()

		poly, err := r.client.Polygon(cctx, lat, lng, radiusKM)
		if err != nil {
			return nil, err
		}
		return NewPolygonRegion(poly)
	}

	if r.cache == nil {
		return fetch()
	}
	return cache.GetOr(r.cache, cache.Key("isochrone", lat, lng, radiusKM), fetch)
}
