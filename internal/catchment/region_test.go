package catchment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/siteselect/internal/cache"
	"github.com/sells-group/siteselect/pkg/isochrone"
)

func squarePolygon(minLng, minLat, maxLng, maxLat float64) *geom.Polygon {
	return geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{
		{minLng, minLat}, {maxLng, minLat}, {maxLng, maxLat}, {minLng, maxLat}, {minLng, minLat},
	}})
}

func TestPolygonRegion_Contains(t *testing.T) {
	region, err := NewPolygonRegion(squarePolygon(77.20, 28.60, 77.24, 28.64))
	require.NoError(t, err)

	assert.True(t, region.Exact())
	assert.True(t, region.Contains(28.62, 77.22))
	assert.False(t, region.Contains(28.70, 77.22), "north of the polygon")
	assert.False(t, region.Contains(28.62, 77.30), "east of the polygon")
}

func TestPolygonRegion_Holes(t *testing.T) {
	poly := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{
		{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
		{{4, 4}, {6, 4}, {6, 6}, {4, 6}, {4, 4}},
	})
	region, err := NewPolygonRegion(poly)
	require.NoError(t, err)

	assert.True(t, region.Contains(2, 2))
	assert.False(t, region.Contains(5, 5), "inside the hole")
}

func TestNewPolygonRegion_Degenerate(t *testing.T) {
	_, err := NewPolygonRegion(nil)
	assert.Error(t, err)

	_, err = NewPolygonRegion(geom.NewPolygon(geom.XY))
	assert.Error(t, err)
}

func TestFallbackRegion_LongitudeShrinkage(t *testing.T) {
	// At the equator the box is square in degrees.
	eq := FallbackRegion(0, 0, 111.0)
	assert.InDelta(t, 1.0, eq.Bounds().MaxLat, 1e-9)
	assert.InDelta(t, 1.0, eq.Bounds().MaxLng, 1e-9)

	// At 60°N one longitude degree covers half the distance, so the box
	// stretches east-west by 1/cos(60°) = 2.
	north := FallbackRegion(60, 0, 111.0)
	assert.InDelta(t, 1.0, north.Bounds().MaxLat-60, 1e-9)
	assert.InDelta(t, 2.0, north.Bounds().MaxLng, 1e-6)

	assert.False(t, north.Exact())
	assert.True(t, north.Contains(60, 0))
}

func TestResolver_FallbackOnProviderFailure(t *testing.T) {
	r := NewResolver(isochrone.Unavailable(), 0)

	region := r.Resolve(context.TODO(), 28.62, 77.22, 1.0)
	require.NotNil(t, region)
	assert.False(t, region.Exact())

	// The fallback box always contains the centroid.
	assert.True(t, region.Contains(28.62, 77.22))
	assert.True(t, region.Bounds().Contains(28.62, 77.22))
}

func TestResolver_NoClientConfigured(t *testing.T) {
	r := NewResolver(nil, 0)
	region := r.Resolve(context.TODO(), 28.62, 77.22, 2.5)
	assert.False(t, region.Exact())
	assert.True(t, region.Contains(28.62, 77.22))
}

// fixedClient returns a static polygon, for the provider-success path.
type fixedClient struct{ poly *geom.Polygon }

func (f fixedClient) Polygon(context.Context, float64, float64, float64) (*geom.Polygon, error) {
	return f.poly, nil
}

func TestResolver_ProviderPolygonPreferred(t *testing.T) {
	r := NewResolver(fixedClient{poly: squarePolygon(77.20, 28.60, 77.24, 28.64)}, 0)

	region := r.Resolve(context.TODO(), 28.62, 77.22, 1.0)
	assert.True(t, region.Exact())
	assert.True(t, region.Contains(28.62, 77.22))
}

func TestResolver_DegeneratePolygonFallsBack(t *testing.T) {
	r := NewResolver(fixedClient{poly: geom.NewPolygon(geom.XY)}, 0)

	region := r.Resolve(context.TODO(), 28.62, 77.22, 1.0)
	assert.False(t, region.Exact())
	assert.True(t, region.Contains(28.62, 77.22))
}

// countingClient records how often the provider is actually hit.
type countingClient struct {
	calls int
	poly  *geom.Polygon
	err   error
}

func (c *countingClient) Polygon(context.Context, float64, float64, float64) (*geom.Polygon, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.poly, nil
}

func TestResolver_CachesProviderRegions(t *testing.T) {
	client := &countingClient{poly: squarePolygon(77.20, 28.60, 77.24, 28.64)}
	r := NewResolver(client, 0)
	r.UseCache(cache.New(8, time.Minute))

	first := r.Resolve(context.TODO(), 28.62, 77.22, 1.0)
	second := r.Resolve(context.TODO(), 28.62, 77.22, 1.0)
	assert.True(t, first.Exact())
	assert.True(t, second.Exact())
	assert.Equal(t, 1, client.calls)

	// A different radius is a different catchment.
	r.Resolve(context.TODO(), 28.62, 77.22, 2.0)
	assert.Equal(t, 2, client.calls)
}

func TestResolver_ProviderFailuresNotCached(t *testing.T) {
	client := &countingClient{err: isochrone.ErrUnavailable}
	r := NewResolver(client, 0)
	r.UseCache(cache.New(8, time.Minute))

	first := r.Resolve(context.TODO(), 28.62, 77.22, 1.0)
	second := r.Resolve(context.TODO(), 28.62, 77.22, 1.0)
	assert.False(t, first.Exact())
	assert.False(t, second.Exact())

	// Each attempt retried the provider instead of caching the failure.
	assert.Equal(t, 2, client.calls)
}
