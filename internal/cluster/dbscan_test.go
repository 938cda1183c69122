package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversineKM(t *testing.T) {
	// One degree of latitude is about 111 km.
	d := HaversineKM(Point{Lat: 40, Lng: -74}, Point{Lat: 41, Lng: -74})
	assert.InDelta(t, 111.2, d, 0.5)

	assert.Zero(t, HaversineKM(Point{Lat: 40, Lng: -74}, Point{Lat: 40, Lng: -74}))
}

// offsetKM shifts a point north by roughly the given distance.
func offsetKM(p Point, km float64) Point {
	return Point{Lat: p.Lat + km/111.2, Lng: p.Lng}
}

func TestDBSCANTwoGroups(t *testing.T) {
	a := Point{Lat: 40.7000, Lng: -74.0000}
	b := Point{Lat: 40.8000, Lng: -73.9000} // ~14 km away

	points := []Point{
		a, offsetKM(a, 0.05), offsetKM(a, 0.10),
		b, offsetKM(b, 0.05), offsetKM(b, 0.10),
	}

	res := DBSCAN(points, 0.5, 3)
	require.Len(t, res.Clusters, 2)
	assert.Empty(t, res.Noise)

	// IDs follow discovery order: the group containing the first point is 0.
	assert.Equal(t, 0, res.Clusters[0].ID)
	assert.Equal(t, 3, res.Clusters[0].Count)
	assert.Equal(t, 1, res.Clusters[1].ID)
	assert.Equal(t, 3, res.Clusters[1].Count)

	assert.InDelta(t, a.Lat+0.05/111.2, res.Clusters[0].Centroid.Lat, 1e-6)
	assert.InDelta(t, a.Lng, res.Clusters[0].Centroid.Lng, 1e-9)
}

func TestDBSCANNoise(t *testing.T) {
	a := Point{Lat: 40.7000, Lng: -74.0000}
	lone := Point{Lat: 40.9000, Lng: -73.5000}

	points := []Point{a, offsetKM(a, 0.05), offsetKM(a, 0.10), lone}

	res := DBSCAN(points, 0.5, 3)
	require.Len(t, res.Clusters, 1)
	require.Len(t, res.Noise, 1)
	assert.Equal(t, lone, res.Noise[0])
}

func TestDBSCANMinSamplesIncludesSelf(t *testing.T) {
	a := Point{Lat: 40.7000, Lng: -74.0000}
	pair := []Point{a, offsetKM(a, 0.05)}

	// Two mutual neighbors meet minSamples=2 but not 3.
	res := DBSCAN(pair, 0.5, 2)
	require.Len(t, res.Clusters, 1)
	assert.Equal(t, 2, res.Clusters[0].Count)

	res = DBSCAN(pair, 0.5, 3)
	assert.Empty(t, res.Clusters)
	assert.Len(t, res.Noise, 2)
}

func TestDBSCANChainedExpansion(t *testing.T) {
	// A string of points each within eps of the next but not of the far end.
	start := Point{Lat: 40.7000, Lng: -74.0000}
	points := []Point{
		start,
		offsetKM(start, 0.4),
		offsetKM(start, 0.8),
		offsetKM(start, 1.2),
	}

	res := DBSCAN(points, 0.5, 2)
	require.Len(t, res.Clusters, 1)
	assert.Equal(t, 4, res.Clusters[0].Count)
	assert.Empty(t, res.Noise)
}

func TestDBSCANEmptyInput(t *testing.T) {
	res := DBSCAN(nil, 0.5, 3)
	assert.NotNil(t, res.Clusters)
	assert.NotNil(t, res.Noise)
	assert.Empty(t, res.Clusters)
	assert.Empty(t, res.Noise)
}
