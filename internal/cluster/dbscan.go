// Package cluster detects spatial concentrations of points with
// density-based clustering over great-circle distance.
package cluster

import (
	"math"
)

// earthRadiusKM is the mean Earth radius used by the haversine metric.
const earthRadiusKM = 6371.0088

// Point is a geographic coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lon"`
}

// Cluster is one detected concentration. IDs are assigned in discovery order.
type Cluster struct {
	ID       int     `json:"cluster_id"`
	Centroid Point   `json:"centroid"`
	Count    int     `json:"count"`
	Points   []Point `json:"points"`
}

// Result separates clustered points from noise.
type Result struct {
	Clusters []Cluster `json:"clusters"`
	Noise    []Point   `json:"noise"`
}

// HaversineKM returns the great-circle distance between two points.
func HaversineKM(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := lat2 - lat1
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKM * math.Asin(math.Sqrt(h))
}

const (
	labelUnvisited = -2
	labelNoise     = -1
)

// DBSCAN clusters points by density: a point with at least minSamples
// neighbors (itself included) within epsKM kilometers seeds a cluster, which
// expands transitively through every dense neighbor. Points reachable from no
// dense point are noise. Empty input yields empty clusters and empty noise.
func DBSCAN(points []Point, epsKM float64, minSamples int) Result {
	result := Result{Clusters: []Cluster{}, Noise: []Point{}}
	if len(points) == 0 {
		return result
	}

	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = labelUnvisited
	}

	neighbors := func(i int) []int {
		var out []int
		for j := range points {
			if HaversineKM(points[i], points[j]) <= epsKM {
				out = append(out, j)
			}
		}
		return out
	}

	var nextID int
	for i := range points {
		if labels[i] != labelUnvisited {
			continue
		}

		seed := neighbors(i)
		if len(seed) < minSamples {
			labels[i] = labelNoise
			continue
		}

		id := nextID
		nextID++
		labels[i] = id

		// Expand: dense members contribute their own neighborhoods; sparse
		// members join the cluster but do not extend it.
		queue := seed
		for k := 0; k < len(queue); k++ {
			j := queue[k]
			if labels[j] == labelNoise {
				labels[j] = id
			}
			if labels[j] != labelUnvisited {
				continue
			}
			labels[j] = id

			reach := neighbors(j)
			if len(reach) >= minSamples {
				queue = append(queue, reach...)
			}
		}
	}

	members := make([][]Point, nextID)
	for i, label := range labels {
		if label == labelNoise {
			result.Noise = append(result.Noise, points[i])
			continue
		}
		members[label] = append(members[label], points[i])
	}

	for id, pts := range members {
		var sumLat, sumLng float64
		for _, p := range pts {
			sumLat += p.Lat
			sumLng += p.Lng
		}
		n := float64(len(pts))
		result.Clusters = append(result.Clusters, Cluster{
			ID:       id,
			Centroid: Point{Lat: sumLat / n, Lng: sumLng / n},
			Count:    len(pts),
			Points:   pts,
		})
	}

	return result
}
