// Package catchment computes the containment region around a candidate
// centroid: a precise provider polygon when available, otherwise a
// deterministic bounding-box approximation derived from the radius.
package catchment

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// kmPerDegreeLat is the approximate north-south span of one degree of latitude.
const kmPerDegreeLat = 111.0

// BBox is a geographic bounding box.
type BBox struct {
	MinLng float64 `json:"min_lng"`
	MinLat float64 `json:"min_lat"`
	MaxLng float64 `json:"max_lng"`
	MaxLat float64 `json:"max_lat"`
}

// Contains reports whether the box contains the point.
func (b BBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// Region is the containment test for a single catchment. Exact regions use
// point-in-polygon; approximate regions use bounding-box membership.
type Region interface {
	Contains(lat, lng float64) bool
	Bounds() BBox
	Exact() bool
}

// PolygonRegion wraps a provider polygon for exact containment tests.
type PolygonRegion struct {
	poly   *geom.Polygon
	bounds BBox
}

// NewPolygonRegion validates and wraps a polygon. Coordinates are (lng, lat)
// per GeoJSON axis order.
func NewPolygonRegion(poly *geom.Polygon) (*PolygonRegion, error) {
	if poly == nil || poly.NumLinearRings() == 0 || len(poly.LinearRing(0).FlatCoords()) < 8 {
		return nil, eris.New("catchment: degenerate polygon")
	}
	b := poly.Bounds()
	return &PolygonRegion{
		poly: poly,
		bounds: BBox{
			MinLng: b.Min(0), MinLat: b.Min(1),
			MaxLng: b.Max(0), MaxLat: b.Max(1),
		},
	}, nil
}

// Contains implements Region using ray-crossing against the outer ring and
// every hole.
func (r *PolygonRegion) Contains(lat, lng float64) bool {
	if !r.bounds.Contains(lat, lng) {
		return false
	}
	pt := geom.Coord{lng, lat}
	layout := r.poly.Layout()
	if !xy.IsPointInRing(layout, pt, r.poly.LinearRing(0).FlatCoords()) {
		return false
	}
	for i := 1; i < r.poly.NumLinearRings(); i++ {
		if xy.IsPointInRing(layout, pt, r.poly.LinearRing(i).FlatCoords()) {
			return false
		}
	}
	return true
}

// Bounds implements Region.
func (r *PolygonRegion) Bounds() BBox { return r.bounds }

// Exact implements Region.
func (r *PolygonRegion) Exact() bool { return true }

// Polygon exposes the wrapped geometry so spatial stores can push exact
// containment down to the database.
func (r *PolygonRegion) Polygon() *geom.Polygon { return r.poly }

// BBoxRegion is the axis-aligned approximation used when no provider polygon
// is available.
type BBoxRegion struct {
	box BBox
}

// NewBBoxRegion wraps an explicit bounding box.
func NewBBoxRegion(box BBox) *BBoxRegion {
	return &BBoxRegion{box: box}
}

// FallbackRegion derives a bounding box purely from the centroid and radius.
// Longitude degrees shrink away from the equator, so the east-west span is
// corrected by cos(latitude); near the poles the correction is clamped to
// keep the box finite.
func FallbackRegion(lat, lng, radiusKM float64) *BBoxRegion {
	latDelta := radiusKM / kmPerDegreeLat

	cosLat := math.Abs(math.Cos(lat * math.Pi / 180))
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	lngDelta := radiusKM / (kmPerDegreeLat * cosLat)

	return &BBoxRegion{box: BBox{
		MinLng: lng - lngDelta,
		MinLat: lat - latDelta,
		MaxLng: lng + lngDelta,
		MaxLat: lat + latDelta,
	}}
}

// Contains implements Region.
func (r *BBoxRegion) Contains(lat, lng float64) bool { return r.box.Contains(lat, lng) }

// Bounds implements Region.
func (r *BBoxRegion) Bounds() BBox { return r.box }

// Exact implements Region.
func (r *BBoxRegion) Exact() bool { return false }
