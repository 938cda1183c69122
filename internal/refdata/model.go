// Package refdata owns the read-only reference dataset: named areas with
// per-criterion raw values and optional boundary polygons, and the point-of-
// interest table counted for competition and complementary analysis. The
// dataset is loaded once and never mutated at request time.
package refdata

import (
	"github.com/twpayne/go-geom"

	"github.com/sells-group/siteselect/internal/catalog"
	"github.com/sells-group/siteselect/internal/catchment"
)

// Area is a named geographic region with a centroid, raw criteria values on a
// 0-100 scale, and an optional boundary polygon.
type Area struct {
	Name     string                         `json:"name"`
	Lat      float64                        `json:"lat"`
	Lng      float64                        `json:"lng"`
	Criteria map[catalog.Criterion]float64  `json:"criteria"`
	Boundary *geom.Polygon                  `json:"-"`
}

// Region returns the containment region for the area: the boundary polygon
// when one is attached, else a bounding box of defaultRadiusKM around the
// centroid.
func (a *Area) Region(defaultRadiusKM float64) catchment.Region {
	if a.Boundary != nil {
		if r, err := catchment.NewPolygonRegion(a.Boundary); err == nil {
			return r
		}
	}
	return catchment.FallbackRegion(a.Lat, a.Lng, defaultRadiusKM)
}

// Centroid is a bare coordinate pair used in API payloads.
type Centroid struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lon"`
}

// POI is a point of interest: the unit counted for competitive density.
type POI struct {
	Name     string           `json:"name"`
	Category string           `json:"category"`
	Super    catalog.Category `json:"super_category"`
	Lat      float64          `json:"lat"`
	Lng      float64          `json:"lng"`
}

// Distribution counts POIs per super-category within some region.
type Distribution map[catalog.Category]int

// Total returns the total POI count across all categories.
func (d Distribution) Total() int {
	var n int
	for _, c := range d {
		n += c
	}
	return n
}

// Location is a resolved place that is not a defined area: the centroid of
// POIs whose names matched a search term.
type Location struct {
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	POICount int     `json:"poi_count"`
}
