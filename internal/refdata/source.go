package refdata

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/siteselect/internal/catalog"
	"github.com/sells-group/siteselect/internal/catchment"
)

// Source is the reference-data provider contract. Implementations must give
// stable, consistent containment semantics (WGS84, lng=X, lat=Y) and a stable
// area order so scoring output is deterministic.
type Source interface {
	// Areas returns every defined area in dataset order.
	Areas(ctx context.Context) ([]Area, error)

	// AreaByName resolves an area by exact case-insensitive name, then by
	// substring match preferring the shortest matching name. Returns
	// (nil, nil) when nothing matches.
	AreaByName(ctx context.Context, name string) (*Area, error)

	// LocationFromPOIs resolves a place by POI name substring match,
	// returning the mean centroid of the matches. Returns (nil, nil) when
	// no POI matches.
	LocationFromPOIs(ctx context.Context, name string) (*Location, error)

	// CountByCategory counts POIs inside the region whose super-category is
	// in cats. Zero is a valid, meaningful count.
	CountByCategory(ctx context.Context, region catchment.Region, cats []catalog.Category) (int, error)

	// Distribution counts POIs inside the region per super-category.
	Distribution(ctx context.Context, region catchment.Region) (Distribution, error)

	// CityDistribution returns city-wide POI totals per super-category and
	// the number of defined areas, for per-area averaging.
	CityDistribution(ctx context.Context) (Distribution, int, error)

	// POIsByCategory returns the POIs of one super-category inside the
	// region, for cluster visualization.
	POIsByCategory(ctx context.Context, cat catalog.Category, region catchment.Region) ([]POI, error)
}

// titleCaser renders POI-derived location names in display form.
var titleCaser = cases.Title(language.English)

// MemorySource serves the reference dataset from memory. Iteration order is
// load order, which fixes stable-sort tie-breaking during scoring.
type MemorySource struct {
	areas []Area
	pois  []POI
}

// NewMemorySource creates a MemorySource over the given dataset. The slices
// are owned by the source afterwards and must not be mutated.
func NewMemorySource(areas []Area, pois []POI) *MemorySource {
	return &MemorySource{areas: areas, pois: pois}
}

// POIs returns the full POI table in load order. Used by the importer; not
// part of the Source contract.
func (s *MemorySource) POIs(_ context.Context) ([]POI, error) {
	out := make([]POI, len(s.pois))
	copy(out, s.pois)
	return out, nil
}

// Areas implements Source.
func (s *MemorySource) Areas(_ context.Context) ([]Area, error) {
	out := make([]Area, len(s.areas))
	copy(out, s.areas)
	return out, nil
}

// AreaByName implements Source.
func (s *MemorySource) AreaByName(_ context.Context, name string) (*Area, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, nil
	}

	for i := range s.areas {
		if strings.ToLower(s.areas[i].Name) == needle {
			a := s.areas[i]
			return &a, nil
		}
	}

	// Substring match, shortest name wins; earlier dataset order breaks ties.
	var best *Area
	for i := range s.areas {
		if !strings.Contains(strings.ToLower(s.areas[i].Name), needle) {
			continue
		}
		if best == nil || len(s.areas[i].Name) < len(best.Name) {
			best = &s.areas[i]
		}
	}
	if best == nil {
		return nil, nil
	}
	a := *best
	return &a, nil
}

// LocationFromPOIs implements Source.
func (s *MemorySource) LocationFromPOIs(_ context.Context, name string) (*Location, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, nil
	}

	var sumLat, sumLng float64
	var n int
	for i := range s.pois {
		if strings.Contains(strings.ToLower(s.pois[i].Name), needle) {
			sumLat += s.pois[i].Lat
			sumLng += s.pois[i].Lng
			n++
		}
	}
	if n == 0 {
		return nil, nil
	}

	return &Location{
		Name:     titleCaser.String(strings.TrimSpace(name)),
		Lat:      sumLat / float64(n),
		Lng:      sumLng / float64(n),
		POICount: n,
	}, nil
}

// CountByCategory implements Source.
func (s *MemorySource) CountByCategory(_ context.Context, region catchment.Region, cats []catalog.Category) (int, error) {
	if len(cats) == 0 {
		return 0, nil
	}
	want := make(map[catalog.Category]bool, len(cats))
	for _, c := range cats {
		want[c] = true
	}

	var n int
	for i := range s.pois {
		if want[s.pois[i].Super] && region.Contains(s.pois[i].Lat, s.pois[i].Lng) {
			n++
		}
	}
	return n, nil
}

// Distribution implements Source.
func (s *MemorySource) Distribution(_ context.Context, region catchment.Region) (Distribution, error) {
	dist := make(Distribution)
	for i := range s.pois {
		if region.Contains(s.pois[i].Lat, s.pois[i].Lng) {
			dist[s.pois[i].Super]++
		}
	}
	return dist, nil
}

// CityDistribution implements Source.
func (s *MemorySource) CityDistribution(_ context.Context) (Distribution, int, error) {
	dist := make(Distribution)
	for i := range s.pois {
		dist[s.pois[i].Super]++
	}
	return dist, len(s.areas), nil
}

// POIsByCategory implements Source.
func (s *MemorySource) POIsByCategory(_ context.Context, cat catalog.Category, region catchment.Region) ([]POI, error) {
	var out []POI
	for i := range s.pois {
		if s.pois[i].Super == cat && region.Contains(s.pois[i].Lat, s.pois[i].Lng) {
			out = append(out, s.pois[i])
		}
	}
	return out, nil
}
