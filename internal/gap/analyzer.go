// Package gap analyzes what businesses an area is missing: category gaps
// against the city-wide average and complementary opportunities next to the
// area's dominant anchors.
package gap

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/siteselect/internal/catalog"
	"github.com/sells-group/siteselect/internal/catchment"
	"github.com/sells-group/siteselect/internal/refdata"
	"github.com/sells-group/siteselect/internal/score"
)

// Analysis radii when no boundary polygon is available: defined areas get the
// wider catchment, POI-derived locations the tighter one.
const (
	areaRadiusKM     = 1.5
	locationRadiusKM = 1.0
)

// Thresholds for gap status and complementary opportunities.
const (
	underservedRatio = 0.5
	saturatedRatio   = 1.0
	anchorShare      = 5.0  // percent of area POIs that makes a category an anchor
	complementRatio  = 0.5  // complement counts below this share of the anchor are opportunities
)

// LocationNotFoundError reports that a name matched no area and no POIs.
type LocationNotFoundError struct {
	Name string
}

func (e *LocationNotFoundError) Error() string {
	return fmt.Sprintf("gap: could not find area or location %q", e.Name)
}

// EmptyResultError reports that a resolved location has no POIs to analyze.
type EmptyResultError struct {
	Name string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("gap: no business data found for %q", e.Name)
}

// Status classifies a category gap.
type Status string

const (
	StatusUnderserved Status = "underserved"
	StatusModerate    Status = "moderate"
	StatusSaturated   Status = "saturated"
)

// CategoryGap compares one category against the city average.
type CategoryGap struct {
	Category    catalog.Category `json:"category"`
	AreaCount   int              `json:"area_count"`
	CityAverage float64          `json:"city_average"`
	GapScore    float64          `json:"gap_score"`
	Status      Status           `json:"status"`
}

// Opportunity is a complementary category underrepresented next to an anchor.
type Opportunity struct {
	Category catalog.Category `json:"category"`
	Reason   string           `json:"reason"`
	Existing int              `json:"existing_complementary"`
	Score    float64          `json:"opportunity_score"`
}

// Recommendation is one entry of the merged shortlist.
type Recommendation struct {
	Rank     int              `json:"rank"`
	Category catalog.Category `json:"category"`
	Reason   string           `json:"reason"`
	Score    float64          `json:"score"`
	Examples []string         `json:"examples"`
	Type     string           `json:"type"` // "gap" or "complementary"
}

// DominantCategory is one of the area's largest existing categories.
type DominantCategory struct {
	Category catalog.Category `json:"category"`
	Count    int              `json:"count"`
}

// Result is the full area analysis.
type Result struct {
	Area            string             `json:"area"`
	Centroid        refdata.Centroid   `json:"centroid"`
	Source          string             `json:"location_source"` // "area" or "poi"
	TotalPOIs       int                `json:"total_pois"`
	Dominant        []DominantCategory `json:"dominant_categories"`
	Recommendations []Recommendation   `json:"recommendations"`
	Gaps            []CategoryGap      `json:"gap_analysis"`
	Opportunities   []Opportunity      `json:"complementary_opportunities"`
	Message         string             `json:"message"`
}

// Analyzer runs area opportunity analysis against a reference-data source.
type Analyzer struct {
	cat *catalog.Catalog
	src refdata.Source
}

// NewAnalyzer wires an Analyzer.
func NewAnalyzer(cat *catalog.Catalog, src refdata.Source) *Analyzer {
	return &Analyzer{cat: cat, src: src}
}

// Analyze resolves the name (defined area first, then POI-derived location),
// builds the local category distribution, and derives gaps, complementary
// opportunities, and the merged recommendation shortlist.
func (a *Analyzer) Analyze(ctx context.Context, name string) (*Result, error) {
	res := &Result{Source: "area"}
	var dist refdata.Distribution

	area, err := a.src.AreaByName(ctx, name)
	if err != nil {
		return nil, eris.Wrap(err, "gap: resolve area")
	}
	if area != nil {
		res.Area = area.Name
		res.Centroid = refdata.Centroid{Lat: area.Lat, Lng: area.Lng}
		dist, err = a.src.Distribution(ctx, area.Region(areaRadiusKM))
		if err != nil {
			return nil, eris.Wrap(err, "gap: area distribution")
		}
	} else {
		loc, err := a.src.LocationFromPOIs(ctx, name)
		if err != nil {
			return nil, eris.Wrap(err, "gap: resolve location")
		}
		if loc == nil {
			return nil, &LocationNotFoundError{Name: name}
		}
		res.Area = loc.Name
		res.Centroid = refdata.Centroid{Lat: loc.Lat, Lng: loc.Lng}
		res.Source = "poi"
		dist, err = a.src.Distribution(ctx, catchment.FallbackRegion(loc.Lat, loc.Lng, locationRadiusKM))
		if err != nil {
			return nil, eris.Wrap(err, "gap: location distribution")
		}
	}

	res.TotalPOIs = dist.Total()
	if res.TotalPOIs == 0 {
		return nil, &EmptyResultError{Name: res.Area}
	}

	cityDist, areaCount, err := a.src.CityDistribution(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "gap: city distribution")
	}
	if areaCount == 0 {
		areaCount = 1
	}

	cityAverage := make(map[catalog.Category]float64, len(cityDist))
	for cat, total := range cityDist {
		cityAverage[cat] = float64(total) / float64(areaCount)
	}

	gaps := analyzeGaps(dist, cityAverage)
	opportunities := a.analyzeComplementary(dist)

	res.Gaps = capGaps(gaps, 5)
	res.Opportunities = opportunities
	res.Dominant = dominantCategories(dist, 3)
	res.Recommendations = a.mergeRecommendations(gaps, opportunities)
	res.Message = renderMessage(res)

	zap.L().Info("gap: analyzed area",
		zap.String("area", res.Area),
		zap.String("source", res.Source),
		zap.Int("total_pois", res.TotalPOIs),
		zap.Int("recommendations", len(res.Recommendations)),
	)
	return res, nil
}

// analyzeGaps scores every category with a city average against the local
// count. Higher scores mean bigger gaps.
func analyzeGaps(dist refdata.Distribution, cityAverage map[catalog.Category]float64) []CategoryGap {
	cats := make([]catalog.Category, 0, len(cityAverage))
	for cat := range cityAverage {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })

	var gaps []CategoryGap
	for _, cat := range cats {
		avg := cityAverage[cat]
		if avg <= 0 {
			continue
		}
		ratio := float64(dist[cat]) / avg

		status := StatusSaturated
		switch {
		case ratio < underservedRatio:
			status = StatusUnderserved
		case ratio < saturatedRatio:
			status = StatusModerate
		}

		gaps = append(gaps, CategoryGap{
			Category:    cat,
			AreaCount:   dist[cat],
			CityAverage: score.Round1(avg),
			GapScore:    score.Round1(max(0, 100-ratio*100)),
			Status:      status,
		})
	}

	sort.SliceStable(gaps, func(i, j int) bool { return gaps[i].GapScore > gaps[j].GapScore })
	return gaps
}

// analyzeComplementary finds underrepresented complements of the area's
// anchor categories: any category above the share threshold whose complements
// count less than half of it.
func (a *Analyzer) analyzeComplementary(dist refdata.Distribution) []Opportunity {
	total := dist.Total()
	if total == 0 {
		return nil
	}

	anchors := make([]catalog.Category, 0, len(dist))
	for cat := range dist {
		anchors = append(anchors, cat)
	}
	sort.Slice(anchors, func(i, j int) bool { return anchors[i] < anchors[j] })

	var opportunities []Opportunity
	for _, anchor := range anchors {
		count := dist[anchor]
		share := float64(count) / float64(total) * 100
		if share <= anchorShare {
			continue
		}

		for _, comp := range a.cat.AnchorComplements(anchor) {
			existing := dist[comp]
			if float64(existing) >= float64(count)*complementRatio {
				continue
			}
			opportunities = append(opportunities, Opportunity{
				Category: comp,
				Reason:   fmt.Sprintf("Complements existing %s businesses (%d POIs)", anchor, count),
				Existing: existing,
				Score:    score.Round1(100 - float64(existing)/float64(max(count, 1))*100),
			})
		}
	}

	// Keep the best-scoring entry per category, cap at five.
	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].Score > opportunities[j].Score
	})
	seen := make(map[catalog.Category]bool)
	unique := opportunities[:0]
	for _, opp := range opportunities {
		if seen[opp.Category] {
			continue
		}
		seen[opp.Category] = true
		unique = append(unique, opp)
		if len(unique) == 5 {
			break
		}
	}
	return unique
}

// mergeRecommendations builds the shortlist: up to three actionable gaps,
// topped up with complementary opportunities, five entries total, deduplicated
// by category.
func (a *Analyzer) mergeRecommendations(gaps []CategoryGap, opportunities []Opportunity) []Recommendation {
	var recs []Recommendation
	seen := make(map[catalog.Category]bool)

	for _, g := range capGaps(gaps, 3) {
		if seen[g.Category] || (g.Status != StatusUnderserved && g.Status != StatusModerate) {
			continue
		}
		seen[g.Category] = true
		recs = append(recs, Recommendation{
			Rank:     len(recs) + 1,
			Category: g.Category,
			Reason:   fmt.Sprintf("Gap opportunity - only %d vs %.1f city average", g.AreaCount, g.CityAverage),
			Score:    g.GapScore,
			Examples: capExamples(a.cat.Examples(g.Category), 4),
			Type:     "gap",
		})
	}

	for _, opp := range opportunities {
		if seen[opp.Category] || len(recs) >= 5 {
			continue
		}
		seen[opp.Category] = true
		recs = append(recs, Recommendation{
			Rank:     len(recs) + 1,
			Category: opp.Category,
			Reason:   opp.Reason,
			Score:    opp.Score,
			Examples: capExamples(a.cat.Examples(opp.Category), 4),
			Type:     "complementary",
		})
	}

	return recs
}

// dominantCategories returns the area's n largest categories, ties broken by
// name for stable output.
func dominantCategories(dist refdata.Distribution, n int) []DominantCategory {
	out := make([]DominantCategory, 0, len(dist))
	for cat, count := range dist {
		out = append(out, DominantCategory{Category: cat, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func capGaps(gaps []CategoryGap, n int) []CategoryGap {
	if len(gaps) > n {
		return gaps[:n]
	}
	return gaps
}

func capExamples(examples []string, n int) []string {
	if len(examples) > n {
		return examples[:n]
	}
	return examples
}

// renderMessage formats the analysis as markdown for chat-style consumers.
func renderMessage(res *Result) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "## Business Opportunities in %s\n\n", res.Area)
	fmt.Fprintf(&sb, "**Area Overview:** %d total businesses\n\n", res.TotalPOIs)

	sb.WriteString("**Existing Business Landscape:**\n")
	for _, d := range res.Dominant {
		fmt.Fprintf(&sb, "- %s: %d businesses\n", d.Category, d.Count)
	}
	sb.WriteString("\n### Top Recommended Business Categories\n\n")

	for _, rec := range res.Recommendations {
		fmt.Fprintf(&sb, "**%d. %s**\n", rec.Rank, rec.Category)
		fmt.Fprintf(&sb, "   - *%s*\n", rec.Reason)
		fmt.Fprintf(&sb, "   - **Ideas:** %s\n\n", strings.Join(rec.Examples, ", "))
	}

	return sb.String()
}
