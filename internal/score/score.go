// Package score implements weighted area scoring, cross-candidate
// normalization, and composite ranking.
package score

import (
	"math"
	"sort"

	"github.com/sells-group/siteselect/internal/catalog"
	"github.com/sells-group/siteselect/internal/refdata"
)

// Composite weighting: the weighted criteria score dominates, with equal
// shares for competitive opportunity and complementary ecosystem.
const (
	weightAreaScore   = 0.60
	weightOpportunity = 0.20
	weightEcosystem   = 0.20
)

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 { return math.Round(v*100) / 100 }

// Round1 rounds to one decimal place, half away from zero.
func Round1(v float64) float64 { return math.Round(v*10) / 10 }

// ScoredArea is an area with its weighted criteria score for one category.
type ScoredArea struct {
	Area  refdata.Area `json:"-"`
	Name  string       `json:"area"`
	Score float64      `json:"area_score"`
}

// AreaScores computes the weighted score of every area for the category:
// the sum of raw criterion values times their percentage weights. Results are
// sorted descending; ties keep dataset order.
func AreaScores(areas []refdata.Area, cat *catalog.Catalog, category catalog.Category) []ScoredArea {
	weights := cat.Weights(category)

	scored := make([]ScoredArea, 0, len(areas))
	for _, a := range areas {
		var s float64
		for crit, w := range weights {
			s += a.Criteria[crit] * w / 100
		}
		scored = append(scored, ScoredArea{Area: a, Name: a.Name, Score: Round2(s)})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	return scored
}

// TopAreas returns the first n scored areas.
func TopAreas(scored []ScoredArea, n int) []ScoredArea {
	if len(scored) <= n {
		return scored
	}
	return scored[:n]
}

// Normalize min-max scales a value to 0-100 against the cohort. When every
// value is equal (or the cohort is empty) there is no spread to rank, so each
// candidate gets the midpoint 50. With inverse set, lower values score higher.
func Normalize(value float64, all []float64, inverse bool) float64 {
	if len(all) == 0 {
		return 50.0
	}

	minV, maxV := all[0], all[0]
	for _, v := range all[1:] {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	if maxV == minV {
		return 50.0
	}

	if inverse {
		return (maxV - value) / (maxV - minV) * 100
	}
	return (value - minV) / (maxV - minV) * 100
}

// Candidate is one area with its catchment counts, ready for ranking.
type Candidate struct {
	Area          refdata.Area
	AreaScore     float64
	Competitors   int
	Complementary int
}

// Ranked is a fully scored candidate.
type Ranked struct {
	Area             string             `json:"area"`
	AreaScore        float64            `json:"area_score"`
	Centroid         refdata.Centroid   `json:"centroid"`
	Competitors      int                `json:"competitors"`
	Complementary    int                `json:"complementary"`
	OpportunityScore float64            `json:"opportunity_score"`
	EcosystemScore   float64            `json:"ecosystem_score"`
	CompositeScore   float64            `json:"composite_score"`
}

// Rank normalizes the candidates' competitive and complementary counts across
// the cohort and combines them with the area score into a composite. The
// result is sorted by composite descending, then area score descending, then
// area name, so equal inputs always produce identical output.
func Rank(cands []Candidate) []Ranked {
	competitors := make([]float64, len(cands))
	complementary := make([]float64, len(cands))
	for i, c := range cands {
		competitors[i] = float64(c.Competitors)
		complementary[i] = float64(c.Complementary)
	}

	ranked := make([]Ranked, 0, len(cands))
	for i, c := range cands {
		opportunity := Round2(Normalize(competitors[i], competitors, true))
		ecosystem := Round2(Normalize(complementary[i], complementary, false))
		composite := Round2(c.AreaScore*weightAreaScore +
			opportunity*weightOpportunity +
			ecosystem*weightEcosystem)

		ranked = append(ranked, Ranked{
			Area:             c.Area.Name,
			AreaScore:        c.AreaScore,
			Centroid:         refdata.Centroid{Lat: c.Area.Lat, Lng: c.Area.Lng},
			Competitors:      c.Competitors,
			Complementary:    c.Complementary,
			OpportunityScore: opportunity,
			EcosystemScore:   ecosystem,
			CompositeScore:   composite,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].CompositeScore != ranked[j].CompositeScore {
			return ranked[i].CompositeScore > ranked[j].CompositeScore
		}
		if ranked[i].AreaScore != ranked[j].AreaScore {
			return ranked[i].AreaScore > ranked[j].AreaScore
		}
		return ranked[i].Area < ranked[j].Area
	})
	return ranked
}
