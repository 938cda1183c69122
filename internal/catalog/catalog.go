// Package catalog holds the fixed business taxonomy: super-categories, the
// per-category criteria weight vectors used for area scoring, complementary
// category relationships, and concrete business examples. The catalog is
// immutable after construction and is injected into every component that
// scores or analyzes, so tests can swap in synthetic tables.
package catalog

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Category is a coarse business super-category. The set of valid values is
// fixed at deployment time; anything else maps to CategoryOther.
type Category string

// The thirteen super-categories.
const (
	CategoryAccommodation Category = "Accommodation & Lodging"
	CategoryEducation     Category = "Education & Training"
	CategoryEntertainment Category = "Entertainment & Leisure"
	CategoryFinancial     Category = "Financial & Legal Services"
	CategoryFitness       Category = "Fitness & Wellness"
	CategoryFood          Category = "Food & Beverages"
	CategoryGovernment    Category = "Government & Public Services"
	CategoryHealth        Category = "Health & Medical"
	CategoryOther         Category = "Other / Misc"
	CategoryParks         Category = "Parks & Outdoor Recreation"
	CategoryReligious     Category = "Religious & Spiritual Places"
	CategoryShopping      Category = "Shopping & Retail"
	CategoryTransport     Category = "Transport & Auto Services"
)

// Criterion names one of the ten scored area attributes. Values double as the
// keys used in config overrides and reference dataset columns.
type Criterion string

// The ten scoring criteria.
const (
	CriterionPopulationDensity Criterion = "population_density"
	CriterionFootfall          Criterion = "footfall"
	CriterionTransit           Criterion = "transit"
	CriterionTraffic           Criterion = "traffic"
	CriterionRentValue         Criterion = "rent_value"
	CriterionParking           Criterion = "parking"
	CriterionNightActivity     Criterion = "night_activity"
	CriterionWalkability       Criterion = "walkability"
	CriterionPOISynergy        Criterion = "poi_synergy"
	CriterionSafety            Criterion = "safety"
)

// Criteria returns all criteria in canonical order.
func Criteria() []Criterion {
	return []Criterion{
		CriterionPopulationDensity,
		CriterionFootfall,
		CriterionTransit,
		CriterionTraffic,
		CriterionRentValue,
		CriterionParking,
		CriterionNightActivity,
		CriterionWalkability,
		CriterionPOISynergy,
		CriterionSafety,
	}
}

// WeightVector maps each criterion to a non-negative weight, interpreted as a
// percentage of the criterion's raw 0-100 value. Weights for one category need
// not sum to exactly 100.
type WeightVector map[Criterion]float64

// Sum returns the total weight across all criteria.
func (v WeightVector) Sum() float64 {
	var s float64
	for _, w := range v {
		s += w
	}
	return s
}

// clone copies a weight vector so catalog internals stay immutable.
func (v WeightVector) clone() WeightVector {
	out := make(WeightVector, len(v))
	for k, w := range v {
		out[k] = w
	}
	return out
}

// Catalog is the immutable taxonomy configuration.
type Catalog struct {
	order         []Category
	weights       map[Category]WeightVector
	complementary map[Category][]Category
	anchors       map[Category][]Category
	examples      map[Category][]string
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return &Catalog{
		order:         defaultOrder,
		weights:       defaultWeights,
		complementary: defaultComplementary,
		anchors:       defaultAnchorComplements,
		examples:      defaultExamples,
	}
}

// override is the YAML shape accepted by Load. All sections are optional and
// merge over the built-in tables per category.
type override struct {
	Weights       map[Category]map[Criterion]float64 `yaml:"weights"`
	Complementary map[Category][]Category            `yaml:"complementary"`
	Anchors       map[Category][]Category            `yaml:"anchors"`
	Examples      map[Category][]string              `yaml:"examples"`
}

// Load builds a catalog from the defaults merged with a YAML override file.
// Unknown category keys in the override are rejected rather than silently
// extending the fixed enumeration.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: read override file")
	}

	var ov override
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return nil, eris.Wrap(err, "catalog: parse override file")
	}

	c := &Catalog{
		order:         defaultOrder,
		weights:       make(map[Category]WeightVector, len(defaultWeights)),
		complementary: make(map[Category][]Category, len(defaultComplementary)),
		anchors:       make(map[Category][]Category, len(defaultAnchorComplements)),
		examples:      make(map[Category][]string, len(defaultExamples)),
	}
	for cat, v := range defaultWeights {
		c.weights[cat] = v.clone()
	}
	for cat, list := range defaultComplementary {
		c.complementary[cat] = append([]Category(nil), list...)
	}
	for cat, list := range defaultAnchorComplements {
		c.anchors[cat] = append([]Category(nil), list...)
	}
	for cat, list := range defaultExamples {
		c.examples[cat] = append([]string(nil), list...)
	}

	for cat, w := range ov.Weights {
		if !c.IsValid(cat) {
			return nil, eris.Errorf("catalog: unknown category %q in weights override", cat)
		}
		vec := c.weights[cat]
		for crit, weight := range w {
			if weight < 0 {
				return nil, eris.Errorf("catalog: negative weight %.2f for %s/%s", weight, cat, crit)
			}
			vec[crit] = weight
		}
	}
	for cat, list := range ov.Complementary {
		if !c.IsValid(cat) {
			return nil, eris.Errorf("catalog: unknown category %q in complementary override", cat)
		}
		c.complementary[cat] = append([]Category(nil), list...)
	}
	for cat, list := range ov.Anchors {
		if !c.IsValid(cat) {
			return nil, eris.Errorf("catalog: unknown category %q in anchors override", cat)
		}
		c.anchors[cat] = append([]Category(nil), list...)
	}
	for cat, list := range ov.Examples {
		if !c.IsValid(cat) {
			return nil, eris.Errorf("catalog: unknown category %q in examples override", cat)
		}
		c.examples[cat] = append([]string(nil), list...)
	}

	return c, nil
}

// Categories returns all categories in canonical order.
func (c *Catalog) Categories() []Category {
	return append([]Category(nil), c.order...)
}

// IsValid reports whether cat is part of the fixed enumeration.
func (c *Catalog) IsValid(cat Category) bool {
	_, ok := c.weights[cat]
	return ok
}

// Normalize maps an unknown category to the fallback CategoryOther.
func (c *Catalog) Normalize(cat Category) Category {
	if c.IsValid(cat) {
		return cat
	}
	return CategoryOther
}

// Weights returns the weight vector for a category, falling back to the
// uniform CategoryOther vector for unknown categories.
func (c *Catalog) Weights(cat Category) WeightVector {
	if v, ok := c.weights[cat]; ok {
		return v
	}
	return c.weights[CategoryOther]
}

// Complementary returns the broad complementary list used for ecosystem
// counting during ranking.
func (c *Catalog) Complementary(cat Category) []Category {
	return c.complementary[c.Normalize(cat)]
}

// AnchorComplements returns the tighter co-occurrence list used by the gap
// analyzer when an anchor category dominates an area.
func (c *Catalog) AnchorComplements(cat Category) []Category {
	return c.anchors[c.Normalize(cat)]
}

// Examples returns concrete business ideas for a category, used to annotate
// recommendations.
func (c *Catalog) Examples(cat Category) []string {
	return c.examples[c.Normalize(cat)]
}
