package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_AllCategoriesHaveFullVectors(t *testing.T) {
	c := Default()

	cats := c.Categories()
	assert.Len(t, cats, 13)

	for _, cat := range cats {
		vec := c.Weights(cat)
		require.Len(t, vec, len(Criteria()), "category %s", cat)
		for crit, w := range vec {
			assert.GreaterOrEqual(t, w, 0.0, "%s/%s", cat, crit)
		}
		// Vectors are tuned per category and do not all sum to exactly 100;
		// the lowest (Government & Public Services) totals 88.
		assert.InDelta(t, 100.0, vec.Sum(), 15.0, "category %s", cat)
	}
}

func TestNormalize_UnknownFallsBackToOther(t *testing.T) {
	c := Default()

	assert.Equal(t, CategoryOther, c.Normalize("Spaceports"))
	assert.Equal(t, CategoryFood, c.Normalize(CategoryFood))

	// Unknown categories score with the uniform fallback vector.
	vec := c.Weights("Spaceports")
	assert.Equal(t, c.Weights(CategoryOther), vec)
	for _, w := range vec {
		assert.InDelta(t, 9.09, w, 0.001)
	}
}

func TestComplementary_TablesClosedOverEnumeration(t *testing.T) {
	c := Default()

	for _, cat := range c.Categories() {
		for _, comp := range c.Complementary(cat) {
			assert.True(t, c.IsValid(comp), "%s lists unknown complementary %s", cat, comp)
			assert.NotEqual(t, cat, comp, "%s lists itself as complementary", cat)
		}
		for _, comp := range c.AnchorComplements(cat) {
			assert.True(t, c.IsValid(comp), "%s lists unknown anchor complement %s", cat, comp)
		}
		assert.NotEmpty(t, c.Examples(cat), "category %s has no business examples", cat)
	}
}

func TestLoad_OverrideMergesWeights(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	yaml := `
weights:
  "Food & Beverages":
    footfall: 40
complementary:
  "Food & Beverages": ["Shopping & Retail"]
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	vec := c.Weights(CategoryFood)
	assert.Equal(t, 40.0, vec[CriterionFootfall])
	// Untouched criteria keep their defaults.
	assert.Equal(t, 20.0, vec[CriterionPopulationDensity])
	assert.Equal(t, []Category{CategoryShopping}, c.Complementary(CategoryFood))

	// Defaults themselves must not be mutated by the merge.
	assert.Equal(t, 30.0, Default().Weights(CategoryFood)[CriterionFootfall])
}

func TestLoad_RejectsUnknownCategoryAndNegativeWeight(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("weights:\n  \"Spaceports\":\n    footfall: 10\n"), 0o644))
	_, err := Load(bad)
	assert.Error(t, err)

	neg := filepath.Join(dir, "neg.yaml")
	require.NoError(t, os.WriteFile(neg, []byte("weights:\n  \"Food & Beverages\":\n    footfall: -1\n"), 0o644))
	_, err = Load(neg)
	assert.Error(t, err)
}
