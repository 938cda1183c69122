package refdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/siteselect/internal/catalog"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAreasCSV(t *testing.T) {
	path := writeTemp(t, "areas.csv",
		"Name,Latitude,Longitude,Score_Population_Density,Score_Footfall,walkability\n"+
			"Riverside,40.75,-73.98,8.5,7,6.25\n"+
			",1,1,0,0,0\n"+
			"Old Town,40.72,-73.95,,3,\n")

	areas, err := LoadAreasCSV(path)
	require.NoError(t, err)
	require.Len(t, areas, 2)

	assert.Equal(t, "Riverside", areas[0].Name)
	assert.InDelta(t, 40.75, areas[0].Lat, 1e-9)
	assert.Equal(t, 8.5, areas[0].Criteria[catalog.CriterionPopulationDensity])
	assert.Equal(t, 6.25, areas[0].Criteria[catalog.CriterionWalkability])

	// Absent and blank criteria columns default to zero.
	assert.Zero(t, areas[0].Criteria[catalog.CriterionSafety])
	assert.Zero(t, areas[1].Criteria[catalog.CriterionPopulationDensity])
	assert.Equal(t, 3.0, areas[1].Criteria[catalog.CriterionFootfall])
	assert.Len(t, areas[1].Criteria, len(catalog.Criteria()))
}

func TestLoadAreasCSVMissingColumn(t *testing.T) {
	path := writeTemp(t, "areas.csv", "name,latitude\nRiverside,40.75\n")

	_, err := LoadAreasCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing "longitude"`)
}

func TestLoadAreasCSVBadCoordinate(t *testing.T) {
	path := writeTemp(t, "areas.csv", "name,latitude,longitude\nRiverside,north,-73.98\n")

	_, err := LoadAreasCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad latitude")
}

func TestLoadPOIsCSV(t *testing.T) {
	cat := catalog.Default()
	path := writeTemp(t, "pois.csv",
		"name,category,super_category,latitude,longitude\n"+
			"blue bottle coffee,cafe,Food & Beverages,40.7005,-74.0102\n"+
			"mystery venue,unknown,Nightlife,40.7008,-74.0099\n")

	pois, err := LoadPOIsCSV(path, cat)
	require.NoError(t, err)
	require.Len(t, pois, 2)

	assert.Equal(t, catalog.CategoryFood, pois[0].Super)
	assert.Equal(t, "cafe", pois[0].Category)

	// Unknown super-categories land in the fallback bucket.
	assert.Equal(t, catalog.CategoryOther, pois[1].Super)
}

func TestLoadPOIsCSVMissingColumn(t *testing.T) {
	cat := catalog.Default()
	path := writeTemp(t, "pois.csv", "name,latitude,longitude\nx,1,2\n")

	_, err := LoadPOIsCSV(path, cat)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing "super_category"`)
}
