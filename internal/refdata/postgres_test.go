package refdata

import (
	"context"
	"fmt"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/siteselect/internal/catalog"
	"github.com/sells-group/siteselect/internal/catchment"
)

func areaColumns() []string {
	cols := append([]string{"name", "latitude", "longitude"}, criteriaColumns...)
	return append(cols, "geom")
}

func areaRow(rows *pgxmock.Rows, name string, lat, lng float64) *pgxmock.Rows {
	return areaRowWKT(rows, name, lat, lng, nil)
}

func areaRowWKT(rows *pgxmock.Rows, name string, lat, lng float64, boundary *string) *pgxmock.Rows {
	vals := []any{name, lat, lng}
	for range criteriaColumns {
		vals = append(vals, 5.0)
	}
	vals = append(vals, boundary)
	return rows.AddRow(vals...)
}

func TestPostgresSourceAreas(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows(areaColumns())
	areaRow(rows, "Riverside", 40.75, -73.98)
	areaRow(rows, "Old Town", 40.72, -73.95)

	mock.ExpectQuery(`SELECT name, latitude, longitude, .* FROM geo\.areas ORDER BY id`).
		WillReturnRows(rows)

	src := NewPostgresSource(mock)
	areas, err := src.Areas(context.Background())
	require.NoError(t, err)
	require.Len(t, areas, 2)

	assert.Equal(t, "Riverside", areas[0].Name)
	assert.Equal(t, 5.0, areas[0].Criteria[catalog.CriterionFootfall])
	assert.Len(t, areas[0].Criteria, len(criteriaColumns))
	assert.Nil(t, areas[0].Boundary)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSourceAreaBoundary(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	w := "POLYGON ((-74.02 40.69, -73.98 40.69, -73.98 40.72, -74.02 40.72, -74.02 40.69))"
	rows := pgxmock.NewRows(areaColumns())
	areaRowWKT(rows, "Harbor", 40.70, -74.00, &w)

	mock.ExpectQuery(`SELECT name, latitude, longitude, .*ST_AsText\(geom\) FROM geo\.areas ORDER BY id`).
		WillReturnRows(rows)

	src := NewPostgresSource(mock)
	areas, err := src.Areas(context.Background())
	require.NoError(t, err)
	require.Len(t, areas, 1)
	require.NotNil(t, areas[0].Boundary)

	// With a boundary attached the area region is the exact polygon, so the
	// distribution query pushes ST_Contains down instead of a bbox.
	region := areas[0].Region(1.5)
	assert.True(t, region.Exact())
	assert.True(t, region.Contains(40.70, -74.00))
	assert.False(t, region.Contains(40.80, -74.00))
}

func TestPostgresSourceAreaByName(t *testing.T) {
	t.Run("exact hit", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`WHERE LOWER\(name\) = LOWER\(\$1\)`).
			WithArgs("riverside").
			WillReturnRows(areaRow(pgxmock.NewRows(areaColumns()), "Riverside", 40.75, -73.98))

		src := NewPostgresSource(mock)
		a, err := src.AreaByName(context.Background(), "riverside")
		require.NoError(t, err)
		require.NotNil(t, a)
		assert.Equal(t, "Riverside", a.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("falls through to substring", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`WHERE LOWER\(name\) = LOWER\(\$1\)`).
			WithArgs("rivers").
			WillReturnRows(pgxmock.NewRows(areaColumns()))
		mock.ExpectQuery(`ILIKE '%' \|\| \$1 \|\| '%' ORDER BY LENGTH\(name\), id LIMIT 1`).
			WithArgs("rivers").
			WillReturnRows(areaRow(pgxmock.NewRows(areaColumns()), "Riverside", 40.75, -73.98))

		src := NewPostgresSource(mock)
		a, err := src.AreaByName(context.Background(), "rivers")
		require.NoError(t, err)
		require.NotNil(t, a)
		assert.Equal(t, "Riverside", a.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("miss returns nil without error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`WHERE LOWER\(name\) = LOWER\(\$1\)`).
			WithArgs("harbor").
			WillReturnRows(pgxmock.NewRows(areaColumns()))
		mock.ExpectQuery(`ILIKE '%' \|\| \$1 \|\| '%'`).
			WithArgs("harbor").
			WillReturnRows(pgxmock.NewRows(areaColumns()))

		src := NewPostgresSource(mock)
		a, err := src.AreaByName(context.Background(), "harbor")
		require.NoError(t, err)
		assert.Nil(t, a)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresSourceLocationFromPOIs(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	lat, lng := 40.7005, -74.0102
	mock.ExpectQuery(`SELECT AVG\(latitude\), AVG\(longitude\), COUNT\(\*\)`).
		WithArgs("blue bottle").
		WillReturnRows(pgxmock.NewRows([]string{"avg_lat", "avg_lng", "count"}).
			AddRow(&lat, &lng, 2))

	src := NewPostgresSource(mock)
	loc, err := src.LocationFromPOIs(context.Background(), "blue bottle")
	require.NoError(t, err)
	require.NotNil(t, loc)

	assert.Equal(t, "Blue Bottle", loc.Name)
	assert.Equal(t, 2, loc.POICount)
	assert.InDelta(t, lat, loc.Lat, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSourceCountByCategory(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	region := catchment.FallbackRegion(40.70, -74.01, 1.0)
	b := region.Bounds()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM geo\.pois WHERE super_category = ANY\(\$1\) AND longitude BETWEEN`).
		WithArgs([]string{string(catalog.CategoryFood)}, b.MinLng, b.MaxLng, b.MinLat, b.MaxLat).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(7))

	src := NewPostgresSource(mock)
	n, err := src.CountByCategory(context.Background(), region, []catalog.Category{catalog.CategoryFood})
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSourceDistribution(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	region := catchment.FallbackRegion(40.70, -74.01, 1.5)
	b := region.Bounds()

	mock.ExpectQuery(`SELECT super_category, COUNT\(\*\) FROM geo\.pois WHERE longitude BETWEEN .* GROUP BY super_category`).
		WithArgs(b.MinLng, b.MaxLng, b.MinLat, b.MaxLat).
		WillReturnRows(pgxmock.NewRows([]string{"super_category", "count"}).
			AddRow(string(catalog.CategoryFood), 12).
			AddRow(string(catalog.CategoryHealth), 3))

	src := NewPostgresSource(mock)
	dist, err := src.Distribution(context.Background(), region)
	require.NoError(t, err)
	assert.Equal(t, 15, dist.Total())
	assert.Equal(t, 12, dist[catalog.CategoryFood])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSourceCityDistribution(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT super_category, COUNT\(\*\) FROM geo\.pois GROUP BY super_category`).
		WillReturnRows(pgxmock.NewRows([]string{"super_category", "count"}).
			AddRow(string(catalog.CategoryFood), 40))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM geo\.areas`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(8))

	src := NewPostgresSource(mock)
	dist, areaCount, err := src.CityDistribution(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, areaCount)
	assert.Equal(t, 40, dist[catalog.CategoryFood])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSourceQueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FROM geo\.areas ORDER BY id`).
		WillReturnError(fmt.Errorf("connection refused"))

	src := NewPostgresSource(mock)
	_, err = src.Areas(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query areas")
}
