package refdata

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"

	"github.com/sells-group/siteselect/internal/catalog"
	"github.com/sells-group/siteselect/internal/catchment"
	"github.com/sells-group/siteselect/internal/db"
)

// criteriaColumns lists the area criteria columns in canonical order. Column
// names match catalog criterion names exactly.
var criteriaColumns = []string{
	"population_density", "footfall", "transit", "traffic", "rent_value",
	"parking", "night_activity", "walkability", "poi_synergy", "safety",
}

// PostgresSource serves the reference dataset from PostGIS tables geo.areas
// and geo.pois (SRID 4326, lng=X, lat=Y).
type PostgresSource struct {
	pool db.Pool
}

// NewPostgresSource creates a PostgresSource over the given pool.
func NewPostgresSource(pool db.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

// areaSelect is the column list shared by every area query. The boundary
// polygon travels as WKT so gap analysis gets exact containment regions.
var areaSelect = fmt.Sprintf(
	"SELECT name, latitude, longitude, %s, ST_AsText(geom) FROM geo.areas",
	strings.Join(criteriaColumns, ", "),
)

// scanArea reads one area row: name, lat, lng, the criteria columns, then the
// nullable boundary WKT.
func scanArea(row pgx.Row) (*Area, error) {
	var a Area
	var boundary *string
	vals := make([]float64, len(criteriaColumns))
	dest := []any{&a.Name, &a.Lat, &a.Lng}
	for i := range vals {
		dest = append(dest, &vals[i])
	}
	dest = append(dest, &boundary)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	a.Criteria = make(map[catalog.Criterion]float64, len(criteriaColumns))
	for i, col := range criteriaColumns {
		a.Criteria[catalog.Criterion(col)] = vals[i]
	}

	if boundary != nil && *boundary != "" {
		g, err := wkt.Unmarshal(*boundary)
		if err != nil {
			return nil, eris.Wrapf(err, "refdata: parse boundary WKT for %s", a.Name)
		}
		if poly, ok := g.(*geom.Polygon); ok {
			a.Boundary = poly
		}
	}
	return &a, nil
}

// Areas implements Source.
func (s *PostgresSource) Areas(ctx context.Context) ([]Area, error) {
	rows, err := s.pool.Query(ctx, areaSelect+" ORDER BY id")
	if err != nil {
		return nil, eris.Wrap(err, "refdata: query areas")
	}
	defer rows.Close()

	var areas []Area
	for rows.Next() {
		a, err := scanArea(rows)
		if err != nil {
			return nil, eris.Wrap(err, "refdata: scan area row")
		}
		areas = append(areas, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "refdata: iterate area rows")
	}
	return areas, nil
}

// AreaByName implements Source: exact match first, then substring preferring
// the shortest matching name.
func (s *PostgresSource) AreaByName(ctx context.Context, name string) (*Area, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	a, err := scanArea(s.pool.QueryRow(ctx,
		areaSelect+" WHERE LOWER(name) = LOWER($1) LIMIT 1", name))
	if err == nil {
		return a, nil
	}
	if !eris.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrap(err, "refdata: area exact lookup")
	}

	a, err = scanArea(s.pool.QueryRow(ctx,
		areaSelect+" WHERE name ILIKE '%' || $1 || '%' ORDER BY LENGTH(name), id LIMIT 1", name))
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "refdata: area substring lookup")
	}
	return a, nil
}

// LocationFromPOIs implements Source.
func (s *PostgresSource) LocationFromPOIs(ctx context.Context, name string) (*Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	var lat, lng *float64
	var count int
	err := s.pool.QueryRow(ctx, `
		SELECT AVG(latitude), AVG(longitude), COUNT(*)
		FROM geo.pois
		WHERE name ILIKE '%' || $1 || '%'`,
		name,
	).Scan(&lat, &lng, &count)
	if err != nil {
		return nil, eris.Wrap(err, "refdata: location from POIs")
	}
	if count == 0 || lat == nil || lng == nil {
		return nil, nil
	}

	return &Location{
		Name:     titleCaser.String(name),
		Lat:      *lat,
		Lng:      *lng,
		POICount: count,
	}, nil
}

// regionClause builds the containment predicate for a region: ST_Contains for
// exact polygon regions, coordinate BETWEEN for bbox approximations. argIdx is
// the first free placeholder index.
func regionClause(region catchment.Region, argIdx int) (string, []any, error) {
	if pr, ok := region.(*catchment.PolygonRegion); ok && region.Exact() {
		w, err := wkt.Marshal(pr.Polygon())
		if err != nil {
			return "", nil, eris.Wrap(err, "refdata: marshal region WKT")
		}
		return fmt.Sprintf("ST_Contains(ST_GeomFromText($%d, 4326), geom)", argIdx), []any{w}, nil
	}

	b := region.Bounds()
	clause := fmt.Sprintf(
		"longitude BETWEEN $%d AND $%d AND latitude BETWEEN $%d AND $%d",
		argIdx, argIdx+1, argIdx+2, argIdx+3,
	)
	return clause, []any{b.MinLng, b.MaxLng, b.MinLat, b.MaxLat}, nil
}

// CountByCategory implements Source.
func (s *PostgresSource) CountByCategory(ctx context.Context, region catchment.Region, cats []catalog.Category) (int, error) {
	if len(cats) == 0 {
		return 0, nil
	}

	clause, args, err := regionClause(region, 2)
	if err != nil {
		return 0, err
	}

	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = string(c)
	}

	var count int
	query := "SELECT COUNT(*) FROM geo.pois WHERE super_category = ANY($1) AND " + clause
	if err := s.pool.QueryRow(ctx, query, append([]any{names}, args...)...).Scan(&count); err != nil {
		return 0, eris.Wrap(err, "refdata: count by category")
	}
	return count, nil
}

// Distribution implements Source.
func (s *PostgresSource) Distribution(ctx context.Context, region catchment.Region) (Distribution, error) {
	clause, args, err := regionClause(region, 1)
	if err != nil {
		return nil, err
	}

	query := "SELECT super_category, COUNT(*) FROM geo.pois WHERE " + clause +
		" GROUP BY super_category ORDER BY COUNT(*) DESC"
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "refdata: query distribution")
	}
	defer rows.Close()

	dist := make(Distribution)
	for rows.Next() {
		var cat string
		var count int
		if err := rows.Scan(&cat, &count); err != nil {
			return nil, eris.Wrap(err, "refdata: scan distribution row")
		}
		dist[catalog.Category(cat)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "refdata: iterate distribution rows")
	}
	return dist, nil
}

// CityDistribution implements Source.
func (s *PostgresSource) CityDistribution(ctx context.Context) (Distribution, int, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT super_category, COUNT(*) FROM geo.pois GROUP BY super_category")
	if err != nil {
		return nil, 0, eris.Wrap(err, "refdata: query city distribution")
	}
	defer rows.Close()

	dist := make(Distribution)
	for rows.Next() {
		var cat string
		var count int
		if err := rows.Scan(&cat, &count); err != nil {
			return nil, 0, eris.Wrap(err, "refdata: scan city distribution row")
		}
		dist[catalog.Category(cat)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, 0, eris.Wrap(err, "refdata: iterate city distribution rows")
	}

	var areaCount int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM geo.areas").Scan(&areaCount); err != nil {
		return nil, 0, eris.Wrap(err, "refdata: count areas")
	}
	return dist, areaCount, nil
}

// POIsByCategory implements Source.
func (s *PostgresSource) POIsByCategory(ctx context.Context, cat catalog.Category, region catchment.Region) ([]POI, error) {
	clause, args, err := regionClause(region, 2)
	if err != nil {
		return nil, err
	}

	query := "SELECT name, category, super_category, latitude, longitude FROM geo.pois WHERE super_category = $1 AND " +
		clause + " ORDER BY id"
	rows, err := s.pool.Query(ctx, query, append([]any{string(cat)}, args...)...)
	if err != nil {
		return nil, eris.Wrap(err, "refdata: query POIs by category")
	}
	defer rows.Close()

	var pois []POI
	for rows.Next() {
		var p POI
		var super string
		if err := rows.Scan(&p.Name, &p.Category, &super, &p.Lat, &p.Lng); err != nil {
			return nil, eris.Wrap(err, "refdata: scan POI row")
		}
		p.Super = catalog.Category(super)
		pois = append(pois, p)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "refdata: iterate POI rows")
	}
	return pois, nil
}
