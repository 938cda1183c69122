package refdata

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/siteselect/internal/catalog"
)

// normalizeHeader maps a dataset column header to its canonical key. Legacy
// exports prefix criteria columns with "Score_".
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.TrimPrefix(h, "score_")
}

// buildAreas converts a header row plus data rows into Areas. Required
// columns: name, latitude, longitude; every catalog criterion column is
// optional and defaults to 0.
func buildAreas(header []string, rows [][]string) ([]Area, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[normalizeHeader(h)] = i
	}
	for _, required := range []string{"name", "latitude", "longitude"} {
		if _, ok := idx[required]; !ok {
			return nil, eris.Errorf("refdata: dataset missing %q column", required)
		}
	}

	cell := func(row []string, key string) (string, bool) {
		i, ok := idx[key]
		if !ok || i >= len(row) {
			return "", false
		}
		return strings.TrimSpace(row[i]), true
	}

	var areas []Area
	for n, row := range rows {
		name, _ := cell(row, "name")
		if name == "" {
			continue
		}

		latStr, _ := cell(row, "latitude")
		lngStr, _ := cell(row, "longitude")
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return nil, eris.Wrapf(err, "refdata: row %d: bad latitude", n+2)
		}
		lng, err := strconv.ParseFloat(lngStr, 64)
		if err != nil {
			return nil, eris.Wrapf(err, "refdata: row %d: bad longitude", n+2)
		}

		criteria := make(map[catalog.Criterion]float64, len(catalog.Criteria()))
		for _, crit := range catalog.Criteria() {
			raw, ok := cell(row, string(crit))
			if !ok || raw == "" {
				criteria[crit] = 0
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, eris.Wrapf(err, "refdata: row %d: bad %s", n+2, crit)
			}
			criteria[crit] = v
		}

		areas = append(areas, Area{Name: name, Lat: lat, Lng: lng, Criteria: criteria})
	}

	return areas, nil
}

// LoadAreasCSV reads the area criteria dataset from a CSV file.
func LoadAreasCSV(path string) ([]Area, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "refdata: open areas CSV")
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "refdata: parse areas CSV")
	}
	if len(records) < 2 {
		return nil, eris.New("refdata: areas CSV has no data rows")
	}

	areas, err := buildAreas(records[0], records[1:])
	if err != nil {
		return nil, err
	}

	zap.L().Info("refdata: loaded areas", zap.String("path", path), zap.Int("areas", len(areas)))
	return areas, nil
}

// LoadAreasXLSX reads the area criteria dataset from the first sheet of an
// XLSX workbook.
func LoadAreasXLSX(path string) ([]Area, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "refdata: open areas XLSX")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("refdata: areas XLSX has no sheets")
	}

	sheet := f.Sheets[0]
	var rows [][]string
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, c := range row.Cells {
			cells[j] = c.String()
		}
		rows = append(rows, cells)
	}
	if len(rows) < 2 {
		return nil, eris.New("refdata: areas XLSX has no data rows")
	}

	areas, err := buildAreas(rows[0], rows[1:])
	if err != nil {
		return nil, err
	}

	zap.L().Info("refdata: loaded areas", zap.String("path", path), zap.Int("areas", len(areas)))
	return areas, nil
}

// LoadPOIsCSV reads the POI table from a CSV file with columns name,
// category, super_category, latitude, longitude. Unknown super-categories are
// normalized to the fallback category rather than rejected.
func LoadPOIsCSV(path string, cat *catalog.Catalog) ([]POI, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "refdata: open POIs CSV")
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "refdata: parse POIs CSV")
	}
	if len(records) < 2 {
		return nil, eris.New("refdata: POIs CSV has no data rows")
	}

	idx := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		idx[normalizeHeader(h)] = i
	}
	for _, required := range []string{"name", "super_category", "latitude", "longitude"} {
		if _, ok := idx[required]; !ok {
			return nil, eris.Errorf("refdata: POIs CSV missing %q column", required)
		}
	}

	var pois []POI
	var normalized int
	for n, row := range records[1:] {
		get := func(key string) string {
			i, ok := idx[key]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		lat, err := strconv.ParseFloat(get("latitude"), 64)
		if err != nil {
			return nil, eris.Wrapf(err, "refdata: POI row %d: bad latitude", n+2)
		}
		lng, err := strconv.ParseFloat(get("longitude"), 64)
		if err != nil {
			return nil, eris.Wrapf(err, "refdata: POI row %d: bad longitude", n+2)
		}

		super := catalog.Category(get("super_category"))
		if !cat.IsValid(super) {
			super = cat.Normalize(super)
			normalized++
		}

		pois = append(pois, POI{
			Name:     get("name"),
			Category: get("category"),
			Super:    super,
			Lat:      lat,
			Lng:      lng,
		})
	}

	zap.L().Info("refdata: loaded POIs",
		zap.String("path", path),
		zap.Int("pois", len(pois)),
		zap.Int("normalized_categories", normalized),
	)
	return pois, nil
}
