package refdata

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// AttachBoundaries reads area boundary polygons from a shapefile and attaches
// them to matching areas in place, matched case-insensitively on the given
// name field. Returns the number of areas that received a boundary. Areas
// without a shapefile record keep a nil boundary and fall back to radius
// approximation at query time.
func AttachBoundaries(areas []Area, shpPath, nameField string) (int, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return 0, eris.Wrapf(err, "refdata: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	nameIdx := -1
	for i, f := range reader.Fields() {
		if strings.EqualFold(strings.TrimRight(f.String(), "\x00"), nameField) {
			nameIdx = i
			break
		}
	}
	if nameIdx < 0 {
		return 0, eris.Errorf("refdata: shapefile field %q not found", nameField)
	}

	boundaries := make(map[string]*geom.Polygon)
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()
		name := strings.TrimSpace(strings.TrimRight(reader.Attribute(nameIdx), "\x00"))
		if name == "" {
			continue
		}

		p, ok := shape.(*shp.Polygon)
		if !ok || p.NumParts == 0 || len(p.Points) == 0 {
			skipped++
			continue
		}
		boundaries[strings.ToLower(name)] = shpPolygon(p)
	}
	if skipped > 0 {
		zap.L().Debug("refdata: skipped non-polygon shapefile records", zap.Int("skipped", skipped))
	}

	var attached int
	for i := range areas {
		if poly, ok := boundaries[strings.ToLower(areas[i].Name)]; ok {
			areas[i].Boundary = poly
			attached++
		}
	}

	zap.L().Info("refdata: attached boundaries",
		zap.String("path", shpPath),
		zap.Int("attached", attached),
		zap.Int("areas", len(areas)),
	)
	return attached, nil
}

// shpPolygon converts a shapefile polygon to a go-geom polygon. The first part
// becomes the outer ring; later parts become interior rings. Shapefile points
// are (X=lng, Y=lat), matching GeoJSON axis order.
func shpPolygon(p *shp.Polygon) *geom.Polygon {
	rings := make([][]geom.Coord, 0, p.NumParts)

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}

		coords := make([]geom.Coord, 0, end-start)
		for j := start; j < end; j++ {
			coords = append(coords, geom.Coord{p.Points[j].X, p.Points[j].Y})
		}
		rings = append(rings, coords)
	}

	return geom.NewPolygon(geom.XY).MustSetCoords(rings)
}
