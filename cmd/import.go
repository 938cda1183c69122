package main

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/twpayne/go-geom/encoding/wkt"
	"go.uber.org/zap"

	"github.com/sells-group/siteselect/internal/catalog"
	"github.com/sells-group/siteselect/internal/db"
	"github.com/sells-group/siteselect/internal/refdata"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load the reference dataset into PostGIS",
	Long:  "Reads the area criteria dataset (CSV or XLSX), the POI table, and the optional boundary shapefile named in config, and loads them into geo.areas and geo.pois.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("import"); err != nil {
			return err
		}

		ctx := cmd.Context()
		pool, err := db.Connect(ctx, cfg.RefData.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		cat, err := loadCatalog()
		if err != nil {
			return err
		}

		src, err := loadMemorySource(cat)
		if err != nil {
			return err
		}

		return runImport(ctx, pool, src)
	},
}

var importSchema = []string{
	`CREATE SCHEMA IF NOT EXISTS geo`,
	`CREATE TABLE IF NOT EXISTS geo.areas (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		population_density DOUBLE PRECISION NOT NULL DEFAULT 0,
		footfall DOUBLE PRECISION NOT NULL DEFAULT 0,
		transit DOUBLE PRECISION NOT NULL DEFAULT 0,
		traffic DOUBLE PRECISION NOT NULL DEFAULT 0,
		rent_value DOUBLE PRECISION NOT NULL DEFAULT 0,
		parking DOUBLE PRECISION NOT NULL DEFAULT 0,
		night_activity DOUBLE PRECISION NOT NULL DEFAULT 0,
		walkability DOUBLE PRECISION NOT NULL DEFAULT 0,
		poi_synergy DOUBLE PRECISION NOT NULL DEFAULT 0,
		safety DOUBLE PRECISION NOT NULL DEFAULT 0,
		geom geometry(Polygon, 4326)
	)`,
	`CREATE TABLE IF NOT EXISTS geo.pois (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT,
		super_category TEXT NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		geom geometry(Point, 4326)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_pois_geom ON geo.pois USING gist (geom)`,
	`CREATE INDEX IF NOT EXISTS idx_pois_super ON geo.pois (super_category)`,
	`TRUNCATE geo.pois`,
}

// runImport creates the schema and bulk-loads the dataset. Areas are upserted
// by name so a re-import refreshes criteria in place; POIs have no natural
// key and are reloaded wholesale.
func runImport(ctx context.Context, pool db.TxBeginner, src *refdata.MemorySource) error {
	for _, stmt := range importSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return eris.Wrap(err, "import: prepare schema")
		}
	}

	areas, err := src.Areas(ctx)
	if err != nil {
		return err
	}

	areaColumns := []string{
		"name", "latitude", "longitude",
		"population_density", "footfall", "transit", "traffic", "rent_value",
		"parking", "night_activity", "walkability", "poi_synergy", "safety",
	}
	areaRows := make([][]any, 0, len(areas))
	for _, a := range areas {
		row := []any{a.Name, a.Lat, a.Lng}
		for _, crit := range catalog.Criteria() {
			row = append(row, a.Criteria[crit])
		}
		areaRows = append(areaRows, row)
	}
	loaded, err := db.BulkUpsert(ctx, pool, db.UpsertConfig{
		Schema:       "geo",
		Table:        "areas",
		Columns:      areaColumns,
		ConflictKeys: []string{"name"},
	}, areaRows)
	if err != nil {
		return err
	}
	zap.L().Info("import: loaded areas", zap.Int64("rows", loaded))

	for _, a := range areas {
		if a.Boundary == nil {
			continue
		}
		w, err := wkt.Marshal(a.Boundary)
		if err != nil {
			return eris.Wrapf(err, "import: marshal boundary for %s", a.Name)
		}
		if _, err := pool.Exec(ctx,
			`UPDATE geo.areas SET geom = ST_GeomFromText($1, 4326) WHERE name = $2`, w, a.Name); err != nil {
			return eris.Wrapf(err, "import: attach boundary for %s", a.Name)
		}
	}

	pois, err := src.POIs(ctx)
	if err != nil {
		return err
	}
	poiColumns := []string{"name", "category", "super_category", "latitude", "longitude"}
	poiRows := make([][]any, 0, len(pois))
	for _, p := range pois {
		poiRows = append(poiRows, []any{p.Name, p.Category, string(p.Super), p.Lat, p.Lng})
	}
	loaded, err = db.CopyFromSchema(ctx, pool, "geo", "pois", poiColumns, poiRows)
	if err != nil {
		return err
	}

	if _, err := pool.Exec(ctx,
		`UPDATE geo.pois SET geom = ST_SetSRID(ST_MakePoint(longitude, latitude), 4326) WHERE geom IS NULL`); err != nil {
		return eris.Wrap(err, "import: set POI geometry")
	}

	zap.L().Info("import: loaded POIs", zap.Int64("rows", loaded))
	return nil
}

func init() {
	rootCmd.AddCommand(importCmd)
}
