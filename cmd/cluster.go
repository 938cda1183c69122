package main

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/siteselect/internal/cluster"
)

var (
	clusterEpsKM      float64
	clusterMinSamples int
)

var clusterCmd = &cobra.Command{
	Use:   "cluster <points-file>",
	Short: "Cluster coordinates from a JSON or CSV file",
	Long:  "Reads points from a JSON array of {lat, lon} objects or a CSV with latitude,longitude columns and reports density clusters and noise.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		points, err := readPoints(args[0])
		if err != nil {
			return err
		}

		epsKM := clusterEpsKM
		if epsKM == 0 {
			epsKM = cfg.Cluster.EpsKM
		}
		minSamples := clusterMinSamples
		if minSamples == 0 {
			minSamples = cfg.Cluster.MinSamples
		}

		res, err := env.Engine.ClusterPoints(cmd.Context(), points, epsKM, minSamples)
		if err != nil {
			return eris.Wrap(err, "cluster")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

// readPoints loads coordinates from a JSON array or a CSV file with a header.
func readPoints(path string) ([]cluster.Point, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "read points file")
	}

	if len(data) > 0 && data[0] == '[' {
		var points []cluster.Point
		if err := json.Unmarshal(data, &points); err != nil {
			return nil, eris.Wrap(err, "parse points JSON")
		}
		return points, nil
	}
	return readPointsCSV(path)
}

func readPointsCSV(path string) ([]cluster.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "open points CSV")
	}
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "parse points CSV")
	}
	if len(records) < 2 {
		return nil, eris.New("points CSV has no data rows")
	}

	latIdx, lngIdx := -1, -1
	for i, h := range records[0] {
		switch h {
		case "latitude", "lat":
			latIdx = i
		case "longitude", "lon", "lng":
			lngIdx = i
		}
	}
	if latIdx < 0 || lngIdx < 0 {
		return nil, eris.New("points CSV needs latitude and longitude columns")
	}

	points := make([]cluster.Point, 0, len(records)-1)
	for n, row := range records[1:] {
		lat, err := strconv.ParseFloat(row[latIdx], 64)
		if err != nil {
			return nil, eris.Wrapf(err, "points CSV row %d: bad latitude", n+2)
		}
		lng, err := strconv.ParseFloat(row[lngIdx], 64)
		if err != nil {
			return nil, eris.Wrapf(err, "points CSV row %d: bad longitude", n+2)
		}
		points = append(points, cluster.Point{Lat: lat, Lng: lng})
	}
	return points, nil
}

func init() {
	clusterCmd.Flags().Float64Var(&clusterEpsKM, "eps-km", 0, "neighborhood radius in km (default from config)")
	clusterCmd.Flags().IntVar(&clusterMinSamples, "min-samples", 0, "minimum neighbors including self (default from config)")
	rootCmd.AddCommand(clusterCmd)
}
