package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/siteselect/internal/catalog"
)

var rankRadiusKM float64

var rankCmd = &cobra.Command{
	Use:   "rank <category>",
	Short: "Rank the best areas for a business category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		radius := rankRadiusKM
		if radius == 0 {
			radius = cfg.Ranking.DefaultRadiusKM
		}

		res, err := env.Engine.RankAreas(cmd.Context(), catalog.Category(args[0]), radius)
		if err != nil {
			return eris.Wrap(err, "rank")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func init() {
	rankCmd.Flags().Float64Var(&rankRadiusKM, "radius", 0, "catchment radius in km (default from config)")
	rootCmd.AddCommand(rankCmd)
}
