package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var analyzeAsMessage bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <area-or-location>",
	Short: "Analyze gap and complementary business opportunities for an area",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		res, err := env.Engine.AnalyzeArea(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return eris.Wrap(err, "analyze")
		}

		if analyzeAsMessage {
			fmt.Println(res.Message)
			return nil
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeAsMessage, "message", false, "print the rendered markdown summary instead of JSON")
	rootCmd.AddCommand(analyzeCmd)
}
