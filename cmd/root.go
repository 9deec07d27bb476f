package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Global flag values.
var (
	configPath string
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:   "scorecard",
	Short: "Render legislator scorecards from published spreadsheets",
	Long: `Scorecard fetches a legislator grade sheet (published CSV, Google
Visualization JSON or the Sheets API), normalizes every row and renders the
color-coded grades as an HTML page, a JSON document, a terminal table or a
small web server.

Scorecards are defined in a YAML file (--config, or SCORECARD_CONFIG). Without
one the built-in presets are used: house-tariff, senate-tariff, senate-2026.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "scorecard definitions file (default $SCORECARD_CONFIG or scorecards.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
