package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var presetsCmd = &cobra.Command{
	Use:     "presets",
	Aliases: []string{"list"},
	Short:   "List the configured scorecards",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cards, err := loadCards()
		if err != nil {
			return err
		}

		bold := color.New(color.Bold)
		faint := color.New(color.Faint)
		out := cmd.OutOrStdout()
		for _, c := range cards {
			keys := make([]string, len(c.Layout.Columns))
			for i, col := range c.Layout.Columns {
				keys[i] = col.Key
			}
			fmt.Fprintf(out, "%s  %s\n", bold.Sprint(c.Name), c.Title)
			where := c.Source.Endpoint()
			if where == "" {
				where = c.Source.SpreadsheetID + " " + c.Source.Range
			}
			fmt.Fprintf(out, "  source:  %s %s\n", c.Source.Kind, where)
			fmt.Fprintf(out, "  columns: %s\n", strings.Join(keys, ", "))
			fmt.Fprintf(out, "  grades:  %s\n", strings.Join(c.Table.Grades(), " "))
			if c.SortColumn != "" {
				fmt.Fprintf(out, "  sort:    %s\n", c.SortColumn)
			}
			fmt.Fprintln(out, faint.Sprintf("  min fields: %d", c.Layout.MinimumFields()))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}
