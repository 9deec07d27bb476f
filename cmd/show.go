package cmd

import (
	"fmt"

	"scorecard/internal/page"

	"github.com/spf13/cobra"
)

var (
	showSort   string
	showMember string
	showFlags  queryFlags

	showCmd = &cobra.Command{
		Use:   "show <scorecard>",
		Short: "Print a scorecard as a colored terminal table",
		Long: `Show fetches one scorecard and prints the grades as an aligned table,
optionally filtered. With --member the detail view of one row is printed as
JSON instead.`,
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}
)

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringVar(&showFlags.q, "q", "", "free-text filter over name, party/state and reason")
	showCmd.Flags().StringVar(&showFlags.party, "party", "", "party filter, e.g. D")
	showCmd.Flags().StringVar(&showFlags.state, "state", "", "state filter, e.g. CO")
	showCmd.Flags().StringVar(&showFlags.grade, "grade", "", "overall grade filter, e.g. A")
	showCmd.Flags().StringVar(&showSort, "sort", "", "column key to sort by (default the scorecard's sort column)")
	showCmd.Flags().StringVar(&showMember, "member", "", "print the detail view of the row with this id")
}

func runShow(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd.Context())
	if err != nil {
		return err
	}
	ds, err := svc.Load(cmd.Context(), args[0])
	if ds == nil {
		return err
	}

	if showMember != "" {
		det, ok := ds.Detail(showMember)
		if !ok {
			return fmt.Errorf("no member %q in %s", showMember, ds.Card.Name)
		}
		return page.WriteJSON(cmd.OutOrStdout(), det)
	}

	q := showFlags.query()
	rows := ds.Filter(q)
	if showSort != "" {
		if ds.Card.Layout.Key(showSort) < 0 {
			return fmt.Errorf("unknown sort column %q", showSort)
		}
		rows = q.Apply(ds.Card.Layout, ds.SortBy(showSort))
	}
	return page.WriteTable(cmd.OutOrStdout(), ds, rows)
}
