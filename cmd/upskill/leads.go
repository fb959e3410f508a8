package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "List captured leads",
	Long:  `Lists the leads captured by completed assessments, newest first, from the configured lead store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		app, err := buildApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		leads, err := app.Leads.List(ctx, limit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonMode, _ := cmd.Flags().GetBool("json"); jsonMode {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(leads)
		}
		if len(leads) == 0 {
			fmt.Fprintln(out, "No leads yet.")
			return nil
		}

		currency := app.Engine.Catalog().Currency
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CREATED\tCOMPANY\tCONTACT\tEMAIL\tTEAM\tTRACK\tDELIVERY\tQUOTE")
		for _, l := range leads {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s%s\n",
				l.CreatedAt.Format("2006-01-02 15:04"), l.CompanyName, l.ContactName, l.Email,
				l.TeamSize, l.RecommendedTrack, l.Delivery, currency, l.QuoteValue)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(leadsCmd)

	leadsCmd.Flags().Int("limit", 20, "Maximum number of leads (0 for all)")
	leadsCmd.Flags().Bool("json", false, "Print leads as JSON")
}
